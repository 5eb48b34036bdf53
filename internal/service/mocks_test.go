// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/pkg/db"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock transaction controller that also satisfies
// repository.DBExecutor, so services can run repo calls "inside" it.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// txFuncs returns begin/commit/rollback functions wired to the given
// controller, mirroring how the real ones are injected in production.
func txFuncs(tc *MockTxController) (db.BeginTxFunc, db.CommitTxFunc, db.RollbackTxFunc) {
	begin := func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
		return tc, nil
	}
	commit := func(tx db.TxController) error {
		return tc.Commit()
	}
	rollback := func(tx db.TxController) {
		_ = tc.Rollback()
	}
	return begin, commit, rollback
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.User, error) {
	args := m.Called(ctx, q, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, q repository.DBExecutor) ([]domain.User, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, q repository.DBExecutor, id string) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

// MockGroupRepository is a mock implementation of repository.GroupRepository.
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) CreateGroup(ctx context.Context, q repository.DBExecutor, group *domain.Group) error {
	args := m.Called(ctx, q, group)
	return args.Error(0)
}

func (m *MockGroupRepository) GetGroupByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.Group, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) GetGroupWithMembers(ctx context.Context, q repository.DBExecutor, id string) (*domain.GroupWithMembers, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupWithMembers), args.Error(1)
}

func (m *MockGroupRepository) ListGroupsByUser(ctx context.Context, q repository.DBExecutor, userID string) ([]domain.Group, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *MockGroupRepository) UpdateGroup(ctx context.Context, q repository.DBExecutor, group *domain.Group) error {
	args := m.Called(ctx, q, group)
	return args.Error(0)
}

func (m *MockGroupRepository) DeleteGroup(ctx context.Context, q repository.DBExecutor, id string) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockGroupRepository) AddMember(ctx context.Context, q repository.DBExecutor, member *domain.GroupMember) error {
	args := m.Called(ctx, q, member)
	return args.Error(0)
}

func (m *MockGroupRepository) RemoveMember(ctx context.Context, q repository.DBExecutor, groupID, userID string) error {
	args := m.Called(ctx, q, groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) IsMember(ctx context.Context, q repository.DBExecutor, groupID, userID string) (bool, error) {
	args := m.Called(ctx, q, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGroupRepository) IsAdmin(ctx context.Context, q repository.DBExecutor, groupID, userID string) (bool, error) {
	args := m.Called(ctx, q, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGroupRepository) GetMemberIDs(ctx context.Context, q repository.DBExecutor, groupID string) ([]string, error) {
	args := m.Called(ctx, q, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGroupRepository) LockGroup(ctx context.Context, q repository.DBExecutor, groupID string) error {
	args := m.Called(ctx, q, groupID)
	return args.Error(0)
}

// MockExpenseRepository is a mock implementation of repository.ExpenseRepository.
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) CreateExpense(ctx context.Context, q repository.DBExecutor, expense *domain.Expense) error {
	args := m.Called(ctx, q, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) GetExpenseByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.ExpenseWithDetails, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseWithDetails), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesByGroup(ctx context.Context, q repository.DBExecutor, groupID string) ([]domain.ExpenseWithDetails, error) {
	args := m.Called(ctx, q, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseWithDetails), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesByUserAndGroup(ctx context.Context, q repository.DBExecutor, userID, groupID string) ([]domain.ExpenseWithDetails, error) {
	args := m.Called(ctx, q, userID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseWithDetails), args.Error(1)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, q repository.DBExecutor, expense *domain.Expense) error {
	args := m.Called(ctx, q, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteExpense(ctx context.Context, q repository.DBExecutor, id string) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockExpenseRepository) SumAmountByGroup(ctx context.Context, q repository.DBExecutor, groupID string) (decimal.Decimal, error) {
	args := m.Called(ctx, q, groupID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockPaymentRepository is a mock implementation of repository.PaymentRepository.
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreatePayment(ctx context.Context, q repository.DBExecutor, payment *domain.Payment) error {
	args := m.Called(ctx, q, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetPaymentByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.PaymentWithDetails, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentWithDetails), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsByGroup(ctx context.Context, q repository.DBExecutor, groupID string) ([]domain.PaymentWithDetails, error) {
	args := m.Called(ctx, q, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentWithDetails), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsBetweenUsers(ctx context.Context, q repository.DBExecutor, groupID, user1ID, user2ID string) ([]domain.PaymentWithDetails, error) {
	args := m.Called(ctx, q, groupID, user1ID, user2ID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentWithDetails), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsByUser(ctx context.Context, q repository.DBExecutor, groupID, userID string) ([]domain.PaymentWithDetails, error) {
	args := m.Called(ctx, q, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentWithDetails), args.Error(1)
}

func (m *MockPaymentRepository) UpdatePayment(ctx context.Context, q repository.DBExecutor, payment *domain.Payment) error {
	args := m.Called(ctx, q, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) DeletePayment(ctx context.Context, q repository.DBExecutor, id string) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockPaymentRepository) SumAmountByGroup(ctx context.Context, q repository.DBExecutor, groupID string) (decimal.Decimal, error) {
	args := m.Called(ctx, q, groupID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockBalanceRepository is a mock implementation of repository.BalanceRepository.
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) Upsert(ctx context.Context, q repository.DBExecutor, userID, groupID string, balance decimal.Decimal) error {
	args := m.Called(ctx, q, userID, groupID, balance)
	return args.Error(0)
}

func (m *MockBalanceRepository) GetByUserAndGroup(ctx context.Context, q repository.DBExecutor, userID, groupID string) (*domain.BalanceWithDetails, error) {
	args := m.Called(ctx, q, userID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceWithDetails), args.Error(1)
}

func (m *MockBalanceRepository) ListByGroup(ctx context.Context, q repository.DBExecutor, groupID string) ([]domain.BalanceWithDetails, error) {
	args := m.Called(ctx, q, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceWithDetails), args.Error(1)
}

func (m *MockBalanceRepository) ListByUser(ctx context.Context, q repository.DBExecutor, userID string) ([]domain.BalanceWithDetails, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceWithDetails), args.Error(1)
}

func (m *MockBalanceRepository) Debtors(ctx context.Context, q repository.DBExecutor, groupID string) ([]domain.BalanceWithDetails, error) {
	args := m.Called(ctx, q, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceWithDetails), args.Error(1)
}

func (m *MockBalanceRepository) Creditors(ctx context.Context, q repository.DBExecutor, groupID string) ([]domain.BalanceWithDetails, error) {
	args := m.Called(ctx, q, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceWithDetails), args.Error(1)
}

func (m *MockBalanceRepository) Delete(ctx context.Context, q repository.DBExecutor, userID, groupID string) error {
	args := m.Called(ctx, q, userID, groupID)
	return args.Error(0)
}

func (m *MockBalanceRepository) DeleteByGroup(ctx context.Context, q repository.DBExecutor, groupID string) error {
	args := m.Called(ctx, q, groupID)
	return args.Error(0)
}

// MockBalanceService is a mock implementation of BalanceService, used by
// the ledger service tests to isolate the recompute contract.
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) RecomputeGroupBalances(ctx context.Context, q repository.DBExecutor, groupID string) error {
	args := m.Called(ctx, q, groupID)
	return args.Error(0)
}

func (m *MockBalanceService) Recalculate(ctx context.Context, groupID string) ([]domain.BalanceWithDetails, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceWithDetails), args.Error(1)
}

func (m *MockBalanceService) GroupSummary(ctx context.Context, groupID string) (*domain.GroupBalanceSummary, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GroupBalanceSummary), args.Error(1)
}

func (m *MockBalanceService) SettlementPlan(ctx context.Context, groupID string) ([]domain.Settlement, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Settlement), args.Error(1)
}

func (m *MockBalanceService) UserBalance(ctx context.Context, userID, groupID string) (*domain.BalanceWithDetails, error) {
	args := m.Called(ctx, userID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceWithDetails), args.Error(1)
}

func (m *MockBalanceService) UserBalances(ctx context.Context, userID string) (*domain.UserBalanceOverview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserBalanceOverview), args.Error(1)
}

func (m *MockBalanceService) Debtors(ctx context.Context, groupID string) ([]domain.BalanceWithDetails, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceWithDetails), args.Error(1)
}

func (m *MockBalanceService) Creditors(ctx context.Context, groupID string) ([]domain.BalanceWithDetails, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceWithDetails), args.Error(1)
}
