// internal/service/expense_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/internal/util"
	"splitledger/pkg/db"
)

// UpdateExpenseInput carries the optional fields of an expense update.
// Nil fields keep their current value.
type UpdateExpenseInput struct {
	Description *string
	Amount      *decimal.Decimal
	Date        *time.Time
	PaidBy      *string
}

// ExpenseService defines the interface for expense business logic.
// Every mutation recomputes the group's balances inside the same
// transaction as the ledger write.
type ExpenseService interface {
	CreateExpense(ctx context.Context, description string, amount decimal.Decimal, date time.Time, paidBy, groupID string) (*domain.ExpenseWithDetails, error)
	GetExpense(ctx context.Context, id string) (*domain.ExpenseWithDetails, error)
	ListGroupExpenses(ctx context.Context, groupID string) ([]domain.ExpenseWithDetails, error)
	ListUserExpenses(ctx context.Context, groupID, userID string) ([]domain.ExpenseWithDetails, error)
	UpdateExpense(ctx context.Context, id string, input UpdateExpenseInput) (*domain.ExpenseWithDetails, error)
	DeleteExpense(ctx context.Context, id string) error
}

// expenseService implements the ExpenseService interface.
type expenseService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	groupRepo   repository.GroupRepository
	expenseRepo repository.ExpenseRepository
	balanceSvc  BalanceService
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewExpenseService creates a new instance of ExpenseService.
func NewExpenseService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	groupRepo repository.GroupRepository,
	expenseRepo repository.ExpenseRepository,
	balanceSvc BalanceService,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) ExpenseService {
	return &expenseService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		groupRepo:   groupRepo,
		expenseRepo: expenseRepo,
		balanceSvc:  balanceSvc,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// CreateExpense records a group expense paid by one member and rebuilds the
// group's balances in the same transaction.
func (s *expenseService) CreateExpense(ctx context.Context, description string, amount decimal.Decimal, date time.Time, paidBy, groupID string) (*domain.ExpenseWithDetails, error) {
	expense := domain.NewExpense(description, amount, date, paidBy, groupID)
	if !expense.ValidDescription() || !expense.ValidAmount() || !expense.ValidDate() {
		return nil, util.ErrInvalidInput
	}

	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, fmt.Errorf("create expense: failed to get group %s: %w", groupID, err)
	}
	isMember, err := s.groupRepo.IsMember(ctx, s.dbExecutor, groupID, paidBy)
	if err != nil {
		return nil, fmt.Errorf("create expense: failed to check membership: %w", err)
	}
	if !isMember {
		return nil, util.ErrNotGroupMember
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create expense: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create expense: transaction controller does not implement DBExecutor")
	}

	if err := s.groupRepo.LockGroup(ctx, txExecutor, groupID); err != nil {
		return nil, fmt.Errorf("create expense: failed to lock group %s: %w", groupID, err)
	}
	if err := s.expenseRepo.CreateExpense(ctx, txExecutor, expense); err != nil {
		return nil, fmt.Errorf("create expense: failed to create expense: %w", err)
	}
	if err := s.balanceSvc.RecomputeGroupBalances(ctx, txExecutor, groupID); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	created, err := s.expenseRepo.GetExpenseByID(ctx, txExecutor, expense.ID)
	if err != nil {
		return nil, fmt.Errorf("create expense: failed to re-fetch expense %s: %w", expense.ID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create expense: failed to commit transaction: %w", err)
	}
	return created, nil
}

// GetExpense retrieves an expense with payer and group details.
func (s *expenseService) GetExpense(ctx context.Context, id string) (*domain.ExpenseWithDetails, error) {
	expense, err := s.expenseRepo.GetExpenseByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get expense: failed to get expense %s: %w", id, err)
	}
	return expense, nil
}

// ListGroupExpenses retrieves all expenses of a group, newest first.
func (s *expenseService) ListGroupExpenses(ctx context.Context, groupID string) ([]domain.ExpenseWithDetails, error) {
	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, fmt.Errorf("list expenses: failed to get group %s: %w", groupID, err)
	}
	expenses, err := s.expenseRepo.ListExpensesByGroup(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: failed to list expenses of group %s: %w", groupID, err)
	}
	return expenses, nil
}

// ListUserExpenses retrieves the expenses one user paid inside a group.
func (s *expenseService) ListUserExpenses(ctx context.Context, groupID, userID string) ([]domain.ExpenseWithDetails, error) {
	expenses, err := s.expenseRepo.ListExpensesByUserAndGroup(ctx, s.dbExecutor, userID, groupID)
	if err != nil {
		return nil, fmt.Errorf("list user expenses: failed to list expenses of user %s in group %s: %w", userID, groupID, err)
	}
	return expenses, nil
}

// UpdateExpense applies a partial update and rebuilds the group's balances
// in the same transaction.
func (s *expenseService) UpdateExpense(ctx context.Context, id string, input UpdateExpenseInput) (*domain.ExpenseWithDetails, error) {
	existing, err := s.expenseRepo.GetExpenseByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("update expense: failed to get expense %s: %w", id, err)
	}

	expense := existing.Expense
	if input.Description != nil {
		expense.Description = *input.Description
	}
	if input.Amount != nil {
		expense.Amount = *input.Amount
	}
	if input.Date != nil {
		expense.Date = *input.Date
	}
	if input.PaidBy != nil {
		expense.PaidBy = *input.PaidBy
	}
	if !expense.ValidDescription() || !expense.ValidAmount() || !expense.ValidDate() {
		return nil, util.ErrInvalidInput
	}

	if input.PaidBy != nil {
		isMember, err := s.groupRepo.IsMember(ctx, s.dbExecutor, expense.GroupID, expense.PaidBy)
		if err != nil {
			return nil, fmt.Errorf("update expense: failed to check membership: %w", err)
		}
		if !isMember {
			return nil, util.ErrNotGroupMember
		}
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("update expense: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("update expense: transaction controller does not implement DBExecutor")
	}

	if err := s.groupRepo.LockGroup(ctx, txExecutor, expense.GroupID); err != nil {
		return nil, fmt.Errorf("update expense: failed to lock group %s: %w", expense.GroupID, err)
	}
	if err := s.expenseRepo.UpdateExpense(ctx, txExecutor, &expense); err != nil {
		return nil, fmt.Errorf("update expense: failed to update expense %s: %w", id, err)
	}
	if err := s.balanceSvc.RecomputeGroupBalances(ctx, txExecutor, expense.GroupID); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	updated, err := s.expenseRepo.GetExpenseByID(ctx, txExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("update expense: failed to re-fetch expense %s: %w", id, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("update expense: failed to commit transaction: %w", err)
	}
	return updated, nil
}

// DeleteExpense removes an expense and rebuilds the group's balances in the
// same transaction.
func (s *expenseService) DeleteExpense(ctx context.Context, id string) error {
	existing, err := s.expenseRepo.GetExpenseByID(ctx, s.dbExecutor, id)
	if err != nil {
		return fmt.Errorf("delete expense: failed to get expense %s: %w", id, err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("delete expense: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("delete expense: transaction controller does not implement DBExecutor")
	}

	if err := s.groupRepo.LockGroup(ctx, txExecutor, existing.GroupID); err != nil {
		return fmt.Errorf("delete expense: failed to lock group %s: %w", existing.GroupID, err)
	}
	if err := s.expenseRepo.DeleteExpense(ctx, txExecutor, id); err != nil {
		return fmt.Errorf("delete expense: failed to delete expense %s: %w", id, err)
	}
	if err := s.balanceSvc.RecomputeGroupBalances(ctx, txExecutor, existing.GroupID); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("delete expense: failed to commit transaction: %w", err)
	}
	return nil
}
