// internal/service/payment_service.go
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

// UpdatePaymentInput carries the optional fields of a payment update.
// Nil fields keep their current value. Payer, payee and group are fixed
// at creation time.
type UpdatePaymentInput struct {
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

// PaymentService defines the interface for payment business logic.
// Every mutation recomputes the group's balances inside the same
// transaction as the ledger write.
type PaymentService interface {
	CreatePayment(ctx context.Context, fromUserID, toUserID string, amount decimal.Decimal, groupID string, date time.Time, description, expenseID *string) (*domain.PaymentWithDetails, error)
	GetPayment(ctx context.Context, id string) (*domain.PaymentWithDetails, error)
	ListGroupPayments(ctx context.Context, groupID string) ([]domain.PaymentWithDetails, error)
	ListPaymentsBetweenUsers(ctx context.Context, groupID, user1ID, user2ID string) ([]domain.PaymentWithDetails, error)
	ListUserPayments(ctx context.Context, groupID, userID string) ([]domain.PaymentWithDetails, error)
	UpdatePayment(ctx context.Context, id string, input UpdatePaymentInput) (*domain.PaymentWithDetails, error)
	DeletePayment(ctx context.Context, id string) error
}

// paymentService implements the PaymentService interface.
type paymentService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	groupRepo   repository.GroupRepository
	expenseRepo repository.ExpenseRepository
	paymentRepo repository.PaymentRepository
	balanceSvc  BalanceService
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	groupRepo repository.GroupRepository,
	expenseRepo repository.ExpenseRepository,
	paymentRepo repository.PaymentRepository,
	balanceSvc BalanceService,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) PaymentService {
	return &paymentService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		groupRepo:   groupRepo,
		expenseRepo: expenseRepo,
		paymentRepo: paymentRepo,
		balanceSvc:  balanceSvc,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// CreatePayment records a direct transfer between two members and rebuilds
// the group's balances in the same transaction. A linked expense, when
// given, must belong to the same group.
func (s *paymentService) CreatePayment(ctx context.Context, fromUserID, toUserID string, amount decimal.Decimal, groupID string, date time.Time, description, expenseID *string) (*domain.PaymentWithDetails, error) {
	payment := domain.NewPayment(fromUserID, toUserID, amount, groupID, date, description, expenseID)
	if !payment.ValidUsers() {
		return nil, util.ErrSamePayerPayee
	}
	if !payment.ValidAmount() || !payment.ValidDate() {
		return nil, util.ErrInvalidInput
	}

	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, fmt.Errorf("create payment: failed to get group %s: %w", groupID, err)
	}
	for _, userID := range []string{fromUserID, toUserID} {
		isMember, err := s.groupRepo.IsMember(ctx, s.dbExecutor, groupID, userID)
		if err != nil {
			return nil, fmt.Errorf("create payment: failed to check membership: %w", err)
		}
		if !isMember {
			return nil, util.ErrNotGroupMember
		}
	}
	if expenseID != nil {
		expense, err := s.expenseRepo.GetExpenseByID(ctx, s.dbExecutor, *expenseID)
		if err != nil {
			return nil, fmt.Errorf("create payment: failed to get linked expense %s: %w", *expenseID, err)
		}
		if expense.GroupID != groupID {
			return nil, util.ErrInvalidInput
		}
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create payment: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create payment: transaction controller does not implement DBExecutor")
	}

	if err := s.groupRepo.LockGroup(ctx, txExecutor, groupID); err != nil {
		return nil, fmt.Errorf("create payment: failed to lock group %s: %w", groupID, err)
	}
	if err := s.paymentRepo.CreatePayment(ctx, txExecutor, payment); err != nil {
		return nil, fmt.Errorf("create payment: failed to create payment: %w", err)
	}
	if err := s.balanceSvc.RecomputeGroupBalances(ctx, txExecutor, groupID); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	created, err := s.paymentRepo.GetPaymentByID(ctx, txExecutor, payment.ID)
	if err != nil {
		return nil, fmt.Errorf("create payment: failed to re-fetch payment %s: %w", payment.ID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create payment: failed to commit transaction: %w", err)
	}
	return created, nil
}

// GetPayment retrieves a payment with user and group details.
func (s *paymentService) GetPayment(ctx context.Context, id string) (*domain.PaymentWithDetails, error) {
	payment, err := s.paymentRepo.GetPaymentByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get payment: failed to get payment %s: %w", id, err)
	}
	return payment, nil
}

// ListGroupPayments retrieves all payments of a group, newest first.
func (s *paymentService) ListGroupPayments(ctx context.Context, groupID string) ([]domain.PaymentWithDetails, error) {
	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, fmt.Errorf("list payments: failed to get group %s: %w", groupID, err)
	}
	payments, err := s.paymentRepo.ListPaymentsByGroup(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("list payments: failed to list payments of group %s: %w", groupID, err)
	}
	return payments, nil
}

// ListPaymentsBetweenUsers retrieves payments exchanged between two members
// of a group, in either direction.
func (s *paymentService) ListPaymentsBetweenUsers(ctx context.Context, groupID, user1ID, user2ID string) ([]domain.PaymentWithDetails, error) {
	payments, err := s.paymentRepo.ListPaymentsBetweenUsers(ctx, s.dbExecutor, groupID, user1ID, user2ID)
	if err != nil {
		return nil, fmt.Errorf("list payments between users: failed to list payments: %w", err)
	}
	return payments, nil
}

// ListUserPayments retrieves the payments a user sent or received in a group.
func (s *paymentService) ListUserPayments(ctx context.Context, groupID, userID string) ([]domain.PaymentWithDetails, error) {
	payments, err := s.paymentRepo.ListPaymentsByUser(ctx, s.dbExecutor, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("list user payments: failed to list payments of user %s: %w", userID, err)
	}
	return payments, nil
}

// UpdatePayment applies a partial update and rebuilds the group's balances
// in the same transaction.
func (s *paymentService) UpdatePayment(ctx context.Context, id string, input UpdatePaymentInput) (*domain.PaymentWithDetails, error) {
	existing, err := s.paymentRepo.GetPaymentByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("update payment: failed to get payment %s: %w", id, err)
	}

	payment := existing.Payment
	if input.Amount != nil {
		payment.Amount = *input.Amount
	}
	if input.Description != nil {
		payment.Description = input.Description
	}
	if input.Date != nil {
		payment.Date = *input.Date
	}
	if !payment.ValidAmount() || !payment.ValidDate() {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("update payment: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("update payment: transaction controller does not implement DBExecutor")
	}

	if err := s.groupRepo.LockGroup(ctx, txExecutor, payment.GroupID); err != nil {
		return nil, fmt.Errorf("update payment: failed to lock group %s: %w", payment.GroupID, err)
	}
	if err := s.paymentRepo.UpdatePayment(ctx, txExecutor, &payment); err != nil {
		return nil, fmt.Errorf("update payment: failed to update payment %s: %w", id, err)
	}
	if err := s.balanceSvc.RecomputeGroupBalances(ctx, txExecutor, payment.GroupID); err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}

	updated, err := s.paymentRepo.GetPaymentByID(ctx, txExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("update payment: failed to re-fetch payment %s: %w", id, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("update payment: failed to commit transaction: %w", err)
	}
	return updated, nil
}

// DeletePayment removes a payment and rebuilds the group's balances in the
// same transaction.
func (s *paymentService) DeletePayment(ctx context.Context, id string) error {
	existing, err := s.paymentRepo.GetPaymentByID(ctx, s.dbExecutor, id)
	if err != nil {
		return fmt.Errorf("delete payment: failed to get payment %s: %w", id, err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("delete payment: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("delete payment: transaction controller does not implement DBExecutor")
	}

	if err := s.groupRepo.LockGroup(ctx, txExecutor, existing.GroupID); err != nil {
		return fmt.Errorf("delete payment: failed to lock group %s: %w", existing.GroupID, err)
	}
	if err := s.paymentRepo.DeletePayment(ctx, txExecutor, id); err != nil {
		return fmt.Errorf("delete payment: failed to delete payment %s: %w", id, err)
	}
	if err := s.balanceSvc.RecomputeGroupBalances(ctx, txExecutor, existing.GroupID); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("delete payment: failed to commit transaction: %w", err)
	}
	return nil
}
