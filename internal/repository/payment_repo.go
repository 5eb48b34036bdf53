// internal/repository/payment_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"splitledger/internal/domain"
)

// PaymentRepository defines the interface for payment data operations.
type PaymentRepository interface {
	// CreatePayment adds a new payment using the provided DBExecutor.
	CreatePayment(ctx context.Context, q DBExecutor, payment *domain.Payment) error
	// GetPaymentByID retrieves a payment with user and group details.
	GetPaymentByID(ctx context.Context, q DBExecutor, id string) (*domain.PaymentWithDetails, error)
	// ListPaymentsByGroup retrieves a group's payments, newest first.
	ListPaymentsByGroup(ctx context.Context, q DBExecutor, groupID string) ([]domain.PaymentWithDetails, error)
	// ListPaymentsBetweenUsers retrieves payments exchanged between two users
	// in a group, in either direction.
	ListPaymentsBetweenUsers(ctx context.Context, q DBExecutor, groupID, user1ID, user2ID string) ([]domain.PaymentWithDetails, error)
	// ListPaymentsByUser retrieves payments a user sent or received in a group.
	ListPaymentsByUser(ctx context.Context, q DBExecutor, groupID, userID string) ([]domain.PaymentWithDetails, error)
	// UpdatePayment updates a payment's amount, description and date.
	UpdatePayment(ctx context.Context, q DBExecutor, payment *domain.Payment) error
	// DeletePayment removes a payment. Returns ErrPaymentNotFound if no row matched.
	DeletePayment(ctx context.Context, q DBExecutor, id string) error
	// SumAmountByGroup returns the total of all payments in a group.
	SumAmountByGroup(ctx context.Context, q DBExecutor, groupID string) (decimal.Decimal, error)
}
