// internal/repository/postgres/payment_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/internal/util"
)

const paymentDetailColumns = `
	p.id, p.from_user_id, p.to_user_id, p.amount, p.expense_id, p.group_id, p.description, p.date, p.created_at,
	fu.name AS from_user_name,
	tu.name AS to_user_name,
	g.name AS group_name,
	e.description AS expense_description`

const paymentDetailJoins = `
	FROM payments p
	JOIN users fu ON p.from_user_id = fu.id
	JOIN users tu ON p.to_user_id = tu.id
	JOIN groups g ON p.group_id = g.id
	LEFT JOIN expenses e ON p.expense_id = e.id`

// PaymentRepository implements repository.PaymentRepository for PostgreSQL.
type PaymentRepository struct{}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository() repository.PaymentRepository {
	return &PaymentRepository{}
}

// CreatePayment inserts a new payment into the database.
func (r *PaymentRepository) CreatePayment(ctx context.Context, q repository.DBExecutor, payment *domain.Payment) error {
	query := `INSERT INTO payments (id, from_user_id, to_user_id, amount, expense_id, group_id, description, date, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := q.ExecContext(ctx, query,
		payment.ID, payment.FromUserID, payment.ToUserID, payment.Amount, payment.ExpenseID,
		payment.GroupID, payment.Description, payment.Date, payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetPaymentByID retrieves a payment with user and group details.
func (r *PaymentRepository) GetPaymentByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.PaymentWithDetails, error) {
	var payment domain.PaymentWithDetails
	query := fmt.Sprintf(`SELECT %s %s WHERE p.id = $1`, paymentDetailColumns, paymentDetailJoins)
	err := q.GetContext(ctx, &payment, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment by ID %s: %w", id, err)
	}
	return &payment, nil
}

// ListPaymentsByGroup retrieves a group's payments, newest first.
func (r *PaymentRepository) ListPaymentsByGroup(ctx context.Context, q repository.DBExecutor, groupID string) ([]domain.PaymentWithDetails, error) {
	payments := []domain.PaymentWithDetails{}
	query := fmt.Sprintf(`SELECT %s %s WHERE p.group_id = $1 ORDER BY p.date DESC, p.created_at DESC`,
		paymentDetailColumns, paymentDetailJoins)
	if err := q.SelectContext(ctx, &payments, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to list payments of group %s: %w", groupID, err)
	}
	return payments, nil
}

// ListPaymentsBetweenUsers retrieves payments exchanged between two users in
// a group, in either direction.
func (r *PaymentRepository) ListPaymentsBetweenUsers(ctx context.Context, q repository.DBExecutor, groupID, user1ID, user2ID string) ([]domain.PaymentWithDetails, error) {
	payments := []domain.PaymentWithDetails{}
	query := fmt.Sprintf(`
		SELECT %s %s
		WHERE p.group_id = $1
		  AND ((p.from_user_id = $2 AND p.to_user_id = $3) OR (p.from_user_id = $3 AND p.to_user_id = $2))
		ORDER BY p.date DESC, p.created_at DESC`, paymentDetailColumns, paymentDetailJoins)
	if err := q.SelectContext(ctx, &payments, query, groupID, user1ID, user2ID); err != nil {
		return nil, fmt.Errorf("failed to list payments between %s and %s: %w", user1ID, user2ID, err)
	}
	return payments, nil
}

// ListPaymentsByUser retrieves payments a user sent or received in a group.
func (r *PaymentRepository) ListPaymentsByUser(ctx context.Context, q repository.DBExecutor, groupID, userID string) ([]domain.PaymentWithDetails, error) {
	payments := []domain.PaymentWithDetails{}
	query := fmt.Sprintf(`
		SELECT %s %s
		WHERE p.group_id = $1 AND (p.from_user_id = $2 OR p.to_user_id = $2)
		ORDER BY p.date DESC, p.created_at DESC`, paymentDetailColumns, paymentDetailJoins)
	if err := q.SelectContext(ctx, &payments, query, groupID, userID); err != nil {
		return nil, fmt.Errorf("failed to list payments of user %s in group %s: %w", userID, groupID, err)
	}
	return payments, nil
}

// UpdatePayment updates a payment's amount, description and date.
func (r *PaymentRepository) UpdatePayment(ctx context.Context, q repository.DBExecutor, payment *domain.Payment) error {
	query := `UPDATE payments SET amount = $1, description = $2, date = $3 WHERE id = $4`
	result, err := q.ExecContext(ctx, query, payment.Amount, payment.Description, payment.Date, payment.ID)
	if err != nil {
		return fmt.Errorf("failed to update payment %s: %w", payment.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating payment %s: %w", payment.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrPaymentNotFound
	}
	return nil
}

// DeletePayment removes a payment.
func (r *PaymentRepository) DeletePayment(ctx context.Context, q repository.DBExecutor, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting payment %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrPaymentNotFound
	}
	return nil
}

// SumAmountByGroup returns the total of all payments in a group.
func (r *PaymentRepository) SumAmountByGroup(ctx context.Context, q repository.DBExecutor, groupID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE group_id = $1`
	if err := q.GetContext(ctx, &total, query, groupID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments of group %s: %w", groupID, err)
	}
	return total, nil
}
