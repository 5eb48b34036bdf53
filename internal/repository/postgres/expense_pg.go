// internal/repository/postgres/expense_pg.go
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

const expenseDetailColumns = `
	e.id, e.description, e.amount, e.date, e.paid_by, e.group_id, e.created_at,
	u.name AS paid_by_name, u.email AS paid_by_email,
	g.name AS group_name`

// ExpenseRepository implements repository.ExpenseRepository for PostgreSQL.
type ExpenseRepository struct{}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository() repository.ExpenseRepository {
	return &ExpenseRepository{}
}

// CreateExpense inserts a new expense into the database.
func (r *ExpenseRepository) CreateExpense(ctx context.Context, q repository.DBExecutor, expense *domain.Expense) error {
	query := `INSERT INTO expenses (id, description, amount, date, paid_by, group_id, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := q.ExecContext(ctx, query,
		expense.ID, expense.Description, expense.Amount, expense.Date, expense.PaidBy, expense.GroupID, expense.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetExpenseByID retrieves an expense with payer and group details.
func (r *ExpenseRepository) GetExpenseByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.ExpenseWithDetails, error) {
	var expense domain.ExpenseWithDetails
	query := fmt.Sprintf(`
		SELECT %s
		FROM expenses e
		JOIN users u ON e.paid_by = u.id
		JOIN groups g ON e.group_id = g.id
		WHERE e.id = $1`, expenseDetailColumns)
	err := q.GetContext(ctx, &expense, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense by ID %s: %w", id, err)
	}
	return &expense, nil
}

// ListExpensesByGroup retrieves a group's expenses, newest first.
func (r *ExpenseRepository) ListExpensesByGroup(ctx context.Context, q repository.DBExecutor, groupID string) ([]domain.ExpenseWithDetails, error) {
	expenses := []domain.ExpenseWithDetails{}
	query := fmt.Sprintf(`
		SELECT %s
		FROM expenses e
		JOIN users u ON e.paid_by = u.id
		JOIN groups g ON e.group_id = g.id
		WHERE e.group_id = $1
		ORDER BY e.date DESC, e.created_at DESC`, expenseDetailColumns)
	if err := q.SelectContext(ctx, &expenses, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to list expenses of group %s: %w", groupID, err)
	}
	return expenses, nil
}

// ListExpensesByUserAndGroup retrieves the expenses one user paid in a group.
func (r *ExpenseRepository) ListExpensesByUserAndGroup(ctx context.Context, q repository.DBExecutor, userID, groupID string) ([]domain.ExpenseWithDetails, error) {
	expenses := []domain.ExpenseWithDetails{}
	query := fmt.Sprintf(`
		SELECT %s
		FROM expenses e
		JOIN users u ON e.paid_by = u.id
		JOIN groups g ON e.group_id = g.id
		WHERE e.paid_by = $1 AND e.group_id = $2
		ORDER BY e.date DESC, e.created_at DESC`, expenseDetailColumns)
	if err := q.SelectContext(ctx, &expenses, query, userID, groupID); err != nil {
		return nil, fmt.Errorf("failed to list expenses of user %s in group %s: %w", userID, groupID, err)
	}
	return expenses, nil
}

// UpdateExpense updates an existing expense.
func (r *ExpenseRepository) UpdateExpense(ctx context.Context, q repository.DBExecutor, expense *domain.Expense) error {
	query := `UPDATE expenses SET description = $1, amount = $2, date = $3, paid_by = $4 WHERE id = $5`
	result, err := q.ExecContext(ctx, query, expense.Description, expense.Amount, expense.Date, expense.PaidBy, expense.ID)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", expense.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating expense %s: %w", expense.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrExpenseNotFound
	}
	return nil
}

// DeleteExpense removes an expense.
func (r *ExpenseRepository) DeleteExpense(ctx context.Context, q repository.DBExecutor, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting expense %s: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrExpenseNotFound
	}
	return nil
}

// SumAmountByGroup returns the total of all expenses in a group.
func (r *ExpenseRepository) SumAmountByGroup(ctx context.Context, q repository.DBExecutor, groupID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE group_id = $1`
	if err := q.GetContext(ctx, &total, query, groupID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses of group %s: %w", groupID, err)
	}
	return total, nil
}
