// internal/repository/expense_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"splitledger/internal/domain"
)

// ExpenseRepository defines the interface for expense data operations.
type ExpenseRepository interface {
	// CreateExpense adds a new expense using the provided DBExecutor.
	CreateExpense(ctx context.Context, q DBExecutor, expense *domain.Expense) error
	// GetExpenseByID retrieves an expense with payer and group details.
	GetExpenseByID(ctx context.Context, q DBExecutor, id string) (*domain.ExpenseWithDetails, error)
	// ListExpensesByGroup retrieves a group's expenses, newest first.
	ListExpensesByGroup(ctx context.Context, q DBExecutor, groupID string) ([]domain.ExpenseWithDetails, error)
	// ListExpensesByUserAndGroup retrieves the expenses one user paid in a group.
	ListExpensesByUserAndGroup(ctx context.Context, q DBExecutor, userID, groupID string) ([]domain.ExpenseWithDetails, error)
	// UpdateExpense updates an existing expense.
	UpdateExpense(ctx context.Context, q DBExecutor, expense *domain.Expense) error
	// DeleteExpense removes an expense. Returns ErrExpenseNotFound if no row matched.
	DeleteExpense(ctx context.Context, q DBExecutor, id string) error
	// SumAmountByGroup returns the total of all expenses in a group.
	SumAmountByGroup(ctx context.Context, q DBExecutor, groupID string) (decimal.Decimal, error)
}
