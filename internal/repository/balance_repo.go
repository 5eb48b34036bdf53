// internal/repository/balance_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"splitledger/internal/domain"
)

// BalanceRepository defines the interface for the cached balance table.
// Rows are derived data: upserted on recomputation, never patched
// incrementally, deleted when the user leaves the group or the group is
// deleted.
type BalanceRepository interface {
	// Upsert writes the balance for (user, group). Last write wins; no
	// historical balance log is kept.
	Upsert(ctx context.Context, q DBExecutor, userID, groupID string, balance decimal.Decimal) error
	// GetByUserAndGroup retrieves one user's balance in a group.
	GetByUserAndGroup(ctx context.Context, q DBExecutor, userID, groupID string) (*domain.BalanceWithDetails, error)
	// ListByGroup retrieves a group's balances sorted by balance descending.
	// The settlement planner depends on this sort order for deterministic
	// tie-breaking.
	ListByGroup(ctx context.Context, q DBExecutor, groupID string) ([]domain.BalanceWithDetails, error)
	// ListByUser retrieves a user's balances across all groups, largest
	// absolute position first.
	ListByUser(ctx context.Context, q DBExecutor, userID string) ([]domain.BalanceWithDetails, error)
	// Debtors retrieves the group's negative balances, most negative first.
	Debtors(ctx context.Context, q DBExecutor, groupID string) ([]domain.BalanceWithDetails, error)
	// Creditors retrieves the group's positive balances, largest first.
	Creditors(ctx context.Context, q DBExecutor, groupID string) ([]domain.BalanceWithDetails, error)
	// Delete removes the balance row for (user, group).
	Delete(ctx context.Context, q DBExecutor, userID, groupID string) error
	// DeleteByGroup removes all balance rows of a group.
	DeleteByGroup(ctx context.Context, q DBExecutor, groupID string) error
}
