// internal/repository/postgres/balance_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/internal/util"
)

const balanceDetailColumns = `
	b.user_id, b.group_id, b.balance, b.updated_at,
	u.name AS user_name, u.email AS user_email,
	g.name AS group_name`

const balanceDetailJoins = `
	FROM balances b
	JOIN users u ON b.user_id = u.id
	JOIN groups g ON b.group_id = g.id`

// BalanceRepository implements repository.BalanceRepository for PostgreSQL.
type BalanceRepository struct{}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository() repository.BalanceRepository {
	return &BalanceRepository{}
}

// Upsert writes the balance for (user, group). Last write wins.
func (r *BalanceRepository) Upsert(ctx context.Context, q repository.DBExecutor, userID, groupID string, balance decimal.Decimal) error {
	query := `
		INSERT INTO balances (user_id, group_id, balance, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, group_id)
		DO UPDATE SET balance = EXCLUDED.balance, updated_at = EXCLUDED.updated_at`
	_, err := q.ExecContext(ctx, query, userID, groupID, balance, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert balance for user %s in group %s: %w", userID, groupID, err)
	}
	return nil
}

// GetByUserAndGroup retrieves one user's balance in a group.
func (r *BalanceRepository) GetByUserAndGroup(ctx context.Context, q repository.DBExecutor, userID, groupID string) (*domain.BalanceWithDetails, error) {
	var balance domain.BalanceWithDetails
	query := fmt.Sprintf(`SELECT %s %s WHERE b.user_id = $1 AND b.group_id = $2`,
		balanceDetailColumns, balanceDetailJoins)
	err := q.GetContext(ctx, &balance, query, userID, groupID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrBalanceNotFound
		}
		return nil, fmt.Errorf("failed to get balance of user %s in group %s: %w", userID, groupID, err)
	}
	return &balance, nil
}

// ListByGroup retrieves a group's balances sorted by balance descending.
// The settlement planner depends on this order for deterministic tie-breaking.
func (r *BalanceRepository) ListByGroup(ctx context.Context, q repository.DBExecutor, groupID string) ([]domain.BalanceWithDetails, error) {
	balances := []domain.BalanceWithDetails{}
	query := fmt.Sprintf(`SELECT %s %s WHERE b.group_id = $1 ORDER BY b.balance DESC, b.user_id`,
		balanceDetailColumns, balanceDetailJoins)
	if err := q.SelectContext(ctx, &balances, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to list balances of group %s: %w", groupID, err)
	}
	return balances, nil
}

// ListByUser retrieves a user's balances across all groups, largest absolute
// position first.
func (r *BalanceRepository) ListByUser(ctx context.Context, q repository.DBExecutor, userID string) ([]domain.BalanceWithDetails, error) {
	balances := []domain.BalanceWithDetails{}
	query := fmt.Sprintf(`SELECT %s %s WHERE b.user_id = $1 ORDER BY ABS(b.balance) DESC`,
		balanceDetailColumns, balanceDetailJoins)
	if err := q.SelectContext(ctx, &balances, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list balances of user %s: %w", userID, err)
	}
	return balances, nil
}

// Debtors retrieves the group's negative balances, most negative first.
func (r *BalanceRepository) Debtors(ctx context.Context, q repository.DBExecutor, groupID string) ([]domain.BalanceWithDetails, error) {
	balances := []domain.BalanceWithDetails{}
	query := fmt.Sprintf(`SELECT %s %s WHERE b.group_id = $1 AND b.balance < 0 ORDER BY b.balance ASC`,
		balanceDetailColumns, balanceDetailJoins)
	if err := q.SelectContext(ctx, &balances, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to list debtors of group %s: %w", groupID, err)
	}
	return balances, nil
}

// Creditors retrieves the group's positive balances, largest first.
func (r *BalanceRepository) Creditors(ctx context.Context, q repository.DBExecutor, groupID string) ([]domain.BalanceWithDetails, error) {
	balances := []domain.BalanceWithDetails{}
	query := fmt.Sprintf(`SELECT %s %s WHERE b.group_id = $1 AND b.balance > 0 ORDER BY b.balance DESC`,
		balanceDetailColumns, balanceDetailJoins)
	if err := q.SelectContext(ctx, &balances, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to list creditors of group %s: %w", groupID, err)
	}
	return balances, nil
}

// Delete removes the balance row for (user, group).
func (r *BalanceRepository) Delete(ctx context.Context, q repository.DBExecutor, userID, groupID string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM balances WHERE user_id = $1 AND group_id = $2`, userID, groupID)
	if err != nil {
		return fmt.Errorf("failed to delete balance of user %s in group %s: %w", userID, groupID, err)
	}
	return nil
}

// DeleteByGroup removes all balance rows of a group.
func (r *BalanceRepository) DeleteByGroup(ctx context.Context, q repository.DBExecutor, groupID string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM balances WHERE group_id = $1`, groupID)
	if err != nil {
		return fmt.Errorf("failed to delete balances of group %s: %w", groupID, err)
	}
	return nil
}
