// internal/domain/balance.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the cached net position of a user inside a group.
// Positive means the user is owed money, negative means the user owes.
// Rows are overwritten on every recomputation and deleted when the user
// leaves the group or the group is deleted.
type Balance struct {
	UserID    string          `db:"user_id" json:"user_id"`
	GroupID   string          `db:"group_id" json:"group_id"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// BalanceWithDetails is a balance row joined with user and group names.
type BalanceWithDetails struct {
	Balance
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
	GroupName string `db:"group_name" json:"group_name"`
}

// GroupBalanceSummary is the full balance picture of one group: every
// member's cached balance plus the settlement plan that would clear them.
type GroupBalanceSummary struct {
	GroupID       string               `json:"group_id"`
	GroupName     string               `json:"group_name"`
	Balances      []BalanceWithDetails `json:"balances"`
	Settlements   []Settlement         `json:"settlements"`
	TotalExpenses decimal.Decimal      `json:"total_expenses"`
	TotalPayments decimal.Decimal      `json:"total_payments"`
}

// UserBalanceOverview aggregates a user's positions across all their
// groups: every cached balance row plus total credit and total debt.
type UserBalanceOverview struct {
	UserID     string               `json:"user_id"`
	Balances   []BalanceWithDetails `json:"balances"`
	TotalOwed  decimal.Decimal      `json:"total_owed"`
	TotalOwing decimal.Decimal      `json:"total_owing"`
	NetBalance decimal.Decimal      `json:"net_balance"`
}

// Settlement is a single directed payoff instruction. It is computed on
// demand from a balance vector and never persisted.
type Settlement struct {
	FromUserID   string          `json:"from_user_id"`
	FromUserName string          `json:"from_user_name"`
	ToUserID     string          `json:"to_user_id"`
	ToUserName   string          `json:"to_user_name"`
	Amount       decimal.Decimal `json:"amount"`
}
