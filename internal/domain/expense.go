// internal/domain/expense.go
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxAmount is the upper bound for any expense or payment amount.
var MaxAmount = decimal.RequireFromString("999999.99")

// Expense represents money one member spent on behalf of the whole group.
// The amount is split equally among all current group members.
type Expense struct {
	ID          string          `db:"id" json:"id"`
	Description string          `db:"description" json:"description"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Date        time.Time       `db:"date" json:"date"`
	PaidBy      string          `db:"paid_by" json:"paid_by"`
	GroupID     string          `db:"group_id" json:"group_id"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// ExpenseWithDetails is an expense joined with payer and group names.
type ExpenseWithDetails struct {
	Expense
	PaidByName  string `db:"paid_by_name" json:"paid_by_name"`
	PaidByEmail string `db:"paid_by_email" json:"paid_by_email"`
	GroupName   string `db:"group_name" json:"group_name"`
}

// NewExpense creates a new Expense instance with a generated ID.
func NewExpense(description string, amount decimal.Decimal, date time.Time, paidBy, groupID string) *Expense {
	return &Expense{
		ID:          uuid.New().String(),
		Description: description,
		Amount:      amount,
		Date:        date,
		PaidBy:      paidBy,
		GroupID:     groupID,
		CreatedAt:   time.Now().UTC(),
	}
}

// ValidDescription reports whether the description is between 3 and 500 characters.
func (e *Expense) ValidDescription() bool {
	n := len(strings.TrimSpace(e.Description))
	return n >= 3 && n <= 500
}

// ValidAmount reports whether the amount is positive and at most 999,999.99.
func (e *Expense) ValidAmount() bool {
	return e.Amount.IsPositive() && e.Amount.LessThanOrEqual(MaxAmount)
}

// ValidDate reports whether the date falls within one year of today,
// in either direction.
func (e *Expense) ValidDate() bool {
	now := time.Now()
	return !e.Date.Before(now.AddDate(-1, 0, 0)) && !e.Date.After(now.AddDate(1, 0, 0))
}
