// internal/domain/payment.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment represents a direct transfer from one member to another,
// settling debt inside a group.
type Payment struct {
	ID          string          `db:"id" json:"id"`
	FromUserID  string          `db:"from_user_id" json:"from_user_id"`
	ToUserID    string          `db:"to_user_id" json:"to_user_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	ExpenseID   *string         `db:"expense_id" json:"expense_id"`
	GroupID     string          `db:"group_id" json:"group_id"`
	Description *string         `db:"description" json:"description"`
	Date        time.Time       `db:"date" json:"date"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// PaymentWithDetails is a payment joined with user and group names.
type PaymentWithDetails struct {
	Payment
	FromUserName string  `db:"from_user_name" json:"from_user_name"`
	ToUserName   string  `db:"to_user_name" json:"to_user_name"`
	GroupName    string  `db:"group_name" json:"group_name"`
	ExpenseDesc  *string `db:"expense_description" json:"expense_description"`
}

// NewPayment creates a new Payment instance with a generated ID.
func NewPayment(fromUserID, toUserID string, amount decimal.Decimal, groupID string, date time.Time, description *string, expenseID *string) *Payment {
	return &Payment{
		ID:          uuid.New().String(),
		FromUserID:  fromUserID,
		ToUserID:    toUserID,
		Amount:      amount,
		ExpenseID:   expenseID,
		GroupID:     groupID,
		Description: description,
		Date:        date,
		CreatedAt:   time.Now().UTC(),
	}
}

// ValidUsers reports whether payer and payee are distinct.
func (p *Payment) ValidUsers() bool {
	return p.FromUserID != p.ToUserID
}

// ValidAmount reports whether the amount is positive and at most 999,999.99.
func (p *Payment) ValidAmount() bool {
	return p.Amount.IsPositive() && p.Amount.LessThanOrEqual(MaxAmount)
}

// ValidDate reports whether the date falls between one year ago and one
// month from now.
func (p *Payment) ValidDate() bool {
	now := time.Now()
	return !p.Date.Before(now.AddDate(-1, 0, 0)) && !p.Date.After(now.AddDate(0, 1, 0))
}
