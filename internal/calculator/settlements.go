package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Transfer is a single directed payoff instruction: FromUserID pays
// ToUserID the given amount.
type Transfer struct {
	FromUserID string
	ToUserID   string
	Amount     decimal.Decimal
}

// Settle reduces a balance vector to a minimal list of transfers using
// greedy debt simplification: the largest debtor repeatedly pays the largest
// creditor min(debt, credit) until both sides are exhausted. For n members
// with non-zero balances this emits at most n-1 transfers, the theoretical
// minimum for an arbitrary zero-sum vector.
//
// The input is never mutated; the loop walks index-based over working
// copies. Amounts at or below Tolerance are suppressed as floating noise.
// If the vector does not sum to zero, one side empties first and the
// remainder is dropped; callers that care should check SumsToZero first.
func Settle(balances []MemberBalance) []Transfer {
	var debtors, creditors []MemberBalance
	for _, b := range balances {
		switch {
		case b.Balance.IsNegative():
			debtors = append(debtors, b)
		case b.Balance.IsPositive():
			creditors = append(creditors, b)
		}
	}

	// Largest-against-largest matching: creditors descending, debtors most
	// negative first. Stable so equal balances keep their input order.
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].Balance.GreaterThan(creditors[j].Balance)
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].Balance.LessThan(debtors[j].Balance)
	})

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debt := debtors[i].Balance.Neg()
		credit := creditors[j].Balance

		amount := decimal.Min(debt, credit)
		if amount.GreaterThan(Tolerance) {
			transfers = append(transfers, Transfer{
				FromUserID: debtors[i].UserID,
				ToUserID:   creditors[j].UserID,
				Amount:     amount.Round(2),
			})
		}

		debtors[i].Balance = debtors[i].Balance.Add(amount)
		creditors[j].Balance = creditors[j].Balance.Sub(amount)

		if debtors[i].Balance.Abs().LessThan(Tolerance) {
			i++
		}
		if creditors[j].Balance.Abs().LessThan(Tolerance) {
			j++
		}
	}

	return transfers
}
