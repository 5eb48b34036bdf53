// Package calculator implements the balance-accounting core: turning a
// group's ledger entries into per-member net positions, and reducing those
// positions to a minimal payoff plan. Every function is pure; persistence
// and transaction handling live in the service layer.
package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Tolerance is the dead-band under which a balance counts as settled.
// It also bounds the acceptable drift of a group's balance sum from zero.
var Tolerance = decimal.RequireFromString("0.01")

// ExpenseShare is an expense reduced to what balance computation needs.
type ExpenseShare struct {
	PayerID string
	Amount  decimal.Decimal
}

// PaymentLeg is a direct payment reduced to what balance computation needs.
type PaymentLeg struct {
	FromUserID string
	ToUserID   string
	Amount     decimal.Decimal
}

// MemberBalance is one member's net position in a group.
// Positive = owed money, negative = owes money.
type MemberBalance struct {
	UserID  string
	Balance decimal.Decimal
}

// ComputeBalances computes the net balance of every current group member:
//
//	balance = paid_out - fair_share + received_payments - sent_payments
//
// where fair_share is the group's expense total divided equally by the
// current member count. The split always uses current membership, so adding
// or removing a member retroactively changes everyone's share of all
// historical expenses. Rounding to cents happens once, at the end, half away
// from zero; rounding intermediate terms would break the zero-sum invariant
// by cent-level drift.
//
// Zero members yields no rows. Zero ledger entries yields a zero balance for
// every member. The result is ordered by balance descending, ties keeping
// the input member order.
func ComputeBalances(memberIDs []string, expenses []ExpenseShare, payments []PaymentLeg) []MemberBalance {
	if len(memberIDs) == 0 {
		return nil
	}

	paidOut := make(map[string]decimal.Decimal, len(memberIDs))
	received := make(map[string]decimal.Decimal, len(memberIDs))
	sent := make(map[string]decimal.Decimal, len(memberIDs))

	groupTotal := decimal.Zero
	for _, e := range expenses {
		groupTotal = groupTotal.Add(e.Amount)
		paidOut[e.PayerID] = paidOut[e.PayerID].Add(e.Amount)
	}
	for _, p := range payments {
		received[p.ToUserID] = received[p.ToUserID].Add(p.Amount)
		sent[p.FromUserID] = sent[p.FromUserID].Add(p.Amount)
	}

	fairShare := groupTotal.Div(decimal.NewFromInt(int64(len(memberIDs))))

	balances := make([]MemberBalance, 0, len(memberIDs))
	for _, id := range memberIDs {
		net := paidOut[id].Sub(fairShare).Add(received[id]).Sub(sent[id])
		balances = append(balances, MemberBalance{
			UserID:  id,
			Balance: net.Round(2),
		})
	}

	// The settlement planner depends on this order for deterministic output.
	sort.SliceStable(balances, func(i, j int) bool {
		return balances[i].Balance.GreaterThan(balances[j].Balance)
	})

	return balances
}

// SumsToZero reports whether a balance vector sums to within Tolerance of
// zero. A false result indicates upstream data corruption (for example an
// expense whose payer is no longer a member); callers surface it as a
// diagnostic rather than correcting it.
func SumsToZero(balances []MemberBalance) bool {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Balance)
	}
	return total.Abs().LessThanOrEqual(Tolerance)
}
