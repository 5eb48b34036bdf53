package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeBalancesSingleExpense(t *testing.T) {
	// Two members, one expense of 100 paid by A: A +50, B -50.
	balances := ComputeBalances(
		[]string{"A", "B"},
		[]ExpenseShare{{PayerID: "A", Amount: dec("100")}},
		nil,
	)

	require.Len(t, balances, 2)
	assert.Equal(t, "A", balances[0].UserID)
	assert.True(t, balances[0].Balance.Equal(dec("50")), "A should be owed 50, got %s", balances[0].Balance)
	assert.Equal(t, "B", balances[1].UserID)
	assert.True(t, balances[1].Balance.Equal(dec("-50")), "B should owe 50, got %s", balances[1].Balance)
}

func TestComputeBalancesMultipleExpenses(t *testing.T) {
	// Three members, 90 paid by A and 30 paid by B. Fair share = 40:
	// A = +50, B = -10, C = -40.
	balances := ComputeBalances(
		[]string{"A", "B", "C"},
		[]ExpenseShare{
			{PayerID: "A", Amount: dec("90")},
			{PayerID: "B", Amount: dec("30")},
		},
		nil,
	)

	require.Len(t, balances, 3)
	byUser := balancesByUser(balances)
	assert.True(t, byUser["A"].Equal(dec("50")))
	assert.True(t, byUser["B"].Equal(dec("-10")))
	assert.True(t, byUser["C"].Equal(dec("-40")))

	// Output is sorted by balance descending.
	assert.Equal(t, []string{"A", "B", "C"}, []string{balances[0].UserID, balances[1].UserID, balances[2].UserID})
}

func TestComputeBalancesWithPayment(t *testing.T) {
	// Single expense of 100 by A plus a payment of 20 from B to A:
	// A = 100 - 50 + 20 = +70, B = 0 - 50 - 20 = -70.
	balances := ComputeBalances(
		[]string{"A", "B"},
		[]ExpenseShare{{PayerID: "A", Amount: dec("100")}},
		[]PaymentLeg{{FromUserID: "B", ToUserID: "A", Amount: dec("20")}},
	)

	byUser := balancesByUser(balances)
	assert.True(t, byUser["A"].Equal(dec("70")), "got %s", byUser["A"])
	assert.True(t, byUser["B"].Equal(dec("-70")), "got %s", byUser["B"])
}

func TestComputeBalancesEmptyLedger(t *testing.T) {
	balances := ComputeBalances([]string{"A", "B", "C"}, nil, nil)

	require.Len(t, balances, 3)
	for _, b := range balances {
		assert.True(t, b.Balance.IsZero(), "member %s should be settled, got %s", b.UserID, b.Balance)
	}
}

func TestComputeBalancesNoMembers(t *testing.T) {
	balances := ComputeBalances(nil, []ExpenseShare{{PayerID: "A", Amount: dec("100")}}, nil)
	assert.Empty(t, balances)
}

func TestComputeBalancesZeroSum(t *testing.T) {
	// Uneven amounts that do not divide cleanly must still sum to ~zero
	// because rounding happens once, at the end.
	members := []string{"A", "B", "C"}
	expenses := []ExpenseShare{
		{PayerID: "A", Amount: dec("10.01")},
		{PayerID: "B", Amount: dec("0.05")},
		{PayerID: "C", Amount: dec("33.33")},
		{PayerID: "A", Amount: dec("99.99")},
	}
	payments := []PaymentLeg{
		{FromUserID: "B", ToUserID: "A", Amount: dec("7.77")},
	}

	balances := ComputeBalances(members, expenses, payments)
	assert.True(t, SumsToZero(balances), "balances must sum to within 0.01 of zero")
}

func TestComputeBalancesIdempotent(t *testing.T) {
	members := []string{"A", "B", "C"}
	expenses := []ExpenseShare{
		{PayerID: "A", Amount: dec("90")},
		{PayerID: "B", Amount: dec("30.50")},
	}

	first := ComputeBalances(members, expenses, nil)
	second := ComputeBalances(members, expenses, nil)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].UserID, second[i].UserID)
		assert.True(t, first[i].Balance.Equal(second[i].Balance))
	}
}

func TestComputeBalancesCurrentMembershipPolicy(t *testing.T) {
	// A member added after the expense still owes a share of it: the split
	// always re-divides the current total by the current member count.
	expenses := []ExpenseShare{{PayerID: "A", Amount: dec("100")}}

	before := balancesByUser(ComputeBalances([]string{"A", "B"}, expenses, nil))
	assert.True(t, before["B"].Equal(dec("-50")))

	after := balancesByUser(ComputeBalances([]string{"A", "B", "C"}, expenses, nil))
	assert.True(t, after["B"].Equal(dec("-33.33")), "got %s", after["B"])
	assert.True(t, after["C"].Equal(dec("-33.33")), "got %s", after["C"])
	assert.True(t, after["A"].Equal(dec("66.67")), "got %s", after["A"])
}

func TestSumsToZero(t *testing.T) {
	assert.True(t, SumsToZero(nil))
	assert.True(t, SumsToZero([]MemberBalance{
		{UserID: "A", Balance: dec("12.34")},
		{UserID: "B", Balance: dec("-12.34")},
	}))
	assert.False(t, SumsToZero([]MemberBalance{
		{UserID: "A", Balance: dec("12.34")},
		{UserID: "B", Balance: dec("-10.00")},
	}))
}

func balancesByUser(balances []MemberBalance) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		m[b.UserID] = b.Balance
	}
	return m
}
