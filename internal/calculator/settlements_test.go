package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleTwoMembers(t *testing.T) {
	transfers := Settle([]MemberBalance{
		{UserID: "A", Balance: dec("50")},
		{UserID: "B", Balance: dec("-50")},
	})

	require.Len(t, transfers, 1)
	assert.Equal(t, "B", transfers[0].FromUserID)
	assert.Equal(t, "A", transfers[0].ToUserID)
	assert.True(t, transfers[0].Amount.Equal(dec("50")))
}

func TestSettleThreeMembers(t *testing.T) {
	// A +50, B -10, C -40: C pays A 40 first (largest debt), then B pays A 10.
	transfers := Settle([]MemberBalance{
		{UserID: "A", Balance: dec("50")},
		{UserID: "B", Balance: dec("-10")},
		{UserID: "C", Balance: dec("-40")},
	})

	require.Len(t, transfers, 2)
	assert.Equal(t, "C", transfers[0].FromUserID)
	assert.Equal(t, "A", transfers[0].ToUserID)
	assert.True(t, transfers[0].Amount.Equal(dec("40")))
	assert.Equal(t, "B", transfers[1].FromUserID)
	assert.Equal(t, "A", transfers[1].ToUserID)
	assert.True(t, transfers[1].Amount.Equal(dec("10")))
}

func TestSettleAfterPayment(t *testing.T) {
	transfers := Settle([]MemberBalance{
		{UserID: "A", Balance: dec("70")},
		{UserID: "B", Balance: dec("-70")},
	})

	require.Len(t, transfers, 1)
	assert.Equal(t, "B", transfers[0].FromUserID)
	assert.True(t, transfers[0].Amount.Equal(dec("70")))
}

func TestSettleAllZero(t *testing.T) {
	transfers := Settle([]MemberBalance{
		{UserID: "A", Balance: decimal.Zero},
		{UserID: "B", Balance: decimal.Zero},
		{UserID: "C", Balance: decimal.Zero},
	})
	assert.Empty(t, transfers)
}

func TestSettleEmpty(t *testing.T) {
	assert.Empty(t, Settle(nil))
}

func TestSettleDoesNotMutateInput(t *testing.T) {
	balances := []MemberBalance{
		{UserID: "A", Balance: dec("50")},
		{UserID: "B", Balance: dec("-50")},
	}

	Settle(balances)

	assert.True(t, balances[0].Balance.Equal(dec("50")))
	assert.True(t, balances[1].Balance.Equal(dec("-50")))
}

func TestSettleMinimality(t *testing.T) {
	// n members with non-zero balances need at most n-1 transfers.
	balances := []MemberBalance{
		{UserID: "A", Balance: dec("100")},
		{UserID: "B", Balance: dec("25.50")},
		{UserID: "C", Balance: dec("-30")},
		{UserID: "D", Balance: dec("-45.50")},
		{UserID: "E", Balance: dec("-50")},
	}

	transfers := Settle(balances)
	assert.LessOrEqual(t, len(transfers), len(balances)-1)
}

func TestSettleCompleteness(t *testing.T) {
	balances := []MemberBalance{
		{UserID: "A", Balance: dec("66.67")},
		{UserID: "B", Balance: dec("-33.33")},
		{UserID: "C", Balance: dec("-33.33")},
		{UserID: "D", Balance: dec("12.10")},
		{UserID: "E", Balance: dec("-12.11")},
	}

	transfers := Settle(balances)

	// Applying every transfer must drive each balance to within tolerance.
	applied := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		applied[b.UserID] = b.Balance
	}
	for _, tr := range transfers {
		applied[tr.FromUserID] = applied[tr.FromUserID].Add(tr.Amount)
		applied[tr.ToUserID] = applied[tr.ToUserID].Sub(tr.Amount)
	}
	for user, remaining := range applied {
		assert.True(t, remaining.Abs().LessThanOrEqual(Tolerance),
			"member %s still has %s outstanding", user, remaining)
	}
}

func TestSettleNoSelfSettlement(t *testing.T) {
	balances := []MemberBalance{
		{UserID: "A", Balance: dec("10")},
		{UserID: "B", Balance: dec("5")},
		{UserID: "C", Balance: dec("-7.50")},
		{UserID: "D", Balance: dec("-7.50")},
	}

	for _, tr := range Settle(balances) {
		assert.NotEqual(t, tr.FromUserID, tr.ToUserID)
	}
}

func TestSettleTieRemovesBothParties(t *testing.T) {
	// Equal debt and credit settle in a single transfer.
	transfers := Settle([]MemberBalance{
		{UserID: "A", Balance: dec("20")},
		{UserID: "B", Balance: dec("-20")},
		{UserID: "C", Balance: dec("30")},
		{UserID: "D", Balance: dec("-30")},
	})

	require.Len(t, transfers, 2)
	assert.Equal(t, "D", transfers[0].FromUserID)
	assert.Equal(t, "C", transfers[0].ToUserID)
	assert.Equal(t, "B", transfers[1].FromUserID)
	assert.Equal(t, "A", transfers[1].ToUserID)
}

func TestSettleSuppressesNoise(t *testing.T) {
	transfers := Settle([]MemberBalance{
		{UserID: "A", Balance: dec("0.01")},
		{UserID: "B", Balance: dec("-0.01")},
	})
	assert.Empty(t, transfers)
}

func TestSettleDeterministicOrder(t *testing.T) {
	balances := []MemberBalance{
		{UserID: "A", Balance: dec("40")},
		{UserID: "B", Balance: dec("40")},
		{UserID: "C", Balance: dec("-40")},
		{UserID: "D", Balance: dec("-40")},
	}

	first := Settle(balances)
	second := Settle(balances)
	require.Equal(t, first, second)

	// Equal balances keep input order: A before B, C before D.
	require.Len(t, first, 2)
	assert.Equal(t, "C", first[0].FromUserID)
	assert.Equal(t, "A", first[0].ToUserID)
	assert.Equal(t, "D", first[1].FromUserID)
	assert.Equal(t, "B", first[1].ToUserID)
}
