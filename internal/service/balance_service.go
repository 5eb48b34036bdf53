// internal/service/balance_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"splitledger/internal/calculator"
	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/internal/util"
	"splitledger/pkg/db"
)

// BalanceService defines the interface for balance and settlement logic.
//
// RecomputeGroupBalances is the shared entry point every ledger mutation
// calls from inside its own transaction: it rebuilds the group's cached
// balance rows from the full expense and payment history. All other methods
// run on a direct connection and recompute first where freshness matters.
type BalanceService interface {
	RecomputeGroupBalances(ctx context.Context, q repository.DBExecutor, groupID string) error
	Recalculate(ctx context.Context, groupID string) ([]domain.BalanceWithDetails, error)
	GroupSummary(ctx context.Context, groupID string) (*domain.GroupBalanceSummary, error)
	SettlementPlan(ctx context.Context, groupID string) ([]domain.Settlement, error)
	UserBalance(ctx context.Context, userID, groupID string) (*domain.BalanceWithDetails, error)
	UserBalances(ctx context.Context, userID string) (*domain.UserBalanceOverview, error)
	Debtors(ctx context.Context, groupID string) ([]domain.BalanceWithDetails, error)
	Creditors(ctx context.Context, groupID string) ([]domain.BalanceWithDetails, error)
}

// balanceService implements the BalanceService interface.
type balanceService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	groupRepo   repository.GroupRepository
	expenseRepo repository.ExpenseRepository
	paymentRepo repository.PaymentRepository
	balanceRepo repository.BalanceRepository
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewBalanceService creates a new instance of BalanceService.
func NewBalanceService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	groupRepo repository.GroupRepository,
	expenseRepo repository.ExpenseRepository,
	paymentRepo repository.PaymentRepository,
	balanceRepo repository.BalanceRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) BalanceService {
	return &balanceService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		groupRepo:   groupRepo,
		expenseRepo: expenseRepo,
		paymentRepo: paymentRepo,
		balanceRepo: balanceRepo,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// RecomputeGroupBalances rebuilds every cached balance row of a group from
// scratch. It must run on the same executor as the mutation that triggered
// it so both commit or roll back together. Only current members get a row;
// expenses recorded by users who have since left still count toward the
// totals, which is why the zero-sum check elsewhere is a diagnostic and not
// an assertion.
func (s *balanceService) RecomputeGroupBalances(ctx context.Context, q repository.DBExecutor, groupID string) error {
	memberIDs, err := s.groupRepo.GetMemberIDs(ctx, q, groupID)
	if err != nil {
		return fmt.Errorf("recompute balances: failed to get members of group %s: %w", groupID, err)
	}

	expenses, err := s.expenseRepo.ListExpensesByGroup(ctx, q, groupID)
	if err != nil {
		return fmt.Errorf("recompute balances: failed to list expenses of group %s: %w", groupID, err)
	}
	payments, err := s.paymentRepo.ListPaymentsByGroup(ctx, q, groupID)
	if err != nil {
		return fmt.Errorf("recompute balances: failed to list payments of group %s: %w", groupID, err)
	}

	shares := make([]calculator.ExpenseShare, 0, len(expenses))
	for _, e := range expenses {
		shares = append(shares, calculator.ExpenseShare{PayerID: e.PaidBy, Amount: e.Amount})
	}
	legs := make([]calculator.PaymentLeg, 0, len(payments))
	for _, p := range payments {
		legs = append(legs, calculator.PaymentLeg{FromUserID: p.FromUserID, ToUserID: p.ToUserID, Amount: p.Amount})
	}

	for _, mb := range calculator.ComputeBalances(memberIDs, shares, legs) {
		if err := s.balanceRepo.Upsert(ctx, q, mb.UserID, groupID, mb.Balance); err != nil {
			return fmt.Errorf("recompute balances: failed to upsert balance for user %s in group %s: %w", mb.UserID, groupID, err)
		}
	}
	return nil
}

// Recalculate forces a recomputation inside its own transaction and returns
// the fresh balance rows.
func (s *balanceService) Recalculate(ctx context.Context, groupID string) ([]domain.BalanceWithDetails, error) {
	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, fmt.Errorf("recalculate: failed to get group %s: %w", groupID, err)
	}

	if err := s.recomputeInTx(ctx, groupID); err != nil {
		return nil, err
	}

	balances, err := s.balanceRepo.ListByGroup(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("recalculate: failed to list balances of group %s: %w", groupID, err)
	}
	return balances, nil
}

// GroupSummary returns every member's fresh balance, the settlement plan
// that would clear the group, and the group's lifetime totals.
func (s *balanceService) GroupSummary(ctx context.Context, groupID string) (*domain.GroupBalanceSummary, error) {
	group, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("group summary: failed to get group %s: %w", groupID, err)
	}

	if err := s.recomputeInTx(ctx, groupID); err != nil {
		return nil, err
	}

	balances, err := s.balanceRepo.ListByGroup(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("group summary: failed to list balances of group %s: %w", groupID, err)
	}

	totalExpenses, err := s.expenseRepo.SumAmountByGroup(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("group summary: failed to sum expenses of group %s: %w", groupID, err)
	}
	totalPayments, err := s.paymentRepo.SumAmountByGroup(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("group summary: failed to sum payments of group %s: %w", groupID, err)
	}

	return &domain.GroupBalanceSummary{
		GroupID:       group.ID,
		GroupName:     group.Name,
		Balances:      balances,
		Settlements:   s.planFromBalances(groupID, balances),
		TotalExpenses: totalExpenses,
		TotalPayments: totalPayments,
	}, nil
}

// SettlementPlan recomputes the group's balances and returns the minimal
// transfer list that would bring every member to zero.
func (s *balanceService) SettlementPlan(ctx context.Context, groupID string) ([]domain.Settlement, error) {
	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, fmt.Errorf("settlement plan: failed to get group %s: %w", groupID, err)
	}

	if err := s.recomputeInTx(ctx, groupID); err != nil {
		return nil, err
	}

	balances, err := s.balanceRepo.ListByGroup(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("settlement plan: failed to list balances of group %s: %w", groupID, err)
	}
	return s.planFromBalances(groupID, balances), nil
}

// UserBalance retrieves one user's cached balance inside a group.
func (s *balanceService) UserBalance(ctx context.Context, userID, groupID string) (*domain.BalanceWithDetails, error) {
	isMember, err := s.groupRepo.IsMember(ctx, s.dbExecutor, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("user balance: failed to check membership: %w", err)
	}
	if !isMember {
		return nil, util.ErrNotGroupMember
	}

	balance, err := s.balanceRepo.GetByUserAndGroup(ctx, s.dbExecutor, userID, groupID)
	if err != nil {
		return nil, fmt.Errorf("user balance: failed to get balance for user %s in group %s: %w", userID, groupID, err)
	}
	return balance, nil
}

// UserBalances aggregates a user's cached balances across all groups.
func (s *balanceService) UserBalances(ctx context.Context, userID string) (*domain.UserBalanceOverview, error) {
	balances, err := s.balanceRepo.ListByUser(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("user balances: failed to list balances of user %s: %w", userID, err)
	}

	overview := &domain.UserBalanceOverview{
		UserID:   userID,
		Balances: balances,
	}
	for _, b := range balances {
		if b.Balance.Balance.IsPositive() {
			overview.TotalOwed = overview.TotalOwed.Add(b.Balance.Balance)
		} else {
			overview.TotalOwing = overview.TotalOwing.Add(b.Balance.Balance.Abs())
		}
		overview.NetBalance = overview.NetBalance.Add(b.Balance.Balance)
	}
	return overview, nil
}

// Debtors retrieves the group's negative balances, most indebted first.
func (s *balanceService) Debtors(ctx context.Context, groupID string) ([]domain.BalanceWithDetails, error) {
	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, fmt.Errorf("debtors: failed to get group %s: %w", groupID, err)
	}
	debtors, err := s.balanceRepo.Debtors(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("debtors: failed to list debtors of group %s: %w", groupID, err)
	}
	return debtors, nil
}

// Creditors retrieves the group's positive balances, largest first.
func (s *balanceService) Creditors(ctx context.Context, groupID string) ([]domain.BalanceWithDetails, error) {
	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, fmt.Errorf("creditors: failed to get group %s: %w", groupID, err)
	}
	creditors, err := s.balanceRepo.Creditors(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("creditors: failed to list creditors of group %s: %w", groupID, err)
	}
	return creditors, nil
}

// recomputeInTx runs a full balance recomputation in its own transaction,
// holding the group's row lock so concurrent recomputations serialize.
func (s *balanceService) recomputeInTx(ctx context.Context, groupID string) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("recompute: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("recompute: transaction controller does not implement DBExecutor")
	}

	if err := s.groupRepo.LockGroup(ctx, txExecutor, groupID); err != nil {
		return fmt.Errorf("recompute: failed to lock group %s: %w", groupID, err)
	}
	if err := s.RecomputeGroupBalances(ctx, txExecutor, groupID); err != nil {
		return err
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("recompute: failed to commit transaction: %w", err)
	}
	return nil
}

// planFromBalances runs the greedy settlement algorithm over cached balance
// rows and decorates the transfers with user names.
func (s *balanceService) planFromBalances(groupID string, balances []domain.BalanceWithDetails) []domain.Settlement {
	members := make([]calculator.MemberBalance, 0, len(balances))
	names := make(map[string]string, len(balances))
	for _, b := range balances {
		members = append(members, calculator.MemberBalance{UserID: b.UserID, Balance: b.Balance.Balance})
		names[b.UserID] = b.UserName
	}

	if !calculator.SumsToZero(members) {
		slog.Warn("group balances do not sum to zero, settlement plan may not fully clear the group",
			"group_id", groupID)
	}

	transfers := calculator.Settle(members)
	settlements := make([]domain.Settlement, 0, len(transfers))
	for _, t := range transfers {
		settlements = append(settlements, domain.Settlement{
			FromUserID:   t.FromUserID,
			FromUserName: names[t.FromUserID],
			ToUserID:     t.ToUserID,
			ToUserName:   names[t.ToUserID],
			Amount:       t.Amount,
		})
	}
	return settlements
}
