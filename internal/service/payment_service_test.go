// internal/service/payment_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"splitledger/internal/domain"
	"splitledger/internal/util"
)

func TestCreatePayment(t *testing.T) {
	groupID := "group-1"
	fromID := "user-1"
	toID := "user-2"
	amount := decimal.RequireFromString("25.00")
	date := time.Now()
	group := &domain.Group{ID: groupID, Name: "Flatmates"}

	t.Run("SuccessfulCreate", func(t *testing.T) {
		ctx := context.Background()
		mockGroupRepo := new(MockGroupRepository)
		mockExpenseRepo := new(MockExpenseRepository)
		mockPaymentRepo := new(MockPaymentRepository)
		mockBalanceSvc := new(MockBalanceService)
		mockTxController := new(MockTxController)

		beginTx, commitTx, rollbackTx := txFuncs(mockTxController)
		service := NewPaymentService(new(MockDBBeginner), new(MockDBExecutor), mockGroupRepo, mockExpenseRepo, mockPaymentRepo, mockBalanceSvc, beginTx, commitTx, rollbackTx)

		mockGroupRepo.On("GetGroupByID", ctx, mock.Anything, groupID).Return(group, nil).Once()
		mockGroupRepo.On("IsMember", ctx, mock.Anything, groupID, fromID).Return(true, nil).Once()
		mockGroupRepo.On("IsMember", ctx, mock.Anything, groupID, toID).Return(true, nil).Once()
		mockGroupRepo.On("LockGroup", ctx, mock.Anything, groupID).Return(nil).Once()
		mockPaymentRepo.On("CreatePayment", ctx, mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil).Once()
		mockBalanceSvc.On("RecomputeGroupBalances", ctx, mock.Anything, groupID).Return(nil).Once()
		mockPaymentRepo.On("GetPaymentByID", ctx, mock.Anything, mock.AnythingOfType("string")).
			Return(&domain.PaymentWithDetails{
				Payment:      domain.Payment{FromUserID: fromID, ToUserID: toID, Amount: amount, GroupID: groupID},
				FromUserName: "Alice",
				ToUserName:   "Bob",
			}, nil).Once()
		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()

		created, err := service.CreatePayment(ctx, fromID, toID, amount, groupID, date, nil, nil)

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, fromID, created.FromUserID)
		assert.Equal(t, toID, created.ToUserID)
		mock.AssertExpectationsForObjects(t, mockGroupRepo, mockPaymentRepo, mockBalanceSvc, mockTxController)
	})

	t.Run("SamePayerAndPayee", func(t *testing.T) {
		ctx := context.Background()
		mockGroupRepo := new(MockGroupRepository)
		mockTxController := new(MockTxController)

		beginTx, commitTx, rollbackTx := txFuncs(mockTxController)
		service := NewPaymentService(new(MockDBBeginner), new(MockDBExecutor), mockGroupRepo, new(MockExpenseRepository), new(MockPaymentRepository), new(MockBalanceService), beginTx, commitTx, rollbackTx)

		created, err := service.CreatePayment(ctx, fromID, fromID, amount, groupID, date, nil, nil)

		assert.ErrorIs(t, err, util.ErrSamePayerPayee)
		assert.Nil(t, created)
		mockGroupRepo.AssertNotCalled(t, "GetGroupByID", mock.Anything, mock.Anything, mock.Anything)
		mockTxController.AssertNotCalled(t, "Commit")
	})

	t.Run("PayeeNotMember", func(t *testing.T) {
		ctx := context.Background()
		mockGroupRepo := new(MockGroupRepository)
		mockTxController := new(MockTxController)

		beginTx, commitTx, rollbackTx := txFuncs(mockTxController)
		service := NewPaymentService(new(MockDBBeginner), new(MockDBExecutor), mockGroupRepo, new(MockExpenseRepository), new(MockPaymentRepository), new(MockBalanceService), beginTx, commitTx, rollbackTx)

		mockGroupRepo.On("GetGroupByID", ctx, mock.Anything, groupID).Return(group, nil).Once()
		mockGroupRepo.On("IsMember", ctx, mock.Anything, groupID, fromID).Return(true, nil).Once()
		mockGroupRepo.On("IsMember", ctx, mock.Anything, groupID, toID).Return(false, nil).Once()

		created, err := service.CreatePayment(ctx, fromID, toID, amount, groupID, date, nil, nil)

		assert.ErrorIs(t, err, util.ErrNotGroupMember)
		assert.Nil(t, created)
		mockTxController.AssertNotCalled(t, "Commit")
		mock.AssertExpectationsForObjects(t, mockGroupRepo)
	})

	t.Run("LinkedExpenseInOtherGroup", func(t *testing.T) {
		ctx := context.Background()
		mockGroupRepo := new(MockGroupRepository)
		mockExpenseRepo := new(MockExpenseRepository)
		mockTxController := new(MockTxController)

		beginTx, commitTx, rollbackTx := txFuncs(mockTxController)
		service := NewPaymentService(new(MockDBBeginner), new(MockDBExecutor), mockGroupRepo, mockExpenseRepo, new(MockPaymentRepository), new(MockBalanceService), beginTx, commitTx, rollbackTx)

		expenseID := "expense-9"
		mockGroupRepo.On("GetGroupByID", ctx, mock.Anything, groupID).Return(group, nil).Once()
		mockGroupRepo.On("IsMember", ctx, mock.Anything, groupID, fromID).Return(true, nil).Once()
		mockGroupRepo.On("IsMember", ctx, mock.Anything, groupID, toID).Return(true, nil).Once()
		mockExpenseRepo.On("GetExpenseByID", ctx, mock.Anything, expenseID).
			Return(&domain.ExpenseWithDetails{Expense: domain.Expense{ID: expenseID, GroupID: "other-group"}}, nil).Once()

		created, err := service.CreatePayment(ctx, fromID, toID, amount, groupID, date, nil, &expenseID)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, created)
		mockTxController.AssertNotCalled(t, "Commit")
		mock.AssertExpectationsForObjects(t, mockGroupRepo, mockExpenseRepo)
	})
}

func TestDeletePayment(t *testing.T) {
	paymentID := "payment-1"
	groupID := "group-1"
	existing := &domain.PaymentWithDetails{
		Payment: domain.Payment{ID: paymentID, GroupID: groupID, FromUserID: "user-1", ToUserID: "user-2", Amount: decimal.RequireFromString("10.00")},
	}

	t.Run("SuccessfulDelete", func(t *testing.T) {
		ctx := context.Background()
		mockGroupRepo := new(MockGroupRepository)
		mockPaymentRepo := new(MockPaymentRepository)
		mockBalanceSvc := new(MockBalanceService)
		mockTxController := new(MockTxController)

		beginTx, commitTx, rollbackTx := txFuncs(mockTxController)
		service := NewPaymentService(new(MockDBBeginner), new(MockDBExecutor), mockGroupRepo, new(MockExpenseRepository), mockPaymentRepo, mockBalanceSvc, beginTx, commitTx, rollbackTx)

		mockPaymentRepo.On("GetPaymentByID", ctx, mock.Anything, paymentID).Return(existing, nil).Once()
		mockGroupRepo.On("LockGroup", ctx, mock.Anything, groupID).Return(nil).Once()
		mockPaymentRepo.On("DeletePayment", ctx, mock.Anything, paymentID).Return(nil).Once()
		mockBalanceSvc.On("RecomputeGroupBalances", ctx, mock.Anything, groupID).Return(nil).Once()
		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()

		err := service.DeletePayment(ctx, paymentID)

		assert.NoError(t, err)
		mock.AssertExpectationsForObjects(t, mockGroupRepo, mockPaymentRepo, mockBalanceSvc, mockTxController)
	})

	t.Run("PaymentNotFound", func(t *testing.T) {
		ctx := context.Background()
		mockPaymentRepo := new(MockPaymentRepository)
		mockTxController := new(MockTxController)

		beginTx, commitTx, rollbackTx := txFuncs(mockTxController)
		service := NewPaymentService(new(MockDBBeginner), new(MockDBExecutor), new(MockGroupRepository), new(MockExpenseRepository), mockPaymentRepo, new(MockBalanceService), beginTx, commitTx, rollbackTx)

		mockPaymentRepo.On("GetPaymentByID", ctx, mock.Anything, paymentID).Return(nil, util.ErrPaymentNotFound).Once()

		err := service.DeletePayment(ctx, paymentID)

		assert.ErrorIs(t, err, util.ErrPaymentNotFound)
		mockTxController.AssertNotCalled(t, "Commit")
		mock.AssertExpectationsForObjects(t, mockPaymentRepo)
	})
}
