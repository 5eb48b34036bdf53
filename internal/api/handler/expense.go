// internal/api/handler/expense.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"splitledger/internal/api/types"
	"splitledger/internal/service"
	"splitledger/internal/util"
)

// ExpenseHandler handles expense ledger requests.
type ExpenseHandler struct {
	service service.ExpenseService
	logger  *slog.Logger
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(svc service.ExpenseService, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{service: svc, logger: logger}
}

// CreateExpenseRequest represents the request body for creating an expense.
type CreateExpenseRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	PaidBy      string          `json:"paid_by"`
	GroupID     string          `json:"group_id"`
}

// UpdateExpenseRequest represents the request body for updating an expense.
// Omitted fields keep their current value.
type UpdateExpenseRequest struct {
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        *string          `json:"date"`
	PaidBy      *string          `json:"paid_by"`
}

// ListByGroup handles GET /expenses?groupId=...
func (h *ExpenseHandler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("groupId")
	if groupID == "" {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	expenses, err := h.service.ListGroupExpenses(r.Context(), groupID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OK(expenses))
}

// Get handles GET /expenses/{expenseID}.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	expense, err := h.service.GetExpense(r.Context(), chi.URLParam(r, "expenseID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OK(expense))
}

// Create handles POST /expenses. An omitted date defaults to now.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			respondWithError(h.logger, w, util.ErrInvalidInput)
			return
		}
		date = parsed
	}

	expense, err := h.service.CreateExpense(r.Context(), req.Description, req.Amount, date, req.PaidBy, req.GroupID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusCreated, types.OKMessage(expense, "Expense created"))
}

// Update handles PUT /expenses/{expenseID}.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	input := service.UpdateExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		PaidBy:      req.PaidBy,
	}
	if req.Date != nil {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			respondWithError(h.logger, w, util.ErrInvalidInput)
			return
		}
		input.Date = &parsed
	}

	expense, err := h.service.UpdateExpense(r.Context(), chi.URLParam(r, "expenseID"), input)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OKMessage(expense, "Expense updated"))
}

// Delete handles DELETE /expenses/{expenseID}.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteExpense(r.Context(), chi.URLParam(r, "expenseID")); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OKMessage(nil, "Expense deleted"))
}

// ListByUserAndGroup handles GET /expenses/user/{userID}/group/{groupID}.
func (h *ExpenseHandler) ListByUserAndGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	userID := chi.URLParam(r, "userID")

	expenses, err := h.service.ListUserExpenses(r.Context(), groupID, userID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OK(expenses))
}
