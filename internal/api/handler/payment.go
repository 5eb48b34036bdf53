// internal/api/handler/payment.go
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

// PaymentHandler handles direct payment requests.
type PaymentHandler struct {
	service service.PaymentService
	logger  *slog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{service: svc, logger: logger}
}

// CreatePaymentRequest represents the request body for creating a payment.
type CreatePaymentRequest struct {
	FromUserID  string          `json:"from_user_id"`
	ToUserID    string          `json:"to_user_id"`
	Amount      decimal.Decimal `json:"amount"`
	GroupID     string          `json:"group_id"`
	Date        string          `json:"date"`
	Description *string         `json:"description"`
	ExpenseID   *string         `json:"expense_id"`
}

// UpdatePaymentRequest represents the request body for updating a payment.
// Omitted fields keep their current value.
type UpdatePaymentRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Date        *string          `json:"date"`
}

// ListByGroup handles GET /payments?groupId=...
func (h *PaymentHandler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("groupId")
	if groupID == "" {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	payments, err := h.service.ListGroupPayments(r.Context(), groupID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OK(payments))
}

// Get handles GET /payments/{paymentID}.
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	payment, err := h.service.GetPayment(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OK(payment))
}

// Create handles POST /payments. An omitted date defaults to now.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
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

	payment, err := h.service.CreatePayment(r.Context(), req.FromUserID, req.ToUserID, req.Amount, req.GroupID, date, req.Description, req.ExpenseID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusCreated, types.OKMessage(payment, "Payment recorded"))
}

// Update handles PUT /payments/{paymentID}.
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	input := service.UpdatePaymentInput{
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Date != nil {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			respondWithError(h.logger, w, util.ErrInvalidInput)
			return
		}
		input.Date = &parsed
	}

	payment, err := h.service.UpdatePayment(r.Context(), chi.URLParam(r, "paymentID"), input)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OKMessage(payment, "Payment updated"))
}

// Delete handles DELETE /payments/{paymentID}.
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePayment(r.Context(), chi.URLParam(r, "paymentID")); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OKMessage(nil, "Payment deleted"))
}

// ListBetweenUsers handles GET /payments/between/{user1ID}/{user2ID}?groupId=...
func (h *PaymentHandler) ListBetweenUsers(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("groupId")
	if groupID == "" {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	payments, err := h.service.ListPaymentsBetweenUsers(r.Context(), groupID, chi.URLParam(r, "user1ID"), chi.URLParam(r, "user2ID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OK(payments))
}

// ListByUser handles GET /payments/user/{userID}?groupId=...
func (h *PaymentHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("groupId")
	if groupID == "" {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	payments, err := h.service.ListUserPayments(r.Context(), groupID, chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OK(payments))
}
