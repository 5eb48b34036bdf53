// internal/api/handler/balance.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"splitledger/internal/api/types"
	"splitledger/internal/service"
)

// BalanceHandler handles balance and settlement requests.
type BalanceHandler struct {
	service service.BalanceService
	logger  *slog.Logger
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(svc service.BalanceService, logger *slog.Logger) *BalanceHandler {
	return &BalanceHandler{service: svc, logger: logger}
}

// GroupSummary handles GET /balances/group/{groupID}.
func (h *BalanceHandler) GroupSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GroupSummary(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OK(summary))
}

// UserBalance handles GET /balances/user/{userID}/group/{groupID}.
func (h *BalanceHandler) UserBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.service.UserBalance(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "groupID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OK(balance))
}

// UserBalances handles GET /balances/user/{userID}.
func (h *BalanceHandler) UserBalances(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.UserBalances(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OK(overview))
}

// Debtors handles GET /balances/debtors/{groupID}.
func (h *BalanceHandler) Debtors(w http.ResponseWriter, r *http.Request) {
	debtors, err := h.service.Debtors(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OK(debtors))
}

// Creditors handles GET /balances/creditors/{groupID}.
func (h *BalanceHandler) Creditors(w http.ResponseWriter, r *http.Request) {
	creditors, err := h.service.Creditors(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OK(creditors))
}

// Recalculate handles POST /balances/recalculate/{groupID}.
func (h *BalanceHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	balances, err := h.service.Recalculate(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OKMessage(balances, "Balances recalculated"))
}

// Settlements handles GET /balances/settlements/{groupID}.
func (h *BalanceHandler) Settlements(w http.ResponseWriter, r *http.Request) {
	plan, err := h.service.SettlementPlan(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OK(plan))
}
