// internal/api/handler/group.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"splitledger/internal/api/middleware"
	"splitledger/internal/api/types"
	"splitledger/internal/domain"
	"splitledger/internal/service"
	"splitledger/internal/util"
)

// GroupHandler handles group and membership requests.
type GroupHandler struct {
	service service.GroupService
	logger  *slog.Logger
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(svc service.GroupService, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{service: svc, logger: logger}
}

// CreateGroupRequest represents the request body for creating a group.
type CreateGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateGroupRequest represents the request body for updating a group.
type UpdateGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// AddMemberRequest represents the request body for adding a member.
type AddMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// List handles GET /groups. Without a userId query parameter it lists the
// authenticated user's groups.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = middleware.GetUserID(r.Context())
	}

	groups, err := h.service.ListUserGroups(r.Context(), userID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OK(groups))
}

// Get handles GET /groups/{groupID}.
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	group, err := h.service.GetGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OK(group))
}

// Create handles POST /groups. The authenticated user becomes the group's
// admin.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	group, err := h.service.CreateGroup(r.Context(), req.Name, req.Description, middleware.GetUserID(r.Context()))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusCreated, types.OKMessage(group, "Group created"))
}

// Update handles PUT /groups/{groupID}.
func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	group, err := h.service.UpdateGroup(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()), req.Name, req.Description)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OKMessage(group, "Group updated"))
}

// Delete handles DELETE /groups/{groupID}.
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteGroup(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context())); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OKMessage(nil, "Group deleted"))
}

// AddMember handles POST /groups/{groupID}/members.
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	role := domain.MemberRole(req.Role)
	if req.Role == "" {
		role = domain.RoleMember
	}

	group, err := h.service.AddMember(r.Context(), chi.URLParam(r, "groupID"), req.UserID, role, middleware.GetUserID(r.Context()))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusCreated, types.OKMessage(group, "Member added"))
}

// RemoveMember handles DELETE /groups/{groupID}/members/{userID}.
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	userID := chi.URLParam(r, "userID")

	if err := h.service.RemoveMember(r.Context(), groupID, userID, middleware.GetUserID(r.Context())); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, types.OKMessage(nil, "Member removed"))
}
