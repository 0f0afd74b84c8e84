package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/HilaBluman/CEOS/internal/logger"
	"github.com/HilaBluman/CEOS/internal/model"
)

// AccessService manages the (document, user) -> role relation.
type AccessService interface {
	Grant(ctx context.Context, fileID, callerID int64, targetUsername string, role model.Role) error
	Revoke(ctx context.Context, fileID, callerID, targetUserID int64) error
	ListAccess(ctx context.Context, fileID, callerID int64) ([]model.AccessEntry, error)
}

// Access handles role management requests.
type Access struct {
	access         AccessService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAccess creates a new Access handler instance.
func NewAccess(access AccessService, contextManager model.ContextManager, logger *logger.Logger) *Access {
	return &Access{access: access, contextManager: contextManager, logger: logger}
}

type grantRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type accessEntryResponse struct {
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// Grant handles POST /api/files/{fileID}/access.
func (h *Access) Grant(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.contextManager, h.logger)
	if !ok {
		return
	}

	fileID, ok := pathID(w, r, h.logger, "fileID")
	if !ok {
		return
	}

	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "malformed request body")
		return
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := h.access.Grant(r.Context(), fileID, userID, req.Username, role); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Revoke handles DELETE /api/files/{fileID}/access/{userID}.
func (h *Access) Revoke(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requestUserID(w, r, h.contextManager, h.logger)
	if !ok {
		return
	}

	fileID, ok := pathID(w, r, h.logger, "fileID")
	if !ok {
		return
	}

	targetID, ok := pathID(w, r, h.logger, "userID")
	if !ok {
		return
	}

	if err := h.access.Revoke(r.Context(), fileID, callerID, targetID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/files/{fileID}/access.
func (h *Access) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requestUserID(w, r, h.contextManager, h.logger)
	if !ok {
		return
	}

	fileID, ok := pathID(w, r, h.logger, "fileID")
	if !ok {
		return
	}

	entries, err := h.access.ListAccess(r.Context(), fileID, callerID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	out := make([]accessEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, accessEntryResponse{Username: entry.Username, Role: entry.Role})
	}
	writeJSON(w, h.logger, http.StatusOK, out)
}
