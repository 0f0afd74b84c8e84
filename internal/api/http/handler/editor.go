package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/HilaBluman/CEOS/internal/logger"
	"github.com/HilaBluman/CEOS/internal/model"
	"github.com/HilaBluman/CEOS/internal/service"
)

// EditorService applies edits and serves document content.
type EditorService interface {
	Apply(ctx context.Context, fileID, userID int64, op model.Operation) (model.Action, error)
	Load(ctx context.Context, fileID, userID int64) (service.LoadResult, error)
}

// Editor handles content loading and mutation requests.
type Editor struct {
	editor         EditorService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewEditor creates a new Editor handler instance.
func NewEditor(editor EditorService, contextManager model.ContextManager, logger *logger.Logger) *Editor {
	return &Editor{editor: editor, contextManager: contextManager, logger: logger}
}

type modifyResponse struct {
	Action model.Action `json:"action"`
}

// Content handles GET /api/files/{fileID}/content.
func (h *Editor) Content(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.contextManager, h.logger)
	if !ok {
		return
	}

	fileID, ok := pathID(w, r, h.logger, "fileID")
	if !ok {
		return
	}

	result, err := h.editor.Load(r.Context(), fileID, userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}

// Modify handles POST /api/files/{fileID}/modify. The response carries the
// canonical action actually applied, which may differ from the submitted
// one when the submitted tag was ambiguous.
func (h *Editor) Modify(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.contextManager, h.logger)
	if !ok {
		return
	}

	fileID, ok := pathID(w, r, h.logger, "fileID")
	if !ok {
		return
	}

	var op model.Operation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "malformed request body")
		return
	}

	action, err := h.editor.Apply(r.Context(), fileID, userID, op)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, modifyResponse{Action: action})
}
