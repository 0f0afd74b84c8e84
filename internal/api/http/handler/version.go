package handler

import (
	"context"
	"net/http"

	"github.com/HilaBluman/CEOS/internal/logger"
	"github.com/HilaBluman/CEOS/internal/model"
)

// VersionService manages full-content snapshots.
type VersionService interface {
	Save(ctx context.Context, fileID, userID int64, content string) (int, error)
	Get(ctx context.Context, fileID int64, number int) (string, error)
	Delete(ctx context.Context, fileID, userID int64, number int) error
	List(ctx context.Context, fileID int64) ([]model.VersionInfo, error)
}

// ContentProvider reads the current persisted document content.
type ContentProvider interface {
	CurrentContent(ctx context.Context, fileID int64) (string, error)
}

// Version handles snapshot requests. Saving snapshots the server-side
// buffer, never a client-submitted body, so a snapshot always matches what
// the log produced.
type Version struct {
	versions       VersionService
	content        ContentProvider
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewVersion creates a new Version handler instance.
func NewVersion(versions VersionService, content ContentProvider, contextManager model.ContextManager, logger *logger.Logger) *Version {
	return &Version{versions: versions, content: content, contextManager: contextManager, logger: logger}
}

type saveVersionResponse struct {
	Version int `json:"version"`
}

type versionContentResponse struct {
	Version int    `json:"version"`
	Content string `json:"content"`
}

// Save handles POST /api/files/{fileID}/versions.
func (h *Version) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.contextManager, h.logger)
	if !ok {
		return
	}

	fileID, ok := pathID(w, r, h.logger, "fileID")
	if !ok {
		return
	}

	content, err := h.content.CurrentContent(r.Context(), fileID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	number, err := h.versions.Save(r.Context(), fileID, userID, content)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, saveVersionResponse{Version: number})
}

// List handles GET /api/files/{fileID}/versions.
func (h *Version) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestUserID(w, r, h.contextManager, h.logger); !ok {
		return
	}

	fileID, ok := pathID(w, r, h.logger, "fileID")
	if !ok {
		return
	}

	infos, err := h.versions.List(r.Context(), fileID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, infos)
}

// Get handles GET /api/files/{fileID}/versions/{version}.
func (h *Version) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestUserID(w, r, h.contextManager, h.logger); !ok {
		return
	}

	fileID, ok := pathID(w, r, h.logger, "fileID")
	if !ok {
		return
	}

	number, ok := pathID(w, r, h.logger, "version")
	if !ok {
		return
	}

	content, err := h.versions.Get(r.Context(), fileID, int(number))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, versionContentResponse{Version: int(number), Content: content})
}

// Delete handles DELETE /api/files/{fileID}/versions/{version}.
func (h *Version) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.contextManager, h.logger)
	if !ok {
		return
	}

	fileID, ok := pathID(w, r, h.logger, "fileID")
	if !ok {
		return
	}

	number, ok := pathID(w, r, h.logger, "version")
	if !ok {
		return
	}

	if err := h.versions.Delete(r.Context(), fileID, userID, int(number)); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
