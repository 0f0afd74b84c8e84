package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/HilaBluman/CEOS/internal/logger"
	"github.com/HilaBluman/CEOS/internal/model"
)

// SyncService answers poll requests against the change log.
type SyncService interface {
	Poll(ctx context.Context, fileID, lastModID, requesterID int64) ([]model.Change, error)
}

// Sync handles change-polling requests.
type Sync struct {
	sync           SyncService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewSync creates a new Sync handler instance.
func NewSync(sync SyncService, contextManager model.ContextManager, logger *logger.Logger) *Sync {
	return &Sync{sync: sync, contextManager: contextManager, logger: logger}
}

// Changes handles GET /api/files/{fileID}/changes?since=N. A poll with
// nothing new answers the literal string "no updates" so clients can skip
// decoding an empty batch.
func (h *Sync) Changes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.contextManager, h.logger)
	if !ok {
		return
	}

	fileID, ok := pathID(w, r, h.logger, "fileID")
	if !ok {
		return
	}

	since, err := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
	if err != nil || since < 0 {
		writeError(w, h.logger, http.StatusBadRequest, "invalid since cursor")
		return
	}

	changes, err := h.sync.Poll(r.Context(), fileID, since, userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if len(changes) == 0 {
		writeJSON(w, h.logger, http.StatusOK, "no updates")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, changes)
}
