package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/HilaBluman/CEOS/internal/logger"
	"github.com/HilaBluman/CEOS/internal/model"
)

// DocumentService owns document identity and lifecycle.
type DocumentService interface {
	Create(ctx context.Context, ownerID int64, filename string) (model.Document, error)
	Delete(ctx context.Context, fileID, callerID int64) (string, error)
	ListForUser(ctx context.Context, userID int64) ([]model.DocumentRef, error)
}

// Document handles document registry requests.
type Document struct {
	documents      DocumentService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewDocument creates a new Document handler instance.
func NewDocument(documents DocumentService, contextManager model.ContextManager, logger *logger.Logger) *Document {
	return &Document{documents: documents, contextManager: contextManager, logger: logger}
}

type createDocumentRequest struct {
	Filename string `json:"filename"`
}

type documentResponse struct {
	FileID   int64  `json:"fileID"`
	Filename string `json:"filename"`
}

// Create handles POST /api/files.
func (h *Document) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.contextManager, h.logger)
	if !ok {
		return
	}

	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "malformed request body")
		return
	}

	document, err := h.documents.Create(r.Context(), userID, req.Filename)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, documentResponse{
		FileID:   document.FileID,
		Filename: document.Filename,
	})
}

// List handles GET /api/files.
func (h *Document) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.contextManager, h.logger)
	if !ok {
		return
	}

	refs, err := h.documents.ListForUser(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	out := make([]documentResponse, 0, len(refs))
	for _, ref := range refs {
		out = append(out, documentResponse{FileID: ref.FileID, Filename: ref.Filename})
	}
	writeJSON(w, h.logger, http.StatusOK, out)
}

// Delete handles DELETE /api/files/{fileID}.
func (h *Document) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.contextManager, h.logger)
	if !ok {
		return
	}

	fileID, ok := pathID(w, r, h.logger, "fileID")
	if !ok {
		return
	}

	filename, err := h.documents.Delete(r.Context(), fileID, userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, documentResponse{FileID: fileID, Filename: filename})
}

// pathID parses a numeric path variable, answering 400 on garbage.
func pathID(w http.ResponseWriter, r *http.Request, log *logger.Logger, name string) (int64, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, log, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
