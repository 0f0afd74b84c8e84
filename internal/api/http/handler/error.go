package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HilaBluman/CEOS/internal/logger"
	"github.com/HilaBluman/CEOS/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// handleError maps service errors onto HTTP statuses. Validation failures
// carry their reason to the client; everything unexpected is hidden behind
// a generic 500.
func handleError(w http.ResponseWriter, log *logger.Logger, err error) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, log, http.StatusBadRequest, validationErr.Reason)
		return
	}

	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		writeError(w, log, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, model.ErrPermissionDenied):
		writeError(w, log, http.StatusForbidden, "permission denied")
	case errors.Is(err, model.ErrNotFound):
		writeError(w, log, http.StatusNotFound, "not found")
	case errors.Is(err, model.ErrConflict):
		writeError(w, log, http.StatusConflict, "already exists")
	default:
		log.Error("request failed", "error", err)
		writeError(w, log, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, log *logger.Logger, status int, message string) {
	writeJSON(w, log, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, log *logger.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to write response", "error", err)
	}
}

// requestUserID pulls the authenticated user out of the request context.
// A miss means the route was wired outside the authentication middleware.
func requestUserID(w http.ResponseWriter, r *http.Request, contextManager model.ContextManager, log *logger.Logger) (int64, bool) {
	userID, ok := contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, log, http.StatusUnauthorized, "missing authorization token")
		return 0, false
	}
	return userID, true
}
