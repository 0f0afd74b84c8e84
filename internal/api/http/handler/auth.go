package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/HilaBluman/CEOS/internal/logger"
	"github.com/HilaBluman/CEOS/internal/model"
)

// AuthService registers users and exchanges credentials for tokens.
type AuthService interface {
	Signup(ctx context.Context, username, password string) (model.User, error)
	Login(ctx context.Context, username, password string) (string, model.User, error)
}

// Auth handles signup and login requests.
type Auth struct {
	auth   AuthService
	logger *logger.Logger
}

// NewAuth creates a new Auth handler instance.
func NewAuth(auth AuthService, logger *logger.Logger) *Auth {
	return &Auth{auth: auth, logger: logger}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signupResponse struct {
	UserID   int64  `json:"userID"`
	Username string `json:"username"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userID"`
	Username string `json:"username"`
}

// Signup handles POST /api/signup.
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := h.auth.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, signupResponse{
		UserID:   user.ID,
		Username: user.Username,
	})
}

// Login handles POST /api/login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "malformed request body")
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, loginResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
	})
}
