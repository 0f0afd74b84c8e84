package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/HilaBluman/CEOS/internal/logger"
	"github.com/HilaBluman/CEOS/internal/model"
)

const minPasswordLength = 4

// Auth handles signup and login. The engine itself never sees credentials;
// everything past the boundary works with the authenticated user ID.
type Auth struct {
	users  model.UserStore
	tokens model.TokenManager
	logger *logger.Logger
}

func NewAuth(users model.UserStore, tokens model.TokenManager, logger *logger.Logger) *Auth {
	return &Auth{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Signup registers a new user. The username must be free and the password
// minimally long; the hash is bcrypt.
func (s *Auth) Signup(ctx context.Context, username, password string) (model.User, error) {
	if username == "" {
		return model.User{}, model.NewValidationError("username must not be empty")
	}
	if len(password) < minPasswordLength {
		return model.User{}, model.NewValidationError("password must be at least %d characters long", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, model.User{
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		return model.User{}, err
	}

	s.logger.Info("user created", "userID", user.ID)
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *Auth) Login(ctx context.Context, username, password string) (string, model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.User{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return "", model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", model.User{}, model.ErrInvalidCredentials
	}

	tokenString, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return "", model.User{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, user, nil
}
