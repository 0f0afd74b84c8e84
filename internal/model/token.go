package model

// TokenManager issues and validates access tokens.
type TokenManager interface {
	GenerateAccessToken(userID int64) (string, error)
	ParseAccessToken(tokenString string) (int64, error)
}
