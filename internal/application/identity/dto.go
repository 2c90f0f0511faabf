package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput contains login request data
type LoginInput struct {
	Username string
	Password string
	IP       string
}

// LoginResult contains successful login response data
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	Account               AccountInfo
}

// AccountInfo contains account data returned after authentication
type AccountInfo struct {
	UserID      uuid.UUID
	SellerID    uuid.UUID
	Username    string
	DisplayName string
	Email       string
	Role        string
}

// RefreshTokenInput contains token refresh request data
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains token refresh response data
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}
