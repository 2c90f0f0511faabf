package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles seller authentication operations
type AuthService struct {
	credentials CredentialStore
	jwtService  *auth.JWTService
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(credentials CredentialStore, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		credentials: credentials,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Login authenticates a seller account and returns a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	account, err := s.credentials.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Warn("Login attempt for unknown username",
			zap.String("username", input.Username),
			zap.String("ip", input.IP))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !account.Active {
		s.logger.Warn("Login attempt for deactivated account",
			zap.String("username", input.Username))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !account.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt",
			zap.String("username", input.Username),
			zap.String("ip", input.IP))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		SellerID: account.SellerID,
		UserID:   account.UserID,
		Username: account.Username,
		Role:     account.Role,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	s.logger.Info("Seller logged in",
		zap.String("username", account.Username),
		zap.String("seller_id", account.SellerID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		Account: AccountInfo{
			UserID:      account.UserID,
			SellerID:    account.SellerID,
			Username:    account.Username,
			DisplayName: account.DisplayName,
			Email:       account.Email,
			Role:        account.Role,
		},
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair.
// The account is re-checked so a deactivated seller cannot keep
// rotating tokens.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		switch err {
		case auth.ErrExpiredToken:
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		case auth.ErrInvalidToken:
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		default:
			return nil, shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
		}
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	account, err := s.credentials.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("Account not found during token refresh",
			zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")
	}
	if !account.Active {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		SellerID: account.SellerID,
		UserID:   account.UserID,
		Username: account.Username,
		Role:     account.Role,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair on refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}
