package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/internal/utils"
	"github.com/MKhiriev/go-note-keeper/models"
)

// authService is the concrete implementation of AuthService.
// Tokens are issued by the credential service; this service only verifies
// them and looks the subject up in the users table.
type authService struct {
	// userRepository resolves the "sub" claim to an account.
	userRepository store.UserRepository

	// tokenSignKey is the HMAC secret shared with the credential service.
	tokenSignKey string

	// tokenIssuer is the expected "iss" claim. Tokens issued by anyone else
	// are rejected during parsing.
	tokenIssuer string

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// UserRepository and populated with token parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		logger:         logger,
	}
}

// ParseToken validates and parses a raw JWT string.
//
// Any validation failure (expired, wrong issuer, malformed, subject that is
// not a UUID) is normalised to ErrTokenIsExpiredOrInvalid so that callers do
// not need to inspect low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "authService.ParseToken").Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	if !utils.IsValidUUID(token.UserID) {
		logger.FromContext(ctx).Debug().
			Str("func", "authService.ParseToken").
			Str("sub", token.UserID).
			Msg("token subject is not a uuid")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// ResolveIdentity returns the account behind userID. A token whose subject no
// longer exists yields store.ErrNoUserWasFound.
func (a *authService) ResolveIdentity(ctx context.Context, userID string) (models.User, error) {
	if !utils.IsValidUUID(userID) {
		return models.User{}, ErrInvalidUserID
	}

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "authService.ResolveIdentity").
			Str("user_id", userID).
			Msg("user lookup failed")
		return models.User{}, fmt.Errorf("user lookup failed: %w", err)
	}

	return user, nil
}
