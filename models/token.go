package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a verified bearer token.
//
// It embeds [jwt.Token] for signing and claim inspection and
// [jwt.RegisteredClaims] so it can be used directly as the claims target of
// [jwt.ParseWithClaims].
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS form (header.payload.signature).
	SignedString string `json:"-"`

	// UserID is the cached "sub" claim.
	UserID string `json:"-"`
}

// GetUserID returns the "sub" claim of the token.
func (t *Token) GetUserID() (string, error) {
	userID, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting UserID from token: %w", err)
	}
	if userID == "" {
		return "", fmt.Errorf("error extracting UserID from token: empty subject")
	}

	return userID, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
