package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/mock"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/internal/utils"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testAppConfig = config.App{TokenSignKey: "sign-key", TokenIssuer: "notes-auth"}

func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (AuthService, *mock.MockUserRepository) {
	t.Helper()
	users := mock.NewMockUserRepository(ctrl)
	return NewAuthService(users, testAppConfig, logger.Nop()), users
}

func signedToken(t *testing.T, issuer, subject, key string, ttl time.Duration) string {
	t.Helper()
	token, err := utils.GenerateJWTToken(issuer, subject, ttl, key)
	require.NoError(t, err)
	return token.SignedString
}

func TestAuthService_ParseToken(t *testing.T) {
	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr bool
	}{
		{
			name:  "valid",
			token: func(t *testing.T) string { return signedToken(t, "notes-auth", testOwnerID, "sign-key", time.Hour) },
		},
		{
			name:    "wrong key",
			token:   func(t *testing.T) string { return signedToken(t, "notes-auth", testOwnerID, "other", time.Hour) },
			wantErr: true,
		},
		{
			name:    "wrong issuer",
			token:   func(t *testing.T) string { return signedToken(t, "someone-else", testOwnerID, "sign-key", time.Hour) },
			wantErr: true,
		},
		{
			name:    "expired",
			token:   func(t *testing.T) string { return signedToken(t, "notes-auth", testOwnerID, "sign-key", -time.Minute) },
			wantErr: true,
		},
		{
			name:    "subject is not a uuid",
			token:   func(t *testing.T) string { return signedToken(t, "notes-auth", "42", "sign-key", time.Hour) },
			wantErr: true,
		},
		{
			name:    "garbage",
			token:   func(*testing.T) string { return "a.b.c" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, _ := newTestAuthSvc(t, ctrl)

			token, err := svc.ParseToken(context.Background(), tt.token(t))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testOwnerID, token.UserID)
		})
	}
}

func TestAuthService_ResolveIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users := newTestAuthSvc(t, ctrl)

	users.EXPECT().FindUserByID(gomock.Any(), testOwnerID).Return(testUsers[testOwnerID], nil)

	user, err := svc.ResolveIdentity(context.Background(), testOwnerID)
	require.NoError(t, err)
	assert.Equal(t, ownerEmail, user.Email)
}

func TestAuthService_ResolveIdentity_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, users := newTestAuthSvc(t, ctrl)

	users.EXPECT().FindUserByID(gomock.Any(), testStrangerID).Return(models.User{}, store.ErrNoUserWasFound)

	_, err := svc.ResolveIdentity(context.Background(), testStrangerID)
	assert.ErrorIs(t, err, store.ErrNoUserWasFound)
}

func TestAuthService_ResolveIdentity_MalformedID(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.ResolveIdentity(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidUserID)
}
