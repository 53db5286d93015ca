package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahil-chaple/happy-street-godhani/internal/auth"
	"github.com/sahil-chaple/happy-street-godhani/internal/repository/memory"
)

func newAuthService(t *testing.T) (*AuthService, *memory.Store, *auth.JWTManager) {
	t.Helper()
	store := memory.New()
	tokens := auth.NewJWTManager("test-secret", 7*24*time.Hour)
	return NewAuthService(store.Admins(), tokens), store, tokens
}

func TestSeedAdminOnce(t *testing.T) {
	svc, store, _ := newAuthService(t)
	ctx := context.Background()

	created, err := svc.SeedAdmin(ctx, "admin", "pa55word")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.SeedAdmin(ctx, "admin", "different")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := store.Admins().FindByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.NotEqual(t, "pa55word", admin.PasswordHash)
	assert.True(t, auth.CheckPassword("pa55word", admin.PasswordHash))
}

func TestSeedAdminWithoutPassword(t *testing.T) {
	svc, _, _ := newAuthService(t)

	created, err := svc.SeedAdmin(context.Background(), "admin", "")
	assert.ErrorIs(t, err, ErrNoSeedPassword)
	assert.False(t, created)
}

func TestLogin(t *testing.T) {
	svc, _, tokens := newAuthService(t)
	ctx := context.Background()
	_, err := svc.SeedAdmin(ctx, "admin", "pa55word")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "admin", "pa55word")
	require.NoError(t, err)
	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, 7*24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))

	_, err = svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "pa55word")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginStoreFailure(t *testing.T) {
	svc, store, _ := newAuthService(t)
	boom := errors.New("boom")
	store.FailWith(boom)

	_, err := svc.Login(context.Background(), "admin", "x")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
