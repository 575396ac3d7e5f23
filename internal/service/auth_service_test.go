package service

import (
	"context"
	"path/filepath"
	"testing"

	"maale/internal/database"
	"maale/internal/models"
	"maale/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	logger := zerolog.Nop()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.SeedDefaultAdmin(context.Background()))

	sessions := session.NewMemoryStore(models.SessionTTL)
	return NewAuthService(db, sessions, &logger)
}

func TestLogin_DefaultAdmin(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	token, actor, err := auth.Login(ctx, models.DefaultAdminUsername, models.DefaultAdminSecret)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleAdmin, actor.Role)
	assert.True(t, actor.IsAdmin())

	resolved := auth.Resolve(ctx, token)
	assert.Equal(t, actor, resolved)
}

func TestLogin_Failures(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	_, _, err := auth.Login(ctx, models.DefaultAdminUsername, "wrong")
	assert.ErrorIs(t, err, database.ErrAuthFailed)

	// Unknown user and wrong secret are indistinguishable
	_, _, err = auth.Login(ctx, "nobody", "1234")
	assert.ErrorIs(t, err, database.ErrAuthFailed)
}

func TestResolve_GuestFallback(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	assert.Equal(t, models.Guest, auth.Resolve(ctx, ""))
	assert.Equal(t, models.Guest, auth.Resolve(ctx, "unknown-token"))
}

func TestLogout(t *testing.T) {
	auth := newAuthService(t)
	ctx := context.Background()

	token, _, err := auth.Login(ctx, models.DefaultAdminUsername, models.DefaultAdminSecret)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, token))
	assert.Equal(t, models.Guest, auth.Resolve(ctx, token))

	assert.NoError(t, auth.Logout(ctx, ""))
}
