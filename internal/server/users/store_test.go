package users

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/watchdeck/watchdeck/internal/common"
	"github.com/watchdeck/watchdeck/internal/server/auth"
	"github.com/watchdeck/watchdeck/internal/server/models"
	"github.com/watchdeck/watchdeck/internal/server/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), DocumentName)
	s := New(path, nil)
	s.Load(context.Background())
	return s
}

func TestNeedsSetup_TrueOnEmptyStore(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.NeedsSetup())
}

func TestBootstrapAdmin_CreatesAdminOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	user, err := s.BootstrapAdmin(ctx, "admin", "secret")
	require.NoError(t, err)
	require.Equal(t, "admin", user.Username)
	require.Equal(t, models.RoleAdmin, user.Role)
	require.Empty(t, user.PasswordHash, "hash must not leave the store")

	require.False(t, s.NeedsSetup())

	_, err = s.BootstrapAdmin(ctx, "admin2", "x")
	require.ErrorIs(t, err, common.ErrAlreadyInitialized)
	require.False(t, s.NeedsSetup())
}

func TestBootstrapAdmin_EmptyPasswordFailsWithoutMutation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.BootstrapAdmin(ctx, "admin", "")
	require.ErrorIs(t, err, auth.ErrEmptyPassword)
	require.True(t, s.NeedsSetup())
}

func TestBootstrapAdmin_PersistsHashedPassword(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DocumentName)
	s := New(path, nil)
	s.Load(ctx)

	_, err := s.BootstrapAdmin(ctx, "admin", "secret")
	require.NoError(t, err)

	saved, err := storage.Load[models.User](path)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.NotEmpty(t, saved[0].PasswordHash)
	require.NotContains(t, saved[0].PasswordHash, "secret")
	require.True(t, auth.VerifyPassword("secret", saved[0].PasswordHash))
}

func TestVerifyCredentials(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.BootstrapAdmin(ctx, "admin", "secret")
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		user, ok := s.VerifyCredentials(ctx, "admin", "secret")
		require.True(t, ok)
		require.Equal(t, "admin", user.Username)
		require.Empty(t, user.PasswordHash)
	})

	t.Run("wrong password", func(t *testing.T) {
		user, ok := s.VerifyCredentials(ctx, "admin", "wrong")
		require.False(t, ok)
		require.Nil(t, user)
	})

	t.Run("unknown user", func(t *testing.T) {
		user, ok := s.VerifyCredentials(ctx, "nobody", "secret")
		require.False(t, ok)
		require.Nil(t, user)
	})

	t.Run("username match is case sensitive", func(t *testing.T) {
		_, ok := s.VerifyCredentials(ctx, "Admin", "secret")
		require.False(t, ok)
	})
}

func TestLoad_ReusesPersistedUsers(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DocumentName)

	first := New(path, nil)
	first.Load(ctx)
	_, err := first.BootstrapAdmin(ctx, "admin", "secret")
	require.NoError(t, err)

	second := New(path, nil)
	second.Load(ctx)
	require.False(t, second.NeedsSetup())

	_, ok := second.VerifyCredentials(ctx, "admin", "secret")
	require.True(t, ok)
}

func TestBootstrapAdmin_WriteFailureKeepsInMemoryState(t *testing.T) {
	ctx := context.Background()
	// Pointing the store at a directory makes every save fail.
	s := New(t.TempDir(), nil)
	s.Load(ctx)

	_, err := s.BootstrapAdmin(ctx, "admin", "secret")
	require.NoError(t, err)
	require.False(t, s.NeedsSetup(), "mutation stands even though the disk is stale")
}

func TestLoad_CorruptDocumentStartsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DocumentName)
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o660))

	s := New(path, nil)
	s.Load(ctx)
	require.True(t, s.NeedsSetup())
}
