package store

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSettingsTokenStorage(t *testing.T) {
	ctx := context.Background()
	s := NewSettingsTokenStorage(newMemRepo())

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.SetToken(ctx, "ghp_1"))
	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ghp_1", token)

	require.NoError(t, s.ClearToken(ctx))
	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestKeyringTokenStorage_UsesKeyring(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()
	repo := newMemRepo()
	s := NewKeyringTokenStorage("cookiesync-test", NewSettingsTokenStorage(repo), logger.Nop())

	require.NoError(t, s.SetToken(ctx, "ghp_kr"))

	stored, err := keyring.Get("cookiesync-test", keyringUser)
	require.NoError(t, err)
	assert.Equal(t, "ghp_kr", stored)
	assert.NotContains(t, repo.rows, KeyToken, "token must not also land in settings")

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ghp_kr", token)

	require.NoError(t, s.ClearToken(ctx))
	_, err = keyring.Get("cookiesync-test", keyringUser)
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestKeyringTokenStorage_FallsBackWhenKeyringFails(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	ctx := context.Background()
	repo := newMemRepo()
	s := NewKeyringTokenStorage("cookiesync-test", NewSettingsTokenStorage(repo), logger.Nop())

	require.NoError(t, s.SetToken(ctx, "ghp_fb"))
	assert.Equal(t, "ghp_fb", repo.rows[KeyToken].Value)

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ghp_fb", token)
}
