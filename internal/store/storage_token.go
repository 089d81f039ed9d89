package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/zalando/go-keyring"
)

// keyringUser is the account name the token is filed under in the OS
// keyring.
const keyringUser = "github-token"

// settingsTokenStorage keeps the token in the settings table.
type settingsTokenStorage struct {
	repo SettingsRepository
}

// NewSettingsTokenStorage stores the token as a plain settings row.
func NewSettingsTokenStorage(repo SettingsRepository) TokenStorage {
	return &settingsTokenStorage{repo: repo}
}

func (s *settingsTokenStorage) Token(ctx context.Context) (string, error) {
	row, err := s.repo.Get(ctx, KeyToken)
	if errors.Is(err, ErrSettingNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return row.Value, nil
}

func (s *settingsTokenStorage) SetToken(ctx context.Context, token string) error {
	return s.repo.Set(ctx, KeyToken, token)
}

func (s *settingsTokenStorage) ClearToken(ctx context.Context) error {
	return s.repo.Delete(ctx, KeyToken)
}

// keyringTokenStorage keeps the token in the OS keyring and falls back to
// the settings table when no keyring is available.
type keyringTokenStorage struct {
	service  string
	fallback TokenStorage
	logger   *logger.Logger
}

// NewKeyringTokenStorage files the token under service in the OS keyring.
func NewKeyringTokenStorage(service string, fallback TokenStorage, logger *logger.Logger) TokenStorage {
	return &keyringTokenStorage{service: service, fallback: fallback, logger: logger}
}

func (k *keyringTokenStorage) Token(ctx context.Context) (string, error) {
	token, err := keyring.Get(k.service, keyringUser)
	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, keyring.ErrNotFound):
		return k.fallback.Token(ctx)
	default:
		k.logger.Warn().Err(err).Str("func", "keyringTokenStorage.Token").Msg("keyring unavailable, using settings")
		return k.fallback.Token(ctx)
	}
}

func (k *keyringTokenStorage) SetToken(ctx context.Context, token string) error {
	if err := keyring.Set(k.service, keyringUser, token); err != nil {
		k.logger.Warn().Err(err).Str("func", "keyringTokenStorage.SetToken").Msg("keyring unavailable, using settings")
		return k.fallback.SetToken(ctx, token)
	}
	// a token saved before the keyring became available must not linger
	return k.fallback.ClearToken(ctx)
}

func (k *keyringTokenStorage) ClearToken(ctx context.Context) error {
	if err := keyring.Delete(k.service, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		k.logger.Warn().Err(err).Str("func", "keyringTokenStorage.ClearToken").Msg("keyring delete failed")
	}
	return k.fallback.ClearToken(ctx)
}
