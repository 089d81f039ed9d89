package store

import (
	"context"

	"github.com/MKhiriev/go-cookie-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// SettingsRepository is the low-level key-value settings table.
type SettingsRepository interface {
	// Get returns the row for key or [ErrSettingNotFound].
	Get(ctx context.Context, key string) (models.Setting, error)
	// Set writes value unconditionally, creating the row if needed.
	Set(ctx context.Context, key, value string) error
	// CompareAndSwap writes value only if the stored version still equals
	// version. Version 0 means the row must not exist yet. A lost race
	// returns [ErrVersionConflict].
	CompareAndSwap(ctx context.Context, key, value string, version int64) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// SettingsStorage is the typed view of the settings the sync service needs.
type SettingsStorage interface {
	// LoadMeta returns the stored sync metadata, or the zero value if the
	// remote object was never located.
	LoadMeta(ctx context.Context) (models.SyncMetadata, error)
	// UpdateMeta applies fn to the current metadata and stores the result
	// atomically with respect to other writers.
	UpdateMeta(ctx context.Context, fn func(*models.SyncMetadata) error) (models.SyncMetadata, error)
	// ClearMeta forgets the remote object. Only an explicit reset calls it.
	ClearMeta(ctx context.Context) error

	// LoadPrefs returns the stored preferences, or the zero value.
	LoadPrefs(ctx context.Context) (models.Preferences, error)
	// UpdatePrefs applies fn to the current preferences and stores them.
	UpdatePrefs(ctx context.Context, fn func(*models.Preferences) error) (models.Preferences, error)
}

// TokenStorage keeps the remote store access token.
type TokenStorage interface {
	// Token returns the saved token, or "" when none is saved.
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}
