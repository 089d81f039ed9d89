package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-cookie-sync/internal/config"
	"github.com/MKhiriev/go-cookie-sync/internal/logger"
)

// ClientStorages groups all client-side storage into a single value that can
// be passed around the service layer.
type ClientStorages struct {
	// Settings holds sync metadata and preferences.
	Settings SettingsStorage
	// Tokens holds the remote store access token.
	Tokens TokenStorage

	db *DB
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Wires the typed settings view and the token storage, which uses the
//     OS keyring when cfg.UseKeyring is set.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Debug().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newClientStorages(db, cfg, logger), nil
}

func newClientStorages(db *DB, cfg config.ClientStorage, logger *logger.Logger) *ClientStorages {
	repo := NewSettingsRepository(db, logger)

	var tokens TokenStorage = NewSettingsTokenStorage(repo)
	if cfg.UseKeyring {
		tokens = NewKeyringTokenStorage(cfg.KeyringService, tokens, logger)
	}

	return &ClientStorages{
		Settings: NewSettingsStorage(repo, logger),
		Tokens:   tokens,
		db:       db,
	}
}

// Close releases the database connection.
func (c *ClientStorages) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
