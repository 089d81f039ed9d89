// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// MinIterations is the lowest PBKDF2 round count accepted from config.
const MinIterations = 100_000

// validate checks that the final merged [StructuredConfig] is usable.
// Field-level rules live on [ClientConfig].
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}
	if cfg.Storage.UseKeyring && cfg.Storage.KeyringService == "" {
		return fmt.Errorf("%w: empty keyring service", ErrInvalidStorageConfigs)
	}

	if cfg.Remote.BaseURL == "" || cfg.Remote.RequestTimeout <= 0 {
		return ErrInvalidRemoteConfigs
	}
	if cfg.Remote.FileName == "" || cfg.Remote.Description == "" {
		return fmt.Errorf("%w: gist file name and description are required", ErrInvalidRemoteConfigs)
	}
	if cfg.Remote.RetryCount < 0 || cfg.Remote.RateLimitThreshold < 0 {
		return fmt.Errorf("%w: negative retry settings", ErrInvalidRemoteConfigs)
	}

	switch cfg.Cookies.Format {
	case "auto", "netscape", "firefox":
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidCookieConfigs, cfg.Cookies.Format)
	}

	if cfg.Crypto.Iterations < MinIterations {
		return fmt.Errorf("%w: iterations must be at least %d", ErrInvalidCryptoConfigs, MinIterations)
	}

	if cfg.Workers.SyncInterval <= 0 || cfg.Workers.WatchDebounce < 0 {
		return ErrInvalidWorkerConfigs
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLogConfigs, err)
	}

	return nil
}
