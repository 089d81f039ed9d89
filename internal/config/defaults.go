// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"time"
)

// AppDirName is the per-user directory holding the database and log file.
const AppDirName = "cookiesync"

// Built-in defaults, the last merge source.
const (
	DefaultBaseURL            = "https://api.github.com"
	DefaultGistDescription    = "cookiesync: encrypted cookie backup"
	DefaultGistFileName       = "cookies.enc"
	DefaultRequestTimeout     = 30 * time.Second
	DefaultRetryCount         = 3
	DefaultRateLimitThreshold = 5
	DefaultMaxRateLimitWait   = 15 * time.Minute
	DefaultIterations         = 600_000
	DefaultSyncInterval       = 30 * time.Minute
	DefaultWatchDebounce      = 2 * time.Second
	DefaultKeyringService     = "cookiesync"
	DefaultJarFormat          = "auto"
	DefaultLogLevel           = "info"
	DefaultLogMaxSizeMB       = 10
	DefaultLogMaxBackups      = 3
)

func defaultConfig() *StructuredConfig {
	dir := appDir()

	return &StructuredConfig{
		Remote: Remote{
			BaseURL:            DefaultBaseURL,
			Description:        DefaultGistDescription,
			FileName:           DefaultGistFileName,
			RequestTimeout:     DefaultRequestTimeout,
			RetryCount:         DefaultRetryCount,
			RateLimitThreshold: DefaultRateLimitThreshold,
			MaxRateLimitWait:   DefaultMaxRateLimitWait,
		},
		Storage: Storage{
			DB:             DB{DSN: filepath.Join(dir, "cookiesync.db")},
			KeyringService: DefaultKeyringService,
		},
		Cookies: Cookies{Format: DefaultJarFormat},
		Crypto:  Crypto{Iterations: DefaultIterations},
		Workers: Workers{
			SyncInterval:  DefaultSyncInterval,
			WatchDebounce: DefaultWatchDebounce,
		},
		Log: Log{
			Path:       filepath.Join(dir, "cookiesync.log"),
			Level:      DefaultLogLevel,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
		},
	}
}

// appDir returns the per-user config directory, falling back to the working
// directory when the OS does not report one.
func appDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return AppDirName
	}
	return filepath.Join(base, AppDirName)
}
