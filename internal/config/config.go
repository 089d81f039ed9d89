// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "COOKIESYNC_"

// StructuredConfig is the top-level configuration container. It is populated
// by merging flags, environment variables, an optional JSON file and
// defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Remote holds the GitHub Gist endpoint and transport settings.
	Remote Remote `envPrefix:"REMOTE_"`

	// Storage holds the local settings database and keyring settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Cookies selects the local cookie jar.
	Cookies Cookies `envPrefix:"COOKIES_"`

	// Crypto holds key-derivation tuning.
	Crypto Crypto `envPrefix:"CRYPTO_"`

	// Workers holds scheduler and jar watcher settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Log holds log file rotation and level.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: COOKIESYNC_CONFIG, flag: --config.
	JSONFilePath string `env:"CONFIG"`
}

// Remote configures the remote blob store.
type Remote struct {
	// BaseURL is the GitHub REST API root.
	// Env: COOKIESYNC_REMOTE_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// Token overrides the stored access token when set. Never read from the
	// JSON file.
	// Env: COOKIESYNC_REMOTE_TOKEN
	Token string `env:"TOKEN"`

	// Description identifies the gist among the user's gists.
	// Env: COOKIESYNC_REMOTE_DESCRIPTION
	Description string `env:"DESCRIPTION"`

	// FileName is the single file inside the gist holding the envelope.
	// Env: COOKIESYNC_REMOTE_FILE_NAME
	FileName string `env:"FILE_NAME"`

	// RequestTimeout bounds one HTTP request.
	// Env: COOKIESYNC_REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RetryCount is how many times a rate-limited request is retried.
	// Env: COOKIESYNC_REMOTE_RETRY_COUNT
	RetryCount int `env:"RETRY_COUNT"`

	// RateLimitThreshold pauses requests once X-RateLimit-Remaining drops
	// below it.
	// Env: COOKIESYNC_REMOTE_RATE_LIMIT_THRESHOLD
	RateLimitThreshold int `env:"RATE_LIMIT_THRESHOLD"`

	// MaxRateLimitWait caps a single rate-limit pause.
	// Env: COOKIESYNC_REMOTE_MAX_RATE_LIMIT_WAIT
	MaxRateLimitWait time.Duration `env:"MAX_RATE_LIMIT_WAIT"`
}

// Storage configures local persistence.
type Storage struct {
	// DB holds the SQLite settings database.
	DB DB `envPrefix:"DB_"`

	// KeyringService is the OS keyring service name for the access token.
	// Env: COOKIESYNC_STORAGE_KEYRING_SERVICE
	KeyringService string `env:"KEYRING_SERVICE"`

	// NoKeyring stores the token in the settings database instead of the OS
	// keyring.
	// Env: COOKIESYNC_STORAGE_NO_KEYRING
	NoKeyring bool `env:"NO_KEYRING"`
}

// DB holds connection settings for the SQLite settings database.
type DB struct {
	// DSN is the SQLite database file path.
	// Env: COOKIESYNC_STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Cookies selects the local cookie jar backend.
type Cookies struct {
	// JarPath is a Netscape cookies.txt or Firefox cookies.sqlite file.
	// Env: COOKIESYNC_COOKIES_JAR
	JarPath string `env:"JAR"`

	// Format is "netscape", "firefox" or "auto".
	// Env: COOKIESYNC_COOKIES_FORMAT
	Format string `env:"FORMAT"`
}

// Crypto holds key-derivation tuning.
type Crypto struct {
	// Iterations is the PBKDF2 round count for new envelopes.
	// Env: COOKIESYNC_CRYPTO_ITERATIONS
	Iterations int `env:"ITERATIONS"`
}

// Workers holds background worker settings.
type Workers struct {
	// SyncInterval is the auto-sync period of the daemon.
	// Env: COOKIESYNC_WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// Watch enables pushing when the cookie jar file changes.
	// Env: COOKIESYNC_WORKERS_WATCH
	Watch bool `env:"WATCH"`

	// WatchDebounce coalesces bursts of jar writes.
	// Env: COOKIESYNC_WORKERS_WATCH_DEBOUNCE
	WatchDebounce time.Duration `env:"WATCH_DEBOUNCE"`
}

// Log configures the client log file.
type Log struct {
	// Path is the log file; "-" logs to stderr.
	// Env: COOKIESYNC_LOG_PATH
	Path string `env:"PATH"`

	// Level is a zerolog level name.
	// Env: COOKIESYNC_LOG_LEVEL
	Level string `env:"LEVEL"`

	// MaxSizeMB rotates the file once it grows past this size.
	// Env: COOKIESYNC_LOG_MAX_SIZE_MB
	MaxSizeMB int `env:"MAX_SIZE_MB"`

	// MaxBackups is the number of rotated files kept.
	// Env: COOKIESYNC_LOG_MAX_BACKUPS
	MaxBackups int `env:"MAX_BACKUPS"`
}

// GetStructuredConfig loads and merges configuration from flags (when fv is
// non-nil), environment, the JSON file and defaults.
func GetStructuredConfig(fv *FlagValues) (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags(fv).
		withEnv().
		withJSON().
		withDefaults().
		build()
}
