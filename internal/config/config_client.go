package config

import (
	"fmt"
	"time"
)

// ClientRemote holds settings for the GitHub Gist adapter.
type ClientRemote struct {
	BaseURL            string
	Token              string
	Description        string
	FileName           string
	RequestTimeout     time.Duration
	RetryCount         int
	RateLimitThreshold int
	MaxRateLimitWait   time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite database file path.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
	// KeyringService names the OS keyring entry for the token.
	KeyringService string
	// UseKeyring selects the OS keyring for the token.
	UseKeyring bool
}

// ClientCookies selects the cookie jar.
type ClientCookies struct {
	JarPath string
	Format  string
}

// ClientCrypto holds key-derivation tuning.
type ClientCrypto struct {
	Iterations int
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the daemon runs an auto sync.
	SyncInterval time.Duration
	// Watch enables the jar watcher.
	Watch bool
	// WatchDebounce coalesces jar write bursts.
	WatchDebounce time.Duration
}

// ClientLog configures the log file.
type ClientLog struct {
	Path       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	Remote  ClientRemote
	Storage ClientStorage
	Cookies ClientCookies
	Crypto  ClientCrypto
	Workers ClientWorkers
	Log     ClientLog
}

// GetClientConfig builds and validates a client config view from the merged
// structured configuration. fv may be nil when no flags were registered.
func GetClientConfig(fv *FlagValues) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(fv)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		Remote: ClientRemote{
			BaseURL:            cfg.Remote.BaseURL,
			Token:              cfg.Remote.Token,
			Description:        cfg.Remote.Description,
			FileName:           cfg.Remote.FileName,
			RequestTimeout:     cfg.Remote.RequestTimeout,
			RetryCount:         cfg.Remote.RetryCount,
			RateLimitThreshold: cfg.Remote.RateLimitThreshold,
			MaxRateLimitWait:   cfg.Remote.MaxRateLimitWait,
		},
		Storage: ClientStorage{
			DB:             ClientDB{DSN: cfg.Storage.DB.DSN},
			KeyringService: cfg.Storage.KeyringService,
			UseKeyring:     !cfg.Storage.NoKeyring,
		},
		Cookies: ClientCookies{
			JarPath: cfg.Cookies.JarPath,
			Format:  cfg.Cookies.Format,
		},
		Crypto: ClientCrypto{Iterations: cfg.Crypto.Iterations},
		Workers: ClientWorkers{
			SyncInterval:  cfg.Workers.SyncInterval,
			Watch:         cfg.Workers.Watch,
			WatchDebounce: cfg.Workers.WatchDebounce,
		},
		Log: ClientLog{
			Path:       cfg.Log.Path,
			Level:      cfg.Log.Level,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		},
	}
}
