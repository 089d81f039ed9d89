package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk layout of the JSON config file. The
// access token is deliberately absent.
type StructuredJSONConfig struct {
	Remote struct {
		BaseURL            string   `json:"base_url"`
		Description        string   `json:"description"`
		FileName           string   `json:"file_name"`
		RequestTimeout     Duration `json:"request_timeout"`
		RetryCount         int      `json:"retry_count"`
		RateLimitThreshold int      `json:"rate_limit_threshold"`
		MaxRateLimitWait   Duration `json:"max_rate_limit_wait"`
	} `json:"remote,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
		KeyringService string `json:"keyring_service"`
		NoKeyring      bool   `json:"no_keyring"`
	} `json:"storage,omitempty"`

	Cookies struct {
		JarPath string `json:"jar"`
		Format  string `json:"format"`
	} `json:"cookies,omitempty"`

	Crypto struct {
		Iterations int `json:"iterations"`
	} `json:"crypto,omitempty"`

	Workers struct {
		SyncInterval  Duration `json:"sync_interval"`
		Watch         bool     `json:"watch"`
		WatchDebounce Duration `json:"watch_debounce"`
	} `json:"workers,omitempty"`

	Log struct {
		Path       string `json:"path"`
		Level      string `json:"level"`
		MaxSizeMB  int    `json:"max_size_mb"`
		MaxBackups int    `json:"max_backups"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Remote: Remote{
			BaseURL:            jsonCfg.Remote.BaseURL,
			Description:        jsonCfg.Remote.Description,
			FileName:           jsonCfg.Remote.FileName,
			RequestTimeout:     time.Duration(jsonCfg.Remote.RequestTimeout),
			RetryCount:         jsonCfg.Remote.RetryCount,
			RateLimitThreshold: jsonCfg.Remote.RateLimitThreshold,
			MaxRateLimitWait:   time.Duration(jsonCfg.Remote.MaxRateLimitWait),
		},
		Storage: Storage{
			DB:             DB{DSN: jsonCfg.Storage.DB.DSN},
			KeyringService: jsonCfg.Storage.KeyringService,
			NoKeyring:      jsonCfg.Storage.NoKeyring,
		},
		Cookies: Cookies{
			JarPath: jsonCfg.Cookies.JarPath,
			Format:  jsonCfg.Cookies.Format,
		},
		Crypto: Crypto{Iterations: jsonCfg.Crypto.Iterations},
		Workers: Workers{
			SyncInterval:  time.Duration(jsonCfg.Workers.SyncInterval),
			Watch:         jsonCfg.Workers.Watch,
			WatchDebounce: time.Duration(jsonCfg.Workers.WatchDebounce),
		},
		Log: Log{
			Path:       jsonCfg.Log.Path,
			Level:      jsonCfg.Log.Level,
			MaxSizeMB:  jsonCfg.Log.MaxSizeMB,
			MaxBackups: jsonCfg.Log.MaxBackups,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
