package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validClientConfig() *ClientConfig {
	return newClientConfig(defaultConfig())
}

func TestClientConfigValidate_Defaults(t *testing.T) {
	require.NoError(t, validClientConfig().validate())
}

func TestClientConfigValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ClientConfig)
		want   error
	}{
		{"empty dsn", func(c *ClientConfig) { c.Storage.DB.DSN = "" }, ErrInvalidStorageConfigs},
		{"memory dsn", func(c *ClientConfig) { c.Storage.DB.DSN = ":memory:" }, ErrInvalidStorageConfigs},
		{"keyring without service", func(c *ClientConfig) { c.Storage.KeyringService = "" }, ErrInvalidStorageConfigs},
		{"no base url", func(c *ClientConfig) { c.Remote.BaseURL = "" }, ErrInvalidRemoteConfigs},
		{"no timeout", func(c *ClientConfig) { c.Remote.RequestTimeout = 0 }, ErrInvalidRemoteConfigs},
		{"no file name", func(c *ClientConfig) { c.Remote.FileName = "" }, ErrInvalidRemoteConfigs},
		{"negative retries", func(c *ClientConfig) { c.Remote.RetryCount = -1 }, ErrInvalidRemoteConfigs},
		{"unknown jar format", func(c *ClientConfig) { c.Cookies.Format = "chrome" }, ErrInvalidCookieConfigs},
		{"weak iterations", func(c *ClientConfig) { c.Crypto.Iterations = 1000 }, ErrInvalidCryptoConfigs},
		{"zero interval", func(c *ClientConfig) { c.Workers.SyncInterval = 0 }, ErrInvalidWorkerConfigs},
		{"bad log level", func(c *ClientConfig) { c.Log.Level = "loud" }, ErrInvalidLogConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validClientConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.validate(), tt.want)
		})
	}
}
