package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFlags_AllFlags(t *testing.T) {
	fv := parsedFlags(t,
		"-c", "/etc/cookiesync.json",
		"-d", "/tmp/s.db",
		"-j", "/tmp/cookies.sqlite",
		"--jar-format", "firefox",
		"--api-url", "http://ghe.local/api/v3",
		"--gist-file", "x.enc",
		"--request-timeout", "5s",
		"--iterations", "800000",
		"--interval", "10m",
		"--watch",
		"--no-keyring",
		"--log-file", "-",
		"--log-level", "warn",
	)

	cfg := fv.config()

	assert.Equal(t, "/etc/cookiesync.json", cfg.JSONFilePath)
	assert.Equal(t, "/tmp/s.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "/tmp/cookies.sqlite", cfg.Cookies.JarPath)
	assert.Equal(t, "firefox", cfg.Cookies.Format)
	assert.Equal(t, "http://ghe.local/api/v3", cfg.Remote.BaseURL)
	assert.Equal(t, "x.enc", cfg.Remote.FileName)
	assert.Equal(t, 5*time.Second, cfg.Remote.RequestTimeout)
	assert.Equal(t, 800000, cfg.Crypto.Iterations)
	assert.Equal(t, 10*time.Minute, cfg.Workers.SyncInterval)
	assert.True(t, cfg.Workers.Watch)
	assert.True(t, cfg.Storage.NoKeyring)
	assert.Equal(t, "-", cfg.Log.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestRegisterFlags_UnsetFlagsAreZero(t *testing.T) {
	fv := parsedFlags(t)

	assert.Equal(t, &StructuredConfig{}, fv.config())
}

func TestRegisterFlags_InvalidDuration(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)

	err := fs.Parse([]string{"--interval", "often"})
	require.Error(t, err)
}
