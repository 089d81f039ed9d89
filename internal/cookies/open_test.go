package cookies

import (
	"testing"

	"github.com/MKhiriev/go-cookie-sync/internal/config"
	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/jar/ff.sqlite", []byte(sqliteMagic), 0o600))
	require.NoError(t, afero.WriteFile(fs, "/jar/garbage", []byte("{}"), 0o600))

	tests := []struct {
		name    string
		cfg     config.ClientCookies
		want    any
		wantErr error
	}{
		{name: "no path", cfg: config.ClientCookies{Format: "auto"}, wantErr: ErrNoJarPath},
		{name: "explicit netscape", cfg: config.ClientCookies{JarPath: "/jar/ff.sqlite", Format: "netscape"}, want: &NetscapeJar{}},
		{name: "explicit firefox", cfg: config.ClientCookies{JarPath: "/jar/none", Format: "firefox"}, want: &FirefoxStore{}},
		{name: "auto firefox", cfg: config.ClientCookies{JarPath: "/jar/ff.sqlite", Format: "auto"}, want: &FirefoxStore{}},
		{name: "auto missing", cfg: config.ClientCookies{JarPath: "/jar/new.txt"}, want: &NetscapeJar{}},
		{name: "auto unknown", cfg: config.ClientCookies{JarPath: "/jar/garbage", Format: "auto"}, wantErr: ErrUnknownFormat},
		{name: "bad format", cfg: config.ClientCookies{JarPath: "/jar/x", Format: "chrome"}, wantErr: ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := open(fs, tt.cfg, logger.Nop())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}
