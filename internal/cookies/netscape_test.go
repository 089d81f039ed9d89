package cookies

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jarPath = "/home/user/.cookiesync/cookies.txt"

var fixedNow = time.Unix(1_800_000_000, 0)

func newTestJar(t *testing.T, content string) (*NetscapeJar, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	if content != "" {
		require.NoError(t, afero.WriteFile(fs, jarPath, []byte(content), 0o600))
	}

	jar := NewNetscapeJar(fs, jarPath, logger.Nop())
	jar.now = func() time.Time { return fixedNow }
	return jar, fs
}

func epoch(v int64) *int64 { return &v }

func TestNetscapeJar_ListAll(t *testing.T) {
	content := strings.Join([]string{
		netscapeHeader,
		"# comment line",
		"",
		".example.com\tTRUE\t/\tTRUE\t1900000000\tsid\tabc",
		"#HttpOnly_example.com\tFALSE\t/app\tFALSE\t0\tsession\txyz",
		"old.example.com\tFALSE\t/\tFALSE\t1700000000\tstale\tgone",
		"broken line without tabs",
		"bad.example.com\tFALSE\t/\tFALSE\tsoon\tname\tvalue",
	}, "\n")

	jar, _ := newTestJar(t, content)

	got, err := jar.ListAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.Cookie{
		{Domain: ".example.com", Path: "/", Name: "sid", Value: "abc", Secure: true, ExpirationDate: epoch(1900000000)},
		{Domain: "example.com", Path: "/app", Name: "session", Value: "xyz", HTTPOnly: true},
	}, got)
}

func TestNetscapeJar_ListAllMissingFile(t *testing.T) {
	jar, _ := newTestJar(t, "")

	got, err := jar.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNetscapeJar_ListAllCRLF(t *testing.T) {
	jar, _ := newTestJar(t, netscapeHeader+"\r\nexample.com\tFALSE\t/\tFALSE\t0\ta\tb\r\n")

	got, err := jar.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Value)
}

func TestNetscapeJar_Apply(t *testing.T) {
	jar, fs := newTestJar(t, netscapeHeader+"\n.example.com\tTRUE\t/\tFALSE\t0\tsid\told\n")

	res, err := jar.Apply(context.Background(), []models.Cookie{
		{Domain: ".example.com", Path: "/", Name: "sid", Value: "new"},
		{Domain: "other.org", Path: "/", Name: "pref", Value: "1", HTTPOnly: true, Secure: true, ExpirationDate: epoch(1900000000)},
		{Domain: "bad.org", Path: "/", Name: "tab", Value: "a\tb"},
		{Domain: "", Path: "/", Name: "nodomain", Value: "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, ApplyResult{Applied: 2, Failed: 2}, res)

	raw, err := afero.ReadFile(fs, jarPath)
	require.NoError(t, err)
	text := string(raw)
	assert.True(t, strings.HasPrefix(text, netscapeHeader))
	assert.Contains(t, text, ".example.com\tTRUE\t/\tFALSE\t0\tsid\tnew\n")
	assert.Contains(t, text, "#HttpOnly_other.org\tFALSE\t/\tTRUE\t1900000000\tpref\t1\n")
	assert.NotContains(t, text, "old")

	got, err := jar.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestNetscapeJar_ApplyCreatesFile(t *testing.T) {
	jar, fs := newTestJar(t, "")

	res, err := jar.Apply(context.Background(), []models.Cookie{
		{Domain: "example.com", Path: "/", Name: "a", Value: "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)

	exists, err := afero.Exists(fs, jarPath)
	require.NoError(t, err)
	assert.True(t, exists)

	entries, err := afero.ReadDir(fs, "/home/user/.cookiesync")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestNetscapeJar_ApplyNothingValid(t *testing.T) {
	jar, fs := newTestJar(t, "")

	res, err := jar.Apply(context.Background(), []models.Cookie{{Name: "x"}})
	require.NoError(t, err)
	assert.Equal(t, ApplyResult{Failed: 1}, res)

	exists, err := afero.Exists(fs, jarPath)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNetscapeJar_ApplyReadOnlyFs(t *testing.T) {
	base := afero.NewMemMapFs()
	jar := NewNetscapeJar(afero.NewReadOnlyFs(base), jarPath, logger.Nop())

	cookies := []models.Cookie{
		{Domain: "example.com", Path: "/", Name: "a", Value: "1"},
		{Domain: "example.com", Path: "/", Name: "b", Value: "2"},
	}
	res, err := jar.Apply(context.Background(), cookies)
	require.Error(t, err)
	assert.Equal(t, ApplyResult{Failed: 2}, res)
}

func TestFormatNetscape_SubdomainFlag(t *testing.T) {
	out := string(formatNetscape([]models.Cookie{
		{Domain: ".a.com", Path: "/", Name: "n", Value: "v"},
		{Domain: "b.com", Path: "/", Name: "n", Value: "v"},
	}))

	assert.Contains(t, out, ".a.com\tTRUE\t")
	assert.Contains(t, out, "b.com\tFALSE\t")
}
