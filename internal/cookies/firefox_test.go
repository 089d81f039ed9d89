package cookies

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const firefoxSchema = `CREATE TABLE moz_cookies (
	id INTEGER PRIMARY KEY,
	originAttributes TEXT NOT NULL DEFAULT '',
	name TEXT,
	value TEXT,
	host TEXT,
	path TEXT,
	expiry INTEGER,
	lastAccessed INTEGER,
	creationTime INTEGER,
	isSecure INTEGER,
	isHttpOnly INTEGER,
	sameSite INTEGER DEFAULT 0,
	CONSTRAINT moz_uniqueid UNIQUE (name, host, path, originAttributes)
)`

// legacy profiles predate the sameSite column.
const firefoxLegacySchema = `CREATE TABLE moz_cookies (
	id INTEGER PRIMARY KEY,
	name TEXT,
	value TEXT,
	host TEXT,
	path TEXT,
	expiry INTEGER,
	isSecure INTEGER,
	isHttpOnly INTEGER
)`

func createFirefoxFixture(t *testing.T, schema string, rows ...[]any) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cookies.sqlite")
	db, err := sql.Open(firefoxDriver, path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(schema)
	require.NoError(t, err)

	for _, r := range rows {
		_, err = db.Exec(`INSERT INTO moz_cookies (name, value, host, path, expiry, isSecure, isHttpOnly) VALUES (?, ?, ?, ?, ?, ?, ?)`, r...)
		require.NoError(t, err)
	}
	return path
}

func newTestFirefox(path string) *FirefoxStore {
	s := NewFirefoxStore(path, logger.Nop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestFirefoxStore_ListAll(t *testing.T) {
	path := createFirefoxFixture(t, firefoxSchema,
		[]any{"sid", "abc", ".example.com", "/", int64(1900000000), 1, 1},
		[]any{"ms", "v", "example.com", "/", int64(1900000000000), 0, 0},
		[]any{"stale", "gone", "example.com", "/", int64(1700000000), 0, 0},
	)

	db, err := sql.Open(firefoxDriver, path)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE moz_cookies SET sameSite = 2 WHERE name = 'sid'`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	got, err := newTestFirefox(path).ListAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.Cookie{
		{Domain: ".example.com", Path: "/", Name: "sid", Value: "abc", Secure: true, HTTPOnly: true, SameSite: models.SameSiteStrict, ExpirationDate: epoch(1900000000)},
		{Domain: "example.com", Path: "/", Name: "ms", Value: "v", ExpirationDate: epoch(1900000000)},
	}, got)
}

func TestFirefoxStore_ListAllLegacySchema(t *testing.T) {
	path := createFirefoxFixture(t, firefoxLegacySchema,
		[]any{"a", "1", "a.com", "/", int64(1900000000), 0, 0},
	)

	got, err := newTestFirefox(path).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].SameSite)
}

func TestFirefoxStore_ListAllNotFirefox(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.sqlite")
	db, err := sql.Open(firefoxDriver, path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE something (id INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = newTestFirefox(path).ListAll(context.Background())
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFirefoxStore_ListAllMissing(t *testing.T) {
	_, err := newTestFirefox(filepath.Join(t.TempDir(), "none.sqlite")).ListAll(context.Background())
	assert.Error(t, err)
}

func TestFirefoxStore_Apply(t *testing.T) {
	path := createFirefoxFixture(t, firefoxSchema,
		[]any{"sid", "old", ".example.com", "/", int64(1900000000), 0, 0},
	)
	store := newTestFirefox(path)

	res, err := store.Apply(context.Background(), []models.Cookie{
		{Domain: ".example.com", Path: "/", Name: "sid", Value: "new", Secure: true, SameSite: models.SameSiteLax, ExpirationDate: epoch(1950000000)},
		{Domain: "other.org", Path: "/x", Name: "pref", Value: "1", HTTPOnly: true, ExpirationDate: epoch(1950000000)},
		{Domain: "", Path: "/", Name: "bad", Value: "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, ApplyResult{Applied: 2, Failed: 1}, res)

	got, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Cookie{
		{Domain: ".example.com", Path: "/", Name: "sid", Value: "new", Secure: true, SameSite: models.SameSiteLax, ExpirationDate: epoch(1950000000)},
		{Domain: "other.org", Path: "/x", Name: "pref", Value: "1", HTTPOnly: true, ExpirationDate: epoch(1950000000)},
	}, got)

	db, err := sql.Open(firefoxDriver, path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM moz_cookies`).Scan(&count))
	assert.Equal(t, 2, count)

	var created sql.NullInt64
	require.NoError(t, db.QueryRow(`SELECT creationTime FROM moz_cookies WHERE name = 'pref'`).Scan(&created))
	assert.Equal(t, fixedNow.UnixMicro(), created.Int64)
}

// Копии cookie из контейнерных вкладок не читаются и не перезаписываются.
func TestFirefoxStore_ContainerCopiesUntouched(t *testing.T) {
	path := createFirefoxFixture(t, firefoxSchema,
		[]any{"sid", "main", ".example.com", "/", int64(1900000000), 0, 0},
	)

	db, err := sql.Open(firefoxDriver, path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO moz_cookies (originAttributes, name, value, host, path, expiry, isSecure, isHttpOnly)
		VALUES ('^userContextId=2', 'sid', 'work', '.example.com', '/', 1900000000, 0, 0)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store := newTestFirefox(path)

	got, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "main", got[0].Value)

	res, err := store.Apply(context.Background(), []models.Cookie{
		{Domain: ".example.com", Path: "/", Name: "sid", Value: "synced", ExpirationDate: epoch(1950000000)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)

	db, err = sql.Open(firefoxDriver, path)
	require.NoError(t, err)
	defer db.Close()

	var container string
	require.NoError(t, db.QueryRow(`SELECT value FROM moz_cookies WHERE originAttributes = '^userContextId=2'`).Scan(&container))
	assert.Equal(t, "work", container)

	var main string
	require.NoError(t, db.QueryRow(`SELECT value FROM moz_cookies WHERE originAttributes = ''`).Scan(&main))
	assert.Equal(t, "synced", main)
}

func TestFirefoxStore_ApplyLegacySchema(t *testing.T) {
	path := createFirefoxFixture(t, firefoxLegacySchema)

	res, err := newTestFirefox(path).Apply(context.Background(), []models.Cookie{
		{Domain: "a.com", Path: "/", Name: "a", Value: "1", SameSite: models.SameSiteStrict},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
}

func TestSameSiteMapping(t *testing.T) {
	for _, s := range []string{models.SameSiteLax, models.SameSiteStrict, ""} {
		assert.Equal(t, s, sameSiteFromFirefox(int64(sameSiteToFirefox(s))))
	}
	assert.Equal(t, firefoxSameSiteNone, sameSiteToFirefox("unknown"))
}
