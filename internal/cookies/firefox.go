// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cookies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/models"
	_ "modernc.org/sqlite"
)

const (
	firefoxDriver = "sqlite"
	firefoxTable  = "moz_cookies"

	// Firefox stores expiry in seconds in older profiles and in milliseconds
	// since version 129. Anything above this is treated as milliseconds.
	firefoxMillisThreshold = int64(100_000_000_000)
)

// Firefox sameSite column values.
const (
	firefoxSameSiteNone   = 0
	firefoxSameSiteLax    = 1
	firefoxSameSiteStrict = 2
)

var ffQuery = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// FirefoxStore is a cookie jar backed by a Firefox cookies.sqlite profile
// database.
//
// Reads go through a private copy of the database and its WAL so a running
// browser holding the file is not disturbed. Writes go to the live file and
// wait on the browser's lock for up to five seconds.
type FirefoxStore struct {
	path string
	now  func() time.Time

	mu     sync.Mutex
	logger *logger.Logger
}

// NewFirefoxStore returns a store for the cookies.sqlite file at path.
func NewFirefoxStore(path string, log *logger.Logger) *FirefoxStore {
	return &FirefoxStore{path: path, now: time.Now, logger: log}
}

// ListAll implements [Store].
func (f *FirefoxStore) ListAll(ctx context.Context) ([]models.Cookie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	copyPath, cleanup, err := safeCopy(f.path)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	db, err := sql.Open(firefoxDriver, copyPath)
	if err != nil {
		return nil, fmt.Errorf("open firefox cookies: %w", err)
	}
	defer db.Close()

	cols, err := tableColumns(ctx, db)
	if err != nil {
		return nil, err
	}

	fields := []string{"name", "value", "host", "path", "expiry", "isSecure", "isHttpOnly"}
	withSameSite := cols["sameSite"]
	if withSameSite {
		fields = append(fields, "sameSite")
	}

	sel := ffQuery.Select(fields...).From(firefoxTable).OrderBy("host", "path", "name")
	if cols["originAttributes"] {
		// container tabs and private windows keep their own copies
		sel = sel.Where(sq.Eq{"originAttributes": ""})
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build firefox query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query firefox cookies: %w", err)
	}
	defer rows.Close()

	now := f.now().Unix()
	var (
		cookies []models.Cookie
		expired int
	)
	for rows.Next() {
		var (
			c                    models.Cookie
			expiry               int64
			isSecure, isHTTPOnly int
			sameSite             sql.NullInt64
		)
		dest := []any{&c.Name, &c.Value, &c.Domain, &c.Path, &expiry, &isSecure, &isHTTPOnly}
		if withSameSite {
			dest = append(dest, &sameSite)
		}
		if err = rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan firefox cookie: %w", err)
		}

		c.Secure = isSecure != 0
		c.HTTPOnly = isHTTPOnly != 0
		c.SameSite = sameSiteFromFirefox(sameSite.Int64)
		if expiry > firefoxMillisThreshold {
			expiry /= 1000
		}
		if expiry > 0 {
			c.ExpirationDate = &expiry
		}

		if c.Expired(now) {
			expired++
			continue
		}
		cookies = append(cookies, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate firefox cookies: %w", err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "FirefoxStore.ListAll").
		Int("live", len(cookies)).
		Int("expired", expired).
		Msg("read firefox jar")
	return cookies, nil
}

// Apply implements [Store]. Each record is updated in place when it exists
// and inserted otherwise, all inside one transaction.
func (f *FirefoxStore) Apply(ctx context.Context, cookies []models.Cookie) (ApplyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	log := logger.FromContext(ctx)

	db, err := sql.Open(firefoxDriver, fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", f.path))
	if err != nil {
		return ApplyResult{}, fmt.Errorf("open firefox cookies: %w", err)
	}
	defer db.Close()

	cols, err := tableColumns(ctx, db)
	if err != nil {
		return ApplyResult{}, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("begin firefox transaction: %w", err)
	}
	defer tx.Rollback()

	nowMicros := f.now().UnixMicro()
	var res ApplyResult
	for _, c := range cookies {
		if c.Name == "" || c.Domain == "" {
			res.Failed++
			continue
		}
		if err = upsertFirefoxCookie(ctx, tx, cols, c, nowMicros); err != nil {
			log.Debug().Err(err).
				Str("func", "FirefoxStore.Apply").
				Str("name", c.Name).
				Str("domain", c.Domain).
				Msg("failed to write cookie")
			res.Failed++
			continue
		}
		res.Applied++
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "FirefoxStore.Apply").Msg("failed to commit firefox transaction")
		return ApplyResult{Failed: len(cookies)}, fmt.Errorf("commit firefox transaction: %w", err)
	}
	return res, nil
}

func upsertFirefoxCookie(ctx context.Context, tx *sql.Tx, cols map[string]bool, c models.Cookie, nowMicros int64) error {
	values := map[string]any{
		"value":      c.Value,
		"expiry":     firefoxExpiry(c),
		"isSecure":   boolInt(c.Secure),
		"isHttpOnly": boolInt(c.HTTPOnly),
	}
	if cols["sameSite"] {
		values["sameSite"] = sameSiteToFirefox(c.SameSite)
	}
	if cols["lastAccessed"] {
		values["lastAccessed"] = nowMicros
	}

	where := sq.Eq{"host": c.Domain, "path": c.Path, "name": c.Name}
	if cols["originAttributes"] {
		where["originAttributes"] = ""
	}
	query, args, err := ffQuery.Update(firefoxTable).SetMap(values).Where(where).ToSql()
	if err != nil {
		return fmt.Errorf("build firefox update: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update firefox cookie: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}

	values["host"] = c.Domain
	values["path"] = c.Path
	values["name"] = c.Name
	if cols["creationTime"] {
		values["creationTime"] = nowMicros
	}
	if cols["originAttributes"] {
		values["originAttributes"] = ""
	}

	query, args, err = ffQuery.Insert(firefoxTable).SetMap(values).ToSql()
	if err != nil {
		return fmt.Errorf("build firefox insert: %w", err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert firefox cookie: %w", err)
	}
	return nil
}

func tableColumns(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+firefoxTable+")")
	if err != nil {
		return nil, fmt.Errorf("inspect firefox schema: %w", err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name, typ string
			notNull   int
			dflt      sql.NullString
			pk        int
		)
		if err = rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan firefox schema: %w", err)
		}
		cols[name] = true
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("inspect firefox schema: %w", err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: no %s table", ErrUnknownFormat, firefoxTable)
	}
	return cols, nil
}

// safeCopy copies the database and its -wal and -shm companions to a
// temporary directory. The caller must call cleanup.
func safeCopy(src string) (string, func(), error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", nil, fmt.Errorf("stat firefox cookies: %w", err)
	}
	if info.IsDir() {
		return "", nil, ErrJarIsDirectory
	}

	dir, err := os.MkdirTemp("", "cookiesync-firefox-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	dst := filepath.Join(dir, filepath.Base(src))
	if err = copyFile(src, dst); err != nil {
		cleanup()
		return "", nil, err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if _, statErr := os.Stat(src + suffix); statErr == nil {
			_ = copyFile(src+suffix, dst+suffix)
		}
	}

	return dst, cleanup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	_, err = io.Copy(out, in)
	return errors.Join(err, out.Close())
}

func firefoxExpiry(c models.Cookie) int64 {
	if c.ExpirationDate == nil {
		return 0
	}
	return *c.ExpirationDate
}

func sameSiteFromFirefox(v int64) string {
	switch v {
	case firefoxSameSiteLax:
		return models.SameSiteLax
	case firefoxSameSiteStrict:
		return models.SameSiteStrict
	}
	return ""
}

func sameSiteToFirefox(s string) int {
	switch strings.ToLower(s) {
	case models.SameSiteLax:
		return firefoxSameSiteLax
	case models.SameSiteStrict:
		return firefoxSameSiteStrict
	}
	return firefoxSameSiteNone
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
