// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cookies

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/models"
	"github.com/spf13/afero"
)

const (
	netscapeHeader     = "# Netscape HTTP Cookie File"
	netscapeAltHeader  = "# HTTP Cookie File"
	httpOnlyPrefix     = "#HttpOnly_"
	netscapeFieldCount = 7
)

// NetscapeJar is a cookie jar in the Netscape text format.
//
// Lines starting with # are comments, except #HttpOnly_ which marks the
// record HttpOnly. Each record has seven tab-separated fields: domain,
// include-subdomains flag, path, secure flag, expiry (epoch seconds, 0 for
// session cookies), name and value. Malformed lines are skipped.
//
// Apply rewrites the whole file through a temporary file and a rename, so a
// reader never observes a half-written jar.
type NetscapeJar struct {
	fs   afero.Fs
	path string
	now  func() time.Time

	mu     sync.Mutex
	logger *logger.Logger
}

// NewNetscapeJar returns a jar stored at path on fs. The file need not exist
// yet.
func NewNetscapeJar(fs afero.Fs, path string, log *logger.Logger) *NetscapeJar {
	return &NetscapeJar{fs: fs, path: path, now: time.Now, logger: log}
}

// ListAll implements [Store].
func (j *NetscapeJar) ListAll(ctx context.Context) ([]models.Cookie, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	all, err := j.read()
	if err != nil {
		return nil, err
	}

	now := j.now().Unix()
	out := make([]models.Cookie, 0, len(all))
	for _, c := range all {
		if c.Expired(now) {
			continue
		}
		out = append(out, c)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "NetscapeJar.ListAll").
		Int("total", len(all)).
		Int("live", len(out)).
		Msg("read netscape jar")
	return out, nil
}

// Apply implements [Store]. Records whose fields contain tabs or line breaks
// cannot be represented and are counted as failed.
func (j *NetscapeJar) Apply(ctx context.Context, cookies []models.Cookie) (ApplyResult, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	log := logger.FromContext(ctx)

	existing, err := j.read()
	if err != nil {
		return ApplyResult{}, err
	}

	index := make(map[cookieKey]int, len(existing))
	for i, c := range existing {
		index[keyOf(c)] = i
	}

	var res ApplyResult
	for _, c := range cookies {
		if err := validateNetscape(c); err != nil {
			log.Debug().Err(err).
				Str("func", "NetscapeJar.Apply").
				Str("name", c.Name).
				Str("domain", c.Domain).
				Msg("skipping cookie")
			res.Failed++
			continue
		}

		if i, ok := index[keyOf(c)]; ok {
			existing[i] = c
		} else {
			index[keyOf(c)] = len(existing)
			existing = append(existing, c)
		}
		res.Applied++
	}

	if res.Applied == 0 {
		return res, nil
	}

	if err := j.write(existing); err != nil {
		log.Err(err).Str("func", "NetscapeJar.Apply").Str("path", j.path).Msg("failed to write jar")
		return ApplyResult{Failed: len(cookies)}, err
	}

	return res, nil
}

func (j *NetscapeJar) read() ([]models.Cookie, error) {
	data, err := afero.ReadFile(j.fs, j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read netscape jar: %w", err)
	}
	return parseNetscape(data, j.logger), nil
}

func (j *NetscapeJar) write(cookies []models.Cookie) error {
	dir := filepath.Dir(j.path)
	if err := j.fs.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create jar directory: %w", err)
	}

	tmp, err := afero.TempFile(j.fs, dir, "."+filepath.Base(j.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp jar: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(formatNetscape(cookies)); err != nil {
		tmp.Close()
		_ = j.fs.Remove(tmpName)
		return fmt.Errorf("write temp jar: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = j.fs.Remove(tmpName)
		return fmt.Errorf("close temp jar: %w", err)
	}

	if err = j.fs.Rename(tmpName, j.path); err != nil {
		_ = j.fs.Remove(tmpName)
		return fmt.Errorf("replace jar: %w", err)
	}
	return nil
}

func parseNetscape(data []byte, log *logger.Logger) []models.Cookie {
	var cookies []models.Cookie

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = line[len(httpOnlyPrefix):]
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != netscapeFieldCount {
			log.Warn().Str("func", "parseNetscape").Int("line", lineNo).Msg("skipping malformed cookie line")
			continue
		}

		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			log.Warn().Str("func", "parseNetscape").Int("line", lineNo).Msg("skipping cookie with invalid expiry")
			continue
		}

		c := models.Cookie{
			Domain:   fields[0],
			Path:     fields[2],
			Name:     fields[5],
			Value:    fields[6],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			HTTPOnly: httpOnly,
		}
		if expiry > 0 {
			c.ExpirationDate = &expiry
		}
		cookies = append(cookies, c)
	}

	return cookies
}

func formatNetscape(cookies []models.Cookie) []byte {
	var buf bytes.Buffer
	buf.WriteString(netscapeHeader)
	buf.WriteString("\n# This file is managed by cookiesync.\n\n")

	for _, c := range cookies {
		if c.HTTPOnly {
			buf.WriteString(httpOnlyPrefix)
		}

		var expiry int64
		if c.ExpirationDate != nil {
			expiry = *c.ExpirationDate
		}

		fields := []string{
			c.Domain,
			boolField(strings.HasPrefix(c.Domain, ".")),
			c.Path,
			boolField(c.Secure),
			strconv.FormatInt(expiry, 10),
			c.Name,
			c.Value,
		}
		buf.WriteString(strings.Join(fields, "\t"))
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

func boolField(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func validateNetscape(c models.Cookie) error {
	if c.Name == "" || c.Domain == "" {
		return fmt.Errorf("%w: empty name or domain", ErrInvalidCookie)
	}
	for _, f := range []string{c.Domain, c.Path, c.Name, c.Value} {
		if strings.ContainsAny(f, "\t\r\n") {
			return fmt.Errorf("%w: field contains a tab or line break", ErrInvalidCookie)
		}
	}
	if strings.HasPrefix(c.Domain, "#") {
		return fmt.Errorf("%w: domain starts with #", ErrInvalidCookie)
	}
	return nil
}
