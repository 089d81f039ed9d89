// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package codec turns a cookie [models.Dump] into canonical bytes and back.
//
// Serialization is deterministic: field order is fixed by the struct
// definitions in models, optional fields are omitted rather than written as
// null, the permissive same-site default is folded to absent, and records
// must already be sorted by (domain, path, name) with ties broken on the
// remaining fields. Two logically equal dumps therefore serialize to
// identical bytes, which keeps change-detection hashes stable and remote
// diffs small.
package codec

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MKhiriev/go-cookie-sync/models"
)

var (
	// ErrMalformedPayload is returned when bytes cannot be decoded into a
	// supported dump or envelope.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrRecordsNotSorted is returned by Serialize when the dump's records
	// are not in [CompareCookies] order.
	ErrRecordsNotSorted = errors.New("records are not sorted by domain, path, name")
)

// Serialize encodes dump canonically. The dump's records must be sorted, see
// [SortCookies].
func Serialize(dump models.Dump) ([]byte, error) {
	if !slices.IsSortedFunc(dump.Cookies, CompareCookies) {
		return nil, ErrRecordsNotSorted
	}

	out := dump
	out.Cookies = make([]models.Cookie, len(dump.Cookies))
	for i, c := range dump.Cookies {
		out.Cookies[i] = canonicalCookie(c)
	}
	out.Filters = canonicalFilters(dump.Filters)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode dump: %w", err)
	}

	// Encoder appends a newline that is not part of the canonical form.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Deserialize decodes a dump produced by Serialize. Unknown fields are
// ignored. A missing or unsupported version, or a structural mismatch, is
// reported as [ErrMalformedPayload].
func Deserialize(data []byte) (models.Dump, error) {
	var probe struct {
		Version *int `json:"v"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return models.Dump{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if probe.Version == nil {
		return models.Dump{}, fmt.Errorf("%w: missing version", ErrMalformedPayload)
	}
	if *probe.Version != models.DumpVersion {
		return models.Dump{}, fmt.Errorf("%w: unsupported dump version %d", ErrMalformedPayload, *probe.Version)
	}

	var dump models.Dump
	if err := json.Unmarshal(data, &dump); err != nil {
		return models.Dump{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if dump.Cookies == nil {
		dump.Cookies = []models.Cookie{}
	}
	for i, c := range dump.Cookies {
		dump.Cookies[i] = c.Normalized()
	}

	return dump, nil
}

// NewDump builds a version-1 dump from an unordered cookie collection.
// Records are normalized and sorted; created is epoch milliseconds.
func NewDump(cookies []models.Cookie, filters models.DomainFilters, created int64) models.Dump {
	sorted := make([]models.Cookie, len(cookies))
	for i, c := range cookies {
		sorted[i] = c.Normalized()
	}
	SortCookies(sorted)

	return models.Dump{
		Version: models.DumpVersion,
		Created: created,
		Cookies: sorted,
		Filters: filters,
	}
}

// SortCookies orders records by (domain, path, name) using byte comparison.
// Records sharing that key are ordered by their remaining fields, so any
// permutation of the same records sorts to the same sequence.
func SortCookies(cookies []models.Cookie) {
	slices.SortFunc(cookies, CompareCookies)
}

// CompareCookies is the storage order of records: (domain, path, name),
// then value, secure, httpOnly, same-site and expiration (session first).
func CompareCookies(a, b models.Cookie) int {
	if c := strings.Compare(a.Domain, b.Domain); c != 0 {
		return c
	}
	if c := strings.Compare(a.Path, b.Path); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if c := strings.Compare(a.Value, b.Value); c != 0 {
		return c
	}
	if c := compareBool(a.Secure, b.Secure); c != 0 {
		return c
	}
	if c := compareBool(a.HTTPOnly, b.HTTPOnly); c != 0 {
		return c
	}
	if c := strings.Compare(a.Normalized().SameSite, b.Normalized().SameSite); c != 0 {
		return c
	}
	return compareExpiry(a.ExpirationDate, b.ExpirationDate)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func compareExpiry(a, b *int64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}

func canonicalCookie(c models.Cookie) models.Cookie {
	c.SameSite = c.Normalized().SameSite
	return c
}

func canonicalFilters(f models.DomainFilters) models.DomainFilters {
	// nil and empty lists must encode the same way
	if len(f.Allow) == 0 {
		f.Allow = nil
	}
	if len(f.Block) == 0 {
		f.Block = nil
	}
	return f
}
