// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// SameSite values as reported by browsers. [SameSiteNoRestriction] is the
// permissive default and is never written to a dump: a cookie with
// SameSite == "" and one with SameSite == "no_restriction" are the same
// cookie on the wire.
const (
	SameSiteLax           = "lax"
	SameSiteStrict        = "strict"
	SameSiteNoRestriction = "no_restriction"
)

// Cookie is one record of the local cookie jar.
//
// Domain may carry a leading "." meaning "include subdomains". ExpirationDate
// holds absolute epoch seconds; nil means a session cookie. Field order is
// the wire order of the canonical dump and must not be changed.
type Cookie struct {
	Domain         string `json:"domain"`
	Path           string `json:"path"`
	Name           string `json:"name"`
	Value          string `json:"value"`
	Secure         bool   `json:"secure"`
	HTTPOnly       bool   `json:"httpOnly"`
	SameSite       string `json:"sameSite,omitempty"`
	ExpirationDate *int64 `json:"expirationDate,omitempty"`
}

// UnmarshalJSON accepts a fractional expirationDate, as browsers report it,
// and truncates it to whole seconds.
func (c *Cookie) UnmarshalJSON(data []byte) error {
	type plain Cookie
	var aux struct {
		plain
		ExpirationDate *json.Number `json:"expirationDate,omitempty"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*c = Cookie(aux.plain)
	c.ExpirationDate = nil
	if aux.ExpirationDate == nil {
		return nil
	}

	secs, err := epochSeconds(*aux.ExpirationDate)
	if err != nil {
		return err
	}
	c.ExpirationDate = &secs
	return nil
}

func epochSeconds(n json.Number) (int64, error) {
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, fmt.Errorf("invalid expirationDate %q", n.String())
	}
	return int64(math.Trunc(f)), nil
}

// PolicyID returns the record-level identity used by cookie policies,
// "name@domain".
func (c Cookie) PolicyID() string {
	return c.Name + "@" + c.Domain
}

// Session reports whether the cookie has no expiration.
func (c Cookie) Session() bool {
	return c.ExpirationDate == nil
}

// Expired reports whether the cookie expired at or before now (epoch seconds).
// Session cookies never expire.
func (c Cookie) Expired(now int64) bool {
	return c.ExpirationDate != nil && *c.ExpirationDate <= now
}

// Normalized returns a copy with the same-site default folded to absent and
// the same-site value lowercased.
func (c Cookie) Normalized() Cookie {
	c.SameSite = strings.ToLower(strings.TrimSpace(c.SameSite))
	if c.SameSite == SameSiteNoRestriction || c.SameSite == "none" || c.SameSite == "unspecified" {
		c.SameSite = ""
	}
	if c.Path == "" {
		c.Path = "/"
	}
	return c
}

// HostDomain returns the domain without its subdomain-inclusive marker.
func (c Cookie) HostDomain() string {
	return strings.TrimPrefix(c.Domain, ".")
}
