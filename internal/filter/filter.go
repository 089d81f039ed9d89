// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package filter decides which cookies take part in a sync.
//
// Resolution order for a single cookie:
//  1. An exact cookie policy for "name@domain" is authoritative.
//  2. Literal domain filters (allow/block lists recorded in the dump).
//  3. Domain policies: the longest pattern that is a suffix of the cookie's
//     domain wins; no match allows.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-cookie-sync/models"
)

var (
	// ErrInvalidPattern is returned for empty or malformed domain patterns.
	ErrInvalidPattern = errors.New("invalid domain pattern")
	// ErrInvalidCookieID is returned for cookie policy ids not of the form
	// "name@domain".
	ErrInvalidCookieID = errors.New("invalid cookie policy id")
	// ErrInvalidMode is returned for modes other than allow and block.
	ErrInvalidMode = errors.New("invalid policy mode")
)

// IsAllowed applies cookie policies, then domain policies, to c.
func IsAllowed(c models.Cookie, domainPolicies []models.DomainPolicy, cookiePolicies []models.CookiePolicy) bool {
	if mode, ok := cookieMode(c, cookiePolicies); ok {
		return mode != models.PolicyBlock
	}
	return domainMode(c.Domain, domainPolicies) != models.PolicyBlock
}

// DomainAllowed applies literal allow/block lists to domain. A leading "."
// on either side is ignored and comparison is case-insensitive. Block wins;
// an empty allow list allows everything not blocked.
func DomainAllowed(domain string, filters models.DomainFilters) bool {
	d := bareDomain(domain)
	for _, b := range filters.Block {
		if bareDomain(b) == d {
			return false
		}
	}
	if len(filters.Allow) == 0 {
		return true
	}
	for _, a := range filters.Allow {
		if bareDomain(a) == d {
			return true
		}
	}
	return false
}

// Policy bundles every rule that applies to a sync run.
type Policy struct {
	Filters        models.DomainFilters
	DomainPolicies []models.DomainPolicy
	CookiePolicies []models.CookiePolicy
}

// FromPreferences builds the policy stored in prefs.
func FromPreferences(prefs models.Preferences) Policy {
	return Policy{
		Filters:        prefs.Filters,
		DomainPolicies: prefs.DomainPolicies,
		CookiePolicies: prefs.CookiePolicies,
	}
}

// Allows reports whether c takes part in sync under p.
func (p Policy) Allows(c models.Cookie) bool {
	if mode, ok := cookieMode(c, p.CookiePolicies); ok {
		return mode != models.PolicyBlock
	}
	if !DomainAllowed(c.Domain, p.Filters) {
		return false
	}
	return domainMode(c.Domain, p.DomainPolicies) != models.PolicyBlock
}

// Apply splits cookies into the allowed ones, in input order, and the count
// of dropped ones.
func (p Policy) Apply(cookies []models.Cookie) (kept []models.Cookie, dropped int) {
	kept = make([]models.Cookie, 0, len(cookies))
	for _, c := range cookies {
		if p.Allows(c) {
			kept = append(kept, c)
			continue
		}
		dropped++
	}
	return kept, dropped
}

// NormalizeDomainPattern lowercases pattern and gives it the canonical
// leading ".".
func NormalizeDomainPattern(pattern string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(pattern))
	p = strings.TrimLeft(p, ".")
	if p == "" || strings.ContainsAny(p, " \t/@") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	return "." + p, nil
}

// ParseCookiePolicyID validates "name@domain" and returns its parts. The
// domain keeps its leading "." if present, since it is part of the identity.
func ParseCookiePolicyID(id string) (name, domain string, err error) {
	i := strings.LastIndex(id, "@")
	if i <= 0 || i == len(id)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidCookieID, id)
	}
	return id[:i], id[i+1:], nil
}

// ParseMode validates a textual policy mode.
func ParseMode(s string) (models.PolicyMode, error) {
	m := models.PolicyMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}

func cookieMode(c models.Cookie, policies []models.CookiePolicy) (models.PolicyMode, bool) {
	if len(policies) == 0 {
		return "", false
	}
	id := c.PolicyID()
	for _, p := range policies {
		if p.ID == id {
			return p.Mode, true
		}
	}
	return "", false
}

// domainMode returns the mode of the longest matching pattern, or allow.
func domainMode(domain string, policies []models.DomainPolicy) models.PolicyMode {
	d := "." + bareDomain(domain)

	best := -1
	mode := models.PolicyAllow
	for _, p := range policies {
		pattern := "." + bareDomain(p.Domain)
		if pattern == "." || !strings.HasSuffix(d, pattern) {
			continue
		}
		if len(pattern) > best {
			best = len(pattern)
			mode = p.Mode
		}
	}
	return mode
}

func bareDomain(d string) string {
	return strings.TrimLeft(strings.ToLower(strings.TrimSpace(d)), ".")
}
