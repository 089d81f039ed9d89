// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Preferences is the user-editable sync configuration persisted in the local
// settings store.
type Preferences struct {
	// Filters are the literal allow/block domain lists recorded in every dump.
	Filters DomainFilters `json:"filters"`
	// DomainPolicies are suffix rules resolved by longest match.
	DomainPolicies []DomainPolicy `json:"domainPolicies,omitempty"`
	// CookiePolicies are exact name@domain overrides.
	CookiePolicies []CookiePolicy `json:"cookiePolicies,omitempty"`
	// ScheduleMinutes is the auto-sync interval; zero means the configured
	// default.
	ScheduleMinutes int `json:"scheduleMinutes,omitempty"`
}

// Credentials are the secrets a sync needs. They are never persisted as one
// value: the token lives in the keyring or settings, the passphrase only in
// process memory.
type Credentials struct {
	Token      string
	Passphrase string
}

// Complete reports whether both secrets are present.
func (c Credentials) Complete() bool {
	return c.Token != "" && c.Passphrase != ""
}
