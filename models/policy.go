// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// PolicyMode decides whether a matching record participates in sync.
type PolicyMode string

const (
	PolicyAllow PolicyMode = "allow"
	PolicyBlock PolicyMode = "block"
)

// Valid reports whether m is one of the known modes.
func (m PolicyMode) Valid() bool {
	return m == PolicyAllow || m == PolicyBlock
}

// DomainPolicy applies Mode to every cookie whose domain ends with Domain.
// The canonical Domain starts with ".", which makes the match
// subdomain-inclusive.
type DomainPolicy struct {
	Domain string     `json:"domain"`
	Mode   PolicyMode `json:"mode"`
}

// CookiePolicy applies Mode to exactly one cookie identity, "name@domain".
// It always wins over domain policies.
type CookiePolicy struct {
	ID   string     `json:"id"`
	Mode PolicyMode `json:"mode"`
}
