// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// DumpVersion is the only dump format version this build reads and writes.
const DumpVersion = 1

// Dump is a point-in-time snapshot of the cookie jar: the records sorted by
// (domain, path, name) plus the literal domain filters active when it was
// taken.
type Dump struct {
	Version int           `json:"v"`
	Created int64         `json:"created"`
	Cookies []Cookie      `json:"cookies"`
	Filters DomainFilters `json:"filters"`
}

// DomainFilters are literal allow/block domain lists. A leading "." on an
// entry is ignored. An empty Allow list allows every domain not blocked.
type DomainFilters struct {
	Allow []string `json:"allow,omitempty"`
	Block []string `json:"block,omitempty"`
}

// Empty reports whether no filter is configured.
func (f DomainFilters) Empty() bool {
	return len(f.Allow) == 0 && len(f.Block) == 0
}
