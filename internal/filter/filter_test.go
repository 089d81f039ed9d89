// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package filter

import (
	"testing"

	"github.com/MKhiriev/go-cookie-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookie(name, domain string) models.Cookie {
	return models.Cookie{Name: name, Domain: domain, Path: "/"}
}

// ── IsAllowed ────────────────────────────────────────────────────────────────

func TestIsAllowed_CookiePolicyOverridesDomain(t *testing.T) {
	domains := []models.DomainPolicy{{Domain: ".example.com", Mode: models.PolicyBlock}}
	cookies := []models.CookiePolicy{{ID: "session@auth.example.com", Mode: models.PolicyAllow}}

	assert.True(t, IsAllowed(cookie("session", "auth.example.com"), domains, cookies))
	assert.False(t, IsAllowed(cookie("other", "auth.example.com"), domains, cookies))
}

func TestIsAllowed_CookiePolicyCanBlock(t *testing.T) {
	cookies := []models.CookiePolicy{{ID: "track@.ads.net", Mode: models.PolicyBlock}}

	assert.False(t, IsAllowed(cookie("track", ".ads.net"), nil, cookies))
	assert.True(t, IsAllowed(cookie("track", "ads.net"), nil, cookies), "identity includes the exact domain")
}

func TestIsAllowed_LongestSuffixWins(t *testing.T) {
	domains := []models.DomainPolicy{
		{Domain: ".com", Mode: models.PolicyBlock},
		{Domain: ".example.com", Mode: models.PolicyAllow},
	}

	assert.True(t, IsAllowed(cookie("x", "x.example.com"), domains, nil))
	assert.False(t, IsAllowed(cookie("x", "x.other.com"), domains, nil))
}

func TestIsAllowed_LongestMatchIndependentOfOrder(t *testing.T) {
	domains := []models.DomainPolicy{
		{Domain: ".example.com", Mode: models.PolicyAllow},
		{Domain: ".com", Mode: models.PolicyBlock},
	}

	assert.True(t, IsAllowed(cookie("x", "x.example.com"), domains, nil))
}

func TestIsAllowed_Table(t *testing.T) {
	domains := []models.DomainPolicy{
		{Domain: ".example.com", Mode: models.PolicyBlock},
		{Domain: ".shop.example.com", Mode: models.PolicyAllow},
	}

	tests := []struct {
		name   string
		domain string
		want   bool
	}{
		{"no match defaults to allow", "unrelated.org", true},
		{"bare domain matches dotted pattern", "example.com", false},
		{"dotted domain", ".example.com", false},
		{"subdomain blocked", "a.example.com", false},
		{"deeper allow wins", "cart.shop.example.com", true},
		{"exact allow pattern", "shop.example.com", true},
		{"suffix must align on label", "badexample.com", true},
		{"case insensitive", "A.EXAMPLE.COM", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAllowed(cookie("n", tt.domain), domains, nil))
		})
	}
}

// ── DomainAllowed ────────────────────────────────────────────────────────────

func TestDomainAllowed(t *testing.T) {
	tests := []struct {
		name    string
		domain  string
		filters models.DomainFilters
		want    bool
	}{
		{"no filters", ".foo.com", models.DomainFilters{}, true},
		{"allow list hit", ".foo.com", models.DomainFilters{Allow: []string{"foo.com"}}, true},
		{"allow list miss", ".bar.com", models.DomainFilters{Allow: []string{"foo.com"}}, false},
		{"allow list dotted entry", "foo.com", models.DomainFilters{Allow: []string{".foo.com"}}, true},
		{"block list hit", ".ads.com", models.DomainFilters{Block: []string{"ads.com"}}, false},
		{"block beats allow", ".x.com", models.DomainFilters{Allow: []string{"x.com"}, Block: []string{"x.com"}}, false},
		{"literal, not suffix", "sub.foo.com", models.DomainFilters{Allow: []string{"foo.com"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DomainAllowed(tt.domain, tt.filters))
		})
	}
}

// ── Policy ───────────────────────────────────────────────────────────────────

func TestPolicy_Apply_AllowFilterScenario(t *testing.T) {
	p := Policy{Filters: models.DomainFilters{Allow: []string{"foo.com"}}}

	kept, dropped := p.Apply([]models.Cookie{cookie("a", ".foo.com"), cookie("b", ".bar.com")})

	require.Len(t, kept, 1)
	assert.Equal(t, "a", kept[0].Name)
	assert.Equal(t, 1, dropped)
}

func TestPolicy_CookiePolicyBeatsLiteralBlock(t *testing.T) {
	p := Policy{
		Filters:        models.DomainFilters{Block: []string{"foo.com"}},
		CookiePolicies: []models.CookiePolicy{{ID: "keep@.foo.com", Mode: models.PolicyAllow}},
	}

	assert.True(t, p.Allows(cookie("keep", ".foo.com")))
	assert.False(t, p.Allows(cookie("drop", ".foo.com")))
}

func TestFromPreferences(t *testing.T) {
	prefs := models.Preferences{
		Filters:        models.DomainFilters{Allow: []string{"a.com"}},
		DomainPolicies: []models.DomainPolicy{{Domain: ".b.com", Mode: models.PolicyBlock}},
		CookiePolicies: []models.CookiePolicy{{ID: "n@c.com", Mode: models.PolicyAllow}},
	}

	p := FromPreferences(prefs)
	assert.Equal(t, prefs.Filters, p.Filters)
	assert.Equal(t, prefs.DomainPolicies, p.DomainPolicies)
	assert.Equal(t, prefs.CookiePolicies, p.CookiePolicies)
}

// ── parsing helpers ──────────────────────────────────────────────────────────

func TestNormalizeDomainPattern(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"example.com", ".example.com", false},
		{".Example.COM", ".example.com", false},
		{"..x.org", ".x.org", false},
		{"", "", true},
		{".", "", true},
		{"a b.com", "", true},
		{"x/y", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeDomainPattern(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPattern)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCookiePolicyID(t *testing.T) {
	name, domain, err := ParseCookiePolicyID("session@auth.example.com")
	require.NoError(t, err)
	assert.Equal(t, "session", name)
	assert.Equal(t, "auth.example.com", domain)

	name, domain, err = ParseCookiePolicyID("a@b@.c.com")
	require.NoError(t, err)
	assert.Equal(t, "a@b", name)
	assert.Equal(t, ".c.com", domain)

	for _, bad := range []string{"", "noat", "@x.com", "name@"} {
		_, _, err := ParseCookiePolicyID(bad)
		assert.ErrorIs(t, err, ErrInvalidCookieID, bad)
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Block ")
	require.NoError(t, err)
	assert.Equal(t, models.PolicyBlock, m)

	_, err = ParseMode("maybe")
	assert.ErrorIs(t, err, ErrInvalidMode)
}
