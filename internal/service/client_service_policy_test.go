package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-cookie-sync/internal/filter"
	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPolicyService() (ClientPolicyService, *memSettings) {
	settings := &memSettings{}
	return NewClientPolicyService(settings, logger.Nop()), settings
}

func TestSetDomainPolicy(t *testing.T) {
	svc, settings := newTestPolicyService()
	ctx := context.Background()

	got, err := svc.SetDomainPolicy(ctx, "Example.COM", models.PolicyBlock)
	require.NoError(t, err)
	assert.Equal(t, models.DomainPolicy{Domain: ".example.com", Mode: models.PolicyBlock}, got)

	// повторная запись заменяет, а не дублирует
	_, err = svc.SetDomainPolicy(ctx, ".example.com", models.PolicyAllow)
	require.NoError(t, err)
	_, err = svc.SetDomainPolicy(ctx, "other.org", models.PolicyBlock)
	require.NoError(t, err)

	assert.Equal(t, []models.DomainPolicy{
		{Domain: ".example.com", Mode: models.PolicyAllow},
		{Domain: ".other.org", Mode: models.PolicyBlock},
	}, settings.prefs.DomainPolicies)
}

func TestSetDomainPolicy_Invalid(t *testing.T) {
	svc, _ := newTestPolicyService()
	ctx := context.Background()

	_, err := svc.SetDomainPolicy(ctx, "  ", models.PolicyBlock)
	assert.ErrorIs(t, err, filter.ErrInvalidPattern)

	_, err = svc.SetDomainPolicy(ctx, "example.com", models.PolicyMode("maybe"))
	assert.ErrorIs(t, err, filter.ErrInvalidMode)
}

func TestRemoveDomainPolicy(t *testing.T) {
	svc, settings := newTestPolicyService()
	ctx := context.Background()
	settings.prefs.DomainPolicies = []models.DomainPolicy{{Domain: ".example.com", Mode: models.PolicyBlock}}

	removed, err := svc.RemoveDomainPolicy(ctx, "example.com")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, settings.prefs.DomainPolicies)

	removed, err = svc.RemoveDomainPolicy(ctx, "example.com")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCookiePolicies(t *testing.T) {
	svc, settings := newTestPolicyService()
	ctx := context.Background()

	require.NoError(t, svc.SetCookiePolicy(ctx, "session@auth.example.com", models.PolicyAllow))
	require.NoError(t, svc.SetCookiePolicy(ctx, "session@auth.example.com", models.PolicyBlock))
	assert.Equal(t, []models.CookiePolicy{{ID: "session@auth.example.com", Mode: models.PolicyBlock}}, settings.prefs.CookiePolicies)

	assert.ErrorIs(t, svc.SetCookiePolicy(ctx, "no-at-sign", models.PolicyAllow), filter.ErrInvalidCookieID)
	assert.ErrorIs(t, svc.SetCookiePolicy(ctx, "a@b.com", ""), filter.ErrInvalidMode)

	removed, err := svc.RemoveCookiePolicy(ctx, "session@auth.example.com")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, settings.prefs.CookiePolicies)
}

func TestSetFilters(t *testing.T) {
	svc, settings := newTestPolicyService()

	err := svc.SetFilters(context.Background(), models.DomainFilters{
		Allow: []string{" .Foo.com", "foo.com", ""},
		Block: []string{"bar.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.DomainFilters{Allow: []string{"foo.com"}, Block: []string{"bar.com"}}, settings.prefs.Filters)
}

func TestSetSchedule(t *testing.T) {
	svc, settings := newTestPolicyService()
	ctx := context.Background()

	require.NoError(t, svc.SetSchedule(ctx, 15))
	assert.Equal(t, 15, settings.prefs.ScheduleMinutes)
	assert.Error(t, svc.SetSchedule(ctx, -1))

	prefs, err := svc.Preferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, prefs.ScheduleMinutes)
}

func TestPolicyService_StorageError(t *testing.T) {
	svc, settings := newTestPolicyService()
	settings.err = errors.New("db closed")

	_, err := svc.SetDomainPolicy(context.Background(), "example.com", models.PolicyBlock)
	assert.Error(t, err)
}
