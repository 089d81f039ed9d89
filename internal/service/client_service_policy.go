package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/MKhiriev/go-cookie-sync/internal/filter"
	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/internal/store"
	"github.com/MKhiriev/go-cookie-sync/models"
)

type clientPolicyService struct {
	settings store.SettingsStorage

	logger *logger.Logger
}

func NewClientPolicyService(settings store.SettingsStorage, logger *logger.Logger) ClientPolicyService {
	return &clientPolicyService{settings: settings, logger: logger}
}

func (p *clientPolicyService) Preferences(ctx context.Context) (models.Preferences, error) {
	return p.settings.LoadPrefs(ctx)
}

func (p *clientPolicyService) SetDomainPolicy(ctx context.Context, pattern string, mode models.PolicyMode) (models.DomainPolicy, error) {
	domain, err := filter.NormalizeDomainPattern(pattern)
	if err != nil {
		return models.DomainPolicy{}, err
	}
	if !mode.Valid() {
		return models.DomainPolicy{}, fmt.Errorf("%w: %q", filter.ErrInvalidMode, mode)
	}

	policy := models.DomainPolicy{Domain: domain, Mode: mode}
	_, err = p.settings.UpdatePrefs(ctx, func(prefs *models.Preferences) error {
		i := slices.IndexFunc(prefs.DomainPolicies, func(d models.DomainPolicy) bool { return d.Domain == domain })
		if i >= 0 {
			prefs.DomainPolicies[i] = policy
			return nil
		}
		prefs.DomainPolicies = append(prefs.DomainPolicies, policy)
		return nil
	})
	if err != nil {
		return models.DomainPolicy{}, fmt.Errorf("save domain policy: %w", err)
	}
	return policy, nil
}

func (p *clientPolicyService) RemoveDomainPolicy(ctx context.Context, pattern string) (bool, error) {
	domain, err := filter.NormalizeDomainPattern(pattern)
	if err != nil {
		return false, err
	}

	removed := false
	_, err = p.settings.UpdatePrefs(ctx, func(prefs *models.Preferences) error {
		before := len(prefs.DomainPolicies)
		prefs.DomainPolicies = slices.DeleteFunc(prefs.DomainPolicies, func(d models.DomainPolicy) bool { return d.Domain == domain })
		removed = len(prefs.DomainPolicies) != before
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("remove domain policy: %w", err)
	}
	return removed, nil
}

func (p *clientPolicyService) SetCookiePolicy(ctx context.Context, id string, mode models.PolicyMode) error {
	id = strings.TrimSpace(id)
	if _, _, err := filter.ParseCookiePolicyID(id); err != nil {
		return err
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", filter.ErrInvalidMode, mode)
	}

	policy := models.CookiePolicy{ID: id, Mode: mode}
	_, err := p.settings.UpdatePrefs(ctx, func(prefs *models.Preferences) error {
		i := slices.IndexFunc(prefs.CookiePolicies, func(c models.CookiePolicy) bool { return c.ID == id })
		if i >= 0 {
			prefs.CookiePolicies[i] = policy
			return nil
		}
		prefs.CookiePolicies = append(prefs.CookiePolicies, policy)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save cookie policy: %w", err)
	}
	return nil
}

func (p *clientPolicyService) RemoveCookiePolicy(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)

	removed := false
	_, err := p.settings.UpdatePrefs(ctx, func(prefs *models.Preferences) error {
		before := len(prefs.CookiePolicies)
		prefs.CookiePolicies = slices.DeleteFunc(prefs.CookiePolicies, func(c models.CookiePolicy) bool { return c.ID == id })
		removed = len(prefs.CookiePolicies) != before
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("remove cookie policy: %w", err)
	}
	return removed, nil
}

// SetFilters replaces both literal lists. Entries are trimmed, lowercased
// and stripped of a leading "."; blanks and duplicates are dropped.
func (p *clientPolicyService) SetFilters(ctx context.Context, filters models.DomainFilters) error {
	clean := models.DomainFilters{
		Allow: cleanDomains(filters.Allow),
		Block: cleanDomains(filters.Block),
	}

	_, err := p.settings.UpdatePrefs(ctx, func(prefs *models.Preferences) error {
		prefs.Filters = clean
		return nil
	})
	if err != nil {
		return fmt.Errorf("save filters: %w", err)
	}
	return nil
}

func (p *clientPolicyService) SetSchedule(ctx context.Context, minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("schedule must not be negative, got %d", minutes)
	}

	_, err := p.settings.UpdatePrefs(ctx, func(prefs *models.Preferences) error {
		prefs.ScheduleMinutes = minutes
		return nil
	})
	if err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	return nil
}

func cleanDomains(domains []string) []string {
	var out []string
	for _, d := range domains {
		d = strings.TrimLeft(strings.ToLower(strings.TrimSpace(d)), ".")
		if d == "" || slices.Contains(out, d) {
			continue
		}
		out = append(out, d)
	}
	return out
}
