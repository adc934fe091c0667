package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Scope is the per-deployment sync configuration: which counties to keep
// from the nationwide datasets, how often each dataset is refreshed, and the
// rate-limit budget toward the CMS API. It is passed into the connector at
// construction time rather than read from package globals so one binary can
// serve multiple regions.
type Scope struct {
	// Counties are full county names; CountyCodes the SSA short forms.
	// A record matching either is in scope.
	Counties    []string `json:"counties"`
	CountyCodes []string `json:"countyCodes"`

	RefreshDays RefreshDays `json:"refreshDays"`
	RateLimit   RateLimit   `json:"rateLimit"`
}

type RefreshDays struct {
	Providers    int `json:"providers"`
	Ownership    int `json:"ownership"`
	Deficiencies int `json:"deficiencies"`
	Staffing     int `json:"staffing"`
	Quality      int `json:"quality"`
}

type RateLimit struct {
	MaxRequestsPerMinute int `json:"maxRequestsPerMinute"`
	MaxAttempts          int `json:"maxAttempts"`
	RetryDelayMs         int `json:"retryDelayMs"`
}

// DefaultScope covers the Northeast Ohio service area.
func DefaultScope() *Scope {
	return &Scope{
		Counties: []string{
			"Cuyahoga", "Lake", "Geauga", "Lorain",
			"Medina", "Summit", "Portage", "Stark",
		},
		CountyCodes: []string{"180", "430", "280", "470", "520", "770", "670", "760"},
		RefreshDays: RefreshDays{
			Providers:    7,
			Ownership:    30,
			Deficiencies: 30,
			Staffing:     90,
			Quality:      90,
		},
		RateLimit: RateLimit{
			MaxRequestsPerMinute: 30,
			MaxAttempts:          5,
			RetryDelayMs:         2000,
		},
	}
}

// LoadScope reads a scope file, falling back to defaults for any section the
// file leaves empty. An empty path returns the default scope.
func LoadScope(path string) (*Scope, error) {
	scope := DefaultScope()
	if path == "" {
		return scope, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scope file '%s': %w", path, err)
	}
	var loaded Scope
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse scope file '%s': %w", path, err)
	}

	if len(loaded.Counties) > 0 {
		scope.Counties = loaded.Counties
	}
	if len(loaded.CountyCodes) > 0 {
		scope.CountyCodes = loaded.CountyCodes
	}
	if loaded.RefreshDays != (RefreshDays{}) {
		scope.RefreshDays = loaded.RefreshDays
	}
	if loaded.RateLimit != (RateLimit{}) {
		scope.RateLimit = loaded.RateLimit
	}
	return scope, nil
}

// InScope reports whether a county identifier (name or SSA code) is on the
// allow-list. Matching is case-insensitive on names.
func (s *Scope) InScope(county string) bool {
	county = strings.TrimSpace(county)
	if county == "" {
		return false
	}
	for _, c := range s.Counties {
		if strings.EqualFold(c, county) {
			return true
		}
	}
	for _, code := range s.CountyCodes {
		if code == county {
			return true
		}
	}
	return false
}

// RetryDelay returns the configured base backoff as a duration.
func (s *Scope) RetryDelay() time.Duration {
	return time.Duration(s.RateLimit.RetryDelayMs) * time.Millisecond
}
