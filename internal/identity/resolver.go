package identity

import (
	"sort"
	"strings"

	"staff-bot/internal/config"
	"staff-bot/internal/models"
)

// Resolver maps free-text schedule names onto canonical employee
// identities. Matching is substring-based and case-insensitive in both
// directions: deliberately permissive, so users need not type full
// names exactly. Built once from static config, immutable afterwards.
type Resolver struct {
	employees []models.EmployeeIdentity
	manual    []string
}

func NewResolver(staff *config.Staff) *Resolver {
	r := &Resolver{manual: staff.ManualEmployees}
	for _, e := range staff.Employees {
		r.employees = append(r.employees, models.EmployeeIdentity{
			CanonicalName: e.Name,
			Aliases:       e.Aliases,
			Blacklisted:   e.Blacklisted,
		})
	}
	return r
}

// IsBlacklisted reports whether raw names a blacklisted employee.
// Blacklist filtering runs before alias resolution.
func (r *Resolver) IsBlacklisted(raw string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return false
	}
	for _, e := range r.employees {
		if !e.Blacklisted {
			continue
		}
		if contains(lower, strings.ToLower(e.CanonicalName)) {
			return true
		}
		for _, a := range e.Aliases {
			if contains(lower, strings.ToLower(a)) {
				return true
			}
		}
	}
	return false
}

// Resolve maps raw to its canonical name via the alias table, or
// returns raw unchanged when no alias matches.
func (r *Resolver) Resolve(raw string) string {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	for _, e := range r.employees {
		if e.Blacklisted {
			continue
		}
		if contains(lower, strings.ToLower(e.CanonicalName)) {
			return e.CanonicalName
		}
		for _, a := range e.Aliases {
			if contains(lower, strings.ToLower(a)) {
				return e.CanonicalName
			}
		}
	}
	return trimmed
}

// Match reports whether a registered surname-or-name corresponds to a
// schedule row's full name.
func Match(registered, scheduleName string) bool {
	return strings.Contains(
		strings.ToLower(scheduleName),
		strings.ToLower(strings.TrimSpace(registered)),
	)
}

// AllEmployees returns the sorted set of canonical names across the
// given weeks, blacklisted names removed, plus the fixed manual
// additions. Alias variants collapse into one logical employee.
func (r *Resolver) AllEmployees(weeks []models.WeekSheet) []string {
	set := make(map[string]bool)
	for _, w := range weeks {
		for _, s := range w.Shifts {
			if r.IsBlacklisted(s.EmployeeName) {
				continue
			}
			set[r.Resolve(s.EmployeeName)] = true
		}
	}
	for _, m := range r.manual {
		if !r.IsBlacklisted(m) {
			set[r.Resolve(m)] = true
		}
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// contains checks substring containment in both directions, so
// "Иванов" matches "Иванов Иван" and vice versa.
func contains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
