package discovery

import (
	"strings"
	"time"
)

var birthDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func parseBirthDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// AgeAt returns the age in full years at now. A missing, unparseable or
// future birth date yields ok == false.
func AgeAt(birthDate *string, now time.Time) (age int, ok bool) {
	if birthDate == nil {
		return 0, false
	}
	born, ok := parseBirthDate(*birthDate)
	if !ok {
		return 0, false
	}
	now = now.UTC()
	if born.After(now) {
		return 0, false
	}

	age = now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age, true
}

// FilterCandidates returns the members of pool that satisfy every hard
// constraint in prefs. Profiles in exclude are dropped as well.
func FilterCandidates(pool []*Profile, viewer *Profile, prefs *ViewerPreferences, exclude map[int64]struct{}, now time.Time) []*Profile {
	wanted := toSet(prefs.Interests)
	query := strings.ToLower(strings.TrimSpace(prefs.Query))
	location := strings.ToLower(strings.TrimSpace(prefs.Location))

	eligible := make([]*Profile, 0, len(pool))
	for _, c := range pool {
		if c == nil || c.ID == viewer.ID || !c.IsActive {
			continue
		}
		if _, skip := exclude[c.ID]; skip {
			continue
		}
		if !matchesOption(prefs.Gender, c.Gender) || !matchesOption(prefs.RelationshipType, c.ProfileType) {
			continue
		}
		if (prefs.VerifiedOnly && !c.IsVerified) || (prefs.PremiumOnly && !c.IsPremium) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(c.DisplayName), query) &&
			!strings.Contains(strings.ToLower(c.Username), query) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(c.Location), location) {
			continue
		}
		if len(wanted) > 0 && !intersects(wanted, c.Interests) {
			continue
		}
		// unknown age passes
		if age, ok := AgeAt(c.BirthDate, now); ok && (age < prefs.MinAge || age > prefs.MaxAge) {
			continue
		}
		// unknown distance passes
		if prefs.MaxDistanceKm > 0 {
			if d := distanceBetween(viewer, c); d != nil && *d > prefs.MaxDistanceKm {
				continue
			}
		}
		eligible = append(eligible, c)
	}
	return eligible
}

func matchesOption(want, got string) bool {
	return want == "" || want == AnyValue || want == got
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func intersects(set map[string]struct{}, values []string) bool {
	for _, v := range values {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
