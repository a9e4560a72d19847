package discovery

import (
	"sort"
	"time"
)

// Rank orders scored in place and returns it. Keys, each consulted only on
// a tie of the previous one: common interests, online, verified, score,
// completeness, distance (unknown last), last activity (unknown last), id.
func Rank(scored []*ScoredCandidate) []*ScoredCandidate {
	sort.SliceStable(scored, func(i, j int) bool {
		return compareCandidates(scored[i], scored[j]) < 0
	})
	return scored
}

// compareCandidates returns a negative number when a ranks before b.
func compareCandidates(a, b *ScoredCandidate) int {
	if c := compareDesc(len(a.CommonInterests), len(b.CommonInterests)); c != 0 {
		return c
	}
	if c := compareBool(a.IsOnline, b.IsOnline); c != 0 {
		return c
	}
	if c := compareBool(a.IsVerified, b.IsVerified); c != 0 {
		return c
	}
	if c := compareDesc(a.CompatibilityScore, b.CompatibilityScore); c != 0 {
		return c
	}
	if c := compareDesc(completeness(&a.Profile), completeness(&b.Profile)); c != 0 {
		return c
	}
	if c := compareDistance(a.DistanceKm, b.DistanceKm); c != 0 {
		return c
	}
	if c := compareDesc(lastActiveUnix(a.LastActiveAt), lastActiveUnix(b.LastActiveAt)); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// completeness counts bio, interests and avatar.
func completeness(p *Profile) int {
	n := 0
	if p.Bio != "" {
		n++
	}
	if len(p.Interests) > 0 {
		n++
	}
	if p.AvatarURL != nil && *p.AvatarURL != "" {
		n++
	}
	return n
}

func compareDesc[T int | int64](a, b T) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a && !b:
		return -1
	case !a && b:
		return 1
	}
	return 0
}

func compareDistance(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

// Missing timestamps count as the epoch.
func lastActiveUnix(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixNano()
}

// Paginate returns the 1-based page of ranked and whether more follow.
func Paginate(ranked []*ScoredCandidate, page, pageSize int) ([]*ScoredCandidate, bool) {
	if page < 1 || pageSize < 1 {
		return []*ScoredCandidate{}, false
	}
	start := (page - 1) * pageSize
	if start >= len(ranked) {
		return []*ScoredCandidate{}, false
	}
	end := min(start+pageSize, len(ranked))
	return ranked[start:end], end < len(ranked)
}
