package discovery

import (
	"context"
	"sync"
	"time"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func ptr[T any](v T) *T { return &v }

func profileIDs(profiles []*Profile) []int64 {
	ids := make([]int64, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	return ids
}

type profileOpt func(*Profile)

func newProfile(id int64, opts ...profileOpt) *Profile {
	p := &Profile{
		ID:          id,
		Username:    "user" + string(rune('a'+id%26)),
		DisplayName: "User",
		Gender:      "female",
		ProfileType: "dating",
		IsActive:    true,
		CreatedAt:   testNow.Add(-30 * 24 * time.Hour),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func withInterests(tags ...string) profileOpt {
	return func(p *Profile) { p.Interests = tags }
}

func withCoords(lat, lon float64) profileOpt {
	return func(p *Profile) { p.Latitude, p.Longitude = ptr(lat), ptr(lon) }
}

func withBirthDate(s string) profileOpt {
	return func(p *Profile) { p.BirthDate = ptr(s) }
}

func withLastActive(ago time.Duration) profileOpt {
	return func(p *Profile) { p.LastActiveAt = ptr(testNow.Add(-ago)) }
}

func withBio(s string) profileOpt {
	return func(p *Profile) { p.Bio = s }
}

func verified(p *Profile) { p.IsVerified = true }

func premium(p *Profile) { p.IsPremium = true }

func inactive(p *Profile) { p.IsActive = false }

func defaultPrefs() *ViewerPreferences {
	return &ViewerPreferences{
		Gender:           AnyValue,
		RelationshipType: AnyValue,
		MinAge:           18,
		MaxAge:           100,
		Page:             1,
		PageSize:         20,
	}
}

type recordingNotifier struct {
	mu      sync.Mutex
	matches []*Match
	err     error
}

func (n *recordingNotifier) NotifyMatch(_ context.Context, m *Match) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.matches = append(n.matches, m)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.matches)
}

// failingStore wraps a MemoryStore and fails the named operations.
type failingStore struct {
	*MemoryStore
	failUpsert bool
	failCreate bool
	err        error
}

func (f *failingStore) UpsertInteraction(ctx context.Context, in *Interaction) error {
	if f.failUpsert {
		return f.err
	}
	return f.MemoryStore.UpsertInteraction(ctx, in)
}

func (f *failingStore) CreateMatch(ctx context.Context, m *Match) (bool, error) {
	if f.failCreate {
		return false, f.err
	}
	return f.MemoryStore.CreateMatch(ctx, m)
}
