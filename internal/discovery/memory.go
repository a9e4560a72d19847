package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
)

type pairKey struct{ a, b int64 }

func unorderedPair(a, b int64) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// MemoryStore keeps profiles, interactions and matches in process. It
// implements both ProfileStore and InteractionStore and is meant for
// development and tests.
type MemoryStore struct {
	mu           sync.RWMutex
	profiles     map[int64]*Profile
	interactions map[pairKey]*Interaction // ordered (actor, target)
	matches      map[pairKey]*Match       // unordered
	nextID       int64
}

func NewMemoryStore(profiles ...*Profile) *MemoryStore {
	s := &MemoryStore{
		profiles:     make(map[int64]*Profile),
		interactions: make(map[pairKey]*Interaction),
		matches:      make(map[pairKey]*Match),
	}
	for _, p := range profiles {
		s.PutProfile(p)
	}
	return s
}

// LoadProfilesJSON decodes a JSON array of profiles, as used to seed a
// MemoryStore in development.
func LoadProfilesJSON(r io.Reader) ([]*Profile, error) {
	var profiles []*Profile
	if err := json.NewDecoder(r).Decode(&profiles); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	for i, p := range profiles {
		if p == nil || p.ID == 0 {
			return nil, fmt.Errorf("profile %d: missing id", i)
		}
	}
	return profiles, nil
}

// PutProfile inserts or replaces a profile.
func (s *MemoryStore) PutProfile(p *Profile) {
	cp := *p
	s.mu.Lock()
	s.profiles[p.ID] = &cp
	s.mu.Unlock()
}

func (s *MemoryStore) GetProfile(_ context.Context, id int64) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) ListCandidates(_ context.Context) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpsertInteraction(_ context.Context, in *Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{in.ActorID, in.TargetID}
	if existing, ok := s.interactions[key]; ok {
		in.ID = existing.ID
	} else {
		s.nextID++
		in.ID = s.nextID
	}
	cp := *in
	s.interactions[key] = &cp
	return nil
}

func (s *MemoryStore) GetInteraction(_ context.Context, actorID, targetID int64) (*Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.interactions[pairKey{actorID, targetID}]
	if !ok {
		return nil, ErrInteractionNotFound
	}
	cp := *in
	return &cp, nil
}

func (s *MemoryStore) FindMatch(_ context.Context, userA, userB int64) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matches[unorderedPair(userA, userB)]
	if !ok {
		return nil, ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *MemoryStore) CreateMatch(_ context.Context, m *Match) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.User1ID > m.User2ID {
		m.User1ID, m.User2ID = m.User2ID, m.User1ID
	}
	key := unorderedPair(m.User1ID, m.User2ID)
	if _, exists := s.matches[key]; exists {
		return false, nil
	}
	s.nextID++
	m.ID = s.nextID
	cp := *m
	s.matches[key] = &cp
	return true, nil
}

func (s *MemoryStore) ListMatches(_ context.Context, userID int64) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*Match{}
	for _, m := range s.matches {
		if m.User1ID == userID || m.User2ID == userID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].MatchedAt.Equal(out[j].MatchedAt) {
			return out[i].MatchedAt.After(out[j].MatchedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) ListActedTargets(_ context.Context, actorID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []int64
	for key := range s.interactions {
		if key.a == actorID {
			ids = append(ids, key.b)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

var (
	_ ProfileStore     = (*MemoryStore)(nil)
	_ InteractionStore = (*MemoryStore)(nil)
)
