package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredIDs(scored []*ScoredCandidate) []int64 {
	out := make([]int64, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.ID)
	}
	return out
}

func candidate(id int64, mutate func(s *ScoredCandidate)) *ScoredCandidate {
	s := &ScoredCandidate{Profile: *newProfile(id), CommonInterests: []string{}}
	if mutate != nil {
		mutate(s)
	}
	return s
}

func TestRankCommonInterestsDominate(t *testing.T) {
	strong := candidate(1, func(s *ScoredCandidate) {
		s.IsOnline = true
		s.IsVerified = true
		s.CompatibilityScore = 100
		s.Bio = "bio"
		s.AvatarURL = ptr("https://cdn/avatar.png")
		s.DistanceKm = ptr(1.0)
	})
	more := candidate(2, func(s *ScoredCandidate) { s.CommonInterests = []string{"music"} })

	ranked := Rank([]*ScoredCandidate{strong, more})
	assert.Equal(t, []int64{2, 1}, scoredIDs(ranked))
}

func TestRankKeysInOrder(t *testing.T) {
	recent := testNow.Add(-time.Minute)
	older := testNow.Add(-time.Hour)

	tests := []struct {
		name  string
		first *ScoredCandidate
		then  *ScoredCandidate
	}{
		{
			"online before offline",
			candidate(2, func(s *ScoredCandidate) { s.IsOnline = true }),
			candidate(1, func(s *ScoredCandidate) { s.IsVerified = true; s.CompatibilityScore = 90 }),
		},
		{
			"verified before unverified",
			candidate(2, func(s *ScoredCandidate) { s.IsVerified = true }),
			candidate(1, func(s *ScoredCandidate) { s.CompatibilityScore = 90 }),
		},
		{
			"higher score first",
			candidate(2, func(s *ScoredCandidate) { s.CompatibilityScore = 60 }),
			candidate(1, func(s *ScoredCandidate) { s.CompatibilityScore = 40; s.Bio = "bio"; s.Interests = []string{"a"} }),
		},
		{
			"more complete profile first",
			candidate(2, func(s *ScoredCandidate) { s.Bio = "bio"; s.AvatarURL = ptr("a.png") }),
			candidate(1, func(s *ScoredCandidate) { s.Bio = "bio"; s.DistanceKm = ptr(0.5) }),
		},
		{
			"any non-empty bio counts",
			candidate(2, func(s *ScoredCandidate) { s.Bio = "  " }),
			candidate(1, func(s *ScoredCandidate) { s.LastActiveAt = &recent }),
		},
		{
			"empty avatar does not count",
			candidate(2, func(s *ScoredCandidate) { s.Bio = "bio" }),
			candidate(1, func(s *ScoredCandidate) { s.AvatarURL = ptr(""); s.LastActiveAt = &recent }),
		},
		{
			"closer first",
			candidate(2, func(s *ScoredCandidate) { s.DistanceKm = ptr(3.2) }),
			candidate(1, func(s *ScoredCandidate) { s.DistanceKm = ptr(3.3); s.LastActiveAt = &recent }),
		},
		{
			"unknown distance last",
			candidate(2, func(s *ScoredCandidate) { s.DistanceKm = ptr(5000.0) }),
			candidate(1, func(s *ScoredCandidate) { s.LastActiveAt = &recent }),
		},
		{
			"more recent activity first",
			candidate(2, func(s *ScoredCandidate) { s.LastActiveAt = &recent }),
			candidate(1, func(s *ScoredCandidate) { s.LastActiveAt = &older }),
		},
		{
			"missing activity last",
			candidate(2, func(s *ScoredCandidate) { s.LastActiveAt = &older }),
			candidate(1, nil),
		},
		{
			"lower id breaks full ties",
			candidate(1, nil),
			candidate(2, nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := Rank([]*ScoredCandidate{tt.then, tt.first})
			assert.Equal(t, []int64{tt.first.ID, tt.then.ID}, scoredIDs(ranked))
			assert.Negative(t, compareCandidates(tt.first, tt.then))
			assert.Positive(t, compareCandidates(tt.then, tt.first))
		})
	}
}

func TestRankIsDeterministic(t *testing.T) {
	build := func() []*ScoredCandidate {
		return []*ScoredCandidate{
			candidate(5, nil),
			candidate(3, func(s *ScoredCandidate) { s.CompatibilityScore = 50 }),
			candidate(4, nil),
			candidate(1, func(s *ScoredCandidate) { s.IsOnline = true }),
			candidate(2, func(s *ScoredCandidate) { s.CommonInterests = []string{"x"} }),
		}
	}
	a := scoredIDs(Rank(build()))
	b := build()
	b[0], b[4] = b[4], b[0]
	assert.Equal(t, a, scoredIDs(Rank(b)))
	assert.Equal(t, []int64{2, 1, 3, 4, 5}, a)
}

func TestPaginate(t *testing.T) {
	var ranked []*ScoredCandidate
	for i := int64(1); i <= 5; i++ {
		ranked = append(ranked, candidate(i, nil))
	}

	page, more := Paginate(ranked, 1, 2)
	assert.Equal(t, []int64{1, 2}, scoredIDs(page))
	assert.True(t, more)

	page, more = Paginate(ranked, 3, 2)
	assert.Equal(t, []int64{5}, scoredIDs(page))
	assert.False(t, more)

	page, more = Paginate(ranked, 2, 3)
	assert.Equal(t, []int64{4, 5}, scoredIDs(page))
	assert.False(t, more)

	page, more = Paginate(ranked, 4, 2)
	require.NotNil(t, page)
	assert.Empty(t, page)
	assert.False(t, more)
}
