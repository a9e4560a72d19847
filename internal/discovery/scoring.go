package discovery

import (
	"context"
	"math"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// Score weights. The final score is clamped to [0, 100].
const (
	interestOverlapWeight = 60.0
	threeCommonBonus      = 20.0
	twoCommonBonus        = 10.0
	diversityBonus        = 10.0
	diversityMinInterests = 5
	bioBonus              = 5.0
	bioMinLength          = 50
	verifiedBonus         = 5.0
	noInterestsBaseline   = 20.0
	maxScore              = 100.0
)

// DefaultOnlineWindow is how recently a profile must have been active to be
// shown as online.
const DefaultOnlineWindow = 15 * time.Minute

// Scorer annotates candidates with compatibility, distance, age and
// online status relative to a viewer.
type Scorer struct {
	onlineWindow time.Duration
	now          func() time.Time
}

func NewScorer(onlineWindow time.Duration, now func() time.Time) *Scorer {
	if onlineWindow <= 0 {
		onlineWindow = DefaultOnlineWindow
	}
	if now == nil {
		now = time.Now
	}
	return &Scorer{onlineWindow: onlineWindow, now: now}
}

func (s *Scorer) Score(viewer, candidate *Profile) *ScoredCandidate {
	now := s.now()
	common, breakdown := compatibility(viewer.Interests, candidate)

	total := math.Round(math.Max(0, math.Min(breakdown.Total(), maxScore)))

	scored := &ScoredCandidate{
		Profile:            *candidate,
		CommonInterests:    common,
		CompatibilityScore: int(total),
		ScoreBreakdown:     breakdown,
		IsOnline:           s.isOnline(candidate.LastActiveAt, now),
	}
	scored.DistanceKm = distanceBetween(viewer, candidate)
	scored.DisplayDistanceKm = RoundKm(scored.DistanceKm)
	if age, ok := AgeAt(candidate.BirthDate, now); ok {
		scored.Age = &age
	}
	return scored
}

// ScoreAll scores candidates on up to workers goroutines. The output keeps
// the input order.
func (s *Scorer) ScoreAll(ctx context.Context, viewer *Profile, candidates []*Profile, workers int) ([]*ScoredCandidate, error) {
	scored := make([]*ScoredCandidate, len(candidates))
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scored[i] = s.Score(viewer, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scored, nil
}

// Missing activity means offline.
func (s *Scorer) isOnline(lastActive *time.Time, now time.Time) bool {
	if lastActive == nil {
		return false
	}
	return now.Sub(*lastActive) < s.onlineWindow
}

// compatibility returns the shared interests (in candidate order) and the
// score parts for candidate as seen by a viewer with viewerInterests.
func compatibility(viewerInterests []string, candidate *Profile) ([]string, ScoreBreakdown) {
	viewerSet := toSet(viewerInterests)
	candidateSet := make(map[string]struct{}, len(candidate.Interests))
	common := make([]string, 0)

	for _, interest := range candidate.Interests {
		if _, seen := candidateSet[interest]; seen {
			continue
		}
		candidateSet[interest] = struct{}{}
		if _, ok := viewerSet[interest]; ok {
			common = append(common, interest)
		}
	}

	var b ScoreBreakdown
	if len(viewerSet) == 0 || len(candidateSet) == 0 {
		b.BaselineFloor = noInterestsBaseline
		return common, b
	}

	b.InterestOverlap = float64(len(common)) / float64(max(len(viewerSet), len(candidateSet))) * interestOverlapWeight

	switch {
	case len(common) >= 3:
		b.CommonInterestBonus = threeCommonBonus
	case len(common) >= 2:
		b.CommonInterestBonus = twoCommonBonus
	}
	if len(candidateSet) >= diversityMinInterests {
		b.DiversityBonus = diversityBonus
	}
	if utf8.RuneCountInString(candidate.Bio) > bioMinLength {
		b.BioBonus = bioBonus
	}
	if candidate.IsVerified {
		b.VerifiedBonus = verifiedBonus
	}
	return common, b
}
