// internal/discovery/service.go

package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imadgeboyega/kiekky-discovery/internal/common/logging"
	"github.com/imadgeboyega/kiekky-discovery/internal/common/utils"
)

type Service interface {
	// Discovery
	Discover(ctx context.Context, viewerID int64, prefs *ViewerPreferences) (*DiscoverResult, error)
	Compatibility(ctx context.Context, viewerID, targetID int64) (*ScoredCandidate, error)
	DefaultPreferences() ViewerPreferences

	// Interactions
	RecordInteraction(ctx context.Context, actorID, targetID int64, action Action) (*RecordResult, error)
	GetMatches(ctx context.Context, userID int64) ([]*Match, error)
}

// Options tune a Service. Zero values fall back to the defaults below.
type Options struct {
	MinAge               int
	MaxAge               int
	DefaultMaxDistanceKm float64
	DefaultPageSize      int
	MaxPageSize          int
	OnlineWindow         time.Duration
	ScoreWorkers         int
	Now                  func() time.Time
}

func (o *Options) withDefaults() {
	if o.MinAge == 0 {
		o.MinAge = 18
	}
	if o.MaxAge == 0 {
		o.MaxAge = 100
	}
	if o.DefaultPageSize == 0 {
		o.DefaultPageSize = 20
	}
	if o.MaxPageSize == 0 {
		o.MaxPageSize = 100
	}
	if o.OnlineWindow == 0 {
		o.OnlineWindow = DefaultOnlineWindow
	}
	if o.ScoreWorkers == 0 {
		o.ScoreWorkers = 8
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

type service struct {
	profiles     ProfileStore
	interactions InteractionStore
	scorer       *Scorer
	ledger       *Ledger
	notifier     MatchNotifier
	opts         Options
}

func NewService(profiles ProfileStore, interactions InteractionStore, notifier MatchNotifier, opts Options) Service {
	opts.withDefaults()
	return &service{
		profiles:     profiles,
		interactions: interactions,
		scorer:       NewScorer(opts.OnlineWindow, opts.Now),
		ledger:       NewLedger(interactions, opts.Now),
		notifier:     notifier,
		opts:         opts,
	}
}

func (s *service) DefaultPreferences() ViewerPreferences {
	return ViewerPreferences{
		Gender:           AnyValue,
		RelationshipType: AnyValue,
		MinAge:           s.opts.MinAge,
		MaxAge:           s.opts.MaxAge,
		MaxDistanceKm:    s.opts.DefaultMaxDistanceKm,
		Page:             1,
		PageSize:         s.opts.DefaultPageSize,
	}
}

func (s *service) validatePreferences(prefs *ViewerPreferences) error {
	if prefs == nil {
		return fmt.Errorf("%w: missing preferences", ErrInvalidPreferences)
	}
	if err := utils.ValidateStruct(prefs); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPreferences, err)
	}
	if prefs.PageSize > s.opts.MaxPageSize {
		return fmt.Errorf("%w: page_size must be at most %d", ErrInvalidPreferences, s.opts.MaxPageSize)
	}
	return nil
}

func (s *service) Discover(ctx context.Context, viewerID int64, prefs *ViewerPreferences) (*DiscoverResult, error) {
	defer RecordDuration("discover", time.Now())

	if err := s.validatePreferences(prefs); err != nil {
		RecordDiscovery("invalid", 0)
		return nil, err
	}

	viewer, err := s.profiles.GetProfile(ctx, viewerID)
	if err != nil {
		RecordDiscovery("error", 0)
		return nil, err
	}

	pool, err := s.profiles.ListCandidates(ctx)
	if err != nil {
		RecordDiscovery("error", 0)
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}

	exclude := map[int64]struct{}{}
	if !prefs.IncludeSeen {
		seen, err := s.interactions.ListActedTargets(ctx, viewerID)
		if err != nil {
			RecordDiscovery("error", 0)
			return nil, fmt.Errorf("load interactions: %w", err)
		}
		for _, id := range seen {
			exclude[id] = struct{}{}
		}
	}

	eligible := FilterCandidates(pool, viewer, prefs, exclude, s.opts.Now())

	scored, err := s.scorer.ScoreAll(ctx, viewer, eligible, s.opts.ScoreWorkers)
	if err != nil {
		RecordDiscovery("error", 0)
		return nil, err
	}
	for _, c := range scored {
		RecordCompatibilityScore(c.CompatibilityScore)
	}

	ranked := Rank(scored)
	page, hasMore := Paginate(ranked, prefs.Page, prefs.PageSize)

	RecordDiscovery("ok", len(ranked))
	logging.Ctx(ctx).Debug().
		Int64("viewer_id", viewerID).
		Int("pool", len(pool)).
		Int("eligible", len(ranked)).
		Int("returned", len(page)).
		Msg("discovery served")

	return &DiscoverResult{
		Results:  page,
		HasMore:  hasMore,
		Total:    len(ranked),
		Page:     prefs.Page,
		PageSize: prefs.PageSize,
	}, nil
}

func (s *service) Compatibility(ctx context.Context, viewerID, targetID int64) (*ScoredCandidate, error) {
	if viewerID == targetID {
		return nil, ErrSelfInteraction
	}
	viewer, err := s.profiles.GetProfile(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	target, err := s.profiles.GetProfile(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return s.scorer.Score(viewer, target), nil
}

func (s *service) RecordInteraction(ctx context.Context, actorID, targetID int64, action Action) (*RecordResult, error) {
	defer RecordDuration("record_interaction", time.Now())

	if _, err := ParseAction(string(action)); err != nil {
		return nil, err
	}
	if actorID == targetID {
		return nil, ErrSelfInteraction
	}

	for _, id := range []int64{actorID, targetID} {
		if _, err := s.profiles.GetProfile(ctx, id); err != nil {
			if errors.Is(err, ErrProfileNotFound) {
				return nil, fmt.Errorf("%w: %d", ErrProfileNotFound, id)
			}
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
	}

	result, err := s.ledger.Record(ctx, actorID, targetID, action)
	if err != nil {
		return nil, err
	}
	RecordInteraction(action)

	if result.Matched {
		RecordMatch()
		logging.Ctx(ctx).Info().
			Int64("match_id", result.Match.ID).
			Int64("user1_id", result.Match.User1ID).
			Int64("user2_id", result.Match.User2ID).
			Msg("match created")

		if s.notifier != nil {
			if err := s.notifier.NotifyMatch(ctx, result.Match); err != nil {
				logging.Ctx(ctx).Warn().Err(err).Int64("match_id", result.Match.ID).Msg("match notification failed")
			}
		}
	}

	return result, nil
}

func (s *service) GetMatches(ctx context.Context, userID int64) ([]*Match, error) {
	if _, err := s.profiles.GetProfile(ctx, userID); err != nil {
		return nil, err
	}
	return s.interactions.ListMatches(ctx, userID)
}
