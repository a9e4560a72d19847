package discovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore() *MemoryStore {
	return NewMemoryStore(
		newProfile(1, withInterests("music", "travel"), withCoords(-23.55, -46.63), withBirthDate("1995-03-01")),
		newProfile(2, withInterests("music", "travel", "art", "food", "tech"), withBio(longBio), verified, withCoords(-22.91, -43.17)),
		newProfile(3, withInterests("music"), withLastActive(time.Minute)),
		newProfile(4),
		newProfile(5, inactive, withInterests("music", "travel")),
		newProfile(6, withInterests("music"), withBirthDate("1900-01-01")),
	)
}

func newTestService(store *MemoryStore, notifier MatchNotifier) Service {
	return NewService(store, store, notifier, Options{Now: fixedClock, ScoreWorkers: 2})
}

func TestDiscover(t *testing.T) {
	svc := newTestService(seededStore(), nil)
	prefs := svc.DefaultPreferences()

	result, err := svc.Discover(context.Background(), 1, &prefs)
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 3, 4}, scoredIDs(result.Results))
	assert.Equal(t, 3, result.Total)
	assert.False(t, result.HasMore)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.PageSize)

	top := result.Results[0]
	assert.Equal(t, 54, top.CompatibilityScore)
	require.NotNil(t, top.DisplayDistanceKm)
	assert.Equal(t, 361, *top.DisplayDistanceKm)

	for _, c := range result.Results {
		assert.GreaterOrEqual(t, c.CompatibilityScore, 0)
		assert.LessOrEqual(t, c.CompatibilityScore, 100)
		for _, tag := range c.CommonInterests {
			assert.Contains(t, []string{"music", "travel"}, tag)
			assert.Contains(t, []string(c.Interests), tag)
		}
	}
}

func TestDiscoverPagination(t *testing.T) {
	svc := newTestService(seededStore(), nil)
	prefs := svc.DefaultPreferences()
	prefs.PageSize = 2

	first, err := svc.Discover(context.Background(), 1, &prefs)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, scoredIDs(first.Results))
	assert.True(t, first.HasMore)

	prefs.Page = 2
	second, err := svc.Discover(context.Background(), 1, &prefs)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, scoredIDs(second.Results))
	assert.False(t, second.HasMore)
	assert.Equal(t, 3, second.Total)
}

func TestDiscoverExcludesSeen(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(seededStore(), nil)

	_, err := svc.RecordInteraction(ctx, 1, 2, ActionPass)
	require.NoError(t, err)

	prefs := svc.DefaultPreferences()
	result, err := svc.Discover(ctx, 1, &prefs)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, scoredIDs(result.Results))

	prefs.IncludeSeen = true
	result, err = svc.Discover(ctx, 1, &prefs)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 4}, scoredIDs(result.Results))
}

func TestDiscoverErrors(t *testing.T) {
	svc := newTestService(seededStore(), nil)

	t.Run("inverted ages", func(t *testing.T) {
		prefs := svc.DefaultPreferences()
		prefs.MinAge, prefs.MaxAge = 40, 30
		_, err := svc.Discover(context.Background(), 1, &prefs)
		assert.ErrorIs(t, err, ErrInvalidPreferences)
	})

	t.Run("page size over max", func(t *testing.T) {
		prefs := svc.DefaultPreferences()
		prefs.PageSize = 500
		_, err := svc.Discover(context.Background(), 1, &prefs)
		assert.ErrorIs(t, err, ErrInvalidPreferences)
	})

	t.Run("zero page", func(t *testing.T) {
		prefs := svc.DefaultPreferences()
		prefs.Page = 0
		_, err := svc.Discover(context.Background(), 1, &prefs)
		assert.ErrorIs(t, err, ErrInvalidPreferences)
	})

	t.Run("unknown viewer", func(t *testing.T) {
		prefs := svc.DefaultPreferences()
		_, err := svc.Discover(context.Background(), 99, &prefs)
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestRecordInteractionNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc := newTestService(seededStore(), notifier)

	res, err := svc.RecordInteraction(ctx, 1, 2, ActionLike)
	require.NoError(t, err)
	assert.False(t, res.Matched)

	res, err = svc.RecordInteraction(ctx, 2, 1, ActionSuperLike)
	require.NoError(t, err)
	require.True(t, res.Matched)

	res, err = svc.RecordInteraction(ctx, 2, 1, ActionLike)
	require.NoError(t, err)
	assert.False(t, res.Matched)

	assert.Equal(t, 1, notifier.count())

	matches, err := svc.GetMatches(ctx, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(2), matches[0].Other(1))
}

func TestRecordInteractionNotifierFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{err: errors.New("hub down")}
	svc := newTestService(seededStore(), Notifiers{notifier})

	_, err := svc.RecordInteraction(ctx, 1, 2, ActionLike)
	require.NoError(t, err)
	res, err := svc.RecordInteraction(ctx, 2, 1, ActionLike)
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.Equal(t, 1, notifier.count())
}

func TestRecordInteractionErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(seededStore(), nil)

	_, err := svc.RecordInteraction(ctx, 1, 1, ActionLike)
	assert.ErrorIs(t, err, ErrSelfInteraction)

	_, err = svc.RecordInteraction(ctx, 1, 2, Action("maybe"))
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = svc.RecordInteraction(ctx, 1, 99, ActionLike)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = svc.RecordInteraction(ctx, 99, 1, ActionLike)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestRecordInteractionStoreUnavailable(t *testing.T) {
	mem := seededStore()
	store := &failingStore{MemoryStore: mem, failUpsert: true, err: errors.New("timeout")}
	svc := NewService(mem, store, nil, Options{Now: fixedClock})

	_, err := svc.RecordInteraction(context.Background(), 1, 2, ActionLike)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestCompatibility(t *testing.T) {
	svc := newTestService(seededStore(), nil)

	scored, err := svc.Compatibility(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 54, scored.CompatibilityScore)

	_, err = svc.Compatibility(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = svc.Compatibility(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrSelfInteraction)
}

func TestNotifiersJoinErrors(t *testing.T) {
	a := &recordingNotifier{err: errors.New("a")}
	b := &recordingNotifier{}
	err := Notifiers{a, nil, b}.NotifyMatch(context.Background(), NewMatch(1, 2, testNow))
	assert.EqualError(t, err, "a")
	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
}
