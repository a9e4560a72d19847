package discovery

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfilesJSON(t *testing.T) {
	profiles, err := LoadProfilesJSON(strings.NewReader(`[
		{"id": 1, "username": "ada", "interests": ["music", "travel"], "latitude": 6.52, "longitude": 3.37, "is_active": true},
		{"id": 2, "username": "grace", "birth_date": "1990-12-09", "is_active": true}
	]`))
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, []string{"music", "travel"}, []string(profiles[0].Interests))
	require.NotNil(t, profiles[0].Latitude)
	assert.Nil(t, profiles[1].Latitude)

	_, err = LoadProfilesJSON(strings.NewReader(`[{"username": "nobody"}]`))
	assert.Error(t, err)

	_, err = LoadProfilesJSON(strings.NewReader(`{`))
	assert.Error(t, err)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(newProfile(1, withBio("original")))

	p, err := store.GetProfile(ctx, 1)
	require.NoError(t, err)
	p.Bio = "changed"

	again, err := store.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Bio)
}

func TestMemoryStoreMatchesAreUnordered(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.CreateMatch(ctx, &Match{User1ID: 5, User2ID: 3, MatchedAt: testNow})
	require.NoError(t, err)
	assert.True(t, created)

	m, err := store.FindMatch(ctx, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.User1ID)

	created, err = store.CreateMatch(ctx, NewMatch(3, 5, testNow))
	require.NoError(t, err)
	assert.False(t, created)

	_, err = store.GetInteraction(ctx, 3, 5)
	assert.ErrorIs(t, err, ErrInteractionNotFound)
}
