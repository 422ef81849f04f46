package public

import (
	"context"
	"fmt"
	"testing"

	"neon-bets/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	rankingsCalls int
	rankings      []store.TeamRanking
}

func (f *fakeStorage) ListMatches(_ context.Context, _ string, _, _ int) ([]store.Match, error) {
	return nil, nil
}
func (f *fakeStorage) GetMatch(_ context.Context, _ string) (*store.Match, error) {
	return nil, store.ErrNotFound
}
func (f *fakeStorage) ListTeams(_ context.Context, _, _ int) ([]store.Team, error) { return nil, nil }
func (f *fakeStorage) GetTeam(_ context.Context, _ string) (*store.Team, error) {
	return nil, store.ErrNotFound
}
func (f *fakeStorage) ListTeamRankings(_ context.Context, _ int) ([]store.TeamRanking, error) {
	f.rankingsCalls++
	return f.rankings, nil
}
func (f *fakeStorage) ListGoodies(_ context.Context, _ bool, _, _ int) ([]store.Goodie, error) {
	return nil, nil
}
func (f *fakeStorage) GetGoodie(_ context.Context, _ string) (*store.Goodie, error) {
	return nil, store.ErrNotFound
}

type memCache struct {
	rankings []store.TeamRanking
	has      bool
	sets     int
}

func (c *memCache) GetRankings(_ context.Context) ([]store.TeamRanking, bool) {
	if !c.has {
		return nil, false
	}
	return c.rankings, true
}

func (c *memCache) SetRankings(_ context.Context, rankings []store.TeamRanking) {
	c.rankings, c.has = rankings, true
	c.sets++
}

func TestRankingsFillsCacheOnMiss(t *testing.T) {
	f := &fakeStorage{rankings: []store.TeamRanking{{TeamID: "t1", Name: "Alpha", Wins: 3}}}
	c := &memCache{}
	svc := NewService(f, c)

	got, err := svc.Rankings(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, f.rankingsCalls)
	assert.Equal(t, 1, c.sets)

	// Second call is served from the cache.
	_, err = svc.Rankings(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, f.rankingsCalls)
}

func TestRankingsTrimsCachedResultToLimit(t *testing.T) {
	c := &memCache{
		has: true,
		rankings: []store.TeamRanking{
			{TeamID: "t1", Wins: 5}, {TeamID: "t2", Wins: 3}, {TeamID: "t3", Wins: 1},
		},
	}
	svc := NewService(&fakeStorage{}, c)

	got, err := svc.Rankings(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRankingsCacheHoldsFullListAcrossLimits(t *testing.T) {
	var full []store.TeamRanking
	for i := 0; i < 10; i++ {
		full = append(full, store.TeamRanking{TeamID: fmt.Sprintf("t%d", i)})
	}
	f := &fakeStorage{rankings: full}
	c := &memCache{}
	svc := NewService(f, c)

	// A small request must not shrink the cached leaderboard.
	got, err := svc.Rankings(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Len(t, c.rankings, 10)

	got, err = svc.Rankings(context.Background(), 50)
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.Equal(t, 1, f.rankingsCalls)
}

func TestRankingsWorksWithoutCache(t *testing.T) {
	f := &fakeStorage{rankings: []store.TeamRanking{{TeamID: "t1"}}}
	svc := NewService(f, nil)

	got, err := svc.Rankings(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, f.rankingsCalls)
}
