package public

import (
	"context"

	"neon-bets/internal/store"

	"github.com/rs/zerolog/log"
)

type Storage interface {
	ListMatches(ctx context.Context, status string, limit, offset int) ([]store.Match, error)
	GetMatch(ctx context.Context, id string) (*store.Match, error)
	ListTeams(ctx context.Context, limit, offset int) ([]store.Team, error)
	GetTeam(ctx context.Context, id string) (*store.Team, error)
	ListTeamRankings(ctx context.Context, limit int) ([]store.TeamRanking, error)
	ListGoodies(ctx context.Context, inStockOnly bool, limit, offset int) ([]store.Goodie, error)
	GetGoodie(ctx context.Context, id string) (*store.Goodie, error)
}

// RankingsCache sits in front of the rankings query. A nil cache disables
// caching without changing behavior.
type RankingsCache interface {
	GetRankings(ctx context.Context) ([]store.TeamRanking, bool)
	SetRankings(ctx context.Context, rankings []store.TeamRanking)
}

type Service struct {
	store Storage
	cache RankingsCache
}

func NewService(s Storage, cache RankingsCache) *Service {
	return &Service{store: s, cache: cache}
}

func (s *Service) Matches(ctx context.Context, status string, limit, offset int) ([]store.Match, error) {
	return s.store.ListMatches(ctx, status, limit, offset)
}

func (s *Service) Match(ctx context.Context, id string) (*store.Match, error) {
	return s.store.GetMatch(ctx, id)
}

func (s *Service) Teams(ctx context.Context, limit, offset int) ([]store.Team, error) {
	return s.store.ListTeams(ctx, limit, offset)
}

func (s *Service) Team(ctx context.Context, id string) (*store.Team, error) {
	return s.store.GetTeam(ctx, id)
}

// rankingsFetchLimit bounds the leaderboard query. The cache always holds
// the full list so one entry serves every requested limit.
const rankingsFetchLimit = 500

// Rankings serves the team leaderboard, preferring the cache when one is
// configured. Settlement invalidates the cache, so a miss after a result
// lands refreshes within one request.
func (s *Service) Rankings(ctx context.Context, limit int) ([]store.TeamRanking, error) {
	if s.cache != nil {
		if rankings, ok := s.cache.GetRankings(ctx); ok {
			return trimRankings(rankings, limit), nil
		}
	}
	rankings, err := s.store.ListTeamRankings(ctx, rankingsFetchLimit)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetRankings(ctx, rankings)
		log.Debug().Int("teams", len(rankings)).Msg("rankings cache refreshed")
	}
	return trimRankings(rankings, limit), nil
}

func trimRankings(rankings []store.TeamRanking, limit int) []store.TeamRanking {
	if limit > 0 && len(rankings) > limit {
		return rankings[:limit]
	}
	return rankings
}

func (s *Service) Goodies(ctx context.Context, inStockOnly bool, limit, offset int) ([]store.Goodie, error) {
	return s.store.ListGoodies(ctx, inStockOnly, limit, offset)
}

func (s *Service) Goodie(ctx context.Context, id string) (*store.Goodie, error) {
	return s.store.GetGoodie(ctx, id)
}
