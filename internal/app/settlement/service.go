package settlement

import (
	"context"

	"neon-bets/internal/store"

	"github.com/rs/zerolog/log"
)

type Storage interface {
	SettleMatch(ctx context.Context, matchID, winnerID string) (*store.SettlementResult, error)
}

// Invalidator drops derived caches once results change. The rankings cache
// implements it; a nil Invalidator is a no-op.
type Invalidator interface {
	InvalidateRankings(ctx context.Context) error
}

type Service struct {
	store Storage
	cache Invalidator
}

func NewService(s Storage, cache Invalidator) *Service {
	return &Service{store: s, cache: cache}
}

// Settle finishes a match exactly once: the winner is recorded, team
// records updated, every pending bet on the match resolved and winners
// paid, all in a single store transaction. Repeat calls fail with
// store.ErrAlreadySettled and move no money.
func (s *Service) Settle(ctx context.Context, matchID, winnerID string) (*store.SettlementResult, error) {
	if matchID == "" || winnerID == "" {
		return nil, store.ErrInvalidSelection
	}
	res, err := s.store.SettleMatch(ctx, matchID, winnerID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateRankings(ctx); err != nil {
			log.Warn().Err(err).Msg("rankings cache invalidation failed")
		}
	}
	log.Info().
		Str("match_id", res.MatchID).
		Str("winner_id", res.WinnerID).
		Int("won_bets", res.WonBets).
		Int("lost_bets", res.LostBets).
		Str("paid", res.Paid.String()).
		Msg("match settled")
	return res, nil
}
