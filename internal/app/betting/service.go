package betting

import (
	"context"

	"neon-bets/internal/store"

	"github.com/shopspring/decimal"
)

type Storage interface {
	PlaceBet(ctx context.Context, p store.PlaceBetParams) (*store.Bet, error)
	ListBetsByUser(ctx context.Context, userID, status string, limit, offset int) ([]store.Bet, error)
	GetBetStats(ctx context.Context, userID string) (*store.BetStats, error)
}

type Service struct {
	store Storage
}

func NewService(s Storage) *Service {
	return &Service{store: s}
}

// Place stakes amount on teamID in matchID for the user. The stake must be
// a positive amount with at most two decimal places; everything else is
// enforced inside the store transaction against the locked match and user
// rows.
func (s *Service) Place(ctx context.Context, userID, matchID, teamID string, amount decimal.Decimal) (*store.Bet, error) {
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return nil, ErrInvalidAmount
	}
	if matchID == "" || teamID == "" {
		return nil, store.ErrInvalidSelection
	}
	return s.store.PlaceBet(ctx, store.PlaceBetParams{
		UserID:  userID,
		MatchID: matchID,
		TeamID:  teamID,
		Amount:  amount,
	})
}

func (s *Service) List(ctx context.Context, userID, status string, limit, offset int) ([]store.Bet, error) {
	return s.store.ListBetsByUser(ctx, userID, status, limit, offset)
}

func (s *Service) Stats(ctx context.Context, userID string) (*store.BetStats, error) {
	return s.store.GetBetStats(ctx, userID)
}
