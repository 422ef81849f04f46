package admin

import (
	"context"
	"strings"
	"time"

	"neon-bets/internal/store"

	"github.com/shopspring/decimal"
)

var oneDecimal = decimal.NewFromInt(1)

type Storage interface {
	CreateTeam(ctx context.Context, name, description string) (*store.Team, error)
	UpdateTeam(ctx context.Context, id, name, description string) (*store.Team, error)
	DeleteTeam(ctx context.Context, id string) error

	CreateMatch(ctx context.Context, p store.CreateMatchParams) (*store.Match, error)
	UpdateMatch(ctx context.Context, id string, p store.UpdateMatchParams) (*store.Match, error)
	DeleteMatch(ctx context.Context, id string) error

	CreateGoodie(ctx context.Context, name, description string, price decimal.Decimal, stock int) (*store.Goodie, error)
	UpdateGoodie(ctx context.Context, id, name, description string, price decimal.Decimal, stock int) (*store.Goodie, error)
	DeleteGoodie(ctx context.Context, id string) error

	ListUsers(ctx context.Context, limit, offset int) ([]store.User, error)
	UpdateUserRole(ctx context.Context, id, role string) (*store.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListTransactions(ctx context.Context, f store.LedgerFilter) ([]store.Transaction, error)
}

type Service struct {
	store Storage
}

func NewService(s Storage) *Service {
	return &Service{store: s}
}

func (s *Service) CreateTeam(ctx context.Context, name, description string) (*store.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	return s.store.CreateTeam(ctx, name, description)
}

func (s *Service) UpdateTeam(ctx context.Context, id, name, description string) (*store.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	return s.store.UpdateTeam(ctx, id, name, description)
}

func (s *Service) DeleteTeam(ctx context.Context, id string) error {
	return s.store.DeleteTeam(ctx, id)
}

type MatchInput struct {
	Team1ID     string
	Team2ID     string
	Team1Odds   decimal.Decimal
	Team2Odds   decimal.Decimal
	GameTitle   string
	ScheduledAt time.Time
}

func validateOdds(odds1, odds2 decimal.Decimal) error {
	if odds1.LessThan(oneDecimal) || odds2.LessThan(oneDecimal) {
		return ErrInvalidOdds
	}
	return nil
}

func (s *Service) CreateMatch(ctx context.Context, in MatchInput) (*store.Match, error) {
	if in.Team1ID == "" || in.Team2ID == "" || in.Team1ID == in.Team2ID {
		return nil, ErrInvalidTeams
	}
	if err := validateOdds(in.Team1Odds, in.Team2Odds); err != nil {
		return nil, err
	}
	return s.store.CreateMatch(ctx, store.CreateMatchParams{
		Team1ID:     in.Team1ID,
		Team2ID:     in.Team2ID,
		Team1Odds:   in.Team1Odds,
		Team2Odds:   in.Team2Odds,
		GameTitle:   in.GameTitle,
		ScheduledAt: in.ScheduledAt,
	})
}

// UpdateMatch edits odds, schedule or status of an unsettled match. Only
// upcoming and live are accepted here; finished is reachable solely through
// settlement.
func (s *Service) UpdateMatch(ctx context.Context, id string, odds1, odds2 decimal.Decimal, status, gameTitle string, scheduledAt time.Time) (*store.Match, error) {
	if status != store.MatchUpcoming && status != store.MatchLive {
		return nil, ErrInvalidStatus
	}
	if err := validateOdds(odds1, odds2); err != nil {
		return nil, err
	}
	return s.store.UpdateMatch(ctx, id, store.UpdateMatchParams{
		Team1Odds:   odds1,
		Team2Odds:   odds2,
		Status:      status,
		GameTitle:   gameTitle,
		ScheduledAt: scheduledAt,
	})
}

func (s *Service) DeleteMatch(ctx context.Context, id string) error {
	return s.store.DeleteMatch(ctx, id)
}

func (s *Service) CreateGoodie(ctx context.Context, name, description string, price decimal.Decimal, stock int) (*store.Goodie, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	return s.store.CreateGoodie(ctx, strings.TrimSpace(name), description, price, stock)
}

func (s *Service) UpdateGoodie(ctx context.Context, id, name, description string, price decimal.Decimal, stock int) (*store.Goodie, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	return s.store.UpdateGoodie(ctx, id, strings.TrimSpace(name), description, price, stock)
}

func (s *Service) DeleteGoodie(ctx context.Context, id string) error {
	return s.store.DeleteGoodie(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]store.User, error) {
	return s.store.ListUsers(ctx, limit, offset)
}

func (s *Service) UpdateUserRole(ctx context.Context, id, role string) (*store.User, error) {
	switch role {
	case store.RoleUser, store.RoleModerator, store.RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}
	return s.store.UpdateUserRole(ctx, id, role)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.store.DeleteUser(ctx, id)
}

// Ledger lists ledger entries across all users, with optional user and
// type filters.
func (s *Service) Ledger(ctx context.Context, userID, txType string, limit, offset int) ([]store.Transaction, error) {
	return s.store.ListTransactions(ctx, store.LedgerFilter{
		UserID: userID,
		Type:   txType,
		Limit:  limit,
		Offset: offset,
	})
}
