package store

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"

	MatchUpcoming = "upcoming"
	MatchLive     = "live"
	MatchFinished = "finished"

	BetPending = "pending"
	BetWon     = "won"
	BetLost    = "lost"

	TxDeposit    = "deposit"
	TxWithdrawal = "withdrawal"
	TxBet        = "bet"
	TxWin        = "win"
	TxPurchase   = "purchase"
)

type User struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	Username     string          `json:"username"`
	PasswordHash string          `json:"-"`
	Role         string          `json:"role"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Match struct {
	ID          string          `json:"id"`
	Team1ID     string          `json:"team1_id"`
	Team2ID     string          `json:"team2_id"`
	Team1Name   string          `json:"team1_name,omitempty"`
	Team2Name   string          `json:"team2_name,omitempty"`
	Team1Odds   decimal.Decimal `json:"team1_odds"`
	Team2Odds   decimal.Decimal `json:"team2_odds"`
	Status      string          `json:"status"`
	WinnerID    string          `json:"winner_id,omitempty"`
	GameTitle   string          `json:"game_title,omitempty"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	FinishedAt  *time.Time      `json:"finished_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Bet struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	MatchID      string          `json:"match_id"`
	TeamID       string          `json:"team_id"`
	TeamName     string          `json:"team_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	PotentialWin decimal.Decimal `json:"potential_win"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type Goodie struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Purchase struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	GoodieID   string          `json:"goodie_id"`
	GoodieName string          `json:"goodie_name,omitempty"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Transaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	RefType   string          `json:"ref_type,omitempty"`
	RefID     string          `json:"ref_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type TeamRanking struct {
	TeamID  string  `json:"team_id"`
	Name    string  `json:"name"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"`
}

// SettlementResult summarizes one settleMatch run.
type SettlementResult struct {
	MatchID  string          `json:"match_id"`
	WinnerID string          `json:"winner_id"`
	WonBets  int             `json:"won_bets"`
	LostBets int             `json:"lost_bets"`
	Paid     decimal.Decimal `json:"paid"`
}

// ReconcileRow is one account whose balance disagrees with its ledger.
type ReconcileRow struct {
	UserID      string          `json:"user_id"`
	Username    string          `json:"username"`
	Balance     decimal.Decimal `json:"balance"`
	LedgerTotal decimal.Decimal `json:"ledger_total"`
}

type BetStats struct {
	Total     int             `json:"total"`
	Pending   int             `json:"pending"`
	Won       int             `json:"won"`
	Lost      int             `json:"lost"`
	TotalWon  decimal.Decimal `json:"total_won"`
	TotalLost decimal.Decimal `json:"total_lost"`
}
