package store

import (
	"context"

	"github.com/shopspring/decimal"
)

type PlaceBetParams struct {
	UserID  string
	MatchID string
	TeamID  string
	Amount  decimal.Decimal
}

// PlaceBet stakes credits on a team in one transaction: the match row is
// locked first (so settlement cannot interleave), then the user row. The
// potential win is frozen at the locked odds, the stake leaves the balance,
// and the ledger entry referencing the bet is appended. If anything fails,
// nothing moved.
func (s *Store) PlaceBet(ctx context.Context, p PlaceBetParams) (*Bet, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var team1, team2, status string
	var odds1, odds2 decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT team1_id, team2_id, team1_odds, team2_odds, status
		FROM matches WHERE id = $1 FOR UPDATE`, p.MatchID).
		Scan(&team1, &team2, &odds1, &odds2, &status)
	if err != nil {
		return nil, mapErr(err)
	}
	if status == MatchFinished {
		return nil, ErrMatchClosed
	}

	var odds decimal.Decimal
	switch p.TeamID {
	case team1:
		odds = odds1
	case team2:
		odds = odds2
	default:
		return nil, ErrInvalidSelection
	}

	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, p.UserID).Scan(&balance)
	if err != nil {
		return nil, mapErr(err)
	}
	if balance.LessThan(p.Amount) {
		return nil, ErrInsufficientFunds
	}

	_, err = tx.Exec(ctx, `UPDATE users SET balance = balance - $2, updated_at = now() WHERE id = $1`,
		p.UserID, p.Amount)
	if err != nil {
		return nil, mapErr(err)
	}

	potentialWin := p.Amount.Mul(odds).Round(2)
	var b Bet
	err = tx.QueryRow(ctx, `
		INSERT INTO bets (id, user_id, match_id, team_id, amount, potential_win)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, match_id, team_id, amount, potential_win, status, created_at, updated_at`,
		NewID(), p.UserID, p.MatchID, p.TeamID, p.Amount, potentialWin).
		Scan(&b.ID, &b.UserID, &b.MatchID, &b.TeamID, &b.Amount, &b.PotentialWin, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if err := insertTransaction(ctx, tx, p.UserID, TxBet, p.Amount.Neg(), "bet", b.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

// ListBetsByUser returns a user's bets newest first, optionally filtered by
// status, with the picked team's name expanded.
func (s *Store) ListBetsByUser(ctx context.Context, userID, status string, limit, offset int) ([]Bet, error) {
	query := `
		SELECT b.id, b.user_id, b.match_id, b.team_id, t.name, b.amount, b.potential_win,
		       b.status, b.created_at, b.updated_at
		FROM bets b
		JOIN teams t ON t.id = b.team_id
		WHERE b.user_id = $1`
	args := []any{userID, limit, offset}
	if status != "" {
		query += ` AND b.status = $4`
		args = append(args, status)
	}
	query += ` ORDER BY b.created_at DESC LIMIT $2 OFFSET $3`

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var bets []Bet
	for rows.Next() {
		var b Bet
		err := rows.Scan(&b.ID, &b.UserID, &b.MatchID, &b.TeamID, &b.TeamName, &b.Amount,
			&b.PotentialWin, &b.Status, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, mapErr(err)
		}
		bets = append(bets, b)
	}
	return bets, mapErr(rows.Err())
}

// GetBetStats aggregates a user's betting record. Won totals count the full
// payout, lost totals the stake.
func (s *Store) GetBetStats(ctx context.Context, userID string) (*BetStats, error) {
	var st BetStats
	err := s.Pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'pending'),
		       count(*) FILTER (WHERE status = 'won'),
		       count(*) FILTER (WHERE status = 'lost'),
		       COALESCE(SUM(potential_win) FILTER (WHERE status = 'won'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'lost'), 0)
		FROM bets WHERE user_id = $1`, userID).
		Scan(&st.Total, &st.Pending, &st.Won, &st.Lost, &st.TotalWon, &st.TotalLost)
	if err != nil {
		return nil, mapErr(err)
	}
	return &st, nil
}
