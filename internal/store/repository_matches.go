package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const matchColumns = `m.id, m.team1_id, m.team2_id, t1.name, t2.name,
	m.team1_odds, m.team2_odds, m.status, COALESCE(m.winner_id, ''), m.game_title,
	m.scheduled_at, m.finished_at, m.created_at, m.updated_at`

const matchFrom = ` FROM matches m
	JOIN teams t1 ON t1.id = m.team1_id
	JOIN teams t2 ON t2.id = m.team2_id`

func scanMatch(row interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	err := row.Scan(&m.ID, &m.Team1ID, &m.Team2ID, &m.Team1Name, &m.Team2Name,
		&m.Team1Odds, &m.Team2Odds, &m.Status, &m.WinnerID, &m.GameTitle,
		&m.ScheduledAt, &m.FinishedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

type CreateMatchParams struct {
	Team1ID     string
	Team2ID     string
	Team1Odds   decimal.Decimal
	Team2Odds   decimal.Decimal
	GameTitle   string
	ScheduledAt time.Time
}

func (s *Store) CreateMatch(ctx context.Context, p CreateMatchParams) (*Match, error) {
	var id string
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO matches (id, team1_id, team2_id, team1_odds, team2_odds, game_title, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		NewID(), p.Team1ID, p.Team2ID, p.Team1Odds, p.Team2Odds, p.GameTitle, p.ScheduledAt).Scan(&id)
	if err != nil {
		return nil, mapErr(err)
	}
	return s.GetMatch(ctx, id)
}

func (s *Store) GetMatch(ctx context.Context, id string) (*Match, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+matchColumns+matchFrom+` WHERE m.id = $1`, id)
	return scanMatch(row)
}

// ListMatches returns matches with team names expanded, optionally filtered
// by status, newest scheduled first.
func (s *Store) ListMatches(ctx context.Context, status string, limit, offset int) ([]Match, error) {
	query := `SELECT ` + matchColumns + matchFrom
	args := []any{limit, offset}
	if status != "" {
		query += ` WHERE m.status = $3`
		args = append(args, status)
	}
	query += ` ORDER BY m.scheduled_at DESC LIMIT $1 OFFSET $2`

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, mapErr(rows.Err())
}

type UpdateMatchParams struct {
	Team1Odds   decimal.Decimal
	Team2Odds   decimal.Decimal
	Status      string
	GameTitle   string
	ScheduledAt time.Time
}

// UpdateMatch edits a match that has not been settled. Status is
// forward-only, upcoming may become live but not the reverse; finishing a
// match goes through SettleMatch so bets are always paid out.
func (s *Store) UpdateMatch(ctx context.Context, id string, p UpdateMatchParams) (*Match, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE matches
		SET team1_odds = $2, team2_odds = $3, status = $4, game_title = $5,
		    scheduled_at = $6, updated_at = now()
		WHERE id = $1 AND status <> 'finished'
		  AND NOT (status = 'live' AND $4 = 'upcoming')`,
		id, p.Team1Odds, p.Team2Odds, p.Status, p.GameTitle, p.ScheduledAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		m, err := s.GetMatch(ctx, id)
		if err != nil {
			return nil, err
		}
		if m.Status == MatchFinished {
			return nil, ErrAlreadySettled
		}
		if m.Status == MatchLive && p.Status == MatchUpcoming {
			return nil, ErrConflict
		}
		return nil, ErrNotFound
	}
	return s.GetMatch(ctx, id)
}

// DeleteMatch refuses to remove a match that has pending bets.
func (s *Store) DeleteMatch(ctx context.Context, id string) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var pending int
	err = tx.QueryRow(ctx, `SELECT count(*) FROM bets WHERE match_id = $1 AND status = 'pending'`, id).Scan(&pending)
	if err != nil {
		return mapErr(err)
	}
	if pending > 0 {
		return ErrConflict
	}
	tag, err := tx.Exec(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return mapErr(tx.Commit(ctx))
}

// ActivateDueMatches flips upcoming matches whose scheduled time has passed
// to live. Run periodically by the scheduler.
func (s *Store) ActivateDueMatches(ctx context.Context) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE matches SET status = 'live', updated_at = now()
		WHERE status = 'upcoming' AND scheduled_at <= now()`)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}

// SettleMatch finishes a match and resolves every pending bet on it in one
// transaction. The match row is locked first, so a second settlement of the
// same match waits and then fails with ErrAlreadySettled, and bet placement
// on the match cannot interleave. Winners are credited their frozen
// potential win; each payout appends a ledger entry. Users are processed in
// id order so two settlements touching the same users cannot deadlock.
func (s *Store) SettleMatch(ctx context.Context, matchID, winnerID string) (*SettlementResult, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var team1, team2, status string
	err = tx.QueryRow(ctx, `
		SELECT team1_id, team2_id, status FROM matches
		WHERE id = $1 FOR UPDATE`, matchID).Scan(&team1, &team2, &status)
	if err != nil {
		return nil, mapErr(err)
	}
	if status == MatchFinished {
		return nil, ErrAlreadySettled
	}
	if winnerID != team1 && winnerID != team2 {
		return nil, ErrInvalidSelection
	}
	loserID := team1
	if winnerID == team1 {
		loserID = team2
	}

	_, err = tx.Exec(ctx, `
		UPDATE matches SET status = 'finished', winner_id = $2, finished_at = now(), updated_at = now()
		WHERE id = $1`, matchID, winnerID)
	if err != nil {
		return nil, mapErr(err)
	}
	_, err = tx.Exec(ctx, `UPDATE teams SET wins = wins + 1, updated_at = now() WHERE id = $1`, winnerID)
	if err != nil {
		return nil, mapErr(err)
	}
	_, err = tx.Exec(ctx, `UPDATE teams SET losses = losses + 1, updated_at = now() WHERE id = $1`, loserID)
	if err != nil {
		return nil, mapErr(err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, user_id, team_id, potential_win FROM bets
		WHERE match_id = $1 AND status = 'pending'
		ORDER BY user_id, id
		FOR UPDATE`, matchID)
	if err != nil {
		return nil, mapErr(err)
	}
	type pendingBet struct {
		id, userID, teamID string
		potentialWin       decimal.Decimal
	}
	var pending []pendingBet
	for rows.Next() {
		var b pendingBet
		if err := rows.Scan(&b.id, &b.userID, &b.teamID, &b.potentialWin); err != nil {
			rows.Close()
			return nil, mapErr(err)
		}
		pending = append(pending, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}

	res := &SettlementResult{MatchID: matchID, WinnerID: winnerID, Paid: decimal.Zero}
	for _, b := range pending {
		if b.teamID != winnerID {
			_, err = tx.Exec(ctx, `UPDATE bets SET status = 'lost', updated_at = now() WHERE id = $1`, b.id)
			if err != nil {
				return nil, mapErr(err)
			}
			res.LostBets++
			continue
		}
		_, err = tx.Exec(ctx, `UPDATE bets SET status = 'won', updated_at = now() WHERE id = $1`, b.id)
		if err != nil {
			return nil, mapErr(err)
		}
		_, err = tx.Exec(ctx, `UPDATE users SET balance = balance + $2, updated_at = now() WHERE id = $1`,
			b.userID, b.potentialWin)
		if err != nil {
			return nil, mapErr(err)
		}
		if err := insertTransaction(ctx, tx, b.userID, TxWin, b.potentialWin, "bet", b.id); err != nil {
			return nil, err
		}
		res.WonBets++
		res.Paid = res.Paid.Add(b.potentialWin)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapErr(err)
	}
	return res, nil
}
