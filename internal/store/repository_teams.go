package store

import "context"

const teamColumns = `id, name, description, wins, losses, created_at, updated_at`

func scanTeam(row interface{ Scan(...any) error }) (*Team, error) {
	var t Team
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Wins, &t.Losses, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

func (s *Store) CreateTeam(ctx context.Context, name, description string) (*Team, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO teams (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING `+teamColumns, NewID(), name, description)
	return scanTeam(row)
}

func (s *Store) GetTeam(ctx context.Context, id string) (*Team, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)
	return scanTeam(row)
}

func (s *Store) ListTeams(ctx context.Context, limit, offset int) ([]Team, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+teamColumns+` FROM teams
		ORDER BY name
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	return teams, mapErr(rows.Err())
}

func (s *Store) UpdateTeam(ctx context.Context, id, name, description string) (*Team, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE teams SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+teamColumns, id, name, description)
	return scanTeam(row)
}

func (s *Store) DeleteTeam(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTeamRankings orders teams by wins, then fewest losses, then name so
// the ordering is stable.
func (s *Store) ListTeamRankings(ctx context.Context, limit int) ([]TeamRanking, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, wins, losses FROM teams
		ORDER BY wins DESC, losses ASC, name
		LIMIT $1`, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var rankings []TeamRanking
	for rows.Next() {
		var r TeamRanking
		if err := rows.Scan(&r.TeamID, &r.Name, &r.Wins, &r.Losses); err != nil {
			return nil, mapErr(err)
		}
		if played := r.Wins + r.Losses; played > 0 {
			r.WinRate = float64(r.Wins) / float64(played)
		}
		rankings = append(rankings, r)
	}
	return rankings, mapErr(rows.Err())
}
