package store

import (
	"context"
	"time"
)

func (s *Store) CreateSession(ctx context.Context, userID, tokenHash string, ttl time.Duration) (*Session, error) {
	var sess Session
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO sessions (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, token_hash, expires_at, created_at`,
		NewID(), userID, tokenHash, time.Now().Add(ttl)).
		Scan(&sess.ID, &sess.UserID, &sess.TokenHash, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &sess, nil
}

// GetUserBySessionToken resolves a live session to its user. Expired
// sessions behave as if absent.
func (s *Store) GetUserBySessionToken(ctx context.Context, tokenHash string) (*User, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.username, u.password_hash, u.role, u.balance, u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = $1 AND s.expires_at > now()`, tokenHash)
	return scanUser(row)
}

func (s *Store) DeleteSessionByToken(ctx context.Context, tokenHash string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	return mapErr(err)
}

// DeleteExpiredSessions is run periodically by the scheduler.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}
