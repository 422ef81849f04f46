package store

import (
	"context"

	"github.com/shopspring/decimal"
)

const userColumns = `id, email, username, password_hash, role, balance, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.Balance, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// CreateUser registers an account with the given starting credits and writes
// the matching signup deposit to the ledger, so a fresh account already
// reconciles.
func (s *Store) CreateUser(ctx context.Context, email, username, passwordHash, role string, startingCredits decimal.Decimal) (*User, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	id := NewID()
	row := tx.QueryRow(ctx, `
		INSERT INTO users (id, email, username, password_hash, role, balance)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		id, email, username, passwordHash, role, startingCredits)
	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}

	if startingCredits.IsPositive() {
		if err := insertTransaction(ctx, tx, u.ID, TxDeposit, startingCredits, "signup", u.ID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*User, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, mapErr(rows.Err())
}

func (s *Store) UpdateUserRole(ctx context.Context, id, role string) (*User, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE users SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns, id, role)
	return scanUser(row)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustBalance moves credits in or out of an account. The user row is
// locked for the duration, the balance may not go negative, and the ledger
// entry carrying delta is written in the same transaction.
func (s *Store) AdjustBalance(ctx context.Context, userID, txType string, delta decimal.Decimal) (decimal.Decimal, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback(ctx)

	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		return decimal.Zero, mapErr(err)
	}

	newBalance := balance.Add(delta)
	if newBalance.IsNegative() {
		return decimal.Zero, ErrInsufficientFunds
	}

	_, err = tx.Exec(ctx, `UPDATE users SET balance = $2, updated_at = now() WHERE id = $1`, userID, newBalance)
	if err != nil {
		return decimal.Zero, mapErr(err)
	}
	if err := insertTransaction(ctx, tx, userID, txType, delta, "wallet", ""); err != nil {
		return decimal.Zero, err
	}
	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, mapErr(err)
	}
	return newBalance, nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, mapErr(err)
}
