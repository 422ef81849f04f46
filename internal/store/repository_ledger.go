package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// insertTransaction appends one signed ledger entry inside the caller's
// transaction. The ledger is append-only: rows are never updated or
// deleted by application code.
func insertTransaction(ctx context.Context, tx pgx.Tx, userID, txType string, amount decimal.Decimal, refType, refID string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, status, ref_type, ref_id)
		VALUES ($1, $2, $3, $4, 'completed', $5, $6)`,
		NewID(), userID, txType, amount, refType, refID)
	return mapErr(err)
}

type LedgerFilter struct {
	UserID string
	Type   string
	Limit  int
	Offset int
}

// ListTransactions returns ledger entries newest first. UserID and Type
// filters are optional.
func (s *Store) ListTransactions(ctx context.Context, f LedgerFilter) ([]Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, status, ref_type, ref_id, created_at
		FROM transactions`
	args := []any{f.Limit, f.Offset}
	var conds []string
	if f.UserID != "" {
		args = append(args, f.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var entries []Transaction
	for rows.Next() {
		var t Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status, &t.RefType, &t.RefID, &t.CreatedAt)
		if err != nil {
			return nil, mapErr(err)
		}
		entries = append(entries, t)
	}
	return entries, mapErr(rows.Err())
}

// ReconcileAccounts reports accounts whose balance disagrees with the sum
// of their completed ledger entries. A healthy system returns no rows.
func (s *Store) ReconcileAccounts(ctx context.Context) ([]ReconcileRow, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT u.id, u.username, u.balance, COALESCE(SUM(t.amount), 0)
		FROM users u
		LEFT JOIN transactions t ON t.user_id = u.id AND t.status = 'completed'
		GROUP BY u.id, u.username, u.balance
		HAVING u.balance <> COALESCE(SUM(t.amount), 0)
		ORDER BY u.id`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var drift []ReconcileRow
	for rows.Next() {
		var r ReconcileRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.Balance, &r.LedgerTotal); err != nil {
			return nil, mapErr(err)
		}
		drift = append(drift, r)
	}
	return drift, mapErr(rows.Err())
}
