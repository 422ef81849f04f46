package store

import (
	"context"

	"github.com/shopspring/decimal"
)

const goodieColumns = `id, name, description, price, stock, created_at, updated_at`

func scanGoodie(row interface{ Scan(...any) error }) (*Goodie, error) {
	var g Goodie
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Price, &g.Stock, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &g, nil
}

func (s *Store) CreateGoodie(ctx context.Context, name, description string, price decimal.Decimal, stock int) (*Goodie, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO goodies (id, name, description, price, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+goodieColumns, NewID(), name, description, price, stock)
	return scanGoodie(row)
}

func (s *Store) GetGoodie(ctx context.Context, id string) (*Goodie, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+goodieColumns+` FROM goodies WHERE id = $1`, id)
	return scanGoodie(row)
}

func (s *Store) ListGoodies(ctx context.Context, inStockOnly bool, limit, offset int) ([]Goodie, error) {
	query := `SELECT ` + goodieColumns + ` FROM goodies`
	if inStockOnly {
		query += ` WHERE stock > 0`
	}
	query += ` ORDER BY price, name LIMIT $1 OFFSET $2`

	rows, err := s.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var goodies []Goodie
	for rows.Next() {
		g, err := scanGoodie(rows)
		if err != nil {
			return nil, err
		}
		goodies = append(goodies, *g)
	}
	return goodies, mapErr(rows.Err())
}

func (s *Store) UpdateGoodie(ctx context.Context, id, name, description string, price decimal.Decimal, stock int) (*Goodie, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE goodies SET name = $2, description = $3, price = $4, stock = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+goodieColumns, id, name, description, price, stock)
	return scanGoodie(row)
}

func (s *Store) DeleteGoodie(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM goodies WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type PurchaseGoodieParams struct {
	UserID   string
	GoodieID string
	Quantity int
}

// PurchaseGoodie buys stock in one transaction. The user row is locked
// before the goodie row, matching the lock order used everywhere else.
// Stock is checked under the lock, so two buyers racing for the last item
// serialize and the loser gets ErrOutOfStock with nothing charged.
func (s *Store) PurchaseGoodie(ctx context.Context, p PurchaseGoodieParams) (*Purchase, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, p.UserID).Scan(&balance)
	if err != nil {
		return nil, mapErr(err)
	}

	var name string
	var price decimal.Decimal
	var stock int
	err = tx.QueryRow(ctx, `SELECT name, price, stock FROM goodies WHERE id = $1 FOR UPDATE`, p.GoodieID).
		Scan(&name, &price, &stock)
	if err != nil {
		return nil, mapErr(err)
	}
	if stock < p.Quantity {
		return nil, ErrOutOfStock
	}

	total := price.Mul(decimal.NewFromInt(int64(p.Quantity)))
	if balance.LessThan(total) {
		return nil, ErrInsufficientFunds
	}

	_, err = tx.Exec(ctx, `UPDATE goodies SET stock = stock - $2, updated_at = now() WHERE id = $1`,
		p.GoodieID, p.Quantity)
	if err != nil {
		return nil, mapErr(err)
	}
	_, err = tx.Exec(ctx, `UPDATE users SET balance = balance - $2, updated_at = now() WHERE id = $1`,
		p.UserID, total)
	if err != nil {
		return nil, mapErr(err)
	}

	var pu Purchase
	err = tx.QueryRow(ctx, `
		INSERT INTO purchases (id, user_id, goodie_id, quantity, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, goodie_id, quantity, total_price, created_at`,
		NewID(), p.UserID, p.GoodieID, p.Quantity, total).
		Scan(&pu.ID, &pu.UserID, &pu.GoodieID, &pu.Quantity, &pu.TotalPrice, &pu.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	pu.GoodieName = name

	if err := insertTransaction(ctx, tx, p.UserID, TxPurchase, total.Neg(), "purchase", pu.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapErr(err)
	}
	return &pu, nil
}

func (s *Store) ListPurchasesByUser(ctx context.Context, userID string, limit, offset int) ([]Purchase, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT p.id, p.user_id, p.goodie_id, g.name, p.quantity, p.total_price, p.created_at
		FROM purchases p
		JOIN goodies g ON g.id = p.goodie_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var purchases []Purchase
	for rows.Next() {
		var pu Purchase
		err := rows.Scan(&pu.ID, &pu.UserID, &pu.GoodieID, &pu.GoodieName, &pu.Quantity, &pu.TotalPrice, &pu.CreatedAt)
		if err != nil {
			return nil, mapErr(err)
		}
		purchases = append(purchases, pu)
	}
	return purchases, mapErr(rows.Err())
}
