package shop

import (
	"context"

	"neon-bets/internal/store"
)

const maxQuantityPerPurchase = 100

type Storage interface {
	PurchaseGoodie(ctx context.Context, p store.PurchaseGoodieParams) (*store.Purchase, error)
	ListPurchasesByUser(ctx context.Context, userID string, limit, offset int) ([]store.Purchase, error)
}

type Service struct {
	store Storage
}

func NewService(s Storage) *Service {
	return &Service{store: s}
}

// Purchase buys quantity units of a goodie. Stock and balance checks run
// inside the store transaction, so a rejected purchase charges nothing.
func (s *Service) Purchase(ctx context.Context, userID, goodieID string, quantity int) (*store.Purchase, error) {
	if quantity < 1 || quantity > maxQuantityPerPurchase {
		return nil, ErrInvalidQuantity
	}
	if goodieID == "" {
		return nil, store.ErrNotFound
	}
	return s.store.PurchaseGoodie(ctx, store.PurchaseGoodieParams{
		UserID:   userID,
		GoodieID: goodieID,
		Quantity: quantity,
	})
}

func (s *Service) ListPurchases(ctx context.Context, userID string, limit, offset int) ([]store.Purchase, error) {
	return s.store.ListPurchasesByUser(ctx, userID, limit, offset)
}
