package wallet

import (
	"context"

	"neon-bets/internal/store"

	"github.com/shopspring/decimal"
)

type Storage interface {
	AdjustBalance(ctx context.Context, userID, txType string, delta decimal.Decimal) (decimal.Decimal, error)
	ListTransactions(ctx context.Context, f store.LedgerFilter) ([]store.Transaction, error)
	ReconcileAccounts(ctx context.Context) ([]store.ReconcileRow, error)
}

type Service struct {
	store Storage
}

func NewService(s Storage) *Service {
	return &Service{store: s}
}

// Deposit credits an account and returns the new balance.
func (s *Service) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !validAmount(amount) {
		return decimal.Zero, ErrInvalidAmount
	}
	return s.store.AdjustBalance(ctx, userID, store.TxDeposit, amount)
}

// Withdraw debits an account. A withdrawal past the balance fails with
// store.ErrInsufficientFunds and moves nothing.
func (s *Service) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !validAmount(amount) {
		return decimal.Zero, ErrInvalidAmount
	}
	return s.store.AdjustBalance(ctx, userID, store.TxWithdrawal, amount.Neg())
}

// Transactions lists a user's ledger entries, newest first.
func (s *Service) Transactions(ctx context.Context, userID, txType string, limit, offset int) ([]store.Transaction, error) {
	return s.store.ListTransactions(ctx, store.LedgerFilter{
		UserID: userID,
		Type:   txType,
		Limit:  limit,
		Offset: offset,
	})
}

// Reconcile returns every account whose balance has drifted from the sum
// of its ledger entries. Under correct operation the result is empty.
func (s *Service) Reconcile(ctx context.Context) ([]store.ReconcileRow, error) {
	return s.store.ReconcileAccounts(ctx)
}

func validAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.Equal(amount.Round(2))
}
