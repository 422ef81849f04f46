package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"neon-bets/internal/app/wallet"

	"github.com/shopspring/decimal"
)

type WalletHandlers struct {
	walletSvc *wallet.Service
}

func NewWalletHandlers(walletSvc *wallet.Service) *WalletHandlers {
	return &WalletHandlers{walletSvc: walletSvc}
}

func (h *WalletHandlers) Deposit() http.HandlerFunc {
	return h.adjust(h.walletSvc.Deposit)
}

func (h *WalletHandlers) Withdraw() http.HandlerFunc {
	return h.adjust(h.walletSvc.Withdraw)
}

func (h *WalletHandlers) adjust(op func(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var body struct {
			Amount decimal.Decimal `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		balance, err := op(r.Context(), user.ID, body.Amount)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"balance": balance})
	}
}

func (h *WalletHandlers) Transactions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		limit, offset := ParsePagination(r)
		entries, err := h.walletSvc.Transactions(r.Context(), user.ID, r.URL.Query().Get("type"), limit, offset)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": entries, "limit": limit, "offset": offset})
	}
}
