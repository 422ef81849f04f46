package httptransport

import (
	"encoding/json"
	"net/http"

	"neon-bets/internal/app/shop"

	"github.com/go-chi/chi/v5"
)

type ShopHandlers struct {
	shopSvc *shop.Service
}

func NewShopHandlers(shopSvc *shop.Service) *ShopHandlers {
	return &ShopHandlers{shopSvc: shopSvc}
}

func (h *ShopHandlers) Purchase() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var body struct {
			Quantity int `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.Quantity == 0 {
			body.Quantity = 1
		}
		purchase, err := h.shopSvc.Purchase(r.Context(), user.ID, chi.URLParam(r, "goodie_id"), body.Quantity)
		if err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(purchase)
	}
}

func (h *ShopHandlers) Purchases() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		limit, offset := ParsePagination(r)
		purchases, err := h.shopSvc.ListPurchases(r.Context(), user.ID, limit, offset)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": purchases, "limit": limit, "offset": offset})
	}
}
