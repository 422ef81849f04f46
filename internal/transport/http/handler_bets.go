package httptransport

import (
	"encoding/json"
	"net/http"

	"neon-bets/internal/app/betting"

	"github.com/shopspring/decimal"
)

type BetHandlers struct {
	betSvc *betting.Service
}

func NewBetHandlers(betSvc *betting.Service) *BetHandlers {
	return &BetHandlers{betSvc: betSvc}
}

func (h *BetHandlers) Place() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		var body struct {
			MatchID string          `json:"match_id"`
			TeamID  string          `json:"team_id"`
			Amount  decimal.Decimal `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		bet, err := h.betSvc.Place(r.Context(), user.ID, body.MatchID, body.TeamID, body.Amount)
		if err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(bet)
	}
}

func (h *BetHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		limit, offset := ParsePagination(r)
		bets, err := h.betSvc.List(r.Context(), user.ID, r.URL.Query().Get("status"), limit, offset)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": bets, "limit": limit, "offset": offset})
	}
}

func (h *BetHandlers) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		stats, err := h.betSvc.Stats(r.Context(), user.ID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(stats)
	}
}
