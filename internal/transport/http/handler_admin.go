package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"neon-bets/internal/app/admin"
	"neon-bets/internal/app/settlement"
	"neon-bets/internal/app/wallet"
	"neon-bets/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type AdminHandlers struct {
	adminSvc  *admin.Service
	settleSvc *settlement.Service
	walletSvc *wallet.Service
}

func NewAdminHandlers(adminSvc *admin.Service, settleSvc *settlement.Service, walletSvc *wallet.Service) *AdminHandlers {
	return &AdminHandlers{adminSvc: adminSvc, settleSvc: settleSvc, walletSvc: walletSvc}
}

type teamBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *AdminHandlers) CreateTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body teamBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		team, err := h.adminSvc.CreateTeam(r.Context(), body.Name, body.Description)
		if err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(team)
	}
}

func (h *AdminHandlers) UpdateTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body teamBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		team, err := h.adminSvc.UpdateTeam(r.Context(), chi.URLParam(r, "team_id"), body.Name, body.Description)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(team)
	}
}

func (h *AdminHandlers) DeleteTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.adminSvc.DeleteTeam(r.Context(), chi.URLParam(r, "team_id")); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type matchBody struct {
	Team1ID     string          `json:"team1_id"`
	Team2ID     string          `json:"team2_id"`
	Team1Odds   decimal.Decimal `json:"team1_odds"`
	Team2Odds   decimal.Decimal `json:"team2_odds"`
	Status      string          `json:"status"`
	GameTitle   string          `json:"game_title"`
	ScheduledAt time.Time       `json:"scheduled_at"`
}

func (h *AdminHandlers) CreateMatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body matchBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		match, err := h.adminSvc.CreateMatch(r.Context(), admin.MatchInput{
			Team1ID:     body.Team1ID,
			Team2ID:     body.Team2ID,
			Team1Odds:   body.Team1Odds,
			Team2Odds:   body.Team2Odds,
			GameTitle:   body.GameTitle,
			ScheduledAt: body.ScheduledAt,
		})
		if err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(match)
	}
}

func (h *AdminHandlers) UpdateMatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body matchBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		match, err := h.adminSvc.UpdateMatch(r.Context(), chi.URLParam(r, "match_id"),
			body.Team1Odds, body.Team2Odds, body.Status, body.GameTitle, body.ScheduledAt)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(match)
	}
}

func (h *AdminHandlers) DeleteMatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.adminSvc.DeleteMatch(r.Context(), chi.URLParam(r, "match_id")); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *AdminHandlers) SettleMatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			WinnerID string `json:"winner_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		res, err := h.settleSvc.Settle(r.Context(), chi.URLParam(r, "match_id"), body.WinnerID)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

type goodieBody struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

func (h *AdminHandlers) CreateGoodie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body goodieBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		goodie, err := h.adminSvc.CreateGoodie(r.Context(), body.Name, body.Description, body.Price, body.Stock)
		if err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(goodie)
	}
}

func (h *AdminHandlers) UpdateGoodie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body goodieBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		goodie, err := h.adminSvc.UpdateGoodie(r.Context(), chi.URLParam(r, "goodie_id"),
			body.Name, body.Description, body.Price, body.Stock)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(goodie)
	}
}

func (h *AdminHandlers) DeleteGoodie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.adminSvc.DeleteGoodie(r.Context(), chi.URLParam(r, "goodie_id")); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *AdminHandlers) Users() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		users, err := h.adminSvc.ListUsers(r.Context(), limit, offset)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": users, "limit": limit, "offset": offset})
	}
}

func (h *AdminHandlers) UpdateUserRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Role string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		user, err := h.adminSvc.UpdateUserRole(r.Context(), chi.URLParam(r, "user_id"), body.Role)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(user)
	}
}

func (h *AdminHandlers) DeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.adminSvc.DeleteUser(r.Context(), chi.URLParam(r, "user_id")); err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *AdminHandlers) Ledger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		entries, err := h.adminSvc.Ledger(r.Context(),
			r.URL.Query().Get("user_id"), r.URL.Query().Get("type"), limit, offset)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": entries, "limit": limit, "offset": offset})
	}
}

// Reconcile reports accounts whose balance disagrees with their ledger.
func (h *AdminHandlers) Reconcile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drift, err := h.walletSvc.Reconcile(r.Context())
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": len(drift) == 0, "drift": drift})
	}
}

// Health reports liveness and DB reachability.
func Health(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st != nil {
			if err := st.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
				return
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}
