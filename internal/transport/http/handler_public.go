package httptransport

import (
	"encoding/json"
	"net/http"

	apppublic "neon-bets/internal/app/public"

	"github.com/go-chi/chi/v5"
)

type PublicHandlers struct {
	publicSvc *apppublic.Service
}

func NewPublicHandlers(publicSvc *apppublic.Service) *PublicHandlers {
	return &PublicHandlers{publicSvc: publicSvc}
}

func (h *PublicHandlers) Matches() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		matches, err := h.publicSvc.Matches(r.Context(), r.URL.Query().Get("status"), limit, offset)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": matches, "limit": limit, "offset": offset})
	}
}

func (h *PublicHandlers) Match() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := h.publicSvc.Match(r.Context(), chi.URLParam(r, "match_id"))
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(m)
	}
}

func (h *PublicHandlers) Teams() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		teams, err := h.publicSvc.Teams(r.Context(), limit, offset)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": teams, "limit": limit, "offset": offset})
	}
}

func (h *PublicHandlers) Team() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := h.publicSvc.Team(r.Context(), chi.URLParam(r, "team_id"))
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(t)
	}
}

func (h *PublicHandlers) Rankings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := ParsePagination(r)
		rankings, err := h.publicSvc.Rankings(r.Context(), limit)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": rankings})
	}
}

func (h *PublicHandlers) Goodies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		inStockOnly := r.URL.Query().Get("in_stock") == "true"
		goodies, err := h.publicSvc.Goodies(r.Context(), inStockOnly, limit, offset)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": goodies, "limit": limit, "offset": offset})
	}
}

func (h *PublicHandlers) Goodie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := h.publicSvc.Goodie(r.Context(), chi.URLParam(r, "goodie_id"))
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(g)
	}
}
