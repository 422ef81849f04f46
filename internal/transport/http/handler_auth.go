package httptransport

import (
	"encoding/json"
	"net/http"

	"neon-bets/internal/app/auth"
)

type AuthHandlers struct {
	authSvc *auth.Service
}

func NewAuthHandlers(authSvc *auth.Service) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

func (h *AuthHandlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		user, token, err := h.authSvc.Register(r.Context(), body.Email, body.Username, body.Password)
		if err != nil {
			writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"user": user, "token": token})
	}
}

func (h *AuthHandlers) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		user, token, err := h.authSvc.Login(r.Context(), body.Email, body.Password)
		if err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"user": user, "token": token})
	}
}

func (h *AuthHandlers) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if err := h.authSvc.Logout(r.Context(), token); err != nil {
			writeAppError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *AuthHandlers) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		_ = json.NewEncoder(w).Encode(user)
	}
}
