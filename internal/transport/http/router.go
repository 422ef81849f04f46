package httptransport

import (
	"net/http"

	"neon-bets/internal/app/admin"
	"neon-bets/internal/app/auth"
	"neon-bets/internal/app/betting"
	apppublic "neon-bets/internal/app/public"
	"neon-bets/internal/app/settlement"
	"neon-bets/internal/app/shop"
	"neon-bets/internal/app/wallet"
	"neon-bets/internal/config"
	"neon-bets/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps carries the wired services. Store may be nil in tests; healthz then
// skips the DB ping.
type Deps struct {
	Store      *store.Store
	Auth       *auth.Service
	Public     *apppublic.Service
	Betting    *betting.Service
	Settlement *settlement.Service
	Shop       *shop.Service
	Wallet     *wallet.Service
	Admin      *admin.Service
}

func NewRouter(deps Deps, cfg config.ServerConfig) *chi.Mux {
	authHandlers := NewAuthHandlers(deps.Auth)
	publicHandlers := NewPublicHandlers(deps.Public)
	betHandlers := NewBetHandlers(deps.Betting)
	shopHandlers := NewShopHandlers(deps.Shop)
	walletHandlers := NewWalletHandlers(deps.Wallet)
	adminHandlers := NewAdminHandlers(deps.Admin, deps.Settlement, deps.Wallet)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.With(APILogMiddleware()).Get("/healthz", Health(deps.Store))

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Post("/auth/register", authHandlers.Register())
		r.Post("/auth/login", authHandlers.Login())

		r.Get("/matches", publicHandlers.Matches())
		r.Get("/matches/{match_id}", publicHandlers.Match())
		r.Get("/teams", publicHandlers.Teams())
		r.Get("/teams/{team_id}", publicHandlers.Team())
		r.Get("/rankings", publicHandlers.Rankings())
		r.Get("/goodies", publicHandlers.Goodies())
		r.Get("/goodies/{goodie_id}", publicHandlers.Goodie())

		r.Group(func(r chi.Router) {
			r.Use(SessionAuthMiddleware(deps.Auth))

			r.Post("/auth/logout", authHandlers.Logout())
			r.Get("/me", authHandlers.Me())

			r.Post("/bets", betHandlers.Place())
			r.Get("/bets", betHandlers.List())
			r.Get("/bets/stats", betHandlers.Stats())

			r.Post("/goodies/{goodie_id}/purchase", shopHandlers.Purchase())
			r.Get("/purchases", shopHandlers.Purchases())

			r.Post("/wallet/deposit", walletHandlers.Deposit())
			r.Post("/wallet/withdraw", walletHandlers.Withdraw())
			r.Get("/wallet/transactions", walletHandlers.Transactions())

			r.Route("/admin", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(RequireModerator)

					r.Post("/teams", adminHandlers.CreateTeam())
					r.Put("/teams/{team_id}", adminHandlers.UpdateTeam())
					r.Delete("/teams/{team_id}", adminHandlers.DeleteTeam())

					r.Post("/matches", adminHandlers.CreateMatch())
					r.Put("/matches/{match_id}", adminHandlers.UpdateMatch())
					r.Delete("/matches/{match_id}", adminHandlers.DeleteMatch())
					r.Post("/matches/{match_id}/settle", adminHandlers.SettleMatch())

					r.Post("/goodies", adminHandlers.CreateGoodie())
					r.Put("/goodies/{goodie_id}", adminHandlers.UpdateGoodie())
					r.Delete("/goodies/{goodie_id}", adminHandlers.DeleteGoodie())
				})

				r.Group(func(r chi.Router) {
					r.Use(RequireAdmin)

					r.Get("/users", adminHandlers.Users())
					r.Put("/users/{user_id}/role", adminHandlers.UpdateUserRole())
					r.Delete("/users/{user_id}", adminHandlers.DeleteUser())
					r.Get("/ledger", adminHandlers.Ledger())
					r.Get("/reconcile", adminHandlers.Reconcile())
				})
			})
		})
	})

	return r
}
