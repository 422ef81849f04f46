package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"neon-bets/internal/app/admin"
	"neon-bets/internal/app/auth"
	"neon-bets/internal/app/betting"
	apppublic "neon-bets/internal/app/public"
	"neon-bets/internal/app/settlement"
	"neon-bets/internal/app/shop"
	"neon-bets/internal/app/wallet"
	"neon-bets/internal/config"
	"neon-bets/internal/logging"
	"neon-bets/internal/rankings"
	"neon-bets/internal/scheduler"
	"neon-bets/internal/store"
	httptransport "neon-bets/internal/transport/http"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	st, err := store.New(cfg.Server.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	seedAdmin(st, cfg.Server)

	// Keep the interface values nil when caching is off; a typed nil *Cache
	// would slip past the services' nil checks.
	var rankingsCache apppublic.RankingsCache
	var invalidator settlement.Invalidator
	if cache := rankings.NewCache(cfg.Redis); cache != nil {
		defer cache.Close()
		rankingsCache, invalidator = cache, cache
		log.Info().Str("addr", cfg.Redis.Addr).Msg("rankings cache enabled")
	}

	startingCredits := decimal.NewFromFloat(cfg.Server.StartingCredits).Round(2)
	sessionTTL := time.Duration(cfg.Server.SessionTTLHours) * time.Hour

	deps := httptransport.Deps{
		Store:      st,
		Auth:       auth.NewService(st, sessionTTL, startingCredits),
		Public:     apppublic.NewService(st, rankingsCache),
		Betting:    betting.NewService(st),
		Settlement: settlement.NewService(st, invalidator),
		Shop:       shop.NewService(st),
		Wallet:     wallet.NewService(st),
		Admin:      admin.NewService(st),
	}
	r := httptransport.NewRouter(deps, cfg.Server)

	sched, err := scheduler.New(st, time.Duration(cfg.Server.MatchActivateSec)*time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler init failed")
	}
	sched.Start()
	defer func() {
		if err := sched.Shutdown(); err != nil {
			log.Warn().Err(err).Msg("scheduler shutdown failed")
		}
	}()

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}

// adminUsername derives the seeded account's username from the email local
// part, so it cannot collide with a registered user holding "admin".
func adminUsername(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "admin"
	}
	return local
}

// seedAdmin creates the bootstrap admin account from env on first start.
func seedAdmin(st *store.Store, cfg config.ServerConfig) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	ctx := context.Background()
	if _, err := st.GetUserByEmail(ctx, cfg.AdminEmail); err == nil {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("seed admin hash failed")
		return
	}
	user, err := st.CreateUser(ctx, cfg.AdminEmail, adminUsername(cfg.AdminEmail), string(hash), store.RoleAdmin,
		decimal.NewFromFloat(cfg.StartingCredits).Round(2))
	if err != nil {
		log.Error().Err(err).Msg("seed admin failed")
		return
	}
	log.Info().Str("user_id", user.ID).Msg("admin account seeded")
}
