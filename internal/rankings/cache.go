// Package rankings caches the team leaderboard in Redis so the hot public
// endpoint does not hit Postgres on every request.
package rankings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"neon-bets/internal/config"
	"neon-bets/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const cacheKey = "rankings:teams"

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache connects to Redis per cfg. An empty Addr returns nil, which the
// services treat as caching disabled.
func NewCache(cfg config.RedisConfig) *Cache {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Cache{
		client: client,
		ttl:    time.Duration(cfg.RankingsTTLSecs) * time.Second,
	}
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) GetRankings(ctx context.Context) ([]store.TeamRanking, bool) {
	raw, err := c.client.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("rankings cache read failed")
		}
		return nil, false
	}
	var rankings []store.TeamRanking
	if err := json.Unmarshal(raw, &rankings); err != nil {
		return nil, false
	}
	return rankings, true
}

func (c *Cache) SetRankings(ctx context.Context, rankings []store.TeamRanking) {
	raw, err := json.Marshal(rankings)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("rankings cache write failed")
	}
}

// InvalidateRankings drops the cached leaderboard; settlement calls this
// after team records change.
func (c *Cache) InvalidateRankings(ctx context.Context) error {
	return c.client.Del(ctx, cacheKey).Err()
}
