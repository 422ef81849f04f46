package config

import "github.com/caarlos0/env/v11"

// RedisConfig is optional: an empty Addr disables the rankings cache.
type RedisConfig struct {
	Addr            string `env:"REDIS_ADDR"`
	Password        string `env:"REDIS_PASSWORD"`
	DB              int    `env:"REDIS_DB" envDefault:"0"`
	RankingsTTLSecs int    `env:"RANKINGS_CACHE_TTL_SECONDS" envDefault:"60"`
}

func LoadRedis() (RedisConfig, error) {
	var cfg RedisConfig
	err := env.Parse(&cfg)
	return cfg, err
}
