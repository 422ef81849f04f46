package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	SessionTTLHours  int     `env:"SESSION_TTL_HOURS" envDefault:"168"`
	StartingCredits  float64 `env:"STARTING_CREDITS" envDefault:"1000"`
	MatchActivateSec int     `env:"MATCH_ACTIVATE_EVERY_SECONDS" envDefault:"60"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
