package internal

import "time"

type Config struct {
	Host           string `env:"HOST,default=0.0.0.0"`
	Port           int    `env:"PORT,default=3000"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	AssetsDir      string `env:"ASSETS_DIR"`

	// Relay tuning. HubCapacity is the per-subscription buffer depth; a
	// session that falls this many events behind starts losing them.
	HubCapacity int `env:"HUB_CAPACITY,default=100"`

	// LimitMessages caps a single history page. Nil means unbounded.
	LimitMessages *int `env:"LIMIT_MESSAGES"`

	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	MetricInterval    time.Duration `env:"METRIC_INTERVAL,default=10s"`
}
