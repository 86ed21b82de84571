package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config defines the inputs for the HTTP and realtime surface.
type Config struct {
	HTTPAddr          string        `env:"PUNCHCLOCK_HTTP_ADDR" envDefault:":8080"`
	DBPath            string        `env:"PUNCHCLOCK_DB_PATH" envDefault:"punchclock.db"`
	ReadHeaderTimeout time.Duration `env:"PUNCHCLOCK_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"PUNCHCLOCK_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ParseConfig loads configuration from environment variables.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
