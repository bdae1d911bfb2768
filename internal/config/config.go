package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains service configuration parameters.
type Config struct {
	LogLevel  string    `env:"LOG_LEVEL" envDefault:"info"`
	HTTP      HTTP      `envPrefix:"HTTP_"`
	Session   Session   `envPrefix:"SESSION_"`
	Templates Templates `envPrefix:"TEMPLATE_"`
	Export    Export    `envPrefix:"EXPORT_"`
	Remote    Remote    `envPrefix:"REMOTE_"`

	RasterBackend string `env:"RASTER_BACKEND" envDefault:"gg"`
	FontDir       string `env:"FONT_DIR"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	Mode            string        `env:"MODE" envDefault:"release"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Session contains page session lifetime parameters.
type Session struct {
	IdleTimeout   time.Duration `env:"IDLE_TIMEOUT" envDefault:"30m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
}

// Templates contains template registry parameters.
type Templates struct {
	// File replaces the embedded registry when set.
	File string `env:"FILE"`
	// Default is the selection policy for a fresh card: "first" or "none".
	Default string `env:"DEFAULT" envDefault:"first"`
}

// Export contains export pipeline parameters.
type Export struct {
	Scale          float64 `env:"SCALE" envDefault:"2"`
	SuppressBorder bool    `env:"SUPPRESS_BORDER" envDefault:"true"`
}

// Remote contains parameters for fetching images by URL.
type Remote struct {
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"12s"`
}

// NewConfig loads configuration from environment variables.
// A bare PORT variable is honored when HTTP_PORT is not set.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if _, ok := os.LookupEnv("HTTP_PORT"); !ok {
		if port := os.Getenv("PORT"); port != "" {
			cfg.HTTP.Port = port
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Templates.Default {
	case "first", "none":
	default:
		return fmt.Errorf("invalid TEMPLATE_DEFAULT %q: want first or none", c.Templates.Default)
	}
	switch c.RasterBackend {
	case "gg", "imaging":
	default:
		return fmt.Errorf("invalid RASTER_BACKEND %q: want gg or imaging", c.RasterBackend)
	}
	if c.Export.Scale <= 0 {
		return fmt.Errorf("invalid EXPORT_SCALE %v: must be positive", c.Export.Scale)
	}
	return nil
}
