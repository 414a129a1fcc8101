package server

import (
	"fmt"
	"net"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// Config is the listen configuration, populated from the environment. The
// port argument on the command line overrides AUCTIOND_PORT.
type Config struct {
	Host string `env:"AUCTIOND_HOST" envDefault:""`
	Port int    `env:"AUCTIOND_PORT" envDefault:"0"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
