package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/gosuda/portal-mafia/mafia/match"
)

// Config is read from the environment; command line flags override it.
type Config struct {
	Relay     []string      `env:"RELAY" envSeparator:","`
	Port      int           `env:"MAFIA_PORT" envDefault:"-1"`
	Name      string        `env:"MAFIA_NAME" envDefault:"mafia"`
	CredKey   string        `env:"MAFIA_CRED_KEY"`
	AuthKey   string        `env:"MAFIA_WS_AUTH"`
	DataPath  string        `env:"MAFIA_DATA_PATH"`
	TimeScale float64       `env:"MAFIA_TIME_SCALE" envDefault:"1"`
	Retention time.Duration `env:"MAFIA_RETENTION" envDefault:"168h"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// relayServers drops blank entries left by an empty or trailing-comma RELAY.
func (c Config) relayServers() []string {
	servers := make([]string, 0, len(c.Relay))
	for _, raw := range c.Relay {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			servers = append(servers, trimmed)
		}
	}
	return servers
}

func (c Config) timings() match.Timings {
	if c.TimeScale <= 0 || c.TimeScale == 1 {
		return match.DefaultTimings()
	}
	return match.DefaultTimings().Scaled(c.TimeScale)
}
