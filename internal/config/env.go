package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Daemon is the process configuration of cmd/verbridge.
type Daemon struct {
	Listen    string `env:"VERBRIDGE_LISTEN" envDefault:":25566"`
	Upstream  string `env:"VERBRIDGE_UPSTREAM" envDefault:"localhost:25565"`
	Admin     string `env:"VERBRIDGE_ADMIN" envDefault:":9400"`
	ConfigDir string `env:"VERBRIDGE_CONFIG_DIR" envDefault:"."`
	Native    string `env:"VERBRIDGE_NATIVE" envDefault:"1.12"`
	// AdminToken guards admin write routes when set.
	AdminToken string `env:"VERBRIDGE_ADMIN_TOKEN"`
	// CorsOrigins for the admin server, comma separated.
	CorsOrigins []string `env:"VERBRIDGE_CORS_ORIGINS" envSeparator:","`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDaemon parses Daemon from the environment.
func LoadDaemon() (Daemon, error) {
	var cfg Daemon
	if err := ParseEnv(&cfg); err != nil {
		return Daemon{}, err
	}
	return cfg, nil
}
