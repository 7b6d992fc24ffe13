// Package config reads the server's environment-variable-driven
// configuration. File-based configuration is explicitly out of scope
// (spec §1 Non-goals), so unlike the teacher's YAML loader this is a small,
// dependency-free env parser (SPEC_FULL §2 "Configuration").
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is the server's runtime configuration, sourced from environment
// variables per spec §6.4.
type Config struct {
	// Port the HTTP(S) listener binds to.
	Port int
	// TLSCert and TLSKey point to a PEM certificate/key pair. Load requires
	// both or neither; when TLSCert is empty, the server generates a
	// self-signed certificate (§6.3).
	TLSCert string
	TLSKey  string
	// Shell is the default command spawned for a session with no explicit
	// argv (SPEC_FULL C7 supplement). Falls back to $SHELL, then /bin/sh.
	Shell string
}

const defaultPort = 3000

// Load reads Config from the process environment.
func Load() (Config, error) {
	cfg := Config{
		Port:    defaultPort,
		TLSCert: os.Getenv("TLS_CERT"),
		TLSKey:  os.Getenv("TLS_KEY"),
		Shell:   os.Getenv("SHELL"),
	}

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = p
	}

	if cfg.Shell == "" {
		cfg.Shell = "/bin/sh"
	}

	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return Config{}, fmt.Errorf("config: TLS_CERT and TLS_KEY must both be set or both be empty")
	}

	return cfg, nil
}
