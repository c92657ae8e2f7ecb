// Package gateway implements the standalone WebDriver gateway (spec.md
// §4.C): the public W3C WebDriver HTTP surface, application lifecycle
// management, element/shadow identifier bookkeeping, and request
// translation onto the automation agent's private API.
package gateway

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures every tunable setting for the gateway, mirroring the
// teacher's DefaultConfig/Load/Validate trio (internal/config/config.go)
// almost exactly in shape: defaults, overlaid by an optional YAML file,
// overlaid by CLI flags in cmd/gateway/main.go.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Trace   TraceConfig   `yaml:"trace"`
}

// ServerConfig configures the public W3C HTTP surface (spec.md §6).
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// SessionConfig configures how the gateway spawns and discovers the
// target application (spec.md §4.C's session-create sequence).
type SessionConfig struct {
	// SpawnTimeoutMS bounds how long the gateway waits for the agent's
	// signature line on the child's standard output before failing
	// session-create with "session not created".
	SpawnTimeoutMS int `yaml:"spawn_timeout_ms"`
	// TerminateGraceMS is the grace period between the graceful signal
	// and the forceful kill on session-delete.
	TerminateGraceMS int `yaml:"terminate_grace_ms"`
}

// TraceConfig configures the optional command trace ledger (ADDED,
// SPEC_FULL.md §3): purely observational, disabled when Dir is empty.
type TraceConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns the gateway's built-in defaults, per spec.md §6's
// CLI surface (port 4444, host 127.0.0.1, log level info) and §4.C's
// session-create bound (30s).
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:     "127.0.0.1",
			Port:     4444,
			LogLevel: "info",
		},
		Session: SessionConfig{
			SpawnTimeoutMS:   30000,
			TerminateGraceMS: 3000,
		},
		Trace: TraceConfig{
			Dir: "",
		},
	}
}

// Load reads YAML config from disk and overlays it onto DefaultConfig, the
// same layering the teacher's config.Load does. An empty path returns
// DefaultConfig unmodified — the gateway's config file is optional, unlike
// the teacher's MCP config which requires one.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate ensures required fields exist so the server can start
// deterministically, following the teacher's Config.Validate shape.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("server.port must be between 1 and 65535")
	}
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}
	if c.Session.SpawnTimeoutMS <= 0 {
		return errors.New("session.spawn_timeout_ms must be positive")
	}
	return nil
}
