// Package goosegateway resolves, at runtime, which LLM provider and
// model an agent session should use, and exposes a bounded mechanism to
// invoke the Goose CLI and observe its outcome.
//
// The Gateway type is the main entry point: create one with New and
// serve its methods from an HTTP layer. Configuration layers, highest
// precedence first: a platform-discovered model (via a [discovery.Locator]),
// environment overrides, and credential-based inference over the
// provider catalog.
package goosegateway

import (
	"fmt"
	"time"
)

// Config holds the application configuration for a Gateway. It is
// loaded from an optional YAML file with GOOSEGW_* environment overlays
// by [LoadConfig]; a handful of well-known agent environment variables
// (GOOSE_CLI_PATH and friends) are honored on top for compatibility
// with buildpack-style deployments.
type Config struct {
	Server  ServerConfig  `koanf:"server" yaml:"server"`
	Catalog CatalogConfig `koanf:"catalog" yaml:"catalog"`
	Agent   AgentConfig   `koanf:"agent" yaml:"agent"`
	Locator LocatorConfig `koanf:"locator" yaml:"locator"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `koanf:"port" yaml:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout" yaml:"write_timeout"`
	CORSOrigins  []string      `koanf:"cors_origins" yaml:"cors_origins"`
}

// CatalogConfig points at the provider catalog document. An empty path
// uses the catalog embedded in the binary.
type CatalogConfig struct {
	Path string `koanf:"path" yaml:"path"`
}

// AgentConfig holds Goose CLI invocation settings.
type AgentConfig struct {
	// Path to the Goose CLI executable. Empty means the agent is not
	// configured; health reports it as unavailable.
	Path string `koanf:"path" yaml:"path"`
	// Timeout bounds a single invocation.
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`
	// MaxTurns is passed through to the executable via --max-turns; the
	// gateway does not interpret it.
	MaxTurns int `koanf:"max_turns" yaml:"max_turns"`
	// MaxConcurrent caps concurrently running invocations.
	MaxConcurrent int `koanf:"max_concurrent" yaml:"max_concurrent"`
}

// LocatorConfig describes the platform model locator binding. URL empty
// means no locator is bound and discovery always reports absent.
type LocatorConfig struct {
	URL     string `koanf:"url" yaml:"url"`
	APIKey  string `koanf:"api_key" yaml:"api_key"`
	APIBase string `koanf:"api_base" yaml:"api_base"`
}

// DefaultConfig returns the configuration used when no file and no
// overrides are present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		Agent: AgentConfig{
			Timeout:       30 * time.Second,
			MaxTurns:      10,
			MaxConcurrent: 4,
		},
	}
}

// ValidateConfig validates a Config for correctness.
func ValidateConfig(cfg Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	if cfg.Agent.Timeout <= 0 {
		return fmt.Errorf("agent.timeout must be positive, got %s", cfg.Agent.Timeout)
	}
	if cfg.Agent.MaxTurns < 1 {
		return fmt.Errorf("agent.max_turns must be at least 1, got %d", cfg.Agent.MaxTurns)
	}
	if cfg.Agent.MaxConcurrent < 1 {
		return fmt.Errorf("agent.max_concurrent must be at least 1, got %d", cfg.Agent.MaxConcurrent)
	}
	return nil
}
