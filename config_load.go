package goosegateway

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	kenv "github.com/knadh/koanf/providers/env"
	kfile "github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/launchpad-labs/goose-gateway/internal/environ"
)

// Well-known agent environment variables honored on top of the koanf
// layers, matching what buildpacks and operators already export.
const (
	EnvCLIPath    = "GOOSE_CLI_PATH"
	EnvCLITimeout = "GOOSE_CLI_TIMEOUT" // seconds
	EnvMaxTurns   = "GOOSE_MAX_TURNS"

	EnvLocatorURL     = "GENAI_LOCATOR_URL"
	EnvLocatorAPIKey  = "GENAI_LOCATOR_API_KEY"
	EnvLocatorAPIBase = "GENAI_LOCATOR_API_BASE"

	EnvPort = "PORT"
)

// LoadConfig reads configuration from an optional YAML file, layers
// GOOSEGW_* environment overrides on top, then applies the well-known
// agent variables. path may be empty.
func LoadConfig(path string, src environ.Source) (Config, error) {
	// Load .env into the process environment (ignored if not present).
	_ = godotenv.Load()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(kfile.Provider(path), kyaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file: %w", err)
		}
	}

	// GOOSEGW_SERVER_PORT -> server.port, etc. Every underscore maps to
	// a key separator, so only single-word keys are reachable this way:
	// server.port, catalog.path, agent.path, agent.timeout, locator.url.
	// Multi-word keys (agent.max_turns, server.read_timeout, ...) are
	// set via the config file or the well-known variables below.
	if err := k.Load(kenv.Provider("GOOSEGW_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "GOOSEGW_")),
			"_", ".",
		)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyWellKnownEnv(&cfg, src)

	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyWellKnownEnv overlays the legacy agent variables. They win over
// file and GOOSEGW_* values since they are what platform buildpacks set.
func applyWellKnownEnv(cfg *Config, src environ.Source) {
	if v := src.Get(EnvCLIPath); v != "" {
		cfg.Agent.Path = v
	}
	if v := src.Get(EnvCLITimeout); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Agent.Timeout = time.Duration(secs) * time.Second
		}
	}
	if v := src.Get(EnvMaxTurns); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Agent.MaxTurns = n
		}
	}
	if v := src.Get(EnvLocatorURL); v != "" {
		cfg.Locator.URL = v
	}
	if v := src.Get(EnvLocatorAPIKey); v != "" {
		cfg.Locator.APIKey = v
	}
	if v := src.Get(EnvLocatorAPIBase); v != "" {
		cfg.Locator.APIBase = v
	}
	if v := src.Get(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}
