// Package discovery lazily resolves a platform-assigned model from an
// external locator service and memoizes the result for the process
// lifetime.
//
// The locator is queried at most once, on first use, behind a
// single-flight lock: concurrent first callers block until one of them
// completes the query, then everyone reads the memoized outcome. A
// failed or empty discovery is memoized as "absent" and never retried,
// to avoid hammering an unhealthy locator; operators restart the
// process to re-attempt.
package discovery

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/launchpad-labs/goose-gateway/internal/environ"
	"github.com/launchpad-labs/goose-gateway/internal/metrics"
)

// CapabilityTools is the capability tag required of discovered models:
// the agent needs tool-calling to function at all.
const CapabilityTools = "TOOLS"

// BypassEnv is the runtime switch that makes discovery behave as if no
// locator were configured. It is re-read on every call and does not
// disturb the underlying cache state.
const BypassEnv = "BYPASS_GENAI"

// Locator lists model identifiers filtered by a capability tag. The
// returned order is authoritative; this package applies no re-sorting.
// Implementations live outside this package.
type Locator interface {
	ModelNamesByCapability(ctx context.Context, capability string) ([]string, error)
}

// Model is a discovered platform model: its identifier, the credential
// for calling it, and the normalized OpenAI-compatible base URL.
type Model struct {
	Model   string
	APIKey  string
	BaseURL string
}

// Cache performs the at-most-once discovery and serves the memoized
// result. The zero value is not usable; construct with New.
type Cache struct {
	locator Locator
	apiKey  string
	apiBase string
	env     environ.Source

	once resolveOnce[*Model]
}

// New builds a Cache. locator may be nil when no platform service is
// bound; apiKey and apiBase are the locator-provided credential and base
// URL template attached to any discovered model.
func New(locator Locator, apiKey, apiBase string, env environ.Source) *Cache {
	if locator != nil {
		slog.Info("model locator configured, will discover lazily on first request")
	} else {
		slog.Info("no model locator configured, using environment-configured model")
	}
	return &Cache{locator: locator, apiKey: apiKey, apiBase: apiBase, env: env}
}

// IsLocatorAvailable reports whether a locator collaborator is
// configured. It never triggers discovery.
func (c *Cache) IsLocatorAvailable() bool { return c.locator != nil }

// Resolved reports whether the first discovery has completed. It never
// triggers discovery; diagnostics use it to show cache state.
func (c *Cache) Resolved() bool { return c.once.resolved() }

// ModelInfo returns the discovered model, resolving it on first call.
//
// The bypass flag is read fresh on every call: while set, ModelInfo
// returns absent immediately without touching the cache or the locator,
// and a later call with the flag cleared sees the cache exactly as it
// was. The first resolution is a single-flight critical section; once it
// completes, reads are lock-free.
func (c *Cache) ModelInfo(ctx context.Context) (Model, bool) {
	if c.bypassed() {
		slog.Info("model discovery bypassed", "env", BypassEnv)
		return Model{}, false
	}

	m := c.once.resolve(func() *Model { return c.discover(ctx) })
	if m == nil {
		return Model{}, false
	}
	return *m, true
}

func (c *Cache) bypassed() bool {
	v, err := strconv.ParseBool(environ.GetOrElse(c.env, BypassEnv, "false"))
	return err == nil && v
}

// discover queries the locator for TOOLS-capable models and picks the
// first one. Every failure mode (no locator, locator error, empty
// result) degrades to nil, logged but never propagated.
func (c *Cache) discover(ctx context.Context) *Model {
	if c.locator == nil {
		return nil
	}

	slog.Info("discovering platform models",
		"api_key_present", c.apiKey != "",
		"api_base_present", c.apiBase != "")

	names, err := c.locator.ModelNamesByCapability(ctx, CapabilityTools)
	if err != nil {
		slog.Warn("model discovery failed", "error", err)
		metrics.DiscoveryResolutions.WithLabelValues("error").Inc()
		return nil
	}
	if len(names) == 0 {
		slog.Warn("no tool-capable models found in platform service")
		metrics.DiscoveryResolutions.WithLabelValues("empty").Inc()
		return nil
	}

	// The locator's ordering is authoritative; take its first entry.
	name := names[0]
	slog.Info("discovered platform model", "model", name, "candidates", len(names))

	baseURL := c.apiBase
	if baseURL != "" {
		baseURL = NormalizeBaseURL(baseURL)
	}

	metrics.DiscoveryResolutions.WithLabelValues("resolved").Inc()
	slog.Info("platform model configuration ready",
		"model", name, "base_url", baseURL, "api_key_len", len(c.apiKey))
	return &Model{Model: name, APIKey: c.apiKey, BaseURL: baseURL}
}
