// Package resolver computes the effective (provider, model, source)
// configuration for an agent session by merging platform model discovery,
// environment overrides, and credential-based inference into one
// precedence chain.
//
// Resolution is stateless and recomputed on every call; the discovery
// cache is the only collaborator with memory.
package resolver

import (
	"context"

	"github.com/launchpad-labs/goose-gateway/catalog"
	"github.com/launchpad-labs/goose-gateway/discovery"
	"github.com/launchpad-labs/goose-gateway/internal/environ"
	"github.com/launchpad-labs/goose-gateway/internal/metrics"
)

// Source values reported in ResolvedConfig.
const (
	SourceDiscovered  = "discovered"
	SourceEnvironment = "environment"
)

// SentinelProvider is reported whenever a discovered model is in effect.
// Discovered models are always exposed through an OpenAI-compatible
// protocol, regardless of the underlying vendor.
const SentinelProvider = "openai"

// Environment override variables, nested-style first.
const (
	EnvProviderNested = "GOOSE_PROVIDER__TYPE"
	EnvProviderFlat   = "GOOSE_PROVIDER"
	EnvModelNested    = "GOOSE_PROVIDER__MODEL"
	EnvModelFlat      = "GOOSE_MODEL"
)

// DefaultModel is reported when nothing resolves a model.
const DefaultModel = "default"

// credentialInference maps credential environment variables to the
// provider they imply, in priority order. The first variable with a
// non-empty value wins.
var credentialInference = []struct {
	envVar   string
	provider string
}{
	{"ANTHROPIC_API_KEY", "anthropic"},
	{"OPENAI_API_KEY", "openai"},
	{"GOOGLE_API_KEY", "google"},
	{"DATABRICKS_HOST", "databricks"},
	{"OLLAMA_HOST", "ollama"},
}

// ResolvedConfig is the effective configuration for one resolution.
// It is a computed projection, never cached.
type ResolvedConfig struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Source    string `json:"source"`
	Available bool   `json:"available"`
}

// Resolver merges discovery, environment, and catalog inference.
type Resolver struct {
	env   environ.Source
	cat   *catalog.Catalog
	cache *discovery.Cache
}

// New builds a Resolver over the given collaborators.
func New(env environ.Source, cat *catalog.Catalog, cache *discovery.Cache) *Resolver {
	return &Resolver{env: env, cat: cat, cache: cache}
}

// Resolve computes the effective configuration. The discovery cache is
// consulted exactly once per resolution so provider, model, and source
// always describe a single consistent read, even if the bypass flag is
// toggled mid-call.
func (r *Resolver) Resolve(ctx context.Context) ResolvedConfig {
	discovered, ok := r.cache.ModelInfo(ctx)

	cfg := ResolvedConfig{
		Provider: r.provider(discovered, ok),
		Model:    r.model(discovered, ok),
		Source:   SourceEnvironment,
	}
	if ok {
		cfg.Source = SourceDiscovered
	}
	cfg.Available = ok || r.cat.ValidateProviderModel(cfg.Provider, cfg.Model)

	metrics.ConfigResolutions.WithLabelValues(cfg.Source).Inc()
	return cfg
}

// provider applies the provider precedence chain: discovery sentinel,
// nested env override, flat env override, credential inference, "unknown".
func (r *Resolver) provider(_ discovery.Model, discovered bool) string {
	if discovered {
		return SentinelProvider
	}
	if v := r.env.Get(EnvProviderNested); v != "" {
		return v
	}
	if v := r.env.Get(EnvProviderFlat); v != "" {
		return v
	}
	return r.inferProvider()
}

// model applies the model precedence chain: discovered identifier,
// nested env override, flat env override, literal default.
func (r *Resolver) model(m discovery.Model, discovered bool) string {
	if discovered {
		return m.Model
	}
	if v := r.env.Get(EnvModelNested); v != "" {
		return v
	}
	if v := r.env.Get(EnvModelFlat); v != "" {
		return v
	}
	return DefaultModel
}

// inferProvider guesses the provider from whichever credential variable
// is set first in priority order.
func (r *Resolver) inferProvider() string {
	for _, ci := range credentialInference {
		if environ.IsSet(r.env, ci.envVar) {
			return ci.provider
		}
	}
	return "unknown"
}
