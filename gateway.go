package goosegateway

import (
	"context"

	"github.com/launchpad-labs/goose-gateway/agent"
	"github.com/launchpad-labs/goose-gateway/catalog"
	"github.com/launchpad-labs/goose-gateway/discovery"
	"github.com/launchpad-labs/goose-gateway/internal/diag"
	"github.com/launchpad-labs/goose-gateway/internal/environ"
	"github.com/launchpad-labs/goose-gateway/internal/metrics"
	"github.com/launchpad-labs/goose-gateway/resolver"
)

// Gateway wires the provider catalog, the discovery cache, the
// precedence resolver, and the agent invoker behind one facade for the
// HTTP layer. Construct with New; all fields are read-only afterwards
// and safe for concurrent use.
type Gateway struct {
	cfg     Config
	env     environ.Source
	locator discovery.Locator

	catalog   *catalog.Catalog
	discovery *discovery.Cache
	resolver  *resolver.Resolver
	invoker   *agent.Invoker
}

// Option configures a Gateway before its components are built.
type Option func(*Gateway)

// WithEnv replaces the process environment source, for tests.
func WithEnv(src environ.Source) Option {
	return func(g *Gateway) { g.env = src }
}

// WithLocator binds a platform model locator. Without one, discovery
// always reports absent.
func WithLocator(loc discovery.Locator) Option {
	return func(g *Gateway) { g.locator = loc }
}

// New builds a Gateway from cfg. Catalog loading never fails; a broken
// catalog document degrades to an empty catalog and the gateway still
// starts.
func New(cfg Config, opts ...Option) *Gateway {
	g := &Gateway{cfg: cfg, env: environ.OS{}}
	for _, opt := range opts {
		opt(g)
	}

	g.catalog = catalog.LoadFile(cfg.Catalog.Path, g.env)
	metrics.CatalogProviders.Set(float64(g.catalog.Len()))

	g.discovery = discovery.New(g.locator, cfg.Locator.APIKey, cfg.Locator.APIBase, g.env)
	g.resolver = resolver.New(g.env, g.catalog, g.discovery)
	g.invoker = agent.New(cfg.Agent.Path, agent.WithMaxConcurrent(cfg.Agent.MaxConcurrent))
	return g
}

// Config returns the configuration the gateway was built with.
func (g *Gateway) Config() Config { return g.cfg }

// Catalog returns the loaded provider catalog.
func (g *Gateway) Catalog() *catalog.Catalog { return g.catalog }

// Discovery returns the platform model discovery cache.
func (g *Gateway) Discovery() *discovery.Cache { return g.discovery }

// Invoker returns the agent CLI invoker.
func (g *Gateway) Invoker() *agent.Invoker { return g.invoker }

// Resolve computes the effective provider/model configuration.
func (g *Gateway) Resolve(ctx context.Context) resolver.ResolvedConfig {
	return g.resolver.Resolve(ctx)
}

// HealthStatus describes agent readiness together with the effective
// configuration it would run under.
type HealthStatus struct {
	Available bool   `json:"available"`
	Version   string `json:"version"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Source    string `json:"source"`
	Message   string `json:"message"`
}

// Health probes the agent executable and reports it alongside one
// consistent resolution snapshot.
func (g *Gateway) Health(ctx context.Context) HealthStatus {
	resolved := g.Resolve(ctx)
	status := HealthStatus{
		Provider: resolved.Provider,
		Model:    resolved.Model,
		Source:   resolved.Source,
	}

	if g.cfg.Agent.Path == "" {
		status.Version = "not configured"
		status.Message = "Goose CLI is not configured. Set GOOSE_CLI_PATH and an LLM provider API key."
		return status
	}

	if version := g.invoker.Version(); version != "" {
		status.Available = true
		status.Version = version
		status.Message = "Goose CLI is ready"
	} else {
		status.Version = "unavailable"
		status.Message = "Goose CLI binary not found or not responding"
	}
	return status
}

// EnvironmentReport returns the diagnostic-relevant environment
// variables with sensitive values masked.
func (g *Gateway) EnvironmentReport() map[string]string {
	return diag.FilterEnviron(g.env.All())
}

// AgentProbe runs one bounded single-turn agent session to diagnose the
// executable end to end. All failure modes surface as the Outcome's
// terminal state.
func (g *Gateway) AgentProbe(ctx context.Context) agent.Outcome {
	args := []string{"session", "--text", "Say hello in one word.", "--max-turns", "1"}
	overrides := map[string]string{
		"GOOSE_DEBUG": "true",
		"RUST_LOG":    "goose=debug",
	}
	return g.invoker.Invoke(ctx, args, overrides, g.cfg.Agent.Timeout)
}
