// Package catalog provides the provider catalog: the immutable,
// process-lifetime table of LLM providers and the models they expose,
// together with the credential-availability rules that decide which of
// them are usable in the current environment.
//
// The catalog is loaded once at startup from a YAML document with an
// embedded default as fallback. Loading never fails: a missing or
// malformed document degrades to an empty catalog so the hosting
// application always starts.
package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/launchpad-labs/goose-gateway/internal/environ"
)

//go:embed providers_default.yml
var bundledCatalog []byte

// ProviderOllama is the reserved name of the locally-hosted provider.
// It is the one provider that can be available without an API key.
const ProviderOllama = "ollama"

// Provider describes one upstream LLM vendor/service configuration.
type Provider struct {
	Name        string  `yaml:"name"`
	DisplayName string  `yaml:"displayName"`
	Enabled     bool    `yaml:"enabled"`
	APIKeyEnv   string  `yaml:"apiKeyEnv"`
	BaseURL     string  `yaml:"baseUrl"`
	BaseURLEnv  string  `yaml:"baseUrlEnv"`
	Models      []Model `yaml:"models"`
}

// Model describes one model variant offered by a provider.
type Model struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"displayName"`
	Enabled     bool   `yaml:"enabled"`
}

// EnabledModels returns the provider's enabled models in catalog order.
func (p Provider) EnabledModels() []Model {
	var out []Model
	for _, m := range p.Models {
		if m.Enabled {
			out = append(out, m)
		}
	}
	return out
}

// document is the top-level shape of the catalog YAML.
type document struct {
	Providers []Provider `yaml:"providers"`
}

// Catalog is the loaded provider table. It is read-only after construction
// and safe for concurrent use without synchronization. Credential and
// base-URL lookups go through the injected environ.Source so availability
// reflects the live environment.
type Catalog struct {
	providers []Provider
	byName    map[string]Provider
	env       environ.Source
}

// New builds a Catalog from already-parsed provider entries. Duplicate
// provider names are rejected explicitly: the first occurrence wins and
// later duplicates are dropped from both iteration order and lookup,
// with a warning.
func New(providers []Provider, env environ.Source) *Catalog {
	c := &Catalog{
		byName: make(map[string]Provider, len(providers)),
		env:    env,
	}
	for _, p := range providers {
		if _, dup := c.byName[p.Name]; dup {
			slog.Warn("duplicate provider in catalog, keeping first occurrence",
				"provider", p.Name)
			continue
		}
		c.byName[p.Name] = p
		c.providers = append(c.providers, p)
	}
	return c
}

// Parse decodes a catalog YAML document.
func Parse(data []byte) ([]Provider, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog parse: %w", err)
	}
	return doc.Providers, nil
}

// Load builds a Catalog from raw YAML. A parse failure is logged and
// yields an empty catalog, never an error to the caller. Schema
// violations in an otherwise parseable document are warnings only.
func Load(data []byte, env environ.Source) *Catalog {
	if warnings := ValidateDocument(data); len(warnings) > 0 {
		for _, w := range warnings {
			slog.Warn("catalog schema violation", "detail", w)
		}
	}
	providers, err := Parse(data)
	if err != nil {
		slog.Warn("failed to parse provider catalog, starting with an empty one", "error", err)
		return New(nil, env)
	}
	c := New(providers, env)
	slog.Info("provider catalog loaded", "providers", len(c.providers))
	return c
}

// LoadFile reads the catalog from path, or from the embedded default
// document when path is empty. A read failure degrades to an empty
// catalog, logged but not propagated.
func LoadFile(path string, env environ.Source) *Catalog {
	if path == "" {
		return Load(bundledCatalog, env)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("failed to read provider catalog, starting with an empty one",
			"path", path, "error", err)
		return New(nil, env)
	}
	return Load(data, env)
}

// Len returns the number of providers in the catalog, available or not.
func (c *Catalog) Len() int { return len(c.providers) }

// AvailableProviders returns the providers that are enabled and have a
// resolvable credential, in catalog order.
func (c *Catalog) AvailableProviders() []Provider {
	var out []Provider
	for _, p := range c.providers {
		if p.Enabled && c.hasCredential(p) {
			out = append(out, p)
		}
	}
	return out
}

// ModelsForProvider returns the enabled models of the named provider, in
// catalog order. Unknown or disabled providers yield an empty slice.
func (c *Catalog) ModelsForProvider(name string) []Model {
	p, ok := c.byName[name]
	if !ok || !p.Enabled {
		return nil
	}
	return p.EnabledModels()
}

// ProviderConfig returns the full entry for the named provider, but only
// when it exists, is enabled, and has a resolvable credential.
func (c *Catalog) ProviderConfig(name string) (Provider, bool) {
	p, ok := c.byName[name]
	if !ok || !p.Enabled || !c.hasCredential(p) {
		return Provider{}, false
	}
	return p, true
}

// ValidateProviderModel reports whether provider names an available
// provider with an enabled model named model. Empty arguments are always
// invalid.
func (c *Catalog) ValidateProviderModel(provider, model string) bool {
	if provider == "" || model == "" {
		return false
	}
	p, ok := c.ProviderConfig(provider)
	if !ok {
		return false
	}
	for _, m := range p.Models {
		if m.Enabled && m.Name == model {
			return true
		}
	}
	return false
}

// ResolveCredential reads the provider's API key from its configured
// environment variable. Absent when the provider is unknown, has no
// credential variable, or the variable is unset or empty.
func (c *Catalog) ResolveCredential(name string) (string, bool) {
	p, ok := c.byName[name]
	if !ok || p.APIKeyEnv == "" {
		return "", false
	}
	key := c.env.Get(p.APIKeyEnv)
	if key == "" {
		return "", false
	}
	return key, true
}

// ResolveBaseURL returns the provider's base URL: the value of its
// baseUrlEnv variable when set and non-empty, else the literal baseUrl
// field, else absent; the caller falls back to the provider's default
// endpoint.
func (c *Catalog) ResolveBaseURL(name string) (string, bool) {
	p, ok := c.byName[name]
	if !ok {
		return "", false
	}
	if p.BaseURLEnv != "" {
		if v := c.env.Get(p.BaseURLEnv); v != "" {
			return v, true
		}
	}
	if p.BaseURL != "" {
		return p.BaseURL, true
	}
	return "", false
}

// hasCredential decides whether a provider is usable from this
// environment. Ollama is the one special case: it needs no API key and
// counts as credentialed when its host variable resolves, or when it
// declares no host variable at all (implicit default host).
func (c *Catalog) hasCredential(p Provider) bool {
	if p.Name == ProviderOllama {
		if p.BaseURLEnv != "" {
			return c.env.Get(p.BaseURLEnv) != ""
		}
		return true
	}
	if p.APIKeyEnv == "" {
		return false
	}
	return c.env.Get(p.APIKeyEnv) != ""
}
