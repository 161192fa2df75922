package goosegateway

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchpad-labs/goose-gateway/internal/environ"
	"github.com/launchpad-labs/goose-gateway/resolver"
)

func TestNewGatewayEmbeddedCatalog(t *testing.T) {
	g := New(DefaultConfig(), WithEnv(environ.Static{}))
	require.NotZero(t, g.Catalog().Len(), "empty catalog path should load the embedded default")
}

func TestNewGatewayBrokenCatalogStillStarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("providers: [not: valid"), 0o644))

	cfg := DefaultConfig()
	cfg.Catalog.Path = path
	g := New(cfg, WithEnv(environ.Static{}))
	assert.Zero(t, g.Catalog().Len())
	assert.Empty(t, g.Catalog().AvailableProviders())
}

func TestGatewayResolve(t *testing.T) {
	env := environ.Static{"ANTHROPIC_API_KEY": "sk-ant-test"}
	g := New(DefaultConfig(), WithEnv(env))

	cfg := g.Resolve(context.Background())
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, resolver.DefaultModel, cfg.Model)
	assert.Equal(t, resolver.SourceEnvironment, cfg.Source)
}

func TestHealthNotConfigured(t *testing.T) {
	g := New(DefaultConfig(), WithEnv(environ.Static{"OPENAI_API_KEY": "sk"}))

	status := g.Health(context.Background())
	assert.False(t, status.Available)
	assert.Equal(t, "not configured", status.Version)
	assert.Contains(t, status.Message, "GOOSE_CLI_PATH")
	assert.Equal(t, "openai", status.Provider, "health carries the resolution snapshot")
}

func TestHealthMissingBinary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Agent.Path = "/nonexistent/goose"
	g := New(cfg, WithEnv(environ.Static{}))

	status := g.Health(context.Background())
	assert.False(t, status.Available)
	assert.Equal(t, "unavailable", status.Version)
}

func TestEnvironmentReportMasksSecrets(t *testing.T) {
	env := environ.Static{
		"OPENAI_API_KEY": "sk-0123456789abcdef",
		"GOOSE_MODEL":    "gpt-4o",
		"SHELL":          "/bin/bash",
	}
	g := New(DefaultConfig(), WithEnv(env))

	report := g.EnvironmentReport()
	assert.Equal(t, "sk-0123456...cdef", report["OPENAI_API_KEY"])
	assert.Equal(t, "gpt-4o", report["GOOSE_MODEL"])
	assert.NotContains(t, report, "SHELL")
}
