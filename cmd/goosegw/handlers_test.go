package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goosegateway "github.com/launchpad-labs/goose-gateway"
	"github.com/launchpad-labs/goose-gateway/internal/environ"
)

func newTestGateway(t *testing.T, env environ.Static) *goosegateway.Gateway {
	t.Helper()
	return goosegateway.New(goosegateway.DefaultConfig(), goosegateway.WithEnv(env))
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestProvidersEndpoint(t *testing.T) {
	gw := newTestGateway(t, environ.Static{"ANTHROPIC_API_KEY": "sk-ant-test"})
	router := newRouter(gw)

	rec := get(t, router, "/api/providers")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp providersResponse
	decode(t, rec, &resp)
	require.Len(t, resp.Providers, 1)
	assert.Equal(t, "anthropic", resp.Providers[0].Name)
	assert.NotZero(t, resp.Providers[0].ModelCount)
}

func TestProvidersEndpointNoCredentials(t *testing.T) {
	gw := newTestGateway(t, environ.Static{})
	router := newRouter(gw)

	rec := get(t, router, "/api/providers")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp providersResponse
	decode(t, rec, &resp)
	assert.Empty(t, resp.Providers, "no credentials means no available providers")
}

func TestProviderModelsEndpoint(t *testing.T) {
	gw := newTestGateway(t, environ.Static{"OPENAI_API_KEY": "sk-test"})
	router := newRouter(gw)

	rec := get(t, router, "/api/providers/openai/models")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp modelsResponse
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.Models)
	assert.Empty(t, resp.Error)
}

func TestProviderModelsNotFound(t *testing.T) {
	gw := newTestGateway(t, environ.Static{"OPENAI_API_KEY": "sk-test"})
	router := newRouter(gw)

	for _, path := range []string{
		"/api/providers/mistral/models",   // unknown provider
		"/api/providers/anthropic/models", // known but no credential
	} {
		rec := get(t, router, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)

		var resp modelsResponse
		decode(t, rec, &resp)
		assert.NotEmpty(t, resp.Error, path)
		assert.Empty(t, resp.Models, path)
	}
}

func TestHealthEndpoint(t *testing.T) {
	gw := newTestGateway(t, environ.Static{"ANTHROPIC_API_KEY": "sk-ant-test"})
	router := newRouter(gw)

	rec := get(t, router, "/api/chat/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var status goosegateway.HealthStatus
	decode(t, rec, &status)
	assert.False(t, status.Available, "no CLI path configured")
	assert.Equal(t, "not configured", status.Version)
	assert.Equal(t, "anthropic", status.Provider)
}

func TestDiagnosticsEnvEndpoint(t *testing.T) {
	gw := newTestGateway(t, environ.Static{
		"OPENAI_API_KEY": "sk-0123456789abcdef",
		"IRRELEVANT_VAR": "hidden",
	})
	router := newRouter(gw)

	rec := get(t, router, "/api/diagnostics/env")
	require.Equal(t, http.StatusOK, rec.Code)

	var report map[string]string
	decode(t, rec, &report)
	assert.Equal(t, "sk-0123456...cdef", report["OPENAI_API_KEY"])
	assert.NotContains(t, report, "IRRELEVANT_VAR")
}

func TestAgentTestEndpointNoCLI(t *testing.T) {
	gw := newTestGateway(t, environ.Static{})
	router := newRouter(gw)

	rec := get(t, router, "/api/diagnostics/agent-test")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp agentTestResponse
	decode(t, rec, &resp)
	assert.Equal(t, "spawn_failed", resp.State)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestMetricsEndpoint(t *testing.T) {
	gw := newTestGateway(t, environ.Static{})
	router := newRouter(gw)

	rec := get(t, router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goosegw_catalog_providers")
}

func TestRequestIDEchoed(t *testing.T) {
	gw := newTestGateway(t, environ.Static{})
	router := newRouter(gw)

	req := httptest.NewRequest(http.MethodGet, "/api/providers", nil)
	req.Header.Set("X-Request-ID", "test-trace-1234")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "test-trace-1234", rec.Header().Get("X-Request-ID"))
}
