package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchpad-labs/goose-gateway/discovery"
)

func TestHTTPLocatorFiltersByCapability(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"models": [
				{"name": "chat-basic", "capabilities": ["CHAT"]},
				{"name": "agent-pro", "capabilities": ["CHAT", "TOOLS"]},
				{"name": "agent-lite", "capabilities": ["TOOLS"]}
			]
		}`))
	}))
	defer srv.Close()

	loc := newHTTPLocator(srv.URL, "sk-locator")
	names, err := loc.ModelNamesByCapability(context.Background(), discovery.CapabilityTools)
	require.NoError(t, err)

	assert.Equal(t, []string{"agent-pro", "agent-lite"}, names, "listing order must be preserved")
	assert.Equal(t, "Bearer sk-locator", gotAuth)
}

func TestHTTPLocatorNoAuthWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"models": []}`))
	}))
	defer srv.Close()

	loc := newHTTPLocator(srv.URL, "")
	names, err := loc.ModelNamesByCapability(context.Background(), discovery.CapabilityTools)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestHTTPLocatorErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	loc := newHTTPLocator(srv.URL, "")
	_, err := loc.ModelNamesByCapability(context.Background(), discovery.CapabilityTools)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv2.Close()

	loc = newHTTPLocator(srv2.URL, "")
	_, err = loc.ModelNamesByCapability(context.Background(), discovery.CapabilityTools)
	require.Error(t, err)
}
