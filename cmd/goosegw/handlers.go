package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	goosegateway "github.com/launchpad-labs/goose-gateway"
	"github.com/launchpad-labs/goose-gateway/agent"
	"github.com/launchpad-labs/goose-gateway/internal/logging"
)

// newRouter builds the HTTP router.
func newRouter(gw *goosegateway.Gateway) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logging.Middleware)
	r.Use(corsMiddleware(gw.Config().Server.CORSOrigins...))

	r.Route("/api", func(r chi.Router) {
		r.Get("/providers", handleProviders(gw))
		r.Get("/providers/{provider}/models", handleProviderModels(gw))
		r.Get("/chat/health", handleHealth(gw))
		r.Route("/diagnostics", func(r chi.Router) {
			r.Get("/env", handleDiagnosticsEnv(gw))
			r.Get("/endpoint-test", handleEndpointTest(gw))
			r.Get("/agent-test", handleAgentTest(gw))
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// --------------------------------------------------------------- Providers --

type providerSummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	ModelCount  int    `json:"modelCount"`
}

type providersResponse struct {
	Providers []providerSummary `json:"providers"`
	Error     string            `json:"error,omitempty"`
}

type modelSummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type modelsResponse struct {
	Models []modelSummary `json:"models"`
	Error  string         `json:"error,omitempty"`
}

func handleProviders(gw *goosegateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		available := gw.Catalog().AvailableProviders()
		resp := providersResponse{Providers: make([]providerSummary, 0, len(available))}
		for _, p := range available {
			resp.Providers = append(resp.Providers, providerSummary{
				Name:        p.Name,
				DisplayName: p.DisplayName,
				ModelCount:  len(p.EnabledModels()),
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleProviderModels(gw *goosegateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "provider")
		if _, ok := gw.Catalog().ProviderConfig(name); !ok {
			writeJSON(w, http.StatusNotFound, modelsResponse{
				Models: []modelSummary{},
				Error:  "Provider not found or not available",
			})
			return
		}
		models := gw.Catalog().ModelsForProvider(name)
		resp := modelsResponse{Models: make([]modelSummary, 0, len(models))}
		for _, m := range models {
			resp.Models = append(resp.Models, modelSummary{Name: m.Name, DisplayName: m.DisplayName})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ------------------------------------------------------------------ Health --

func handleHealth(gw *goosegateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, gw.Health(r.Context()))
	}
}

// ------------------------------------------------------------- Diagnostics --

func handleDiagnosticsEnv(gw *goosegateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, gw.EnvironmentReport())
	}
}

type agentTestResponse struct {
	State    string `json:"state"`
	Success  bool   `json:"success"`
	ExitCode int    `json:"exitCode"`
	Output   string `json:"output,omitempty"`
	Error    string `json:"error,omitempty"`
}

func handleAgentTest(gw *goosegateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context())
		outcome := gw.AgentProbe(r.Context())

		resp := agentTestResponse{
			State:    string(outcome.State),
			Success:  outcome.Success(),
			ExitCode: outcome.ExitCode,
			Output:   outcome.Output,
		}
		if outcome.Err != nil {
			resp.Error = outcome.Err.Error()
		}

		switch outcome.State {
		case agent.StateSpawnFailed:
			log.Error("agent probe could not start", "error", outcome.Err)
		case agent.StateTimedOut:
			log.Warn("agent probe timed out", "partial_bytes", len(outcome.Output))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
