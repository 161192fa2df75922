package main

import (
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	goosegateway "github.com/launchpad-labs/goose-gateway"
	"github.com/launchpad-labs/goose-gateway/internal/logging"
	"github.com/launchpad-labs/goose-gateway/resolver"
)

type endpointTestResponse struct {
	Model        string `json:"model"`
	BaseURL      string `json:"baseUrl,omitempty"`
	Source       string `json:"source"`
	APIKeyLength int    `json:"apiKeyLength"`
	Success      bool   `json:"success"`
	Response     string `json:"response,omitempty"`
	Error        string `json:"error,omitempty"`
}

// handleEndpointTest sends one minimal chat completion to the resolved
// OpenAI-compatible endpoint, bypassing the agent CLI, to verify the
// upstream is reachable and authenticated.
func handleEndpointTest(gw *goosegateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context())
		resolved := gw.Resolve(r.Context())

		resp := endpointTestResponse{Model: resolved.Model, Source: resolved.Source}

		var apiKey, baseURL string
		if resolved.Source == resolver.SourceDiscovered {
			if m, ok := gw.Discovery().ModelInfo(r.Context()); ok {
				apiKey, baseURL = m.APIKey, m.BaseURL
			}
		} else {
			apiKey, _ = gw.Catalog().ResolveCredential(resolved.Provider)
			baseURL, _ = gw.Catalog().ResolveBaseURL(resolved.Provider)
		}
		resp.BaseURL = baseURL
		resp.APIKeyLength = len(apiKey)

		if apiKey == "" {
			resp.Error = "no API key resolved for provider " + resolved.Provider
			writeJSON(w, http.StatusOK, resp)
			return
		}

		opts := []option.RequestOption{option.WithAPIKey(apiKey)}
		if baseURL != "" {
			opts = append(opts, option.WithBaseURL(baseURL))
		}
		client := openai.NewClient(opts...)

		log.Info("probing resolved endpoint", "base_url", baseURL, "model", resolved.Model)
		completion, err := client.Chat.Completions.New(r.Context(), openai.ChatCompletionNewParams{
			Model: resolved.Model,
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage("Say hello"),
			},
			MaxTokens: openai.Int(50),
		})
		if err != nil {
			resp.Error = err.Error()
			log.Warn("endpoint probe failed", "error", err)
			writeJSON(w, http.StatusOK, resp)
			return
		}

		resp.Success = true
		if len(completion.Choices) > 0 {
			resp.Response = completion.Choices[0].Message.Content
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
