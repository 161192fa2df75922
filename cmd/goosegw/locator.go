package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/launchpad-labs/goose-gateway/discovery"
)

// httpLocator asks the platform's config endpoint for the models it
// serves and filters them by capability tag. It implements
// discovery.Locator; the discovery cache guarantees it is called at most
// once per process, so no caching happens here.
type httpLocator struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ discovery.Locator = (*httpLocator)(nil)

func newHTTPLocator(baseURL, apiKey string) *httpLocator {
	return &httpLocator{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// locatorModel is one entry in the platform's model listing.
type locatorModel struct {
	Name         string   `json:"name"`
	Capabilities []string `json:"capabilities"`
}

type locatorResponse struct {
	Models []locatorModel `json:"models"`
}

// ModelNamesByCapability implements discovery.Locator. The platform's
// ordering is preserved.
func (l *httpLocator) ModelNamesByCapability(ctx context.Context, capability string) ([]string, error) {
	endpoint, err := url.JoinPath(l.baseURL, "models")
	if err != nil {
		return nil, fmt.Errorf("locator url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if l.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+l.apiKey)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("locator request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("locator request: HTTP %d", resp.StatusCode)
	}

	var body locatorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("locator response: %w", err)
	}

	var names []string
	for _, m := range body.Models {
		for _, c := range m.Capabilities {
			if c == capability {
				names = append(names, m.Name)
				break
			}
		}
	}
	return names, nil
}
