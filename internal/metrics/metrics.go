// Package metrics registers the Prometheus metrics used by the gateway.
// Import this package (via blank import) from the server entry point to
// register all metrics before the /metrics handler is mounted.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DiscoveryResolutions counts the terminal outcomes of platform model
	// discovery ("resolved", "empty", "error"). Discovery runs at most
	// once per process, so each label sees at most one increment.
	DiscoveryResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goosegw_discovery_resolutions_total",
			Help: "Terminal outcomes of platform model discovery.",
		},
		[]string{"outcome"},
	)

	// ConfigResolutions counts effective-configuration resolutions by the
	// source that won ("discovered", "environment").
	ConfigResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goosegw_config_resolutions_total",
			Help: "Effective provider/model resolutions by winning source.",
		},
		[]string{"source"},
	)

	// CatalogProviders tracks how many providers the loaded catalog holds,
	// regardless of credential availability.
	CatalogProviders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "goosegw_catalog_providers",
			Help: "Number of providers in the loaded catalog.",
		},
	)

	// AgentInvocations counts agent CLI invocations by terminal state
	// ("completed", "timed_out", "spawn_failed").
	AgentInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goosegw_agent_invocations_total",
			Help: "Agent CLI invocations by terminal state.",
		},
		[]string{"state"},
	)

	// AgentInvocationDuration observes wall-clock agent invocation time in
	// seconds, including timed-out runs.
	AgentInvocationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "goosegw_agent_invocation_duration_seconds",
			Help:    "Wall-clock duration of agent CLI invocations in seconds.",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)
)
