package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsRegisteredWithDefaultRegistry(t *testing.T) {
	// Vectors only appear in gather output once a label child exists.
	DiscoveryResolutions.WithLabelValues("resolved").Inc()
	ConfigResolutions.WithLabelValues("environment").Inc()
	AgentInvocations.WithLabelValues("completed").Inc()
	CatalogProviders.Set(5)
	AgentInvocationDuration.Observe(1.5)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	for _, name := range []string{
		"goosegw_discovery_resolutions_total",
		"goosegw_config_resolutions_total",
		"goosegw_catalog_providers",
		"goosegw_agent_invocations_total",
		"goosegw_agent_invocation_duration_seconds",
	} {
		mf, ok := byName[name]
		if !ok {
			t.Errorf("metric %s not found in the default registry", name)
			continue
		}
		if mf.GetHelp() == "" {
			t.Errorf("metric %s has no help text", name)
		}
	}

	if got := byName["goosegw_agent_invocation_duration_seconds"].GetType(); got != dto.MetricType_HISTOGRAM {
		t.Errorf("duration metric type = %v, want histogram", got)
	}
}

func TestCounterIncrements(t *testing.T) {
	before := testutil.ToFloat64(DiscoveryResolutions.WithLabelValues("error"))
	DiscoveryResolutions.WithLabelValues("error").Inc()
	after := testutil.ToFloat64(DiscoveryResolutions.WithLabelValues("error"))
	if after != before+1 {
		t.Errorf("counter went %v -> %v, want +1", before, after)
	}
}
