package observability

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
)

// newPrometheusReader creates an OTel metric reader that exposes every
// instrument through registry. Each Init gets its own registry so repeated
// initialisation never hits duplicate collector registration.
func newPrometheusReader(registry *prometheus.Registry) (*promexporter.Exporter, error) {
	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return exporter, nil
}

// WriteMetrics gathers every metric family from gatherer and writes them to
// w in the Prometheus text exposition format.
func WriteMetrics(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, family := range families {
		_, err = expfmt.MetricFamilyToText(w, family)
		if err != nil {
			return fmt.Errorf("encode %s: %w", family.GetName(), err)
		}
	}

	return nil
}
