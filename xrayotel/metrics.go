package xrayotel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	converted prometheus.Counter
	failed    prometheus.Counter
	size      prometheus.Histogram
}

// newMetrics registers on reg, which may be nil. Each exporter carries
// its id as a constant label so that several can share a registry.
func newMetrics(reg prometheus.Registerer, exporterID string) *metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"exporter": exporterID}
	return &metrics{
		converted: factory.NewCounter(prometheus.CounterOpts{
			Name:        "xray_segments_converted_total",
			Help:        "Spans converted to X-Ray segment documents and written to the sink.",
			ConstLabels: labels,
		}),
		failed: factory.NewCounter(prometheus.CounterOpts{
			Name:        "xray_segments_failed_total",
			Help:        "Spans that could not be converted or written.",
			ConstLabels: labels,
		}),
		size: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "xray_segment_bytes",
			Help:        "Size of segment documents.",
			Buckets:     prometheus.ExponentialBuckets(256, 2, 8),
			ConstLabels: labels,
		}),
	}
}
