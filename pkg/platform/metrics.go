package platform

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the offering metrics. It is kept apart from the default
// registry so textfile exports only carry these series.
var Registry = prometheus.NewRegistry()

var (
	// documentsTotal counts processed documents by command and outcome
	documentsTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "offering_documents_total",
		Help: "Total offering documents processed by command and outcome",
	}, []string{"command", "outcome"})

	// violationsTotal counts rejected documents by failing rule or error kind
	violationsTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "offering_violations_total",
		Help: "Total rejected offerings by rule or error kind",
	}, []string{"reason"})

	// validationDuration tracks parse plus validation latency
	validationDuration = promauto.With(Registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "offering_validation_duration_seconds",
		Help:    "Offering parse and validation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
)

// RecordDocument counts a processed document.
func RecordDocument(command string, ok bool) {
	outcome := "valid"
	if !ok {
		outcome = "invalid"
	}
	documentsTotal.WithLabelValues(command, outcome).Inc()
}

// RecordViolation counts a rejection under reason.
func RecordViolation(reason string) {
	violationsTotal.WithLabelValues(reason).Inc()
}

// ObserveValidation records the duration of one validation in seconds.
func ObserveValidation(seconds float64) {
	validationDuration.Observe(seconds)
}

// WriteMetrics writes the registry in the text exposition format to path.
func WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
