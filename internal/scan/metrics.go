package scan

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

var (
	filesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sloclass",
			Subsystem: "scan",
			Name:      "files_total",
			Help:      "counter for scanned files by language and result",
		}, []string{"language", "status"})
	slocCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sloclass",
			Subsystem: "scan",
			Name:      "sloc_total",
			Help:      "counter for source lines of code found",
		}, []string{"language"})
	physicalCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sloclass",
			Subsystem: "scan",
			Name:      "physical_lines_total",
			Help:      "counter for physical lines read",
		}, []string{"language"})
	fileDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sloclass",
			Subsystem: "scan",
			Name:      "file_duration_seconds",
			Help:      "Bucketed histogram of classification time (s) of files",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 20),
		})
)

// RegisterMetrics registers metrics.
func RegisterMetrics(registry *prometheus.Registry) {
	registry.MustRegister(filesCounter)
	registry.MustRegister(slocCounter)
	registry.MustRegister(physicalCounter)
	registry.MustRegister(fileDurationHistogram)
}

// WriteMetrics writes the registry to path in the Prometheus text format.
func WriteMetrics(registry *prometheus.Registry, path string) error {
	return prometheus.WriteToTextfile(path, registry)
}

func observe(r FileResult, seconds float64) {
	language := string(r.Language)
	filesCounter.WithLabelValues(language, r.Status()).Inc()
	if r.Err == nil {
		slocCounter.WithLabelValues(language).Add(float64(r.Summary.SLOC))
		physicalCounter.WithLabelValues(language).Add(float64(r.Summary.Physical))
	}
	fileDurationHistogram.Observe(seconds)
}

// ReadCounter reports the current value of the counter.
func ReadCounter(counter prometheus.Counter) float64 {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		return math.NaN()
	}
	return metric.Counter.GetValue()
}
