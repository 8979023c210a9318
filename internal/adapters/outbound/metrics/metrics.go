package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/layerlint/layerlint/internal/domain"
)

const namespace = "layerlint"

// Recorder implements domain.MetricsSink on a private Prometheus registry.
// Flush writes the registry in textfile-collector format when a path is set.
type Recorder struct {
	registry *prometheus.Registry
	path     string

	runs         prometheus.Counter
	duration     prometheus.Histogram
	files        *prometheus.CounterVec
	diagnostics  *prometheus.CounterVec
	ruleFailures *prometheus.CounterVec
	suppressed   prometheus.Counter
}

// New creates a Recorder. An empty path disables Flush.
func New(path string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		path:     path,
		runs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of lint runs",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of lint runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		files: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Total number of files seen by status",
		}, []string{"status"}),
		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Total number of diagnostics by rule and severity",
		}, []string{"rule", "severity"}),
		ruleFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_failures_total",
			Help:      "Total number of isolated rule failures by rule",
		}, []string{"rule"}),
		suppressed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suppressed_total",
			Help:      "Total number of diagnostics suppressed by the baseline",
		}),
	}
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveReport(report *domain.Report, elapsed time.Duration) {
	r.runs.Inc()
	r.duration.Observe(elapsed.Seconds())

	r.files.WithLabelValues("analyzed").Add(float64(report.Summary.FilesAnalyzed))
	r.files.WithLabelValues("excluded").Add(float64(report.Summary.FilesExcluded))
	r.files.WithLabelValues("failed").Add(float64(report.Summary.FilesFailed))
	r.suppressed.Add(float64(report.Summary.Suppressed))

	for _, f := range report.Files {
		for _, d := range f.Diagnostics {
			r.diagnostics.WithLabelValues(d.RuleID, string(d.Severity)).Inc()
		}
		for _, fail := range f.Failures {
			r.ruleFailures.WithLabelValues(fail.RuleID).Inc()
		}
	}
}

func (r *Recorder) Flush() error {
	if r.path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", r.path, err)
	}
	return nil
}
