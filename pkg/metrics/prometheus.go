package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	seriesPoints *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundcorr_fetches_total",
				Help: "Total number of quota history fetch attempts by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundcorr_errors_total",
				Help: "Total number of per-identifier collection errors",
			},
			[]string{"kind"},
		),
		seriesPoints: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fundcorr_series_points",
				Help: "Return observations collected for a fund in the last run",
			},
			[]string{"identifier"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fundcorr_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records one fetch attempt by outcome.
func (r *Recorder) RecordFetch(outcome string) {
	r.fetchesTotal.WithLabelValues(outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSeriesPoints records the size of a collected return series.
func (r *Recorder) RecordSeriesPoints(identifier string, n int) {
	r.seriesPoints.WithLabelValues(identifier).Set(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
