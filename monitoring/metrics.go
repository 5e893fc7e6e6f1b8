package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultApproved    = "approved"
	ResultNotApproved = "not_approved"
	ResultError       = "error"
	ResultNotReady    = "not_ready"
)

var (
	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanpredict_predictions_total",
			Help: "Prediction calls by result",
		},
		[]string{"result"},
	)

	InferenceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loanpredict_inference_duration_seconds",
			Help:    "Forward pass latency",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanpredict_decision_cache_lookups_total",
			Help: "Decision cache lookups",
		},
		[]string{"outcome"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loanpredict_validation_failures_total",
			Help: "Rejected form submissions by field",
		},
		[]string{"field"},
	)

	ModelLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "loanpredict_model_loaded",
			Help: "1 when a model is loaded, labelled with its identity",
		},
		[]string{"name", "version", "model_type"},
	)

	ModelLoadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loanpredict_model_load_failures_total",
			Help: "Failed model loads",
		},
	)
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
