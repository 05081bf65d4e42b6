package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Codec metrics
	DocumentsParsedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modcluster_documents_parsed_total",
			Help: "Total number of subsystem documents parsed by namespace",
		},
		[]string{"namespace"},
	)

	ParseErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modcluster_parse_errors_total",
			Help: "Total number of failed parses by error kind",
		},
		[]string{"kind"},
	)

	// Transformer metrics
	TransformationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modcluster_transformations_total",
			Help: "Total number of model transformations by target version and outcome",
		},
		[]string{"target", "outcome"},
	)

	TransformationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "modcluster_transformation_duration_seconds",
			Help:    "Time taken to transform a model to an older version in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Management metrics
	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modcluster_operations_total",
			Help: "Total number of management operations by name and outcome",
		},
		[]string{"operation", "outcome"},
	)

	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modcluster_operation_duration_seconds",
			Help:    "Time taken to apply a management operation in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Watch metrics
	ReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modcluster_reloads_total",
			Help: "Total number of configuration file reloads by outcome",
		},
		[]string{"outcome"},
	)

	ConfiguredLoadMetrics = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "modcluster_configured_load_metrics",
			Help: "Number of load metrics in the current configuration by kind",
		},
		[]string{"kind"},
	)

	ConfiguredProxies = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "modcluster_configured_proxies",
			Help: "Number of proxies listed in the current configuration",
		},
	)
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

func init() {
	// Register all metrics
	prometheus.MustRegister(DocumentsParsedTotal)
	prometheus.MustRegister(ParseErrorsTotal)
	prometheus.MustRegister(TransformationsTotal)
	prometheus.MustRegister(TransformationDuration)
	prometheus.MustRegister(OperationsTotal)
	prometheus.MustRegister(OperationDuration)
	prometheus.MustRegister(ReloadsTotal)
	prometheus.MustRegister(ConfiguredLoadMetrics)
	prometheus.MustRegister(ConfiguredProxies)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
