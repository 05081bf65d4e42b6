/*
Package metrics provides Prometheus metrics and health reporting for the
mod_cluster configuration tooling.

All metrics are registered with the default Prometheus registry at package
init and are recorded by the component that owns the event: the codec
counts parses, the transformer counts and times downgrades, the management
controller counts operations and the file watcher counts reloads.

# Architecture

	┌──────────────────── METRICS ─────────────────────────────┐
	│                                                            │
	│  codec.Parse ──────────► documents_parsed_total{namespace}│
	│              └─────────► parse_errors_total{kind}         │
	│                                                            │
	│  transform.Transform ──► transformations_total{target,    │
	│                            outcome}                        │
	│                      └─► transformation_duration_seconds  │
	│                                                            │
	│  management.Controller ► operations_total{operation,      │
	│                            outcome}                        │
	│                      └─► operation_duration_seconds       │
	│                            {operation}                     │
	│                                                            │
	│  watch.Watcher ────────► reloads_total{outcome}           │
	│                                                            │
	│  Collector (ticker) ───► configured_load_metrics{kind}    │
	│                      └─► configured_proxies               │
	└────────────────────────────────────────────────────────────┘

# Metrics Catalog

Counters:

	modcluster_documents_parsed_total{namespace}
	modcluster_parse_errors_total{kind}
	modcluster_transformations_total{target,outcome}
	modcluster_operations_total{operation,outcome}
	modcluster_reloads_total{outcome}

Histograms:

	modcluster_transformation_duration_seconds
	modcluster_operation_duration_seconds{operation}

Gauges, sampled by a Collector from a Source:

	modcluster_configured_load_metrics{kind}
	modcluster_configured_proxies

Outcome labels are one of success, rejected or error.

# Health

The health checker tracks named components. The watcher reports the
"config" component healthy while the watched file parses. /ready returns
503 until every critical component is healthy.

	mux := metrics.Mux() // /metrics, /health, /ready
	go http.ListenAndServe(":9090", mux)

# Usage

	timer := metrics.NewTimer()
	out, err := doWork()
	timer.ObserveDuration(metrics.TransformationDuration)
	metrics.TransformationsTotal.WithLabelValues("1.0.0", metrics.OutcomeSuccess).Inc()
*/
package metrics
