/*
Package management applies management operations to the mod_cluster
configuration.

The Controller holds the current mod-cluster-config tree. Operations arrive
as flat name to value payloads, are validated by schema.Coerce and are
applied to a private copy that replaces the current tree only when the
operation succeeds. Readers of Config always get a copy, so concurrent
readers never observe a partial change.

# Operations

	configuration   add, remove, write-attribute, undefine-attribute,
	                read-resource, add-metric, remove-metric,
	                add-custom-metric, remove-custom-metric
	ssl             add, remove, write-attribute, undefine-attribute,
	                read-resource

domain is still accepted on the configuration as the deprecated name of
load-balancing-group. Supplying both in one payload fails validation.

# Provider Synthesis

Metric operations need a dynamic-load-provider. When none exists one is
created with history 9 and decay 2, and a simple-load-provider, if any, is
removed. These numbers are the values of the load provider library and
differ from the schema defaults (history 10, decay 2) that read-resource
reports for a provider created without them.

A metric is identified by its type, or by its class for custom metrics.
Adding one that is already configured replaces it in place.

	c := management.NewController(broker)
	_ = c.Add(codec.ConfigAddress, nil)
	_ = c.AddCustomMetric(map[string]any{"class": "org.example.Metric"})

	cfg, _ := c.ReadResource(codec.ConfigAddress, false)
	// dynamic-load-provider: {history: 9, decay: 2, custom-load-metric: [...]}

# Errors

Failures are returned as *OperationError wrapping a *schema.ValidationError,
ErrNotFound or ErrDuplicate. Every operation is counted in
modcluster_operations_total, timed in modcluster_operation_duration_seconds,
and accepted changes are published on the event broker.
*/
package management
