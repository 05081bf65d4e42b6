/*
Package schema defines the attribute schema of the mod_cluster subsystem.

Every resource of the subsystem owns an ordered list of attribute
definitions. The order is the canonical serialization order of the XML
writer and is relied on by round-trip tests, so definitions are never
sorted or regrouped.

# Resources

	subsystem
	└── mod-cluster-config            ResourceConfig
	    ├── simple-load-provider      ResourceSimpleLoadProvider
	    ├── dynamic-load-provider     ResourceDynamicLoadProvider
	    │   ├── load-metric*          ResourceLoadMetric
	    │   └── custom-load-metric*   ResourceCustomLoadMetric
	    └── ssl                       ResourceSSL

Entries marked * repeat and are stored as a list of objects.

# Validation

ValidateAndCoerce is the single gate for values entering a tree. It
converts text to the declared type, runs the corrector and then the
validator, and falls back to the declared default for absent values:

	def, _ := schema.Lookup(schema.ResourceConfig, symbol.NodeTimeout)
	v, err := schema.ValidateAndCoerce(schema.ResourceConfig, model.String("0"), def)
	// v == model.Int(-1): zero means unlimited

Failures are *ValidationError values naming the resource and attribute.

# Generations

Three schema versions exist. GenerationFor returns a descriptor exposing
the attribute subset and expression support of one version:

	1.0.0  flat root element, expressions on a handful of string attributes
	1.1.0  grouped advertise, sticky-session, proxies and contexts elements
	1.2.0  connector, session-draining-strategy and status-interval; broad
	       expression support; ssl addressed as its own resource

Generation attribute sets always use current-model symbols so every reader
produces the same in-memory shape. Defines answers for the legacy
management model instead, where load-balancing-group is named domain
before 1.1.0.

# Defaults

Two sets of dynamic-load-provider defaults exist and are kept apart.
Effective applies the declarative defaults of this package (history 10,
decay 2) for the runtime collaborator. The management layer synthesizes a
missing provider with its own constants when a metric is added.
*/
package schema
