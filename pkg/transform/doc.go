/*
Package transform downgrades a current configuration tree to the shape an
older peer understands.

A mixed-version cluster hands each member the configuration in the schema
generation that member runs. Every attribute whose meaning changed across
generations has one or more rules. A rule either rejects the value, which
fails the whole transformation, or converts it. Convert only runs once all
rejections of the attribute passed.

# Rules

	resource               attribute                  below  behaviour
	config, ssl, ...       expression-capable in 1.2  1.2.0  reject ${...}
	(custom-)load-metric   capacity                   1.2.0  reject > MaxInt32, round to int
	(custom-)load-metric   property                   1.1.0  reject > 1, flatten one
	config                 connector                  1.2.0  drop if default, else reject
	config                 session-draining-strategy  1.2.0  drop if default, else reject
	config                 status-interval            1.2.0  drop if default, else reject
	config                 proxies                    1.1.0  drop if empty, else reject
	config                 load-balancing-group       1.1.0  rename to domain

The table is data: Rules lists it and RulesFor selects the rules in effect
for a target.

# Usage

	out, err := transform.Transform(tree, schema.Version1_0)
	var rejected *transform.RejectedError
	if errors.As(err, &rejected) {
		// the peer cannot join with this configuration
	}

Nested resources are transformed before their parents and the first
rejection aborts. The input tree is never modified.
*/
package transform
