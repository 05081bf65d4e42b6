/*
Package model holds the generic configuration tree that every other
package reads, writes and transforms.

A Tree is an ordered mapping from symbol.Symbol to Value. Insertion order
is kept so that output follows the order of the source document. Values
are immutable once built and trees are only shared after Clone.

# Values

	┌──────────────────────── MODEL ─────────────────────────┐
	│                                                        │
	│   Tree ── key order ──► [ping, balancer, proxies, ...] │
	│     │                                                  │
	│     └── Value                                          │
	│          ├── Undefined                                 │
	│          ├── String · Int · Bool · Double              │
	│          ├── Expression   "${name:default}"            │
	│          ├── Property     {name, value}                │
	│          ├── List         [Value, ...]                 │
	│          └── Object       *Tree                        │
	└────────────────────────────────────────────────────────┘

Text builds a string Value, or an Expression when the text contains a
${...} reference. Typed accessors return a second bool that is false when
the kind does not match:

	if n, ok := tree.Get(symbol.Ping).IntValue(); ok {
		// ...
	}

# Expressions

Expression values are stored verbatim. Resolve expands them against a
Lookup on demand:

	v, err := model.Resolve(value, model.EnvLookup(props))

A reference is written ${a,b:default}. Alternatives are tried left to
right and the default is used when none resolve. Names prefixed with env.
are read from the process environment by EnvLookup. A reference with no
value and no default fails with ErrUnresolved.

# Output

Tree and Value implement yaml.Marshaler. The CLI prints trees as YAML in
key order.
*/
package model
