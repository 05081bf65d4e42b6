/*
Package codec reads and writes the mod_cluster subsystem XML for every
supported schema generation.

Three generations exist, told apart by the namespace of the subsystem
element. Each has its own reader; all readers produce the same current
model shape so that callers never see legacy layouts.

# Architecture

	┌──────────────────────── CODEC ─────────────────────────────┐
	│                                                             │
	│   XML ──► stream (strict decoder, position tracking)        │
	│              │                                              │
	│              ▼                                              │
	│   namespace ──► readerFor(version)                          │
	│              ┌──────────┬──────────┬──────────┐             │
	│              │ readerV1 │ readerV2 │ readerV3 │             │
	│              │  flat    │ grouped  │ grouped  │             │
	│              │          │          │ + root   │             │
	│              └────┬─────┴────┬─────┴────┬─────┘             │
	│                   └──────────┼──────────┘                   │
	│                              ▼                              │
	│                   model.Tree (current shape)                │
	│                              │                              │
	│                              ▼                              │
	│   Writer ──► layout of the selected version ──► XML         │
	└─────────────────────────────────────────────────────────────┘

# Layouts

	1.0  urn:jboss:domain:modcluster:1.0
	     every configuration attribute sits on mod-cluster-config;
	     load-balancing-group is spelled domain

	1.1  urn:jboss:domain:modcluster:1.1
	     attributes move into advertise, sticky-session, proxies and
	     contexts child elements

	1.2  urn:jboss:domain:modcluster:1.2 (current)
	     adds connector, session-draining-strategy and status-interval
	     as root attributes; most attributes accept ${...} expressions

# Errors

Every read failure is a *ParseError carrying an ErrorKind and the line and
column of the offending token:

	doc, err := codec.ParseBytes(data)
	if codec.IsKind(err, codec.UnexpectedElement) {
		// ...
	}

Invalid attribute values wrap the underlying *schema.ValidationError.

# Writing

The Writer emits the current layout by default. WithVersion selects an
older one; trees that hold values the older layout cannot carry fail with
ErrUnrepresentable and nothing is written. Downgrade trees with the
transform package first.

	w := codec.NewWriter(codec.WithVersion(schema.Version1_0))
	out, err := w.Marshal(tree)

# Runtime Operations

ParseOperation validates the flat payloads of the runtime operations
(add-proxy, stop-context and friends). NormalizeContext maps the root
context "/" to the empty string.
*/
package codec
