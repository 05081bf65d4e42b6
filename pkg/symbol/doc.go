/*
Package symbol interns every attribute and element name of the mod_cluster
subsystem schema.

Names are compared as small integers everywhere else in the module. The
XML readers translate a local name once with ForName and never look at
the string again; writers and YAML output go the other way with String.

# Lookup

	┌─────────────────────────── SYMBOL ────────────────────────────┐
	│                                                               │
	│   "load-balancing-group" ──► ForName ──► LoadBalancingGroup   │
	│   "no-such-name"         ──► ForName ──► Unknown              │
	│                                                               │
	│   LoadBalancingGroup ──► String    ──► "load-balancing-group" │
	│   Unknown            ──► String    ──► "unknown"              │
	│   Unknown            ──► LocalName ──► ""                     │
	└───────────────────────────────────────────────────────────────┘

# Naming

Every symbol carries exactly one wire name and every wire name maps back
to exactly one symbol. Legacy spellings are symbols of their own: Domain
is the 1.0 name of LoadBalancingGroup and the codec decides which one a
layout uses.

All returns the known symbols in declaration order: elements, then the
attributes of each resource, then runtime operation parameters.

# Usage

	s := symbol.ForName(attr.Name.Local)
	if !s.IsKnown() {
		return fmt.Errorf("unexpected attribute %q", attr.Name.Local)
	}
*/
package symbol
