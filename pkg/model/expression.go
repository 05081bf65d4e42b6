package model

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnresolved is returned when an expression references a name that the
// lookup cannot supply and no default is given.
var ErrUnresolved = errors.New("unresolved expression")

// Lookup supplies the value of a name referenced from ${...}.
type Lookup func(name string) (string, bool)

// EnvLookup resolves "env.NAME" from the process environment and any
// other name from lookup, which may be nil.
func EnvLookup(lookup Lookup) Lookup {
	return func(name string) (string, bool) {
		if strings.HasPrefix(name, "env.") {
			return os.LookupEnv(strings.TrimPrefix(name, "env."))
		}
		if lookup == nil {
			return "", false
		}
		return lookup(name)
	}
}

// ResolveExpression expands every ${a,b:default} reference in expr.
// Alternatives are tried left to right before falling back to the default.
func ResolveExpression(expr string, lookup Lookup) (string, error) {
	var b strings.Builder
	rest := expr
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		end := strings.Index(rest[start:], "}")
		if end < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		end += start
		b.WriteString(rest[:start])

		body := rest[start+2 : end]
		names, def, hasDef := strings.Cut(body, ":")
		resolved := false
		for _, name := range strings.Split(names, ",") {
			name = strings.TrimSpace(name)
			if name == "" || lookup == nil {
				continue
			}
			if val, ok := lookup(name); ok {
				b.WriteString(val)
				resolved = true
				break
			}
		}
		if !resolved {
			if !hasDef {
				return "", fmt.Errorf("%w: ${%s}", ErrUnresolved, body)
			}
			b.WriteString(def)
		}
		rest = rest[end+1:]
	}
}

// Resolve returns v with an expression replaced by its resolved text.
// Non-expression values are returned unchanged.
func Resolve(v Value, lookup Lookup) (Value, error) {
	expr, ok := v.ExpressionValue()
	if !ok {
		return v, nil
	}
	s, err := ResolveExpression(expr, lookup)
	if err != nil {
		return Undefined(), err
	}
	return String(s), nil
}
