package schema

import (
	"fmt"

	"github.com/cuemby/modcluster/pkg/symbol"
)

// Generation describes what one schema version can represent.
//
// Attributes are expressed in current-model terms so readers and writers
// of every version share the in-memory shape. Defines answers in the
// legacy management-model terms an older peer understands, where
// load-balancing-group is still called domain before 1.1.0.
type Generation struct {
	Version Version
	attrs   map[ResourceKind][]AttributeDefinition
	defines map[ResourceKind]map[symbol.Symbol]bool
}

// legacyExpressions lists the attributes that accepted ${...} before 1.2.0.
var legacyExpressions = map[ResourceKind]map[symbol.Symbol]bool{
	ResourceConfig: {
		symbol.ProxyList:            true,
		symbol.ProxyURL:             true,
		symbol.AdvertiseSecurityKey: true,
		symbol.ExcludedContexts:     true,
		symbol.LoadBalancingGroup:   true,
	},
	ResourceSSL: {
		symbol.Password:           true,
		symbol.CertificateKeyFile: true,
		symbol.CACertificateFile:  true,
	},
}

// introduced records the first version defining an attribute. Attributes
// absent from the map exist in every generation.
var introduced = map[ResourceKind]map[symbol.Symbol]Version{
	ResourceConfig: {
		symbol.Proxies:                 Version1_1,
		symbol.Connector:               Version1_2,
		symbol.SessionDrainingStrategy: Version1_2,
		symbol.StatusInterval:          Version1_2,
	},
}

var generations = func() map[Version]*Generation {
	out := make(map[Version]*Generation)
	for _, v := range Versions() {
		out[v] = newGeneration(v)
	}
	return out
}()

func newGeneration(v Version) *Generation {
	g := &Generation{
		Version: v,
		attrs:   make(map[ResourceKind][]AttributeDefinition),
		defines: make(map[ResourceKind]map[symbol.Symbol]bool),
	}
	for _, kind := range ResourceKinds() {
		defined := make(map[symbol.Symbol]bool)
		var attrs []AttributeDefinition
		for _, def := range attributeSets[kind] {
			if since, ok := introduced[kind][def.Name]; ok && v.Less(since) {
				continue
			}
			if v.Less(Version1_2) {
				def.AllowExpression = legacyExpressions[kind][def.Name]
			}
			attrs = append(attrs, def)

			name := def.Name
			if name == symbol.LoadBalancingGroup && v.Less(Version1_1) {
				name = symbol.Domain
			}
			defined[name] = true
		}
		for _, c := range Children(kind) {
			defined[c.Kind.Symbol()] = true
		}
		g.attrs[kind] = attrs
		g.defines[kind] = defined
	}
	return g
}

// GenerationFor returns the descriptor of v.
func GenerationFor(v Version) (*Generation, error) {
	g, ok := generations[v]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, v)
	}
	return g, nil
}

// Attributes returns the ordered attribute set of k as seen by this
// generation, with its expression support applied.
func (g *Generation) Attributes(k ResourceKind) []AttributeDefinition {
	out := make([]AttributeDefinition, len(g.attrs[k]))
	copy(out, g.attrs[k])
	return out
}

// Lookup finds the definition of s on k within this generation.
func (g *Generation) Lookup(k ResourceKind, s symbol.Symbol) (AttributeDefinition, bool) {
	for _, def := range g.attrs[k] {
		if def.Name == s {
			return def, true
		}
	}
	return AttributeDefinition{}, false
}

// Defines reports whether a peer of this generation understands s on k.
func (g *Generation) Defines(k ResourceKind, s symbol.Symbol) bool {
	return g.defines[k][s]
}

// AllowsExpression reports whether s on k may hold ${...} in this generation.
func (g *Generation) AllowsExpression(k ResourceKind, s symbol.Symbol) bool {
	def, ok := g.Lookup(k, s)
	return ok && def.AllowExpression
}
