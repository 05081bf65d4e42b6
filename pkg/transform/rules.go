package transform

import (
	"fmt"
	"math"
	"strings"

	"github.com/cuemby/modcluster/pkg/model"
	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/cuemby/modcluster/pkg/symbol"
)

// RejectFunc returns a non-empty reason when v cannot be sent to an older
// peer.
type RejectFunc func(v model.Value) string

// ConvertFunc narrows v for an older peer. It only runs after every
// RejectFunc of the attribute passed. Returning an undefined value drops
// the attribute.
type ConvertFunc func(v model.Value) model.Value

// Rule is one version-sensitive attribute policy. It applies to targets
// strictly older than Below and only to attributes present in the tree.
type Rule struct {
	Resource  schema.ResourceKind
	Attribute symbol.Symbol
	Below     schema.Version
	Reject    RejectFunc
	Convert   ConvertFunc
	// Rename, when set, is the name the attribute carries for the target.
	Rename symbol.Symbol
}

// AppliesTo reports whether r is in effect for target.
func (r Rule) AppliesTo(target schema.Version) bool {
	return target.Less(r.Below)
}

// Actions describes what r does, e.g. "reject, convert".
func (r Rule) Actions() string {
	var parts []string
	if r.Reject != nil {
		parts = append(parts, "reject")
	}
	if r.Convert != nil {
		parts = append(parts, "convert")
	}
	if r.Rename != symbol.Unknown {
		parts = append(parts, "rename to "+r.Rename.String())
	}
	return strings.Join(parts, ", ")
}

func (r Rule) String() string {
	return fmt.Sprintf("%s/%s below %s", r.Resource, r.Attribute, r.Below)
}

func rejectExpression(v model.Value) string {
	if v.IsExpression() {
		return fmt.Sprintf("expression %q is not supported", v.Text())
	}
	return ""
}

func rejectCapacityOverflow(v model.Value) string {
	f, ok := v.DoubleValue()
	if !ok {
		return ""
	}
	if math.Round(f) > math.MaxInt32 {
		return fmt.Sprintf("capacity %v exceeds the integer range", f)
	}
	return ""
}

func capacityToInt(v model.Value) model.Value {
	if f, ok := v.DoubleValue(); ok {
		return model.Int(int64(math.Round(f)))
	}
	return v
}

func rejectMultipleProperties(v model.Value) string {
	if v.Kind() == model.KindList && v.Len() > 1 {
		return fmt.Sprintf("%d properties given, only one is supported", v.Len())
	}
	return ""
}

func singleProperty(v model.Value) model.Value {
	items, ok := v.Items()
	if !ok {
		return v
	}
	if len(items) == 0 {
		return model.Undefined()
	}
	return items[0]
}

// rejectUnlessDefault refuses any value other than the declared default of
// s. Attributes without a default refuse every defined value.
func rejectUnlessDefault(kind schema.ResourceKind, s symbol.Symbol) RejectFunc {
	def, _ := schema.Lookup(kind, s)
	return func(v model.Value) string {
		if def.HasDefault() && v.Equal(def.DefaultValue) {
			return ""
		}
		return fmt.Sprintf("value %q is not supported", v.Text())
	}
}

func rejectNonEmpty(v model.Value) string {
	if v.Len() > 0 {
		return fmt.Sprintf("%d entries are not supported", v.Len())
	}
	return ""
}

func discard(model.Value) model.Value { return model.Undefined() }

// expressionRules derives a reject-expression rule for every attribute that
// accepts expressions now but did not in the last generation before 1.2.0.
func expressionRules() []Rule {
	legacy, err := schema.GenerationFor(schema.Version1_1)
	if err != nil {
		panic(err)
	}
	var rules []Rule
	for _, kind := range schema.ResourceKinds() {
		for _, def := range schema.Attributes(kind) {
			if !def.AllowExpression {
				continue
			}
			old, ok := legacy.Lookup(kind, def.Name)
			if !ok || old.AllowExpression {
				continue
			}
			rules = append(rules, Rule{
				Resource:  kind,
				Attribute: def.Name,
				Below:     schema.Version1_2,
				Reject:    rejectExpression,
			})
		}
	}
	return rules
}

func metricRules(kind schema.ResourceKind) []Rule {
	return []Rule{
		{
			Resource:  kind,
			Attribute: symbol.Capacity,
			Below:     schema.Version1_2,
			Reject:    rejectCapacityOverflow,
			Convert:   capacityToInt,
		},
		{
			Resource:  kind,
			Attribute: symbol.Property,
			Below:     schema.Version1_1,
			Reject:    rejectMultipleProperties,
			Convert:   singleProperty,
		},
	}
}

func introducedIn1_2(s symbol.Symbol) Rule {
	return Rule{
		Resource:  schema.ResourceConfig,
		Attribute: s,
		Below:     schema.Version1_2,
		Reject:    rejectUnlessDefault(schema.ResourceConfig, s),
		Convert:   discard,
	}
}

var rules = func() []Rule {
	out := expressionRules()
	out = append(out, metricRules(schema.ResourceLoadMetric)...)
	out = append(out, metricRules(schema.ResourceCustomLoadMetric)...)
	out = append(out,
		introducedIn1_2(symbol.Connector),
		introducedIn1_2(symbol.SessionDrainingStrategy),
		introducedIn1_2(symbol.StatusInterval),
		Rule{
			Resource:  schema.ResourceConfig,
			Attribute: symbol.Proxies,
			Below:     schema.Version1_1,
			Reject:    rejectNonEmpty,
			Convert:   discard,
		},
		Rule{
			Resource:  schema.ResourceConfig,
			Attribute: symbol.LoadBalancingGroup,
			Below:     schema.Version1_1,
			Rename:    symbol.Domain,
		},
	)
	return out
}()

// Rules returns the full rule table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// RulesFor returns the rules in effect for target, indexed by resource and
// attribute.
func RulesFor(target schema.Version) map[schema.ResourceKind]map[symbol.Symbol][]Rule {
	out := make(map[schema.ResourceKind]map[symbol.Symbol][]Rule)
	for _, r := range rules {
		if !r.AppliesTo(target) {
			continue
		}
		if out[r.Resource] == nil {
			out[r.Resource] = make(map[symbol.Symbol][]Rule)
		}
		out[r.Resource][r.Attribute] = append(out[r.Resource][r.Attribute], r)
	}
	return out
}
