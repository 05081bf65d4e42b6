package schema

import (
	"fmt"
	"strconv"

	"github.com/cuemby/modcluster/pkg/model"
	"github.com/cuemby/modcluster/pkg/symbol"
)

// LoadMetricSpec is the resolved form of one load-metric or
// custom-load-metric entry as the runtime consumes it. Exactly one of
// Type and Class is set.
type LoadMetricSpec struct {
	Type       string
	Class      string
	Weight     int
	Capacity   float64
	Properties []model.Property
}

// IsCustom reports whether s names a custom metric class.
func (s LoadMetricSpec) IsCustom() bool { return s.Class != "" }

// LoadMetricSpecs resolves every metric of a dynamic-load-provider tree,
// built-in metrics first. Defaults are applied and expressions resolved
// through lookup.
func LoadMetricSpecs(dynamic *model.Tree, lookup model.Lookup) ([]LoadMetricSpec, error) {
	eff := Effective(ResourceDynamicLoadProvider, dynamic)
	var specs []LoadMetricSpec
	for _, c := range Children(ResourceDynamicLoadProvider) {
		items, _ := eff.Get(c.Kind.Symbol()).Items()
		for i, it := range items {
			t, ok := it.ObjectValue()
			if !ok {
				return nil, fmt.Errorf("%s[%d]: expected an object, got %s", c.Kind, i, it.Kind())
			}
			spec, err := loadMetricSpec(c.Kind, t, lookup)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", c.Kind, i, err)
			}
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

func loadMetricSpec(kind ResourceKind, t *model.Tree, lookup model.Lookup) (LoadMetricSpec, error) {
	var spec LoadMetricSpec

	resolve := func(s symbol.Symbol) (model.Value, error) {
		def, _ := Lookup(kind, s)
		v, err := model.Resolve(t.Get(s), lookup)
		if err != nil {
			return model.Undefined(), err
		}
		return ValidateAndCoerce(kind, v, def)
	}

	name := symbol.Type
	if kind == ResourceCustomLoadMetric {
		name = symbol.Class
	}
	v, err := resolve(name)
	if err != nil {
		return spec, err
	}
	if kind == ResourceCustomLoadMetric {
		spec.Class, _ = v.StringValue()
	} else {
		spec.Type, _ = v.StringValue()
	}

	if v, err = resolve(symbol.Weight); err != nil {
		return spec, err
	}
	n, _ := v.IntValue()
	spec.Weight = int(n)

	if v, err = resolve(symbol.Capacity); err != nil {
		return spec, err
	}
	spec.Capacity, _ = v.DoubleValue()

	props, _ := t.Get(symbol.Property).Items()
	for _, p := range props {
		if prop, ok := p.PropertyValue(); ok {
			spec.Properties = append(spec.Properties, prop)
		}
	}
	return spec, nil
}

func (s LoadMetricSpec) String() string {
	name := s.Type
	if s.IsCustom() {
		name = s.Class
	}
	return name + "(weight=" + strconv.Itoa(s.Weight) + ", capacity=" +
		strconv.FormatFloat(s.Capacity, 'f', -1, 64) + ")"
}
