package management

import (
	"fmt"

	"github.com/cuemby/modcluster/pkg/codec"
	"github.com/cuemby/modcluster/pkg/events"
	"github.com/cuemby/modcluster/pkg/model"
	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/cuemby/modcluster/pkg/symbol"
)

// Provider values used when a metric operation has to create the dynamic
// load provider. They follow the load provider library and are not the
// schema defaults (schema.DefaultHistory, schema.DefaultDecay).
const (
	SynthesizedHistory = 9
	SynthesizedDecay   = 2
)

// synthesizeProvider returns a new dynamic-load-provider tree.
func synthesizeProvider() *model.Tree {
	return model.NewTree().
		Set(symbol.History, model.Int(SynthesizedHistory)).
		Set(symbol.Decay, model.Int(SynthesizedDecay))
}

// AddMetric adds a built-in load metric. params must carry type and may
// carry weight, capacity and property. Adding a type that is already
// configured replaces its weight, capacity and properties.
func (c *Controller) AddMetric(params map[string]any) error {
	return c.addMetric(OpAddMetric, schema.ResourceLoadMetric, symbol.Type, params)
}

// AddCustomMetric adds a custom load metric identified by class.
func (c *Controller) AddCustomMetric(params map[string]any) error {
	return c.addMetric(OpAddCustomMetric, schema.ResourceCustomLoadMetric, symbol.Class, params)
}

// RemoveMetric removes the built-in metric of the given type.
func (c *Controller) RemoveMetric(metricType string) error {
	return c.removeMetric(OpRemoveMetric, schema.ResourceLoadMetric, symbol.Type, metricType)
}

// RemoveCustomMetric removes the custom metric of the given class.
func (c *Controller) RemoveCustomMetric(class string) error {
	return c.removeMetric(OpRemoveCustomMetric, schema.ResourceCustomLoadMetric, symbol.Class, class)
}

func (c *Controller) addMetric(op string, kind schema.ResourceKind, key symbol.Symbol, params map[string]any) error {
	return c.mutate(op, codec.ConfigAddress, func(config *model.Tree) (*model.Tree, []*events.Event, error) {
		if config == nil {
			return nil, nil, ErrNotFound
		}
		metric, err := c.attributes(kind, params)
		if err != nil {
			return nil, nil, err
		}
		id := metric.Get(key).Text()

		var evs []*events.Event
		dynamic, ok := config.Child(symbol.DynamicLoadProvider)
		if !ok {
			dynamic = synthesizeProvider()
			evs = emit(events.EventProviderCreated, "dynamic load provider created", nil)
			c.logger.Info().
				Int("history", SynthesizedHistory).
				Int("decay", SynthesizedDecay).
				Msg("Created dynamic load provider")
		}
		// A metric with the same type or class is replaced in place.
		items, _ := dynamic.Get(kind.Symbol()).Items()
		if i := indexOf(items, key, id); i >= 0 {
			items[i] = model.Object(metric)
		} else {
			items = append(items, model.Object(metric))
		}
		dynamic.Set(kind.Symbol(), model.List(items...))

		// A configuration has one provider.
		config.Delete(symbol.SimpleLoadProvider)
		config.Set(symbol.DynamicLoadProvider, model.Object(dynamic))

		evs = append(evs, emit(events.EventMetricAdded, kind.String()+" added",
			map[string]string{key.String(): id})...)
		return config, evs, nil
	})
}

func (c *Controller) removeMetric(op string, kind schema.ResourceKind, key symbol.Symbol, id string) error {
	return c.mutate(op, codec.ConfigAddress, func(config *model.Tree) (*model.Tree, []*events.Event, error) {
		dynamic, ok := config.Child(symbol.DynamicLoadProvider)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, symbol.DynamicLoadProvider)
		}
		if def, ok := schema.Lookup(kind, key); ok && def.Corrector != nil {
			id = def.Corrector(model.String(id)).Text()
		}
		items, _ := dynamic.Get(kind.Symbol()).Items()
		i := indexOf(items, key, id)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
		}
		items = append(items[:i], items[i+1:]...)
		if len(items) == 0 {
			dynamic.Delete(kind.Symbol())
		} else {
			dynamic.Set(kind.Symbol(), model.List(items...))
		}
		return config, emit(events.EventMetricRemoved, kind.String()+" removed",
			map[string]string{key.String(): id}), nil
	})
}

func indexOf(items []model.Value, key symbol.Symbol, id string) int {
	for i, it := range items {
		if t, ok := it.ObjectValue(); ok && t.Get(key).Text() == id {
			return i
		}
	}
	return -1
}
