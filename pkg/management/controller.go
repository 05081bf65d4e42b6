package management

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cuemby/modcluster/pkg/codec"
	"github.com/cuemby/modcluster/pkg/events"
	"github.com/cuemby/modcluster/pkg/log"
	"github.com/cuemby/modcluster/pkg/metrics"
	"github.com/cuemby/modcluster/pkg/model"
	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/cuemby/modcluster/pkg/symbol"
	"github.com/rs/zerolog"
)

// Operation names accepted by Execute.
const (
	OpAdd                = "add"
	OpRemove             = "remove"
	OpWriteAttribute     = "write-attribute"
	OpUndefineAttribute  = "undefine-attribute"
	OpReadResource       = "read-resource"
	OpAddMetric          = "add-metric"
	OpRemoveMetric       = "remove-metric"
	OpAddCustomMetric    = "add-custom-metric"
	OpRemoveCustomMetric = "remove-custom-metric"
)

// Controller owns the current mod-cluster-config and applies management
// operations to it. Every mutation builds a new tree from a private copy
// and swaps it in whole, so trees handed out earlier never change.
type Controller struct {
	mu     sync.RWMutex
	config *model.Tree
	broker *events.Broker
	logger zerolog.Logger
}

// NewController creates a controller without configuration. broker may be
// nil.
func NewController(broker *events.Broker) *Controller {
	return &Controller{
		broker: broker,
		logger: log.WithComponent("management"),
	}
}

// Load replaces the configuration with the one held by a parsed subsystem
// tree.
func (c *Controller) Load(subsystem *model.Tree) {
	var config *model.Tree
	if t, ok := subsystem.Child(symbol.ModClusterConfig); ok {
		config = t.Clone()
	}
	c.mu.Lock()
	c.config = config
	c.mu.Unlock()
}

// Config returns a copy of the mod-cluster-config tree, or nil when none is
// configured.
func (c *Controller) Config() *model.Tree {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.Clone()
}

// Subsystem returns a copy of the whole subsystem tree, ready for a Writer.
func (c *Controller) Subsystem() *model.Tree {
	out := model.NewTree()
	if config := c.Config(); config != nil {
		out.Set(symbol.ModClusterConfig, model.Object(config))
	}
	return out
}

type mutation func(config *model.Tree) (next *model.Tree, evs []*events.Event, err error)

// mutate runs fn against a private copy of the configuration and installs
// the result when fn succeeds.
func (c *Controller) mutate(op string, addr codec.Address, fn mutation) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.OperationDuration, op)

	c.mu.Lock()
	next, evs, err := fn(c.config.Clone())
	if err == nil {
		c.config = next
	}
	c.mu.Unlock()

	c.record(op, addr, err)
	if err != nil {
		return &OperationError{Operation: op, Address: addr, Err: err}
	}
	if c.broker == nil {
		return nil
	}
	for _, ev := range evs {
		if ev.Metadata == nil {
			ev.Metadata = make(map[string]string)
		}
		ev.Metadata["address"] = addr.String()
		c.broker.Publish(ev)
	}
	return nil
}

func emit(t events.EventType, msg string, metadata map[string]string) []*events.Event {
	return []*events.Event{events.NewEvent(t, msg, metadata)}
}

func (c *Controller) record(op string, addr codec.Address, err error) {
	outcome := metrics.OutcomeSuccess
	var verr *schema.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, ErrDuplicate), errors.Is(err, ErrNotFound):
		outcome = metrics.OutcomeRejected
	case err != nil:
		outcome = metrics.OutcomeError
	}
	metrics.OperationsTotal.WithLabelValues(op, outcome).Inc()

	logger := log.WithOperation(op, addr.String())
	if err != nil {
		logger.Warn().Err(err).Msg("Operation failed")
		return
	}
	logger.Info().Msg("Operation applied")
}

// resourceAt maps an address to the resource kind it names.
func resourceAt(addr codec.Address) (schema.ResourceKind, error) {
	switch addr.String() {
	case codec.ConfigAddress.String():
		return schema.ResourceConfig, nil
	case codec.SSLAddress.String():
		return schema.ResourceSSL, nil
	}
	return 0, fmt.Errorf("%w: no resource at %s", ErrNotFound, addr)
}

// target returns the tree of kind inside config, which must be a private
// copy. A nil tree means the resource does not exist.
func target(config *model.Tree, kind schema.ResourceKind) *model.Tree {
	if kind == schema.ResourceConfig {
		return config
	}
	t, _ := config.Child(kind.Symbol())
	return t
}

// Add creates the resource at addr from params.
func (c *Controller) Add(addr codec.Address, params map[string]any) error {
	kind, err := resourceAt(addr)
	if err != nil {
		return &OperationError{Operation: OpAdd, Address: addr, Err: err}
	}
	return c.mutate(OpAdd, addr, func(config *model.Tree) (*model.Tree, []*events.Event, error) {
		tree, err := c.attributes(kind, params)
		if err != nil {
			return nil, nil, err
		}
		if kind == schema.ResourceConfig {
			if config != nil {
				return nil, nil, ErrDuplicate
			}
			return tree, emit(events.EventConfigAdded, "configuration added", nil), nil
		}
		if config == nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, codec.ConfigAddress)
		}
		if config.Has(kind.Symbol()) {
			return nil, nil, ErrDuplicate
		}
		config.Set(kind.Symbol(), model.Object(tree))
		return config, emit(events.EventSSLAdded, "ssl added", nil), nil
	})
}

// Remove deletes the resource at addr together with everything below it.
func (c *Controller) Remove(addr codec.Address) error {
	kind, err := resourceAt(addr)
	if err != nil {
		return &OperationError{Operation: OpRemove, Address: addr, Err: err}
	}
	return c.mutate(OpRemove, addr, func(config *model.Tree) (*model.Tree, []*events.Event, error) {
		if target(config, kind) == nil {
			return nil, nil, ErrNotFound
		}
		if kind == schema.ResourceConfig {
			return nil, emit(events.EventConfigRemoved, "configuration removed", nil), nil
		}
		config.Delete(kind.Symbol())
		return config, emit(events.EventSSLRemoved, "ssl removed", nil), nil
	})
}

// WriteAttribute validates value and stores it under name. A nil value
// undefines the attribute.
func (c *Controller) WriteAttribute(addr codec.Address, name string, value any) error {
	return c.write(OpWriteAttribute, addr, name, value)
}

// UndefineAttribute removes name so that readers fall back to its default.
func (c *Controller) UndefineAttribute(addr codec.Address, name string) error {
	return c.write(OpUndefineAttribute, addr, name, nil)
}

func (c *Controller) write(op string, addr codec.Address, name string, value any) error {
	kind, err := resourceAt(addr)
	if err != nil {
		return &OperationError{Operation: op, Address: addr, Err: err}
	}
	return c.mutate(op, addr, func(config *model.Tree) (*model.Tree, []*events.Event, error) {
		t := target(config, kind)
		if t == nil {
			return nil, nil, ErrNotFound
		}
		def, err := c.definition(kind, name)
		if err != nil {
			return nil, nil, err
		}
		if value == nil {
			t.Delete(def.Name)
		} else {
			v, err := schema.Coerce(kind, value, def)
			if err != nil {
				return nil, nil, err
			}
			t.Set(def.Name, v)
		}
		return config, emit(events.EventConfigUpdated, "attribute written",
			map[string]string{"attribute": def.Name.String()}), nil
	})
}

// ReadResource returns a copy of the resource at addr. With defaults set,
// absent attributes are filled from the declarative schema.
func (c *Controller) ReadResource(addr codec.Address, defaults bool) (*model.Tree, error) {
	kind, err := resourceAt(addr)
	if err == nil {
		c.mu.RLock()
		t := target(c.config, kind).Clone()
		c.mu.RUnlock()
		if t == nil {
			err = ErrNotFound
		} else {
			if defaults {
				t = schema.Effective(kind, t)
			}
			c.record(OpReadResource, addr, nil)
			return t, nil
		}
	}
	c.record(OpReadResource, addr, err)
	return nil, &OperationError{Operation: OpReadResource, Address: addr, Err: err}
}

// definition resolves a payload name on kind, accepting domain as the
// deprecated spelling of load-balancing-group.
func (c *Controller) definition(kind schema.ResourceKind, name string) (schema.AttributeDefinition, error) {
	s := symbol.ForName(name)
	if kind == schema.ResourceConfig && s == symbol.Domain {
		c.logger.Warn().Msg("Attribute domain is deprecated, use load-balancing-group")
		s = symbol.LoadBalancingGroup
	}
	def, ok := schema.Lookup(kind, s)
	if !ok {
		return schema.AttributeDefinition{}, &schema.ValidationError{
			Resource: kind, Attribute: name, Reason: "unknown attribute",
		}
	}
	return def, nil
}

// attributes builds the attribute tree of a new resource. Only supplied
// attributes are stored; attributes without a default that are not
// nullable must be supplied.
func (c *Controller) attributes(kind schema.ResourceKind, params map[string]any) (*model.Tree, error) {
	if kind == schema.ResourceConfig {
		_, alias := params[symbol.Domain.String()]
		_, current := params[symbol.LoadBalancingGroup.String()]
		if alias && current {
			return nil, &schema.ValidationError{
				Resource:  kind,
				Attribute: symbol.Domain.String(),
				Reason:    "cannot be combined with load-balancing-group",
			}
		}
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	supplied := make(map[symbol.Symbol]any, len(params))
	for _, k := range keys {
		def, err := c.definition(kind, k)
		if err != nil {
			return nil, err
		}
		supplied[def.Name] = params[k]
	}

	tree := model.NewTree()
	for _, def := range schema.Attributes(kind) {
		raw, ok := supplied[def.Name]
		if !ok {
			if _, err := schema.ValidateAndCoerce(kind, model.Undefined(), def); err != nil {
				return nil, err
			}
			continue
		}
		v, err := schema.Coerce(kind, raw, def)
		if err != nil {
			return nil, err
		}
		tree.Set(def.Name, v)
	}
	return tree, nil
}
