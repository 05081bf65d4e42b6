package transform

import (
	"errors"
	"fmt"

	"github.com/cuemby/modcluster/pkg/metrics"
	"github.com/cuemby/modcluster/pkg/model"
	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/cuemby/modcluster/pkg/symbol"
)

// RejectedError reports an attribute an older peer cannot represent. The
// whole transformation fails with it; the source tree is left untouched.
type RejectedError struct {
	Target    schema.Version
	Resource  schema.ResourceKind
	Attribute string
	Reason    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("cannot transform '%s' on %s for %s: %s", e.Attribute, e.Resource, e.Target, e.Reason)
}

// Transform downgrades a subsystem tree to the shape a peer running target
// understands. Targeting the current version returns a deep copy.
func Transform(tree *model.Tree, target schema.Version) (*model.Tree, error) {
	return TransformResource(schema.ResourceSubsystem, tree, target)
}

// TransformResource downgrades the subtree of one resource kind.
func TransformResource(kind schema.ResourceKind, tree *model.Tree, target schema.Version) (*model.Tree, error) {
	timer := metrics.NewTimer()
	out, err := transform(kind, tree, target)
	timer.ObserveDuration(metrics.TransformationDuration)

	outcome := metrics.OutcomeSuccess
	var rejected *RejectedError
	switch {
	case errors.As(err, &rejected):
		outcome = metrics.OutcomeRejected
	case err != nil:
		outcome = metrics.OutcomeError
	}
	metrics.TransformationsTotal.WithLabelValues(target.String(), outcome).Inc()
	return out, err
}

func transform(kind schema.ResourceKind, tree *model.Tree, target schema.Version) (*model.Tree, error) {
	if _, err := schema.GenerationFor(target); err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, nil
	}
	if target == schema.Current {
		return tree.Clone(), nil
	}
	t := &transformer{target: target, rules: RulesFor(target)}
	return t.resource(kind, tree)
}

type transformer struct {
	target schema.Version
	rules  map[schema.ResourceKind]map[symbol.Symbol][]Rule
}

func (t *transformer) reject(kind schema.ResourceKind, s symbol.Symbol, reason string) error {
	return &RejectedError{Target: t.target, Resource: kind, Attribute: s.String(), Reason: reason}
}

// resource transforms nested resources before the attributes of tree so a
// rejection deep in the tree stops the walk before its ancestors are
// touched.
func (t *transformer) resource(kind schema.ResourceKind, tree *model.Tree) (*model.Tree, error) {
	nested := make(map[symbol.Symbol]model.Value)
	for _, c := range schema.Children(kind) {
		s := c.Kind.Symbol()
		v, ok := tree.Lookup(s)
		if !ok {
			continue
		}
		out, err := t.child(c, v)
		if err != nil {
			return nil, err
		}
		nested[s] = out
	}

	out := model.NewTree()
	for _, k := range tree.Keys() {
		if v, ok := nested[k]; ok {
			out.Set(k, v)
			continue
		}
		name, v, err := t.attribute(kind, k, tree.Get(k).Clone())
		if err != nil {
			return nil, err
		}
		out.Set(name, v)
	}
	return out, nil
}

func (t *transformer) child(c schema.Child, v model.Value) (model.Value, error) {
	if !c.Repeated {
		obj, ok := v.ObjectValue()
		if !ok {
			return model.Undefined(), t.reject(c.Kind, c.Kind.Symbol(), fmt.Sprintf("expected an object, found %s", v.Kind()))
		}
		out, err := t.resource(c.Kind, obj)
		if err != nil {
			return model.Undefined(), err
		}
		return model.Object(out), nil
	}

	items, ok := v.Items()
	if !ok {
		return model.Undefined(), t.reject(c.Kind, c.Kind.Symbol(), fmt.Sprintf("expected a list, found %s", v.Kind()))
	}
	out := make([]model.Value, 0, len(items))
	for _, it := range items {
		converted, err := t.child(schema.Child{Kind: c.Kind}, it)
		if err != nil {
			return model.Undefined(), err
		}
		out = append(out, converted)
	}
	return model.List(out...), nil
}

func (t *transformer) attribute(kind schema.ResourceKind, s symbol.Symbol, v model.Value) (symbol.Symbol, model.Value, error) {
	name := s
	for _, r := range t.rules[kind][s] {
		if r.Reject != nil {
			if reason := r.Reject(v); reason != "" {
				return s, v, t.reject(kind, s, reason)
			}
		}
		if r.Convert != nil {
			v = r.Convert(v)
		}
		if r.Rename != symbol.Unknown {
			name = r.Rename
		}
	}
	return name, v, nil
}
