package schema

import (
	"github.com/cuemby/modcluster/pkg/model"
)

// Effective returns a copy of tree with every absent attribute that has a
// declarative default filled in, recursing into present children. It never
// creates a child section that is not already there.
func Effective(kind ResourceKind, tree *model.Tree) *model.Tree {
	out := tree.Clone()
	if out == nil {
		out = model.NewTree()
	}
	fillDefaults(kind, out)
	return out
}

func fillDefaults(kind ResourceKind, t *model.Tree) {
	for _, def := range attributeSets[kind] {
		if t.Has(def.Name) || !def.HasDefault() {
			continue
		}
		// An absent value with a default never fails.
		v, _ := ValidateAndCoerce(kind, model.Undefined(), def)
		t.Set(def.Name, v)
	}
	// t is a private deep copy, so nested trees are filled in place.
	for _, c := range Children(kind) {
		v := t.Get(c.Kind.Symbol())
		if !c.Repeated {
			if child, ok := v.ObjectValue(); ok {
				fillDefaults(c.Kind, child)
			}
			continue
		}
		items, _ := v.Items()
		for _, it := range items {
			if child, ok := it.ObjectValue(); ok {
				fillDefaults(c.Kind, child)
			}
		}
	}
}
