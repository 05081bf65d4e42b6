package model

import (
	"strings"

	"github.com/cuemby/modcluster/pkg/symbol"
)

// Tree is an insertion-ordered mapping from Symbol to Value. It is the
// parse target of the codec and the subject of transformation.
//
// A Tree is built once and then treated as read-only; operations that
// change configuration clone it first and hand out the new tree.
type Tree struct {
	keys []symbol.Symbol
	vals map[symbol.Symbol]Value
}

func NewTree() *Tree {
	return &Tree{vals: make(map[symbol.Symbol]Value)}
}

// Set stores v under s, keeping the original position when s is already
// present. Setting an undefined value removes the key.
func (t *Tree) Set(s symbol.Symbol, v Value) *Tree {
	if !v.IsDefined() {
		t.Delete(s)
		return t
	}
	if _, ok := t.vals[s]; !ok {
		t.keys = append(t.keys, s)
	}
	t.vals[s] = v
	return t
}

func (t *Tree) Delete(s symbol.Symbol) {
	if _, ok := t.vals[s]; !ok {
		return
	}
	delete(t.vals, s)
	for i, k := range t.keys {
		if k == s {
			t.keys = append(t.keys[:i:i], t.keys[i+1:]...)
			break
		}
	}
}

// Get returns the value under s or Undefined.
func (t *Tree) Get(s symbol.Symbol) Value {
	if t == nil {
		return Undefined()
	}
	return t.vals[s]
}

func (t *Tree) Lookup(s symbol.Symbol) (Value, bool) {
	if t == nil {
		return Undefined(), false
	}
	v, ok := t.vals[s]
	return v, ok
}

func (t *Tree) Has(s symbol.Symbol) bool {
	_, ok := t.Lookup(s)
	return ok
}

// Child returns the nested tree stored under s.
func (t *Tree) Child(s symbol.Symbol) (*Tree, bool) {
	return t.Get(s).ObjectValue()
}

// Keys returns the symbols in insertion order.
func (t *Tree) Keys() []symbol.Symbol {
	if t == nil {
		return nil
	}
	out := make([]symbol.Symbol, len(t.keys))
	copy(out, t.keys)
	return out
}

func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{
		keys: make([]symbol.Symbol, len(t.keys)),
		vals: make(map[symbol.Symbol]Value, len(t.vals)),
	}
	copy(out.keys, t.keys)
	for k, v := range t.vals {
		out.vals[k] = v.Clone()
	}
	return out
}

// Equal compares both trees key by key, ignoring insertion order.
func (t *Tree) Equal(o *Tree) bool {
	if t.Len() != o.Len() {
		return false
	}
	if t.Len() == 0 {
		return true
	}
	for k, v := range t.vals {
		ov, ok := o.vals[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

func (t *Tree) String() string {
	if t == nil {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{")
	for i, k := range t.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k.String())
		b.WriteString(" => ")
		b.WriteString(t.vals[k].String())
	}
	b.WriteString("}")
	return b.String()
}
