package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the runtime type carried by a Value.
type Kind int

const (
	KindUndefined Kind = iota
	KindString
	KindInt
	KindBool
	KindDouble
	KindExpression
	KindProperty
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "UNDEFINED"
	case KindString:
		return "STRING"
	case KindInt:
		return "INT"
	case KindBool:
		return "BOOLEAN"
	case KindDouble:
		return "DOUBLE"
	case KindExpression:
		return "EXPRESSION"
	case KindProperty:
		return "PROPERTY"
	case KindList:
		return "LIST"
	case KindObject:
		return "OBJECT"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Property is a free-form name/value pair nested under a load metric.
type Property struct {
	Name  string
	Value string
}

// Value is an immutable scalar, property, list or nested tree.
// The zero Value is undefined.
type Value struct {
	kind Kind
	str  string
	num  int64
	flag bool
	dbl  float64
	prop Property
	list []Value
	obj  *Tree
}

// Undefined returns the undefined value.
func Undefined() Value { return Value{} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func Int(i int64) Value { return Value{kind: KindInt, num: i} }

func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

func Double(f float64) Value { return Value{kind: KindDouble, dbl: f} }

// Expression returns an unresolved ${...} expression value.
func Expression(s string) Value { return Value{kind: KindExpression, str: s} }

func PropertyOf(name, value string) Value {
	return Value{kind: KindProperty, prop: Property{Name: name, Value: value}}
}

// List copies items into a new list value.
func List(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

// Object wraps t. A nil tree yields an empty object.
func Object(t *Tree) Value {
	if t == nil {
		t = NewTree()
	}
	return Value{kind: KindObject, obj: t}
}

// Text returns a string or, when s looks like an expression, an expression value.
func Text(s string) Value {
	if IsExpression(s) {
		return Expression(s)
	}
	return String(s)
}

// IsExpression reports whether s contains a ${...} reference.
func IsExpression(s string) bool {
	i := strings.Index(s, "${")
	return i >= 0 && strings.Contains(s[i+2:], "}")
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsDefined() bool { return v.kind != KindUndefined }

func (v Value) IsExpression() bool { return v.kind == KindExpression }

func (v Value) StringValue() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) ExpressionValue() (string, bool) {
	return v.str, v.kind == KindExpression
}

func (v Value) IntValue() (int64, bool) {
	return v.num, v.kind == KindInt
}

func (v Value) BoolValue() (bool, bool) {
	return v.flag, v.kind == KindBool
}

// DoubleValue also widens INT values.
func (v Value) DoubleValue() (float64, bool) {
	switch v.kind {
	case KindDouble:
		return v.dbl, true
	case KindInt:
		return float64(v.num), true
	}
	return 0, false
}

func (v Value) PropertyValue() (Property, bool) {
	return v.prop, v.kind == KindProperty
}

// Items returns a copy of the list elements.
func (v Value) Items() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	cp := make([]Value, len(v.list))
	copy(cp, v.list)
	return cp, true
}

// Len returns the number of list elements, zero for non-lists.
func (v Value) Len() int {
	if v.kind != KindList {
		return 0
	}
	return len(v.list)
}

// ObjectValue returns the nested tree. Callers must not mutate it.
func (v Value) ObjectValue() (*Tree, bool) {
	return v.obj, v.kind == KindObject
}

// Clone returns a deep copy.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.list))
		for i, it := range v.list {
			items[i] = it.Clone()
		}
		return Value{kind: KindList, list: items}
	case KindObject:
		return Value{kind: KindObject, obj: v.obj.Clone()}
	default:
		return v
	}
}

// Equal compares kind and content. Objects compare without regard to key order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindUndefined:
		return true
	case KindString, KindExpression:
		return v.str == o.str
	case KindInt:
		return v.num == o.num
	case KindBool:
		return v.flag == o.flag
	case KindDouble:
		return v.dbl == o.dbl || (math.IsNaN(v.dbl) && math.IsNaN(o.dbl))
	case KindProperty:
		return v.prop == o.prop
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.Equal(o.obj)
	}
	return false
}

// Text renders a scalar as it appears in an XML attribute.
func (v Value) Text() string {
	switch v.kind {
	case KindString, KindExpression:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindDouble:
		return strconv.FormatFloat(v.dbl, 'f', -1, 64)
	case KindProperty:
		return v.prop.Name + "=" + v.prop.Value
	case KindList:
		parts := make([]string, len(v.list))
		for i, it := range v.list {
			parts[i] = it.Text()
		}
		return strings.Join(parts, " ")
	}
	return ""
}

func (v Value) String() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindString:
		return strconv.Quote(v.str)
	case KindExpression:
		return "expression " + strconv.Quote(v.str)
	case KindProperty:
		return fmt.Sprintf("(%q => %q)", v.prop.Name, v.prop.Value)
	case KindList:
		parts := make([]string, len(v.list))
		for i, it := range v.list {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		return v.obj.String()
	}
	return v.Text()
}
