package schema

import (
	"fmt"
	"math"
	"strings"

	"github.com/cuemby/modcluster/pkg/model"
	"github.com/cuemby/modcluster/pkg/symbol"
)

// Type is the declared value type of an attribute.
type Type int

const (
	TypeString Type = iota
	TypeInt
	TypeBool
	TypeDouble
	TypeProperty
	// TypePropertyList is a list of name/value properties.
	TypePropertyList
	// TypeList is a list of strings, written space separated in XML.
	TypeList
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "STRING"
	case TypeInt:
		return "INT"
	case TypeBool:
		return "BOOLEAN"
	case TypeDouble:
		return "DOUBLE"
	case TypeProperty:
		return "PROPERTY"
	case TypePropertyList:
		return "LIST<PROPERTY>"
	case TypeList:
		return "LIST<STRING>"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// TimeUnit is the measurement unit of a duration-valued attribute.
type TimeUnit string

const (
	UnitNone         TimeUnit = ""
	UnitSeconds      TimeUnit = "SECONDS"
	UnitMilliseconds TimeUnit = "MILLISECONDS"
)

// Validator checks a corrected, correctly typed value.
type Validator interface {
	Validate(v model.Value) error
}

// Corrector normalizes equivalent values before validation.
type Corrector func(v model.Value) model.Value

// AttributeDefinition describes one attribute of a resource.
type AttributeDefinition struct {
	Name            symbol.Symbol
	Type            Type
	Nullable        bool
	AllowExpression bool
	DefaultValue    model.Value
	Validator       Validator
	Corrector       Corrector
	Unit            TimeUnit
}

func attribute(name symbol.Symbol, t Type) AttributeDefinition {
	return AttributeDefinition{Name: name, Type: t, Nullable: true}
}

func (d AttributeDefinition) withDefault(v model.Value) AttributeDefinition {
	d.DefaultValue = v
	return d
}

func (d AttributeDefinition) expressions() AttributeDefinition {
	d.AllowExpression = true
	return d
}

func (d AttributeDefinition) required() AttributeDefinition {
	d.Nullable = false
	return d
}

func (d AttributeDefinition) validatedBy(v Validator) AttributeDefinition {
	d.Validator = v
	return d
}

func (d AttributeDefinition) correctedBy(c Corrector) AttributeDefinition {
	d.Corrector = c
	return d
}

func (d AttributeDefinition) measuredIn(u TimeUnit) AttributeDefinition {
	d.Unit = u
	return d
}

// HasDefault reports whether the attribute declares a default.
func (d AttributeDefinition) HasDefault() bool {
	return d.DefaultValue.IsDefined()
}

// IntRange accepts INT values within [Min, Max].
type IntRange struct {
	Min int64
	Max int64
}

func (r IntRange) Validate(v model.Value) error {
	n, ok := v.IntValue()
	if !ok {
		return fmt.Errorf("expected %s, got %s", model.KindInt, v.Kind())
	}
	if n < r.Min {
		return fmt.Errorf("must be >= %d, got %d", r.Min, n)
	}
	if n > r.Max {
		return fmt.Errorf("must be <= %d, got %d", r.Max, n)
	}
	return nil
}

// AtLeast returns an IntRange with an upper bound of MaxInt32.
func AtLeast(min int64) IntRange {
	return IntRange{Min: min, Max: math.MaxInt32}
}

// DoubleRange accepts DOUBLE values >= Min.
type DoubleRange struct {
	Min float64
}

func (r DoubleRange) Validate(v model.Value) error {
	f, ok := v.DoubleValue()
	if !ok {
		return fmt.Errorf("expected %s, got %s", model.KindDouble, v.Kind())
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("must be a finite number, got %v", f)
	}
	if f < r.Min {
		return fmt.Errorf("must be >= %v, got %v", r.Min, f)
	}
	return nil
}

// OneOf accepts STRING values from a fixed set, compared case-insensitively.
type OneOf []string

func (o OneOf) Validate(v model.Value) error {
	s, ok := v.StringValue()
	if !ok {
		return fmt.Errorf("expected %s, got %s", model.KindString, v.Kind())
	}
	for _, allowed := range o {
		if strings.EqualFold(allowed, s) {
			return nil
		}
	}
	return fmt.Errorf("%q is not valid, must be one of: %s", s, strings.Join(o, ", "))
}

// zeroMeansUnlimited stores 0 as -1.
func zeroMeansUnlimited(v model.Value) model.Value {
	if n, ok := v.IntValue(); ok && n == 0 {
		return model.Int(-1)
	}
	return v
}

// upperCase normalizes enumerated strings.
func upperCase(v model.Value) model.Value {
	if s, ok := v.StringValue(); ok {
		return model.String(strings.ToUpper(s))
	}
	return v
}

func lowerCase(v model.Value) model.Value {
	if s, ok := v.StringValue(); ok {
		return model.String(strings.ToLower(s))
	}
	return v
}
