package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cuemby/modcluster/pkg/model"
)

// ValidationError reports a value rejected by an attribute definition.
type ValidationError struct {
	Resource  ResourceKind
	Attribute string
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for '%s' on %s: %s", e.Attribute, e.Resource, e.Reason)
}

func invalid(kind ResourceKind, def AttributeDefinition, format string, args ...any) *ValidationError {
	return &ValidationError{Resource: kind, Attribute: def.Name.String(), Reason: fmt.Sprintf(format, args...)}
}

// ValidateAndCoerce is the gate every value passes before it is stored in a
// tree. String input is converted to the declared type, the corrector and
// validator run in that order, and an absent value falls back to the
// definition default. Absent values without a default are returned
// undefined unless the attribute is required.
func ValidateAndCoerce(kind ResourceKind, raw model.Value, def AttributeDefinition) (model.Value, error) {
	if !raw.IsDefined() {
		if def.HasDefault() {
			return def.DefaultValue, nil
		}
		if !def.Nullable {
			return model.Undefined(), invalid(kind, def, "required attribute is missing")
		}
		return model.Undefined(), nil
	}

	if raw.IsExpression() {
		if !def.AllowExpression {
			return model.Undefined(), invalid(kind, def, "expressions are not allowed")
		}
		return raw, nil
	}

	v, err := coerce(raw, def)
	if err != nil {
		return model.Undefined(), invalid(kind, def, "%v", err)
	}
	if def.Corrector != nil {
		v = def.Corrector(v)
	}
	if def.Validator != nil {
		if err := def.Validator.Validate(v); err != nil {
			return model.Undefined(), invalid(kind, def, "%v", err)
		}
	}
	return v, nil
}

func coerce(raw model.Value, def AttributeDefinition) (model.Value, error) {
	if s, ok := raw.StringValue(); ok && def.Type != TypeString {
		return ParseText(def, s)
	}
	switch def.Type {
	case TypeString:
		if raw.Kind() == model.KindString {
			return raw, nil
		}
	case TypeInt:
		if raw.Kind() == model.KindInt {
			return raw, nil
		}
	case TypeBool:
		if raw.Kind() == model.KindBool {
			return raw, nil
		}
	case TypeDouble:
		if f, ok := raw.DoubleValue(); ok {
			return model.Double(f), nil
		}
	case TypeProperty:
		if raw.Kind() == model.KindProperty {
			return raw, nil
		}
	case TypePropertyList:
		if raw.Kind() == model.KindProperty {
			return model.List(raw), nil
		}
		if items, ok := raw.Items(); ok && allOfKind(items, model.KindProperty) {
			return raw, nil
		}
	case TypeList:
		if items, ok := raw.Items(); ok && allOfKind(items, model.KindString) {
			return raw, nil
		}
	}
	return model.Undefined(), fmt.Errorf("expected %s, got %s", def.Type, raw.Kind())
}

func allOfKind(items []model.Value, k model.Kind) bool {
	for _, it := range items {
		if it.Kind() != k {
			return false
		}
	}
	return true
}

// ParseText converts attribute text to a value of the definition's type.
// Text holding ${...} becomes an expression when the definition allows it.
func ParseText(def AttributeDefinition, text string) (model.Value, error) {
	if def.AllowExpression && model.IsExpression(text) {
		return model.Expression(text), nil
	}
	switch def.Type {
	case TypeString:
		return model.String(text), nil
	case TypeInt:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
		if err != nil {
			return model.Undefined(), fmt.Errorf("%q is not a valid %s", text, def.Type)
		}
		return model.Int(n), nil
	case TypeBool:
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "true":
			return model.Bool(true), nil
		case "false":
			return model.Bool(false), nil
		}
		return model.Undefined(), fmt.Errorf("%q is not a valid %s", text, def.Type)
	case TypeDouble:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return model.Undefined(), fmt.Errorf("%q is not a valid %s", text, def.Type)
		}
		return model.Double(f), nil
	case TypeList:
		fields := strings.Fields(text)
		items := make([]model.Value, len(fields))
		for i, f := range fields {
			items[i] = model.String(f)
		}
		return model.List(items...), nil
	}
	return model.Undefined(), fmt.Errorf("%s values cannot be written as text", def.Type)
}

// FromAny converts a decoded YAML or JSON scalar, list or map into a value
// for def. Maps with name and value keys become properties.
func FromAny(raw any, def AttributeDefinition) (model.Value, error) {
	switch v := raw.(type) {
	case nil:
		return model.Undefined(), nil
	case model.Value:
		return v, nil
	case string:
		if def.AllowExpression && model.IsExpression(v) {
			return model.Expression(v), nil
		}
		return model.String(v), nil
	case bool:
		return model.Bool(v), nil
	case int:
		return model.Int(int64(v)), nil
	case int64:
		return model.Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return model.Undefined(), fmt.Errorf("%d is out of range", v)
		}
		return model.Int(int64(v)), nil
	case float64:
		if def.Type == TypeInt && v == math.Trunc(v) && math.Abs(v) <= math.MaxInt32 {
			return model.Int(int64(v)), nil
		}
		return model.Double(v), nil
	case map[string]any:
		return propertyFromMap(v)
	case []any:
		items := make([]model.Value, 0, len(v))
		for _, it := range v {
			var (
				item model.Value
				err  error
			)
			if m, ok := it.(map[string]any); ok {
				item, err = propertyFromMap(m)
			} else {
				item, err = FromAny(it, AttributeDefinition{Type: TypeString})
			}
			if err != nil {
				return model.Undefined(), err
			}
			if item.Kind() != model.KindProperty && item.Kind() != model.KindString {
				item = model.String(item.Text())
			}
			items = append(items, item)
		}
		return model.List(items...), nil
	}
	return model.Undefined(), fmt.Errorf("unsupported value %v (%T)", raw, raw)
}

func propertyFromMap(m map[string]any) (model.Value, error) {
	name, okName := m["name"]
	value, okValue := m["value"]
	if !okName || !okValue || len(m) != 2 {
		return model.Undefined(), fmt.Errorf("property must have exactly name and value, got %v", m)
	}
	return model.PropertyOf(fmt.Sprint(name), fmt.Sprint(value)), nil
}

// Coerce converts raw with FromAny and passes the result through
// ValidateAndCoerce.
func Coerce(kind ResourceKind, raw any, def AttributeDefinition) (model.Value, error) {
	v, err := FromAny(raw, def)
	if err != nil {
		return model.Undefined(), invalid(kind, def, "%v", err)
	}
	return ValidateAndCoerce(kind, v, def)
}
