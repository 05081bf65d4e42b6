package codec

import (
	"testing"

	"github.com/cuemby/modcluster/pkg/model"
	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/cuemby/modcluster/pkg/symbol"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// valueGen produces values def accepts unchanged, so a parse of the written
// value yields the same value.
func valueGen(g *schema.Generation, kind schema.ResourceKind, def schema.AttributeDefinition) gopter.Gen {
	switch {
	case def.Name == symbol.SessionDrainingStrategy:
		return gen.OneConstOf("DEFAULT", "ALWAYS", "NEVER").Map(func(s string) model.Value { return model.String(s) })
	case def.Name == symbol.Type:
		return gen.OneConstOf("cpu", "mem", "heap", "sessions", "busyness").Map(func(s string) model.Value { return model.String(s) })
	}

	var base gopter.Gen
	switch def.Type {
	case schema.TypeBool:
		base = gen.Bool().Map(func(b bool) model.Value { return model.Bool(b) })
	case schema.TypeInt:
		base = gen.IntRange(1, 100000).Map(func(n int) model.Value { return model.Int(int64(n)) })
	case schema.TypeDouble:
		base = gen.Float64Range(0, 1e6).Map(func(f float64) model.Value { return model.Double(f) })
	case schema.TypeList:
		base = gen.SliceOf(gen.Identifier()).Map(func(ss []string) model.Value {
			items := make([]model.Value, len(ss))
			for i, s := range ss {
				items[i] = model.String(s)
			}
			return model.List(items...)
		})
	default:
		base = gen.AlphaString().Map(func(s string) model.Value { return model.String(s) })
	}
	if !g.AllowsExpression(kind, def.Name) {
		return base
	}
	expr := gen.Identifier().Map(func(s string) model.Value { return model.Expression("${" + s + "}") })
	return gen.OneGenOf(base, base, base, expr)
}

// treeGen produces the attributes of kind, each present or absent.
func treeGen(g *schema.Generation, kind schema.ResourceKind) gopter.Gen {
	var (
		defs []schema.AttributeDefinition
		gens []gopter.Gen
	)
	for _, def := range g.Attributes(kind) {
		if def.Type == schema.TypePropertyList {
			continue
		}
		v := valueGen(g, kind, def)
		if def.Nullable {
			v = gen.OneGenOf(gen.Const(model.Undefined()), v)
		}
		defs = append(defs, def)
		gens = append(gens, v)
	}
	return gopter.CombineGens(gens...).Map(func(vals []interface{}) *model.Tree {
		t := model.NewTree()
		for i, v := range vals {
			t.Set(defs[i].Name, v.(model.Value))
		}
		return t
	})
}

func metricGen(g *schema.Generation, kind schema.ResourceKind) gopter.Gen {
	props := gen.SliceOf(gopter.CombineGens(gen.Identifier(), gen.AlphaString()).Map(func(v []interface{}) model.Value {
		return model.PropertyOf(v[0].(string), v[1].(string))
	}))
	return gopter.CombineGens(treeGen(g, kind), props).Map(func(v []interface{}) model.Value {
		t := v[0].(*model.Tree)
		if ps := v[1].([]model.Value); len(ps) > 0 {
			t.Set(symbol.Property, model.List(ps...))
		}
		return model.Object(t)
	})
}

func subsystemGen(g *schema.Generation) gopter.Gen {
	listOf := func(item gopter.Gen) gopter.Gen {
		return gen.SliceOf(item).Map(func(items []model.Value) model.Value {
			if len(items) == 0 {
				return model.Undefined()
			}
			return model.List(items...)
		})
	}
	dynamic := gopter.CombineGens(
		treeGen(g, schema.ResourceDynamicLoadProvider),
		listOf(metricGen(g, schema.ResourceLoadMetric)),
		listOf(metricGen(g, schema.ResourceCustomLoadMetric)),
	).Map(func(v []interface{}) model.Value {
		t := v[0].(*model.Tree)
		t.Set(symbol.LoadMetric, v[1].(model.Value))
		t.Set(symbol.CustomLoadMetric, v[2].(model.Value))
		return model.Object(t)
	})
	simple := treeGen(g, schema.ResourceSimpleLoadProvider).Map(func(t *model.Tree) model.Value { return model.Object(t) })
	ssl := treeGen(g, schema.ResourceSSL).Map(func(t *model.Tree) model.Value { return model.Object(t) })

	return gopter.CombineGens(
		treeGen(g, schema.ResourceConfig),
		gen.IntRange(0, 2),
		simple,
		dynamic,
		gen.OneGenOf(gen.Const(model.Undefined()), ssl),
	).Map(func(v []interface{}) *model.Tree {
		config := v[0].(*model.Tree)
		switch v[1].(int) {
		case 1:
			config.Set(symbol.SimpleLoadProvider, v[2].(model.Value))
		case 2:
			config.Set(symbol.DynamicLoadProvider, v[3].(model.Value))
		}
		config.Set(symbol.SSL, v[4].(model.Value))
		return model.NewTree().Set(symbol.ModClusterConfig, model.Object(config))
	})
}

func TestWriteThenParseIsIdentity_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.MaxSize = 4

	properties := gopter.NewProperties(parameters)

	for _, v := range schema.Versions() {
		g, err := schema.GenerationFor(v)
		if err != nil {
			t.Fatal(err)
		}
		w := NewWriter(WithVersion(v))

		properties.Property("parse(write(tree)) == tree for "+v.String(), prop.ForAll(
			func(tree *model.Tree) bool {
				out, err := w.Marshal(tree)
				if err != nil {
					t.Logf("write: %v", err)
					return false
				}
				doc, err := ParseBytes(out)
				if err != nil {
					t.Logf("parse: %v\n%s", err, out)
					return false
				}
				return doc.Version == v && doc.Tree.Equal(tree)
			},
			subsystemGen(g),
		))
	}

	properties.TestingRun(t)
}
