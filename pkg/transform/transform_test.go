package transform

import (
	"errors"
	"testing"

	"github.com/cuemby/modcluster/pkg/codec"
	"github.com/cuemby/modcluster/pkg/metrics"
	"github.com/cuemby/modcluster/pkg/model"
	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/cuemby/modcluster/pkg/symbol"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subsystem(config *model.Tree) *model.Tree {
	return model.NewTree().Set(symbol.ModClusterConfig, model.Object(config))
}

func withDynamic(kind symbol.Symbol, metric *model.Tree) *model.Tree {
	return subsystem(model.NewTree().
		Set(symbol.DynamicLoadProvider, model.Object(model.NewTree().
			Set(symbol.History, model.Int(9)).
			Set(kind, model.List(model.Object(metric))))))
}

func customMetric(props ...model.Value) *model.Tree {
	t := model.NewTree().Set(symbol.Class, model.String("org.example.Metric"))
	if len(props) > 0 {
		t.Set(symbol.Property, model.List(props...))
	}
	return t
}

// metricAt walks to the first entry of kind under the dynamic provider.
func metricAt(t *testing.T, tree *model.Tree, kind symbol.Symbol) *model.Tree {
	t.Helper()
	config, ok := tree.Child(symbol.ModClusterConfig)
	require.True(t, ok)
	dynamic, ok := config.Child(symbol.DynamicLoadProvider)
	require.True(t, ok)
	items, ok := dynamic.Get(kind).Items()
	require.True(t, ok)
	require.NotEmpty(t, items)
	metric, ok := items[0].ObjectValue()
	require.True(t, ok)
	return metric
}

func requireRejected(t *testing.T, err error, attribute string) *RejectedError {
	t.Helper()
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, attribute, rejected.Attribute)
	return rejected
}

func TestCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity model.Value
		want     model.Value
		reject   bool
	}{
		{name: "overflow", capacity: model.Double(3000000000.0), reject: true},
		{name: "converts", capacity: model.Double(42.0), want: model.Int(42)},
		{name: "rounds", capacity: model.Double(1.5), want: model.Int(2)},
		{name: "max int32", capacity: model.Double(2147483647.0), want: model.Int(2147483647)},
		{name: "expression", capacity: model.Expression("${cap}"), reject: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metric := model.NewTree().
				Set(symbol.Type, model.String("cpu")).
				Set(symbol.Capacity, tt.capacity)
			out, err := Transform(withDynamic(symbol.LoadMetric, metric), schema.Version1_1)
			if tt.reject {
				rejected := requireRejected(t, err, "capacity")
				assert.Equal(t, schema.ResourceLoadMetric, rejected.Resource)
				assert.Equal(t, schema.Version1_1, rejected.Target)
				assert.Nil(t, out)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(metricAt(t, out, symbol.LoadMetric).Get(symbol.Capacity)))
		})
	}
}

func TestCapacityUnchangedForCurrent(t *testing.T) {
	metric := model.NewTree().Set(symbol.Class, model.String("x")).Set(symbol.Capacity, model.Double(3000000000.0))
	out, err := Transform(withDynamic(symbol.CustomLoadMetric, metric), schema.Current)
	require.NoError(t, err)
	assert.True(t, model.Double(3000000000.0).Equal(metricAt(t, out, symbol.CustomLoadMetric).Get(symbol.Capacity)))
}

func TestPropertyArity(t *testing.T) {
	t.Run("two properties rejected", func(t *testing.T) {
		metric := customMetric(model.PropertyOf("foo", "bar"), model.PropertyOf("baz", "qux"))
		_, err := Transform(withDynamic(symbol.CustomLoadMetric, metric), schema.Version1_0)
		rejected := requireRejected(t, err, "property")
		assert.Equal(t, schema.ResourceCustomLoadMetric, rejected.Resource)
	})

	t.Run("one property flattened", func(t *testing.T) {
		metric := customMetric(model.PropertyOf("foo", "bar"))
		out, err := Transform(withDynamic(symbol.CustomLoadMetric, metric), schema.Version1_0)
		require.NoError(t, err)
		got := metricAt(t, out, symbol.CustomLoadMetric).Get(symbol.Property)
		p, ok := got.PropertyValue()
		require.True(t, ok, "got %s", got.Kind())
		assert.Equal(t, model.Property{Name: "foo", Value: "bar"}, p)
	})

	t.Run("empty list dropped", func(t *testing.T) {
		metric := customMetric().Set(symbol.Property, model.List())
		out, err := Transform(withDynamic(symbol.CustomLoadMetric, metric), schema.Version1_0)
		require.NoError(t, err)
		assert.False(t, metricAt(t, out, symbol.CustomLoadMetric).Has(symbol.Property))
	})

	t.Run("1.1 keeps the list", func(t *testing.T) {
		metric := customMetric(model.PropertyOf("foo", "bar"), model.PropertyOf("baz", "qux"))
		out, err := Transform(withDynamic(symbol.CustomLoadMetric, metric), schema.Version1_1)
		require.NoError(t, err)
		assert.Equal(t, 2, metricAt(t, out, symbol.CustomLoadMetric).Get(symbol.Property).Len())
	})
}

func TestConfigRules(t *testing.T) {
	tests := []struct {
		name      string
		target    schema.Version
		config    *model.Tree
		want      *model.Tree
		rejectsOn string
	}{
		{
			name:      "expression on 1.2-only expression attribute",
			target:    schema.Version1_1,
			config:    model.NewTree().Set(symbol.Ping, model.Expression("${ping:10}")),
			rejectsOn: "ping",
		},
		{
			name:   "expression allowed in legacy generations",
			target: schema.Version1_0,
			config: model.NewTree().Set(symbol.ProxyList, model.Expression("${proxies}")),
			want:   model.NewTree().Set(symbol.ProxyList, model.Expression("${proxies}")),
		},
		{
			name:   "default session draining strategy discarded",
			target: schema.Version1_1,
			config: model.NewTree().
				Set(symbol.SessionDrainingStrategy, model.String("DEFAULT")).
				Set(symbol.StatusInterval, model.Int(10)).
				Set(symbol.Ping, model.Int(5)),
			want: model.NewTree().Set(symbol.Ping, model.Int(5)),
		},
		{
			name:      "non-default session draining strategy",
			target:    schema.Version1_1,
			config:    model.NewTree().Set(symbol.SessionDrainingStrategy, model.String("ALWAYS")),
			rejectsOn: "session-draining-strategy",
		},
		{
			name:      "status interval expression",
			target:    schema.Version1_0,
			config:    model.NewTree().Set(symbol.StatusInterval, model.Expression("${interval:10}")),
			rejectsOn: "status-interval",
		},
		{
			name:      "connector has no default",
			target:    schema.Version1_1,
			config:    model.NewTree().Set(symbol.Connector, model.String("ajp")),
			rejectsOn: "connector",
		},
		{
			name:      "outbound proxies",
			target:    schema.Version1_0,
			config:    model.NewTree().Set(symbol.Proxies, model.List(model.String("proxy1"))),
			rejectsOn: "proxies",
		},
		{
			name:   "empty proxies discarded",
			target: schema.Version1_0,
			config: model.NewTree().Set(symbol.Proxies, model.List()),
			want:   model.NewTree(),
		},
		{
			name:   "proxies kept for 1.1",
			target: schema.Version1_1,
			config: model.NewTree().Set(symbol.Proxies, model.List(model.String("proxy1"))),
			want:   model.NewTree().Set(symbol.Proxies, model.List(model.String("proxy1"))),
		},
		{
			name:   "load balancing group renamed",
			target: schema.Version1_0,
			config: model.NewTree().Set(symbol.LoadBalancingGroup, model.String("group1")),
			want:   model.NewTree().Set(symbol.Domain, model.String("group1")),
		},
		{
			name:   "load balancing group kept for 1.1",
			target: schema.Version1_1,
			config: model.NewTree().Set(symbol.LoadBalancingGroup, model.String("group1")),
			want:   model.NewTree().Set(symbol.LoadBalancingGroup, model.String("group1")),
		},
		{
			name:   "ssl expression",
			target: schema.Version1_1,
			config: model.NewTree().Set(symbol.SSL, model.Object(model.NewTree().
				Set(symbol.Protocol, model.Expression("${tls}")))),
			rejectsOn: "protocol",
		},
		{
			name:   "provider expression",
			target: schema.Version1_1,
			config: model.NewTree().Set(symbol.SimpleLoadProvider, model.Object(model.NewTree().
				Set(symbol.Factor, model.Expression("${factor}")))),
			rejectsOn: "factor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Transform(subsystem(tt.config), tt.target)
			if tt.rejectsOn != "" {
				requireRejected(t, err, tt.rejectsOn)
				return
			}
			require.NoError(t, err)
			config, ok := out.Child(symbol.ModClusterConfig)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(config), "got %s", config)
		})
	}
}

func TestDeepestRejectionWins(t *testing.T) {
	metric := customMetric(model.PropertyOf("a", "1"), model.PropertyOf("b", "2"))
	tree := withDynamic(symbol.CustomLoadMetric, metric)
	config, _ := tree.Child(symbol.ModClusterConfig)
	config.Set(symbol.Connector, model.String("ajp"))

	_, err := Transform(tree, schema.Version1_0)
	requireRejected(t, err, "property")
}

func TestSourceIsNotModified(t *testing.T) {
	metric := customMetric(model.PropertyOf("foo", "bar")).Set(symbol.Capacity, model.Double(42.0))
	source := withDynamic(symbol.CustomLoadMetric, metric)
	config, _ := source.Child(symbol.ModClusterConfig)
	config.Set(symbol.LoadBalancingGroup, model.String("group1"))
	before := source.Clone()

	out, err := Transform(source, schema.Version1_0)
	require.NoError(t, err)
	assert.False(t, out.Equal(source))
	assert.True(t, before.Equal(source))

	// A rejected call leaves the source alone too.
	config.Set(symbol.Connector, model.String("ajp"))
	before = source.Clone()
	_, err = Transform(source, schema.Version1_0)
	require.Error(t, err)
	assert.True(t, before.Equal(source))
}

func TestCurrentTargetReturnsCopy(t *testing.T) {
	source := subsystem(model.NewTree().Set(symbol.Connector, model.String("ajp")))
	out, err := Transform(source, schema.Current)
	require.NoError(t, err)
	assert.True(t, out.Equal(source))

	config, _ := out.Child(symbol.ModClusterConfig)
	config.Set(symbol.Ping, model.Int(1))
	assert.False(t, out.Equal(source))
}

func TestUnknownTarget(t *testing.T) {
	_, err := Transform(subsystem(model.NewTree()), schema.Version{Major: 2})
	assert.True(t, errors.Is(err, schema.ErrUnknownVersion))
}

func TestOutputIsDefinedByTarget(t *testing.T) {
	metric := model.NewTree().
		Set(symbol.Type, model.String("cpu")).
		Set(symbol.Capacity, model.Double(7.0)).
		Set(symbol.Property, model.List(model.PropertyOf("k", "v")))
	tree := withDynamic(symbol.LoadMetric, metric)
	config, _ := tree.Child(symbol.ModClusterConfig)
	config.Set(symbol.LoadBalancingGroup, model.String("g")).
		Set(symbol.Proxies, model.List()).
		Set(symbol.SessionDrainingStrategy, model.String("DEFAULT")).
		Set(symbol.Ping, model.Int(3))

	for _, v := range []schema.Version{schema.Version1_0, schema.Version1_1} {
		t.Run(v.String(), func(t *testing.T) {
			out, err := Transform(tree, v)
			require.NoError(t, err)
			gen, err := schema.GenerationFor(v)
			require.NoError(t, err)
			assertDefined(t, gen, schema.ResourceSubsystem, out)
		})
	}
}

func assertDefined(t *testing.T, gen *schema.Generation, kind schema.ResourceKind, tree *model.Tree) {
	t.Helper()
	for _, k := range tree.Keys() {
		assert.True(t, gen.Defines(kind, k), "%s does not define %s on %s", gen.Version, k, kind)
	}
	for _, c := range schema.Children(kind) {
		v := tree.Get(c.Kind.Symbol())
		if child, ok := v.ObjectValue(); ok {
			assertDefined(t, gen, c.Kind, child)
		}
		items, _ := v.Items()
		for _, it := range items {
			if child, ok := it.ObjectValue(); ok {
				assertDefined(t, gen, c.Kind, child)
			}
		}
	}
}

func TestEveryRuleIsExercised(t *testing.T) {
	for _, r := range Rules() {
		t.Run(r.String(), func(t *testing.T) {
			_, ok := schema.Lookup(r.Resource, r.Attribute)
			require.True(t, ok, "rule names an attribute the model does not have")
			assert.True(t, r.AppliesTo(schema.Version1_0))
			assert.False(t, r.AppliesTo(schema.Current))
			assert.True(t, r.Reject != nil || r.Convert != nil || r.Rename != symbol.Unknown)

			current := RulesFor(schema.Current)
			assert.Empty(t, current)
		})
	}
}

func TestRuleActions(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		want string
	}{
		{"reject", Rule{Reject: rejectExpression}, "reject"},
		{"reject and convert", Rule{Reject: rejectNonEmpty, Convert: discard}, "reject, convert"},
		{"rename", Rule{Rename: symbol.Domain}, "rename to domain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Actions())
		})
	}
}

func TestTransformedTreeWritesInTargetLayout(t *testing.T) {
	doc, err := codec.ParseBytes([]byte(`<subsystem xmlns="urn:jboss:domain:modcluster:1.2">
    <mod-cluster-config session-draining-strategy="DEFAULT">
        <proxies load-balancing-group="group1" ping="5"/>
        <dynamic-load-provider>
            <custom-load-metric class="org.example.Metric" capacity="42.0">
                <property name="foo" value="bar"/>
            </custom-load-metric>
        </dynamic-load-provider>
    </mod-cluster-config>
</subsystem>`))
	require.NoError(t, err)

	out, err := Transform(doc.Tree, schema.Version1_0)
	require.NoError(t, err)

	xml, err := codec.NewWriter(codec.WithVersion(schema.Version1_0)).Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(xml), `domain="group1"`)
	assert.Contains(t, string(xml), `capacity="42"`)

	back, err := codec.ParseBytes(xml)
	require.NoError(t, err)
	assert.Equal(t, schema.Version1_0, back.Version)
	config, _ := back.Config()
	assert.Equal(t, "group1", config.Get(symbol.LoadBalancingGroup).Text())
}

func TestOutcomeMetrics(t *testing.T) {
	rejected := metrics.TransformationsTotal.WithLabelValues("1.0.0", metrics.OutcomeRejected)
	before := testutil.ToFloat64(rejected)

	_, err := Transform(subsystem(model.NewTree().Set(symbol.Connector, model.String("ajp"))), schema.Version1_0)
	require.Error(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(rejected))
}
