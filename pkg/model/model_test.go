package model

import (
	"testing"

	"github.com/cuemby/modcluster/pkg/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTreeSetKeepsPosition(t *testing.T) {
	tree := NewTree().
		Set(symbol.Ping, Int(10)).
		Set(symbol.TTL, Int(60)).
		Set(symbol.Ping, Int(20))

	assert.Equal(t, []symbol.Symbol{symbol.Ping, symbol.TTL}, tree.Keys())
	assert.Equal(t, Int(20), tree.Get(symbol.Ping))

	tree.Set(symbol.Ping, Undefined())
	assert.False(t, tree.Has(symbol.Ping))
	assert.Equal(t, []symbol.Symbol{symbol.TTL}, tree.Keys())
}

func TestTreeEqualIgnoresKeyOrder(t *testing.T) {
	a := NewTree().Set(symbol.Ping, Int(1)).Set(symbol.Balancer, String("b"))
	b := NewTree().Set(symbol.Balancer, String("b")).Set(symbol.Ping, Int(1))
	assert.True(t, a.Equal(b))

	b.Set(symbol.Ping, Int(2))
	assert.False(t, a.Equal(b))

	var empty *Tree
	assert.True(t, empty.Equal(NewTree()))
}

func TestValueEqualIsKindSensitive(t *testing.T) {
	assert.False(t, Int(42).Equal(Double(42)))
	assert.False(t, String("${x}").Equal(Expression("${x}")))
	assert.True(t, List(PropertyOf("a", "b")).Equal(List(PropertyOf("a", "b"))))
	assert.False(t, List(String("a"), String("b")).Equal(List(String("b"), String("a"))))
}

func TestCloneIsDeep(t *testing.T) {
	inner := NewTree().Set(symbol.Weight, Int(1))
	src := NewTree().Set(symbol.DynamicLoadProvider, Object(NewTree().
		Set(symbol.LoadMetric, List(Object(inner)))))

	cp := src.Clone()
	require.True(t, cp.Equal(src))

	dyn, ok := cp.Child(symbol.DynamicLoadProvider)
	require.True(t, ok)
	dyn.Set(symbol.History, Int(9))

	srcDyn, _ := src.Child(symbol.DynamicLoadProvider)
	assert.False(t, srcDyn.Has(symbol.History))
}

func TestIsExpression(t *testing.T) {
	assert.True(t, IsExpression("${jboss.bind.address}"))
	assert.True(t, IsExpression("prefix-${a:b}-suffix"))
	assert.False(t, IsExpression("${unterminated"))
	assert.False(t, IsExpression("plain"))
	assert.Equal(t, KindExpression, Text("${x}").Kind())
	assert.Equal(t, KindString, Text("x").Kind())
}

func TestResolveExpression(t *testing.T) {
	props := map[string]string{"host": "10.0.0.1", "port": "8090"}
	lookup := func(name string) (string, bool) {
		v, ok := props[name]
		return v, ok
	}

	tests := []struct {
		name    string
		expr    string
		want    string
		wantErr bool
	}{
		{name: "single", expr: "${host}", want: "10.0.0.1"},
		{name: "embedded", expr: "${host}:${port}", want: "10.0.0.1:8090"},
		{name: "default", expr: "${missing:fallback}", want: "fallback"},
		{name: "alternatives", expr: "${missing,port}", want: "8090"},
		{name: "unresolved", expr: "${missing}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveExpression(tt.expr, lookup)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnresolved)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvLookup(t *testing.T) {
	t.Setenv("MODCLUSTER_TEST_PROXY", "proxy1:6666")
	v, err := Resolve(Expression("${env.MODCLUSTER_TEST_PROXY}"), EnvLookup(nil))
	require.NoError(t, err)
	assert.Equal(t, String("proxy1:6666"), v)
}

func TestTreeMarshalYAMLKeepsOrder(t *testing.T) {
	tree := NewTree().
		Set(symbol.Ping, Int(10)).
		Set(symbol.Balancer, String("mycluster")).
		Set(symbol.Capacity, Double(1.5)).
		Set(symbol.Property, List(PropertyOf("foo", "bar")))

	out, err := yaml.Marshal(tree)
	require.NoError(t, err)
	assert.Equal(t, "ping: 10\nbalancer: mycluster\ncapacity: 1.5\nproperty:\n    - name: foo\n      value: bar\n", string(out))
}
