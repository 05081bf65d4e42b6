package codec

import (
	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/cuemby/modcluster/pkg/symbol"
)

// wireName maps an XML attribute name to the model attribute it carries.
type wireName struct {
	wire  symbol.Symbol
	model symbol.Symbol
}

// group is a child element of mod-cluster-config that carries a subset of
// the flat configuration attributes from 1.1.0 onwards.
type group struct {
	element symbol.Symbol
	attrs   []wireName
}

var configGroups = []group{
	{element: symbol.Advertise, attrs: []wireName{
		{wire: symbol.Enable, model: symbol.Advertise},
		{wire: symbol.SocketBinding, model: symbol.AdvertiseSocket},
		{wire: symbol.SecurityKey, model: symbol.AdvertiseSecurityKey},
	}},
	{element: symbol.StickySession, attrs: []wireName{
		{wire: symbol.Enable, model: symbol.StickySession},
		{wire: symbol.Force, model: symbol.StickySessionForce},
		{wire: symbol.Remove, model: symbol.StickySessionRemove},
	}},
	{element: symbol.Proxies, attrs: []wireName{
		{wire: symbol.OutboundSocketBindings, model: symbol.Proxies},
		{wire: symbol.ProxyList, model: symbol.ProxyList},
		{wire: symbol.URL, model: symbol.ProxyURL},
		{wire: symbol.LoadBalancingGroup, model: symbol.LoadBalancingGroup},
		{wire: symbol.NodeTimeout, model: symbol.NodeTimeout},
		{wire: symbol.SocketTimeout, model: symbol.SocketTimeout},
		{wire: symbol.Ping, model: symbol.Ping},
		{wire: symbol.WorkerTimeout, model: symbol.WorkerTimeout},
		{wire: symbol.MaxAttempts, model: symbol.MaxAttempts},
		{wire: symbol.FlushPackets, model: symbol.FlushPackets},
		{wire: symbol.FlushWait, model: symbol.FlushWait},
		{wire: symbol.Smax, model: symbol.Smax},
		{wire: symbol.TTL, model: symbol.TTL},
		{wire: symbol.Balancer, model: symbol.Balancer},
	}},
	{element: symbol.Contexts, attrs: []wireName{
		{wire: symbol.AutoEnable, model: symbol.AutoEnableContexts},
		{wire: symbol.StopTimeout, model: symbol.StopContextTimeout},
		{wire: symbol.ExcludedContexts, model: symbol.ExcludedContexts},
	}},
}

// rootAttributes are carried on mod-cluster-config itself from 1.2.0.
var rootAttributes = []symbol.Symbol{
	symbol.Connector,
	symbol.SessionDrainingStrategy,
	symbol.StatusInterval,
}

func groupFor(element symbol.Symbol) (group, bool) {
	for _, g := range configGroups {
		if g.element == element {
			return g, true
		}
	}
	return group{}, false
}

// attributeSet restricts the group to attributes gen defines.
func (g group) attributeSet(gen *schema.Generation) attributeSet {
	set := attributeSet{kind: schema.ResourceConfig, gen: gen, names: make(map[symbol.Symbol]symbol.Symbol)}
	for _, n := range g.attrs {
		if _, ok := gen.Lookup(schema.ResourceConfig, n.model); ok {
			set.names[n.wire] = n.model
		}
	}
	return set
}

func rootAttributeSet(gen *schema.Generation) attributeSet {
	set := attributeSet{kind: schema.ResourceConfig, gen: gen, names: make(map[symbol.Symbol]symbol.Symbol)}
	for _, s := range rootAttributes {
		if _, ok := gen.Lookup(schema.ResourceConfig, s); ok {
			set.names[s] = s
		}
	}
	return set
}

// flatConfigAttributeSet is the 1.0.0 root attribute set, where
// load-balancing-group is written as domain.
func flatConfigAttributeSet(gen *schema.Generation) attributeSet {
	set := flatAttributes(gen, schema.ResourceConfig)
	if target, ok := set.names[symbol.LoadBalancingGroup]; ok {
		delete(set.names, symbol.LoadBalancingGroup)
		set.names[symbol.Domain] = target
	}
	return set
}

// wireOf returns the wire name that carries model in this set.
func (a attributeSet) wireOf(model symbol.Symbol) (symbol.Symbol, bool) {
	for wire, m := range a.names {
		if m == model {
			return wire, true
		}
	}
	return symbol.Unknown, false
}
