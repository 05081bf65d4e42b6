package schema

import (
	"fmt"

	"github.com/cuemby/modcluster/pkg/model"
	"github.com/cuemby/modcluster/pkg/symbol"
)

// ResourceKind names one addressable resource of the subsystem.
type ResourceKind int

const (
	ResourceSubsystem ResourceKind = iota
	ResourceConfig
	ResourceSSL
	ResourceSimpleLoadProvider
	ResourceDynamicLoadProvider
	ResourceLoadMetric
	ResourceCustomLoadMetric
)

// Symbol returns the element symbol of the resource.
func (k ResourceKind) Symbol() symbol.Symbol {
	switch k {
	case ResourceSubsystem:
		return symbol.Subsystem
	case ResourceConfig:
		return symbol.ModClusterConfig
	case ResourceSSL:
		return symbol.SSL
	case ResourceSimpleLoadProvider:
		return symbol.SimpleLoadProvider
	case ResourceDynamicLoadProvider:
		return symbol.DynamicLoadProvider
	case ResourceLoadMetric:
		return symbol.LoadMetric
	case ResourceCustomLoadMetric:
		return symbol.CustomLoadMetric
	}
	return symbol.Unknown
}

func (k ResourceKind) String() string {
	if s := k.Symbol(); s.IsKnown() {
		return s.String()
	}
	return fmt.Sprintf("ResourceKind(%d)", int(k))
}

// ResourceKinds lists every kind in model order.
func ResourceKinds() []ResourceKind {
	return []ResourceKind{
		ResourceSubsystem,
		ResourceConfig,
		ResourceSSL,
		ResourceSimpleLoadProvider,
		ResourceDynamicLoadProvider,
		ResourceLoadMetric,
		ResourceCustomLoadMetric,
	}
}

// Child describes a nested resource held under a parent tree.
type Child struct {
	Kind ResourceKind
	// Repeated children are stored as a list of objects.
	Repeated bool
}

// Children returns the nested resources of k in schema order.
func Children(k ResourceKind) []Child {
	switch k {
	case ResourceSubsystem:
		return []Child{{Kind: ResourceConfig}}
	case ResourceConfig:
		return []Child{
			{Kind: ResourceSimpleLoadProvider},
			{Kind: ResourceDynamicLoadProvider},
			{Kind: ResourceSSL},
		}
	case ResourceDynamicLoadProvider:
		return []Child{
			{Kind: ResourceLoadMetric, Repeated: true},
			{Kind: ResourceCustomLoadMetric, Repeated: true},
		}
	}
	return nil
}

// LoadMetricTypes are the built-in metric types accepted by load-metric.
var LoadMetricTypes = OneOf{
	"cpu", "mem", "heap", "sessions", "requests",
	"send-traffic", "receive-traffic", "busyness",
}

// SessionDrainingStrategies are the values of session-draining-strategy.
var SessionDrainingStrategies = OneOf{"DEFAULT", "ALWAYS", "NEVER"}

var configAttributes = []AttributeDefinition{
	attribute(symbol.Advertise, TypeBool).withDefault(model.Bool(true)).expressions(),
	attribute(symbol.AdvertiseSocket, TypeString),
	attribute(symbol.AdvertiseSecurityKey, TypeString).expressions(),
	attribute(symbol.StickySession, TypeBool).withDefault(model.Bool(true)).expressions(),
	attribute(symbol.StickySessionForce, TypeBool).withDefault(model.Bool(false)).expressions(),
	attribute(symbol.StickySessionRemove, TypeBool).withDefault(model.Bool(false)).expressions(),
	attribute(symbol.Proxies, TypeList),
	attribute(symbol.ProxyList, TypeString).withDefault(model.String("")).expressions(),
	attribute(symbol.ProxyURL, TypeString).withDefault(model.String("/")).expressions(),
	attribute(symbol.LoadBalancingGroup, TypeString).expressions(),
	attribute(symbol.NodeTimeout, TypeInt).withDefault(model.Int(-1)).expressions().
		correctedBy(zeroMeansUnlimited).validatedBy(AtLeast(-1)).measuredIn(UnitSeconds),
	attribute(symbol.SocketTimeout, TypeInt).withDefault(model.Int(20)).expressions().
		validatedBy(AtLeast(1)).measuredIn(UnitSeconds),
	attribute(symbol.Ping, TypeInt).withDefault(model.Int(10)).expressions().
		validatedBy(AtLeast(-1)).measuredIn(UnitSeconds),
	attribute(symbol.WorkerTimeout, TypeInt).withDefault(model.Int(-1)).expressions().
		correctedBy(zeroMeansUnlimited).validatedBy(AtLeast(-1)).measuredIn(UnitSeconds),
	attribute(symbol.MaxAttempts, TypeInt).withDefault(model.Int(1)).expressions().
		validatedBy(AtLeast(-1)),
	attribute(symbol.FlushPackets, TypeBool).withDefault(model.Bool(false)).expressions(),
	attribute(symbol.FlushWait, TypeInt).withDefault(model.Int(-1)).expressions().
		correctedBy(zeroMeansUnlimited).validatedBy(AtLeast(-1)).measuredIn(UnitMilliseconds),
	attribute(symbol.Smax, TypeInt).expressions().validatedBy(AtLeast(-1)),
	attribute(symbol.TTL, TypeInt).withDefault(model.Int(60)).expressions().
		validatedBy(AtLeast(-1)).measuredIn(UnitSeconds),
	attribute(symbol.Balancer, TypeString).withDefault(model.String("mycluster")).expressions(),
	attribute(symbol.AutoEnableContexts, TypeBool).withDefault(model.Bool(true)).expressions(),
	attribute(symbol.StopContextTimeout, TypeInt).withDefault(model.Int(10)).expressions().
		validatedBy(AtLeast(-1)).measuredIn(UnitSeconds),
	attribute(symbol.ExcludedContexts, TypeString).withDefault(model.String("ROOT,console")).expressions(),
	attribute(symbol.Connector, TypeString),
	attribute(symbol.SessionDrainingStrategy, TypeString).withDefault(model.String("DEFAULT")).expressions().
		correctedBy(upperCase).validatedBy(SessionDrainingStrategies),
	attribute(symbol.StatusInterval, TypeInt).withDefault(model.Int(10)).expressions().
		validatedBy(AtLeast(1)).measuredIn(UnitSeconds),
}

var sslAttributes = []AttributeDefinition{
	attribute(symbol.KeyAlias, TypeString).expressions(),
	attribute(symbol.Password, TypeString).withDefault(model.String("changeit")).expressions(),
	attribute(symbol.CertificateKeyFile, TypeString).
		withDefault(model.Expression("${user.home}/.keystore")).expressions(),
	attribute(symbol.CipherSuite, TypeString).expressions(),
	attribute(symbol.Protocol, TypeString).withDefault(model.String("TLS")).expressions(),
	attribute(symbol.CACertificateFile, TypeString).expressions(),
	attribute(symbol.CARevocationURL, TypeString).expressions(),
}

var simpleProviderAttributes = []AttributeDefinition{
	attribute(symbol.Factor, TypeInt).withDefault(model.Int(1)).expressions().validatedBy(AtLeast(1)),
}

// Declarative defaults read by the runtime collaborator. Management-side
// synthesis uses its own constants.
const (
	DefaultHistory = 10
	DefaultDecay   = 2
)

var dynamicProviderAttributes = []AttributeDefinition{
	attribute(symbol.Decay, TypeInt).withDefault(model.Int(DefaultDecay)).expressions().validatedBy(AtLeast(1)),
	attribute(symbol.History, TypeInt).withDefault(model.Int(DefaultHistory)).expressions().validatedBy(AtLeast(0)),
}

var loadMetricAttributes = []AttributeDefinition{
	attribute(symbol.Type, TypeString).required().correctedBy(lowerCase).validatedBy(LoadMetricTypes),
	attribute(symbol.Weight, TypeInt).withDefault(model.Int(1)).expressions().validatedBy(AtLeast(0)),
	attribute(symbol.Capacity, TypeDouble).withDefault(model.Double(1.0)).expressions().
		validatedBy(DoubleRange{Min: 0}),
	attribute(symbol.Property, TypePropertyList),
}

var customLoadMetricAttributes = []AttributeDefinition{
	attribute(symbol.Class, TypeString).required(),
	attribute(symbol.Weight, TypeInt).withDefault(model.Int(1)).expressions().validatedBy(AtLeast(0)),
	attribute(symbol.Capacity, TypeDouble).withDefault(model.Double(1.0)).expressions().
		validatedBy(DoubleRange{Min: 0}),
	attribute(symbol.Property, TypePropertyList),
}

var attributeSets = map[ResourceKind][]AttributeDefinition{
	ResourceSubsystem:           nil,
	ResourceConfig:              configAttributes,
	ResourceSSL:                 sslAttributes,
	ResourceSimpleLoadProvider:  simpleProviderAttributes,
	ResourceDynamicLoadProvider: dynamicProviderAttributes,
	ResourceLoadMetric:          loadMetricAttributes,
	ResourceCustomLoadMetric:    customLoadMetricAttributes,
}

// Attributes returns the ordered attribute set of the current model for k.
func Attributes(k ResourceKind) []AttributeDefinition {
	set := attributeSets[k]
	out := make([]AttributeDefinition, len(set))
	copy(out, set)
	return out
}

// Lookup finds the current definition of s on resource k.
func Lookup(k ResourceKind, s symbol.Symbol) (AttributeDefinition, bool) {
	for _, def := range attributeSets[k] {
		if def.Name == s {
			return def, true
		}
	}
	return AttributeDefinition{}, false
}
