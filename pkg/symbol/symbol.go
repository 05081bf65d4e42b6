package symbol

// Symbol identifies a recognized attribute or element name of the
// mod_cluster subsystem schema. The zero value is Unknown.
type Symbol int

const (
	Unknown Symbol = iota

	// Elements
	Subsystem
	ModClusterConfig
	SimpleLoadProvider
	DynamicLoadProvider
	LoadMetric
	CustomLoadMetric
	Property
	SSL
	StickySession
	Advertise
	Proxies
	Contexts

	// Configuration attributes
	AdvertiseSocket
	AdvertiseSecurityKey
	StickySessionForce
	StickySessionRemove
	ProxyList
	ProxyURL
	LoadBalancingGroup
	Domain
	NodeTimeout
	SocketTimeout
	Ping
	WorkerTimeout
	MaxAttempts
	FlushPackets
	FlushWait
	Smax
	TTL
	Balancer
	AutoEnableContexts
	StopContextTimeout
	ExcludedContexts
	Connector
	SessionDrainingStrategy
	StatusInterval

	// Grouped element attributes
	Enable
	Force
	Remove
	SocketBinding
	SecurityKey
	URL
	OutboundSocketBindings
	AutoEnable
	StopTimeout

	// Load provider attributes
	Factor
	Decay
	History
	Type
	Class
	Weight
	Capacity
	Name
	Value

	// SSL attributes
	KeyAlias
	Password
	CertificateKeyFile
	CipherSuite
	Protocol
	CACertificateFile
	CARevocationURL

	// Runtime operation parameters
	Host
	Port
	VirtualHost
	Context
	WaitTime

	numSymbols
)

var names = [numSymbols]string{
	Unknown: "",

	Subsystem:           "subsystem",
	ModClusterConfig:    "mod-cluster-config",
	SimpleLoadProvider:  "simple-load-provider",
	DynamicLoadProvider: "dynamic-load-provider",
	LoadMetric:          "load-metric",
	CustomLoadMetric:    "custom-load-metric",
	Property:            "property",
	SSL:                 "ssl",
	StickySession:       "sticky-session",
	Advertise:           "advertise",
	Proxies:             "proxies",
	Contexts:            "contexts",

	AdvertiseSocket:         "advertise-socket",
	AdvertiseSecurityKey:    "advertise-security-key",
	StickySessionForce:      "sticky-session-force",
	StickySessionRemove:     "sticky-session-remove",
	ProxyList:               "proxy-list",
	ProxyURL:                "proxy-url",
	LoadBalancingGroup:      "load-balancing-group",
	Domain:                  "domain",
	NodeTimeout:             "node-timeout",
	SocketTimeout:           "socket-timeout",
	Ping:                    "ping",
	WorkerTimeout:           "worker-timeout",
	MaxAttempts:             "max-attempts",
	FlushPackets:            "flush-packets",
	FlushWait:               "flush-wait",
	Smax:                    "smax",
	TTL:                     "ttl",
	Balancer:                "balancer",
	AutoEnableContexts:      "auto-enable-contexts",
	StopContextTimeout:      "stop-context-timeout",
	ExcludedContexts:        "excluded-contexts",
	Connector:               "connector",
	SessionDrainingStrategy: "session-draining-strategy",
	StatusInterval:          "status-interval",

	Enable:                 "enable",
	Force:                  "force",
	Remove:                 "remove",
	SocketBinding:          "socket-binding",
	SecurityKey:            "security-key",
	URL:                    "url",
	OutboundSocketBindings: "outbound-socket-bindings",
	AutoEnable:             "auto-enable",
	StopTimeout:            "stop-timeout",

	Factor:   "factor",
	Decay:    "decay",
	History:  "history",
	Type:     "type",
	Class:    "class",
	Weight:   "weight",
	Capacity: "capacity",
	Name:     "name",
	Value:    "value",

	KeyAlias:           "key-alias",
	Password:           "password",
	CertificateKeyFile: "certificate-key-file",
	CipherSuite:        "cipher-suite",
	Protocol:           "protocol",
	CACertificateFile:  "ca-certificate-file",
	CARevocationURL:    "ca-revocation-url",

	Host:        "host",
	Port:        "port",
	VirtualHost: "virtualhost",
	Context:     "context",
	WaitTime:    "waittime",
}

// byName is built once and never written afterwards.
var byName = func() map[string]Symbol {
	m := make(map[string]Symbol, len(names))
	for i, n := range names {
		if n == "" {
			continue
		}
		m[n] = Symbol(i)
	}
	return m
}()

// ForName returns the symbol whose wire name is localName, or Unknown.
func ForName(localName string) Symbol {
	if s, ok := byName[localName]; ok {
		return s
	}
	return Unknown
}

// String returns the canonical wire name. Unknown renders as "unknown".
func (s Symbol) String() string {
	if s <= Unknown || s >= numSymbols {
		return "unknown"
	}
	return names[s]
}

// LocalName returns the wire name, empty for Unknown.
func (s Symbol) LocalName() string {
	if s <= Unknown || s >= numSymbols {
		return ""
	}
	return names[s]
}

func (s Symbol) IsKnown() bool {
	return s > Unknown && s < numSymbols
}

// All returns every known symbol in declaration order.
func All() []Symbol {
	out := make([]Symbol, 0, numSymbols-1)
	for s := Unknown + 1; s < numSymbols; s++ {
		out = append(out, s)
	}
	return out
}
