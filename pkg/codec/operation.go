package codec

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cuemby/modcluster/pkg/symbol"
)

// RuntimeOperation names an operation the running subsystem accepts
// against its proxies and contexts.
type RuntimeOperation string

const (
	OpListProxies              RuntimeOperation = "list-proxies"
	OpReadProxiesInfo          RuntimeOperation = "read-proxies-info"
	OpReadProxiesConfiguration RuntimeOperation = "read-proxies-configuration"
	OpAddProxy                 RuntimeOperation = "add-proxy"
	OpRemoveProxy              RuntimeOperation = "remove-proxy"
	OpRefresh                  RuntimeOperation = "refresh"
	OpReset                    RuntimeOperation = "reset"
	OpEnable                   RuntimeOperation = "enable"
	OpDisable                  RuntimeOperation = "disable"
	OpStop                     RuntimeOperation = "stop"
	OpEnableContext            RuntimeOperation = "enable-context"
	OpDisableContext           RuntimeOperation = "disable-context"
	OpStopContext              RuntimeOperation = "stop-context"
)

// DefaultWaitTime is the stop timeout in seconds when waittime is absent.
const DefaultWaitTime = 10

type parameter struct {
	name     symbol.Symbol
	required bool
}

var operationParameters = map[RuntimeOperation][]parameter{
	OpListProxies:              nil,
	OpReadProxiesInfo:          nil,
	OpReadProxiesConfiguration: nil,
	OpRefresh:                  nil,
	OpReset:                    nil,
	OpEnable:                   nil,
	OpDisable:                  nil,
	OpAddProxy:                 {{name: symbol.Host, required: true}, {name: symbol.Port, required: true}},
	OpRemoveProxy:              {{name: symbol.Host, required: true}, {name: symbol.Port, required: true}},
	OpStop:                     {{name: symbol.WaitTime}},
	OpEnableContext:            {{name: symbol.VirtualHost, required: true}, {name: symbol.Context, required: true}},
	OpDisableContext:           {{name: symbol.VirtualHost, required: true}, {name: symbol.Context, required: true}},
	OpStopContext: {
		{name: symbol.VirtualHost, required: true},
		{name: symbol.Context, required: true},
		{name: symbol.WaitTime},
	},
}

// RuntimeOperations lists every supported runtime operation, sorted.
func RuntimeOperations() []RuntimeOperation {
	out := make([]RuntimeOperation, 0, len(operationParameters))
	for op := range operationParameters {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Proxy addresses a balancer proxy.
type Proxy struct {
	Host string
	Port int
}

func (p Proxy) String() string { return p.Host + ":" + strconv.Itoa(p.Port) }

// ContextTarget addresses one deployed web context.
type ContextTarget struct {
	VirtualHost string
	Context     string
}

// OperationRequest is a validated runtime operation payload. Only the
// fields relevant to Name are set.
type OperationRequest struct {
	Name    RuntimeOperation
	Proxy   *Proxy
	Context *ContextTarget
	// WaitTime is in seconds; set for stop and stop-context.
	WaitTime int
}

// ParseOperation validates a flat name to value payload for op. Unknown
// parameters fail with UnexpectedAttribute and absent required ones with
// MissingRequired.
func ParseOperation(op string, params map[string]string) (*OperationRequest, error) {
	name := RuntimeOperation(op)
	allowed, ok := operationParameters[name]
	if !ok {
		return nil, &ParseError{Kind: UnexpectedElement, Name: op, Err: fmt.Errorf("unknown operation")}
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(map[symbol.Symbol]string, len(params))
	for _, k := range keys {
		sym := symbol.ForName(k)
		if !accepts(allowed, sym) {
			return nil, &ParseError{Kind: UnexpectedAttribute, Name: k, Err: fmt.Errorf("not a parameter of %s", op)}
		}
		values[sym] = params[k]
	}
	for _, p := range allowed {
		if _, ok := values[p.name]; p.required && !ok {
			return nil, &ParseError{Kind: MissingRequired, Name: p.name.String(), Err: fmt.Errorf("required by %s", op)}
		}
	}

	req := &OperationRequest{Name: name}
	if accepts(allowed, symbol.Host) {
		port, err := parsePort(values[symbol.Port])
		if err != nil {
			return nil, err
		}
		req.Proxy = &Proxy{Host: values[symbol.Host], Port: port}
	}
	if accepts(allowed, symbol.Context) {
		req.Context = &ContextTarget{
			VirtualHost: values[symbol.VirtualHost],
			Context:     NormalizeContext(values[symbol.Context]),
		}
	}
	if accepts(allowed, symbol.WaitTime) {
		req.WaitTime = DefaultWaitTime
		if raw, ok := values[symbol.WaitTime]; ok {
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil || n < 0 {
				return nil, &ParseError{Kind: InvalidValue, Name: symbol.WaitTime.String(),
					Err: fmt.Errorf("%q must be a non-negative number of seconds", raw)}
			}
			req.WaitTime = n
		}
	}
	return req, nil
}

func accepts(params []parameter, s symbol.Symbol) bool {
	for _, p := range params {
		if p.name == s {
			return true
		}
	}
	return false
}

func parsePort(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > 65535 {
		return 0, &ParseError{Kind: InvalidValue, Name: symbol.Port.String(),
			Err: fmt.Errorf("%q is not a valid port", raw)}
	}
	return n, nil
}

// NormalizeContext maps the root context "/" to "" and strips one pair of
// surrounding double quotes.
func NormalizeContext(context string) string {
	if len(context) >= 2 && strings.HasPrefix(context, `"`) && strings.HasSuffix(context, `"`) {
		context = context[1 : len(context)-1]
	}
	if context == "/" {
		return ""
	}
	return context
}
