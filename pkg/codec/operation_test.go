package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeContext(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "/", want: ""},
		{in: `"/foo"`, want: "/foo"},
		{in: `"/"`, want: ""},
		{in: "/foo", want: "/foo"},
		{in: "", want: ""},
		{in: `"`, want: `"`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeContext(tt.in))
		})
	}
}

func TestParseOperation(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		params  map[string]string
		want    *OperationRequest
		errKind ErrorKind
		errName string
	}{
		{
			name:   "enable context",
			op:     "enable-context",
			params: map[string]string{"virtualhost": "host1", "context": "/"},
			want:   &OperationRequest{Name: OpEnableContext, Context: &ContextTarget{VirtualHost: "host1", Context: ""}},
		},
		{
			name:    "context missing",
			op:      "disable-context",
			params:  map[string]string{"virtualhost": "host1"},
			errKind: MissingRequired,
			errName: "context",
		},
		{
			name:    "virtualhost missing",
			op:      "enable-context",
			params:  map[string]string{"context": "/app"},
			errKind: MissingRequired,
			errName: "virtualhost",
		},
		{
			name:   "stop context default wait",
			op:     "stop-context",
			params: map[string]string{"virtualhost": "host1", "context": `"/foo"`},
			want: &OperationRequest{Name: OpStopContext, WaitTime: DefaultWaitTime,
				Context: &ContextTarget{VirtualHost: "host1", Context: "/foo"}},
		},
		{
			name:   "stop with wait",
			op:     "stop",
			params: map[string]string{"waittime": "30"},
			want:   &OperationRequest{Name: OpStop, WaitTime: 30},
		},
		{
			name:    "negative wait",
			op:      "stop",
			params:  map[string]string{"waittime": "-1"},
			errKind: InvalidValue,
			errName: "waittime",
		},
		{
			name:   "add proxy",
			op:     "add-proxy",
			params: map[string]string{"host": "10.0.0.1", "port": "6666"},
			want:   &OperationRequest{Name: OpAddProxy, Proxy: &Proxy{Host: "10.0.0.1", Port: 6666}},
		},
		{
			name:    "proxy without port",
			op:      "remove-proxy",
			params:  map[string]string{"host": "10.0.0.1"},
			errKind: MissingRequired,
			errName: "port",
		},
		{
			name:    "bad port",
			op:      "add-proxy",
			params:  map[string]string{"host": "10.0.0.1", "port": "70000"},
			errKind: InvalidValue,
			errName: "port",
		},
		{
			name:    "unknown parameter",
			op:      "refresh",
			params:  map[string]string{"host": "h"},
			errKind: UnexpectedAttribute,
			errName: "host",
		},
		{
			name:    "unknown operation",
			op:      "explode",
			errKind: UnexpectedElement,
			errName: "explode",
		},
		{
			name: "parameterless",
			op:   "list-proxies",
			want: &OperationRequest{Name: OpListProxies},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOperation(tt.op, tt.params)
			if tt.want == nil {
				require.Error(t, err)
				assert.True(t, IsKind(err, tt.errKind), err.Error())
				var perr *ParseError
				require.ErrorAs(t, err, &perr)
				assert.Equal(t, tt.errName, perr.Name)
				assert.Zero(t, perr.Line)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuntimeOperationsAreSorted(t *testing.T) {
	ops := RuntimeOperations()
	require.Len(t, ops, 13)
	assert.Equal(t, OpAddProxy, ops[0])
}
