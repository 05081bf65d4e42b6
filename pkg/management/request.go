package management

import (
	"fmt"

	"github.com/cuemby/modcluster/pkg/codec"
	"github.com/cuemby/modcluster/pkg/model"
	"github.com/cuemby/modcluster/pkg/symbol"
)

// Request is one management operation as read from an apply file.
//
//	- operation: write-attribute
//	  resource: configuration
//	  name: load-balancing-group
//	  value: group1
type Request struct {
	Operation string         `yaml:"operation"`
	Resource  string         `yaml:"resource,omitempty"`
	Name      string         `yaml:"name,omitempty"`
	Value     any            `yaml:"value,omitempty"`
	Params    map[string]any `yaml:"params,omitempty"`
}

// Address returns the address the request targets: configuration unless
// resource is ssl.
func (r Request) Address() (codec.Address, error) {
	switch r.Resource {
	case "", "configuration", symbol.ModClusterConfig.String():
		return codec.ConfigAddress, nil
	case symbol.SSL.String():
		return codec.SSLAddress, nil
	}
	return nil, fmt.Errorf("%w: unknown resource %q", ErrNotFound, r.Resource)
}

// Execute dispatches r. Only read-resource returns a tree.
func (c *Controller) Execute(r Request) (*model.Tree, error) {
	addr, err := r.Address()
	if err != nil {
		return nil, &OperationError{Operation: r.Operation, Err: err}
	}

	switch r.Operation {
	case OpAdd:
		return nil, c.Add(addr, r.Params)
	case OpRemove:
		return nil, c.Remove(addr)
	case OpWriteAttribute:
		return nil, c.WriteAttribute(addr, r.Name, r.Value)
	case OpUndefineAttribute:
		return nil, c.UndefineAttribute(addr, r.Name)
	case OpReadResource:
		return c.ReadResource(addr, r.Params["include-defaults"] == true)
	case OpAddMetric:
		return nil, c.AddMetric(r.Params)
	case OpRemoveMetric:
		return nil, c.RemoveMetric(fmt.Sprint(r.Params[symbol.Type.String()]))
	case OpAddCustomMetric:
		return nil, c.AddCustomMetric(r.Params)
	case OpRemoveCustomMetric:
		return nil, c.RemoveCustomMetric(fmt.Sprint(r.Params[symbol.Class.String()]))
	}
	return nil, &OperationError{Operation: r.Operation, Address: addr, Err: fmt.Errorf("unknown operation")}
}

// ExecuteAll runs requests in order and stops at the first failure,
// returning how many succeeded.
func (c *Controller) ExecuteAll(requests []Request) (int, error) {
	for i, r := range requests {
		if _, err := c.Execute(r); err != nil {
			return i, fmt.Errorf("request %d: %w", i+1, err)
		}
	}
	return len(requests), nil
}
