package management

import (
	"errors"
	"fmt"

	"github.com/cuemby/modcluster/pkg/codec"
)

var (
	// ErrNotFound is returned when an operation addresses an absent resource
	// or metric.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate is returned when adding a resource that exists.
	ErrDuplicate = errors.New("resource already exists")
)

// OperationError reports a failed management operation.
type OperationError struct {
	Operation string
	Address   codec.Address
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %s on %s failed: %v", e.Operation, e.Address, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }
