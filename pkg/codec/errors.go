package codec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	Malformed ErrorKind = iota
	UnexpectedElement
	UnexpectedAttribute
	DuplicateElement
	DuplicateAttribute
	MissingRequired
	InvalidValue
	UnknownNamespace
)

func (k ErrorKind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case UnexpectedElement:
		return "unexpected-element"
	case UnexpectedAttribute:
		return "unexpected-attribute"
	case DuplicateElement:
		return "duplicate-element"
	case DuplicateAttribute:
		return "duplicate-attribute"
	case MissingRequired:
		return "missing-required"
	case InvalidValue:
		return "invalid-value"
	case UnknownNamespace:
		return "unknown-namespace"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError aborts a parse. Line and Column are zero for inputs that have
// no stream position, such as operation payloads.
type ParseError struct {
	Kind   ErrorKind
	Name   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Name != "" {
		fmt.Fprintf(&b, " '%s'", e.Name)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d, column %d", e.Line, e.Column)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsKind reports whether err is a ParseError of kind k.
func IsKind(err error, k ErrorKind) bool {
	var perr *ParseError
	return errors.As(err, &perr) && perr.Kind == k
}
