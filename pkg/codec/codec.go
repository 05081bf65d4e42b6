package codec

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/cuemby/modcluster/pkg/metrics"
	"github.com/cuemby/modcluster/pkg/model"
	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/cuemby/modcluster/pkg/symbol"
)

// Document is a parsed subsystem element.
type Document struct {
	Namespace string
	Version   schema.Version
	// Tree holds mod-cluster-config when the document configures one.
	Tree *model.Tree
}

// Config returns the mod-cluster-config tree.
func (d *Document) Config() (*model.Tree, bool) {
	return d.Tree.Child(symbol.ModClusterConfig)
}

// Parse reads one subsystem document. The namespace of the root element
// selects the reader; every reader produces the current model shape.
func Parse(r io.Reader) (*Document, error) {
	doc, err := parse(r)
	if err != nil {
		kind := Malformed
		var perr *ParseError
		if errors.As(err, &perr) {
			kind = perr.Kind
		}
		metrics.ParseErrorsTotal.WithLabelValues(kind.String()).Inc()
		return nil, err
	}
	metrics.DocumentsParsedTotal.WithLabelValues(doc.Namespace).Inc()
	return doc, nil
}

// ParseBytes parses an in-memory document.
func ParseBytes(b []byte) (*Document, error) {
	return Parse(bytes.NewReader(b))
}

func parse(r io.Reader) (*Document, error) {
	s := newStream(r)
	start, err := s.root()
	if err != nil {
		return nil, err
	}
	if symbol.ForName(start.Name.Local) != symbol.Subsystem {
		return nil, s.fail(UnexpectedElement, start.Name.Local, "document element must be subsystem")
	}
	version, err := VersionFor(start.Name.Space)
	if err != nil {
		return nil, &ParseError{Kind: UnknownNamespace, Name: start.Name.Space, Line: s.line, Column: s.col, Err: err}
	}
	rd, err := readerFor(version)
	if err != nil {
		return nil, err
	}
	tree, err := rd.readSubsystem(s, &start)
	if err != nil {
		return nil, err
	}
	if err := s.eof(); err != nil {
		return nil, err
	}
	return &Document{Namespace: start.Name.Space, Version: version, Tree: tree}, nil
}

// PathElement is one key=value step of a management address.
type PathElement struct {
	Key   string
	Value string
}

// Address locates a management resource.
type Address []PathElement

func (a Address) String() string {
	if len(a) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, p := range a {
		b.WriteString("/")
		b.WriteString(p.Key)
		b.WriteString("=")
		b.WriteString(p.Value)
	}
	return b.String()
}

// Append returns a new address with p added.
func (a Address) Append(p PathElement) Address {
	out := make(Address, len(a), len(a)+1)
	copy(out, a)
	return append(out, p)
}

var (
	SubsystemAddress = Address{{Key: "subsystem", Value: "modcluster"}}
	ConfigAddress    = SubsystemAddress.Append(PathElement{Key: symbol.ModClusterConfig.String(), Value: "configuration"})
	SSLAddress       = ConfigAddress.Append(PathElement{Key: symbol.SSL.String(), Value: "configuration"})
)

// Operation is a management operation a parsed document corresponds to.
type Operation struct {
	Name    string
	Address Address
	Params  *model.Tree
}

// Operations returns the add operations that recreate the document.
// From 1.2.0 ssl is its own resource and gets a separate add; older
// documents carry it inline in the configuration add.
func (d *Document) Operations() []Operation {
	ops := []Operation{{Name: "add", Address: SubsystemAddress, Params: model.NewTree()}}
	config, ok := d.Config()
	if !ok {
		return ops
	}
	params := config.Clone()
	var ssl *model.Tree
	if !d.Version.Less(schema.Version1_2) {
		ssl, _ = params.Child(symbol.SSL)
		params.Delete(symbol.SSL)
	}
	ops = append(ops, Operation{Name: "add", Address: ConfigAddress, Params: params})
	if ssl != nil {
		ops = append(ops, Operation{Name: "add", Address: SSLAddress, Params: ssl})
	}
	return ops
}
