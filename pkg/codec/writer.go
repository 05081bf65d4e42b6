package codec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/cuemby/modcluster/pkg/model"
	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/cuemby/modcluster/pkg/symbol"
)

// ErrUnrepresentable is returned when a tree holds a value the target
// layout has no place for.
var ErrUnrepresentable = errors.New("value cannot be represented")

// Writer emits subsystem XML. It writes the current layout unless
// configured otherwise.
type Writer struct {
	version schema.Version
	indent  string
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithVersion selects the layout of an older generation.
func WithVersion(v schema.Version) WriterOption {
	return func(w *Writer) { w.version = v }
}

// WithIndent sets the per-level indentation. Empty writes a single line.
func WithIndent(indent string) WriterOption {
	return func(w *Writer) { w.indent = indent }
}

func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{version: schema.Current, indent: "    "}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Version returns the layout the writer emits.
func (w *Writer) Version() schema.Version { return w.version }

// Marshal renders tree as a byte slice.
func (w *Writer) Marshal(tree *model.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf, tree); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders a subsystem tree. Only attributes present in the tree are
// written, in schema order. Nothing is written to out when the tree cannot
// be represented in the selected layout.
func (w *Writer) Write(out io.Writer, tree *model.Tree) error {
	gen, err := schema.GenerationFor(w.version)
	if err != nil {
		return err
	}
	ns, err := NamespaceFor(w.version)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	e := &encoder{enc: xml.NewEncoder(&buf), gen: gen}
	if w.indent != "" {
		e.enc.Indent("", w.indent)
	}

	for _, k := range tree.Keys() {
		if k != symbol.ModClusterConfig {
			return unrepresentable(schema.ResourceSubsystem, k, w.version)
		}
	}
	root := xml.StartElement{
		Name: xml.Name{Local: symbol.Subsystem.String()},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: ns}},
	}
	e.open(root)
	if config, ok := tree.Child(symbol.ModClusterConfig); ok {
		e.writeConfig(config)
	}
	e.close(root)
	if e.err != nil {
		return e.err
	}
	if err := e.enc.Flush(); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = out.Write(buf.Bytes())
	return err
}

func unrepresentable(kind schema.ResourceKind, s symbol.Symbol, v schema.Version) error {
	return fmt.Errorf("%w: %s on %s in the %s layout", ErrUnrepresentable, s, kind, v)
}

// encoder holds the first error so element writers can be chained.
type encoder struct {
	enc *xml.Encoder
	gen *schema.Generation
	err error
}

func (e *encoder) open(start xml.StartElement) {
	if e.err == nil {
		e.err = e.enc.EncodeToken(start)
	}
}

func (e *encoder) close(start xml.StartElement) {
	if e.err == nil {
		e.err = e.enc.EncodeToken(start.End())
	}
}

func (e *encoder) leaf(start xml.StartElement) {
	e.open(start)
	e.close(start)
}

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func element(s symbol.Symbol) xml.StartElement {
	return xml.StartElement{Name: xml.Name{Local: s.String()}}
}

// attr appends the value stored under name as wire to start.
func (e *encoder) attr(start *xml.StartElement, kind schema.ResourceKind, wire, name symbol.Symbol, tree *model.Tree) {
	v, ok := tree.Lookup(name)
	if !ok {
		return
	}
	defName := name
	if name == symbol.Domain {
		defName = symbol.LoadBalancingGroup
	}
	if v.IsExpression() && !e.gen.AllowsExpression(kind, defName) {
		e.fail(fmt.Errorf("%w: expression for %s on %s in the %s layout",
			ErrUnrepresentable, name, kind, e.gen.Version))
		return
	}
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: wire.String()}, Value: v.Text()})
}

// checkKeys fails on any key that is neither an attribute of kind in this
// generation nor a nested resource of kind.
func (e *encoder) checkKeys(kind schema.ResourceKind, tree *model.Tree, extra ...symbol.Symbol) {
	allowed := make(map[symbol.Symbol]bool)
	for _, def := range e.gen.Attributes(kind) {
		allowed[def.Name] = true
	}
	for _, c := range schema.Children(kind) {
		allowed[c.Kind.Symbol()] = true
	}
	for _, s := range extra {
		allowed[s] = true
	}
	for _, k := range tree.Keys() {
		if !allowed[k] {
			e.fail(unrepresentable(kind, k, e.gen.Version))
			return
		}
	}
}

func (e *encoder) writeConfig(config *model.Tree) {
	legacy := e.gen.Version.Less(schema.Version1_1)
	if legacy {
		// Transformed 1.0.0 trees already carry domain.
		e.checkKeys(schema.ResourceConfig, config, symbol.Domain)
		if config.Has(symbol.Domain) && config.Has(symbol.LoadBalancingGroup) {
			e.fail(fmt.Errorf("%w: both domain and load-balancing-group are set", ErrUnrepresentable))
		}
	} else {
		e.checkKeys(schema.ResourceConfig, config)
	}

	start := element(symbol.ModClusterConfig)
	if legacy {
		for _, def := range e.gen.Attributes(schema.ResourceConfig) {
			wire := def.Name
			if def.Name == symbol.LoadBalancingGroup {
				wire = symbol.Domain
				e.attr(&start, schema.ResourceConfig, wire, symbol.Domain, config)
			}
			e.attr(&start, schema.ResourceConfig, wire, def.Name, config)
		}
	} else {
		for _, s := range rootAttributes {
			if _, ok := e.gen.Lookup(schema.ResourceConfig, s); ok {
				e.attr(&start, schema.ResourceConfig, s, s, config)
			}
		}
	}
	e.open(start)

	if !legacy {
		for _, g := range configGroups {
			el := element(g.element)
			for _, n := range g.attrs {
				if _, ok := e.gen.Lookup(schema.ResourceConfig, n.model); ok {
					e.attr(&el, schema.ResourceConfig, n.wire, n.model, config)
				}
			}
			if len(el.Attr) > 0 {
				e.leaf(el)
			}
		}
	}

	simple, hasSimple := config.Child(symbol.SimpleLoadProvider)
	dynamic, hasDynamic := config.Child(symbol.DynamicLoadProvider)
	switch {
	case hasSimple && hasDynamic:
		e.fail(fmt.Errorf("%w: both simple and dynamic load providers are set", ErrUnrepresentable))
	case hasSimple:
		e.writeLeaf(schema.ResourceSimpleLoadProvider, simple)
	case hasDynamic:
		e.writeDynamicProvider(dynamic)
	}
	if ssl, ok := config.Child(symbol.SSL); ok {
		e.writeLeaf(schema.ResourceSSL, ssl)
	}
	e.close(start)
}

func (e *encoder) startWithAttributes(kind schema.ResourceKind, tree *model.Tree) xml.StartElement {
	start := element(kind.Symbol())
	for _, def := range e.gen.Attributes(kind) {
		if def.Type == schema.TypePropertyList {
			continue
		}
		e.attr(&start, kind, def.Name, def.Name, tree)
	}
	return start
}

func (e *encoder) writeLeaf(kind schema.ResourceKind, tree *model.Tree) {
	e.checkKeys(kind, tree)
	e.leaf(e.startWithAttributes(kind, tree))
}

func (e *encoder) writeDynamicProvider(tree *model.Tree) {
	e.checkKeys(schema.ResourceDynamicLoadProvider, tree)
	start := e.startWithAttributes(schema.ResourceDynamicLoadProvider, tree)
	e.open(start)
	for _, c := range schema.Children(schema.ResourceDynamicLoadProvider) {
		items, _ := tree.Get(c.Kind.Symbol()).Items()
		for _, it := range items {
			metric, ok := it.ObjectValue()
			if !ok {
				e.fail(fmt.Errorf("%w: %s entry is %s", ErrUnrepresentable, c.Kind, it.Kind()))
				return
			}
			e.writeLoadMetric(c.Kind, metric)
		}
	}
	e.close(start)
}

func (e *encoder) writeLoadMetric(kind schema.ResourceKind, tree *model.Tree) {
	e.checkKeys(kind, tree)
	start := e.startWithAttributes(kind, tree)
	e.open(start)

	// A single flat property is what a downgraded tree carries.
	props := tree.Get(symbol.Property)
	if props.Kind() == model.KindProperty {
		props = model.List(props)
	}
	items, _ := props.Items()
	for _, it := range items {
		p, ok := it.PropertyValue()
		if !ok {
			e.fail(fmt.Errorf("%w: property entry is %s", ErrUnrepresentable, it.Kind()))
			return
		}
		el := element(symbol.Property)
		el.Attr = []xml.Attr{
			{Name: xml.Name{Local: symbol.Name.String()}, Value: p.Name},
			{Name: xml.Name{Local: symbol.Value.String()}, Value: p.Value},
		}
		e.leaf(el)
	}
	e.close(start)
}
