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

// stream walks the element structure of one document. Whitespace,
// comments and processing instructions are skipped.
type stream struct {
	dec   *xml.Decoder
	space string
	// start of the most recent token
	line, col int
}

func newStream(r io.Reader) *stream {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	return &stream{dec: dec}
}

func (s *stream) token() (xml.Token, error) {
	for {
		s.line, s.col = s.dec.InputPos()
		tok, err := s.dec.Token()
		if err != nil {
			return nil, s.malformed(err)
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst, xml.Directive:
			continue
		case xml.CharData:
			if len(bytes.TrimSpace(t)) == 0 {
				continue
			}
		}
		return tok, nil
	}
}

// root returns the document element.
func (s *stream) root() (xml.StartElement, error) {
	tok, err := s.token()
	if err != nil {
		return xml.StartElement{}, err
	}
	start, ok := tok.(xml.StartElement)
	if !ok {
		return xml.StartElement{}, s.fail(Malformed, "", "expected a root element")
	}
	s.space = start.Name.Space
	return start, nil
}

// child returns the next child element of the open element, or nil once
// its end tag is reached.
func (s *stream) child() (*xml.StartElement, error) {
	tok, err := s.token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case xml.StartElement:
		if t.Name.Space != s.space {
			return nil, s.fail(UnexpectedElement, t.Name.Local, "element is not in namespace %s", s.space)
		}
		return &t, nil
	case xml.EndElement:
		return nil, nil
	default:
		return nil, s.fail(Malformed, "", "unexpected text content")
	}
}

// end consumes the end tag of an element that allows no children.
func (s *stream) end() error {
	el, err := s.child()
	if err != nil {
		return err
	}
	if el != nil {
		return s.fail(UnexpectedElement, el.Name.Local, "no child elements are allowed here")
	}
	return nil
}

// eof checks that nothing but trailing whitespace follows the root.
func (s *stream) eof() error {
	for {
		tok, err := s.dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return s.malformed(err)
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
			continue
		case xml.CharData:
			if len(bytes.TrimSpace(t)) == 0 {
				continue
			}
		}
		return s.fail(Malformed, "", "content after the document element")
	}
}

func (s *stream) fail(kind ErrorKind, name string, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Name: name, Line: s.line, Column: s.col, Err: fmt.Errorf(format, args...)}
}

func (s *stream) malformed(err error) *ParseError {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	line, col := s.line, s.col
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		line, col = syn.Line, 0
	}
	return &ParseError{Kind: Malformed, Line: line, Column: col, Err: err}
}

// attributeSet tells readAttributes which wire names an element accepts
// and which model symbol each one is stored under.
type attributeSet struct {
	kind schema.ResourceKind
	gen  *schema.Generation
	// wire name to model symbol
	names map[symbol.Symbol]symbol.Symbol
}

func (a attributeSet) definition(wire symbol.Symbol) (schema.AttributeDefinition, bool) {
	target, ok := a.names[wire]
	if !ok {
		return schema.AttributeDefinition{}, false
	}
	return a.gen.Lookup(a.kind, target)
}

// flatAttributes accepts every non-list attribute of kind under its own name.
func flatAttributes(gen *schema.Generation, kind schema.ResourceKind) attributeSet {
	set := attributeSet{kind: kind, gen: gen, names: make(map[symbol.Symbol]symbol.Symbol)}
	for _, def := range gen.Attributes(kind) {
		if def.Type == schema.TypePropertyList {
			continue
		}
		set.names[def.Name] = def.Name
	}
	return set
}

// readAttributes parses and validates the attributes of start into tree.
func (s *stream) readAttributes(start *xml.StartElement, set attributeSet, tree *model.Tree) error {
	for _, a := range start.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		if a.Name.Space != "" {
			return s.fail(UnexpectedAttribute, a.Name.Local, "attribute is not allowed on %s", start.Name.Local)
		}
		def, ok := set.definition(symbol.ForName(a.Name.Local))
		if !ok {
			return s.fail(UnexpectedAttribute, a.Name.Local, "attribute is not allowed on %s", start.Name.Local)
		}
		if tree.Has(def.Name) {
			return s.fail(DuplicateAttribute, a.Name.Local, "%s is already defined", def.Name)
		}
		v, err := schema.ParseText(def, a.Value)
		if err == nil {
			v, err = schema.ValidateAndCoerce(set.kind, v, def)
		}
		if err != nil {
			return &ParseError{Kind: InvalidValue, Name: a.Name.Local, Line: s.line, Column: s.col, Err: err}
		}
		tree.Set(def.Name, v)
	}
	return nil
}

// requireAttributes reports the first non-nullable attribute of kind
// missing from tree.
func (s *stream) requireAttributes(start *xml.StartElement, set attributeSet, tree *model.Tree) error {
	for _, def := range set.gen.Attributes(set.kind) {
		if !def.Nullable && !tree.Has(def.Name) {
			return s.fail(MissingRequired, def.Name.String(), "attribute is required on %s", start.Name.Local)
		}
	}
	return nil
}
