package codec

import (
	"encoding/xml"

	"github.com/cuemby/modcluster/pkg/model"
	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/cuemby/modcluster/pkg/symbol"
)

// reader parses the subsystem element of one schema generation into the
// current in-memory shape.
type reader interface {
	readSubsystem(s *stream, start *xml.StartElement) (*model.Tree, error)
}

func readerFor(v schema.Version) (reader, error) {
	gen, err := schema.GenerationFor(v)
	if err != nil {
		return nil, err
	}
	switch {
	case v.Less(schema.Version1_1):
		return newReaderV1(gen), nil
	case v.Less(schema.Version1_2):
		return newReaderV2(gen), nil
	default:
		return newReaderV3(gen), nil
	}
}

// readSubsystem reads the root element, which carries no attributes and
// at most one mod-cluster-config child.
func readSubsystem(s *stream, start *xml.StartElement, gen *schema.Generation,
	readConfig func(*stream, *xml.StartElement) (*model.Tree, error)) (*model.Tree, error) {

	root := model.NewTree()
	none := attributeSet{kind: schema.ResourceSubsystem, gen: gen}
	if err := s.readAttributes(start, none, root); err != nil {
		return nil, err
	}
	for {
		el, err := s.child()
		if err != nil {
			return nil, err
		}
		if el == nil {
			return root, nil
		}
		if symbol.ForName(el.Name.Local) != symbol.ModClusterConfig {
			return nil, s.fail(UnexpectedElement, el.Name.Local, "not allowed in subsystem")
		}
		if root.Has(symbol.ModClusterConfig) {
			return nil, s.fail(DuplicateElement, el.Name.Local, "only one configuration is allowed")
		}
		config, err := readConfig(s, el)
		if err != nil {
			return nil, err
		}
		root.Set(symbol.ModClusterConfig, model.Object(config))
	}
}

// readerV1 reads the flat 1.0.0 layout. Its child parsers for ssl and the
// load providers are shared by every later generation.
type readerV1 struct {
	gen *schema.Generation
}

func newReaderV1(gen *schema.Generation) *readerV1 {
	return &readerV1{gen: gen}
}

func (r *readerV1) readSubsystem(s *stream, start *xml.StartElement) (*model.Tree, error) {
	return readSubsystem(s, start, r.gen, r.readConfig)
}

func (r *readerV1) readConfig(s *stream, start *xml.StartElement) (*model.Tree, error) {
	tree := model.NewTree()
	if err := s.readAttributes(start, flatConfigAttributeSet(r.gen), tree); err != nil {
		return nil, err
	}
	for {
		el, err := s.child()
		if err != nil {
			return nil, err
		}
		if el == nil {
			return tree, nil
		}
		handled, err := r.configChild(s, el, tree)
		if err != nil {
			return nil, err
		}
		if !handled {
			return nil, s.fail(UnexpectedElement, el.Name.Local, "not allowed in %s", start.Name.Local)
		}
	}
}

// configChild reads ssl and load provider elements. It reports false for
// any other element and leaves it unread.
func (r *readerV1) configChild(s *stream, el *xml.StartElement, tree *model.Tree) (bool, error) {
	sym := symbol.ForName(el.Name.Local)
	var (
		child *model.Tree
		err   error
	)
	switch sym {
	case symbol.SSL:
		if tree.Has(symbol.SSL) {
			return true, s.fail(DuplicateElement, el.Name.Local, "ssl is already configured")
		}
		child, err = r.readLeaf(s, el, schema.ResourceSSL)
	case symbol.SimpleLoadProvider, symbol.DynamicLoadProvider:
		if tree.Has(symbol.SimpleLoadProvider) || tree.Has(symbol.DynamicLoadProvider) {
			return true, s.fail(DuplicateElement, el.Name.Local, "only one load provider may be configured")
		}
		if sym == symbol.SimpleLoadProvider {
			child, err = r.readLeaf(s, el, schema.ResourceSimpleLoadProvider)
		} else {
			child, err = r.readDynamicProvider(s, el)
		}
	default:
		return false, nil
	}
	if err != nil {
		return true, err
	}
	tree.Set(sym, model.Object(child))
	return true, nil
}

// readLeaf reads an element made of attributes only.
func (r *readerV1) readLeaf(s *stream, el *xml.StartElement, kind schema.ResourceKind) (*model.Tree, error) {
	tree := model.NewTree()
	set := flatAttributes(r.gen, kind)
	if err := s.readAttributes(el, set, tree); err != nil {
		return nil, err
	}
	if err := s.end(); err != nil {
		return nil, err
	}
	return tree, s.requireAttributes(el, set, tree)
}

func (r *readerV1) readDynamicProvider(s *stream, el *xml.StartElement) (*model.Tree, error) {
	tree := model.NewTree()
	if err := s.readAttributes(el, flatAttributes(r.gen, schema.ResourceDynamicLoadProvider), tree); err != nil {
		return nil, err
	}
	var metrics, custom []model.Value
	for {
		child, err := s.child()
		if err != nil {
			return nil, err
		}
		if child == nil {
			break
		}
		switch symbol.ForName(child.Name.Local) {
		case symbol.LoadMetric:
			m, err := r.readLoadMetric(s, child, schema.ResourceLoadMetric)
			if err != nil {
				return nil, err
			}
			metrics = append(metrics, model.Object(m))
		case symbol.CustomLoadMetric:
			m, err := r.readLoadMetric(s, child, schema.ResourceCustomLoadMetric)
			if err != nil {
				return nil, err
			}
			custom = append(custom, model.Object(m))
		default:
			return nil, s.fail(UnexpectedElement, child.Name.Local, "not allowed in %s", el.Name.Local)
		}
	}
	if len(metrics) > 0 {
		tree.Set(symbol.LoadMetric, model.List(metrics...))
	}
	if len(custom) > 0 {
		tree.Set(symbol.CustomLoadMetric, model.List(custom...))
	}
	return tree, nil
}

func (r *readerV1) readLoadMetric(s *stream, el *xml.StartElement, kind schema.ResourceKind) (*model.Tree, error) {
	tree := model.NewTree()
	set := flatAttributes(r.gen, kind)
	if err := s.readAttributes(el, set, tree); err != nil {
		return nil, err
	}
	var props []model.Value
	for {
		child, err := s.child()
		if err != nil {
			return nil, err
		}
		if child == nil {
			break
		}
		if symbol.ForName(child.Name.Local) != symbol.Property {
			return nil, s.fail(UnexpectedElement, child.Name.Local, "not allowed in %s", el.Name.Local)
		}
		p, err := readProperty(s, child)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	if len(props) > 0 {
		tree.Set(symbol.Property, model.List(props...))
	}
	return tree, s.requireAttributes(el, set, tree)
}

// readProperty reads <property name="..." value="..."/>.
func readProperty(s *stream, el *xml.StartElement) (model.Value, error) {
	var name, value *string
	for _, a := range el.Attr {
		if a.Name.Space != "" {
			return model.Undefined(), s.fail(UnexpectedAttribute, a.Name.Local, "attribute is not allowed on property")
		}
		v := a.Value
		switch symbol.ForName(a.Name.Local) {
		case symbol.Name:
			if name != nil {
				return model.Undefined(), s.fail(DuplicateAttribute, a.Name.Local, "name is already defined")
			}
			name = &v
		case symbol.Value:
			if value != nil {
				return model.Undefined(), s.fail(DuplicateAttribute, a.Name.Local, "value is already defined")
			}
			value = &v
		default:
			return model.Undefined(), s.fail(UnexpectedAttribute, a.Name.Local, "attribute is not allowed on property")
		}
	}
	if err := s.end(); err != nil {
		return model.Undefined(), err
	}
	if name == nil {
		return model.Undefined(), s.fail(MissingRequired, symbol.Name.String(), "attribute is required on property")
	}
	if value == nil {
		return model.Undefined(), s.fail(MissingRequired, symbol.Value.String(), "attribute is required on property")
	}
	return model.PropertyOf(*name, *value), nil
}

// readerV2 reads the 1.1.0 layout, where most configuration attributes
// move into advertise, sticky-session, proxies and contexts elements.
// Everything below those elements is read by the embedded readerV1.
type readerV2 struct {
	gen *schema.Generation
	v1  *readerV1
}

func newReaderV2(gen *schema.Generation) *readerV2 {
	return &readerV2{gen: gen, v1: newReaderV1(gen)}
}

func (r *readerV2) readSubsystem(s *stream, start *xml.StartElement) (*model.Tree, error) {
	return readSubsystem(s, start, r.gen, r.readConfig)
}

func (r *readerV2) readConfig(s *stream, start *xml.StartElement) (*model.Tree, error) {
	tree := model.NewTree()
	none := attributeSet{kind: schema.ResourceConfig, gen: r.gen}
	if err := s.readAttributes(start, none, tree); err != nil {
		return nil, err
	}
	if err := r.readConfigChildren(s, start, tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func (r *readerV2) readConfigChildren(s *stream, start *xml.StartElement, tree *model.Tree) error {
	seen := make(map[symbol.Symbol]bool)
	for {
		el, err := s.child()
		if err != nil {
			return err
		}
		if el == nil {
			return nil
		}
		sym := symbol.ForName(el.Name.Local)
		if g, ok := groupFor(sym); ok {
			if seen[sym] {
				return s.fail(DuplicateElement, el.Name.Local, "element is already defined")
			}
			seen[sym] = true
			if err := s.readAttributes(el, g.attributeSet(r.gen), tree); err != nil {
				return err
			}
			if err := s.end(); err != nil {
				return err
			}
			continue
		}
		handled, err := r.v1.configChild(s, el, tree)
		if err != nil {
			return err
		}
		if !handled {
			return s.fail(UnexpectedElement, el.Name.Local, "not allowed in %s", start.Name.Local)
		}
	}
}

// readerV3 reads the 1.2.0 layout: root attributes on mod-cluster-config
// followed by the 1.1.0 children.
type readerV3 struct {
	gen *schema.Generation
	v2  *readerV2
}

func newReaderV3(gen *schema.Generation) *readerV3 {
	return &readerV3{gen: gen, v2: newReaderV2(gen)}
}

func (r *readerV3) readSubsystem(s *stream, start *xml.StartElement) (*model.Tree, error) {
	return readSubsystem(s, start, r.gen, r.readConfig)
}

func (r *readerV3) readConfig(s *stream, start *xml.StartElement) (*model.Tree, error) {
	tree := model.NewTree()
	if err := s.readAttributes(start, rootAttributeSet(r.gen), tree); err != nil {
		return nil, err
	}
	if err := r.v2.readConfigChildren(s, start, tree); err != nil {
		return nil, err
	}
	return tree, nil
}
