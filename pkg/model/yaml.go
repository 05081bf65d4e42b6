package model

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders the tree as an ordered mapping so YAML output keeps
// the schema order of the source document.
func (t *Tree) MarshalYAML() (interface{}, error) {
	return t.yamlNode(), nil
}

// MarshalYAML renders a single value.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.yamlNode(), nil
}

func (t *Tree) yamlNode() *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if t == nil {
		return n
	}
	for _, k := range t.keys {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k.String()},
			t.vals[k].yamlNode(),
		)
	}
	return n
}

func (v Value) yamlNode() *yaml.Node {
	switch v.kind {
	case KindString, KindExpression:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.str}
	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.num, 10)}
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.flag)}
	case KindDouble:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v.dbl, 'g', -1, 64)}
	case KindProperty:
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "name"},
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.prop.Name},
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "value"},
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.prop.Value},
		}}
	case KindList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range v.list {
			n.Content = append(n.Content, it.yamlNode())
		}
		return n
	case KindObject:
		return v.obj.yamlNode()
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "~"}
}
