// internal/document/options.go
package document

import (
	"fmt"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

// Direction is the text direction placed on the <html> element.
type Direction string

const (
	DirAuto Direction = "auto"
	DirLTR  Direction = "ltr"
	DirRTL  Direction = "rtl"
)

func (d Direction) valid() bool {
	return d == DirAuto || d == DirLTR || d == DirRTL
}

// Options is the user-facing configuration of a Wrapper. Every field is
// optional; the zero value wraps fragments into a responsive HTML5 document
// in English.
type Options struct {
	Title      string    `yaml:"title"`
	Language   string    `yaml:"language"`
	Dir        Direction `yaml:"dir"`
	Responsive *bool     `yaml:"responsive"`
	Doctype    string    `yaml:"doctype"`

	// Style holds inline CSS, CSS holds stylesheet URLs.
	Style Strings `yaml:"style"`
	CSS   Strings `yaml:"css"`

	Meta AttrMaps `yaml:"meta"`
	Link AttrMaps `yaml:"link"`

	// Script holds inline JavaScript, JS holds script URLs.
	Script Strings `yaml:"script"`
	JS     Strings `yaml:"js"`
}

// Strings is a list that also accepts a single scalar in YAML.
type Strings []string

func (s *Strings) UnmarshalYAML(node *yaml.Node) error {
	list, err := castList[string](node)
	if err != nil {
		return err
	}
	*s = list
	return nil
}

// Attrs is an ordered attribute mapping. Order follows the source so the
// rendered attributes are stable.
type Attrs []html.Attribute

// NewAttrs builds Attrs from alternating keys and values. A trailing key
// without a value gets an empty value.
func NewAttrs(kv ...string) Attrs {
	attrs := make(Attrs, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		a := html.Attribute{Key: kv[i]}
		if i+1 < len(kv) {
			a.Val = kv[i+1]
		}
		attrs = append(attrs, a)
	}
	return attrs
}

// Get returns the value of key, or "".
func (a Attrs) Get(key string) string {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func (a *Attrs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of attributes", node.Line)
	}
	attrs := make(Attrs, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: attribute %q must be a scalar", val.Line, key.Value)
		}
		if isNull(val) {
			continue
		}
		attrs = append(attrs, html.Attribute{Key: key.Value, Val: val.Value})
	}
	*a = attrs
	return nil
}

// AttrMaps is a list of attribute mappings that also accepts a single
// mapping in YAML.
type AttrMaps []Attrs

func (m *AttrMaps) UnmarshalYAML(node *yaml.Node) error {
	list, err := castList[Attrs](node)
	if err != nil {
		return err
	}
	*m = list
	return nil
}

// castList decodes a YAML value that may be either a single T or a sequence
// of T. Null decodes to an empty list.
func castList[T any](node *yaml.Node) ([]T, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind == yaml.SequenceNode {
		list := make([]T, 0, len(node.Content))
		for _, item := range node.Content {
			if isNull(item) {
				continue
			}
			var v T
			if err := item.Decode(&v); err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	}
	var v T
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	return []T{v}, nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}
