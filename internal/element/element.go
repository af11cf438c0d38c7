// internal/element/element.go
package element

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// New builds an element node from a tag name, its attributes and children.
// An x/net/html node can only have one parent, so any child that is already
// attached somewhere else is deep-cloned before it is appended.
func New(tag string, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if len(attrs) > 0 {
		n.Attr = make([]html.Attribute, len(attrs))
		copy(n.Attr, attrs)
	}
	for _, c := range children {
		if c == nil {
			continue
		}
		if attached(c) {
			c = Clone(c)
		}
		n.AppendChild(c)
	}
	return n
}

// Text builds a text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Newline returns a fresh newline-only text node.
func Newline() *html.Node {
	return Text("\n")
}

// Root builds a document (root) node holding children as top-level siblings.
func Root(children ...*html.Node) *html.Node {
	root := &html.Node{Type: html.DocumentNode}
	for _, c := range children {
		if c == nil {
			continue
		}
		if attached(c) {
			c = Clone(c)
		}
		root.AppendChild(c)
	}
	return root
}

// Clone deep-copies the subtree rooted at n. The copy is detached.
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if n.Attr != nil {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	for k := n.FirstChild; k != nil; k = k.NextSibling {
		c.AppendChild(Clone(k))
	}
	return c
}

// ParseFragment parses markup as the content of a <body> element and returns
// the result under a root node.
func ParseFragment(r io.Reader) (*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return Root(nodes...), nil
}

// Attr returns the value of the named attribute on n, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// TextContent concatenates every text node below n.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var out []byte
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, TextContent(c)...)
	}
	return string(out)
}

func attached(n *html.Node) bool {
	return n.Parent != nil || n.PrevSibling != nil || n.NextSibling != nil
}
