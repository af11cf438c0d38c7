// internal/document/wrap.go
package document

import (
	"docwrap/internal/element"

	"golang.org/x/net/html"
)

var charsetMeta = []html.Attribute{{Key: "charset", Val: "utf-8"}}

// Wrap builds a new document around tree. A root node contributes its
// children as body content; any other node is the sole content item. The
// input is only read: content nodes are copied into the new tree.
func (w *Wrapper) Wrap(tree *html.Node, file FileMeta) *html.Node {
	head := w.head(resolveTitle(w.cfg.Title, file))
	body := w.body(contents(tree))

	htmlAttrs := []html.Attribute{{Key: "lang", Val: w.cfg.Language}}
	if w.cfg.Dir != "" {
		htmlAttrs = append(htmlAttrs, html.Attribute{Key: "dir", Val: string(w.cfg.Dir)})
	}

	return element.Root(
		w.cfg.Doctype.Node(),
		element.Newline(),
		element.New("html", htmlAttrs,
			element.Newline(),
			element.New("head", nil, head...),
			element.Newline(),
			element.New("body", nil, body...),
			element.Newline(),
		),
		element.Newline(),
	)
}

func (w *Wrapper) head(title string) []*html.Node {
	items := []*html.Node{element.New("meta", charsetMeta)}
	if title != "" {
		items = append(items, element.New("title", nil, element.Text(title)))
	}
	for _, m := range w.cfg.Meta {
		items = append(items, element.New("meta", m))
	}
	for _, l := range w.cfg.Link {
		items = append(items, element.New("link", l))
	}
	// Inline styles come before linked stylesheets.
	for _, css := range w.cfg.Style {
		items = append(items, element.New("style", nil, element.Text(css)))
	}
	for _, href := range w.cfg.CSS {
		items = append(items, element.New("link", []html.Attribute{
			{Key: "rel", Val: "stylesheet"},
			{Key: "href", Val: href},
		}))
	}
	return appendLines(nil, items...)
}

func (w *Wrapper) body(content []*html.Node) []*html.Node {
	var out []*html.Node
	if len(content) > 0 {
		out = append(out, element.Newline())
		out = append(out, content...)
	}
	var scripts []*html.Node
	// Inline scripts come before referenced ones.
	for _, js := range w.cfg.Script {
		scripts = append(scripts, element.New("script", nil, element.Text(js)))
	}
	for _, src := range w.cfg.JS {
		scripts = append(scripts, element.New("script", []html.Attribute{{Key: "src", Val: src}}))
	}
	return appendLines(out, scripts...)
}

// appendLines appends each item preceded by a newline, then a final newline.
func appendLines(dst []*html.Node, items ...*html.Node) []*html.Node {
	for _, n := range items {
		dst = append(dst, element.Newline(), n)
	}
	return append(dst, element.Newline())
}

func contents(tree *html.Node) []*html.Node {
	if tree == nil {
		return nil
	}
	if tree.Type != html.DocumentNode {
		return []*html.Node{element.Clone(tree)}
	}
	var out []*html.Node
	for c := tree.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, element.Clone(c))
	}
	return out
}
