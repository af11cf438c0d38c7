// internal/builder/render.go
package builder

import (
	"bytes"
	"fmt"
	"strings"

	"docwrap/internal/element"
	"docwrap/internal/frontmatter"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	nethtml "golang.org/x/net/html"
)

var (
	markdownRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(newMDLinkTransformer(), 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	htmlSanitizer = bluemonday.UGCPolicy()
)

// fragment is a content file turned into a tree, ready to be wrapped.
type fragment struct {
	Matter frontmatter.Matter
	Root   *nethtml.Node
}

// processContent separates front matter from the body, renders markdown
// bodies to HTML, sanitizes unless unsafe is set, and parses the result as
// a fragment.
func processContent(rawContent []byte, markdown, unsafe bool) (fragment, error) {
	matter, body, err := frontmatter.Parse(rawContent)
	if err != nil {
		return fragment{}, err
	}

	out := body
	if markdown {
		var buf bytes.Buffer
		if err := markdownRenderer.Convert(body, &buf); err != nil {
			return fragment{}, fmt.Errorf("failed to render markdown with goldmark: %w", err)
		}
		out = buf.Bytes()
	}

	if !unsafe {
		out = htmlSanitizer.SanitizeBytes(out)
	}

	root, err := element.ParseFragment(bytes.NewReader(out))
	if err != nil {
		return fragment{}, err
	}
	return fragment{Matter: matter, Root: root}, nil
}

// inferTitle returns the text of the first <h1> in the tree, with runs of
// whitespace collapsed.
func inferTitle(n *nethtml.Node) string {
	if n.Type == nethtml.ElementNode && n.Data == "h1" {
		return strings.Join(strings.Fields(element.TextContent(n)), " ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := inferTitle(c); t != "" {
			return t
		}
	}
	return ""
}
