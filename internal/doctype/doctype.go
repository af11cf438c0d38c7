// internal/doctype/doctype.go
package doctype

import (
	"strings"

	"golang.org/x/net/html"
)

// Declaration is a document type declaration. HTML5 has only a name;
// legacy dialects also carry public and system identifiers.
type Declaration struct {
	Name   string
	Public string
	System string
}

var (
	HTML5 = Declaration{Name: "html"}

	HTML4Strict = Declaration{
		Name:   "html",
		Public: "-//W3C//DTD HTML 4.01//EN",
		System: "http://www.w3.org/TR/html4/strict.dtd",
	}
	HTML4Transitional = Declaration{
		Name:   "html",
		Public: "-//W3C//DTD HTML 4.01 Transitional//EN",
		System: "http://www.w3.org/TR/html4/loose.dtd",
	}
	HTML4Frameset = Declaration{
		Name:   "html",
		Public: "-//W3C//DTD HTML 4.01 Frameset//EN",
		System: "http://www.w3.org/TR/html4/frameset.dtd",
	}
	XHTML1Strict = Declaration{
		Name:   "html",
		Public: "-//W3C//DTD XHTML 1.0 Strict//EN",
		System: "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd",
	}
	XHTML1Transitional = Declaration{
		Name:   "html",
		Public: "-//W3C//DTD XHTML 1.0 Transitional//EN",
		System: "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd",
	}
	XHTML1Frameset = Declaration{
		Name:   "html",
		Public: "-//W3C//DTD XHTML 1.0 Frameset//EN",
		System: "http://www.w3.org/TR/xhtml1/DTD/xhtml1-frameset.dtd",
	}
	XHTML11 = Declaration{
		Name:   "html",
		Public: "-//W3C//DTD XHTML 1.1//EN",
		System: "http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd",
	}
	XHTMLBasic11 = Declaration{
		Name:   "html",
		Public: "-//W3C//DTD XHTML Basic 1.1//EN",
		System: "http://www.w3.org/TR/xhtml-basic/xhtml-basic11.dtd",
	}
	XHTMLMobile12 = Declaration{
		Name:   "html",
		Public: "-//WAPFORUM//DTD XHTML Mobile 1.2//EN",
		System: "http://www.openmobilealliance.org/tech/DTD/xhtml-mobile12.dtd",
	}
)

var byID = map[string]Declaration{
	"":      HTML5,
	"5":     HTML5,
	"h5":    HTML5,
	"html5": HTML5,
	"html":  HTML5,

	"4":            HTML4Transitional,
	"4.01":         HTML4Transitional,
	"4.01t":        HTML4Transitional,
	"h4":           HTML4Transitional,
	"html4":        HTML4Transitional,
	"transitional": HTML4Transitional,
	"strict":       HTML4Strict,
	"4.01s":        HTML4Strict,
	"frameset":     HTML4Frameset,
	"4.01f":        HTML4Frameset,

	"xhtml":  XHTML1Transitional,
	"x":      XHTML1Transitional,
	"1.0":    XHTML1Transitional,
	"1.0t":   XHTML1Transitional,
	"1.0s":   XHTML1Strict,
	"1.0f":   XHTML1Frameset,
	"1.1":    XHTML11,
	"x1.1":   XHTML11,
	"basic":  XHTMLBasic11,
	"1.1b":   XHTMLBasic11,
	"mp":     XHTMLMobile12,
	"mobile": XHTMLMobile12,
}

// Lookup resolves a doctype identifier such as "5", "html5", "4" or "strict".
// Identifiers are matched case-insensitively.
func Lookup(id string) (Declaration, bool) {
	d, ok := byID[strings.ToLower(strings.TrimSpace(id))]
	return d, ok
}

// String returns the declaration text as html.Render writes it.
func (d Declaration) String() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE ")
	b.WriteString(d.Name)
	switch {
	case d.Public != "":
		b.WriteString(` PUBLIC "`)
		b.WriteString(d.Public)
		b.WriteByte('"')
		if d.System != "" {
			b.WriteString(` "`)
			b.WriteString(d.System)
			b.WriteByte('"')
		}
	case d.System != "":
		b.WriteString(` SYSTEM "`)
		b.WriteString(d.System)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

// Node returns a fresh doctype node for the declaration.
func (d Declaration) Node() *html.Node {
	n := &html.Node{Type: html.DoctypeNode, Data: d.Name}
	if d.Public != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "public", Val: d.Public})
	}
	if d.System != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "system", Val: d.System})
	}
	return n
}
