// internal/document/document.go
package document

import (
	"io"
	"log/slog"
	"slices"

	"docwrap/internal/doctype"

	"golang.org/x/net/html"
	"golang.org/x/text/language"
)

// DefaultLanguage is used when Options.Language is empty.
const DefaultLanguage = "en"

// ViewportMeta is prepended to the meta entries of responsive documents.
var ViewportMeta = NewAttrs("name", "viewport", "content", "width=device-width, initial-scale=1")

// Config is the normalized form of Options. It never changes after New.
type Config struct {
	Title      string
	Language   string
	Dir        Direction
	Responsive bool
	Doctype    doctype.Declaration
	Style      []string
	CSS        []string
	Meta       []Attrs
	Link       []Attrs
	Script     []string
	JS         []string
}

// Wrapper turns fragments into complete documents. It is immutable and safe
// for concurrent use.
type Wrapper struct {
	cfg Config
}

// Option configures New.
type Option func(*settings)

type settings struct {
	logger *slog.Logger
}

// WithLogger sets the logger used to report options that were ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// New normalizes opts into a Wrapper. It never fails: unusable values fall
// back to their defaults and are reported on the logger.
func New(opts Options, optFns ...Option) *Wrapper {
	s := settings{logger: slog.Default()}
	for _, fn := range optFns {
		fn(&s)
	}

	cfg := Config{
		Title:      opts.Title,
		Language:   opts.Language,
		Responsive: opts.Responsive == nil || *opts.Responsive,
		Style:      clone(opts.Style),
		CSS:        clone(opts.CSS),
		Link:       cloneAttrs(opts.Link),
		Script:     clone(opts.Script),
		JS:         clone(opts.JS),
	}

	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	} else if _, err := language.Parse(cfg.Language); err != nil {
		s.logger.Warn("Language is not a well-formed BCP 47 tag", "language", cfg.Language, "error", err)
	}

	if opts.Dir != "" {
		if opts.Dir.valid() {
			cfg.Dir = opts.Dir
		} else {
			s.logger.Warn("Ignoring unknown text direction", "dir", opts.Dir)
		}
	}

	d, ok := doctype.Lookup(opts.Doctype)
	if !ok {
		s.logger.Warn("Unknown doctype, using HTML5", "doctype", opts.Doctype)
		d = doctype.HTML5
	}
	cfg.Doctype = d

	meta := cloneAttrs(opts.Meta)
	if cfg.Responsive {
		meta = append([]Attrs{slices.Clone(ViewportMeta)}, meta...)
	}
	cfg.Meta = meta

	return &Wrapper{cfg: cfg}
}

// Config returns a copy of the normalized configuration.
func (w *Wrapper) Config() Config {
	c := w.cfg
	c.Style = clone(c.Style)
	c.CSS = clone(c.CSS)
	c.Meta = cloneAttrs(c.Meta)
	c.Link = cloneAttrs(c.Link)
	c.Script = clone(c.Script)
	c.JS = clone(c.JS)
	return c
}

// WrapTo wraps tree and renders the resulting document to out.
func (w *Wrapper) WrapTo(out io.Writer, tree *html.Node, file FileMeta) error {
	return html.Render(out, w.Wrap(tree, file))
}

func clone[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}

func cloneAttrs(maps []Attrs) []Attrs {
	out := make([]Attrs, len(maps))
	for i, m := range maps {
		out[i] = slices.Clone(m)
	}
	return out
}
