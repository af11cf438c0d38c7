// internal/frontmatter/frontmatter.go
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the content opened a front matter
// block with `---` but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Matter is the front matter understood by the page builder. Unknown keys
// are kept in Params.
type Matter struct {
	Title       string         `yaml:"title"`
	Author      string         `yaml:"author"`
	Description string         `yaml:"description"`
	Draft       bool           `yaml:"draft"`
	Params      map[string]any `yaml:",inline"`
}

// Split separates `---` delimited YAML front matter from the body. When the
// content does not start with a delimiter line, had is false and body is the
// full input.
func Split(content []byte) (fm []byte, body []byte, had bool, err error) {
	nl := newline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, nil
	}

	closing := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		// A closing delimiter on the very last line has no trailing newline.
		if bytes.HasSuffix(rest, []byte(nl+"---")) {
			return rest[:len(rest)-len(nl+"---")+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return rest[:idx+len(nl)], rest[idx+len(closing):], true, nil
}

// Parse splits content and decodes its front matter.
func Parse(content []byte) (Matter, []byte, error) {
	fm, body, had, err := Split(content)
	if err != nil {
		return Matter{}, nil, err
	}
	var m Matter
	if !had || len(bytes.TrimSpace(fm)) == 0 {
		return m, body, nil
	}
	if err := yaml.Unmarshal(fm, &m); err != nil {
		return Matter{}, nil, fmt.Errorf("failed to parse front matter: %w", err)
	}
	return m, body, nil
}

func newline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
