// internal/util/util.go
package util

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ComputeBaseHref calculates the relative path to the site root
// so that CSS/JS links work correctly for pages at any depth.
// For example, a page at posts/a/b.html would get a BaseHref of "../../".
func ComputeBaseHref(relPath string) string {
	dir := filepath.Dir(relPath)
	if dir == "." {
		return ""
	}
	depth := strings.Count(dir, string(os.PathSeparator)) + 1
	return strings.Repeat("../", depth)
}

// RelativeTo prefixes a site-relative reference with base. Absolute URLs,
// root-relative paths, protocol-relative URLs and fragments are returned
// unchanged.
func RelativeTo(base, ref string) string {
	if base == "" || ref == "" {
		return ref
	}
	if strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "?") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ref
	}
	return base + ref
}
