// internal/document/title.go
package document

import (
	"path/filepath"
	"strings"
)

// FileMeta describes the file a fragment came from.
type FileMeta struct {
	// Stem is the base file name without its extension.
	Stem string
	// MetaTitle is a title inferred from the markup itself.
	MetaTitle string
	// MatterTitle is the title declared in front matter.
	MatterTitle string
}

// FileMetaFromPath returns FileMeta with Stem set from path.
func FileMetaFromPath(path string) FileMeta {
	if path == "" {
		return FileMeta{}
	}
	base := filepath.Base(path)
	return FileMeta{Stem: strings.TrimSuffix(base, filepath.Ext(base))}
}

// resolveTitle picks the first non-empty of the inferred title, the front
// matter title, the configured title and the file stem.
func resolveTitle(configured string, file FileMeta) string {
	for _, t := range []string{file.MetaTitle, file.MatterTitle, configured, file.Stem} {
		if t != "" {
			return t
		}
	}
	return ""
}
