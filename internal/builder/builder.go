// internal/builder/builder.go
package builder

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"docwrap/internal/config"
	"docwrap/internal/document"
	"docwrap/internal/util"
)

// staticExts lists the file extensions copied from the static directory.
var staticExts = map[string]bool{
	".css": true, ".js": true, ".txt": true, ".svg": true, ".ico": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	".woff": true, ".woff2": true,
}

// BuildSite wraps every content file into a complete page under outputDir
// and copies static assets.
func BuildSite(outputDir, contentDir, staticDir string, site config.SiteConfig, opts BuildOptions) (Result, error) {
	log := opts.logger()
	var res Result

	if _, err := os.Stat(contentDir); err != nil {
		return res, fmt.Errorf("content directory %s: %w", contentDir, err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return res, err
	}

	if opts.CleanDestination {
		log.Info("Cleaning destination directory", "dir", outputDir)
		entries, err := os.ReadDir(outputDir)
		if err != nil {
			return res, err
		}
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(outputDir, entry.Name())); err != nil {
				return res, err
			}
		}
	}

	wrappers := newWrapperSet(site, opts)
	unsafe := opts.Unsafe || site.Unsafe
	produced := make(map[string]bool)

	if err := filepath.Walk(contentDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(info.Name())
		if !isContentExt(ext) {
			return nil
		}

		contentBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}
		if !utf8.Valid(contentBytes) {
			return fmt.Errorf("content file is not valid UTF-8: %s", path)
		}

		frag, err := processContent(contentBytes, ext != ".html", unsafe)
		if err != nil {
			return fmt.Errorf("failed to process content for %s: %w", path, err)
		}

		relPath, err := filepath.Rel(contentDir, path)
		if err != nil {
			return err
		}
		slug := strings.TrimSuffix(relPath, ext)

		if frag.Matter.Draft && !isExceptionPage(slug) {
			log.Debug("Skipping draft", "path", path)
			res.Skipped++
			return nil
		}

		var page bytes.Buffer
		meta := pageFileMeta(path, frag, site)
		if err := wrappers.forPage(relPath).WrapTo(&page, frag.Root, meta); err != nil {
			return fmt.Errorf("failed to render page %s: %w", path, err)
		}

		outputPath := filepath.Join(outputDir, slug+".html")
		produced[outputPath] = true
		written, err := writeIfChanged(outputPath, page.Bytes())
		if err != nil {
			return fmt.Errorf("failed to write page %s: %w", outputPath, err)
		}
		if written {
			log.Debug("Wrote page", "path", outputPath)
			res.Written++
		}
		res.Pages++
		return nil
	}); err != nil {
		return res, err
	}

	removed, err := removeStalePages(outputDir, produced)
	if err != nil {
		return res, err
	}
	res.Removed = removed

	copied, err := copyStaticAssets(staticDir, outputDir)
	if err != nil {
		return res, err
	}
	res.Written += copied
	return res, nil
}

// removeStalePages deletes pages under outputDir that the current build did
// not produce, such as pages whose source was deleted or turned into a draft.
func removeStalePages(outputDir string, produced map[string]bool) (int, error) {
	removed := 0
	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".html" || produced[path] {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove stale page %s: %w", path, err)
		}
		removed++
		return nil
	})
	return removed, err
}

// WrapReader wraps a single fragment read from r and writes the document to
// w. name is used to pick the title stem and, unless markdown is set, the
// input format; it may be empty.
func WrapReader(w io.Writer, r io.Reader, name string, markdown bool, site config.SiteConfig, opts BuildOptions) error {
	contentBytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if !utf8.Valid(contentBytes) {
		return errors.New("input is not valid UTF-8")
	}

	ext := filepath.Ext(name)
	if !markdown {
		markdown = ext == ".md" || ext == ".markdown"
	}

	frag, err := processContent(contentBytes, markdown, opts.Unsafe || site.Unsafe)
	if err != nil {
		return fmt.Errorf("failed to process content: %w", err)
	}

	wrapper := document.New(site.DocumentOptions(), document.WithLogger(opts.logger()))
	return wrapper.WrapTo(w, frag.Root, pageFileMeta(name, frag, site))
}

func pageFileMeta(path string, frag fragment, site config.SiteConfig) document.FileMeta {
	meta := document.FileMetaFromPath(path)
	meta.MatterTitle = frag.Matter.Title
	if site.InferTitle {
		meta.MetaTitle = inferTitle(frag.Root)
	}
	return meta
}

// wrapperSet hands out one Wrapper per page depth. With relative assets,
// pages in subdirectories need their stylesheet and script URLs rebased.
type wrapperSet struct {
	opts     document.Options
	relative bool
	build    BuildOptions
	byBase   map[string]*document.Wrapper
}

func newWrapperSet(site config.SiteConfig, opts BuildOptions) *wrapperSet {
	docOpts := site.DocumentOptions()
	if opts.LiveReload {
		docOpts.Script = append(slices.Clone(docOpts.Script), liveReloadClient)
	}
	return &wrapperSet{
		opts:     docOpts,
		relative: site.RelativeAssets,
		build:    opts,
		byBase:   make(map[string]*document.Wrapper),
	}
}

func (s *wrapperSet) forPage(relPath string) *document.Wrapper {
	base := ""
	if s.relative {
		base = util.ComputeBaseHref(relPath)
	}
	if w, ok := s.byBase[base]; ok {
		return w
	}
	opts := s.opts
	opts.CSS = rebase(base, opts.CSS)
	opts.JS = rebase(base, opts.JS)
	w := document.New(opts, document.WithLogger(s.build.logger()))
	s.byBase[base] = w
	return w
}

func rebase(base string, refs document.Strings) document.Strings {
	if base == "" {
		return refs
	}
	out := make(document.Strings, len(refs))
	for i, ref := range refs {
		out[i] = util.RelativeTo(base, ref)
	}
	return out
}

// copyStaticAssets copies whitelisted files from the static directory to the
// output directory and returns how many were written. A missing static
// directory is not an error.
func copyStaticAssets(staticDir, outputDir string) (int, error) {
	if _, err := os.Stat(staticDir); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	copied := 0
	err := filepath.Walk(staticDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !staticExts[strings.ToLower(filepath.Ext(info.Name()))] {
			return nil
		}

		rel, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}
		written, err := copyIfChanged(path, filepath.Join(outputDir, rel))
		if err != nil {
			return fmt.Errorf("failed to copy static asset %s: %w", path, err)
		}
		if written {
			copied++
		}
		return nil
	})
	return copied, err
}

func isContentExt(ext string) bool {
	return ext == ".html" || ext == ".md" || ext == ".markdown"
}

// isExceptionPage checks for pages that are published even when marked as drafts.
func isExceptionPage(slug string) bool {
	slug = filepath.ToSlash(slug)
	return slug == "index" || slug == "about" || slug == "404"
}
