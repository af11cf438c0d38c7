// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"docwrap/internal/config"
)

// CreateNewSite lays out a new site in dir. It refuses to overwrite files
// that already exist.
func CreateNewSite(dir string) error {
	slog.Info("Scaffolding new site", "dir", dir)

	dirs := []string{"content", "static/css", "static/js", "archetypes"}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}

	files := []struct{ path, content string }{
		{"site.yaml", siteYamlContent},
		{"content/index.md", indexMdContent},
		{"static/css/style.css", staticCssContent},
		{"archetypes/default.md", archetypeDefaultMdContent},
	}
	for _, f := range files {
		full := filepath.Join(dir, filepath.FromSlash(f.path))
		if _, err := os.Stat(full); err == nil {
			return fmt.Errorf("refusing to overwrite %s", full)
		}
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(f.path)), []byte(f.content), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", f.path, err)
		}
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases title and joins its words with dashes.
func Slugify(title string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

// CreateNewContent renders the default archetype into
// <siteDir>/content/<contentType>/<slug>.md and returns the new file's path.
func CreateNewContent(siteDir, contentType, title, configPath string) (string, error) {
	slug := Slugify(title)
	if slug == "" {
		return "", fmt.Errorf("title %q does not produce a usable file name", title)
	}

	site, err := config.LoadSiteConfig(configPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	path := filepath.Join(siteDir, "content", contentType, slug+".md")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("content already exists: %s", path)
	}

	tmplBytes, err := os.ReadFile(filepath.Join(siteDir, "archetypes", "default.md"))
	if errors.Is(err, fs.ErrNotExist) {
		tmplBytes = []byte(archetypeDefaultMdContent)
	} else if err != nil {
		return "", fmt.Errorf("could not read archetype: %w", err)
	}

	tmpl, err := template.New("archetype").Parse(string(tmplBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse archetype: %w", err)
	}

	data := struct {
		Title  string
		Author string
	}{
		Title:  title,
		Author: site.Author,
	}

	var output bytes.Buffer
	if err := tmpl.Execute(&output, data); err != nil {
		return "", fmt.Errorf("failed to execute archetype template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, output.Bytes(), 0644); err != nil {
		return "", err
	}
	return path, nil
}

const siteYamlContent = `title: My Site
author: Your Name
description: A new site wrapped by docwrap.
baseurl: /
relative_assets: true
infer_title: false
document:
  language: en
  css: css/style.css
  meta:
    - name: generator
      content: docwrap
`

const indexMdContent = `---
title: Home
---

# Welcome

Edit content/index.md and run docwrap serve.
`

const archetypeDefaultMdContent = `---
title: {{printf "%q" .Title}}
author: {{printf "%q" .Author}}
draft: true
---

Write something meaningful here.
`

const staticCssContent = `body {
  font-family: sans-serif;
  max-width: 700px;
  margin: 2em auto;
  padding: 0 1em;
  line-height: 1.6;
  color: #222;
  background: #fdfdfd;
}
ul { margin-left: 1.2em; padding-left: 1.2em; list-style-type: disc; }
li { margin-bottom: 0.25em; }
hr { border: none; border-top: 1px solid #ccc; width: 33%; margin: 2em auto; }
`
