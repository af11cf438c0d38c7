// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"docwrap/internal/document"

	"gopkg.in/yaml.v3"
)

// SiteConfig holds the configuration from the site.yaml file.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	BaseURL     string `yaml:"baseurl"`
	Description string `yaml:"description"`

	// Unsafe disables HTML sanitization of page content.
	Unsafe bool `yaml:"unsafe"`
	// RelativeAssets rewrites site-relative css and js URLs so they resolve
	// from pages in subdirectories.
	RelativeAssets bool `yaml:"relative_assets"`
	// InferTitle uses a page's first <h1> as its title.
	InferTitle bool `yaml:"infer_title"`

	Document document.Options `yaml:"document"`
}

// LoadSiteConfig reads and parses a site.yaml file.
func LoadSiteConfig(path string) (SiteConfig, error) {
	cfg := SiteConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// DocumentOptions returns the wrapper options for the site. Site-wide author,
// description and name are added as meta entries after the configured ones,
// unless a configured entry already sets them.
func (c SiteConfig) DocumentOptions() document.Options {
	opts := c.Document
	opts.Meta = append(document.AttrMaps{}, c.Document.Meta...)

	add := func(key, name, content string) {
		if content == "" {
			return
		}
		for _, m := range opts.Meta {
			if m.Get(key) == name {
				return
			}
		}
		opts.Meta = append(opts.Meta, document.NewAttrs(key, name, "content", content))
	}
	add("name", "author", c.Author)
	add("name", "description", c.Description)
	add("property", "og:site_name", c.Title)
	return opts
}
