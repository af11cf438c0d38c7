// cmd/docwrap/commands.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"docwrap/internal/builder"
	"docwrap/internal/config"
	"docwrap/internal/scaffold"
	"docwrap/internal/server"
)

// WrapCmd wraps one fragment. Without a file it reads standard input.
type WrapCmd struct {
	File     string `arg:"" optional:"" help:"Fragment to wrap (.html or .md). Reads stdin when omitted." type:"existingfile"`
	Output   string `short:"o" help:"Write the document to this file instead of stdout."`
	Markdown bool   `short:"m" help:"Treat the input as markdown regardless of its extension."`
	Title    string `short:"t" help:"Title used when the fragment does not provide one."`
}

func (w *WrapCmd) Run(g *Global, cli *CLI) error {
	site, err := loadSiteConfig(g, cli.Config)
	if err != nil {
		return err
	}
	if w.Title != "" {
		site.Document.Title = w.Title
	}

	var in io.Reader = os.Stdin
	if w.File != "" {
		f, err := os.Open(w.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var out io.Writer = os.Stdout
	if w.Output != "" {
		if err := os.MkdirAll(filepath.Dir(w.Output), 0755); err != nil {
			return err
		}
		f, err := os.Create(w.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	opts := builder.BuildOptions{Unsafe: cli.Unsafe, Logger: g.Logger}
	if err := builder.WrapReader(out, in, w.File, w.Markdown, site, opts); err != nil {
		return fmt.Errorf("wrap failed: %w", err)
	}
	return nil
}

// GenCmd builds every page once.
type GenCmd struct{}

func (GenCmd) Run(g *Global, cli *CLI) error {
	site, err := loadSiteConfig(g, cli.Config)
	if err != nil {
		return err
	}

	opts := builder.BuildOptions{CleanDestination: true, Unsafe: cli.Unsafe, Logger: g.Logger}
	res, err := builder.BuildSite(cli.OutputDir, cli.ContentDir, cli.StaticDir, site, opts)
	if err != nil {
		return fmt.Errorf("site generation failed: %w", err)
	}
	g.Logger.Info("Site generated", "pages", res.Pages, "drafts_skipped", res.Skipped, "output", cli.OutputDir)
	return nil
}

// ServeCmd runs the dev server until interrupted.
type ServeCmd struct {
	Port int `short:"p" help:"Port for the local development server." default:"1313" env:"DOCWRAP_PORT"`
}

func (s *ServeCmd) Run(g *Global, cli *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	build := func(opts builder.BuildOptions) (builder.Result, error) {
		// Reload the config on every build so edits to it take effect.
		site, err := loadSiteConfig(g, cli.Config)
		if err != nil {
			return builder.Result{}, err
		}
		return builder.BuildSite(cli.OutputDir, cli.ContentDir, cli.StaticDir, site, opts)
	}

	srv := server.Options{
		Port:      s.Port,
		PublicDir: cli.OutputDir,
		Watch:     []string{cli.ContentDir, cli.StaticDir, cli.Config},
		Logger:    g.Logger,
	}
	return server.Run(ctx, srv, build, builder.BuildOptions{Unsafe: cli.Unsafe, Logger: g.Logger})
}

// NewCmd groups the scaffolding commands.
type NewCmd struct {
	Site    NewSiteCmd    `cmd:"" help:"Create a new site scaffold."`
	Content NewContentCmd `cmd:"" help:"Create new content from the default archetype."`
}

type NewSiteCmd struct {
	Name string `arg:"" help:"Directory to create the site in."`
}

func (n *NewSiteCmd) Run(g *Global) error {
	if err := scaffold.CreateNewSite(n.Name); err != nil {
		return err
	}
	g.Logger.Info("Site scaffolded", "dir", n.Name, "next", "cd "+n.Name+" && docwrap serve")
	return nil
}

type NewContentCmd struct {
	Type  string `arg:"" help:"Content section, such as posts."`
	Title string `arg:"" help:"Title of the new page."`
}

func (n *NewContentCmd) Run(g *Global, cli *CLI) error {
	siteDir := filepath.Dir(cli.Config)
	path, err := scaffold.CreateNewContent(siteDir, n.Type, n.Title, cli.Config)
	if err != nil {
		return err
	}
	g.Logger.Info("Created content", "path", path)
	return nil
}

// loadSiteConfig reads the site config, falling back to defaults when the
// file does not exist.
func loadSiteConfig(g *Global, path string) (config.SiteConfig, error) {
	site, err := config.LoadSiteConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		g.Logger.Debug("No site config found, using defaults", "path", path)
		return config.SiteConfig{}, nil
	}
	if err != nil {
		return config.SiteConfig{}, fmt.Errorf("failed to load site config: %w", err)
	}
	return site, nil
}
