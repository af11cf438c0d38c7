// cmd/docwrap/main.go
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command line. Every flag can also come from a DOCWRAP_*
// environment variable, and from a .env file in the working directory.
type CLI struct {
	Config     string `short:"c" help:"Site configuration file." default:"site.yaml" env:"DOCWRAP_CONFIG"`
	Verbose    bool   `short:"v" help:"Enable verbose logging." env:"DOCWRAP_VERBOSE"`
	Unsafe     bool   `help:"Disable HTML sanitization. Allows all raw HTML." env:"DOCWRAP_UNSAFE"`
	ContentDir string `name:"content-dir" help:"Directory holding content fragments." default:"content" env:"DOCWRAP_CONTENT_DIR"`
	StaticDir  string `name:"static-dir" help:"Directory holding static assets." default:"static" env:"DOCWRAP_STATIC_DIR"`
	OutputDir  string `name:"output-dir" help:"Directory receiving generated pages." default:"public" env:"DOCWRAP_OUTPUT_DIR"`

	Wrap  WrapCmd  `cmd:"" help:"Wrap a single fragment into a complete document."`
	Gen   GenCmd   `cmd:"" help:"Generate pages from the content directory."`
	Serve ServeCmd `cmd:"" help:"Run a local dev server with auto-rebuild and live reload."`
	New   NewCmd   `cmd:"" help:"Create a new site or new content."`
}

// AfterApply sets up logging once flags are parsed.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("docwrap"),
		kong.Description("Wrap HTML and markdown fragments into complete HTML documents."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&Global{Logger: slog.Default()}, cli)
	ctx.FatalIfErrorf(err)
}
