package builder

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docwrap/internal/config"
	"docwrap/internal/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

type siteDirs struct {
	content, static, output string
}

func newSite(t *testing.T, files map[string]string) siteDirs {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, files)
	return siteDirs{
		content: filepath.Join(root, "content"),
		static:  filepath.Join(root, "static"),
		output:  filepath.Join(root, "public"),
	}
}

func TestBuildSite(t *testing.T) {
	dirs := newSite(t, map[string]string{
		"content/index.md":      "---\ntitle: Home\n---\n# Welcome\n\nSee [the guide](guide.md#setup).\n",
		"content/posts/first.md": "Just text.\n",
		"content/draft.md":      "---\ndraft: true\n---\nNot yet.\n",
		"content/raw.html":      "<p>Raw fragment</p>",
		"content/notes.txt":     "ignored",
		"static/css/style.css":  "body { color: #222; }\n",
		"static/design.psd":     "ignored",
	})
	site := config.SiteConfig{
		Title:          "Field Notes",
		RelativeAssets: true,
		Document: document.Options{
			CSS: document.Strings{"css/style.css", "https://cdn.example.com/x.css"},
			JS:  document.Strings{"js/app.js"},
		},
	}

	res, err := BuildSite(dirs.output, dirs.content, dirs.static, site, BuildOptions{CleanDestination: true, Logger: quietLogger})
	require.NoError(t, err)
	assert.Equal(t, Result{Pages: 3, Skipped: 1, Written: 4}, res)
	assert.True(t, res.Changed())

	index := readFile(t, filepath.Join(dirs.output, "index.html"))
	assert.True(t, strings.HasPrefix(index, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\"/>\n<title>Home</title>\n"))
	assert.Contains(t, index, `<meta property="og:site_name" content="Field Notes"/>`)
	assert.Contains(t, index, `<link rel="stylesheet" href="css/style.css"/>`)
	assert.Contains(t, index, `<link rel="stylesheet" href="https://cdn.example.com/x.css"/>`)
	assert.Contains(t, index, `<script src="js/app.js"></script>`)
	assert.Contains(t, index, `<h1 id="welcome">Welcome</h1>`)
	assert.Contains(t, index, `href="guide.html#setup"`)

	post := readFile(t, filepath.Join(dirs.output, "posts", "first.html"))
	assert.Contains(t, post, "<title>first</title>")
	assert.Contains(t, post, `<link rel="stylesheet" href="../css/style.css"/>`)
	assert.Contains(t, post, `<link rel="stylesheet" href="https://cdn.example.com/x.css"/>`)
	assert.Contains(t, post, `<script src="../js/app.js"></script>`)
	assert.Contains(t, post, "<p>Just text.</p>")

	raw := readFile(t, filepath.Join(dirs.output, "raw.html"))
	assert.Contains(t, raw, "<body>\n<p>Raw fragment</p>\n<script src=\"js/app.js\"></script>\n</body>")

	assert.NoFileExists(t, filepath.Join(dirs.output, "draft.html"))
	assert.NoFileExists(t, filepath.Join(dirs.output, "notes.html"))
	assert.FileExists(t, filepath.Join(dirs.output, "css", "style.css"))
	assert.NoFileExists(t, filepath.Join(dirs.output, "design.psd"))
}

func TestBuildSite_RebuildSkipsUnchangedOutput(t *testing.T) {
	dirs := newSite(t, map[string]string{
		"content/index.md":     "# Hi\n",
		"static/css/style.css": "p {}\n",
	})
	opts := BuildOptions{Logger: quietLogger}

	first, err := BuildSite(dirs.output, dirs.content, dirs.static, config.SiteConfig{}, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Written)

	second, err := BuildSite(dirs.output, dirs.content, dirs.static, config.SiteConfig{}, opts)
	require.NoError(t, err)
	assert.Equal(t, Result{Pages: 1}, second)
	assert.False(t, second.Changed())

	writeFiles(t, filepath.Dir(dirs.content), map[string]string{"content/index.md": "# Hello\n"})
	third, err := BuildSite(dirs.output, dirs.content, dirs.static, config.SiteConfig{}, opts)
	require.NoError(t, err)
	assert.Equal(t, Result{Pages: 1, Written: 1}, third)
}

func TestBuildSite_CleanDestination(t *testing.T) {
	dirs := newSite(t, map[string]string{
		"content/index.md": "# Hi\n",
		"public/notes.txt": "old",
	})

	_, err := BuildSite(dirs.output, dirs.content, dirs.static, config.SiteConfig{}, BuildOptions{Logger: quietLogger})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dirs.output, "notes.txt"))

	_, err = BuildSite(dirs.output, dirs.content, dirs.static, config.SiteConfig{}, BuildOptions{CleanDestination: true, Logger: quietLogger})
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dirs.output, "notes.txt"))
	assert.FileExists(t, filepath.Join(dirs.output, "index.html"))
}

func TestBuildSite_RemovesStalePages(t *testing.T) {
	dirs := newSite(t, map[string]string{
		"content/index.md":   "# Hi\n",
		"content/a.md":       "Alpha\n",
		"content/posts/b.md": "Bravo\n",
		"static/css/x.css":   "p {}\n",
	})
	opts := BuildOptions{Logger: quietLogger}

	_, err := BuildSite(dirs.output, dirs.content, dirs.static, config.SiteConfig{}, opts)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dirs.output, "a.html"))
	require.FileExists(t, filepath.Join(dirs.output, "posts", "b.html"))

	require.NoError(t, os.Remove(filepath.Join(dirs.content, "a.md")))
	writeFiles(t, filepath.Dir(dirs.content), map[string]string{"content/posts/b.md": "---\ndraft: true\n---\nBravo\n"})

	res, err := BuildSite(dirs.output, dirs.content, dirs.static, config.SiteConfig{}, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Removed)
	assert.True(t, res.Changed())
	assert.NoFileExists(t, filepath.Join(dirs.output, "a.html"))
	assert.NoFileExists(t, filepath.Join(dirs.output, "posts", "b.html"))
	assert.FileExists(t, filepath.Join(dirs.output, "index.html"))
	assert.FileExists(t, filepath.Join(dirs.output, "css", "x.css"))
}

func TestBuildSite_DraftExceptionPages(t *testing.T) {
	dirs := newSite(t, map[string]string{
		"content/index.md": "---\ndraft: true\n---\nhome\n",
		"content/about.md": "---\ndraft: true\n---\nabout\n",
		"content/wip.md":   "---\ndraft: true\n---\nwip\n",
	})

	res, err := BuildSite(dirs.output, dirs.content, dirs.static, config.SiteConfig{}, BuildOptions{Logger: quietLogger})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, 1, res.Skipped)
	assert.FileExists(t, filepath.Join(dirs.output, "index.html"))
	assert.FileExists(t, filepath.Join(dirs.output, "about.html"))
	assert.NoFileExists(t, filepath.Join(dirs.output, "wip.html"))
}

func TestBuildSite_Sanitization(t *testing.T) {
	files := map[string]string{
		"content/page.html": `<p onclick="steal()">ok</p><script>alert(1)</script>`,
	}

	dirs := newSite(t, files)
	_, err := BuildSite(dirs.output, dirs.content, dirs.static, config.SiteConfig{}, BuildOptions{Logger: quietLogger})
	require.NoError(t, err)
	safe := readFile(t, filepath.Join(dirs.output, "page.html"))
	assert.Contains(t, safe, "<p>ok</p>")
	assert.NotContains(t, safe, "alert(1)")
	assert.NotContains(t, safe, "onclick")

	dirs = newSite(t, files)
	_, err = BuildSite(dirs.output, dirs.content, dirs.static, config.SiteConfig{}, BuildOptions{Unsafe: true, Logger: quietLogger})
	require.NoError(t, err)
	unsafe := readFile(t, filepath.Join(dirs.output, "page.html"))
	assert.Contains(t, unsafe, "<script>alert(1)</script>")
	assert.Contains(t, unsafe, `onclick="steal()"`)
}

func TestBuildSite_LiveReload(t *testing.T) {
	dirs := newSite(t, map[string]string{"content/index.md": "hi\n"})
	site := config.SiteConfig{Document: document.Options{JS: document.Strings{"app.js"}}}

	_, err := BuildSite(dirs.output, dirs.content, dirs.static, site, BuildOptions{LiveReload: true, Logger: quietLogger})
	require.NoError(t, err)

	page := readFile(t, filepath.Join(dirs.output, "index.html"))
	client := strings.Index(page, "new WebSocket")
	external := strings.Index(page, `<script src="app.js">`)
	require.Greater(t, client, 0)
	assert.Less(t, client, external, "inline client must precede script urls")
	assert.Empty(t, site.Document.Script, "site options must not be modified")
}

func TestBuildSite_InferTitle(t *testing.T) {
	dirs := newSite(t, map[string]string{
		"content/page.md": "---\ntitle: From Front Matter\n---\n# From  *Heading*\n",
	})

	_, err := BuildSite(dirs.output, dirs.content, dirs.static, config.SiteConfig{InferTitle: true}, BuildOptions{Logger: quietLogger})
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dirs.output, "page.html")), "<title>From Heading</title>")

	_, err = BuildSite(dirs.output, dirs.content, dirs.static, config.SiteConfig{}, BuildOptions{Logger: quietLogger})
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dirs.output, "page.html")), "<title>From Front Matter</title>")
}

func TestBuildSite_Errors(t *testing.T) {
	t.Run("missing content dir", func(t *testing.T) {
		root := t.TempDir()
		_, err := BuildSite(filepath.Join(root, "public"), filepath.Join(root, "content"), filepath.Join(root, "static"), config.SiteConfig{}, BuildOptions{Logger: quietLogger})
		require.Error(t, err)
	})
	t.Run("invalid utf-8", func(t *testing.T) {
		dirs := newSite(t, map[string]string{"content/bad.md": "\xff\xfe"})
		_, err := BuildSite(dirs.output, dirs.content, dirs.static, config.SiteConfig{}, BuildOptions{Logger: quietLogger})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not valid UTF-8")
	})
	t.Run("unclosed front matter", func(t *testing.T) {
		dirs := newSite(t, map[string]string{"content/bad.md": "---\ntitle: x\n"})
		_, err := BuildSite(dirs.output, dirs.content, dirs.static, config.SiteConfig{}, BuildOptions{Logger: quietLogger})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to process content")
	})
}

func TestWrapReader(t *testing.T) {
	var out bytes.Buffer
	err := WrapReader(&out, strings.NewReader("charlie"), "~/bravo.html", false, config.SiteConfig{}, BuildOptions{Logger: quietLogger})
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<head>",
		`<meta charset="utf-8"/>`,
		"<title>bravo</title>",
		`<meta name="viewport" content="width=device-width, initial-scale=1"/>`,
		"</head>",
		"<body>",
		"charlie",
		"</body>",
		"</html>",
		"",
	}, "\n"), out.String())
}

func TestWrapReader_Markdown(t *testing.T) {
	site := config.SiteConfig{Document: document.Options{Title: "Fallback", Doctype: "4"}}

	var fromName bytes.Buffer
	require.NoError(t, WrapReader(&fromName, strings.NewReader("*hi*\n"), "note.md", false, site, BuildOptions{Logger: quietLogger}))
	assert.Contains(t, fromName.String(), "<p><em>hi</em></p>")
	assert.Contains(t, fromName.String(), "<title>Fallback</title>")
	assert.True(t, strings.HasPrefix(fromName.String(), `<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01 Transitional//EN"`))

	var forced bytes.Buffer
	require.NoError(t, WrapReader(&forced, strings.NewReader("*hi*\n"), "", true, site, BuildOptions{Logger: quietLogger}))
	assert.Contains(t, forced.String(), "<p><em>hi</em></p>")
}

func TestWrapReader_InvalidUTF8(t *testing.T) {
	err := WrapReader(io.Discard, strings.NewReader("\xff"), "", false, config.SiteConfig{}, BuildOptions{Logger: quietLogger})
	require.Error(t, err)
}
