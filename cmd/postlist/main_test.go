package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/postlist/internal/config"
	"github.com/nikbrunner/postlist/internal/exporter"
	"github.com/nikbrunner/postlist/internal/linkcheck"
)

// execute runs the root command with args and returns everything written
// to stdout and stderr.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, verbose = config.DefaultPath, false
	indexOutput, indexQuiet = "", false
	shareURL, shareCopy, shareWrite = "", "", false
	configForce = false
	exportExcerpt, exportStandalone, exportTitle = exporter.DefaultExcerpt, false, ""
	checkConcurrency, checkTimeout, checkQuiet = linkcheck.DefaultConcurrency, linkcheck.DefaultTimeout, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	assert.NilError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NilError(t, os.WriteFile(path, []byte(content), 0o644))
}

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, path, content)
	return path
}

func TestIndexCommand_WritesIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "posts", "hello.md"), "---\ntitle: Hello World\n---\nFirst post.\n")
	writeFile(t, filepath.Join(dir, "posts", "wip.md"), "---\ntitle: WIP\ndraft: true\n---\nNot yet.\n")
	output := filepath.Join(dir, "public", "search.json")
	cfg := writeConfig(t, "log_level: warn\n")

	out, err := execute(t, "--config", cfg, "index", dir, "--output", output, "--quiet")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, "Indexed 1 posts"))

	data, err := os.ReadFile(output)
	assert.NilError(t, err)
	assert.Check(t, is.Contains(string(data), `"title": "Hello World"`))
	assert.Check(t, is.Contains(string(data), `"href": "/posts/hello.html"`))
	assert.Check(t, !strings.Contains(string(data), "WIP"))
}

const postPage = `<!DOCTYPE html>
<html><head><title>Hello World | My Blog</title></head>
<body>
<h1 class="post-title">Hello World</h1>
<a id="share-twitter" href="#">Tweet</a>
<a id="share-email" href="#">Mail</a>
</body></html>`

func TestShareCommand_PrintsLinks(t *testing.T) {
	page := filepath.Join(t.TempDir(), "hello.html")
	writeFile(t, page, postPage)

	out, err := execute(t, "share", page, "--url", "https://blog.example/hello")
	assert.NilError(t, err)

	assert.Check(t, is.Contains(out, "text=Hello%20World"))
	assert.Check(t, is.Contains(out, "https%3A%2F%2Fblog.example%2Fhello"))
	for _, svc := range []string{"twitter", "facebook", "linkedin", "email"} {
		assert.Check(t, is.Contains(out, svc))
	}

	data, err := os.ReadFile(page)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(string(data), postPage), "page must not change without --write")
}

func TestShareCommand_CopyAndWrite(t *testing.T) {
	page := filepath.Join(t.TempDir(), "hello.html")
	writeFile(t, page, postPage)

	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = orig })

	out, err := execute(t, "share", page, "--url", "https://blog.example/hello", "--copy", "email", "--write")
	assert.NilError(t, err)

	assert.Check(t, is.Contains(copied, "mailto:"))
	assert.Check(t, is.Contains(out, "Updated 2 share buttons"))

	data, err := os.ReadFile(page)
	assert.NilError(t, err)
	assert.Check(t, is.Contains(string(data), "Hello%20World"))
	assert.Check(t, !strings.Contains(string(data), `href="#"`))
}

func TestShareCommand_RequiresURL(t *testing.T) {
	page := filepath.Join(t.TempDir(), "hello.html")
	writeFile(t, page, postPage)

	_, err := execute(t, "share", page)
	assert.ErrorContains(t, err, "--url is required")
}

func TestShareCommand_UnknownService(t *testing.T) {
	page := filepath.Join(t.TempDir(), "hello.html")
	writeFile(t, page, postPage)

	_, err := execute(t, "share", page, "--url", "https://blog.example/hello", "--copy", "myspace")
	assert.Check(t, err != nil)
}

func TestThemeCommand(t *testing.T) {
	prefs := filepath.Join(t.TempDir(), "prefs.toml")
	cfg := writeConfig(t, "theme_store: file\ntheme_path: "+prefs+"\n")

	out, err := execute(t, "--config", cfg, "theme", "dark")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(strings.TrimSpace(out), "dark"))

	out, err = execute(t, "--config", cfg, "theme")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(strings.TrimSpace(out), "dark"))

	out, err = execute(t, "--config", cfg, "theme", "toggle")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(strings.TrimSpace(out), "light"))

	data, err := os.ReadFile(prefs)
	assert.NilError(t, err)
	assert.Check(t, is.Contains(string(data), "light"))
}

func TestThemeCommand_UnopenableStoreFallsBack(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	writeFile(t, blocker, "not a directory")
	cfg := writeConfig(t, "theme_store: sqlite\ntheme_path: "+filepath.Join(blocker, "prefs.db")+"\n")

	out, err := execute(t, "--config", cfg, "theme")
	assert.NilError(t, err)
	got := strings.TrimSpace(out)
	assert.Check(t, got == "light" || got == "dark", "unexpected theme %q", got)

	out, err = execute(t, "--config", cfg, "theme", "dark")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(strings.TrimSpace(out), "dark"))
}

func TestThemeCommand_RejectsUnknownArg(t *testing.T) {
	cfg := writeConfig(t, "theme_store: none\n")

	_, err := execute(t, "--config", cfg, "theme", "purple")
	assert.Check(t, err != nil)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	out, err := execute(t, "--config", path, "config", "init")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, "Wrote"))

	_, err = execute(t, "--config", path, "config", "init")
	assert.ErrorContains(t, err, "already exists")

	loaded, err := config.Load(path)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(loaded.PageSize, 5))
}

func TestInvalidConfigIsRejected(t *testing.T) {
	cfg := writeConfig(t, "page_size: 0\n")

	_, err := execute(t, "--config", cfg, "theme")
	assert.ErrorContains(t, err, "page_size")
}

func TestResolveSource_ListFile(t *testing.T) {
	list := filepath.Join(t.TempDir(), "index.html")
	writeFile(t, list, `<ul class="post-list">
<li><a href="/posts/a.html">Alpha</a> first</li>
<li><a href="/posts/b.html">Beta</a> second</li>
</ul>`)
	cfg := config.DefaultConfig()
	cfg.ListFile = list

	src, err := resolveSource(cfg)
	assert.NilError(t, err)
	assert.Check(t, src.loader == nil)

	store, err := src.load(t.Context())
	assert.NilError(t, err)
	assert.Check(t, is.Equal(store.Len(), 2))
	assert.Check(t, is.Equal(store.At(1).Title, "Beta"))
}

func TestResolveSource_SiteURLIsLoadedLazily(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SiteURL = "https://blog.example"

	src, err := resolveSource(cfg)
	assert.NilError(t, err)
	assert.Check(t, src.store == nil)
	assert.Check(t, src.loader != nil)
	assert.Check(t, is.Equal(src.name, "https://blog.example/search.json"))
}

func TestResolveSource_MissingIndexIsEmpty(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.IndexPath = filepath.Join(t.TempDir(), "search.json")

	src, err := resolveSource(cfg)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(src.store.Len(), 0))
}

func TestQuickSearch_NoResults(t *testing.T) {
	index := filepath.Join(t.TempDir(), "search.json")
	writeFile(t, index, `[{"title":"Dark mode","href":"/posts/dark.html"}]`)
	cfg := writeConfig(t, "index_path: "+index+"\n")

	out, err := execute(t, "--config", cfg, "zzzz")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, "No posts found for 'zzzz'"))
}

func TestEntryURL(t *testing.T) {
	tests := []struct {
		site, href, want string
	}{
		{"", "/posts/a.html", "/posts/a.html"},
		{"https://blog.example", "/posts/a.html", "https://blog.example/posts/a.html"},
		{"https://blog.example/", "https://other.example/x", "https://other.example/x"},
	}
	for _, tt := range tests {
		assert.Check(t, is.Equal(entryURL(tt.site, tt.href), tt.want))
	}
}

func TestExportCommand_WritesPostList(t *testing.T) {
	index := filepath.Join(t.TempDir(), "search.json")
	writeFile(t, index, `[{"title":"Dark mode","href":"/posts/dark.html","content":"prefers-color-scheme"}]`)
	cfg := writeConfig(t, "index_path: "+index+"\n")
	output := filepath.Join(t.TempDir(), "list.html")

	out, err := execute(t, "--config", cfg, "export", output, "--standalone", "--title", "Blog")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, "Exported 1 posts"))

	data, err := os.ReadFile(output)
	assert.NilError(t, err)
	assert.Check(t, is.Contains(string(data), "<title>Blog</title>"))
	assert.Check(t, is.Contains(string(data), `<a href="/posts/dark.html">Dark mode</a>`))
}

func TestExportCommand_Stdout(t *testing.T) {
	index := filepath.Join(t.TempDir(), "search.json")
	writeFile(t, index, `[{"title":"Dark mode","href":"/posts/dark.html"}]`)
	cfg := writeConfig(t, "index_path: "+index+"\n")

	out, err := execute(t, "--config", cfg, "export")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, `<ul class="post-list">`))
}

func TestCheckCommand_ReportsDeadLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"title":"Live","href":"/posts/live.html"},
			{"title":"Missing","href":"/posts/missing.html"}
		]`))
	})
	mux.HandleFunc("/posts/live.html", func(w http.ResponseWriter, r *http.Request) {})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := writeConfig(t, "site_url: "+srv.URL+"\n")

	out, err := execute(t, "--config", cfg, "check", "--quiet")
	assert.ErrorContains(t, err, "1 dead links")
	assert.Check(t, is.Contains(out, "Missing (/posts/missing.html)"))
	assert.Check(t, is.Contains(out, "Checked 2 posts: 1 dead, 0 unreachable"))
	assert.Check(t, !strings.Contains(out, "Live (/posts/live.html)"))
}
