package exporter

import (
	"strings"
	"testing"

	"github.com/nikbrunner/postlist/internal/model"
	"github.com/nikbrunner/postlist/internal/source"
)

func TestExportHTML_EmptyStore(t *testing.T) {
	html := ExportHTML(model.NewStore(nil), Options{})

	if !strings.Contains(html, `<ul class="post-list">`) {
		t.Error("expected post list element")
	}
	if strings.Contains(html, "<li>") {
		t.Error("expected no items")
	}
	if strings.Contains(html, "<!DOCTYPE html>") {
		t.Error("expected a fragment unless standalone")
	}
}

func TestExportHTML_SingleEntry(t *testing.T) {
	store := model.NewStore([]model.Entry{
		{Title: "Dark mode", Href: "/posts/dark-mode.html", Content: "prefers-color-scheme"},
	})

	html := ExportHTML(store, Options{})

	if !strings.Contains(html, `<a href="/posts/dark-mode.html">Dark mode</a>`) {
		t.Errorf("expected entry link, got:\n%s", html)
	}
	if !strings.Contains(html, `<p class="post-excerpt">prefers-color-scheme</p>`) {
		t.Errorf("expected excerpt, got:\n%s", html)
	}
}

func TestExportHTML_EscapesSpecialChars(t *testing.T) {
	store := model.NewStore([]model.Entry{
		{Title: `Tom & Jerry <"Best">`, Href: "/posts/a.html?x=1&y=2"},
	})

	html := ExportHTML(store, Options{})

	if !strings.Contains(html, "Tom &amp; Jerry &lt;&#34;Best&#34;&gt;") {
		t.Errorf("expected escaped title, got:\n%s", html)
	}
	if !strings.Contains(html, `href="/posts/a.html?x=1&amp;y=2"`) {
		t.Errorf("expected escaped href, got:\n%s", html)
	}
}

func TestExportHTML_NegativeExcerptHidesContent(t *testing.T) {
	store := model.NewStore([]model.Entry{
		{Title: "A", Href: "/a", Content: "secret"},
	})

	html := ExportHTML(store, Options{Excerpt: -1})

	if strings.Contains(html, "secret") {
		t.Error("expected content to be hidden")
	}
}

func TestExportHTML_ClipsLongContent(t *testing.T) {
	store := model.NewStore([]model.Entry{
		{Title: "A", Href: "/a", Content: "one two three four five six"},
	})

	html := ExportHTML(store, Options{Excerpt: 12})

	if !strings.Contains(html, ">one two…</p>") {
		t.Errorf("expected clipped excerpt, got:\n%s", html)
	}
}

func TestExportHTML_Standalone(t *testing.T) {
	html := ExportHTML(model.NewStore(nil), Options{Standalone: true, Title: "My Blog"})

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>My Blog</title>",
		`id="search-input"`,
		`id="pagination-controls"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in standalone page", want)
		}
	}
}

func TestExportHTML_RoundTripsThroughPostList(t *testing.T) {
	store := model.NewStore([]model.Entry{
		{Title: "Dark mode", Href: "/posts/dark-mode.html", Content: "prefers-color-scheme"},
		{Title: "Pagination", Href: "/posts/pagination.html"},
		{Title: "Sharing & links", Href: "/posts/share.html", Content: "encodeURIComponent"},
	})

	parsed, err := source.ParsePostList(strings.NewReader(ExportHTML(store, Options{Standalone: true})))
	if err != nil {
		t.Fatalf("failed to parse exported list: %v", err)
	}

	if parsed.Len() != store.Len() {
		t.Fatalf("expected %d entries, got %d", store.Len(), parsed.Len())
	}
	for i, want := range store.Entries {
		got := parsed.At(i)
		if got.Title != want.Title || got.Href != want.Href || got.Content != want.Content {
			t.Errorf("entry %d: got %+v, want %+v", i, got, want)
		}
		if got.Pos != i {
			t.Errorf("entry %d: got position %d", i, got.Pos)
		}
	}
}
