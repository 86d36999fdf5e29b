// Package exporter renders a post collection as the HTML post list that the
// site's list page and the list_file source read.
package exporter

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/nikbrunner/postlist/internal/model"
)

// DefaultExcerpt is the excerpt length, in runes, when none is given.
const DefaultExcerpt = 160

// Options configures ExportHTML.
type Options struct {
	// Excerpt caps the content shown under each link. Negative hides it.
	Excerpt int
	// Standalone wraps the list in a complete page titled Title.
	Standalone bool
	Title      string
}

// ExportHTML renders store as a ul.post-list with one li per entry, in
// collection order.
func ExportHTML(store *model.Store, opts Options) string {
	excerpt := opts.Excerpt
	if excerpt == 0 {
		excerpt = DefaultExcerpt
	}
	title := opts.Title
	if title == "" {
		title = "Posts"
	}

	var b strings.Builder
	if opts.Standalone {
		b.WriteString("<!DOCTYPE html>\n")
		b.WriteString("<html>\n<head>\n")
		b.WriteString("<meta charset=\"utf-8\">\n")
		fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
		b.WriteString("</head>\n<body>\n")
		fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))
		b.WriteString("<input type=\"search\" id=\"search-input\" placeholder=\"Search posts\">\n")
	}

	b.WriteString("<ul class=\"post-list\">\n")
	for _, e := range store.Entries {
		writeItem(&b, e, excerpt)
	}
	b.WriteString("</ul>\n")

	if opts.Standalone {
		b.WriteString("<nav id=\"pagination-controls\"></nav>\n")
		b.WriteString("</body>\n</html>\n")
	}
	return b.String()
}

func writeItem(b *strings.Builder, e model.Entry, excerpt int) {
	b.WriteString("    <li>")
	fmt.Fprintf(b, "<a href=\"%s\">%s</a>", html.EscapeString(e.Href), html.EscapeString(e.Title))
	if excerpt > 0 && e.Content != "" {
		fmt.Fprintf(b, " <p class=\"post-excerpt\">%s</p>", html.EscapeString(clip(e.Content, excerpt)))
	}
	b.WriteString("</li>\n")
}

// clip shortens s to at most n runes, ending on a word boundary when one
// is close.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	cut := string([]rune(s)[:n])
	if i := strings.LastIndex(cut, " "); i > len(cut)/2 {
		cut = cut[:i]
	}
	return cut + "…"
}
