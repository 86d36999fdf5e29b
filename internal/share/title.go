package share

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/nikbrunner/postlist/internal/dom"
)

// ResolveTitle picks the post title from a page. h1.post-title wins;
// otherwise <meta name="title"> and then <title> are used with any
// " | Site Name" suffix removed.
func ResolveTitle(doc *html.Node) string {
	if h1 := dom.ByTagClass(doc, "h1", "post-title"); h1 != nil {
		return dom.TextContent(h1)
	}

	title, ok := dom.MetaContent(doc, "title")
	if !ok {
		if n := dom.Find(doc, func(n *html.Node) bool { return dom.IsElement(n, "title") }); n != nil {
			title = dom.TextContent(n)
		}
	}
	return stripSiteName(title)
}

func stripSiteName(title string) string {
	if i := strings.LastIndex(title, "|"); i >= 0 {
		title = title[:i]
	}
	return strings.TrimSpace(title)
}
