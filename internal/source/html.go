package source

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/nikbrunner/postlist/internal/dom"
	"github.com/nikbrunner/postlist/internal/model"
)

// ErrNoPostList is returned when a page has no ul.post-list.
var ErrNoPostList = errors.New("page has no post list")

// ParsePostList reads the entries of the ul.post-list on an HTML page, one
// per li. The title and href come from the item's first link; the rest of
// the item's text becomes its content.
func ParsePostList(r io.Reader) (*model.Store, error) {
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, err
	}

	list := dom.ByTagClass(doc, "ul", "post-list")
	if list == nil {
		return nil, ErrNoPostList
	}

	items := dom.FindAll(list, func(n *html.Node) bool { return dom.IsElement(n, "li") })
	entries := make([]model.Entry, 0, len(items))
	for _, li := range items {
		entries = append(entries, entryFromItem(li))
	}
	return model.NewStore(entries), nil
}

func entryFromItem(li *html.Node) model.Entry {
	text := collapseSpace(dom.TextContent(li))

	link := dom.Find(li, func(n *html.Node) bool { return dom.IsElement(n, "a") })
	if link == nil {
		// Kept so positions still line up with the page's items.
		return model.NewEntry(model.NewEntryParams{Content: text})
	}

	title := collapseSpace(dom.TextContent(link))
	return model.NewEntry(model.NewEntryParams{
		Title:   title,
		Href:    dom.Attr(link, "href"),
		Content: strings.Replace(text, title, "", 1),
	})
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
