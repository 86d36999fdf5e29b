package share

import (
	"golang.org/x/net/html"

	"github.com/nikbrunner/postlist/internal/dom"
)

// ButtonID returns the element id of the share button for svc.
func ButtonID(svc Service) string {
	return "share-" + string(svc)
}

// Apply points every share button present in doc at its share link and
// returns how many it rewrote. A page without share buttons is left alone.
func Apply(doc *html.Node, pageURL string) int {
	buttons := make(map[Service]*html.Node, len(Services))
	for _, svc := range Services {
		if n := dom.ByID(doc, ButtonID(svc)); n != nil {
			buttons[svc] = n
		}
	}
	if len(buttons) == 0 {
		return 0
	}

	links := Build(pageURL, ResolveTitle(doc))
	for svc, n := range buttons {
		href, _ := links.Get(svc)
		dom.SetAttr(n, "href", href)
	}
	return len(buttons)
}
