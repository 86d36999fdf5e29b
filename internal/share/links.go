// Package share builds social share links for a post and writes them into a
// post page's share buttons.
package share

import (
	"fmt"
	"net/url"
	"strings"
)

// Service names a share target.
type Service string

const (
	Twitter  Service = "twitter"
	Facebook Service = "facebook"
	LinkedIn Service = "linkedin"
	Email    Service = "email"
)

// Services lists every share target in display order.
var Services = []Service{Twitter, Facebook, LinkedIn, Email}

// ParseService parses a service name.
func ParseService(s string) (Service, error) {
	name := Service(strings.ToLower(strings.TrimSpace(s)))
	for _, svc := range Services {
		if svc == name {
			return svc, nil
		}
	}
	return "", fmt.Errorf("unknown share service %q", s)
}

// Links holds one share URL per service.
type Links struct {
	Twitter  string
	Facebook string
	LinkedIn string
	Email    string
}

// Build constructs the share links for a page URL and post title.
func Build(pageURL, title string) Links {
	u := Escape(pageURL)
	t := Escape(title)
	return Links{
		Twitter:  "https://twitter.com/intent/tweet?url=" + u + "&text=" + t,
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=" + u,
		LinkedIn: "https://www.linkedin.com/shareArticle?mini=true&url=" + u + "&title=" + t,
		Email:    "mailto:?subject=" + t + "&body=" + Escape("Check out this post: "+pageURL),
	}
}

// Get returns the link for svc.
func (l Links) Get(svc Service) (string, bool) {
	switch svc {
	case Twitter:
		return l.Twitter, true
	case Facebook:
		return l.Facebook, true
	case LinkedIn:
		return l.LinkedIn, true
	case Email:
		return l.Email, true
	default:
		return "", false
	}
}

var componentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Escape percent-encodes s as a URI component: everything except
// A-Z a-z 0-9 - _ . ! ~ * ' ( ) is escaped, and spaces become %20.
func Escape(s string) string {
	return componentUnescapes.Replace(url.QueryEscape(s))
}
