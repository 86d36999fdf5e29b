package search

import (
	"strings"

	"github.com/nikbrunner/postlist/internal/model"
)

// Substring returns the entries whose title contains query, ignoring case.
// The result keeps the original relative order of entries. An empty query
// matches everything.
func Substring(query string, entries []model.Entry) []model.Entry {
	needle := strings.ToLower(strings.TrimSpace(query))

	result := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if needle == "" || strings.Contains(strings.ToLower(e.Title), needle) {
			result = append(result, e)
		}
	}
	return result
}
