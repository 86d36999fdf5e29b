package model

import "strings"

// Entry is one listed post: a title, the link it points at and, optionally,
// body text used for matching.
type Entry struct {
	Pos     int    `json:"-"` // position in the collection; identity of the entry
	Title   string `json:"title"`
	Href    string `json:"href"`
	Content string `json:"content,omitempty"`
}

// NewEntryParams holds parameters for creating a new Entry.
type NewEntryParams struct {
	Title   string
	Href    string
	Content string
}

// NewEntry creates an Entry with trimmed fields. Its position is assigned
// when it is added to a Store.
func NewEntry(params NewEntryParams) Entry {
	return Entry{
		Pos:     -1,
		Title:   strings.TrimSpace(params.Title),
		Href:    strings.TrimSpace(params.Href),
		Content: strings.TrimSpace(params.Content),
	}
}

// Valid reports whether the entry carries the fields every source must provide.
func (e Entry) Valid() bool {
	return e.Title != "" && e.Href != ""
}
