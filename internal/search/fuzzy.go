package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/nikbrunner/postlist/internal/model"
	"github.com/sahilm/fuzzy"
)

const (
	// DefaultThreshold is the minimum similarity a match needs to be kept.
	DefaultThreshold = 0.3
	// DefaultLimit caps the number of ranked results.
	DefaultLimit = 10
)

// Field names the entry field a fuzzy match was found in.
type Field int

const (
	FieldTitle Field = iota
	FieldContent
)

func (f Field) String() string {
	if f == FieldContent {
		return "content"
	}
	return "title"
}

// Result represents a ranked fuzzy match.
type Result struct {
	Entry          model.Entry
	Field          Field
	MatchedIndexes []int
	Score          int
	Similarity     float64
}

// FuzzyOptions tunes a FuzzyIndex. Zero values select the defaults.
type FuzzyOptions struct {
	Threshold float64
	Limit     int
}

// FuzzyIndex is built once over the title and content of every entry.
type FuzzyIndex struct {
	entries   []model.Entry
	threshold float64
	limit     int
}

// entryTitles implements fuzzy.Source over entry titles.
type entryTitles []model.Entry

func (et entryTitles) String(i int) string { return et[i].Title }
func (et entryTitles) Len() int            { return len(et) }

// entryContents implements fuzzy.Source over entry bodies.
type entryContents []model.Entry

func (ec entryContents) String(i int) string { return ec[i].Content }
func (ec entryContents) Len() int            { return len(ec) }

// NewFuzzyIndex creates an index over entries.
func NewFuzzyIndex(entries []model.Entry, opts FuzzyOptions) *FuzzyIndex {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	indexed := make([]model.Entry, len(entries))
	copy(indexed, entries)

	return &FuzzyIndex{
		entries:   indexed,
		threshold: threshold,
		limit:     limit,
	}
}

// Len returns the number of indexed entries.
func (ix *FuzzyIndex) Len() int {
	return len(ix.entries)
}

// Search matches query against titles and contents and returns the best
// match per entry, highest score first. Unlike Substring, the result is
// ordered by relevance, not by position.
func (ix *FuzzyIndex) Search(query string) []Result {
	query = strings.TrimSpace(query)
	if query == "" || len(ix.entries) == 0 {
		return nil
	}

	best := make(map[int]Result)
	ix.collect(best, query, entryTitles(ix.entries), FieldTitle)
	ix.collect(best, query, entryContents(ix.entries), FieldContent)

	results := make([]Result, 0, len(best))
	for _, r := range best {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entry.Pos < results[j].Entry.Pos
	})

	if len(results) > ix.limit {
		results = results[:ix.limit]
	}
	return results
}

// collect runs the matcher over src and keeps the best result per entry.
func (ix *FuzzyIndex) collect(best map[int]Result, query string, src fuzzy.Source, field Field) {
	for _, m := range fuzzy.FindFrom(query, src) {
		matched := m.MatchedIndexes
		if tight := tightest(src.String(m.Index), query); len(tight) == len(matched) && spanOf(tight) < spanOf(matched) {
			matched = tight
		}
		sim := similarity(matched)
		if sim < ix.threshold {
			continue
		}
		if cur, ok := best[m.Index]; ok && cur.Score >= m.Score {
			continue
		}
		best[m.Index] = Result{
			Entry:          ix.entries[m.Index],
			Field:          field,
			MatchedIndexes: matched,
			Score:          m.Score,
			Similarity:     sim,
		}
	}
}

// tightest returns the byte offsets of the shortest case-insensitive
// occurrence of query as a subsequence of s, or nil if there is none. The
// matcher takes the first occurrence of each character, which can stretch
// a match across the whole text.
func tightest(s, query string) []int {
	q := []rune(query)
	if len(q) == 0 {
		return nil
	}
	for i := range q {
		q[i] = unicode.ToLower(q[i])
	}

	type char struct {
		off int
		r   rune
	}
	text := make([]char, 0, len(s))
	for off, r := range s {
		text = append(text, char{off, unicode.ToLower(r)})
	}

	var best []int
	for i := range text {
		if text[i].r != q[0] {
			continue
		}
		idx := []int{text[i].off}
		k := 1
		for j := i + 1; j < len(text) && k < len(q); j++ {
			if text[j].r == q[k] {
				idx = append(idx, text[j].off)
				k++
			}
		}
		if k < len(q) {
			// No later start can complete either.
			break
		}
		if best == nil || spanOf(idx) < spanOf(best) {
			best = idx
		}
	}
	return best
}

func spanOf(matched []int) int {
	if len(matched) == 0 {
		return 0
	}
	return matched[len(matched)-1] - matched[0] + 1
}

// similarity is the share of the matched span made up of matched characters.
// 1.0 means the query appears contiguously.
func similarity(matched []int) float64 {
	if len(matched) == 0 {
		return 0
	}
	span := spanOf(matched)
	if span <= 0 {
		return 0
	}
	return float64(len(matched)) / float64(span)
}
