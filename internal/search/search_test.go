package search

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nikbrunner/postlist/internal/model"
)

func entries(titles ...string) []model.Entry {
	list := make([]model.Entry, len(titles))
	for i, title := range titles {
		list[i] = model.Entry{Title: title, Href: "/" + strings.ToLower(strings.ReplaceAll(title, " ", "-"))}
	}
	return model.NewStore(list).Entries
}

func titles(list []model.Entry) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Title
	}
	return out
}

func TestSubstring_EmptyQueryReturnsAll(t *testing.T) {
	all := entries("GitHub", "GitLab", "Gitea")

	got := Substring("", all)

	if len(got) != 3 {
		t.Fatalf("expected 3 entries for empty query, got %d", len(got))
	}
	for i := range got {
		if got[i].Pos != all[i].Pos {
			t.Errorf("position %d: got pos %d, want %d", i, got[i].Pos, all[i].Pos)
		}
	}
}

func TestSubstring_WhitespaceQueryReturnsAll(t *testing.T) {
	got := Substring("   ", entries("A", "B"))

	if len(got) != 2 {
		t.Errorf("expected 2 entries, got %d", len(got))
	}
}

func TestSubstring_CaseInsensitive(t *testing.T) {
	got := Substring("GO", entries("Learning go", "Rust notes", "Going Further"))

	want := []string{"Learning go", "Going Further"}
	if strings.Join(titles(got), "|") != strings.Join(want, "|") {
		t.Errorf("got %v, want %v", titles(got), want)
	}
}

func TestSubstring_NoMatch(t *testing.T) {
	got := Substring("xyz123", entries("GitHub"))

	if len(got) != 0 {
		t.Errorf("expected 0 results, got %d", len(got))
	}
}

func TestSubstring_MatchesTitleOnly(t *testing.T) {
	all := model.NewStore([]model.Entry{
		{Title: "First", Href: "/first", Content: "secret word"},
		{Title: "Secret Second", Href: "/second"},
	}).Entries

	got := Substring("secret", all)

	if len(got) != 1 || got[0].Title != "Secret Second" {
		t.Errorf("expected only the title match, got %v", titles(got))
	}
}

func TestSubstring_IsOrderPreservingSubsequence(t *testing.T) {
	all := entries("alpha", "beta", "alphabet", "gamma", "alpine", "delta", "Al")

	for _, q := range []string{"", "a", "al", "alp", "ta", "zzz", "AL", "e"} {
		got := Substring(q, all)
		last := -1
		for _, e := range got {
			if e.Pos <= last {
				t.Fatalf("query %q: position %d after %d breaks ordering", q, e.Pos, last)
			}
			if all[e.Pos].Title != e.Title {
				t.Fatalf("query %q: entry %q is not the collection entry at %d", q, e.Title, e.Pos)
			}
			last = e.Pos
		}
	}
}

func TestFuzzyIndex_EmptyQuery(t *testing.T) {
	ix := NewFuzzyIndex(entries("GitHub"), FuzzyOptions{})

	if results := ix.Search(""); len(results) != 0 {
		t.Errorf("expected 0 results for empty query, got %d", len(results))
	}
}

func TestFuzzyIndex_ExactMatch(t *testing.T) {
	ix := NewFuzzyIndex(entries("GitHub", "GitLab"), FuzzyOptions{})

	results := ix.Search("GitHub")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Entry.Title != "GitHub" {
		t.Errorf("expected GitHub, got %s", results[0].Entry.Title)
	}
}

func TestFuzzyIndex_FuzzyMatch(t *testing.T) {
	ix := NewFuzzyIndex(entries("TanStack Router", "React Router"), FuzzyOptions{})

	// "tanrou" should fuzzy match "TanStack Router"
	results := ix.Search("tanrou")

	if len(results) < 1 {
		t.Fatalf("expected at least 1 result for 'tanrou', got %d", len(results))
	}
	if results[0].Entry.Title != "TanStack Router" {
		t.Errorf("expected TanStack Router as first result, got %s", results[0].Entry.Title)
	}
}

func TestFuzzyIndex_SortedByScore(t *testing.T) {
	ix := NewFuzzyIndex(entries("React Router Documentation", "Router"), FuzzyOptions{})

	results := ix.Search("router")

	if len(results) < 2 {
		t.Fatalf("expected at least 2 results, got %d", len(results))
	}
	// Ranked, not positional: the exact title wins although it comes second.
	if results[0].Entry.Title != "Router" {
		t.Errorf("expected 'Router' first, got %s", results[0].Entry.Title)
	}
	if results[0].Score < results[1].Score {
		t.Errorf("scores not descending: %d < %d", results[0].Score, results[1].Score)
	}
}

func TestFuzzyIndex_MatchesContent(t *testing.T) {
	all := model.NewStore([]model.Entry{
		{Title: "Weekly notes", Href: "/w", Content: "a short post about goroutines"},
		{Title: "Other", Href: "/o", Content: "nothing here"},
	}).Entries
	ix := NewFuzzyIndex(all, FuzzyOptions{})

	results := ix.Search("goroutines")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Field != FieldContent {
		t.Errorf("expected content match, got %s", results[0].Field)
	}
}

func TestFuzzyIndex_ThresholdDropsScatteredMatches(t *testing.T) {
	all := model.NewStore([]model.Entry{
		{Title: "Nothing", Href: "/n", Content: "q" + strings.Repeat("a", 20) + "z"},
		{Title: "Quiz", Href: "/quiz"},
	}).Entries
	ix := NewFuzzyIndex(all, FuzzyOptions{})

	results := ix.Search("qz")

	if len(results) != 1 || results[0].Entry.Title != "Quiz" {
		t.Errorf("expected only Quiz to pass the threshold, got %d results", len(results))
	}
}

func TestFuzzyIndex_Limit(t *testing.T) {
	ix := NewFuzzyIndex(entries("go one", "go two", "go three", "go four"), FuzzyOptions{Limit: 2})

	if results := ix.Search("go"); len(results) != 2 {
		t.Errorf("expected 2 results with limit 2, got %d", len(results))
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name    string
		matched []int
		want    float64
	}{
		{"none", nil, 0},
		{"contiguous", []int{3, 4, 5}, 1},
		{"half", []int{0, 3}, 0.5},
		{"single", []int{7}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := similarity(tt.matched); got != tt.want {
				t.Errorf("similarity(%v) = %v, want %v", tt.matched, got, tt.want)
			}
		})
	}
}

func TestFuzzyIndex_ContentMatchUsesTightestWindow(t *testing.T) {
	all := model.NewStore([]model.Entry{
		{Title: "Pagination", Href: "/p", Content: "five posts per page"},
	}).Entries
	ix := NewFuzzyIndex(all, FuzzyOptions{})

	results := ix.Search("page")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Similarity != 1 {
		t.Errorf("expected contiguous match, got similarity %v", results[0].Similarity)
	}
	if got := results[0].MatchedIndexes; len(got) != 4 || got[0] != 15 {
		t.Errorf("expected match at offset 15, got %v", got)
	}
}

func TestTightest(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		query string
		want  []int
	}{
		{"contiguous later", "posts per page", "page", []int{10, 11, 12, 13}},
		{"case-insensitive", "A Go Gopher", "go", []int{2, 3}},
		{"no match", "abc", "z", nil},
		{"empty query", "abc", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tightest(tt.s, tt.query)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("tightest(%q, %q) = %v, want %v", tt.s, tt.query, got, tt.want)
			}
		})
	}
}
