package tui

import (
	"github.com/nikbrunner/postlist/internal/pager"
	"github.com/nikbrunner/postlist/internal/search"
)

// listView is the post list as the presenter sees it: one visibility flag
// per entry position plus the navigation row.
type listView struct {
	visible  []bool
	controls pager.Controls
}

func (v *listView) resize(total int) {
	v.visible = make([]bool, total)
	v.controls = pager.Controls{Hidden: true}
}

// SetItemVisible implements pager.View.
func (v *listView) SetItemVisible(pos int, visible bool) {
	if pos >= 0 && pos < len(v.visible) {
		v.visible[pos] = visible
	}
}

// RenderControls implements pager.View.
func (v *listView) RenderControls(c pager.Controls) {
	v.controls = c
}

func (v *listView) isVisible(pos int) bool {
	return pos >= 0 && pos < len(v.visible) && v.visible[pos]
}

// resultsView is the ranked results pane used by fuzzy search. It also
// holds the search status line.
type resultsView struct {
	active  bool
	query   string
	results []search.Result
	status  string
}

// ShowResults implements search.ResultsView.
func (v *resultsView) ShowResults(query string, results []search.Result) {
	v.active = true
	v.query = query
	v.results = results
}

// HideResults implements search.ResultsView.
func (v *resultsView) HideResults() {
	v.active = false
	v.query = ""
	v.results = nil
}

// ShowStatus implements search.ResultsView.
func (v *resultsView) ShowStatus(msg string) {
	v.status = msg
}
