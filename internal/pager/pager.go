// Package pager slices the Visible Set into fixed-size pages and drives a
// View with per-entry visibility and navigation controls.
package pager

import "github.com/nikbrunner/postlist/internal/model"

// DefaultPageSize is used when a non-positive page size is given.
const DefaultPageSize = 5

// View is the rendering surface the presenter draws on.
type View interface {
	// SetItemVisible shows or hides the entry at pos in the full collection.
	SetItemVisible(pos int, visible bool)
	// RenderControls replaces the navigation row.
	RenderControls(c Controls)
}

// Presenter owns the pagination state. currentPage is always >= 1 and, when
// there are items, never exceeds TotalPages.
type Presenter struct {
	view        View
	total       int // size of the full collection
	pageSize    int
	items       []model.Entry
	currentPage int
	controls    Controls
}

// New creates a Presenter over a collection of total entries. Nothing is
// rendered until SetVisible is called.
func New(view View, total, pageSize int) *Presenter {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Presenter{
		view:        view,
		total:       total,
		pageSize:    pageSize,
		currentPage: 1,
		controls:    Controls{Hidden: true},
	}
}

// SetVisible replaces the Visible Set, resets to page 1 and re-renders.
func (p *Presenter) SetVisible(items []model.Entry) {
	p.items = make([]model.Entry, len(items))
	copy(p.items, items)
	p.currentPage = 1
	p.render()
}

// Resize sets the size of the full collection, for collections that
// arrive after the presenter was created. It does not re-render.
func (p *Presenter) Resize(total int) {
	p.total = max(total, 0)
}

// Total returns the size of the full collection.
func (p *Presenter) Total() int {
	return p.total
}

// GoToPage moves to page n. Out-of-range pages are ignored and false is
// returned.
func (p *Presenter) GoToPage(n int) bool {
	if n < 1 || n > p.TotalPages() {
		return false
	}
	p.currentPage = n
	p.render()
	return true
}

// Prev moves back one page. It is a no-op on the first page.
func (p *Presenter) Prev() bool {
	return p.GoToPage(p.currentPage - 1)
}

// Next moves forward one page. It is a no-op on the last page.
func (p *Presenter) Next() bool {
	return p.GoToPage(p.currentPage + 1)
}

// CurrentPage returns the 1-based current page.
func (p *Presenter) CurrentPage() int {
	return p.currentPage
}

// PageSize returns the configured page size.
func (p *Presenter) PageSize() int {
	return p.pageSize
}

// TotalPages returns ceil(len(items) / pageSize); zero when there are no items.
func (p *Presenter) TotalPages() int {
	return (len(p.items) + p.pageSize - 1) / p.pageSize
}

// Items returns the current Visible Set.
func (p *Presenter) Items() []model.Entry {
	return p.items
}

// PageItems returns the slice of the Visible Set shown on the current page.
func (p *Presenter) PageItems() []model.Entry {
	start, end := p.bounds()
	return p.items[start:end]
}

// Controls returns the last rendered navigation row.
func (p *Presenter) Controls() Controls {
	return p.controls
}

func (p *Presenter) bounds() (int, int) {
	start := (p.currentPage - 1) * p.pageSize
	if start > len(p.items) {
		start = len(p.items)
	}
	end := min(start+p.pageSize, len(p.items))
	return start, end
}

// render hides every entry of the full collection, shows the current page
// and redraws the controls.
func (p *Presenter) render() {
	p.controls = buildControls(p.currentPage, p.TotalPages())
	if p.view == nil {
		return
	}

	for pos := 0; pos < p.total; pos++ {
		p.view.SetItemVisible(pos, false)
	}
	for _, e := range p.PageItems() {
		p.view.SetItemVisible(e.Pos, true)
	}
	p.view.RenderControls(p.controls)
}
