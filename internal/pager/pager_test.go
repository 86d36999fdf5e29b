package pager_test

import (
	"fmt"
	"testing"

	"github.com/nikbrunner/postlist/internal/model"
	"github.com/nikbrunner/postlist/internal/pager"
)

// fakeView records what the presenter draws.
type fakeView struct {
	visible  []bool
	controls pager.Controls
	renders  int
}

func newFakeView(total int) *fakeView {
	v := &fakeView{visible: make([]bool, total)}
	for i := range v.visible {
		v.visible[i] = true
	}
	return v
}

func (v *fakeView) SetItemVisible(pos int, visible bool) {
	v.visible[pos] = visible
}

func (v *fakeView) RenderControls(c pager.Controls) {
	v.controls = c
	v.renders++
}

func (v *fakeView) shown() []int {
	var out []int
	for pos, ok := range v.visible {
		if ok {
			out = append(out, pos)
		}
	}
	return out
}

func makeEntries(n int) []model.Entry {
	list := make([]model.Entry, n)
	for i := range list {
		list[i] = model.Entry{Title: fmt.Sprintf("Post %d", i+1), Href: fmt.Sprintf("/p/%d", i+1)}
	}
	return model.NewStore(list).Entries
}

func setup(n, pageSize int) (*pager.Presenter, *fakeView, []model.Entry) {
	all := makeEntries(n)
	view := newFakeView(n)
	p := pager.New(view, n, pageSize)
	p.SetVisible(all)
	return p, view, all
}

func TestPresenter_TotalPages(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		pageSize int
		want     int
	}{
		{"empty", 0, 5, 0},
		{"one item", 1, 5, 1},
		{"exactly one page", 5, 5, 1},
		{"one over", 6, 5, 2},
		{"twelve by five", 12, 5, 3},
		{"page size one", 3, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _ := setup(tt.n, tt.pageSize)
			if got := p.TotalPages(); got != tt.want {
				t.Errorf("TotalPages() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPresenter_DefaultPageSize(t *testing.T) {
	p := pager.New(nil, 0, 0)

	if p.PageSize() != pager.DefaultPageSize {
		t.Errorf("expected default page size %d, got %d", pager.DefaultPageSize, p.PageSize())
	}
}

func TestPresenter_TwelveEntriesPagesOfFive(t *testing.T) {
	p, view, _ := setup(12, 5)

	sizes := []int{}
	for page := 1; page <= p.TotalPages(); page++ {
		if !p.GoToPage(page) {
			t.Fatalf("GoToPage(%d) rejected", page)
		}
		sizes = append(sizes, len(p.PageItems()))
	}
	if fmt.Sprint(sizes) != "[5 5 2]" {
		t.Errorf("page sizes = %v, want [5 5 2]", sizes)
	}

	// Page 3 shows exactly the last two entries.
	shown := view.shown()
	if fmt.Sprint(shown) != "[10 11]" {
		t.Errorf("shown positions on page 3 = %v, want [10 11]", shown)
	}
}

func TestPresenter_SetVisibleResetsToFirstPage(t *testing.T) {
	p, view, all := setup(12, 5)
	p.GoToPage(3)

	p.SetVisible(all[2:9])

	if p.CurrentPage() != 1 {
		t.Errorf("expected page 1 after SetVisible, got %d", p.CurrentPage())
	}
	if fmt.Sprint(view.shown()) != "[2 3 4 5 6]" {
		t.Errorf("shown = %v, want [2 3 4 5 6]", view.shown())
	}
}

func TestPresenter_HidesEntriesOutsideVisibleSet(t *testing.T) {
	p, view, all := setup(6, 5)

	p.SetVisible([]model.Entry{all[1], all[4]})

	if fmt.Sprint(view.shown()) != "[1 4]" {
		t.Errorf("shown = %v, want [1 4]", view.shown())
	}
	if !view.controls.Hidden {
		t.Error("single page should hide controls")
	}
}

func TestPresenter_EmptyVisibleSet(t *testing.T) {
	p, view, _ := setup(4, 5)

	p.SetVisible(nil)

	if p.TotalPages() != 0 {
		t.Errorf("expected 0 pages, got %d", p.TotalPages())
	}
	if len(view.shown()) != 0 {
		t.Errorf("expected no visible items, got %v", view.shown())
	}
	if !view.controls.Hidden || len(view.controls.Pages) != 0 {
		t.Errorf("expected hidden controls, got %+v", view.controls)
	}
	if len(p.PageItems()) != 0 {
		t.Error("expected no page items")
	}
	if p.GoToPage(1) {
		t.Error("GoToPage(1) should be rejected with no pages")
	}
}

func TestPresenter_ControlsSinglePageHidden(t *testing.T) {
	p, view, _ := setup(5, 5)

	if !p.Controls().Hidden || !view.controls.Hidden {
		t.Error("expected controls hidden for exactly one page")
	}
}

func TestPresenter_ControlsPrevNextDisabledAtBounds(t *testing.T) {
	p, view, _ := setup(12, 5)

	tests := []struct {
		page         int
		prevDisabled bool
		nextDisabled bool
	}{
		{1, true, false},
		{2, false, false},
		{3, false, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			p.GoToPage(tt.page)
			c := view.controls

			if c.Hidden {
				t.Fatal("controls should be shown for 3 pages")
			}
			if c.Prev.Disabled != tt.prevDisabled {
				t.Errorf("Prev.Disabled = %v, want %v", c.Prev.Disabled, tt.prevDisabled)
			}
			if c.Next.Disabled != tt.nextDisabled {
				t.Errorf("Next.Disabled = %v, want %v", c.Next.Disabled, tt.nextDisabled)
			}
			if len(c.Pages) != 3 {
				t.Fatalf("expected 3 page controls, got %d", len(c.Pages))
			}
			for i, pc := range c.Pages {
				current := i+1 == tt.page
				if pc.Active != current || pc.Disabled != current {
					t.Errorf("page control %d: active=%v disabled=%v, current=%v", i+1, pc.Active, pc.Disabled, current)
				}
				if pc.Label != fmt.Sprint(i+1) || pc.Page != i+1 {
					t.Errorf("page control %d: label %q page %d", i+1, pc.Label, pc.Page)
				}
			}
		})
	}
}

func TestPresenter_PrevNextNoOpAtBoundaries(t *testing.T) {
	p, _, _ := setup(12, 5)

	if p.Prev() {
		t.Error("Prev on page 1 should be a no-op")
	}
	if p.CurrentPage() != 1 {
		t.Errorf("expected page 1, got %d", p.CurrentPage())
	}

	p.Next()
	p.Next()
	if p.CurrentPage() != 3 {
		t.Fatalf("expected page 3, got %d", p.CurrentPage())
	}
	if p.Next() {
		t.Error("Next on last page should be a no-op")
	}
	if p.CurrentPage() != 3 {
		t.Errorf("expected to stay on page 3, got %d", p.CurrentPage())
	}

	p.Prev()
	if p.CurrentPage() != 2 {
		t.Errorf("expected page 2 after Prev, got %d", p.CurrentPage())
	}
}

func TestPresenter_GoToPageOutOfRange(t *testing.T) {
	p, view, _ := setup(12, 5)
	renders := view.renders

	for _, n := range []int{0, -1, 4, 100} {
		if p.GoToPage(n) {
			t.Errorf("GoToPage(%d) should be rejected", n)
		}
	}
	if p.CurrentPage() != 1 {
		t.Errorf("expected page 1, got %d", p.CurrentPage())
	}
	if view.renders != renders {
		t.Error("out-of-range navigation should not re-render")
	}
}

func TestPresenter_CurrentPageWithinBounds(t *testing.T) {
	all := makeEntries(23)
	view := newFakeView(len(all))
	p := pager.New(view, len(all), 4)

	for n := 1; n <= len(all); n++ {
		p.SetVisible(all[:n])
		if p.CurrentPage() != 1 {
			t.Fatalf("n=%d: expected page 1 after SetVisible", n)
		}
		for page := 1; page <= p.TotalPages()+1; page++ {
			p.GoToPage(page)
			if p.CurrentPage() < 1 || p.CurrentPage() > p.TotalPages() {
				t.Fatalf("n=%d: current page %d outside [1, %d]", n, p.CurrentPage(), p.TotalPages())
			}
		}
	}
}

func TestPresenter_ResizeBeforeFirstRender(t *testing.T) {
	view := newFakeView(7)
	p := pager.New(view, 0, 5)

	p.Resize(7)
	if p.Total() != 7 {
		t.Fatalf("expected total 7, got %d", p.Total())
	}

	p.SetVisible(makeEntries(7))
	if got := fmt.Sprint(view.shown()); got != "[0 1 2 3 4]" {
		t.Errorf("expected first page shown and the rest hidden, got %s", got)
	}

	p.Resize(-3)
	if p.Total() != 0 {
		t.Errorf("expected negative size to clamp to 0, got %d", p.Total())
	}
}
