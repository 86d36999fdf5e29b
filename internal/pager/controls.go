package pager

import "strconv"

// Control is one navigation button.
type Control struct {
	Label    string
	Page     int // target page; 0 for a disabled Previous/Next at a boundary
	Disabled bool
	Active   bool
}

// Controls describes the navigation row for the current page.
// When Hidden is set, nothing should be drawn.
type Controls struct {
	Hidden bool
	Prev   Control
	Pages  []Control
	Next   Control
}

// Labels used for the Previous and Next controls.
const (
	PrevLabel = "Previous"
	NextLabel = "Next"
)

// buildControls computes the navigation row for current of total pages.
func buildControls(current, total int) Controls {
	if total <= 1 {
		return Controls{Hidden: true}
	}

	c := Controls{
		Prev: Control{
			Label:    PrevLabel,
			Page:     current - 1,
			Disabled: current == 1,
		},
		Pages: make([]Control, 0, total),
		Next: Control{
			Label:    NextLabel,
			Page:     current + 1,
			Disabled: current == total,
		},
	}
	if c.Prev.Disabled {
		c.Prev.Page = 0
	}
	if c.Next.Disabled {
		c.Next.Page = 0
	}

	for i := 1; i <= total; i++ {
		c.Pages = append(c.Pages, Control{
			Label:    strconv.Itoa(i),
			Page:     i,
			Disabled: i == current,
			Active:   i == current,
		})
	}
	return c
}
