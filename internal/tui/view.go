package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/postlist/internal/model"
	"github.com/nikbrunner/postlist/internal/pager"
	"github.com/nikbrunner/postlist/internal/search"
	"github.com/nikbrunner/postlist/internal/tui/layout"
)

// renderView draws header, search line, list or results, pagination
// controls and the help bar.
func (a App) renderView() string {
	sections := []string{
		a.renderHeader(),
		a.renderSearchLine(),
		"",
	}

	if a.results.active {
		sections = append(sections, a.renderResults())
	} else {
		sections = append(sections, a.renderList())
		if controls := a.renderControls(a.list.controls); controls != "" {
			sections = append(sections, "", controls)
		}
	}

	sections = append(sections, a.renderHelpBar())

	content := a.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

func (a App) renderHeader() string {
	count := len(a.engine.Entries())
	noun := "posts"
	if count == 1 {
		noun = "post"
	}
	posts := fmt.Sprintf("%d %s", count, noun)
	if shown := len(a.presenter.Items()); !a.results.active && shown != count {
		posts = fmt.Sprintf("%d of %d %s", shown, count, noun)
	}
	info := fmt.Sprintf("%s · %s · %s", posts, a.engine.Mode(), a.theme)
	return a.styles.Title.Render("postlist") + "  " + a.styles.Empty.Render(info)
}

func (a App) renderSearchLine() string {
	line := a.input.View()
	if status := a.Status(); status != "" {
		style := a.styles.Status
		if errors.Is(a.engine.Err(), search.ErrUnavailable) {
			style = a.styles.MessageError
		}
		line += "  " + style.Render(status)
	}
	return line
}

func (a App) renderList() string {
	rows := a.rows()
	if len(rows) == 0 {
		if a.engine.State() != search.StateReady {
			return ""
		}
		return a.styles.Empty.Render("No matching posts")
	}

	width := layout.CalculateItemWidth(a.width, a.layoutConfig.List)
	height := layout.CalculateListHeight(a.height, a.layoutConfig.List)

	start, end := window(len(rows), a.cursor, height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, a.renderItem(rows[i], i == a.cursor, width))
	}
	return strings.Join(lines, "\n")
}

// window returns the [start, end) range of rows to draw, keeping the cursor
// on screen.
func window(n, cursor, height int) (int, int) {
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	return start, min(start+height, n)
}

func (a App) renderItem(e model.Entry, isCursor bool, maxWidth int) string {
	line, _ := layout.TruncateText(e.Title, maxWidth, a.layoutConfig.Text)
	if isCursor {
		return a.styles.ItemSelected.Render(layout.PadRight(line, maxWidth))
	}
	return a.styles.Item.Render(line)
}

func (a App) renderResults() string {
	res := a.results.results
	if len(res) == 0 {
		return a.styles.Empty.Render(fmt.Sprintf("No results for %q", a.results.query))
	}

	width := layout.CalculateItemWidth(a.width, a.layoutConfig.List)
	excerptWidth := layout.CalculateExcerptWidth(a.width, a.layoutConfig.List)

	hl := func(s string) string { return a.styles.Match.Render(s) }
	plain := func(s string) string { return s }

	var lines []string
	for i, r := range res {
		title := r.Entry.Title
		if r.Field == search.FieldTitle {
			title = layout.Highlight(title, r.MatchedIndexes, hl, plain)
		}
		title = layout.TruncateANSIAware(title, width, a.layoutConfig.Text)
		if i == a.cursor {
			lines = append(lines, a.styles.ItemSelected.Render(layout.PadRight(title, width)))
		} else {
			lines = append(lines, a.styles.Item.Render(title))
		}

		if r.Field == search.FieldContent && len(r.MatchedIndexes) > 0 {
			excerpt := layout.Excerpt(r.Entry.Content, r.MatchedIndexes[0], excerptWidth, a.layoutConfig.Text)
			lines = append(lines, a.styles.Excerpt.Render(excerpt))
		}
	}

	count := fmt.Sprintf("%d results", len(res))
	if len(res) == 1 {
		count = "1 result"
	}
	lines = append(lines, "", a.styles.Empty.Render(count))
	return strings.Join(lines, "\n")
}

// renderControls draws the navigation row, e.g. "‹ Previous  1  [2]  3  Next ›".
func (a App) renderControls(c pager.Controls) string {
	if c.Hidden {
		return ""
	}

	button := func(ctl pager.Control, text string) string {
		switch {
		case ctl.Active:
			return a.styles.ControlOn.Render(text)
		case ctl.Disabled:
			return a.styles.ControlOff.Render(text)
		default:
			return a.styles.Control.Render(text)
		}
	}

	parts := []string{button(c.Prev, "‹ "+c.Prev.Label)}
	for _, p := range c.Pages {
		text := p.Label
		if p.Active {
			text = "[" + text + "]"
		}
		parts = append(parts, button(p, text))
	}
	parts = append(parts, button(c.Next, c.Next.Label+" ›"))
	return strings.Join(parts, "  ")
}

func (a App) renderHelpBar() string {
	var lines []string

	// Empty spacer or message
	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	var bindings []keyHint
	if a.input.Focused() {
		bindings = []keyHint{{"type", "filter"}, {"esc", "done"}}
	} else {
		bindings = []keyHint{
			{"/", "search"},
			{"j/k", "move"},
			{"h/l", "page"},
			{"o", "open"},
			{"Y", "yank URL"},
			{"S", "share"},
			{"t", "theme"},
			{"q", "quit"},
		}
	}
	lines = append(lines, a.renderHints(bindings))

	return strings.Join(lines, "\n")
}

type keyHint struct {
	Key  string
	Desc string
}

// renderHints renders hints in horizontal format: "j/k:move h/l:page".
func (a App) renderHints(hints []keyHint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, " ")
}

// renderMessageLine renders the styled message with a prefix icon.
func (a App) renderMessageLine() string {
	switch a.messageType {
	case MessageError:
		return a.styles.MessageError.Render("✗ " + a.messageText)
	case MessageSuccess:
		return a.styles.MessageOK.Render("✓ " + a.messageText)
	default:
		return a.styles.Title.Render(a.messageText)
	}
}
