// Package layout holds sizing and text-fitting helpers for the terminal UI.
package layout

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// VisibleWidth returns the display width of a string, ignoring ANSI codes
// and counting wide runes as two cells.
func VisibleWidth(s string) int {
	return ansi.StringWidth(s)
}

// TruncateText truncates plain text to maxWidth cells with an ellipsis.
// Returns the truncated text and whether truncation occurred.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", text != ""
	}
	if runewidth.StringWidth(text) <= maxWidth {
		return text, false
	}
	if runewidth.StringWidth(cfg.Ellipsis) >= maxWidth {
		return runewidth.Truncate(cfg.Ellipsis, maxWidth, ""), true
	}
	return runewidth.Truncate(text, maxWidth, cfg.Ellipsis), true
}

// TruncateANSIAware truncates styled text to maxWidth visible cells,
// keeping escape sequences intact.
func TruncateANSIAware(styledText string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}
	if ansi.StringWidth(styledText) <= maxWidth {
		return styledText
	}
	return ansi.Truncate(styledText, maxWidth, cfg.Ellipsis) + "\x1b[0m"
}

// PadRight pads s with spaces to width visible cells.
func PadRight(s string, width int) string {
	if gap := width - VisibleWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// Highlight renders the bytes of text at the given byte offsets with hl and
// the rest with plain. Offsets that do not start a rune are ignored.
func Highlight(text string, offsets []int, hl, plain func(string) string) string {
	if len(offsets) == 0 {
		return plain(text)
	}
	marked := make(map[int]bool, len(offsets))
	for _, o := range offsets {
		marked[o] = true
	}

	var out, run strings.Builder
	runMarked := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runMarked {
			out.WriteString(hl(run.String()))
		} else {
			out.WriteString(plain(run.String()))
		}
		run.Reset()
	}
	for i, r := range text {
		if marked[i] != runMarked {
			flush()
			runMarked = marked[i]
		}
		run.WriteRune(r)
	}
	flush()
	return out.String()
}

// Excerpt returns a window of text about width cells wide that contains the
// byte offset at, with ellipses where text was cut.
func Excerpt(text string, at, width int, cfg TextConfig) string {
	text, at = collapseSpace(text, at)
	if runewidth.StringWidth(text) <= width {
		return text
	}
	if at < 0 || at >= len(text) {
		at = 0
	}

	lead := width / 3
	start := at
	for start > 0 && runewidth.StringWidth(text[start:at]) < lead {
		start--
		for start > 0 && !isRuneStart(text[start]) {
			start--
		}
	}

	prefix := ""
	if start > 0 {
		prefix = cfg.Ellipsis
	}
	rest, _ := TruncateText(text[start:], width-runewidth.StringWidth(prefix), cfg)
	return prefix + rest
}

// collapseSpace trims text and folds each run of whitespace into one space.
// It also returns where byte offset at of the original lands in the
// collapsed text, or -1 if at is out of range.
func collapseSpace(text string, at int) (string, int) {
	var b strings.Builder
	b.Grow(len(text))
	mapped := -1
	pendingSpace := false
	for off, r := range text {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			if off >= at && mapped < 0 {
				mapped = b.Len()
			}
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		if off >= at && mapped < 0 {
			mapped = b.Len()
		}
		b.WriteRune(r)
	}
	if at < 0 || at >= len(text) {
		return b.String(), -1
	}
	if mapped >= b.Len() {
		mapped = max(b.Len()-1, 0)
	}
	return b.String(), mapped
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
