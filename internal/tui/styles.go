package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/postlist/internal/theme"
)

// Palette is the set of colors a theme is drawn with.
type Palette struct {
	Primary  lipgloss.Color // main text
	Subtle   lipgloss.Color // secondary text
	Accent   lipgloss.Color // selection and active page
	OnAccent lipgloss.Color
	Error    lipgloss.Color
	Success  lipgloss.Color
}

// Palettes for the two themes. Grayscale with a single desaturated teal.
var (
	LightPalette = Palette{
		Primary:  "#303030",
		Subtle:   "#888888",
		Accent:   "#4A7070",
		OnAccent: "#FFFFFF",
		Error:    "#CC3333",
		Success:  "#338833",
	}
	DarkPalette = Palette{
		Primary:  "#A0A0A0",
		Subtle:   "#606060",
		Accent:   "#5F8787",
		OnAccent: "#1A1A1A",
		Error:    "#FF6666",
		Success:  "#66CC66",
	}
)

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Title        lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Href         lipgloss.Style
	Excerpt      lipgloss.Style
	Match        lipgloss.Style
	Prompt       lipgloss.Style
	Status       lipgloss.Style
	Control      lipgloss.Style
	ControlOff   lipgloss.Style
	ControlOn    lipgloss.Style
	Empty        lipgloss.Style
	MessageError lipgloss.Style
	MessageOK    lipgloss.Style
	HintKey      lipgloss.Style // Key portion of hints (e.g., "/", "j/k")
	HintDesc     lipgloss.Style // Description portion of hints (e.g., "search", "move")
}

// DefaultStyles returns the light theme styles.
func DefaultStyles() Styles {
	return StylesFor(theme.Light)
}

// StylesFor returns the styles for t.
func StylesFor(t theme.Theme) Styles {
	p := LightPalette
	if t == theme.Dark {
		p = DarkPalette
	}
	return NewStyles(p)
}

// NewStyles builds the styles for a palette.
func NewStyles(p Palette) Styles {
	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),

		Item: lipgloss.NewStyle().
			Foreground(p.Primary).
			PaddingLeft(1),

		ItemSelected: lipgloss.NewStyle().
			PaddingLeft(1).
			Background(p.Accent).
			Foreground(p.OnAccent),

		Href: lipgloss.NewStyle().
			Foreground(p.Subtle),

		Excerpt: lipgloss.NewStyle().
			Foreground(p.Subtle).
			PaddingLeft(3),

		Match: lipgloss.NewStyle().
			Bold(true).
			Underline(true),

		Prompt: lipgloss.NewStyle().
			Foreground(p.Accent),

		Status: lipgloss.NewStyle().
			Foreground(p.Subtle).
			Italic(true),

		Control: lipgloss.NewStyle().
			Foreground(p.Primary),

		ControlOff: lipgloss.NewStyle().
			Foreground(p.Subtle).
			Faint(true),

		ControlOn: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),

		Empty: lipgloss.NewStyle().
			Foreground(p.Subtle),

		MessageError: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),

		MessageOK: lipgloss.NewStyle().
			Foreground(p.Success).
			Bold(true),

		HintKey: lipgloss.NewStyle().
			Foreground(p.Accent),

		HintDesc: lipgloss.NewStyle().
			Foreground(p.Subtle),
	}
}
