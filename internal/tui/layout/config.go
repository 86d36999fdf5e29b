package layout

// Config holds all layout-related configuration values.
type Config struct {
	List ListConfig
	Text TextConfig
}

// ListConfig holds list pane dimension configuration.
type ListConfig struct {
	// HeightReduction is subtracted from terminal height for list content.
	// Accounts for: app padding (1) + header (1) + search line (2) +
	// controls (2) + help bar (3) = 9
	HeightReduction int

	// MinHeight is the minimum list height.
	MinHeight int

	// WidthReduction is subtracted from terminal width for item rendering.
	// Accounts for app padding on each side plus the item indent.
	WidthReduction int

	// MinWidth is the minimum item width.
	MinWidth int

	// ExcerptWidth caps the content excerpt shown under a fuzzy result.
	ExcerptWidth int
}

// TextConfig holds text rendering configuration.
type TextConfig struct {
	// Ellipsis is appended to truncated text.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() Config {
	return Config{
		List: ListConfig{
			HeightReduction: 9,
			MinHeight:       3,
			WidthReduction:  6,
			MinWidth:        10,
			ExcerptWidth:    72,
		},
		Text: TextConfig{
			Ellipsis: "…",
		},
	}
}
