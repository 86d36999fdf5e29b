package layout

// CalculateListHeight returns the number of rows available for list items.
func CalculateListHeight(terminalHeight int, cfg ListConfig) int {
	return max(terminalHeight-cfg.HeightReduction, cfg.MinHeight)
}

// CalculateItemWidth returns the width available for a single item line.
func CalculateItemWidth(terminalWidth int, cfg ListConfig) int {
	return max(terminalWidth-cfg.WidthReduction, cfg.MinWidth)
}

// CalculateExcerptWidth returns the width of a result's content excerpt.
func CalculateExcerptWidth(terminalWidth int, cfg ListConfig) int {
	return min(CalculateItemWidth(terminalWidth, cfg), cfg.ExcerptWidth)
}
