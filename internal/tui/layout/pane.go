package layout

// CalculatePaneHeight computes the content height for the listing.
// Returns at least MinHeight.
func CalculatePaneHeight(terminalHeight int, cfg PaneConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// CalculatePaneWidth computes the listing width. Returns at least MinWidth.
func CalculatePaneWidth(terminalWidth int, cfg PaneConfig) int {
	width := terminalWidth - cfg.WidthReduction
	if width < cfg.MinWidth {
		return cfg.MinWidth
	}
	return width
}

// CalculateItemWidth computes the width available for item content.
func CalculateItemWidth(paneWidth int, cfg PaneConfig) int {
	return paneWidth - cfg.ContentPadding
}

// SplitColumns divides an item row between the title and address columns,
// leaving one space between them.
func SplitColumns(itemWidth int, cfg PaneConfig) (title, address int) {
	if itemWidth <= cfg.MinTitleWidth {
		return max(itemWidth, 0), 0
	}

	title = max(itemWidth*cfg.TitleWidthPercent/100, cfg.MinTitleWidth)
	address = itemWidth - title - 1
	if address < 0 {
		address = 0
	}
	return title, address
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected item visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - viewportHeight
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}
