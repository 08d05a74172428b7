// Package layout computes TUI dimensions and fits text into cells.
package layout

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// VisibleWidth returns the number of terminal cells s occupies, ignoring
// ANSI styling. Wide runes count as two cells.
func VisibleWidth(s string) int {
	return lipgloss.Width(s)
}

// TruncateText truncates text to maxWidth cells with ellipsis.
// Returns the truncated text and whether truncation occurred.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", text != ""
	}
	if runewidth.StringWidth(text) <= maxWidth {
		return text, false
	}

	// Not enough room for any text + ellipsis
	if maxWidth <= runewidth.StringWidth(cfg.Ellipsis) {
		return runewidth.Truncate(cfg.Ellipsis, maxWidth, ""), true
	}

	return runewidth.Truncate(text, maxWidth, cfg.Ellipsis), true
}

// TruncateWithPrefixSuffix truncates text while preserving prefix and suffix.
// Example: TruncateWithPrefixSuffix("Development", 12, "* ", "/", cfg) -> "* Develo.../"
func TruncateWithPrefixSuffix(text string, maxWidth int, prefix, suffix string, cfg TextConfig) (string, bool) {
	combined := prefix + text + suffix
	if runewidth.StringWidth(combined) <= maxWidth {
		return combined, false
	}

	overhead := runewidth.StringWidth(prefix) + runewidth.StringWidth(suffix)
	if overhead+runewidth.StringWidth(cfg.Ellipsis) >= maxWidth {
		// Not enough room even for prefix + ellipsis + suffix
		return TruncateText(combined, maxWidth, cfg)
	}

	middle, _ := TruncateText(text, maxWidth-overhead, cfg)
	return prefix + middle + suffix, true
}

// Fit truncates text to exactly width cells and pads it with spaces when
// it is shorter.
func Fit(text string, width int, cfg TextConfig) string {
	truncated, _ := TruncateText(text, width, cfg)
	return runewidth.FillRight(truncated, width)
}

// TruncateLeft keeps the end of text within maxWidth cells, replacing the
// dropped head with the ellipsis. Used for paths where the tail matters.
func TruncateLeft(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if runewidth.StringWidth(text) <= maxWidth {
		return text, false
	}
	room := maxWidth - runewidth.StringWidth(cfg.Ellipsis)
	if room <= 0 {
		return TruncateText(text, maxWidth, cfg)
	}

	runes := []rune(text)
	for i := range runes {
		if tail := string(runes[i:]); runewidth.StringWidth(tail) <= room {
			return cfg.Ellipsis + tail, true
		}
	}
	return cfg.Ellipsis, true
}
