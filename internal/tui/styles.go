package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Pane         lipgloss.Style
	Title        lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	ItemMarked   lipgloss.Style
	Folder       lipgloss.Style
	URL          lipgloss.Style
	Description  lipgloss.Style
	Help         lipgloss.Style
	Empty        lipgloss.Style
	Prompt       lipgloss.Style
	HintKey      lipgloss.Style // Key portion of hints (e.g., "Enter", "j/k")
	HintDesc     lipgloss.Style // Description portion of hints (e.g., "confirm", "move")
	Breadcrumb   lipgloss.Style // Folder path above the listing

	MessageInfo    lipgloss.Style
	MessageSuccess lipgloss.Style
	MessageWarning lipgloss.Style
	MessageError   lipgloss.Style
}

// DefaultStyles returns the default style configuration.
// Industrial design: grayscale with single desaturated teal accent.
func DefaultStyles() Styles {
	// Industrial color palette
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"} // main text
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}  // secondary text
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}  // desaturated teal

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Item: lipgloss.NewStyle().
			Foreground(primary),

		ItemSelected: lipgloss.NewStyle().
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		ItemMarked: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),

		Folder: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),

		URL: lipgloss.NewStyle().
			Foreground(subtle),

		Description: lipgloss.NewStyle().
			Foreground(subtle).
			Italic(true),

		Help: lipgloss.NewStyle().
			Foreground(subtle).
			Padding(1, 0, 0, 0),

		Empty: lipgloss.NewStyle().
			Foreground(subtle),

		Prompt: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),

		HintKey: lipgloss.NewStyle().
			Foreground(subtle),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),

		Breadcrumb: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingLeft(1),

		MessageInfo: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),

		MessageSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#338833", Dark: "#66CC66"}).
			Bold(true),

		MessageWarning: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"}).
			Bold(true),

		MessageError: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC3333", Dark: "#FF6666"}).
			Bold(true),
	}
}
