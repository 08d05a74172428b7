package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig holds dimensions of the folder listing.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + breadcrumb (1) + pane borders (2) + status (1) + help bar (2) = 7
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// WidthReduction is subtracted from terminal width for the pane.
	// Accounts for app padding (4) and pane borders (2).
	WidthReduction int

	// MinWidth is the minimum pane width.
	MinWidth int

	// ContentPadding is subtracted from pane width for item rendering.
	// Accounts for pane padding and the row marker.
	ContentPadding int

	// TitleWidthPercent is the share of the item width given to titles.
	TitleWidthPercent int

	// MinTitleWidth keeps titles readable on narrow terminals.
	MinTitleWidth int
}

// ModalConfig holds edit prompt configuration.
type ModalConfig struct {
	// WidthPercent is the prompt width as percentage of terminal width.
	WidthPercent int

	// MinWidth is the minimum prompt width in characters.
	MinWidth int

	// MaxWidth is the maximum prompt width in characters.
	MaxWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	TitleCharLimit int
	URLCharLimit   int
	Width          int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction:   7,
			MinHeight:         3,
			WidthReduction:    6,
			MinWidth:          30,
			ContentPadding:    4,
			TitleWidthPercent: 40,
			MinTitleWidth:     12,
		},
		Modal: ModalConfig{
			WidthPercent: 60,
			MinWidth:     30,
			MaxWidth:     80,
		},
		Input: InputConfig{
			TitleCharLimit: 200,
			URLCharLimit:   2000,
			Width:          50,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
