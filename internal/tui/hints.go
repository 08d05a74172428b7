package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/nikbrunner/xbm/internal/tui/layout"
)

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// hintFor takes the hint text from a binding's help.
func hintFor(b key.Binding) Hint {
	h := b.Help()
	return Hint{Key: h.Key, Desc: h.Desc}
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (j/k, h/l, etc.)
	Edit   []Hint // Edit hints (a, e, d, etc.)
	Action []Hint // Action hints (v, x, p, etc.)
	System []Hint // System hints (w, q, Esc)
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for the bottom bar,
// dropping trailing hints that do not fit in width cells.
func (a App) renderHints(hints HintSet, width int) string {
	var parts []string
	used := 0
	for _, h := range hints.All() {
		part := a.renderHint(h)
		w := layout.VisibleWidth(part)
		if len(parts) > 0 {
			w++
		}
		if used+w > width {
			break
		}
		parts = append(parts, part)
		used += w
	}
	return strings.Join(parts, " ")
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeEdit:
		return HintSet{
			System: []Hint{{Key: "Enter", Desc: "confirm"}, {Key: "Esc", Desc: "cancel"}},
		}
	case ModeConfirmDelete:
		return HintSet{
			System: []Hint{{Key: "Enter", Desc: "delete"}, {Key: "any", Desc: "cancel"}},
		}
	default:
		return a.getNormalModeHints()
	}
}

func (a App) getNormalModeHints() HintSet {
	hints := HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "h/l", Desc: "nav"},
		},
		Action: []Hint{
			{Key: "v", Desc: "mark"},
			{Key: "x", Desc: "cut"},
			{Key: "J/K", Desc: "order"},
		},
		Edit: []Hint{
			{Key: "a/A", Desc: "add"},
			{Key: "e/u", Desc: "edit"},
			{Key: "d", Desc: "del"},
		},
		System: []Hint{
			{Key: "Y", Desc: "yank"},
			hintFor(a.keys.Quit),
		},
	}

	if a.clip != nil {
		hints.Action = append(hints.Action, Hint{Key: "p/P", Desc: "paste"})
	}
	if a.Dirty() && a.save != nil {
		hints.System = append([]Hint{hintFor(a.keys.Save)}, hints.System...)
	}
	return hints
}
