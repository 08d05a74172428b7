package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/nikbrunner/xbm/internal/model"
	"github.com/nikbrunner/xbm/internal/treemodel"
	"github.com/nikbrunner/xbm/internal/tui/layout"
)

// Mode is what keystrokes currently drive.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEdit
	ModeConfirmDelete
)

// MessageType selects how the status line is styled.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// EditPurpose says what happens with the text once it is confirmed.
type EditPurpose int

const (
	EditField EditPurpose = iota
	AddBookmark
	AddFolder
)

// EditState holds the single-line prompt used for edits and additions.
type EditState struct {
	Input   textinput.Model
	Purpose EditPurpose
	Target  treemodel.Index // cell being edited, EditField only
	Label   string
}

// NewEditState creates an EditState with an initialized input.
func NewEditState(cfg layout.LayoutConfig) EditState {
	input := textinput.New()
	input.CharLimit = cfg.Input.URLCharLimit
	input.Width = cfg.Input.Width
	return EditState{Input: input}
}

// Reset clears the prompt for a new session.
func (e *EditState) Reset() {
	e.Input.Reset()
	e.Input.Blur()
	e.Purpose = EditField
	e.Target = treemodel.Index{}
	e.Label = ""
}

// Selection tracks rows marked for a batch cut.
type Selection struct {
	ids   map[model.ID]bool
	order []model.ID
}

// NewSelection creates an empty selection.
func NewSelection() Selection {
	return Selection{ids: make(map[model.ID]bool)}
}

// Toggle marks or unmarks id, keeping marking order.
func (s *Selection) Toggle(id model.ID) {
	if s.ids[id] {
		delete(s.ids, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return
	}
	s.ids[id] = true
	s.order = append(s.order, id)
}

// IsSelected reports whether id is marked.
func (s Selection) IsSelected(id model.ID) bool {
	return s.ids[id]
}

// Len returns the number of marked rows.
func (s Selection) Len() int {
	return len(s.order)
}

// IDs returns the marked rows in marking order.
func (s Selection) IDs() []model.ID {
	out := make([]model.ID, len(s.order))
	copy(out, s.order)
	return out
}

// Clear unmarks everything.
func (s *Selection) Clear() {
	s.ids = make(map[model.ID]bool)
	s.order = nil
}
