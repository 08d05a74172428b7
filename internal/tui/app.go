// Package tui is the interactive browser for a bookmark tree. Every edit
// goes through treemodel.Model.
package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/xbm/internal/model"
	"github.com/nikbrunner/xbm/internal/treemodel"
	"github.com/nikbrunner/xbm/internal/tui/layout"
)

// App is the main bubbletea model for the bookmark browser.
type App struct {
	model   *treemodel.Model
	changes *changeTracker
	keys    KeyMap
	styles  Styles
	layout  layout.LayoutConfig

	copyToClipboard func(string) error
	save            func(*model.Tree) error

	// Navigation state
	folder model.ID // folder being listed, the tree root at top level
	cursor int
	items  []Item

	// Cut and paste
	selection Selection
	clip      []byte // pending move payload

	mode Mode
	edit EditState

	message     string
	messageType MessageType

	// For gg command
	lastKeyWasG bool

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Model        *treemodel.Model
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil

	// Clipboard receives yanked addresses. Defaults to the system clipboard.
	Clipboard func(string) error
	// Save persists the tree on demand. Saving is disabled when nil.
	Save func(*model.Tree) error
}

// changeTracker counts structural and data changes reported by the model.
type changeTracker struct {
	treemodel.NoopObserver
	n int
}

func (c *changeTracker) EndRemoveRows()              { c.n++ }
func (c *changeTracker) EndInsertRows()              { c.n++ }
func (c *changeTracker) DataChanged(treemodel.Index) { c.n++ }

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}

	copyFn := params.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	changes := &changeTracker{}
	params.Model.Subscribe(changes)

	app := App{
		model:           params.Model,
		changes:         changes,
		keys:            keys,
		styles:          styles,
		layout:          layoutCfg,
		copyToClipboard: copyFn,
		save:            params.Save,
		folder:          params.Model.Tree().Root(),
		selection:       NewSelection(),
		edit:            NewEditState(layoutCfg),
		width:           80,
		height:          24,
	}

	app.refreshItems()
	return app
}

// WithDimensions returns a copy of the app sized to width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// CurrentFolder returns the ID of the listed folder.
func (a App) CurrentFolder() model.ID {
	return a.folder
}

// Items returns the rows of the listed folder.
func (a App) Items() []Item {
	return a.items
}

// Mode returns the current input mode.
func (a App) Mode() Mode {
	return a.mode
}

// Message returns the status line text.
func (a App) Message() string {
	return a.message
}

// Dirty reports whether the tree changed since it was loaded or saved.
func (a App) Dirty() bool {
	return a.changes.n > 0
}

// Tree returns the tree being browsed.
func (a App) Tree() *model.Tree {
	return a.model.Tree()
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case ModeEdit:
			return a.handleEditKey(msg)
		case ModeConfirmDelete:
			return a.handleConfirmDeleteKey(msg)
		default:
			return a.handleNormalKey(msg)
		}
	}

	if a.mode == ModeEdit {
		var cmd tea.Cmd
		a.edit.Input, cmd = a.edit.Input.Update(msg)
		return a, cmd
	}
	return a, nil
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}

func (a App) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false
	a.clearMessage()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(a.items) > 0 {
			a.cursor = len(a.items) - 1
		}

	case key.Matches(msg, a.keys.Right):
		if item, ok := a.current(); ok && item.IsFolder() {
			a.folder = item.Index.Node
			a.cursor = 0
			a.refreshItems()
		}

	case key.Matches(msg, a.keys.Left):
		a.leaveFolder()

	case key.Matches(msg, a.keys.Mark):
		if item, ok := a.current(); ok {
			a.selection.Toggle(item.Index.Node)
			if a.cursor < len(a.items)-1 {
				a.cursor++
			}
		}

	case key.Matches(msg, a.keys.Cut):
		a.cut()

	case key.Matches(msg, a.keys.PasteAfter):
		a.paste(a.cursor + 1)

	case key.Matches(msg, a.keys.PasteBefore):
		a.paste(a.cursor)

	case key.Matches(msg, a.keys.MoveDown):
		// Rows are counted before the item is taken out.
		if item, ok := a.current(); ok && a.cursor < len(a.items)-1 {
			if a.model.Move(item.Index.Node, a.folder, a.cursor+2) {
				a.cursor++
				a.refreshItems()
			}
		}

	case key.Matches(msg, a.keys.MoveUp):
		if item, ok := a.current(); ok && a.cursor > 0 {
			if a.model.Move(item.Index.Node, a.folder, a.cursor-1) {
				a.cursor--
				a.refreshItems()
			}
		}

	case key.Matches(msg, a.keys.Delete):
		if _, ok := a.current(); ok {
			a.mode = ModeConfirmDelete
		}

	case key.Matches(msg, a.keys.Edit):
		return a.startFieldEdit(treemodel.ColumnTitle, "Title")

	case key.Matches(msg, a.keys.EditURL):
		if item, ok := a.current(); ok && item.IsFolder() {
			a.setMessage(MessageWarning, "Folders have no address")
			return a, nil
		}
		return a.startFieldEdit(treemodel.ColumnAddress, "Address")

	case key.Matches(msg, a.keys.EditDesc):
		return a.startFieldEdit(treemodel.ColumnDescription, "Description")

	case key.Matches(msg, a.keys.AddBookmark):
		return a.startPrompt(AddBookmark, "Address", "")

	case key.Matches(msg, a.keys.AddFolder):
		return a.startPrompt(AddFolder, "Folder", "")

	case key.Matches(msg, a.keys.YankURL):
		a.yankAddress()

	case key.Matches(msg, a.keys.Save):
		a.saveTree()
	}

	return a, nil
}

func (a App) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
		a.edit.Reset()
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		value := strings.TrimSpace(a.edit.Input.Value())
		if value == "" {
			a.setMessage(MessageError, a.edit.Label+" cannot be empty")
			return a, nil
		}
		a.commitEdit(value)
		a.mode = ModeNormal
		a.edit.Reset()
		a.refreshItems()
		return a, nil
	}

	var cmd tea.Cmd
	a.edit.Input, cmd = a.edit.Input.Update(msg)
	return a, cmd
}

func (a App) handleConfirmDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.mode = ModeNormal
	if !key.Matches(msg, a.keys.Confirm) {
		return a, nil
	}

	item, ok := a.current()
	if !ok {
		return a, nil
	}
	if a.model.RemoveRow(item.Index) {
		a.setMessage(MessageSuccess, fmt.Sprintf("Deleted %q", item.Title))
	} else {
		a.setMessage(MessageError, "Cannot delete "+item.Title)
	}
	a.refreshItems()
	return a, nil
}

func (a App) startFieldEdit(column treemodel.Column, label string) (tea.Model, tea.Cmd) {
	item, ok := a.current()
	if !ok {
		return a, nil
	}

	target := a.model.Index(item.Index.Row, column, a.folderIndex())
	value, _ := a.model.Data(target, treemodel.RoleEdit)

	a, cmd := a.startPrompt(EditField, label, value)
	a.edit.Target = target
	return a, cmd
}

func (a App) startPrompt(purpose EditPurpose, label, value string) (App, tea.Cmd) {
	a.edit.Reset()
	a.edit.Purpose = purpose
	a.edit.Label = label
	a.edit.Input.CharLimit = a.layout.Input.TitleCharLimit
	if label == "Address" {
		a.edit.Input.CharLimit = a.layout.Input.URLCharLimit
	}
	a.edit.Input.Width = max(layout.CalculateModalWidth(a.width, a.layout.Modal)-len(label)-4, 10)
	a.edit.Input.SetValue(value)
	a.edit.Input.CursorEnd()
	a.mode = ModeEdit
	focus := a.edit.Input.Focus()
	return a, tea.Batch(focus, textinput.Blink)
}

// commitEdit applies a confirmed prompt value through the model.
func (a *App) commitEdit(value string) {
	parent := a.folderIndex()
	row := model.End
	if len(a.items) > 0 {
		row = a.cursor + 1
	}

	switch a.edit.Purpose {
	case EditField:
		if !a.model.SetData(a.edit.Target, value, treemodel.RoleEdit) {
			a.setMessage(MessageError, "Cannot change "+strings.ToLower(a.edit.Label))
		}

	case AddBookmark:
		idx, ok := a.model.InsertNode(parent, row, model.NewNodeParams{
			Kind:    model.KindAddress,
			Title:   value,
			Address: value,
		})
		a.afterInsert(idx, ok, "bookmark")

	case AddFolder:
		idx, ok := a.model.InsertNode(parent, row, model.NewNodeParams{
			Kind:  model.KindFolder,
			Title: value,
		})
		a.afterInsert(idx, ok, "folder")
	}
}

func (a *App) afterInsert(idx treemodel.Index, ok bool, what string) {
	if !ok {
		a.setMessage(MessageError, "Cannot add "+what)
		return
	}
	a.cursor = idx.Row
	a.setMessage(MessageSuccess, "Added "+what)
}

// cut records the marked rows, or the row under the cursor, for a later
// paste. Nothing moves until the paste.
func (a *App) cut() {
	var indexes []treemodel.Index
	if a.selection.Len() > 0 {
		for _, id := range a.selection.IDs() {
			if idx, ok := a.model.IndexOf(id); ok {
				indexes = append(indexes, idx)
			}
		}
	} else if item, ok := a.current(); ok {
		indexes = append(indexes, item.Index)
	}
	if len(indexes) == 0 {
		return
	}

	data, err := a.model.MimeData(indexes)
	if err != nil {
		a.setMessage(MessageError, err.Error())
		return
	}
	a.clip = data
	a.selection.Clear()
	a.setMessage(MessageInfo, fmt.Sprintf("Cut %d item(s), paste with p or P", len(indexes)))
}

// paste drops the cut rows into the listed folder at row.
func (a *App) paste(row int) {
	if a.clip == nil {
		a.setMessage(MessageWarning, "Nothing to paste")
		return
	}
	if len(a.items) == 0 {
		row = -1
	}

	parent := a.folderIndex()
	moves, err := a.model.DecodeMoves(a.clip, parent, row)
	if err != nil {
		a.clip = nil
		a.setMessage(MessageError, "Cut items no longer exist")
		return
	}

	if !a.model.DropMimeData(treemodel.MimeType, a.clip, treemodel.MoveAction, row, treemodel.ColumnTitle, parent) {
		a.setMessage(MessageError, "Cannot paste here")
		a.refreshItems()
		return
	}

	a.clip = nil
	a.refreshItems()
	if len(moves) > 0 {
		if r := a.model.Tree().Row(moves[0].Node); r >= 0 {
			a.cursor = r
		}
	}
	a.setMessage(MessageSuccess, fmt.Sprintf("Moved %d item(s)", len(moves)))
}

func (a *App) yankAddress() {
	item, ok := a.current()
	if !ok || item.Address == "" {
		a.setMessage(MessageWarning, "No address to yank")
		return
	}
	if err := a.copyToClipboard(item.Address); err != nil {
		a.setMessage(MessageError, "Clipboard: "+err.Error())
		return
	}
	a.setMessage(MessageSuccess, "Yanked "+item.Address)
}

func (a *App) saveTree() {
	if a.save == nil {
		a.setMessage(MessageWarning, "Saving is not configured")
		return
	}
	if err := a.save(a.model.Tree()); err != nil {
		a.setMessage(MessageError, err.Error())
		return
	}
	a.changes.n = 0
	a.setMessage(MessageSuccess, "Saved")
}

// leaveFolder lists the parent folder with the cursor on the folder just left.
func (a *App) leaveFolder() {
	tree := a.model.Tree()
	if a.folder == tree.Root() {
		return
	}

	n, err := tree.Node(a.folder)
	if err != nil {
		a.folder = tree.Root()
		a.cursor = 0
		a.refreshItems()
		return
	}

	a.cursor = max(tree.Row(a.folder), 0)
	a.folder = n.Parent()
	a.refreshItems()
}

// refreshItems rebuilds the rows of the listed folder and keeps the cursor
// in range. A folder that vanished falls back to the top level.
func (a *App) refreshItems() {
	tree := a.model.Tree()
	if !tree.Contains(a.folder) {
		a.folder = tree.Root()
		a.cursor = 0
	}

	a.items = itemsIn(a.model, a.folderIndex())
	if a.cursor >= len(a.items) {
		a.cursor = len(a.items) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// folderIndex returns the model index of the listed folder.
func (a App) folderIndex() treemodel.Index {
	if a.folder == a.model.Tree().Root() {
		return treemodel.Index{}
	}
	idx, _ := a.model.IndexOf(a.folder)
	return idx
}

func (a App) current() (Item, bool) {
	if a.cursor < 0 || a.cursor >= len(a.items) {
		return Item{}, false
	}
	return a.items[a.cursor], true
}

func (a *App) setMessage(t MessageType, text string) {
	a.messageType = t
	a.message = text
}

func (a *App) clearMessage() {
	a.message = ""
	a.messageType = MessageInfo
}
