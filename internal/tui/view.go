package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/xbm/internal/tui/layout"
)

// renderView renders the breadcrumb, the folder listing, the status line
// and the hint bar from top to bottom.
func (a App) renderView() string {
	paneWidth := layout.CalculatePaneWidth(a.width, a.layout.Pane)
	paneHeight := layout.CalculatePaneHeight(a.height, a.layout.Pane)

	pane := a.styles.Pane.
		Width(paneWidth).
		Render(a.renderListing(paneWidth, paneHeight))

	return a.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left,
		a.renderBreadcrumb(),
		pane,
		a.renderStatusLine(),
		a.styles.Help.Render(a.renderHints(a.getContextualHints(), a.width-4)),
	))
}

// renderBreadcrumb shows the path of the listed folder, truncated from the
// left when it does not fit.
func (a App) renderBreadcrumb() string {
	path := "xbm"
	if a.folder != a.model.Tree().Root() {
		path = a.model.Tree().Path(a.folder)
	}

	// Terminal width minus app padding and breadcrumb indent
	path, _ = layout.TruncateLeft(path, a.width-5, a.layout.Text)
	return a.styles.Breadcrumb.Render(path)
}

// renderListing renders the rows of the listed folder that fit in height.
func (a App) renderListing(width, height int) string {
	if len(a.items) == 0 {
		return a.styles.Empty.Render(layout.Fit("Empty folder", layout.CalculateItemWidth(width, a.layout.Pane), a.layout.Text))
	}

	offset := layout.CalculateViewportOffset(a.cursor, len(a.items), height)
	end := min(offset+height, len(a.items))

	lines := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		lines = append(lines, a.renderItem(a.items[i], i == a.cursor, width))
	}
	return strings.Join(lines, "\n")
}

// renderItem renders one row as marker, icon, title and address columns.
func (a App) renderItem(item Item, selected bool, paneWidth int) string {
	itemWidth := layout.CalculateItemWidth(paneWidth, a.layout.Pane)
	titleWidth, addressWidth := layout.SplitColumns(itemWidth, a.layout.Pane)

	marker := " "
	if a.selection.IsSelected(item.Index.Node) {
		marker = "*"
	}
	icon := "  "
	if item.IsFolder() {
		icon = "▸ "
	}

	title := layout.Fit(item.Title, max(titleWidth-3, 0), a.layout.Text)
	detail := item.Address
	if item.IsFolder() {
		detail = item.Description
	}
	var address string
	if addressWidth > 0 {
		address = " " + layout.Fit(detail, addressWidth, a.layout.Text)
	}

	if selected {
		return a.styles.ItemSelected.Render(marker + icon + title + address)
	}

	titleStyle := a.styles.Item
	if item.IsFolder() {
		titleStyle = a.styles.Folder
	}
	detailStyle := a.styles.URL
	if item.IsFolder() {
		detailStyle = a.styles.Description
	}
	return a.styles.ItemMarked.Render(marker) + titleStyle.Render(icon+title) + detailStyle.Render(address)
}

// renderStatusLine shows the edit prompt, the delete confirmation or the
// last message, depending on the mode.
func (a App) renderStatusLine() string {
	switch a.mode {
	case ModeEdit:
		return a.styles.Prompt.Render(a.edit.Label+": ") + a.edit.Input.View()

	case ModeConfirmDelete:
		item, ok := a.current()
		if !ok {
			return ""
		}
		kind := "bookmark"
		if item.IsFolder() {
			kind = "folder"
		}
		prompt := "Delete " + kind + " "
		name, _ := layout.TruncateWithPrefixSuffix(item.Title, a.width-4-len(prompt)-1, `"`, `"`, a.layout.Text)
		return a.styles.MessageWarning.Render(prompt + name + "?")
	}

	return a.renderMessageLine()
}

func (a App) renderMessageLine() string {
	if a.message == "" {
		return ""
	}

	switch a.messageType {
	case MessageError:
		return a.styles.MessageError.Render("✗ " + a.message)
	case MessageWarning:
		return a.styles.MessageWarning.Render("⚠ " + a.message)
	case MessageSuccess:
		return a.styles.MessageSuccess.Render("✓ " + a.message)
	default:
		return a.styles.MessageInfo.Render(a.message)
	}
}
