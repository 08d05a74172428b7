package tui

import (
	"github.com/nikbrunner/xbm/internal/treemodel"
)

// Item is one row of the current folder as the model presents it.
type Item struct {
	Index       treemodel.Index
	Title       string
	Address     string
	Description string
	Decoration  treemodel.Decoration
}

// IsFolder reports whether the row can be entered.
func (i Item) IsFolder() bool {
	return i.Decoration == treemodel.DecorationFolder
}

// itemAt reads the row at row under parent through the model.
func itemAt(m *treemodel.Model, parent treemodel.Index, row int) (Item, bool) {
	idx := m.Index(row, treemodel.ColumnTitle, parent)
	if !idx.IsValid() {
		return Item{}, false
	}

	cell := func(col treemodel.Column) string {
		v, _ := m.Data(m.Index(row, col, parent), treemodel.RoleDisplay)
		return v
	}
	deco, _ := m.Data(idx, treemodel.RoleDecoration)

	return Item{
		Index:       idx,
		Title:       cell(treemodel.ColumnTitle),
		Address:     cell(treemodel.ColumnAddress),
		Description: cell(treemodel.ColumnDescription),
		Decoration:  treemodel.Decoration(deco),
	}, true
}

// itemsIn lists every row under parent.
func itemsIn(m *treemodel.Model, parent treemodel.Index) []Item {
	n := m.RowCount(parent)
	items := make([]Item, 0, n)
	for row := range n {
		if it, ok := itemAt(m, parent, row); ok {
			items = append(items, it)
		}
	}
	return items
}
