// Package treemodel exposes a bookmark tree as a row/column item model for
// views: indexed reads, in-place edits, and drag-and-drop moves.
package treemodel

import (
	"github.com/nikbrunner/xbm/internal/model"
)

// Column identifies one of the three fields shown per row.
type Column int

const (
	ColumnTitle Column = iota
	ColumnAddress
	ColumnDescription
)

// ColumnCount is the number of columns of every row.
const ColumnCount = 3

// Role selects what Data returns for an index.
type Role int

const (
	RoleDisplay Role = iota
	RoleEdit
	RoleDecoration
)

// Decoration hints the icon shown next to a title.
type Decoration string

const (
	DecorationFolder Decoration = "folder"
	DecorationPage   Decoration = "text-html"
)

// ItemFlags describe what a view may do with an index.
type ItemFlags int

const (
	FlagSelectable ItemFlags = 1 << iota
	FlagEditable
	FlagDragEnabled
	FlagDropEnabled
	FlagEnabled

	FlagNone ItemFlags = 0
)

// Has reports whether all bits of f are set.
func (fl ItemFlags) Has(f ItemFlags) bool {
	return fl&f == f
}

// DropAction is the kind of drop a view requests.
type DropAction int

const (
	IgnoreAction DropAction = iota
	MoveAction
	CopyAction
)

// Index addresses one cell. The zero Index is invalid; as a parent it
// stands for the root.
type Index struct {
	Row    int
	Column Column
	Node   model.ID
}

// IsValid reports whether the index names a node.
func (i Index) IsValid() bool {
	return i.Node != ""
}

// Model adapts a Tree for views. It is the single mutation gateway for
// UI code and notifies observers around every structural edit.
type Model struct {
	tree      *model.Tree
	observers []Observer
}

// New creates a Model over tree.
func New(tree *model.Tree, observers ...Observer) *Model {
	m := &Model{tree: tree}
	for _, o := range observers {
		m.Subscribe(o)
	}
	return m
}

// Tree returns the underlying tree.
func (m *Model) Tree() *model.Tree {
	return m.tree
}

// Subscribe adds an observer. Nil observers are ignored.
func (m *Model) Subscribe(o Observer) {
	if o != nil {
		m.observers = append(m.observers, o)
	}
}

// HeaderData returns the column header.
func (m *Model) HeaderData(column Column) (string, bool) {
	switch column {
	case ColumnTitle:
		return "Title", true
	case ColumnAddress:
		return "Address", true
	case ColumnDescription:
		return "Description", true
	}
	return "", false
}

// RowCount returns the number of children under parent.
func (m *Model) RowCount(parent Index) int {
	if parent.Column > 0 {
		return 0
	}
	n := m.parentNode(parent)
	if n == nil {
		return 0
	}
	return n.Len()
}

// ColumnCount returns the number of columns under parent.
func (m *Model) ColumnCount(parent Index) int {
	if parent.Column > 0 {
		return 0
	}
	return ColumnCount
}

// Index returns the index of the cell at row/column under parent.
func (m *Model) Index(row int, column Column, parent Index) Index {
	if column < 0 || column >= ColumnCount || parent.Column > 0 {
		return Index{}
	}
	p := m.parentNode(parent)
	if p == nil {
		return Index{}
	}
	id, ok := m.tree.ChildAt(p.ID(), row)
	if !ok {
		return Index{}
	}
	return Index{Row: row, Column: column, Node: id}
}

// Parent returns the index of child's parent. Top-level rows have the
// invalid index as parent.
func (m *Model) Parent(child Index) Index {
	n := m.node(child)
	if n == nil || n.Parent() == "" || n.Parent() == m.tree.Root() {
		return Index{}
	}
	return m.indexFor(n.Parent())
}

// IndexOf returns the column-0 index of id. Root, detached and unknown
// nodes have no index.
func (m *Model) IndexOf(id model.ID) (Index, bool) {
	n, err := m.tree.Node(id)
	if err != nil || n.Parent() == "" {
		return Index{}, false
	}
	return m.indexFor(id), true
}

// Data returns the value of index for role.
func (m *Model) Data(index Index, role Role) (string, bool) {
	n := m.node(index)
	if n == nil {
		return "", false
	}

	switch role {
	case RoleDisplay, RoleEdit:
		switch index.Column {
		case ColumnTitle:
			return n.Title, true
		case ColumnAddress:
			return n.Address, true
		case ColumnDescription:
			return n.Description, true
		}
	case RoleDecoration:
		if index.Column == ColumnTitle {
			return string(decoration(n.Kind())), true
		}
	}
	return "", false
}

// SetData writes value into the field of index. Empty values are rejected
// without touching the node.
func (m *Model) SetData(index Index, value string, role Role) bool {
	n := m.node(index)
	if n == nil || value == "" {
		return false
	}
	if role != RoleEdit && role != RoleDisplay {
		return false
	}

	switch index.Column {
	case ColumnTitle:
		n.Title = value
	case ColumnAddress:
		n.Address = value
	case ColumnDescription:
		n.Description = value
	default:
		return false
	}

	for _, o := range m.observers {
		o.DataChanged(index)
	}
	return true
}

// Flags returns what a view may do with index. Every row is editable and
// can be dragged or dropped onto; folder-only drops are enforced on drop.
func (m *Model) Flags(index Index) ItemFlags {
	if !index.IsValid() {
		return FlagDropEnabled
	}
	if m.node(index) == nil {
		return FlagNone
	}
	return FlagSelectable | FlagEnabled | FlagEditable | FlagDragEnabled | FlagDropEnabled
}

// SupportedDropActions returns the drop actions the model accepts.
func (m *Model) SupportedDropActions() DropAction {
	return MoveAction
}

// Move re-parents node under dest at row, in dest's coordinates before the
// node is taken out. A negative row appends. Only folders and the root
// accept children; other destinations, cycles and unknown nodes are rejected
// without any change or notification.
func (m *Model) Move(node, dest model.ID, row int) bool {
	_, ok := m.move(node, dest, row)
	return ok
}

// InsertNode creates a node under parent at row.
func (m *Model) InsertNode(parent Index, row int, params model.NewNodeParams) (Index, bool) {
	p := m.parentNode(parent)
	if p == nil || !p.Kind().IsContainer() {
		return Index{}, false
	}

	params.Parent = ""
	id, err := m.tree.NewNode(params)
	if err != nil {
		return Index{}, false
	}

	if row < 0 || row > p.Len() {
		row = p.Len()
	}
	m.beginInsertRows(m.indexFor(p.ID()), row, row)
	err = m.tree.Insert(p.ID(), id, row)
	m.endInsertRows()
	if err != nil {
		_ = m.tree.Delete(id)
		return Index{}, false
	}
	return Index{Row: row, Node: id}, true
}

// RemoveRow deletes the node at index together with its subtree.
func (m *Model) RemoveRow(index Index) bool {
	n := m.node(index)
	if n == nil || n.Parent() == "" {
		return false
	}

	row := m.tree.Row(n.ID())
	m.beginRemoveRows(m.indexFor(n.Parent()), row, row)
	err := m.tree.Delete(n.ID())
	m.endRemoveRows()
	return err == nil
}

func (m *Model) move(id, destID model.ID, row int) (int, bool) {
	dest, err := m.tree.Node(destID)
	if err != nil || !dest.Kind().IsContainer() {
		return 0, false
	}
	n, err := m.tree.Node(id)
	if err != nil || n.Kind() == model.KindRoot {
		return 0, false
	}
	if m.tree.IsAncestor(id, destID) {
		return 0, false
	}

	if old := n.Parent(); old != "" {
		oldRow := m.tree.Row(id)
		if old == destID && row >= 0 && oldRow < row {
			row--
		}
		m.beginRemoveRows(m.indexFor(old), oldRow, oldRow)
		err := m.tree.Remove(old, id)
		m.endRemoveRows()
		if err != nil {
			return 0, false
		}
	}

	if row < 0 || row > dest.Len() {
		row = dest.Len()
	}
	m.beginInsertRows(m.indexFor(destID), row, row)
	err = m.tree.Insert(destID, id, row)
	m.endInsertRows()
	return row, err == nil
}

// node resolves a valid index to its live node.
func (m *Model) node(index Index) *model.Node {
	if !index.IsValid() {
		return nil
	}
	n, err := m.tree.Node(index.Node)
	if err != nil {
		return nil
	}
	return n
}

// parentNode resolves an index used as a parent; invalid means root.
func (m *Model) parentNode(parent Index) *model.Node {
	if !parent.IsValid() {
		return m.tree.RootNode()
	}
	return m.node(parent)
}

func (m *Model) indexFor(id model.ID) Index {
	if id == m.tree.Root() {
		return Index{}
	}
	return Index{Row: m.tree.Row(id), Node: id}
}

func (m *Model) beginRemoveRows(parent Index, first, last int) {
	for _, o := range m.observers {
		o.BeginRemoveRows(parent, first, last)
	}
}

func (m *Model) endRemoveRows() {
	for _, o := range m.observers {
		o.EndRemoveRows()
	}
}

func (m *Model) beginInsertRows(parent Index, first, last int) {
	for _, o := range m.observers {
		o.BeginInsertRows(parent, first, last)
	}
}

func (m *Model) endInsertRows() {
	for _, o := range m.observers {
		o.EndInsertRows()
	}
}

func decoration(k model.Kind) Decoration {
	switch k {
	case model.KindFolder:
		return DecorationFolder
	case model.KindRoot, model.KindAddress:
		return DecorationPage
	}
	return DecorationPage
}
