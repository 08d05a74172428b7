package treemodel

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nikbrunner/xbm/internal/model"
)

// MimeType identifies the drag payload produced by MimeData.
const MimeType = "application/x-xbm-bookmark-nodes"

// ErrBadPayload indicates drag data that is not a node payload.
var ErrBadPayload = errors.New("malformed bookmark payload")

// Move is one re-parent request decoded from a drag payload.
type Move struct {
	Parent model.ID
	Row    int
	Node   model.ID
}

type payload struct {
	Nodes []payloadNode `json:"nodes"`
}

type payloadNode struct {
	Row int    `json:"row"`
	ID  string `json:"id"`
}

// MimeTypes returns the payload types the model produces and accepts.
func (m *Model) MimeTypes() []string {
	return []string{MimeType}
}

// MimeData encodes the selected rows in selection order. Only column-0
// indexes are used, and rows whose ancestor is also selected are left out
// since they travel with that ancestor.
func (m *Model) MimeData(indexes []Index) ([]byte, error) {
	selected := make(map[model.ID]bool)
	for _, idx := range indexes {
		if idx.Column == ColumnTitle && m.node(idx) != nil {
			selected[idx.Node] = true
		}
	}

	p := payload{Nodes: []payloadNode{}}
	seen := make(map[model.ID]bool)
	for _, idx := range indexes {
		n := m.node(idx)
		if idx.Column != ColumnTitle || n == nil || seen[idx.Node] {
			continue
		}
		if m.hasSelectedAncestor(n, selected) {
			continue
		}
		seen[idx.Node] = true
		p.Nodes = append(p.Nodes, payloadNode{Row: m.tree.Row(idx.Node), ID: string(idx.Node)})
	}

	return json.Marshal(p)
}

// DecodeMoves turns a payload into moves targeting row under parent. Every
// node is validated against the tree before any move is returned, so a
// payload naming a deleted node yields model.ErrStaleReference and no moves.
func (m *Model) DecodeMoves(data []byte, parent Index, row int) ([]Move, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(p.Nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes", ErrBadPayload)
	}

	dest := m.parentNode(parent)
	if dest == nil {
		return nil, fmt.Errorf("%w: drop target %s", model.ErrStaleReference, parent.Node)
	}

	moves := make([]Move, 0, len(p.Nodes))
	for _, entry := range p.Nodes {
		id, err := model.ParseID(entry.ID)
		if err != nil {
			return nil, err
		}
		if !m.tree.Contains(id) {
			return nil, fmt.Errorf("%w: %s", model.ErrStaleReference, id)
		}
		moves = append(moves, Move{Parent: dest.ID(), Row: row, Node: id})
	}
	return moves, nil
}

// ApplyMoves performs moves one after another. Consecutive moves aimed at
// the same parent and row are placed right after each other, keeping their
// order. A failed move does not undo earlier ones; the result is false if
// any move failed.
func (m *Model) ApplyMoves(moves []Move) bool {
	ok := true
	var prev *Move
	placed := -1

	for i := range moves {
		mv := moves[i]
		row := mv.Row
		if prev != nil && row >= 0 && placed >= 0 && mv.Parent == prev.Parent && mv.Row == prev.Row {
			row = placed + 1
		}

		at, moved := m.move(mv.Node, mv.Parent, row)
		if moved {
			placed = at
		} else {
			ok = false
		}
		prev = &moves[i]
	}
	return ok
}

// DropMimeData handles a drop of data onto parent at row.
func (m *Model) DropMimeData(mimeType string, data []byte, action DropAction, row int, column Column, parent Index) bool {
	if action == IgnoreAction {
		return true
	}
	if action != MoveAction || mimeType != MimeType || column > 0 {
		return false
	}

	dest := m.parentNode(parent)
	if dest == nil || !dest.Kind().IsContainer() {
		return false
	}

	moves, err := m.DecodeMoves(data, parent, row)
	if err != nil {
		return false
	}
	return m.ApplyMoves(moves)
}

func (m *Model) hasSelectedAncestor(n *model.Node, selected map[model.ID]bool) bool {
	for cur := n.Parent(); cur != ""; {
		if selected[cur] {
			return true
		}
		p, err := m.tree.Node(cur)
		if err != nil {
			return false
		}
		cur = p.Parent()
	}
	return false
}
