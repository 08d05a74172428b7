package model

import "fmt"

// Merge copies the items under src's root into parent.
// Folders are reused when a folder with the same title already exists at the
// same level. Bookmarks whose address already exists anywhere in t are skipped.
// Returns how many bookmarks were added and skipped.
func (t *Tree) Merge(src *Tree, parentID ID) (added, skipped int, err error) {
	parent, err := t.Node(parentID)
	if err != nil {
		return 0, 0, err
	}
	if !parent.kind.IsContainer() {
		return 0, 0, fmt.Errorf("%w: cannot merge into a %s", ErrInvalidOperation, parent.kind)
	}

	known := make(map[string]bool)
	for _, n := range t.nodes {
		if n.kind == KindAddress && n.Address != "" {
			known[n.Address] = true
		}
	}

	m := merger{dst: t, src: src, known: known}
	if err := m.mergeChildren(src.RootNode(), parentID); err != nil {
		return m.added, m.skipped, err
	}
	return m.added, m.skipped, nil
}

type merger struct {
	dst, src *Tree
	known    map[string]bool
	added    int
	skipped  int
}

func (m *merger) mergeChildren(from *Node, into ID) error {
	for _, cid := range from.children {
		c := m.src.nodes[cid]
		switch c.kind {
		case KindFolder:
			target := m.dst.childFolder(into, c.Title)
			if target == "" {
				id, err := m.dst.NewNode(NewNodeParams{
					Kind:        KindFolder,
					Title:       c.Title,
					Description: c.Description,
					Parent:      into,
				})
				if err != nil {
					return err
				}
				target = id
			}
			if err := m.mergeChildren(c, target); err != nil {
				return err
			}

		case KindAddress:
			if c.Address != "" && m.known[c.Address] {
				m.skipped++
				continue
			}
			if _, err := m.dst.NewNode(NewNodeParams{
				Kind:        KindAddress,
				Title:       c.Title,
				Address:     c.Address,
				Description: c.Description,
				Parent:      into,
			}); err != nil {
				return err
			}
			m.known[c.Address] = true
			m.added++
		}
	}
	return nil
}

// childFolder finds a direct folder child of parent by title.
func (t *Tree) childFolder(parentID ID, title string) ID {
	for _, c := range t.nodes[parentID].children {
		if n := t.nodes[c]; n.kind == KindFolder && n.Title == title {
			return c
		}
	}
	return ""
}
