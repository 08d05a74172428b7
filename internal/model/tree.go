package model

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// End appends when passed as an insert index.
const End = -1

// Tree owns every node of one bookmark collection.
// Nodes reference each other by ID only, so a removed or deleted node can
// never be reached through a stale pointer.
type Tree struct {
	nodes map[ID]*Node
	root  ID
}

// NewTree creates a Tree holding a single empty root.
func NewTree() *Tree {
	root := &Node{id: newID(), kind: KindRoot}
	return &Tree{
		nodes: map[ID]*Node{root.id: root},
		root:  root.id,
	}
}

// Root returns the root ID.
func (t *Tree) Root() ID {
	return t.root
}

// RootNode returns the root node.
func (t *Tree) RootNode() *Node {
	return t.nodes[t.root]
}

// Len returns the number of live nodes, including the root and detached nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Contains reports whether id names a live node.
func (t *Tree) Contains(id ID) bool {
	_, ok := t.nodes[id]
	return ok
}

// Node returns the node for id.
func (t *Tree) Node(id ID) (*Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStaleReference, id)
	}
	return n, nil
}

// NewNode creates a folder or bookmark. When params.Parent is set the node is
// appended to it, otherwise it stays detached until inserted.
func (t *Tree) NewNode(params NewNodeParams) (ID, error) {
	switch params.Kind {
	case KindFolder, KindAddress:
	case KindRoot:
		return "", fmt.Errorf("%w: a tree has exactly one root", ErrInvalidOperation)
	default:
		return "", fmt.Errorf("%w: unknown kind %d", ErrInvalidOperation, params.Kind)
	}

	id := params.ID
	if id == "" {
		id = newID()
	} else {
		if _, err := uuid.Parse(string(id)); err != nil {
			return "", fmt.Errorf("%w: malformed id %q", ErrInvalidOperation, id)
		}
		if t.Contains(id) {
			return "", fmt.Errorf("%w: duplicate id %s", ErrInvalidOperation, id)
		}
	}

	if params.Parent != "" {
		if _, err := t.Node(params.Parent); err != nil {
			return "", err
		}
	}

	t.nodes[id] = &Node{
		Title:       params.Title,
		Address:     params.Address,
		Description: params.Description,
		id:          id,
		kind:        params.Kind,
	}

	if params.Parent != "" {
		if err := t.Insert(params.Parent, id, End); err != nil {
			delete(t.nodes, id)
			return "", err
		}
	}
	return id, nil
}

// Insert makes child a child of parent at index. A child that already has a
// parent is detached from it first. A negative index appends; an index past
// the end is clamped.
func (t *Tree) Insert(parentID, childID ID, index int) error {
	parent, err := t.Node(parentID)
	if err != nil {
		return err
	}
	child, err := t.Node(childID)
	if err != nil {
		return err
	}
	if child.kind == KindRoot {
		return fmt.Errorf("%w: root cannot be a child", ErrInvalidOperation)
	}
	if t.IsAncestor(childID, parentID) {
		return ErrCycle
	}

	if child.parent != "" {
		old := t.nodes[child.parent]
		old.children = deleteID(old.children, childID)
		child.parent = ""
	}

	if index < 0 || index > len(parent.children) {
		index = len(parent.children)
	}
	parent.children = slices.Insert(parent.children, index, childID)
	child.parent = parentID
	return nil
}

// Remove detaches child from parent. The child stays alive in the tree until
// it is deleted or inserted elsewhere.
func (t *Tree) Remove(parentID, childID ID) error {
	parent, err := t.Node(parentID)
	if err != nil {
		return err
	}
	child, err := t.Node(childID)
	if err != nil {
		return err
	}
	if child.parent != parentID {
		return fmt.Errorf("%w: %s is not a child of %s", ErrInvalidOperation, childID, parentID)
	}

	parent.children = deleteID(parent.children, childID)
	child.parent = ""
	return nil
}

// Delete detaches the node and drops it and all its descendants.
func (t *Tree) Delete(id ID) error {
	n, err := t.Node(id)
	if err != nil {
		return err
	}
	if n.kind == KindRoot {
		return fmt.Errorf("%w: root cannot be deleted", ErrInvalidOperation)
	}
	if n.parent != "" {
		if err := t.Remove(n.parent, id); err != nil {
			return err
		}
	}

	stack := []ID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, t.nodes[cur].children...)
		delete(t.nodes, cur)
	}
	return nil
}

// ChildAt returns the child of parent at row.
func (t *Tree) ChildAt(parentID ID, row int) (ID, bool) {
	parent, ok := t.nodes[parentID]
	if !ok || row < 0 || row >= len(parent.children) {
		return "", false
	}
	return parent.children[row], true
}

// IndexOf returns the position of child under parent, or -1.
func (t *Tree) IndexOf(parentID, childID ID) int {
	parent, ok := t.nodes[parentID]
	if !ok {
		return -1
	}
	return slices.Index(parent.children, childID)
}

// Row returns the node's position within its parent, or -1 for root,
// detached or unknown nodes.
func (t *Tree) Row(id ID) int {
	n, ok := t.nodes[id]
	if !ok || n.parent == "" {
		return -1
	}
	return t.IndexOf(n.parent, id)
}

// IsAncestor reports whether ancestor is id itself or lies on id's parent chain.
func (t *Tree) IsAncestor(ancestor, id ID) bool {
	for cur := id; cur != ""; {
		if cur == ancestor {
			return true
		}
		n, ok := t.nodes[cur]
		if !ok {
			return false
		}
		cur = n.parent
	}
	return false
}

// Walk visits id and its descendants in document order. depth is 0 for id.
// Returning an error from fn stops the walk.
func (t *Tree) Walk(id ID, fn func(n *Node, depth int) error) error {
	n, err := t.Node(id)
	if err != nil {
		return err
	}
	return t.walk(n, 0, fn)
}

func (t *Tree) walk(n *Node, depth int, fn func(*Node, int) error) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := t.walk(t.nodes[c], depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks parent/child bookkeeping and acyclicity across the tree.
func (t *Tree) Validate() error {
	root, ok := t.nodes[t.root]
	if !ok || root.kind != KindRoot {
		return fmt.Errorf("%w: missing root", ErrInvalidOperation)
	}
	if root.parent != "" {
		return fmt.Errorf("%w: root has a parent", ErrInvalidOperation)
	}

	for id, n := range t.nodes {
		if n.id != id {
			return fmt.Errorf("%w: node %s stored under %s", ErrInvalidOperation, n.id, id)
		}
		if n.kind == KindRoot && id != t.root {
			return fmt.Errorf("%w: second root %s", ErrInvalidOperation, id)
		}
		if n.parent != "" {
			p, ok := t.nodes[n.parent]
			if !ok {
				return fmt.Errorf("%w: %s has dangling parent %s", ErrStaleReference, id, n.parent)
			}
			count := 0
			for _, c := range p.children {
				if c == id {
					count++
				}
			}
			if count != 1 {
				return fmt.Errorf("%w: %s listed %d times under its parent", ErrInvalidOperation, id, count)
			}
		}
		for _, c := range n.children {
			child, ok := t.nodes[c]
			if !ok {
				return fmt.Errorf("%w: %s has dangling child %s", ErrStaleReference, id, c)
			}
			if child.parent != id {
				return fmt.Errorf("%w: child %s does not point back at %s", ErrInvalidOperation, c, id)
			}
		}

		steps := 0
		for cur := n.parent; cur != ""; steps++ {
			if cur == id || steps > len(t.nodes) {
				return fmt.Errorf("%w: %s", ErrCycle, id)
			}
			p, ok := t.nodes[cur]
			if !ok {
				break
			}
			cur = p.parent
		}
	}
	return nil
}

func deleteID(ids []ID, id ID) []ID {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}
