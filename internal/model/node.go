package model

import "fmt"

// Kind is the fixed type of a node.
type Kind int

const (
	KindRoot Kind = iota
	KindFolder
	KindAddress
)

// String returns the element-style name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindFolder:
		return "folder"
	case KindAddress:
		return "bookmark"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "root":
		return KindRoot, nil
	case "folder":
		return KindFolder, nil
	case "bookmark":
		return KindAddress, nil
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidOperation, s)
}

// IsContainer reports whether nodes of this kind may hold children.
func (k Kind) IsContainer() bool {
	switch k {
	case KindRoot, KindFolder:
		return true
	default:
		return false
	}
}

// ID identifies a node within a Tree. IDs are UUIDs and are never reused.
type ID string

// Node is a single entry of the bookmark tree.
// Display fields may be edited freely; structure changes go through Tree.
type Node struct {
	Title       string
	Address     string // Address nodes only
	Description string

	id       ID
	kind     Kind
	parent   ID // empty = detached or root
	children []ID
}

// ID returns the node's handle.
func (n *Node) ID() ID {
	return n.id
}

// Kind returns the node's kind.
func (n *Node) Kind() Kind {
	return n.kind
}

// Parent returns the parent ID, or "" for a root or detached node.
func (n *Node) Parent() ID {
	return n.parent
}

// Children returns a copy of the ordered child IDs.
func (n *Node) Children() []ID {
	out := make([]ID, len(n.children))
	copy(out, n.children)
	return out
}

// Len returns the number of children.
func (n *Node) Len() int {
	return len(n.children)
}

// IsFolder returns true for folder nodes.
func (n *Node) IsFolder() bool {
	return n.kind == KindFolder
}

// NewNodeParams holds parameters for creating a node.
type NewNodeParams struct {
	Kind        Kind
	Title       string
	Address     string
	Description string
	Parent      ID // empty = create detached
	ID          ID // optional, generated when empty
}
