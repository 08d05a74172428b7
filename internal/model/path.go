package model

import (
	"fmt"
	"strings"
)

// PathSeparator separates folder titles in a path.
const PathSeparator = "/"

// Path returns the slash-separated title path of id, starting at the root.
// The root itself is "/".
func (t *Tree) Path(id ID) string {
	var parts []string
	for cur := id; cur != "" && cur != t.root; {
		n, ok := t.nodes[cur]
		if !ok {
			break
		}
		parts = append(parts, n.Title)
		cur = n.parent
	}

	// Reverse to go root -> leaf
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return PathSeparator + strings.Join(parts, PathSeparator)
}

// Lookup resolves a title path such as "/Development/Go". Empty segments are
// ignored, so "" and "/" name the root. When siblings share a title the first
// one wins.
func (t *Tree) Lookup(path string) (ID, error) {
	cur := t.root
	for _, part := range strings.Split(path, PathSeparator) {
		if part == "" {
			continue
		}
		next := ID("")
		for _, c := range t.nodes[cur].children {
			if t.nodes[c].Title == part {
				next = c
				break
			}
		}
		if next == "" {
			return "", fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		cur = next
	}
	return cur, nil
}
