package xbel

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nikbrunner/xbm/internal/model"
)

const indentUnit = "    "

// Write serializes the subtree at id to w. For the root every top-level
// child becomes an item of the document; any other node is written alone.
func Write(w io.Writer, tree *model.Tree, id model.ID) error {
	doc, err := Marshal(tree, id)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, doc); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return nil
}

// WriteFile writes the subtree at id to path, creating parent directories
// as needed. Nothing touches the filesystem when id is not in tree.
func WriteFile(path string, tree *model.Tree, id model.ID) error {
	doc, err := Marshal(tree, id)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return nil
}

// Marshal renders the subtree at id as an XBEL document.
func Marshal(tree *model.Tree, id model.ID) (string, error) {
	if tree == nil {
		return "", fmt.Errorf("%w: no tree", ErrWriteFailure)
	}
	n, err := tree.Node(id)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<!DOCTYPE xbel>\n")
	b.WriteString("<xbel version=\"1.0\">\n")

	switch n.Kind() {
	case model.KindRoot:
		for _, c := range n.Children() {
			writeItem(&b, tree, c, 1)
		}
	case model.KindFolder, model.KindAddress:
		writeItem(&b, tree, id, 1)
	}

	b.WriteString("</xbel>\n")
	return b.String(), nil
}

func writeItem(b *strings.Builder, tree *model.Tree, id model.ID, depth int) {
	n, err := tree.Node(id)
	if err != nil {
		return
	}
	prefix := strings.Repeat(indentUnit, depth)

	switch n.Kind() {
	case model.KindFolder:
		fmt.Fprintf(b, "%s<folder>\n", prefix)
		writeText(b, prefix+indentUnit, "title", n.Title)
		if n.Description != "" {
			writeText(b, prefix+indentUnit, "desc", n.Description)
		}
		for _, c := range n.Children() {
			writeItem(b, tree, c, depth+1)
		}
		fmt.Fprintf(b, "%s</folder>\n", prefix)

	case model.KindAddress:
		if n.Address != "" {
			fmt.Fprintf(b, "%s<bookmark href=\"%s\">\n", prefix, escape(n.Address))
		} else {
			fmt.Fprintf(b, "%s<bookmark>\n", prefix)
		}
		writeText(b, prefix+indentUnit, "title", n.Title)
		if n.Description != "" {
			writeText(b, prefix+indentUnit, "desc", n.Description)
		}
		fmt.Fprintf(b, "%s</bookmark>\n", prefix)

	case model.KindRoot:
		// The root only appears as the document itself.
	}
}

func writeText(b *strings.Builder, prefix, name, value string) {
	fmt.Fprintf(b, "%s<%s>%s</%s>\n", prefix, name, escape(value), name)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
