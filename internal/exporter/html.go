// Package exporter writes bookmark trees in formats other browsers import.
package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/xbm/internal/model"
)

// DefaultExportPath returns the default export file path for the given
// extension. Format: ~/Downloads/bookmarks-export-YYYY-MM-DD.<ext>
func DefaultExportPath(ext string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("bookmarks-export-%s.%s", time.Now().Format("2006-01-02"), ext)
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML exports the subtree at id to Netscape bookmark HTML format.
// Exporting the root writes every top-level entry.
func ExportHTML(tree *model.Tree, id model.ID) (string, error) {
	n, err := tree.Node(id)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	if n.Kind() == model.KindRoot {
		writeItems(&b, tree, n, 1)
	} else {
		writeItem(&b, tree, n, 1)
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String(), nil
}

// writeItems writes the children of parent in tree order.
func writeItems(b *strings.Builder, tree *model.Tree, parent *model.Node, indent int) {
	for _, id := range parent.Children() {
		child, err := tree.Node(id)
		if err != nil {
			continue
		}
		writeItem(b, tree, child, indent)
	}
}

func writeItem(b *strings.Builder, tree *model.Tree, n *model.Node, indent int) {
	prefix := strings.Repeat("    ", indent)

	switch n.Kind() {
	case model.KindFolder:
		fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(n.Title))
		writeDescription(b, prefix, n)
		fmt.Fprintf(b, "%s<DL><p>\n", prefix)
		writeItems(b, tree, n, indent+1)
		fmt.Fprintf(b, "%s</DL><p>\n", prefix)

	case model.KindAddress:
		fmt.Fprintf(b,
			"%s<DT><A HREF=\"%s\">%s</A>\n",
			prefix,
			html.EscapeString(n.Address),
			html.EscapeString(n.Title),
		)
		writeDescription(b, prefix, n)

	case model.KindRoot:
		writeItems(b, tree, n, indent)
	}
}

func writeDescription(b *strings.Builder, prefix string, n *model.Node) {
	if n.Description != "" {
		fmt.Fprintf(b, "%s<DD>%s\n", prefix, html.EscapeString(n.Description))
	}
}
