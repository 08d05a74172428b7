package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/xbm/internal/exporter"
	"github.com/nikbrunner/xbm/internal/importer"
	"github.com/nikbrunner/xbm/internal/model"
	"github.com/nikbrunner/xbm/internal/xbel"
)

// Export formats.
const (
	FormatXBEL = "xbel"
	FormatHTML = "html"
)

func newImportCmd(app *App) *cobra.Command {
	var into string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge bookmarks from an XBEL or Netscape HTML file",
		Long: `Merge bookmarks from a file into the tree.

Files ending in .xbel or .xml are read as XBEL, anything else as the
Netscape bookmark HTML most browsers export. Folders with the same title
are merged and bookmarks whose address already exists are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readBookmarkFile(args[0])
			if err != nil {
				return err
			}

			return withSession(cmd, app, func(s *session) (bool, error) {
				parent, err := s.lookup(into)
				if err != nil {
					return false, err
				}

				added, skipped, err := s.tree.Merge(src, parent)
				if err != nil {
					return added > 0, err
				}
				slog.Debug("import merged", "file", args[0], "added", added, "skipped", skipped)

				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d bookmarks (%d duplicates skipped)\n", added, skipped)
				return src.RootNode().Len() > 0, nil
			})
		},
	}

	cmd.Flags().StringVar(&into, "into", "/", "Folder path to merge into")
	return cmd
}

// readBookmarkFile picks the reader by file extension.
func readBookmarkFile(path string) (*model.Tree, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xbel", ".xml":
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		return xbel.ReadFile(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return importer.ParseHTMLBookmarks(f)
	}
}

func newExportCmd(app *App) *cobra.Command {
	var format, from string

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Write the tree to an XBEL or Netscape HTML file",
		Long: `Write the tree, or the folder given with --from, to a file.

Without a path the file goes to ~/Downloads/bookmarks-export-<date>.<ext>.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != FormatXBEL && format != FormatHTML {
				return fmt.Errorf("unknown format %q, use %s or %s", format, FormatXBEL, FormatHTML)
			}

			out := ""
			if len(args) == 1 {
				out = args[0]
			} else {
				var err error
				if out, err = exporter.DefaultExportPath(format); err != nil {
					return err
				}
			}

			return withSession(cmd, app, func(s *session) (bool, error) {
				id, err := s.lookup(from)
				if err != nil {
					return false, err
				}
				if err := writeExport(out, format, s.tree, id); err != nil {
					return false, err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
				return false, nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatXBEL, "Output format: xbel or html")
	cmd.Flags().StringVar(&from, "from", "/", "Folder path to export")
	return cmd
}

func writeExport(path, format string, tree *model.Tree, id model.ID) error {
	if format == FormatXBEL {
		return xbel.WriteFile(path, tree, id)
	}

	html, err := exporter.ExportHTML(tree, id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(html), 0644)
}
