package cli

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/xbm/internal/model"
	"github.com/nikbrunner/xbm/internal/treemodel"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ls [path]",
		Aliases: []string{"list"},
		Short:   "List the tree or a folder",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "/"
			if len(args) == 1 {
				target = args[0]
			}
			return runList(cmd, app, target)
		},
	}
}

func runList(cmd *cobra.Command, app *App, target string) error {
	return withSession(cmd, app, func(s *session) (bool, error) {
		id, err := s.lookup(target)
		if err != nil {
			return false, err
		}
		return false, printTree(cmd.OutOrStdout(), s.tree, id)
	})
}

// printTree writes the subtree at id, two spaces per level. The root
// itself is not printed.
func printTree(w io.Writer, tree *model.Tree, id model.ID) error {
	skip := 0
	if id == tree.Root() {
		skip = 1
	}

	return tree.Walk(id, func(n *model.Node, depth int) error {
		if n.Kind() == model.KindRoot {
			return nil
		}
		indent := strings.Repeat("  ", depth-skip)

		var err error
		switch n.Kind() {
		case model.KindFolder:
			_, err = fmt.Fprintf(w, "%s%s/\n", indent, n.Title)
		default:
			_, err = fmt.Fprintf(w, "%s%s  %s\n", indent, n.Title, n.Address)
		}
		return err
	})
}

func newAddCmd(app *App) *cobra.Command {
	var title, url, desc, folder string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bookmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				title = url
			}

			return withSession(cmd, app, func(s *session) (bool, error) {
				parent, err := s.folderIndex(folder)
				if err != nil {
					return false, err
				}
				if _, ok := s.model.InsertNode(parent, model.End, model.NewNodeParams{
					Kind:        model.KindAddress,
					Title:       title,
					Address:     url,
					Description: desc,
				}); !ok {
					return false, fmt.Errorf("%w: cannot add bookmark to %s", model.ErrInvalidOperation, folder)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", path.Join(folder, title))
				return true, nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Bookmark title (defaults to the URL)")
	cmd.Flags().StringVar(&url, "url", "", "Bookmark address")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().StringVar(&folder, "folder", "/", "Folder path to add into")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newMkdirCmd(app *App) *cobra.Command {
	var desc string

	cmd := &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a folder; its parent must exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, name := splitPath(args[0])
			if name == "" {
				return fmt.Errorf("%w: folder name is required", model.ErrInvalidOperation)
			}

			return withSession(cmd, app, func(s *session) (bool, error) {
				parent, err := s.folderIndex(dir)
				if err != nil {
					return false, err
				}
				if _, ok := s.model.InsertNode(parent, model.End, model.NewNodeParams{
					Kind:        model.KindFolder,
					Title:       name,
					Description: desc,
				}); !ok {
					return false, fmt.Errorf("%w: cannot create %s", model.ErrInvalidOperation, args[0])
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Created %s/\n", path.Join(dir, name))
				return true, nil
			})
		},
	}

	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	var row int

	cmd := &cobra.Command{
		Use:   "mv <src> <dest-folder>",
		Short: "Move an entry into a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) (bool, error) {
				src, err := s.itemIndex(args[0])
				if err != nil {
					return false, err
				}
				dest, err := s.lookup(args[1])
				if err != nil {
					return false, err
				}
				if s.tree.IsAncestor(src.Node, dest) {
					return false, fmt.Errorf("%w: %s into %s", model.ErrCycle, args[0], args[1])
				}
				if !s.model.Move(src.Node, dest, row) {
					return false, fmt.Errorf("%w: cannot move %s into %s", model.ErrInvalidOperation, args[0], args[1])
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", args[0], s.tree.Path(src.Node))
				return true, nil
			})
		},
	}

	cmd.Flags().IntVar(&row, "row", model.End, "Position in the destination before the move (-1 appends)")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <path>",
		Aliases: []string{"remove"},
		Short:   "Delete an entry and everything below it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) (bool, error) {
				idx, err := s.itemIndex(args[0])
				if err != nil {
					return false, err
				}
				if !s.model.RemoveRow(idx) {
					return false, fmt.Errorf("%w: cannot remove %s", model.ErrInvalidOperation, args[0])
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return true, nil
			})
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	var title, url, desc string

	cmd := &cobra.Command{
		Use:   "edit <path>",
		Short: "Change the title, address or description of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := []struct {
				column treemodel.Column
				flag   string
				value  string
			}{
				{treemodel.ColumnTitle, "title", title},
				{treemodel.ColumnAddress, "url", url},
				{treemodel.ColumnDescription, "desc", desc},
			}

			return withSession(cmd, app, func(s *session) (bool, error) {
				idx, err := s.itemIndex(args[0])
				if err != nil {
					return false, err
				}

				deco, _ := s.model.Data(idx, treemodel.RoleDecoration)
				isFolder := treemodel.Decoration(deco) == treemodel.DecorationFolder

				changed := false
				for _, f := range fields {
					if !cmd.Flags().Changed(f.flag) {
						continue
					}
					if isFolder && f.column == treemodel.ColumnAddress {
						return changed, fmt.Errorf("%w: folders have no address", model.ErrInvalidOperation)
					}
					cell := treemodel.Index{Row: idx.Row, Column: f.column, Node: idx.Node}
					if !s.model.SetData(cell, f.value, treemodel.RoleEdit) {
						return changed, fmt.Errorf("%w: --%s cannot be empty", model.ErrInvalidOperation, f.flag)
					}
					changed = true
				}
				if !changed {
					return false, fmt.Errorf("nothing to change, use --title, --url or --desc")
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", s.tree.Path(idx.Node))
				return true, nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&url, "url", "", "New address")
	cmd.Flags().StringVar(&desc, "desc", "", "New description")
	return cmd
}

// splitPath splits "/a/b/c" into "/a/b" and "c".
func splitPath(p string) (dir, name string) {
	p = strings.TrimRight(p, model.PathSeparator)
	i := strings.LastIndex(p, model.PathSeparator)
	if i < 0 {
		return "/", p
	}
	dir = p[:i]
	if dir == "" {
		dir = "/"
	}
	return dir, p[i+1:]
}
