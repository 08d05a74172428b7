package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/xbm/internal/model"
	"github.com/nikbrunner/xbm/internal/storage"
	"github.com/nikbrunner/xbm/internal/treemodel"
)

// ErrNotFolder is returned when a command needs a folder but the path names
// a bookmark.
var ErrNotFolder = errors.New("not a folder")

// session is one load-edit-save cycle over the configured storage.
type session struct {
	store storage.Storage
	tree  *model.Tree
	model *treemodel.Model
}

// openSession loads the tree. With --verbose every structural change is
// logged to stderr.
func openSession(cmd *cobra.Command, app *App) (*session, error) {
	store, err := storage.OpenStorage(app.config)
	if err != nil {
		return nil, err
	}

	tree, err := store.Load()
	if err != nil {
		store.Close()
		return nil, err
	}

	var observers []treemodel.Observer
	if app.verbose {
		observers = append(observers, treemodel.NewLogObserver(cmd.ErrOrStderr()))
	}

	return &session{
		store: store,
		tree:  tree,
		model: treemodel.New(tree, observers...),
	}, nil
}

// withSession runs fn against a fresh session and saves the tree when fn
// reports a change.
func withSession(cmd *cobra.Command, app *App, fn func(s *session) (changed bool, err error)) error {
	s, err := openSession(cmd, app)
	if err != nil {
		return err
	}
	defer s.store.Close()

	changed, err := fn(s)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	slog.Debug("saving bookmarks", "backend", app.config.Backend, "nodes", s.tree.Len())
	return s.store.Save(s.tree)
}

// lookup resolves a title path to a node ID.
func (s *session) lookup(path string) (model.ID, error) {
	return s.tree.Lookup(path)
}

// folderIndex resolves path to the model index of a folder. The root maps
// to the invalid index.
func (s *session) folderIndex(path string) (treemodel.Index, error) {
	id, err := s.lookup(path)
	if err != nil {
		return treemodel.Index{}, err
	}
	if id == s.tree.Root() {
		return treemodel.Index{}, nil
	}

	n, err := s.tree.Node(id)
	if err != nil {
		return treemodel.Index{}, err
	}
	if !n.IsFolder() {
		return treemodel.Index{}, fmt.Errorf("%w: %s", ErrNotFolder, path)
	}
	idx, _ := s.model.IndexOf(id)
	return idx, nil
}

// itemIndex resolves path to the model index of a non-root node.
func (s *session) itemIndex(path string) (treemodel.Index, error) {
	id, err := s.lookup(path)
	if err != nil {
		return treemodel.Index{}, err
	}
	idx, ok := s.model.IndexOf(id)
	if !ok {
		return treemodel.Index{}, fmt.Errorf("%w: %q", model.ErrInvalidOperation, path)
	}
	return idx, nil
}
