package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nikbrunner/xbm/internal/model"
	"github.com/nikbrunner/xbm/internal/xbel"
)

var (
	// ErrUnknownBackend indicates a config naming a backend that does not exist.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrCorrupt indicates stored data that does not form a valid tree.
	ErrCorrupt = errors.New("corrupt bookmark store")
)

// Storage defines the interface for persisting bookmark trees.
type Storage interface {
	Load() (*model.Tree, error)
	Save(tree *model.Tree) error
	Close() error
}

// XBELStorage implements Storage using an XBEL file.
type XBELStorage struct {
	path string
}

// NewXBELStorage creates a new XBELStorage with the given file path.
func NewXBELStorage(path string) *XBELStorage {
	return &XBELStorage{path: path}
}

// Path returns the storage file path.
func (s *XBELStorage) Path() string {
	return s.path
}

// Load reads the tree from the XBEL file.
// Returns an empty tree if the file doesn't exist.
func (s *XBELStorage) Load() (*model.Tree, error) {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("no bookmark file yet, starting empty", "path", s.path)
	}

	tree, err := xbel.ReadFile(s.path)
	if err != nil {
		// A half-read file must not be saved back over the original
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}

	slog.Debug("loaded bookmarks", "path", s.path, "nodes", tree.Len()-1)
	return tree, nil
}

// Save writes the tree to the XBEL file.
// Creates the directory if it doesn't exist.
func (s *XBELStorage) Save(tree *model.Tree) error {
	if tree == nil {
		return fmt.Errorf("save %s: %w", s.path, xbel.ErrWriteFailure)
	}
	if err := xbel.WriteFile(s.path, tree, tree.Root()); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}

	slog.Debug("saved bookmarks", "path", s.path, "nodes", tree.Len()-1)
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *XBELStorage) Close() error {
	return nil
}

// DefaultDataDir returns the directory holding bookmarks and config: ~/.config/xbm
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "xbm"), nil
}

// DefaultXBELPath returns the default bookmark file path: ~/.config/xbm/bookmarks.xbel
func DefaultXBELPath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bookmarks.xbel"), nil
}

// OpenStorage opens the backend selected by cfg.
func OpenStorage(cfg *Config) (Storage, error) {
	switch cfg.Backend {
	case BackendXBEL:
		return NewXBELStorage(cfg.XBELPath), nil
	case BackendSQLite:
		return NewSQLiteStorage(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
