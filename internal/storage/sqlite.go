package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/xbm/internal/model"
)

const currentSchemaVersion = 2

// SQLiteStorage implements Storage using a SQLite database. Each node is a
// row; sibling order is kept in the position column.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the schema version recorded in the database.
func (s *SQLiteStorage) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	return version, err
}

func (s *SQLiteStorage) migrate() error {
	version, err := s.SchemaVersion()
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	if version < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	slog.Debug("sqlite schema ready", "path", s.path, "from", version, "to", currentSchemaVersion)
	return nil
}

// migrateV1 creates the node table.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY NOT NULL,
			parent_id TEXT,
			position INTEGER NOT NULL,
			kind TEXT NOT NULL CHECK (kind IN ('folder', 'bookmark')),
			title TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (parent_id) REFERENCES nodes(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_nodes_parent_position ON nodes(parent_id, position);
		CREATE INDEX IF NOT EXISTS idx_nodes_address ON nodes(address) WHERE kind = 'bookmark';

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// migrateV2 adds descriptions.
func (s *SQLiteStorage) migrateV2() error {
	migration := `
		ALTER TABLE nodes ADD COLUMN description TEXT NOT NULL DEFAULT '';
		UPDATE schema_version SET version = 2;
	`
	_, err := s.db.Exec(migration)
	return err
}

type nodeRow struct {
	id          string
	kind        string
	title       string
	address     string
	description string
}

// Load reads the tree from the database. Node IDs survive the round trip.
func (s *SQLiteStorage) Load() (*model.Tree, error) {
	rows, err := s.db.Query(`
		SELECT id, parent_id, kind, title, address, description
		FROM nodes
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	children := make(map[string][]nodeRow)
	count := 0
	for rows.Next() {
		var r nodeRow
		var parentID sql.NullString

		if err := rows.Scan(&r.id, &parentID, &r.kind, &r.title, &r.address, &r.description); err != nil {
			return nil, err
		}

		// Top-level rows hang off the empty key
		children[parentID.String] = append(children[parentID.String], r)
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tree := model.NewTree()
	if err := buildTree(tree, children, "", tree.Root()); err != nil {
		return nil, err
	}
	if got := tree.Len() - 1; got != count {
		return nil, fmt.Errorf("%w: %d of %d rows are unreachable from the root", ErrCorrupt, count-got, count)
	}

	slog.Debug("loaded bookmarks", "path", s.path, "nodes", count)
	return tree, nil
}

func buildTree(tree *model.Tree, children map[string][]nodeRow, key string, parent model.ID) error {
	for _, r := range children[key] {
		kind, err := model.ParseKind(r.kind)
		if err != nil {
			return fmt.Errorf("%w: node %s: %v", ErrCorrupt, r.id, err)
		}

		id, err := tree.NewNode(model.NewNodeParams{
			ID:          model.ID(r.id),
			Kind:        kind,
			Title:       r.title,
			Address:     r.address,
			Description: r.description,
			Parent:      parent,
		})
		if err != nil {
			return fmt.Errorf("%w: node %s: %v", ErrCorrupt, r.id, err)
		}

		if err := buildTree(tree, children, r.id, id); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the tree to the SQLite database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(tree *model.Tree) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM nodes"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO nodes (id, parent_id, position, kind, title, address, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	// Pre-order walk inserts parents before their children
	count := 0
	err = tree.Walk(tree.Root(), func(n *model.Node, depth int) error {
		if n.Kind() == model.KindRoot {
			return nil
		}

		var parentID *string
		if p := n.Parent(); p != tree.Root() {
			v := string(p)
			parentID = &v
		}

		count++
		_, err := stmt.Exec(
			string(n.ID()), parentID, tree.Row(n.ID()),
			n.Kind().String(), n.Title, n.Address, n.Description,
		)
		return err
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Debug("saved bookmarks", "path", s.path, "nodes", count)
	return nil
}

// DefaultSQLitePath returns the default SQLite database path: ~/.config/xbm/bookmarks.db
func DefaultSQLitePath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bookmarks.db"), nil
}
