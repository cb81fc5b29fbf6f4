package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/dirsnap/dsnap/trees"

	"github.com/ZanzyTHEbar/assert-lib"
	"github.com/google/uuid"
	_ "github.com/tursodatabase/go-libsql"
)

// ErrSnapshotNotFound is returned when no snapshot matches the requested ID
// or root path.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Provider is the interface for snapshot catalog operations.
type Provider interface {
	Connect(dsn string) (*sql.DB, error)
	Close() error
	InitSchema() error
	// Snapshot methods
	SaveSnapshot(tree *trees.DirectoryTree) (uuid.UUID, error)
	GetSnapshot(id uuid.UUID) (*Snapshot, error)
	GetLatestSnapshot(rootPath string) (*Snapshot, error)
	ListSnapshots() ([]Snapshot, error)
	DeleteSnapshot(id uuid.UUID) (bool, error)
	RestoreSnapshot(id uuid.UUID) (*trees.DirectoryTree, error)
	Backup(dir string) (string, error)
}

var _ Provider = (*CatalogProvider)(nil)

// CatalogProvider records taken snapshots in a local libsql database.
type CatalogProvider struct {
	db            *sql.DB
	path          string
	AssertHandler *assert.AssertHandler
}

// NewCatalogProvider opens or initializes the snapshot catalog at the given path.
func NewCatalogProvider(path string, assertHandler *assert.AssertHandler) (*CatalogProvider, error) {
	// Ensure the catalog directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("could not create catalog directory: %v", err)
	}

	slog.Info("Snapshot catalog path:", "path", path)

	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot catalog: %w", err)
	}

	provider := &CatalogProvider{db: db, path: path, AssertHandler: assertHandler}
	if err := provider.init(); err != nil {
		return nil, err
	}
	return provider, nil
}

// init sets up the catalog tables.
func (c *CatalogProvider) init() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY UNIQUE,
		root_path TEXT NOT NULL,
		taken_at TEXT NOT NULL,
		tree_state BLOB
	)`)
	if err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}

	return nil
}

// Connect implements Provider.Connect
func (c *CatalogProvider) Connect(dsn string) (*sql.DB, error) {
	var err error
	c.db, err = sql.Open("libsql", dsn)
	return c.db, err
}

// InitSchema implements Provider.InitSchema
func (c *CatalogProvider) InitSchema() error {
	return c.init()
}

// Close closes the catalog database connection.
func (c *CatalogProvider) Close() error {
	return c.db.Close()
}

// SaveSnapshot stores the tree state and returns the new snapshot's ID.
func (c *CatalogProvider) SaveSnapshot(tree *trees.DirectoryTree) (uuid.UUID, error) {
	state, err := tree.MarshalJSON()
	if err != nil {
		return uuid.Nil, fmt.Errorf("error marshalling directory tree: %w", err)
	}

	snapshot := Snapshot{
		ID:        uuid.New(),
		RootPath:  tree.RootPath,
		TakenAt:   tree.TakenAt,
		TreeState: state,
	}

	_, err = c.db.Exec("INSERT INTO snapshots (id, root_path, taken_at, tree_state) VALUES (?, ?, ?, ?)",
		snapshot.ID.String(), snapshot.RootPath, snapshot.TakenAt.UTC().Format(time.RFC3339), snapshot.TreeState)
	if err != nil {
		return uuid.Nil, fmt.Errorf("error inserting snapshot into catalog: %w", err)
	}

	slog.Debug("Snapshot saved", "id", snapshot.ID, "root", snapshot.RootPath)
	return snapshot.ID, nil
}

// GetSnapshot retrieves a specific snapshot by ID.
func (c *CatalogProvider) GetSnapshot(id uuid.UUID) (*Snapshot, error) {
	row := c.db.QueryRow("SELECT id, root_path, taken_at, tree_state FROM snapshots WHERE id = ?", id.String())

	var snapshot Snapshot
	var idStr string
	var takenAt string

	err := row.Scan(&idStr, &snapshot.RootPath, &takenAt, &snapshot.TreeState)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	snapshot.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot ID: %w", err)
	}

	snapshot.TakenAt, err = time.Parse(time.RFC3339, takenAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot timestamp: %w", err)
	}

	return &snapshot, nil
}

// GetLatestSnapshot retrieves the most recent snapshot, optionally narrowed
// to one root path. An empty rootPath matches any root.
func (c *CatalogProvider) GetLatestSnapshot(rootPath string) (*Snapshot, error) {
	query := "SELECT id, root_path, taken_at, tree_state FROM snapshots ORDER BY taken_at DESC LIMIT 1"
	args := []any{}
	if rootPath != "" {
		query = "SELECT id, root_path, taken_at, tree_state FROM snapshots WHERE root_path = ? ORDER BY taken_at DESC LIMIT 1"
		args = append(args, rootPath)
	}

	row := c.db.QueryRow(query, args...)

	var snapshot Snapshot
	var idStr string
	var takenAt string

	err := row.Scan(&idStr, &snapshot.RootPath, &takenAt, &snapshot.TreeState)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	snapshot.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot ID: %w", err)
	}

	snapshot.TakenAt, err = time.Parse(time.RFC3339, takenAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot timestamp: %w", err)
	}

	return &snapshot, nil
}

// ListSnapshots retrieves all snapshots, newest first.
func (c *CatalogProvider) ListSnapshots() ([]Snapshot, error) {
	rows, err := c.db.Query("SELECT id, root_path, taken_at, tree_state FROM snapshots ORDER BY taken_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var snapshot Snapshot
		var idStr string
		var takenAt string

		if err := rows.Scan(&idStr, &snapshot.RootPath, &takenAt, &snapshot.TreeState); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		snapshot.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse snapshot ID: %w", err)
		}

		snapshot.TakenAt, err = time.Parse(time.RFC3339, takenAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse snapshot timestamp: %w", err)
		}

		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during snapshot iteration: %w", err)
	}

	return snapshots, nil
}

// DeleteSnapshot removes a snapshot by ID. It reports whether a row was
// actually deleted.
func (c *CatalogProvider) DeleteSnapshot(id uuid.UUID) (bool, error) {
	result, err := c.db.Exec("DELETE FROM snapshots WHERE id = ?", id.String())
	if err != nil {
		return false, fmt.Errorf("failed to delete snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deletion result: %w", err)
	}

	return affected > 0, nil
}

// RestoreSnapshot rebuilds a DirectoryTree from a catalogued snapshot.
func (c *CatalogProvider) RestoreSnapshot(id uuid.UUID) (*trees.DirectoryTree, error) {
	snapshot, err := c.GetSnapshot(id)
	if err != nil {
		return nil, fmt.Errorf("error getting snapshot: %w", err)
	}

	tree := &trees.DirectoryTree{}
	if err := tree.UnmarshalJSON(snapshot.TreeState); err != nil {
		return nil, fmt.Errorf("error unmarshalling directory tree: %w", err)
	}

	// The envelope carries only the tree itself; provenance comes from the
	// catalog columns.
	tree.RootPath = snapshot.RootPath
	tree.TakenAt = snapshot.TakenAt
	return tree, nil
}

// Backup creates a backup of the catalog database under dir, or under a
// backups directory beside the catalog file when dir is empty. It returns
// the path to the backup file.
func (c *CatalogProvider) Backup(dir string) (string, error) {
	if c.db == nil {
		return "", fmt.Errorf("cannot backup: database connection is nil")
	}

	if dir == "" {
		dir = filepath.Join(filepath.Dir(c.path), "backups")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create backup directory: %v", err)
	}

	// Generate unique backup filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	backupPath := filepath.Join(dir, fmt.Sprintf("catalog_backup_%s.db", timestamp))

	// VACUUM INTO copies the database without locking writers out
	_, err := c.db.Exec(fmt.Sprintf("VACUUM INTO '%s'", backupPath))
	if err != nil {
		return "", fmt.Errorf("backup failed: %v", err)
	}

	slog.Info("Catalog backup created successfully", "path", backupPath)
	return backupPath, nil
}
