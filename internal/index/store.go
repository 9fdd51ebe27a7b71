package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	_ "modernc.org/sqlite"
)

// ErrIndexLocked indicates another process holds the single-writer lock.
var ErrIndexLocked = errors.New("index: locked for write by another process")

// ErrUnknownID indicates get() was called with an id not present in the index.
var ErrUnknownID = errors.New("index: unknown chunk id")

// SchemaVersion is bumped whenever the stored column set changes shape.
const SchemaVersion = 1

// Store is the single-writer, many-readers handle onto the on-disk index.
// Writes go through db under writeMu; readers call Snapshot to obtain an
// immutable view that continues to reflect state as of its own construction
// even across a later commit.
type Store struct {
	db      *sql.DB
	writeMu sync.Mutex

	snapshot atomic.Pointer[Snapshot]
}

// Open opens or creates the index database at dbPath, then builds the
// initial in-memory snapshot from whatever chunks are already stored.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("index: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("index: open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.rebuildSnapshot(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenWithRebuild opens dbPath, discarding and recreating it first if the
// stored config hash does not match configHash (the digest described in
// §4.6: schema version, stemmer language, fuzzy distance, size thresholds,
// tree globs). Returns whether a rebuild occurred.
func OpenWithRebuild(dbPath, configHash string) (*Store, bool, error) {
	lock, err := acquireLock(dbPath + ".lock")
	if err != nil {
		return nil, false, err
	}
	defer lock.release()

	rebuilt := false
	if _, err := os.Stat(dbPath); err == nil {
		existing, err := readStoredConfigHash(dbPath)
		if err != nil || existing != configHash {
			if err := removeDatabaseFiles(dbPath); err != nil {
				return nil, false, err
			}
			rebuilt = true
		}
	}

	s, err := Open(dbPath)
	if err != nil {
		return nil, false, err
	}
	if err := s.setConfigHash(configHash); err != nil {
		s.Close()
		return nil, false, err
	}
	return s, rebuilt, nil
}

func readStoredConfigHash(dbPath string) (string, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var hash string
	err = db.QueryRow(`SELECT value FROM meta WHERE key = 'config_hash'`).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return hash, err
}

func removeDatabaseFiles(dbPath string) error {
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("index: remove %s: %w", p, err)
		}
	}
	return nil
}

func (s *Store) setConfigHash(hash string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('config_hash', ?)`, hash)
	return err
}

func (s *Store) initSchema() error {
	const schema = `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA foreign_keys = ON;

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS chunks (
			id              TEXT PRIMARY KEY,
			doc_id          TEXT NOT NULL,
			tree            TEXT NOT NULL,
			path            TEXT NOT NULL,
			parent_id       TEXT,
			depth           INTEGER NOT NULL,
			position        INTEGER NOT NULL,
			title           TEXT NOT NULL,
			tags            TEXT NOT NULL DEFAULT '[]',
			breadcrumb      TEXT NOT NULL DEFAULT '',
			body            TEXT NOT NULL DEFAULT '',
			sibling_count   INTEGER NOT NULL DEFAULT 1,
			mtime           INTEGER NOT NULL DEFAULT 0,
			local           INTEGER NOT NULL DEFAULT 1
		);

		CREATE INDEX IF NOT EXISTS idx_chunks_doc ON chunks(doc_id);
		CREATE INDEX IF NOT EXISTS idx_chunks_tree ON chunks(tree);
		CREATE INDEX IF NOT EXISTS idx_chunks_parent ON chunks(parent_id);

		CREATE TABLE IF NOT EXISTS manifest (
			doc_id       TEXT PRIMARY KEY,
			tree         TEXT NOT NULL,
			path         TEXT NOT NULL,
			mtime        INTEGER NOT NULL,
			content_hash TEXT NOT NULL
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("index: init schema: %w", err)
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, fmt.Sprintf("%d", SchemaVersion))
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddChunks atomically replaces all chunks belonging to docID.
func (s *Store) AddChunks(docID string, chunks []Chunk) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM chunks WHERE doc_id = ?`, docID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO chunks (id, doc_id, tree, path, parent_id, depth, position, title, tags, breadcrumb, body, sibling_count, mtime, local)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range chunks {
		tagsJSON, err := json.Marshal(c.Tags)
		if err != nil {
			return err
		}
		localInt := 0
		if c.Local {
			localInt = 1
		}
		if _, err := stmt.Exec(c.ID, c.DocID, c.Tree, c.Path, nullableString(c.ParentID), c.Depth, c.Position,
			c.Title, string(tagsJSON), c.Breadcrumb, c.Body, c.SiblingCount, c.MTime, localInt); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return s.rebuildSnapshot()
}

// RemoveDoc removes all chunks belonging to docID.
func (s *Store) RemoveDoc(docID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM chunks WHERE doc_id = ?`, docID); err != nil {
		return err
	}
	return s.rebuildSnapshot()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Snapshot returns the current immutable reader snapshot. Safe for
// concurrent use; the returned value is never mutated in place.
func (s *Store) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// rebuildSnapshot loads every chunk row and constructs a new immutable
// in-memory index, then atomically swaps it in. This is the commit step of
// the single-writer/many-readers model (§5): readers holding the old
// pointer keep observing pre-commit state.
func (s *Store) rebuildSnapshot() error {
	rows, err := s.db.Query(`
		SELECT id, doc_id, tree, path, parent_id, depth, position, title, tags, breadcrumb, body, sibling_count, mtime, local
		FROM chunks
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var c Chunk
		var parentID sql.NullString
		var tagsJSON string
		var localInt int
		if err := rows.Scan(&c.ID, &c.DocID, &c.Tree, &c.Path, &parentID, &c.Depth, &c.Position,
			&c.Title, &tagsJSON, &c.Breadcrumb, &c.Body, &c.SiblingCount, &c.MTime, &localInt); err != nil {
			return err
		}
		c.ParentID = parentID.String
		c.Local = localInt != 0
		_ = json.Unmarshal([]byte(tagsJSON), &c.Tags)
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.snapshot.Store(BuildSnapshot(chunks))
	return nil
}
