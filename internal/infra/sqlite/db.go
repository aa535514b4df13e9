// Package sqlite provides the persistent document store.
//
// The store is deliberately simple: one table of JSON documents keyed by
// (collection, id). Reads return the raw document; writes are guarded by an
// optimistic-concurrency version counter so a stale writer fails loudly
// instead of silently losing an update.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var (
	// ErrNoDocument is returned when a document does not exist.
	ErrNoDocument = errors.New("document not found")

	// ErrVersionConflict is returned when a put carries a stale version.
	ErrVersionConflict = errors.New("document version conflict")
)

// DB wraps the SQLite connection holding all collections.
type DB struct {
	db *sql.DB
}

// Document is one stored entity: its id, raw JSON payload, and the version
// counter the next put must present.
type Document struct {
	ID      string
	Data    []byte
	Version int64
}

// Open opens (or creates) the store inside dir and applies migrations.
func Open(dir string) (*DB, error) {
	path := filepath.Join(dir, "boostly.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	// The daemon is the single writer; one connection avoids SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	db := &DB{db: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error { return db.db.Close() }

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			data       TEXT NOT NULL,
			version    INTEGER NOT NULL DEFAULT 1,
			updated_at TEXT NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (collection, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection)`,
	}
}

func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ─── Document Operations ────────────────────────────────────────────────────

// GetDoc retrieves one document from a collection.
func (db *DB) GetDoc(collection, id string) (Document, error) {
	var doc Document
	doc.ID = id
	err := db.db.QueryRow(`
		SELECT data, version FROM documents WHERE collection = ? AND id = ?
	`, collection, id).Scan(&doc.Data, &doc.Version)
	if err == sql.ErrNoRows {
		return Document{}, ErrNoDocument
	}
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

// PutDoc writes a document, enforcing optimistic concurrency.
// expectedVersion 0 inserts a new document (and conflicts if one exists);
// any other value must match the stored version exactly.
// Returns the new version on success.
func (db *DB) PutDoc(collection, id string, data []byte, expectedVersion int64) (int64, error) {
	if expectedVersion == 0 {
		_, err := db.db.Exec(`
			INSERT INTO documents (collection, id, data, version)
			VALUES (?, ?, ?, 1)
			ON CONFLICT(collection, id) DO NOTHING
		`, collection, id, data)
		if err != nil {
			return 0, err
		}
		// ON CONFLICT DO NOTHING reports success either way; verify.
		doc, err := db.GetDoc(collection, id)
		if err != nil {
			return 0, err
		}
		if doc.Version != 1 || string(doc.Data) != string(data) {
			return 0, ErrVersionConflict
		}
		return 1, nil
	}

	res, err := db.db.Exec(`
		UPDATE documents
		SET data = ?, version = version + 1, updated_at = datetime('now')
		WHERE collection = ? AND id = ? AND version = ?
	`, data, collection, id, expectedVersion)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		if _, err := db.GetDoc(collection, id); errors.Is(err, ErrNoDocument) {
			return 0, ErrNoDocument
		}
		return 0, ErrVersionConflict
	}
	return expectedVersion + 1, nil
}

// PutDocs writes a batch of documents in a single transaction, each guarded
// by its own version. Any conflict rolls back the whole batch.
func (db *DB) PutDocs(collection string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, doc := range docs {
		res, err := tx.Exec(`
			UPDATE documents
			SET data = ?, version = version + 1, updated_at = datetime('now')
			WHERE collection = ? AND id = ? AND version = ?
		`, doc.Data, collection, doc.ID, doc.Version)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("put %s/%s: %w", collection, doc.ID, ErrVersionConflict)
		}
	}
	return tx.Commit()
}

// DeleteDoc removes a document. Deleting a missing document returns
// ErrNoDocument; callers that want no-op semantics ignore it.
func (db *DB) DeleteDoc(collection, id string) error {
	res, err := db.db.Exec(`
		DELETE FROM documents WHERE collection = ? AND id = ?
	`, collection, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoDocument
	}
	return nil
}

// ListDocs returns every document in a collection, ordered by id for
// deterministic iteration.
func (db *DB) ListDocs(collection string) ([]Document, error) {
	rows, err := db.db.Query(`
		SELECT id, data, version FROM documents WHERE collection = ? ORDER BY id
	`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Data, &doc.Version); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// CountDocs returns the number of documents in a collection.
func (db *DB) CountDocs(collection string) (int64, error) {
	var n int64
	err := db.db.QueryRow(`
		SELECT COUNT(*) FROM documents WHERE collection = ?
	`, collection).Scan(&n)
	return n, err
}
