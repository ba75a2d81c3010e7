package record

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS shapes (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    app        INTEGER NOT NULL,
    record_key TEXT    NOT NULL,
    shape_type TEXT    NOT NULL,
    length     TEXT    NOT NULL DEFAULT '',
    width      TEXT    NOT NULL DEFAULT '',
    depth      TEXT    NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS shapes_app ON shapes(app, id);
`

// Store keeps shape records in SQLite, grouped by app ID.
type Store struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dbPath and applies the schema.
// ":memory:" opens a private in-memory database.
func OpenSQLite(dbPath string) (*Store, error) {
	dsn := "file::memory:"
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("record: mkdir db dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("record: open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("record: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores rec under app and returns its row ID. An empty Key is replaced by a new UUID.
func (s *Store) Insert(ctx context.Context, app int, rec ShapeRecord) (int64, ShapeRecord, error) {
	if rec.Key == "" {
		rec.Key = uuid.NewString()
	}
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO shapes (app, record_key, shape_type, length, width, depth)
        VALUES (?, ?, ?, ?, ?, ?)
    `, app, rec.Key, rec.ShapeType, rec.Length, rec.Width, rec.Depth)
	if err != nil {
		return 0, rec, fmt.Errorf("record: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, rec, fmt.Errorf("record: insert: %w", err)
	}
	return id, rec, nil
}

// Row is a stored record with its row ID.
type Row struct {
	ID     int64
	Record ShapeRecord
}

// List returns up to limit records of app ordered by ID, skipping offset. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, app, limit, offset int) ([]Row, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, record_key, shape_type, length, width, depth
        FROM shapes
        WHERE app = ?
        ORDER BY id
        LIMIT ? OFFSET ?
    `, app, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("record: list: %w", err)
	}
	defer rows.Close()
	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Record.Key, &r.Record.ShapeType, &r.Record.Length, &r.Record.Width, &r.Record.Depth); err != nil {
			return nil, fmt.Errorf("record: list: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("record: list: %w", err)
	}
	return out, nil
}

// Count returns the number of records stored for app.
func (s *Store) Count(ctx context.Context, app int) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shapes WHERE app = ?`, app).Scan(&n); err != nil {
		return 0, fmt.Errorf("record: count: %w", err)
	}
	return n, nil
}

// Source returns a Source reading every record of app from the store.
func (s *Store) Source(app int) Source {
	return Func(func(ctx context.Context) ([]ShapeRecord, error) {
		rows, err := s.List(ctx, app, 0, 0)
		if err != nil {
			return nil, err
		}
		out := make([]ShapeRecord, len(rows))
		for i, r := range rows {
			out[i] = r.Record
		}
		return out, nil
	})
}
