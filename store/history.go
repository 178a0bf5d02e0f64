package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record is one artifact produced by the CLI or the web colorizer.
type Record struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Level     string `json:"ec_level"`
	Format    string `json:"format"`
	Path      string `json:"path,omitempty"`
	Source    string `json:"source"`
	Reachable *bool  `json:"reachable,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// Sources of a Record.
const (
	SourceCLI = "cli"
	SourceWeb = "web"
)

// HistoryStore keeps an append-only log of generated QR codes in SQLite.
type HistoryStore struct {
	db *sql.DB
}

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS history (
    id TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    ec_level TEXT NOT NULL,
    format TEXT NOT NULL,
    path TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL,
    reachable INTEGER,
    created_at INTEGER NOT NULL
);
`

const createHistoryIndexes = `
CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at);
CREATE INDEX IF NOT EXISTS idx_history_url ON history(url);
`

// NewHistoryStore opens (or creates) the SQLite database at dbPath and
// initialises the schema.
func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range []string{createHistoryTable, createHistoryIndexes} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec schema statement: %w", err)
		}
	}

	return &HistoryStore{db: db}, nil
}

// Save inserts rec. Empty ID and CreatedAt are filled in and the stored
// record is returned.
func (s *HistoryStore) Save(rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}

	const query = `
		INSERT INTO history (id, url, ec_level, format, path, source, reachable, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var reachable sql.NullBool
	if rec.Reachable != nil {
		reachable = sql.NullBool{Bool: *rec.Reachable, Valid: true}
	}

	_, err := s.db.Exec(query,
		rec.ID,
		rec.URL,
		rec.Level,
		rec.Format,
		rec.Path,
		rec.Source,
		reachable,
		rec.CreatedAt,
	)
	if err != nil {
		return rec, fmt.Errorf("save record: %w", err)
	}
	return rec, nil
}

// List returns the most recent records first.
func (s *HistoryStore) List(limit, offset int) ([]Record, error) {
	const query = `
		SELECT id, url, ec_level, format, path, source, reachable, created_at
		FROM history
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var r Record
		var reachable sql.NullBool
		if err := rows.Scan(&r.ID, &r.URL, &r.Level, &r.Format, &r.Path, &r.Source, &reachable, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		if reachable.Valid {
			v := reachable.Bool
			r.Reachable = &v
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record rows: %w", err)
	}
	return recs, nil
}

// Close closes the underlying database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}
