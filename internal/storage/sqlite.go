// Package storage provides SQLite-based persistence for terrain snapshots
// and sculpting session history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-terrain/internal/meshcodec"
	"github.com/vovakirdan/tui-terrain/internal/terrain"
)

// ErrSnapshotNotFound is returned when a snapshot ID does not exist.
var ErrSnapshotNotFound = errors.New("storage: snapshot not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SnapshotEntry is the metadata of a stored snapshot, without its payload.
type SnapshotEntry struct {
	ID          int64
	Name        string
	Dimension   float64
	Resolution  float64
	ChunkCount  int
	VertexCount int
	Size        int // Compressed payload size in bytes
	CreatedAt   time.Time
}

// SessionRecord summarizes one finished sculpting session.
type SessionRecord struct {
	ID            int64
	SessionID     string
	Origin        string // "local" or "ssh"
	User          string
	Deformations  int
	ChunksCreated int
	FinalChunks   int
	Duration      int   // Duration in seconds
	SnapshotID    int64 // 0 if the session was not saved
	CreatedAt     time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			dimension REAL NOT NULL,
			resolution REAL NOT NULL,
			chunk_count INTEGER NOT NULL,
			vertex_count INTEGER NOT NULL,
			payload BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at DESC);

		CREATE TABLE IF NOT EXISTS sculpt_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			origin TEXT NOT NULL,
			user_name TEXT,
			deformations INTEGER NOT NULL DEFAULT 0,
			chunks_created INTEGER NOT NULL DEFAULT 0,
			final_chunks INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			snapshot_id INTEGER REFERENCES snapshots(id) ON DELETE SET NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sculpt_sessions_origin ON sculpt_sessions(origin);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSnapshot encodes and stores a terrain snapshot.
// Returns the ID of the inserted record.
func (s *Store) SaveSnapshot(name string, snap terrain.Snapshot) (int64, error) {
	payload, err := meshcodec.Encode(snap)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode snapshot: %w", err)
	}

	vertices := 0
	for _, c := range snap.Chunks {
		vertices += len(c.Heights)
	}

	result, err := s.db.Exec(
		`INSERT INTO snapshots (name, dimension, resolution, chunk_count, vertex_count, payload)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		name, snap.Dimension, snap.Resolution, len(snap.Chunks), vertices, payload,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// LoadSnapshot retrieves and decodes a snapshot by ID.
func (s *Store) LoadSnapshot(id int64) (SnapshotEntry, terrain.Snapshot, error) {
	var e SnapshotEntry
	var payload []byte
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, name, dimension, resolution, chunk_count, vertex_count, payload, created_at
		 FROM snapshots WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Name, &e.Dimension, &e.Resolution, &e.ChunkCount, &e.VertexCount, &payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SnapshotEntry{}, terrain.Snapshot{}, fmt.Errorf("%w: id %d", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return SnapshotEntry{}, terrain.Snapshot{}, fmt.Errorf("storage: cannot query snapshot: %w", err)
	}
	e.Size = len(payload)
	e.CreatedAt = parseTime(createdAt)

	snap, err := meshcodec.Decode(payload)
	if err != nil {
		return SnapshotEntry{}, terrain.Snapshot{}, fmt.Errorf("storage: snapshot %d: %w", id, err)
	}

	return e, snap, nil
}

// ListSnapshots returns snapshot metadata, newest first.
func (s *Store) ListSnapshots(limit int) ([]SnapshotEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, name, dimension, resolution, chunk_count, vertex_count, length(payload), created_at
		 FROM snapshots
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query snapshots: %w", err)
	}
	defer rows.Close()

	var entries []SnapshotEntry
	for rows.Next() {
		var e SnapshotEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Name, &e.Dimension, &e.Resolution, &e.ChunkCount, &e.VertexCount, &e.Size, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// CountSnapshots returns the number of stored snapshots.
func (s *Store) CountSnapshots() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count snapshots: %w", err)
	}
	return n, nil
}

// DeleteSnapshot removes a snapshot.
func (s *Store) DeleteSnapshot(id int64) error {
	res, err := s.db.Exec("DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: id %d", ErrSnapshotNotFound, id)
	}
	return nil
}

// SaveSession records a finished sculpting session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	var snapshotID sql.NullInt64
	if rec.SnapshotID > 0 {
		snapshotID = sql.NullInt64{Int64: rec.SnapshotID, Valid: true}
	}

	res, err := s.db.Exec(
		`INSERT INTO sculpt_sessions
		 (session_id, origin, user_name, deformations, chunks_created, final_chunks, duration_secs, snapshot_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.Origin,
		rec.User,
		rec.Deformations,
		rec.ChunksCreated,
		rec.FinalChunks,
		rec.Duration,
		snapshotID,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSessions retrieves the most recent sessions.
func (s *Store) RecentSessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, origin, user_name, deformations, chunks_created,
		        final_chunks, duration_secs, snapshot_id, created_at
		 FROM sculpt_sessions
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var results []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var user sql.NullString
		var snapshotID sql.NullInt64
		var createdAt any

		if err := rows.Scan(
			&rec.ID,
			&rec.SessionID,
			&rec.Origin,
			&user,
			&rec.Deformations,
			&rec.ChunksCreated,
			&rec.FinalChunks,
			&rec.Duration,
			&snapshotID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		rec.User = user.String
		rec.SnapshotID = snapshotID.Int64
		rec.CreatedAt = parseTime(createdAt)
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// SessionStats contains aggregated statistics over all recorded sessions.
type SessionStats struct {
	Sessions      int
	Deformations  int64
	ChunksCreated int64
	TotalSeconds  int64
	LastSculpted  time.Time
}

// GetSessionStats aggregates the session history.
func (s *Store) GetSessionStats() (*SessionStats, error) {
	stats := &SessionStats{}
	var last any

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(deformations), 0), COALESCE(SUM(chunks_created), 0),
		        COALESCE(SUM(duration_secs), 0), MAX(created_at)
		 FROM sculpt_sessions`,
	).Scan(&stats.Sessions, &stats.Deformations, &stats.ChunksCreated, &stats.TotalSeconds, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get session stats: %w", err)
	}
	stats.LastSculpted = parseTime(last)

	return stats, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
