package usage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// =============================================================================
// Usage History Store
// =============================================================================
//
// The store persists per-skill use counts. Ranking never reads the store
// directly: callers take a Snapshot and hand the resulting map to the scorer,
// so a ranking pass always sees one frozen view of history.

const schema = `
CREATE TABLE IF NOT EXISTS skill_usage (
	skill_id  TEXT PRIMARY KEY,
	use_count INTEGER NOT NULL DEFAULT 0,
	last_used TEXT NOT NULL
);
`

// Store is a sqlite-backed usage counter.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the usage database at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init usage schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record increments the use count for a skill.
func (s *Store) Record(ctx context.Context, skillID string) error {
	if skillID == "" {
		return fmt.Errorf("skill id is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO skill_usage (skill_id, use_count, last_used) VALUES (?, 1, ?)
		ON CONFLICT(skill_id) DO UPDATE SET
			use_count = use_count + 1,
			last_used = excluded.last_used
	`, skillID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record usage for %q: %w", skillID, err)
	}
	return nil
}

// Snapshot returns an immutable copy of all use counts.
func (s *Store) Snapshot(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT skill_id, use_count FROM skill_usage`)
	if err != nil {
		return nil, fmt.Errorf("read usage: %w", err)
	}
	defer rows.Close()

	snapshot := make(map[string]int)
	for rows.Next() {
		var (
			id    string
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan usage row: %w", err)
		}
		snapshot[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage rows: %w", err)
	}
	return snapshot, nil
}

// Entry is one usage record.
type Entry struct {
	SkillID  string `json:"skill_id"`
	UseCount int    `json:"use_count"`
	LastUsed string `json:"last_used"`
}

// Top returns the n most used skills, most used first.
func (s *Store) Top(ctx context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT skill_id, use_count, last_used FROM skill_usage
		ORDER BY use_count DESC, skill_id ASC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("read top usage: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.SkillID, &e.UseCount, &e.LastUsed); err != nil {
			return nil, fmt.Errorf("scan usage row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
