// Package storage handles the SQLite connection, schema migrations and data
// operations for the key-value store and the analytics event log.
package storage

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // Driver sqlite
)

// Repository manages the SQLite database connection.
type Repository struct {
	db *sql.DB
}

// Event is one persisted analytics event.
type Event struct {
	CreatedAt   time.Time `json:"created_at"`
	SessionID   string    `json:"session_id"`
	Name        string    `json:"name"`
	Target      string    `json:"target,omitempty"`
	CountryCode string    `json:"country_code,omitempty"`
	Depth       int       `json:"depth,omitempty"`
	DurationMS  int64     `json:"duration_ms,omitempty"`
}

// New initializes a new SQLite connection, sets connection pool parameters,
// and runs migrations.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(1 * time.Hour)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// KVSet stores value under key, replacing any previous value.
func (r *Repository) KVSet(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now())

	return err
}

// KVGet returns the value stored under key. The second return is false when
// the key does not exist.
func (r *Repository) KVGet(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

// KVDelete removes key. Deleting a missing key is not an error.
func (r *Repository) KVDelete(key string) error {
	_, err := r.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// KVDeletePrefix removes every key starting with prefix and returns the
// number of rows deleted. Keys outside the prefix are left untouched.
func (r *Repository) KVDeletePrefix(prefix string) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM kv WHERE key LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%")
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// InsertEvent appends one analytics event to the log.
func (r *Repository) InsertEvent(ev Event) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO analytics_events
			(session_id, name, target, depth, duration_ms, country_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ev.SessionID, ev.Name, ev.Target, ev.Depth, ev.DurationMS, ev.CountryCode, ev.CreatedAt)

	return err
}

// RecentEvents returns up to limit events, newest first.
func (r *Repository) RecentEvents(limit int) ([]Event, error) {
	rows, err := r.db.Query(`
		SELECT session_id, name, target, depth, duration_ms, country_code, created_at
		FROM analytics_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(
			&ev.SessionID, &ev.Name, &ev.Target, &ev.Depth, &ev.DurationMS, &ev.CountryCode, &ev.CreatedAt,
		); err != nil {
			continue
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// CountEvents returns the total number of stored analytics events.
func (r *Repository) CountEvents() (int64, error) {
	var n int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM analytics_events`).Scan(&n)

	return n, err
}

// PruneEventsBefore deletes analytics events created before cutoff and
// returns the number of rows removed.
func (r *Repository) PruneEventsBefore(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM analytics_events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// escapeLike escapes LIKE wildcards so a prefix is matched literally.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}

	return string(out)
}
