// Package daemon implements the long-running browser-lease helper process
// referenced by spec.md §4.6/§GLOSSARY ("daemon lease"): a shared process
// that hands out browser endpoints keyed by namespace+browser+headless so
// repeated invocations in the same project can reuse one running browser.
// Persistence is grounded on the teacher's pkg/fleet/store_sqlite.go
// (modernc.org/sqlite, WAL mode, an explicit migrate step).
package daemon

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Lease is one row of the daemon's lease table: a browser instance handed
// out under a given session key.
type Lease struct {
	SessionKey string
	Endpoint   string
	Browser    string
	Headless   bool
	PID        int
	CreatedAt  int64
}

// Store is the sqlite-backed lease registry.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if absent) the lease database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open lease store %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS leases (
		session_key TEXT PRIMARY KEY,
		endpoint TEXT NOT NULL,
		browser TEXT NOT NULL,
		headless INTEGER NOT NULL,
		pid INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Get returns the lease for sessionKey, if any.
func (s *Store) Get(sessionKey string) (*Lease, error) {
	row := s.db.QueryRow(`SELECT session_key, endpoint, browser, headless, pid, created_at FROM leases WHERE session_key = ?`, sessionKey)
	var l Lease
	var headless int
	if err := row.Scan(&l.SessionKey, &l.Endpoint, &l.Browser, &headless, &l.PID, &l.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	l.Headless = headless != 0
	return &l, nil
}

// Put upserts a lease.
func (s *Store) Put(l Lease) error {
	headless := 0
	if l.Headless {
		headless = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO leases (session_key, endpoint, browser, headless, pid, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_key) DO UPDATE SET
			endpoint=excluded.endpoint, browser=excluded.browser, headless=excluded.headless,
			pid=excluded.pid, created_at=excluded.created_at`,
		l.SessionKey, l.Endpoint, l.Browser, headless, l.PID, l.CreatedAt)
	return err
}

// Delete removes a lease.
func (s *Store) Delete(sessionKey string) error {
	_, err := s.db.Exec(`DELETE FROM leases WHERE session_key = ?`, sessionKey)
	return err
}

// List returns every active lease, for daemon.status.
func (s *Store) List() ([]Lease, error) {
	rows, err := s.db.Query(`SELECT session_key, endpoint, browser, headless, pid, created_at FROM leases ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Lease
	for rows.Next() {
		var l Lease
		var headless int
		if err := rows.Scan(&l.SessionKey, &l.Endpoint, &l.Browser, &headless, &l.PID, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Headless = headless != 0
		out = append(out, l)
	}
	return out, rows.Err()
}

// Now returns the current unix timestamp.
func Now() int64 { return time.Now().Unix() }
