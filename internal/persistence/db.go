// Package persistence provides SQLite-based game-state storage, following
// the teacher's internal/persistence/db.go exactly: sqlx over a pure-Go
// sqlite driver, a CREATE TABLE IF NOT EXISTS migration run at Open, and
// encoding/json for the nested blob (here, the whole game snapshot rather
// than the teacher's per-entity rows, since a game's state is one object
// with no natural relational decomposition — spec §6.3 gives only an
// informative JSON shape, not a schema).
package persistence

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for game-state storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		id TEXT PRIMARY KEY,
		scenario INTEGER NOT NULL,
		winter_count INTEGER NOT NULL,
		deck_pos INTEGER NOT NULL,
		snapshot_json TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Save writes one Snapshot under a fresh run id, returning that id. The
// caller names successive saves of the same game with the same id to
// overwrite (SaveAs); Save always creates a new row.
func (db *DB) Save(snap *Snapshot) (string, error) {
	id := uuid.NewString()
	return id, db.SaveAs(id, snap)
}

// SaveAs writes snap under the given run id, replacing any prior save
// with that id.
func (db *DB) SaveAs(id string, snap *Snapshot) error {
	blob, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = db.conn.Exec(
		`INSERT INTO saves (id, scenario, winter_count, deck_pos, snapshot_json, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   scenario=excluded.scenario, winter_count=excluded.winter_count,
		   deck_pos=excluded.deck_pos, snapshot_json=excluded.snapshot_json,
		   saved_at=excluded.saved_at`,
		id, int(snap.Scenario), snap.WinterCount, snap.DeckPos, string(blob), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}
	slog.Info("saved game", "id", id, "winter_count", snap.WinterCount)
	return nil
}

// Load reads the snapshot stored under id.
func (db *DB) Load(id string) (*Snapshot, error) {
	var blob string
	err := db.conn.Get(&blob, `SELECT snapshot_json FROM saves WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no save with id %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(blob), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s: %w", id, err)
	}
	return &snap, nil
}

// ListSaves returns every save id, most recently saved first.
func (db *DB) ListSaves() ([]string, error) {
	var ids []string
	err := db.conn.Select(&ids, `SELECT id FROM saves ORDER BY saved_at DESC`)
	return ids, err
}
