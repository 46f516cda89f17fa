// Package store persists completed commit-reveal rounds to sqlite. The
// protocol itself is stateless; this is an append-only audit trail external
// tooling can replay against the published HMAC/KEY pairs.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"fairdice/internal/game"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	// A single connection keeps :memory: databases coherent and sidesteps
	// sqlite's writer lock under concurrent match traffic.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS rounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id TEXT NOT NULL,
		purpose TEXT NOT NULL,
		modulus INTEGER NOT NULL,
		hmac TEXT NOT NULL,
		key TEXT NOT NULL,
		house_value INTEGER NOT NULL,
		user_value INTEGER NOT NULL,
		result INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRound appends one revealed round for a match.
func (s *Store) RecordRound(matchID string, r game.RoundRecord) error {
	_, err := s.db.Exec(`
	INSERT INTO rounds(match_id, purpose, modulus, hmac, key, house_value, user_value, result, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, matchID, string(r.Purpose), r.Modulus, r.Commitment, r.Key,
		r.HouseValue, r.UserValue, r.Result, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store: record round: %w", err)
	}
	return nil
}

// Rounds returns a match's rounds in reveal order.
func (s *Store) Rounds(matchID string) ([]game.RoundRecord, error) {
	rows, err := s.db.Query(`
	SELECT purpose, modulus, hmac, key, house_value, user_value, result
	FROM rounds WHERE match_id = ? ORDER BY id
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("store: query rounds: %w", err)
	}
	defer rows.Close()

	var out []game.RoundRecord
	for rows.Next() {
		var (
			r       game.RoundRecord
			purpose string
		)
		if err := rows.Scan(&purpose, &r.Modulus, &r.Commitment, &r.Key,
			&r.HouseValue, &r.UserValue, &r.Result); err != nil {
			return nil, fmt.Errorf("store: scan round: %w", err)
		}
		r.Purpose = game.RoundPurpose(purpose)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Prune drops rounds older than the retention window and reports how many
// went.
func (s *Store) Prune(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).Unix()

	res, err := s.db.Exec(`DELETE FROM rounds WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("store: prune: %w", err)
	}
	return res.RowsAffected()
}
