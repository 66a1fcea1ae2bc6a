// Package store keeps a sqlite record of matches and per-turn decisions.
// Nothing here feeds back into decisions; it exists for the status surface
// and offline review.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

type Match struct {
	ID        string     `json:"id"`
	Team      string     `json:"team"`
	Profile   string     `json:"profile"`
	MapWidth  int        `json:"mapWidth"`
	MapHeight int        `json:"mapHeight"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	Winner    string     `json:"winner,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

// TurnRecord summarizes one decision.
type TurnRecord struct {
	MatchID   string `json:"matchId"`
	Turn      int    `json:"turn"`
	Mode      string `json:"mode"`
	Rule      string `json:"rule,omitempty"`
	Balance   int    `json:"balance"`
	RingTotal int    `json:"ringTotal"`
	Pending   int    `json:"pending"`
	Commands  int    `json:"commands"`
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One connection serializes writers from concurrent matches.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			team TEXT NOT NULL,
			profile TEXT NOT NULL,
			map_width INTEGER NOT NULL,
			map_height INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT,
			winner TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS turns (
			match_id TEXT NOT NULL,
			turn INTEGER NOT NULL,
			mode TEXT NOT NULL,
			rule TEXT NOT NULL,
			balance INTEGER NOT NULL,
			ring_total INTEGER NOT NULL,
			pending INTEGER NOT NULL,
			commands INTEGER NOT NULL,
			PRIMARY KEY (match_id, turn)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) StartMatch(ctx context.Context, m Match) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO matches (id, team, profile, map_width, map_height, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Team, m.Profile, m.MapWidth, m.MapHeight, m.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}
	return nil
}

// RecordTurn stores r, replacing an earlier record for the same turn.
func (s *Store) RecordTurn(ctx context.Context, r TurnRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO turns (match_id, turn, mode, rule, balance, ring_total, pending, commands)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.MatchID, r.Turn, r.Mode, r.Rule, r.Balance, r.RingTotal, r.Pending, r.Commands,
	)
	if err != nil {
		return fmt.Errorf("insert turn %s/%d: %w", r.MatchID, r.Turn, err)
	}
	return nil
}

func (s *Store) EndMatch(ctx context.Context, id, winner, reason string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE matches SET ended_at = ?, winner = ?, reason = ? WHERE id = ?`,
		at.UTC().Format(time.RFC3339Nano), winner, reason, id,
	)
	if err != nil {
		return fmt.Errorf("end match %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("end match %s: %w", id, ErrNotFound)
	}
	return nil
}

// RecentMatches returns up to limit matches, newest first.
func (s *Store) RecentMatches(ctx context.Context, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, team, profile, map_width, map_height, started_at, ended_at, winner, reason
		 FROM matches ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var (
			m       Match
			started string
			ended   sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Team, &m.Profile, &m.MapWidth, &m.MapHeight, &started, &ended, &m.Winner, &m.Reason); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if m.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("match %s started_at: %w", m.ID, err)
		}
		if ended.Valid {
			t, err := time.Parse(time.RFC3339Nano, ended.String)
			if err != nil {
				return nil, fmt.Errorf("match %s ended_at: %w", m.ID, err)
			}
			m.EndedAt = &t
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MatchTurns returns every recorded turn of a match in turn order.
func (s *Store) MatchTurns(ctx context.Context, matchID string) ([]TurnRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_id, turn, mode, rule, balance, ring_total, pending, commands
		 FROM turns WHERE match_id = ? ORDER BY turn`, matchID)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var out []TurnRecord
	for rows.Next() {
		var r TurnRecord
		if err := rows.Scan(&r.MatchID, &r.Turn, &r.Mode, &r.Rule, &r.Balance, &r.RingTotal, &r.Pending, &r.Commands); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
