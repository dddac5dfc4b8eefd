package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS participants (
	id        TEXT NOT NULL,
	tour_id   TEXT NOT NULL,
	name      TEXT NOT NULL,
	phone     TEXT NOT NULL DEFAULT '',
	team      TEXT NOT NULL DEFAULT '',
	gender    TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (tour_id, id)
);
CREATE TABLE IF NOT EXISTS tee_slots (
	id        TEXT NOT NULL PRIMARY KEY,
	tour_id   TEXT NOT NULL,
	play_date TEXT NOT NULL,
	course    TEXT NOT NULL,
	teeoff    TEXT NOT NULL,
	capacity  INTEGER NOT NULL CHECK (capacity > 0)
);
CREATE TABLE IF NOT EXISTS assignments (
	tour_id        TEXT NOT NULL,
	participant_id TEXT NOT NULL,
	slot_id        TEXT NOT NULL,
	UNIQUE (tour_id, participant_id, slot_id)
);
CREATE INDEX IF NOT EXISTS idx_assignments_tour ON assignments (tour_id);
`

// SQLiteStore persists tours in a local SQLite database, the single-host
// deployment of the operations console.
type SQLiteStore struct {
	db *sqlx.DB
}

// OpenSQLite opens (and if needed creates) the database at path and
// ensures the schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertEdge implements Store. INSERT OR IGNORE keeps the primitive
// idempotent; zero rows affected means the unique constraint already held.
func (s *SQLiteStore) InsertEdge(ctx context.Context, tourID, participantID, slotID string) error {
	const q = `INSERT OR IGNORE INTO assignments (tour_id, participant_id, slot_id) VALUES (?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, tourID, participantID, slotID)
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrEdgeExists
	}
	return nil
}

// DeleteEdge implements Store.
func (s *SQLiteStore) DeleteEdge(ctx context.Context, tourID, participantID, slotID string) error {
	const q = `DELETE FROM assignments WHERE tour_id = ? AND participant_id = ? AND slot_id = ?`
	res, err := s.db.ExecContext(ctx, q, tourID, participantID, slotID)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrEdgeMissing
	}
	return nil
}

// ListEdges implements Store.
func (s *SQLiteStore) ListEdges(ctx context.Context, tourID string) ([]model.Edge, error) {
	const q = `SELECT participant_id, slot_id FROM assignments WHERE tour_id = ? ORDER BY participant_id, slot_id`
	rows, err := s.db.QueryxContext(ctx, q, tourID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []model.Edge
	for rows.Next() {
		var e model.Edge
		if err := rows.Scan(&e.ParticipantID, &e.SlotID); err != nil {
			return nil, fmt.Errorf("scan assignment row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListParticipants implements Store.
func (s *SQLiteStore) ListParticipants(ctx context.Context, tourID string) ([]model.Participant, error) {
	const q = `SELECT id, name, phone, team, gender FROM participants WHERE tour_id = ? ORDER BY name, id`
	rows, err := s.db.QueryxContext(ctx, q, tourID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var out []model.Participant
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.Team, &p.Gender); err != nil {
			return nil, fmt.Errorf("scan participant row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListSlots implements Store.
func (s *SQLiteStore) ListSlots(ctx context.Context, tourID string) ([]model.Slot, error) {
	const q = `SELECT id, tour_id, play_date, course, teeoff, capacity FROM tee_slots
		WHERE tour_id = ? ORDER BY play_date, teeoff, course, id`
	rows, err := s.db.QueryxContext(ctx, q, tourID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var out []model.Slot
	for rows.Next() {
		var sl model.Slot
		if err := rows.Scan(&sl.ID, &sl.TourID, &sl.Date, &sl.Course, &sl.Teeoff, &sl.Capacity); err != nil {
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}

// UpsertParticipant implements ParticipantWriter.
func (s *SQLiteStore) UpsertParticipant(ctx context.Context, tourID string, p model.Participant) error {
	const q = `
		INSERT INTO participants (id, tour_id, name, phone, team, gender)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(tour_id, id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			team = excluded.team,
			gender = excluded.gender`
	if _, err := s.db.ExecContext(ctx, q, p.ID, tourID, p.Name, p.Phone, p.Team, p.Gender); err != nil {
		return fmt.Errorf("upsert participant %s: %w", p.ID, err)
	}
	return nil
}

// UpsertSlot implements SlotWriter.
func (s *SQLiteStore) UpsertSlot(ctx context.Context, sl model.Slot) error {
	const q = `
		INSERT INTO tee_slots (id, tour_id, play_date, course, teeoff, capacity)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			play_date = excluded.play_date,
			course = excluded.course,
			teeoff = excluded.teeoff,
			capacity = excluded.capacity`
	if _, err := s.db.ExecContext(ctx, q, sl.ID, sl.TourID, sl.Date, sl.Course, sl.Teeoff, sl.Capacity); err != nil {
		return fmt.Errorf("upsert slot %s: %w", sl.ID, err)
	}
	return nil
}
