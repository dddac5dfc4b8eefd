package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
)

const pgUniqueViolation = "23505"

// PostgresStore persists tours in the hosted Postgres the console's data
// lives in. Duplicate edge inserts resolve through the unique constraint,
// never through client-side locking.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool for the given DSN.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// InsertEdge implements Store. A unique-constraint violation means the
// edge already exists, which is the desired end state.
func (s *PostgresStore) InsertEdge(ctx context.Context, tourID, participantID, slotID string) error {
	const stmt = `INSERT INTO assignments (tour_id, participant_id, slot_id) VALUES ($1, $2, $3)`
	if _, err := s.pool.Exec(ctx, stmt, tourID, participantID, slotID); err != nil {
		if isUniqueViolation(err) {
			return ErrEdgeExists
		}
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// DeleteEdge implements Store.
func (s *PostgresStore) DeleteEdge(ctx context.Context, tourID, participantID, slotID string) error {
	const stmt = `DELETE FROM assignments WHERE tour_id = $1 AND participant_id = $2 AND slot_id = $3`
	tag, err := s.pool.Exec(ctx, stmt, tourID, participantID, slotID)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEdgeMissing
	}
	return nil
}

// ListEdges implements Store.
func (s *PostgresStore) ListEdges(ctx context.Context, tourID string) ([]model.Edge, error) {
	const query = `SELECT participant_id, slot_id FROM assignments WHERE tour_id = $1 ORDER BY participant_id, slot_id`
	rows, err := s.pool.Query(ctx, query, tourID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []model.Edge
	for rows.Next() {
		var e model.Edge
		if err := rows.Scan(&e.ParticipantID, &e.SlotID); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListParticipants implements Store.
func (s *PostgresStore) ListParticipants(ctx context.Context, tourID string) ([]model.Participant, error) {
	const query = `SELECT id, name, phone, team, gender FROM participants WHERE tour_id = $1 ORDER BY name, id`
	rows, err := s.pool.Query(ctx, query, tourID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var out []model.Participant
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.Team, &p.Gender); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListSlots implements Store.
func (s *PostgresStore) ListSlots(ctx context.Context, tourID string) ([]model.Slot, error) {
	const query = `SELECT id, tour_id, play_date, course, teeoff, capacity FROM tee_slots
		WHERE tour_id = $1 ORDER BY play_date, teeoff, course, id`
	rows, err := s.pool.Query(ctx, query, tourID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var out []model.Slot
	for rows.Next() {
		var sl model.Slot
		if err := rows.Scan(&sl.ID, &sl.TourID, &sl.Date, &sl.Course, &sl.Teeoff, &sl.Capacity); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}

// UpsertParticipant implements ParticipantWriter.
func (s *PostgresStore) UpsertParticipant(ctx context.Context, tourID string, p model.Participant) error {
	const stmt = `
		INSERT INTO participants (id, tour_id, name, phone, team, gender)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tour_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			team = EXCLUDED.team,
			gender = EXCLUDED.gender`
	if _, err := s.pool.Exec(ctx, stmt, p.ID, tourID, p.Name, p.Phone, p.Team, p.Gender); err != nil {
		return fmt.Errorf("upsert participant %s: %w", p.ID, err)
	}
	return nil
}

// UpsertSlot implements SlotWriter.
func (s *PostgresStore) UpsertSlot(ctx context.Context, sl model.Slot) error {
	const stmt = `
		INSERT INTO tee_slots (id, tour_id, play_date, course, teeoff, capacity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			play_date = EXCLUDED.play_date,
			course = EXCLUDED.course,
			teeoff = EXCLUDED.teeoff,
			capacity = EXCLUDED.capacity`
	if _, err := s.pool.Exec(ctx, stmt, sl.ID, sl.TourID, sl.Date, sl.Course, sl.Teeoff, sl.Capacity); err != nil {
		return fmt.Errorf("upsert slot %s: %w", sl.ID, err)
	}
	return nil
}
