package core

// history.go stores aggregation runs in PostgreSQL so totals can be compared
// over time. History is optional: without a database the Service simply does
// not record runs.

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
}

// DefaultHistoryLimit is used by Recent when limit is not positive.
const DefaultHistoryLimit = 20

const createRunsTable = `CREATE TABLE IF NOT EXISTS floor_area_runs (
	id UUID PRIMARY KEY,
	source TEXT,
	units INTEGER NOT NULL,
	total_floor_area DOUBLE PRECISION NOT NULL,
	total_rooms INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertRun = `INSERT INTO floor_area_runs (id, source, units, total_floor_area, total_rooms)
VALUES ($1, $2, $3, $4, $5)`

const selectRecentRuns = `SELECT id, source, units, total_floor_area, total_rooms, created_at
FROM floor_area_runs
ORDER BY created_at DESC
LIMIT $1`

// HistoryStore records runs in the floor_area_runs table.
type HistoryStore struct {
	db DBTX
}

// NewHistoryStore creates a store on db.
func NewHistoryStore(db DBTX) *HistoryStore {
	return &HistoryStore{db: db}
}

// EnsureSchema creates the runs table if it does not exist.
func (h *HistoryStore) EnsureSchema(ctx context.Context) error {
	if _, err := h.db.Exec(ctx, createRunsTable); err != nil {
		return fmt.Errorf("create floor_area_runs: %w", err)
	}
	return nil
}

// RecordRun implements RunRecorder.
func (h *HistoryStore) RecordRun(ctx context.Context, run RunEntry) error {
	tag, err := h.db.Exec(ctx, insertRun,
		toPgUUID(run.RunID),
		toPgText(run.Source),
		int32(run.Units),
		run.TotalFloorArea,
		int32(run.TotalRooms),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("insert run %s: %d rows affected", run.RunID, tag.RowsAffected())
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (h *HistoryStore) Recent(ctx context.Context, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := h.db.Query(ctx, selectRecentRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunEntry
	for rows.Next() {
		var (
			id         pgtype.UUID
			source     pgtype.Text
			units      int32
			total      float64
			totalRooms int32
			createdAt  pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &source, &units, &total, &totalRooms, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, RunEntry{
			Summary: Summary{
				RunID:          uuid.UUID(id.Bytes),
				Units:          int(units),
				TotalFloorArea: total,
				TotalRooms:     int(totalRooms),
			},
			Source:    source.String,
			CreatedAt: createdAt.Time,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// toPgText converts a string to pgtype.Text, invalid when empty.
func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// toPgUUID converts a uuid.UUID to pgtype.UUID, invalid when nil.
func toPgUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: id, Valid: true}
}
