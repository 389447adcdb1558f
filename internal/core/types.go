package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LineSource supplies the raw lines of a record file, header included.
// Satisfied by source.FileSource and source.ReaderSource.
type LineSource interface {
	ReadAllLines(ctx context.Context) ([]string, error)
}

// RecordRepository returns every validated unit record of a property.
type RecordRepository interface {
	FetchAll(ctx context.Context) ([]UnitRecord, error)
}

// RunRecorder stores the outcome of a successful aggregation run.
// Satisfied by *HistoryStore.
type RunRecorder interface {
	RecordRun(ctx context.Context, run RunEntry) error
}

// UnitRecord is one validated line of the record file.
// Records are only ever built by RecordParser; there are no partial records.
type UnitRecord struct {
	UnitNumber int     // Apartment/space identifier
	FloorArea  float64 // Square meters, never negative
	RoomCount  int     // Number of rooms
}

// Summary is the result of an aggregation run.
type Summary struct {
	RunID          uuid.UUID `json:"run_id"`
	Units          int       `json:"units"`
	TotalFloorArea float64   `json:"total_floor_area"`
	TotalRooms     int       `json:"total_rooms"`
}

// RunEntry is a summary together with where its data came from.
// CreatedAt is only set on entries read back from a HistoryStore.
type RunEntry struct {
	Summary
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Record field positions in a line.
const (
	fieldUnitNumber = iota
	fieldFloorArea
	fieldRoomCount

	// minFields is the number of fields a line must have; extra fields are ignored.
	minFields
)

// FieldDelimiter separates the fields of a record line.
const FieldDelimiter = ";"

// fieldNames are used in error messages, indexed by field position.
var fieldNames = [minFields]string{"unit number", "floor area", "room count"}
