package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service computes floor-area figures for a property.
type Service struct {
	repo     RecordRepository
	recorder RunRecorder
	source   string
}

// ServiceOption configures optional Service collaborators.
type ServiceOption func(*Service)

// WithRecorder stores every successful Summarize run in rec.
func WithRecorder(rec RunRecorder) ServiceOption {
	return func(s *Service) {
		s.recorder = rec
	}
}

// WithSourceName labels recorded runs and log entries with name,
// typically the data file path.
func WithSourceName(name string) ServiceOption {
	return func(s *Service) {
		s.source = name
	}
}

// NewService creates a Service that reads records from repo.
func NewService(repo RecordRepository, opts ...ServiceOption) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeTotalFloorArea returns the sum of FloorArea over all records.
//
// Records are summed in input order, so results are reproducible. An empty
// record set yields 0. Repository errors are returned wrapped, never replaced
// by a partial total.
func (s *Service) ComputeTotalFloorArea(ctx context.Context) (float64, error) {
	records, err := s.repo.FetchAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("compute total floor area: %w", err)
	}
	return TotalFloorArea(records), nil
}

// Summarize runs the same pipeline as ComputeTotalFloorArea and also counts
// units and rooms. The run is tagged with a new ID and passed to the recorder,
// if any. Recorder failures are logged and do not fail the run.
func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	start := time.Now()
	logger := slog.Default().With("source", s.source)

	records, err := s.repo.FetchAll(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}

	summary := Summary{
		RunID:          uuid.New(),
		Units:          len(records),
		TotalFloorArea: TotalFloorArea(records),
	}
	for _, rec := range records {
		summary.TotalRooms += rec.RoomCount
	}

	logger.Info("floor area computed",
		"run_id", summary.RunID,
		"units", summary.Units,
		"total_floor_area", summary.TotalFloorArea,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if s.recorder != nil {
		if err := s.recorder.RecordRun(ctx, RunEntry{Summary: summary, Source: s.source}); err != nil {
			logger.Warn("failed to record run", "run_id", summary.RunID, "error", err)
		}
	}

	return summary, nil
}

// TotalFloorArea sums FloorArea in slice order.
func TotalFloorArea(records []UnitRecord) float64 {
	total := 0.0
	for _, rec := range records {
		total += rec.FloorArea
	}
	return total
}
