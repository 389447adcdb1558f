package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/floorarea/internal/core"
	"github.com/JonMunkholm/floorarea/internal/source"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// handleFloorAreaFromFile computes the summary for the configured data file.
func (s *Server) handleFloorAreaFromFile(w http.ResponseWriter, r *http.Request) {
	src, err := source.NewFileSource(s.dataFile)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.summarize(w, r, src, s.dataFile)
}

// handleFloorAreaFromUpload computes the summary for the file sent as the
// request body.
func (s *Server) handleFloorAreaFromUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUpload {
		s.respondError(w, r, source.ErrTooLarge)
		return
	}

	if err := s.limiter.Acquire(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	defer s.limiter.Release()

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload"
	}
	s.summarize(w, r, source.NewReaderSource(r.Body, s.maxUpload), name)
}

// summarize runs one aggregation over src and writes the summary.
func (s *Server) summarize(w http.ResponseWriter, r *http.Request, src core.LineSource, name string) {
	opts := []core.ServiceOption{core.WithSourceName(name)}
	if s.history != nil {
		opts = append(opts, core.WithRecorder(s.history))
	}

	svc := core.NewService(core.NewFileRecordRepository(src, s.parser), opts...)
	summary, err := svc.Summarize(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleRecentRuns lists recorded runs, newest first.
func (s *Server) handleRecentRuns(w http.ResponseWriter, r *http.Request) {
	limit := core.DefaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "limit must be a positive integer",
				Message: "limit must be a positive integer",
				Code:    "REQ001",
			})
			return
		}
		limit = n
	}

	runs, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if runs == nil {
		runs = []core.RunEntry{}
	}

	writeJSON(w, http.StatusOK, runs)
}
