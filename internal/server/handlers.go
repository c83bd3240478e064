package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/blaine-t/splits/internal/split"
)

// Router builds the API routes with the middleware chain
// recoverer → requestLogger → rate limit.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer(s.logger))
	r.Use(requestLogger(s.logger, s.metrics))

	r.Route("/api/v0/split", func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.metrics))
		r.Post("/new", s.handleNewSplit)
		r.Get("/all", s.handleAllSplits)
		r.Get("/list", s.handleListSplits)
		r.Get("/records", s.handleRecords)
		r.Get("/slowest", s.handleSlowest)
	})

	r.Method(http.MethodGet, "/metrics", MetricsHandler(s.gatherer))

	if s.cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}

	return r
}

func (s *Server) handleNewSplit(w http.ResponseWriter, r *http.Request) {
	var rec split.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		s.metrics.RecordSubmission("malformed", 0)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Usernames end up in boards served as HTML-adjacent text; strip any
	// markup before validation so length limits apply to the stored form.
	rec.User = s.sanitizer.Sanitize(rec.User)

	if err := rec.Validate(s.currentRules()); err != nil {
		s.logger.Warn("rejected split", zap.Error(err))
		s.metrics.RecordSubmission("rejected", 0)
		http.Error(w, fmt.Sprintf("Validation failed: %v", err), http.StatusBadRequest)
		return
	}

	stored, err := s.repo.Insert(r.Context(), rec)
	if err != nil {
		s.logger.Error("failed to insert split", zap.Error(err))
		s.metrics.RecordSubmission("error", 0)
		http.Error(w, "Error inserting data", http.StatusInternalServerError)
		return
	}

	s.logger.Info("new split",
		zap.String("user", stored.User),
		zap.String("direction", stored.Direction()),
		zap.String("method", stored.Method()),
		zap.Int64("duration_ms", stored.DurationMs))
	s.metrics.RecordSubmission("accepted", stored.DurationMs)

	if s.notifier != nil {
		if all, err := s.repo.All(r.Context()); err == nil {
			s.notifier.NotifyBoard(split.FormatBoard(all), s.notifyTimeout)
		} else {
			s.logger.Warn("failed to load splits for notification", zap.Error(err))
		}
	}

	w.WriteHeader(http.StatusCreated)
	fmt.Fprint(w, "Data inserted successfully!")
}

func (s *Server) handleAllSplits(w http.ResponseWriter, r *http.Request) {
	all, err := s.repo.All(r.Context())
	if err != nil {
		s.logger.Error("failed to list splits", zap.Error(err))
		http.Error(w, "Error retrieving splits", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, split.FormatBoard(all))
}

func (s *Server) handleListSplits(w http.ResponseWriter, r *http.Request) {
	all, err := s.repo.All(r.Context())
	if err != nil {
		s.logger.Error("failed to list splits", zap.Error(err))
		http.Error(w, "Error retrieving splits", http.StatusInternalServerError)
		return
	}
	writeJSON(w, all)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	s.handleBoard(w, r, split.WorldRecords)
}

func (s *Server) handleSlowest(w http.ResponseWriter, r *http.Request) {
	s.handleBoard(w, r, split.SlowestRecords)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request, board func([]split.Split) []split.BoardEntry) {
	all, err := s.repo.All(r.Context())
	if err != nil {
		s.logger.Error("failed to list splits", zap.Error(err))
		http.Error(w, "Error retrieving splits", http.StatusInternalServerError)
		return
	}
	entries := board(all)
	if entries == nil {
		entries = []split.BoardEntry{}
	}
	writeJSON(w, entries)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
