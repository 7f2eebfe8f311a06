package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/netwatch/internal/domain"
	"github.com/hamed0406/netwatch/internal/monitor"
	"github.com/hamed0406/netwatch/internal/store"
)

// StatusSource exposes the monitor's live snapshot.
type StatusSource interface {
	Status() monitor.Status
}

// Server is the read-only status API. All state changes happen in the
// monitor loop; nothing here mutates.
type Server struct {
	Logger *zap.Logger
	Source StatusSource
	Store  store.OutageStore
}

func NewServer(l *zap.Logger, src StatusSource, st store.OutageStore) *Server {
	return &Server{Logger: l, Source: src, Store: st}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/outages", s.handleOutages)
	r.Get("/api/windows", s.handleWindows)

	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Source.Status())
}

func (s *Server) handleOutages(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	outages, err := s.Store.ListOutages(r.Context(), limit)
	if err != nil {
		s.Logger.Warn("list_outages_error", zap.Error(err))
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	if outages == nil {
		outages = []domain.Outage{} // keep the JSON an array, not null
	}
	writeJSON(w, outages)
}

func (s *Server) handleWindows(w http.ResponseWriter, r *http.Request) {
	var since time.Time
	if v := r.URL.Query().Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "bad since (want RFC3339)", http.StatusBadRequest)
			return
		}
		since = t
	}

	windows, err := s.Store.ListWindows(r.Context(), since)
	if err != nil {
		s.Logger.Warn("list_windows_error", zap.Error(err))
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	if windows == nil {
		windows = []domain.WindowSummary{}
	}
	writeJSON(w, windows)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
