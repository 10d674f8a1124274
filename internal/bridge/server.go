// Package bridge hosts the session controller for a browser page. The page
// renders the AR scene and streams events over a websocket; the controller
// answers with scene ops.
package bridge

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/catalog"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/config"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/layout"
	"github.com/AxionSoftware-Inc/Revolution-AR/internal/model"

	"github.com/gorilla/mux"
)

const defaultTick = 250 * time.Millisecond

type Server struct {
	cfg    config.Config
	loader catalog.Loader
	log    *slog.Logger
	now    func() time.Time
	tick   time.Duration
}

type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTick sets how often connections get a clock tick for deadline checks.
func WithTick(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.tick = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

func NewServer(cfg config.Config, loader catalog.Loader, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		loader: loader,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		tick:   defaultTick,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/catalog", s.handleCatalog).Methods(http.MethodGet)
	r.HandleFunc("/api/layout", s.handleLayout).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	return r
}

type catalogResponse struct {
	Meta       model.Meta   `json:"meta"`
	Items      []model.Item `json:"items"`
	Diagnostic string       `json:"diagnostic,omitempty"`
}

type layoutResponse struct {
	Radius     float64            `json:"radius"`
	Scale      float64            `json:"scale"`
	Cards      []model.PlacedCard `json:"cards"`
	Diagnostic string             `json:"diagnostic,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	res := s.loader.Load(r.Context())
	writeJSON(w, http.StatusOK, catalogResponse{
		Meta:       res.Catalog.Meta,
		Items:      res.Catalog.Items,
		Diagnostic: res.Diagnostic,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	res := s.loader.Load(r.Context())
	n := len(res.Catalog.Items)
	writeJSON(w, http.StatusOK, layoutResponse{
		Radius:     layout.Radius(n, s.cfg.Layout),
		Scale:      layout.Scale(n, s.cfg.Layout),
		Cards:      layout.Ring(res.Catalog.Items, s.cfg.Layout),
		Diagnostic: res.Diagnostic,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
