// Package api serves the expression pipeline, the static bank and a
// websocket-driven quiz over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/mathpop/internal/problembank"
	"github.com/abhisek/mathpop/internal/problemgen"
	"github.com/abhisek/mathpop/internal/session"
)

// Options wires the server to its collaborators.
type Options struct {
	Bank *problembank.Bank

	// Adaptive is the generative producer shared by all connections.
	// Nil limits every quiz to standard mode.
	Adaptive problemgen.Producer

	// BankOptions configures the per-connection bank producer.
	BankOptions problemgen.BankOptions

	Session session.Config

	// FlagsFor returns the notice flags for a client id. Nil keeps
	// flags in memory per connection.
	FlagsFor func(clientID string) session.NoticeFlags

	AllowedOrigins []string

	Logger *slog.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	opts   Options
	logger *slog.Logger
}

// NewServer creates a Server. A nil Bank means the embedded default bank.
func NewServer(opts Options) *Server {
	if opts.Bank == nil {
		opts.Bank = problembank.MustDefault()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{opts: opts, logger: logger.With("component", "api")}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.Timeout(10*time.Second)).Post("/expressions", s.handleExpression)
		r.Get("/bank/levels", s.handleLevels)
		r.Get("/bank/levels/{level}", s.handleLevel)
		r.Get("/quiz/ws", s.handleQuiz)
	})
	return r
}

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorBody{Error: msg})
}
