// internal/httpserver/server.go
//
// HTTP server wiring for the SpellCast solver.
// Responsibilities:
//   - Router + middleware (JSON, CORS, body limit, panic recovery, request IDs,
//     access logging).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Solver endpoints (optional auth): POST /board/parse, POST /search, /jobs/*.
//   - Auth + per-user endpoints: /auth/*, /history/mine; public /leaderboard.
//
// Notes:
//   - CORS is origin‑aware and credentials‑enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is
//     present; guests can still search, their history is just not kept.
//   - Background jobs outlive their request; Close cancels and drains them.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/spellcast-solver/internal/config"
	"github.com/robalobadob/spellcast-solver/internal/history"
	"github.com/robalobadob/spellcast-solver/internal/search"
	"github.com/robalobadob/spellcast-solver/internal/store"
	"github.com/robalobadob/spellcast-solver/internal/words"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Server bundles router, job store, dictionary and DB handle.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	defaults search.Config
	store    store.Store
	db       *sql.DB
	history  *history.Store
	dict     *words.Dictionary

	// background jobs
	baseCtx context.Context
	stop    context.CancelFunc
	slots   chan struct{}
	jobs    sync.WaitGroup
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, db *sql.DB, dict *words.Dictionary) (*Server, error) {
	defaults, err := cfg.SearchDefaults()
	if err != nil {
		return nil, err
	}
	ctx, stop := context.WithCancel(context.Background())
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		defaults: defaults,
		store:    st,
		db:       db,
		history:  history.NewStore(db),
		dict:     dict,
		baseCtx:  ctx,
		stop:     stop,
		slots:    make(chan struct{}, max(cfg.JobConcurrency, 1)),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger)) // request-scoped logger
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)
	s.r.Use(limitBody)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"spellcast-go","endpoints":["/health","POST /board/parse","POST /search","POST /jobs","/auth/*","/history/mine","/leaderboard"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]int{"words": s.dict.Len()})
	})

	// Solver, optional auth (guests can search)
	opt := s.r.With(s.withOptionalAuth())
	opt.Post("/board/parse", s.handleParseBoard)
	opt.Post("/search", s.handleSearch)
	s.mountJobs(opt)

	// Auth, history, leaderboard
	s.mountAuthRoutes()
	s.r.With(s.requireAuth()).Get("/history/mine", s.handleHistoryMine)
	s.r.Get("/leaderboard", s.handleLeaderboard)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s, nil
}

// Start serves HTTP on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := hs.Shutdown(shutdownCtx)
	s.Close()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close cancels running jobs and waits for their goroutines.
func (s *Server) Close() {
	s.stop()
	s.jobs.Wait()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the single configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("reqId", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
})

// ------------------------------ responses ----------------------------------

// writeError writes {"error": msg} with the given status.
func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// decodeJSON reads a single JSON value from the body. Oversized bodies are
// reported as 413, anything else unreadable as 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid_json")
		return false
	}
	return true
}
