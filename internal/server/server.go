// Package server serves the browser front end and its JSON API.
//
// Each visitor is identified by a session cookie and owns one grid
// controller (see pkg/session). The page renders the grid as plain divs and
// reports pointer movement to /api/hover; every other control maps onto one
// API call:
//
//	GET    /                       the page
//	GET    /api/grid               current state
//	POST   /api/hover              {"row":r,"col":c}
//	POST   /api/mode               {"mode":"rainbow"}
//	POST   /api/clear
//	POST   /api/size               {"input":"32"}  400 INVALID_SIZE re-prompts
//	GET    /api/export.{format}    png or svg, ?px=800&grid=1
//	GET    /api/sketches           saved names
//	POST   /api/sketches/{name}    save the current drawing
//	GET    /api/sketches/{name}    load into the session
//	DELETE /api/sketches/{name}
//	GET    /healthz
//	GET    /metrics
package server

import (
	"context"
	goerrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/etchgrid/pkg/cache"
	"github.com/matzehuels/etchgrid/pkg/session"
	"github.com/matzehuels/etchgrid/pkg/sketch"
	"github.com/matzehuels/etchgrid/pkg/store"
)

// SessionCookie names the cookie holding the session ID.
const SessionCookie = "etchgrid_session"

const (
	maxBodyBytes    = 4 << 10
	shutdownTimeout = 5 * time.Second
)

// Config wires a Server. Zero fields get working defaults.
type Config struct {
	Addr     string
	Sessions *session.Store
	Store    store.Store
	Cache    cache.Cache
	Logger   *log.Logger

	// Gatherer backs /metrics. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// Server is the HTTP front end.
type Server struct {
	cfg    Config
	keyer  cache.Keyer
	router chi.Router
}

// New builds the router.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewStore(session.DefaultTTL, func() *sketch.Controller {
			return sketch.New(sketch.WithLogger(cfg.Logger))
		})
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{cfg: cfg, keyer: cache.NewDefaultKeyer()}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handlePage)
		r.Route("/api", func(r chi.Router) {
			r.Get("/grid", s.handleGrid)
			r.Post("/hover", s.handleHover)
			r.Post("/mode", s.handleMode)
			r.Post("/clear", s.handleClear)
			r.Post("/size", s.handleSize)
			r.Get("/export.{format}", s.handleExport)

			r.Get("/sketches", s.handleListSketches)
			r.Post("/sketches/{name}", s.handleSaveSketch)
			r.Get("/sketches/{name}", s.handleLoadSketch)
			r.Delete("/sketches/{name}", s.handleDeleteSketch)
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions are swept in the background meanwhile.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.cfg.Sessions.Run(sweepCtx, max(s.cfg.Sessions.TTL()/4, time.Minute))

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.cfg.Logger.Info("serving", "addr", "http://"+ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !goerrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
