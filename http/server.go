package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"github.com/jbekker/capescout"
)

// DefaultAddr is the address the server listens on unless configured.
const DefaultAddr = ":8000"

// ShutdownTimeout is how long a stopping server waits for in-flight
// requests to finish.
const ShutdownTimeout = 5 * time.Second

// Per-client request budget enforced by the rate limit middleware.
const (
	rateLimitRequests = 100
	rateLimitWindow   = time.Minute
)

// Server is the REST API over stored properties. Fields must be set
// before the server starts handling requests.
type Server struct {
	server *http.Server
	router chi.Router

	Addr string

	PropertyService capescout.PropertyService
	CommentService  capescout.CommentService
	Catalog         *capescout.AreaCatalog
	Logger          *slog.Logger

	// HealthCheck reports storage health for GET /health. Left nil,
	// the database is assumed reachable.
	HealthCheck func(ctx context.Context) error
}

// NewServer creates a new Server with its routes registered.
func NewServer() *Server {
	s := &Server{
		Addr:    DefaultAddr,
		Catalog: capescout.NewAreaCatalog(),
		Logger:  slog.Default(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(rateLimitRequests, rateLimitWindow))
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Route("/properties", func(r chi.Router) {
			r.Get("/", s.handlePropertyList)
			r.Post("/", s.handlePropertyCreate)
			r.Delete("/cleanup", s.handlePropertyCleanup)
			r.Route("/{propertyID}", func(r chi.Router) {
				r.Get("/", s.handlePropertyGet)
				r.Put("/", s.handlePropertyUpdate)
				r.Post("/view", s.handlePropertyView)
				r.Post("/like", s.handlePropertyLike)
				r.Get("/comments", s.handleCommentList)
				r.Post("/comments", s.handleCommentCreate)
			})
		})
		r.Post("/comments/{commentID}/like", s.handleCommentLike)
		r.Route("/scraper", func(r chi.Router) {
			r.Post("/import", s.handleScraperImport)
			r.Get("/stats", s.handleScraperStats)
		})
		r.Get("/areas", s.handleAreaList)
	})

	s.router = r
	s.server = &http.Server{Handler: r}
	return s
}

// ServeHTTP dispatches a request to the router. Implementing
// http.Handler lets tests drive the server through httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server until ctx is canceled, then shuts it
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server.Addr = s.Addr

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Logger.Info("http server listening", "addr", s.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close immediately closes the server and any open connections.
func (s *Server) Close() error {
	return s.server.Close()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(begin),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, database := "ok", "ok"
	if s.HealthCheck != nil {
		if err := s.HealthCheck(r.Context()); err != nil {
			status, database = "degraded", "unavailable"
		}
	}
	if status != "ok" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, map[string]any{
		"status":    status,
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Error writes err as a JSON response. Unexpected errors are logged and
// reported with a generic message.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("http request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"error": capescout.ErrorMessage(err)})
}

// errorStatus maps domain error codes to HTTP status codes.
func errorStatus(err error) int {
	switch capescout.ErrorCode(err) {
	case capescout.EINVALID:
		return http.StatusBadRequest
	case capescout.ENOTFOUND:
		return http.StatusNotFound
	case capescout.ECONFLICT:
		return http.StatusConflict
	case capescout.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
