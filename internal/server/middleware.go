package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/etchgrid/pkg/errors"
	"github.com/matzehuels/etchgrid/pkg/observability"
	"github.com/matzehuels/etchgrid/pkg/session"
)

type ctxKey int

const sessionKey ctxKey = 0

// logRequests logs every request at debug level and reports it to the HTTP
// hooks under its route pattern, so /api/sketches/{name} is one series.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		d := time.Since(start)
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, d)
		s.cfg.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"took", d.Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.cfg.Logger.Error("panic in handler", "path", r.URL.Path, "panic", v)
				writeError(w, errors.New(errors.ErrCodeInternal, "internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withSession attaches the visitor's session. The cookie is re-issued on
// every request so its lifetime tracks the server's idle TTL.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}
		sess, created, err := s.cfg.Sessions.GetOrCreate(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(s.cfg.Sessions.TTL().Seconds()),
		})
		if created {
			s.cfg.Logger.Debug("session started", "id", sess.ID)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionKey).(*session.Session)
	return sess
}
