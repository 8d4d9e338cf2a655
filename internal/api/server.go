// Package api exposes the reservation core over HTTP, in front of the
// booking service, the session manager and the export writer.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cartbook/internal/availability"
	"cartbook/internal/booking"
	"cartbook/internal/config"
	"cartbook/internal/models"
	"cartbook/internal/session"

	"github.com/rs/zerolog"
)

const sessionHeader = "X-Session-Token"

// HTTPServer serves the reservation API.
type HTTPServer struct {
	server   *http.Server
	svc      *booking.Service
	sessions *session.Manager
	engine   *availability.Engine
	cfg      *config.Config
	dep      config.Deployment
	loc      *time.Location
	log      *zerolog.Logger
}

// NewHTTPServer builds the server and its routes.
func NewHTTPServer(
	cfg *config.Config,
	dep config.Deployment,
	svc *booking.Service,
	sessions *session.Manager,
	engine *availability.Engine,
	logger *zerolog.Logger,
) *HTTPServer {
	s := &HTTPServer{
		svc:      svc,
		sessions: sessions,
		engine:   engine,
		cfg:      cfg,
		dep:      dep,
		loc:      cfg.Location(),
		log:      logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/logout", s.handleLogout)
	mux.HandleFunc("/api/bookings", s.withAuth(s.handleBookings))
	mux.HandleFunc("/api/bookings/", s.withAuth(s.handleBookingByID))
	mux.HandleFunc("/api/availability", s.withAuth(s.handleAvailability))
	mux.HandleFunc("/api/last-used", s.withAuth(s.handleLastUsed))
	mux.HandleFunc("/api/export", s.withAuth(s.handleExport))

	s.server = &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until the context is cancelled, then shuts down
// gracefully.
func (s *HTTPServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "deployment": s.dep.Name})
}

// withAuth requires a valid session when the deployment has login
// enabled; the resolved username travels in the request context.
func (s *HTTPServer) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.dep.Auth {
			next(w, r)
			return
		}

		token := r.Header.Get(sessionHeader)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing session token")
			return
		}

		user, err := s.sessions.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		ctx := context.WithValue(r.Context(), actorKey{}, user.Username)
		next(w, r.WithContext(ctx))
	}
}

type actorKey struct{}

// actor returns the authenticated username, or empty in deployments
// without login.
func actor(r *http.Request) string {
	if v, ok := r.Context().Value(actorKey{}).(string); ok {
		return v
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Unknown
// errors come back as a generic retry notice.
func (s *HTTPServer) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrConfirmation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrNotOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrSessionNotFound):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrTooManyAttempts):
		writeError(w, http.StatusTooManyRequests, err.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "something went wrong, try again")
	}
}
