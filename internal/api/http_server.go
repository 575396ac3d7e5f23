package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"maale/internal/config"
	"maale/internal/database"
	"maale/internal/export"
	"maale/internal/metrics"
	"maale/internal/models"
	"maale/internal/notify"
	"maale/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// HTTPServer exposes the booking, announcement and admin-log operations as
// a JSON API consumed by the web form.
type HTTPServer struct {
	cfg           config.ServerConfig
	auth          *service.AuthService
	bookings      *service.BookingService
	announcements *service.AnnouncementService
	adminLog      *service.AdminLogService
	exporter      *export.Exporter
	server        *http.Server
	limiters      sync.Map // map[string]*rate.Limiter
	log           zerolog.Logger
}

func NewHTTPServer(
	cfg config.ServerConfig,
	monitoring config.MonitoringConfig,
	auth *service.AuthService,
	bookings *service.BookingService,
	announcements *service.AnnouncementService,
	adminLog *service.AdminLogService,
	exporter *export.Exporter,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:           cfg,
		auth:          auth,
		bookings:      bookings,
		announcements: announcements,
		adminLog:      adminLog,
		exporter:      exporter,
	}
	if logger != nil {
		srv.log = logger.With().Str("component", "api").Logger()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/login", srv.handleLogin)
	mux.HandleFunc("/api/v1/logout", srv.handleLogout)
	mux.HandleFunc("/api/v1/slots", srv.handleSlots)
	mux.HandleFunc("/api/v1/schedule", srv.handleSchedule)
	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/bookings/", srv.handleBookingByID)
	mux.HandleFunc("/api/v1/bookings/search", srv.handleSearch)
	mux.HandleFunc("/api/v1/announcement", srv.handleActiveAnnouncement)
	mux.HandleFunc("/api/v1/announcements", srv.handleAnnouncements)
	mux.HandleFunc("/api/v1/announcements/latest", srv.handleDeleteAnnouncement)
	mux.HandleFunc("/api/v1/adminlog", srv.handleAdminLog)
	mux.HandleFunc("/api/v1/export", srv.handleExport)
	mux.HandleFunc("/healthz", srv.handleHealth)
	if monitoring.PrometheusEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}

	handler := srv.loggingMiddleware(srv.rateLimitMiddleware(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// actor resolves the request's session token to an actor. Requests without
// a token act as guests; role gating happens in the services as well, so
// the API layer is not the only line of defense.
func (s *HTTPServer) actor(r *http.Request) models.Actor {
	token := r.Header.Get(s.cfg.SessionHeader)
	return s.auth.Resolve(r.Context(), token)
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("dur", time.Since(start)).
			Msg("http request")
	})
}

func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RateLimit.RPS > 0 {
			lim := s.getLimiter(s.clientKey(r))
			if !lim.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey identifies a client for rate limiting: the session token when
// present, the remote host otherwise.
func (s *HTTPServer) clientKey(r *http.Request) string {
	if token := r.Header.Get(s.cfg.SessionHeader); token != "" {
		return token
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (s *HTTPServer) getLimiter(key string) *rate.Limiter {
	if v, ok := s.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := s.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(s.cfg.RateLimit.RPS), burst)
	actual, loaded := s.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

// writeServiceError maps service errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrValidation),
		errors.Is(err, database.ErrPastDate),
		errors.Is(err, database.ErrDateTooFar):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, notify.ErrPhoneFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrSlotTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, database.ErrAuthFailed):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, database.ErrNotFound),
		errors.Is(err, database.ErrNothingToDelete):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
