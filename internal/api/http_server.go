package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"courtpulse/internal/config"
	"courtpulse/internal/domain"
	"courtpulse/internal/metrics"
	"courtpulse/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HTTPServer exposes the analytics dashboard and booking endpoints.
type HTTPServer struct {
	cfg       config.APIConfig
	analytics *service.AnalyticsService
	courts    *service.CourtService
	bookings  *service.BookingService
	reports   domain.ReportScheduler
	server    *http.Server
	auth      *HTTPAuth
	logger    zerolog.Logger
}

func NewHTTPServer(
	cfg config.APIConfig,
	analytics *service.AnalyticsService,
	courts *service.CourtService,
	bookings *service.BookingService,
	reports domain.ReportScheduler,
	logger *zerolog.Logger,
) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:       cfg,
		analytics: analytics,
		courts:    courts,
		bookings:  bookings,
		reports:   reports,
		logger:    logger.With().Str("component", "http").Logger(),
	}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/api/v1/analytics/series", srv.handleSeries)
	mux.HandleFunc("/api/v1/analytics/metrics", srv.handleMetrics)
	mux.HandleFunc("/api/v1/analytics/proportions", srv.handleProportions)
	mux.HandleFunc("/api/v1/analytics/history", srv.handleHistory)
	mux.HandleFunc("/api/v1/courts", srv.handleCourts)
	mux.HandleFunc("/api/v1/bookings", srv.handleCreateBooking)
	mux.HandleFunc("/api/v1/bookings/status", srv.handleBookingStatus)
	mux.HandleFunc("/api/v1/reports", srv.handleEnqueueReport)
	mux.HandleFunc("/healthz", srv.handleHealth)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
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
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
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

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
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
