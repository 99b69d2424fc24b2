package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-evaluator/internal/engine"
	"github.com/jonathan/candidate-evaluator/internal/logger"
	"github.com/jonathan/candidate-evaluator/internal/observability"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// Config holds server configuration
type Config struct {
	Port            int
	MaxBodyBytes    int64
	MaxBatchSize    int
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the configuration used by `serve` when flags are left unset.
func DefaultConfig() Config {
	return Config{
		Port:            8080,
		MaxBodyBytes:    10 << 20,
		MaxBatchSize:    1000,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Server is the HTTP API server
type Server struct {
	cfg        Config
	engine     *engine.Engine
	metrics    *observability.Metrics
	logger     *zap.Logger
	handler    http.Handler
	httpServer *http.Server
}

// New creates a new server. metrics and log may be nil.
func New(cfg Config, eng *engine.Engine, metrics *observability.Metrics, log *zap.Logger) (*Server, error) {
	if eng == nil {
		return nil, errors.New("server requires an evaluation engine")
	}
	defaults := DefaultConfig()
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = defaults.MaxBatchSize
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}

	s := &Server{
		cfg:     cfg,
		engine:  eng,
		metrics: metrics,
		logger:  logger.WithFields(log),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /evaluate", s.handleEvaluate)
	mux.HandleFunc("POST /rank", s.handleRank)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	s.handler = s.withRequestID(s.withLogging(mux))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // large rank batches
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

type requestIDKey struct{}

// RequestID returns the ID assigned to the request, or "" outside the middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// withRequestID reuses a caller-supplied request ID or assigns a new one.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs each request and records it in the HTTP metrics.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		// The mux fills in Pattern on the request it routes; unmatched paths share one label.
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		s.metrics.ObserveRequest(r.Method, path, rec.status, elapsed)
		s.logger.Info("request completed",
			zap.String(logger.FieldRequest, RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse maps err to a status code and writes it as JSON.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String(logger.FieldRequest, RequestID(r.Context())),
			zap.Error(err),
		)
	}
	s.jsonResponse(w, status, newErrorResponse(err, status))
}
