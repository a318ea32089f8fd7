package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/agbru/fibmatrix/internal/config"
	apperrors "github.com/agbru/fibmatrix/internal/errors"
	"github.com/agbru/fibmatrix/internal/fibonacci"
	"github.com/agbru/fibmatrix/internal/logging"
	"github.com/agbru/fibmatrix/internal/service"
)

// limiterCleanupInterval is how often idle rate limiter buckets are dropped.
const limiterCleanupInterval = time.Minute

// Server serves the Fibonacci API:
//
//	GET /fibonacci?n=<int>&algo=<name>
//	GET /algorithms
//	GET /health
//	GET /metrics
type Server struct {
	service     service.Service
	cfg         config.AppConfig
	httpServer  *http.Server
	logger      logging.Logger
	rateLimiter *RateLimiter
	metrics     *Metrics
	timeouts    Timeouts
	started     time.Time
}

// NewServer builds a Server computing with the calculators of factory,
// unless WithService supplies another backend. Options are applied after the
// defaults derived from cfg.
func NewServer(factory fibonacci.CalculatorFactory, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   logging.NewNopLogger(),
		metrics:  NewMetrics(),
		timeouts: DefaultServerTimeouts(),
		started:  time.Now(),
	}
	if cfg.Timeout > 0 {
		s.timeouts.RequestTimeout = cfg.Timeout
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.service == nil {
		s.service = service.NewCalculatorService(factory, cfg, uint64(max(cfg.MaxN, 0)))
	}
	if s.rateLimiter == nil {
		s.rateLimiter = NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.Handler(),
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
		ErrorLog:     logging.StdLogger(s.logger),
	}
	return s
}

// Handler returns the routed handler with the middleware chain applied:
// request ID, access log, security headers, rate limit, then the endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/fibonacci", s.handleFibonacci)
	mux.HandleFunc("/algorithms", s.handleAlgorithms)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/metrics", s.handleMetrics)

	var h http.Handler = mux
	h = s.rateLimitMiddleware(h)
	h = securityHeadersMiddleware(h)
	h = s.accessLogMiddleware(h)
	h = requestIDMiddleware(h)
	return h
}

// Start listens on the configured port and serves until ctx is done, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return apperrors.NewServerError("server failed to start", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener, which it closes on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			logging.String("addr", ln.Addr().String()),
			logging.Int("strassen_threshold", s.cfg.StrassenThreshold),
			logging.Int64("max_n", s.cfg.MaxN),
			logging.Duration("request_timeout", s.timeouts.RequestTimeout),
		)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case err, ok := <-errCh:
			if ok {
				return apperrors.NewServerError("server failed", err)
			}
			return nil
		case <-ticker.C:
			if n := s.rateLimiter.Cleanup(); n > 0 {
				s.logger.Debug("dropped idle rate limiter buckets", logging.Int("count", n))
			}
		case <-ctx.Done():
			s.logger.Info("shutdown requested, draining connections")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
			defer cancel()
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				return apperrors.NewServerError("failed to gracefully shutdown server", err)
			}
			s.logger.Info("server stopped gracefully")
			return nil
		}
	}
}
