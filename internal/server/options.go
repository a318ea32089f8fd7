package server

import (
	"time"

	"github.com/agbru/fibmatrix/internal/logging"
	"github.com/agbru/fibmatrix/internal/service"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for the access log and server events.
// A nil logger is ignored.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTimeouts overrides the HTTP and calculation timeouts.
func WithTimeouts(timeouts Timeouts) Option {
	return func(s *Server) {
		s.timeouts = timeouts
	}
}

// WithRateLimiter replaces the per-client rate limiter built from the
// configuration. A nil limiter is ignored.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) {
		if rl != nil {
			s.rateLimiter = rl
		}
	}
}

// WithService replaces the calculation backend. A nil service is ignored.
func WithService(svc service.Service) Option {
	return func(s *Server) {
		if svc != nil {
			s.service = svc
		}
	}
}

// Timeouts holds the timeouts of the HTTP server.
type Timeouts struct {
	// RequestTimeout bounds a single calculation.
	RequestTimeout time.Duration
	// ShutdownTimeout bounds the graceful shutdown.
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// DefaultServerTimeouts returns the timeouts used when none are given.
// RequestTimeout is replaced by the configured calculation timeout when set.
func DefaultServerTimeouts() Timeouts {
	return Timeouts{
		RequestTimeout:  5 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Minute,
		IdleTimeout:     2 * time.Minute,
	}
}
