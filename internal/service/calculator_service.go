// Package service is the calculation boundary used by the HTTP server: it
// resolves algorithms by name, enforces the index limit and runs the
// calculation under the caller's context.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/agbru/fibmatrix/internal/config"
	"github.com/agbru/fibmatrix/internal/fibonacci"
)

// ErrMaxValueExceeded is returned for an index above the configured limit.
var ErrMaxValueExceeded = errors.New("n exceeds the maximum allowed value")

// Service computes Fibonacci numbers on behalf of remote callers.
type Service interface {
	// Calculate returns F(n) computed by the named algorithm.
	Calculate(ctx context.Context, algo string, n uint64) (*big.Int, error)
	// Algorithms lists the accepted algorithm names.
	Algorithms() []string
	// MaxN is the largest accepted index, 0 meaning no limit.
	MaxN() uint64
}

// CalculatorService implements Service over a calculator factory. Progress
// is exported on the fibmatrix_calculation_progress gauge, labelled by the
// algorithm's position in Algorithms.
type CalculatorService struct {
	factory fibonacci.CalculatorFactory
	opts    fibonacci.Options
	maxN    uint64
	metrics *fibonacci.MetricsObserver
}

// NewCalculatorService returns a service using factory and the calculation
// options of cfg. maxN of 0 disables the limit.
func NewCalculatorService(factory fibonacci.CalculatorFactory, cfg config.AppConfig, maxN uint64) *CalculatorService {
	return &CalculatorService{
		factory: factory,
		opts:    cfg.ToCalculationOptions(),
		maxN:    maxN,
		metrics: fibonacci.NewMetricsObserver(),
	}
}

func (s *CalculatorService) Calculate(ctx context.Context, algo string, n uint64) (*big.Int, error) {
	if s.maxN > 0 && n > s.maxN {
		return nil, fmt.Errorf("%w (%d > %d)", ErrMaxValueExceeded, n, s.maxN)
	}
	calc, err := s.factory.Get(algo)
	if err != nil {
		return nil, err
	}
	idx := slices.Index(s.factory.List(), algo)
	return fibonacci.RunWithObservers(ctx, calc, nil, idx, n, s.opts, s.metrics)
}

func (s *CalculatorService) Algorithms() []string { return s.factory.List() }

func (s *CalculatorService) MaxN() uint64 { return s.maxN }
