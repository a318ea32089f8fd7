// Package fibonacci computes Fibonacci numbers of arbitrary size.
//
// Three algorithms are provided and always agree:
//
//   - Linear: repeated addition from (F(0), F(1)), O(n) additions.
//   - Matrix: F(n) is the lower-right entry of M^(n-1) for
//     M = [[0, 1], [1, 1]], computed by binary exponentiation.
//   - Hybrid: M is squared up to the largest power of two 2^p ≤ n-1, and the
//     remaining r < 2^p steps are done by addition from the pair read off
//     M^(2^p).
//
// The convention is F(0) = 0 and F(1) = 1. Negative indices are clamped to 0.
//
// The plain functions (LinearFibonacci, MatrixFibonacci, HybridFibonacci,
// Fibonacci, Compute) are synchronous. The Calculator types wrap the same
// algorithms with cancellation, progress reporting and metrics.
package fibonacci

import (
	"context"
	"fmt"
	"math/big"
	"strings"
)

// Algorithm identifies one of the Fibonacci algorithms.
type Algorithm int

const (
	// AlgorithmLinear advances a State n-1 times.
	AlgorithmLinear Algorithm = iota
	// AlgorithmMatrix raises M to the power n-1.
	AlgorithmMatrix
	// AlgorithmHybrid squares M to the largest power of two, then advances.
	AlgorithmHybrid
)

var algorithmNames = [...]string{
	AlgorithmLinear: "linear",
	AlgorithmMatrix: "matrix",
	AlgorithmHybrid: "hybrid",
}

// Algorithms returns every known algorithm in declaration order.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmLinear, AlgorithmMatrix, AlgorithmHybrid}
}

// String returns the registry name of the algorithm.
func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// ParseAlgorithm maps a name such as "matrix" (case-insensitive) to its
// Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range algorithmNames {
		if n == key {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownAlgorithm)
}

// LinearFibonacci returns F(n) by repeated addition.
func LinearFibonacci(n int64) *big.Int {
	res, _ := linearFib(context.Background(), clampIndex(n), nil)
	return res
}

// MatrixFibonacci returns F(n) as the lower-right entry of M^(n-1).
func MatrixFibonacci(n int64) *big.Int {
	res, _ := matrixFib(context.Background(), clampIndex(n), newMatrixOps(Options{}), nil)
	return res
}

// HybridFibonacci returns F(n) using matrix squaring up to the largest power
// of two followed by linear catch-up.
func HybridFibonacci(n int64) *big.Int {
	res, _ := hybridFib(context.Background(), clampIndex(n), newMatrixOps(Options{}), nil)
	return res
}

// Fibonacci returns F(n). It is the default entry point and uses the hybrid
// algorithm.
func Fibonacci(n int64) *big.Int {
	return HybridFibonacci(n)
}

// Compute returns F(n) using the requested algorithm.
func Compute(algo Algorithm, n int64) (*big.Int, error) {
	switch algo {
	case AlgorithmLinear:
		return LinearFibonacci(n), nil
	case AlgorithmMatrix:
		return MatrixFibonacci(n), nil
	case AlgorithmHybrid:
		return HybridFibonacci(n), nil
	default:
		return nil, fmt.Errorf("compute F(%d) with %s: %w", n, algo, ErrUnknownAlgorithm)
	}
}

// clampIndex maps negative indices to 0.
func clampIndex(n int64) uint64 {
	if n <= 0 {
		return 0
	}
	return uint64(n)
}

func linearFib(ctx context.Context, n uint64, reporter ProgressReporter) (*big.Int, error) {
	if n == 0 {
		return big.NewInt(0), nil
	}
	s := NewState()
	if err := s.advanceBy(ctx, n-1, reporter); err != nil {
		return nil, err
	}
	return s.current, nil
}

func matrixFib(ctx context.Context, n uint64, ops matrixOps, reporter ProgressReporter) (*big.Int, error) {
	if n == 0 {
		return big.NewInt(0), nil
	}
	m, err := powMatrix(ctx, Base(), n-1, ops, reporter)
	if err != nil {
		return nil, err
	}
	return m.D, nil
}

func hybridFib(ctx context.Context, n uint64, ops matrixOps, reporter ProgressReporter) (*big.Int, error) {
	if n < 2 {
		return new(big.Int).SetUint64(n), nil
	}
	split, err := SplitPowerOfTwo(n - 1)
	if err != nil {
		return nil, err
	}

	// Rough split of the progress bar between the two phases.
	matrixWeight := 1.0
	if split.Remaining > 0 {
		matrixWeight = 0.5
	}

	// M^v = [[F(v-1), F(v)], [F(v), F(v+1)]]
	m, err := squareChain(ctx, Base(), split.Power, ops, phaseReporter(reporter, 0, matrixWeight))
	if err != nil {
		return nil, err
	}

	// m is owned here, so its entries seed the State without copies.
	s := &State{previous: m.B, current: m.D}
	if err := s.advanceBy(ctx, split.Remaining, phaseReporter(reporter, matrixWeight, 1-matrixWeight)); err != nil {
		return nil, err
	}
	return s.current, nil
}
