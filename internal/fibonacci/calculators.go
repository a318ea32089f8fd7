package fibonacci

import (
	"context"
	"math/big"
)

// LinearCalculator computes F(n) by n-1 additions. It is the baseline the
// other algorithms are checked against.
type LinearCalculator struct{}

// Name returns the registry name.
func (c *LinearCalculator) Name() string {
	return AlgorithmLinear.String()
}

// CalculateCore runs the linear algorithm. Options are unused: additions
// always go through math/big.
func (c *LinearCalculator) CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, _ Options) (*big.Int, error) {
	return linearFib(ctx, n, reporter)
}

// MatrixCalculator computes F(n) as the lower-right entry of M^(n-1).
type MatrixCalculator struct{}

// Name returns the registry name.
func (c *MatrixCalculator) Name() string {
	return AlgorithmMatrix.String()
}

// CalculateCore runs binary matrix exponentiation with the multiplication
// strategy and Strassen threshold from opts.
func (c *MatrixCalculator) CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) (*big.Int, error) {
	return matrixFib(ctx, n, newMatrixOps(opts), reporter)
}

// HybridCalculator squares M up to the largest power of two below n and
// finishes with linear steps.
type HybridCalculator struct{}

// Name returns the registry name.
func (c *HybridCalculator) Name() string {
	return AlgorithmHybrid.String()
}

// CalculateCore runs the hybrid algorithm.
func (c *HybridCalculator) CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) (*big.Int, error) {
	return hybridFib(ctx, n, newMatrixOps(opts), reporter)
}
