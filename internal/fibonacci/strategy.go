// Package fibonacci provides implementations for calculating Fibonacci numbers.
// This file defines the big integer arithmetic collaborator used by the
// matrix and state types.
package fibonacci

import (
	"math/big"
)

// MultiplicationStrategy defines the arbitrary-precision multiplication used
// by matrix products and squarings. Additions always go through math/big;
// multiplications dominate the cost and are the only operations worth
// swapping for a different backend.
type MultiplicationStrategy interface {
	// Multiply computes x * y and stores the result in z (which may be nil).
	// The result is returned, which may be z or a new *big.Int.
	Multiply(z, x, y *big.Int) *big.Int

	// Square computes x * x and stores the result in z (which may be nil).
	Square(z, x *big.Int) *big.Int

	// Name returns a descriptive name for the strategy.
	Name() string
}

// BigStrategy multiplies with math/big, which switches internally to
// Karatsuba multiplication for large operands.
type BigStrategy struct{}

// Name returns the name of the math/big strategy.
func (BigStrategy) Name() string {
	return "math/big (Karatsuba)"
}

// Multiply performs z = x * y with big.Int.Mul.
func (BigStrategy) Multiply(z, x, y *big.Int) *big.Int {
	if z == nil {
		z = new(big.Int)
	}
	return z.Mul(x, y)
}

// Square performs z = x * x. math/big detects the x == y case and uses its
// dedicated squaring routine.
func (BigStrategy) Square(z, x *big.Int) *big.Int {
	if z == nil {
		z = new(big.Int)
	}
	return z.Mul(x, x)
}

// defaultStrategy is replaced at init time when an alternative backend is
// compiled in (see strategy_gmp.go).
var defaultStrategy MultiplicationStrategy = BigStrategy{}

// DefaultStrategy returns the multiplication strategy used when Options does
// not specify one.
func DefaultStrategy() MultiplicationStrategy {
	return defaultStrategy
}
