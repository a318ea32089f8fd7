//go:build gmp

// This file provides a GMP-backed multiplication strategy, conditionally
// compiled with the "gmp" build tag:
//   - Projects build without GMP by default, using math/big
//   - GMP support is opt-in: go build -tags=gmp
//   - libgmp must be installed (libgmp-dev on Debian/Ubuntu, brew install gmp)
//
// Only multiplications are delegated. Operands are converted at each call,
// so the strategy pays off for very large entries where GMP's assembly
// kernels outrun the conversion cost.

package fibonacci

import (
	"math/big"

	"github.com/ncw/gmp"
)

func init() {
	defaultStrategy = GMPStrategy{}
}

// GMPStrategy multiplies through the GMP library.
type GMPStrategy struct{}

// Name returns the name of the GMP strategy.
func (GMPStrategy) Name() string {
	return "GMP"
}

// Multiply performs z = x * y using mpz_mul.
func (GMPStrategy) Multiply(z, x, y *big.Int) *big.Int {
	if z == nil {
		z = new(big.Int)
	}
	g := gmp.NewInt(0)
	g.Mul(toGMP(x), toGMP(y))
	return fromGMP(z, g)
}

// Square performs z = x * x using mpz_mul with aliased operands.
func (GMPStrategy) Square(z, x *big.Int) *big.Int {
	if z == nil {
		z = new(big.Int)
	}
	gx := toGMP(x)
	g := gmp.NewInt(0)
	g.Mul(gx, gx)
	return fromGMP(z, g)
}

// toGMP converts a math/big integer, sign included. Strassen intermediates
// can be negative.
func toGMP(x *big.Int) *gmp.Int {
	g := gmp.NewInt(0).SetBytes(x.Bytes())
	if x.Sign() < 0 {
		g.Neg(g)
	}
	return g
}

// fromGMP stores g into z and returns z.
func fromGMP(z *big.Int, g *gmp.Int) *big.Int {
	z.SetBytes(g.Bytes())
	if g.Sign() < 0 {
		z.Neg(z)
	}
	return z
}
