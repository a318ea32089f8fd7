package fibonacci

import (
	"context"
	"fmt"
	"math/big"
	"math/bits"
)

// matrixOps bundles the multiplication backend and the Strassen threshold
// used by matrix products. It is created once per calculation from Options.
type matrixOps struct {
	strategy          MultiplicationStrategy
	strassenThreshold int
}

// newMatrixOps normalizes opts and returns the matching matrixOps.
func newMatrixOps(opts Options) matrixOps {
	normalized := normalizeOptions(opts)
	return matrixOps{
		strategy:          normalized.Strategy,
		strassenThreshold: normalized.StrassenThreshold,
	}
}

// multiply dynamically decides between the classic and Strassen
// multiplication algorithms based on the bit size of the operands.
func (o matrixOps) multiply(m1, m2 Matrix) Matrix {
	if maxBitLenTwoMatrices(m1, m2) <= o.strassenThreshold {
		return o.multiplyClassic(m1, m2)
	}
	return o.multiplyStrassen(m1, m2)
}

// multiplyClassic performs the textbook 2x2 product with 8 multiplications.
//
//	[a b] [e f]   [ae+bg af+bh]
//	[c d] [g h] = [ce+dg cf+dh]
func (o matrixOps) multiplyClassic(m1, m2 Matrix) Matrix {
	mul := o.strategy.Multiply
	ae, bg := mul(nil, m1.A, m2.A), mul(nil, m1.B, m2.C)
	af, bh := mul(nil, m1.A, m2.B), mul(nil, m1.B, m2.D)
	ce, dg := mul(nil, m1.C, m2.A), mul(nil, m1.D, m2.C)
	cf, dh := mul(nil, m1.C, m2.B), mul(nil, m1.D, m2.D)

	return Matrix{
		A: ae.Add(ae, bg),
		B: af.Add(af, bh),
		C: ce.Add(ce, dg),
		D: cf.Add(cf, dh),
	}
}

// multiplyStrassen implements the Strassen-Winograd variant: 7
// multiplications and 15 additions/subtractions.
func (o matrixOps) multiplyStrassen(m1, m2 Matrix) Matrix {
	mul := o.strategy.Multiply

	// Pre-computations (8 additions/subtractions)
	s1 := new(big.Int).Add(m1.C, m1.D) // S1 = A21 + A22
	s2 := new(big.Int).Sub(s1, m1.A)   // S2 = S1 - A11
	s3 := new(big.Int).Sub(m1.A, m1.C) // S3 = A11 - A21
	s4 := new(big.Int).Sub(m1.B, s2)   // S4 = A12 - S2
	s5 := new(big.Int).Sub(m2.B, m2.A) // S5 = B12 - B11
	s6 := new(big.Int).Sub(m2.D, s5)   // S6 = B22 - S5
	s7 := new(big.Int).Sub(m2.D, m2.B) // S7 = B22 - B12
	s8 := new(big.Int).Sub(s6, m2.C)   // S8 = S6 - B21

	// Products
	p1 := mul(nil, s2, s6)
	p2 := mul(nil, m1.A, m2.A)
	p3 := mul(nil, m1.B, m2.C)
	p4 := mul(nil, s3, s7)
	p5 := mul(nil, s1, s5)
	p6 := mul(nil, s4, m2.D)
	p7 := mul(nil, m1.D, s8)

	// Post-computations (7 additions/subtractions)
	t1 := new(big.Int).Add(p1, p2) // T1 = P1 + P2
	t2 := new(big.Int).Add(t1, p4) // T2 = T1 + P4

	c12 := new(big.Int).Add(t1, p5)
	return Matrix{
		A: new(big.Int).Add(p2, p3), // C11 = P2 + P3
		B: c12.Add(c12, p6),         // C12 = T1 + P5 + P6
		C: new(big.Int).Sub(t2, p7), // C21 = T2 - P7
		D: new(big.Int).Add(t2, p5), // C22 = T2 + P5
	}
}

// square returns m * m, using squareSymmetric when B == C.
func (o matrixOps) square(m Matrix) Matrix {
	if m.IsSymmetric() {
		return o.squareSymmetric(m)
	}
	return o.multiply(m, m)
}

// squareSymmetric squares a symmetric matrix [[a, b], [b, d]]:
//
//	[a²+b²    b(a+d)]
//	[b(a+d)   b²+d² ]
//
// Three squarings and one general product instead of eight products.
func (o matrixOps) squareSymmetric(m Matrix) Matrix {
	a2 := o.strategy.Square(nil, m.A)
	b2 := o.strategy.Square(nil, m.B)
	d2 := o.strategy.Square(nil, m.D)
	ad := new(big.Int).Add(m.A, m.D)
	bAd := o.strategy.Multiply(nil, m.B, ad)

	return Matrix{
		A: a2.Add(a2, b2),
		B: bAd,
		C: new(big.Int).Set(bAd),
		D: d2.Add(b2, d2),
	}
}

// powMatrix computes base^k by binary exponentiation. It walks the bits of k
// from least to most significant, keeping a running square of base and
// multiplying the accumulator by it whenever the bit is set.
//
// The context is checked before every bit; reporter (may be nil) receives
// the normalized progress weighted by the growth of the operands.
func powMatrix(ctx context.Context, base Matrix, k uint64, ops matrixOps, reporter ProgressReporter) (Matrix, error) {
	result := Identity()
	if k == 0 {
		return result, nil
	}

	square := base.Clone()
	numBits := bits.Len64(k)
	totalWork := CalcTotalWork(numBits)
	workDone := 0.0
	lastReported := -1.0

	for i := 0; i < numBits; i++ {
		if err := ctx.Err(); err != nil {
			return Matrix{}, fmt.Errorf("matrix exponentiation canceled at bit %d/%d: %w", i, numBits-1, err)
		}

		if (k>>uint(i))&1 == 1 {
			result = ops.multiply(result, square)
		}
		if i < numBits-1 {
			square = ops.square(square)
		}

		// Work grows from LSB to MSB, so the step index is inverted.
		workDone = ReportStepProgress(reporter, &lastReported, totalWork, workDone, numBits-1-i, numBits)
	}
	return result, nil
}

// squareChain computes base^(2^p) with p successive squarings.
func squareChain(ctx context.Context, base Matrix, p uint, ops matrixOps, reporter ProgressReporter) (Matrix, error) {
	current := base.Clone()
	steps := int(p)
	totalWork := CalcTotalWork(steps)
	workDone := 0.0
	lastReported := -1.0

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return Matrix{}, fmt.Errorf("matrix squaring canceled at step %d/%d: %w", i, steps, err)
		}
		current = ops.square(current)
		workDone = ReportStepProgress(reporter, &lastReported, totalWork, workDone, steps-1-i, steps)
	}
	return current, nil
}

// maxBitLenMatrix returns the maximum bit length among the 4 entries.
func maxBitLenMatrix(m Matrix) int {
	maxLen := m.A.BitLen()
	for _, v := range [...]*big.Int{m.B, m.C, m.D} {
		if l := v.BitLen(); l > maxLen {
			maxLen = l
		}
	}
	return maxLen
}

// maxBitLenTwoMatrices returns the maximum bit length over both matrices.
func maxBitLenTwoMatrices(m1, m2 Matrix) int {
	return max(maxBitLenMatrix(m1), maxBitLenMatrix(m2))
}
