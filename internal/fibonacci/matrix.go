package fibonacci

import (
	"context"
	"fmt"
	"math/big"
)

// Matrix is a 2x2 matrix of arbitrary-precision integers in row-major order:
//
//	[ A B ]
//	[ C D ]
//
// Matrix is a value type: Mul, Square and Pow return new matrices and never
// modify their operands. A zero Matrix has nil entries and must not be used;
// build matrices with NewMatrix, Identity or Base.
//
// Mathematical Basis:
// For the base matrix M = [[0, 1], [1, 1]],
//
//	M^k = [ F(k-1) F(k)   ]
//	      [ F(k)   F(k+1) ]
//
// so every power of M is symmetric and its lower-right entry is F(k+1).
type Matrix struct {
	A, B, C, D *big.Int
}

// NewMatrix returns the matrix [[a, b], [c, d]].
func NewMatrix(a, b, c, d int64) Matrix {
	return Matrix{
		A: big.NewInt(a),
		B: big.NewInt(b),
		C: big.NewInt(c),
		D: big.NewInt(d),
	}
}

// Identity returns the multiplicative identity [[1, 0], [0, 1]].
func Identity() Matrix {
	return NewMatrix(1, 0, 0, 1)
}

// Base returns the Fibonacci transformation matrix M = [[0, 1], [1, 1]].
// Multiplying the column vector (F(k-1), F(k)) by M yields (F(k), F(k+1)).
func Base() Matrix {
	return NewMatrix(0, 1, 1, 1)
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	return Matrix{
		A: new(big.Int).Set(m.A),
		B: new(big.Int).Set(m.B),
		C: new(big.Int).Set(m.C),
		D: new(big.Int).Set(m.D),
	}
}

// Mul returns the product m * other using the default options.
func (m Matrix) Mul(other Matrix) Matrix {
	return newMatrixOps(Options{}).multiply(m, other)
}

// Square returns m * m. Symmetric matrices (B == C) are squared with four
// multiplications instead of eight.
func (m Matrix) Square() Matrix {
	return newMatrixOps(Options{}).square(m)
}

// Pow returns m^k computed by binary exponentiation (square-and-multiply),
// using O(log k) matrix products. Pow(0) is the identity.
func (m Matrix) Pow(k uint64) Matrix {
	// A background context never cancels, so the error is always nil.
	res, _ := powMatrix(context.Background(), m, k, newMatrixOps(Options{}), nil)
	return res
}

// IsSymmetric reports whether the anti-diagonal entries are equal.
func (m Matrix) IsSymmetric() bool {
	return m.B.Cmp(m.C) == 0
}

// Equal reports whether m and other hold the same four values.
func (m Matrix) Equal(other Matrix) bool {
	return m.A.Cmp(other.A) == 0 && m.B.Cmp(other.B) == 0 &&
		m.C.Cmp(other.C) == 0 && m.D.Cmp(other.D) == 0
}

// Rows returns the entries as a row slice. The returned integers are the
// matrix's own entries, not copies.
func (m Matrix) Rows() [][]*big.Int {
	return [][]*big.Int{
		{m.A, m.B},
		{m.C, m.D},
	}
}

// LowerRight returns a copy of the entry at the last row and last column.
func (m Matrix) LowerRight() *big.Int {
	return new(big.Int).Set(m.D)
}

// String renders the matrix as [[A B] [C D]].
func (m Matrix) String() string {
	return fmt.Sprintf("[[%s %s] [%s %s]]", m.A, m.B, m.C, m.D)
}

// LowerRight returns the entry at the last row and last column of a matrix
// given as rows. The second result is false when the matrix is degenerate
// (no rows, an empty last row or a nil entry); callers must handle that absent value.
func LowerRight(rows [][]*big.Int) (*big.Int, bool) {
	if len(rows) == 0 {
		return nil, false
	}
	last := rows[len(rows)-1]
	if len(last) == 0 {
		return nil, false
	}
	v := last[len(last)-1]
	if v == nil {
		return nil, false
	}
	return v, true
}
