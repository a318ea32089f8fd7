package fibonacci

import (
	"math/big"
	"testing"
)

func TestMatrixConstructors(t *testing.T) {
	t.Parallel()

	if got := Identity().String(); got != "[[1 0] [0 1]]" {
		t.Errorf("Identity() = %s", got)
	}
	if got := Base().String(); got != "[[0 1] [1 1]]" {
		t.Errorf("Base() = %s", got)
	}
	if !Base().IsSymmetric() {
		t.Error("Base() should be symmetric")
	}
	if NewMatrix(1, 2, 3, 4).IsSymmetric() {
		t.Error("[[1 2] [3 4]] should not be symmetric")
	}
}

func TestMatrixMul(t *testing.T) {
	t.Parallel()

	m1 := NewMatrix(1, 2, 3, 4)
	m2 := NewMatrix(5, 6, 7, 8)
	want := NewMatrix(19, 22, 43, 50)

	got := m1.Mul(m2)
	if !got.Equal(want) {
		t.Errorf("Mul = %s, want %s", got, want)
	}
	if !m1.Equal(NewMatrix(1, 2, 3, 4)) || !m2.Equal(NewMatrix(5, 6, 7, 8)) {
		t.Error("Mul modified its operands")
	}
	if !m1.Mul(Identity()).Equal(m1) || !Identity().Mul(m1).Equal(m1) {
		t.Error("identity is not neutral")
	}
}

func TestMatrixSquare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		m    Matrix
	}{
		{"symmetric", NewMatrix(2, 3, 3, 5)},
		{"general", NewMatrix(1, 2, 3, 4)},
		{"negative", NewMatrix(-7, 4, 4, -1)},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			want := newMatrixOps(Options{}).multiplyClassic(tc.m, tc.m)
			if got := tc.m.Square(); !got.Equal(want) {
				t.Errorf("Square(%s) = %s, want %s", tc.m, got, want)
			}
		})
	}
}

func TestMatrixPow(t *testing.T) {
	t.Parallel()

	if got := Base().Pow(0); !got.Equal(Identity()) {
		t.Errorf("M^0 = %s, want identity", got)
	}
	if got := Base().Pow(1); !got.Equal(Base()) {
		t.Errorf("M^1 = %s, want M", got)
	}

	// Pow against repeated multiplication.
	m := NewMatrix(1, 1, 2, 0)
	acc := Identity()
	for k := uint64(0); k <= 40; k++ {
		if got := m.Pow(k); !got.Equal(acc) {
			t.Fatalf("m^%d = %s, want %s", k, got, acc)
		}
		acc = acc.Mul(m)
	}

	// M^10 = [[F(9) F(10)] [F(10) F(11)]]
	if got := Base().Pow(10); !got.Equal(NewMatrix(34, 55, 55, 89)) {
		t.Errorf("M^10 = %s", got)
	}
}

// TestMatrixStrassenThreshold forces every product through Strassen and
// checks the results are unchanged.
func TestMatrixStrassenThreshold(t *testing.T) {
	t.Parallel()

	classic := newMatrixOps(Options{StrassenThreshold: 1 << 30})
	strassen := newMatrixOps(Options{StrassenThreshold: 1})

	m1 := Base().Pow(300)
	m2 := Base().Pow(517)
	if !classic.multiply(m1, m2).Equal(strassen.multiply(m1, m2)) {
		t.Error("Strassen product differs from classic product")
	}
	if !strassen.multiply(m1, m2).Equal(Base().Pow(817)) {
		t.Error("M^300 * M^517 != M^817")
	}
}

func TestMatrixRowsAndLowerRight(t *testing.T) {
	t.Parallel()

	m := NewMatrix(1, 2, 3, 4)
	rows := m.Rows()
	if len(rows) != 2 || len(rows[0]) != 2 || rows[1][0].Int64() != 3 {
		t.Fatalf("Rows() = %v", rows)
	}

	lr := m.LowerRight()
	if lr.Int64() != 4 {
		t.Errorf("LowerRight() = %s, want 4", lr)
	}
	lr.SetInt64(99)
	if m.D.Int64() != 4 {
		t.Error("LowerRight() returned the matrix's own entry")
	}

	got, ok := LowerRight(rows)
	if !ok || got.Int64() != 4 {
		t.Errorf("LowerRight(rows) = %v, %v; want 4, true", got, ok)
	}
}

func TestLowerRightRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rows   [][]*big.Int
		want   int64
		wantOK bool
	}{
		{"nil", nil, 0, false},
		{"no rows", [][]*big.Int{}, 0, false},
		{"empty last row", [][]*big.Int{{big.NewInt(1)}, {}}, 0, false},
		{"nil entry", [][]*big.Int{{nil}}, 0, false},
		{"1x1", [][]*big.Int{{big.NewInt(7)}}, 7, true},
		{"3x3", [][]*big.Int{
			{big.NewInt(1), big.NewInt(2), big.NewInt(3)},
			{big.NewInt(4), big.NewInt(5), big.NewInt(6)},
			{big.NewInt(7), big.NewInt(8), big.NewInt(9)},
		}, 9, true},
		{"ragged", [][]*big.Int{
			{big.NewInt(1), big.NewInt(2), big.NewInt(3)},
			{big.NewInt(4), big.NewInt(5)},
		}, 5, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := LowerRight(tc.rows)
			if ok != tc.wantOK {
				t.Fatalf("LowerRight ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				if got != nil {
					t.Errorf("LowerRight returned %s with ok=false", got)
				}
				return
			}
			if got.Int64() != tc.want {
				t.Errorf("LowerRight = %s, want %d", got, tc.want)
			}
		})
	}
}

func TestMaxBitLen(t *testing.T) {
	t.Parallel()

	m := NewMatrix(1, 255, 16, -1024)
	if got := maxBitLenMatrix(m); got != 11 {
		t.Errorf("maxBitLenMatrix = %d, want 11", got)
	}
	if got := maxBitLenTwoMatrices(Identity(), m); got != 11 {
		t.Errorf("maxBitLenTwoMatrices = %d, want 11", got)
	}
}
