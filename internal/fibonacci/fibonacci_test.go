package fibonacci

import (
	"errors"
	"fmt"
	"math/big"
	"testing"
)

// referenceSequence holds F(0) through F(20).
var referenceSequence = []int64{
	0, 1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233, 377, 610, 987, 1597, 2584, 4181, 6765,
}

// knownFibResults is a test oracle of larger values.
var knownFibResults = []struct {
	n      int64
	result string
}{
	{50, "12586269025"},
	{64, "10610209857723"}, // Power of 2
	{65, "17167680177565"}, // Power of 2 plus one
	{92, "7540113804746346429"},
	{93, "12200160415121876738"}, // Max uint64
	{94, "19740274219868223167"}, // First overflow uint64
	{100, "354224848179261915075"},
	{128, "251728825683549488150424261"},
	{256, "141693817714056513234709965875411919657707794958199867"},
	{1000, "43466557686937456435688527675040625802564660517371780402481729089536555417949051890403879840079255169295922593080322634775209689623239873322471161642996440906533187938298969649928516003704476137795166849228875"},
}

var algorithmFuncs = map[string]func(int64) *big.Int{
	"Linear":    LinearFibonacci,
	"Matrix":    MatrixFibonacci,
	"Hybrid":    HybridFibonacci,
	"Fibonacci": Fibonacci,
}

func TestReferenceSequence(t *testing.T) {
	t.Parallel()
	for name, fn := range algorithmFuncs {
		fn := fn
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for n, want := range referenceSequence {
				if got := fn(int64(n)); got.Cmp(big.NewInt(want)) != 0 {
					t.Errorf("F(%d) = %s, want %d", n, got, want)
				}
			}
		})
	}
}

func TestKnownResults(t *testing.T) {
	t.Parallel()
	for name, fn := range algorithmFuncs {
		fn := fn
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for _, tc := range knownFibResults {
				want, _ := new(big.Int).SetString(tc.result, 10)
				if got := fn(tc.n); got.Cmp(want) != 0 {
					t.Errorf("F(%d) mismatch.\nExpected: %s\nGot:      %s", tc.n, want, got)
				}
			}
		})
	}
}

func TestBaseCasesAndClamping(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n    int64
		want int64
	}{
		{-1_000_000, 0},
		{-1, 0},
		{0, 0},
		{1, 1},
		{2, 1},
	}
	for name, fn := range algorithmFuncs {
		for _, tc := range tests {
			tc := tc
			t.Run(fmt.Sprintf("%s/N=%d", name, tc.n), func(t *testing.T) {
				t.Parallel()
				if got := fn(tc.n); got.Cmp(big.NewInt(tc.want)) != 0 {
					t.Errorf("F(%d) = %s, want %d", tc.n, got, tc.want)
				}
			})
		}
	}
}

// TestAlgorithmsAgree checks linear, matrix and hybrid on every n in [0, 1000].
func TestAlgorithmsAgree(t *testing.T) {
	t.Parallel()
	for n := int64(0); n <= 1000; n++ {
		linear := LinearFibonacci(n)
		matrix := MatrixFibonacci(n)
		hybrid := HybridFibonacci(n)
		if linear.Cmp(matrix) != 0 || linear.Cmp(hybrid) != 0 {
			t.Fatalf("disagreement at n=%d: linear=%s matrix=%s hybrid=%s", n, linear, matrix, hybrid)
		}
	}
}

func TestRepeatedCallsAreIdempotent(t *testing.T) {
	t.Parallel()
	for name, fn := range algorithmFuncs {
		fn := fn
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			first := fn(777)
			first.SetInt64(-1) // mutating a result must not leak into later calls
			second, third := fn(777), fn(777)
			if second.Cmp(third) != 0 {
				t.Errorf("results differ: %s vs %s", second, third)
			}
			if second.Sign() <= 0 {
				t.Errorf("result was affected by caller mutation: %s", second)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	t.Parallel()

	for _, algo := range Algorithms() {
		algo := algo
		t.Run(algo.String(), func(t *testing.T) {
			t.Parallel()
			got, err := Compute(algo, 20)
			if err != nil {
				t.Fatalf("Compute(%s, 20) error: %v", algo, err)
			}
			if got.Int64() != 6765 {
				t.Errorf("Compute(%s, 20) = %s, want 6765", algo, got)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		_, err := Compute(Algorithm(42), 10)
		if !errors.Is(err, ErrUnknownAlgorithm) {
			t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
		}
	})
}

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    Algorithm
		wantErr bool
	}{
		{"linear", AlgorithmLinear, false},
		{"MATRIX", AlgorithmMatrix, false},
		{" hybrid ", AlgorithmHybrid, false},
		{"fast", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseAlgorithm(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrUnknownAlgorithm) {
					t.Errorf("ParseAlgorithm(%q) error = %v, want ErrUnknownAlgorithm", tc.input, err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("ParseAlgorithm(%q) = %v, %v; want %v", tc.input, got, err, tc.want)
			}
		})
	}
}

func TestAlgorithmString(t *testing.T) {
	t.Parallel()
	if got := Algorithm(-1).String(); got != "Algorithm(-1)" {
		t.Errorf("String() = %q", got)
	}
	for _, algo := range Algorithms() {
		parsed, err := ParseAlgorithm(algo.String())
		if err != nil || parsed != algo {
			t.Errorf("round trip of %v failed: %v, %v", algo, parsed, err)
		}
	}
}
