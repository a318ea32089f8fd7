package fibonacci

import (
	"math/big"
	"testing"
)

func TestNormalizeOptions(t *testing.T) {
	t.Parallel()

	t.Run("applies all defaults when options are zero", func(t *testing.T) {
		t.Parallel()
		normalized := normalizeOptions(Options{})
		if normalized.StrassenThreshold != DefaultStrassenThreshold {
			t.Errorf("StrassenThreshold = %d, want %d", normalized.StrassenThreshold, DefaultStrassenThreshold)
		}
		if normalized.Strategy == nil || normalized.Strategy.Name() != DefaultStrategy().Name() {
			t.Errorf("Strategy = %v, want default", normalized.Strategy)
		}
	})

	t.Run("preserves non-zero values", func(t *testing.T) {
		t.Parallel()
		normalized := normalizeOptions(Options{StrassenThreshold: 3456, Strategy: BigStrategy{}})
		if normalized.StrassenThreshold != 3456 {
			t.Errorf("StrassenThreshold = %d, want 3456", normalized.StrassenThreshold)
		}
	})

	t.Run("negative threshold falls back to default", func(t *testing.T) {
		t.Parallel()
		if got := normalizeOptions(Options{StrassenThreshold: -1}).StrassenThreshold; got != DefaultStrassenThreshold {
			t.Errorf("StrassenThreshold = %d, want %d", got, DefaultStrassenThreshold)
		}
	})
}

func TestBigStrategy(t *testing.T) {
	t.Parallel()

	s := BigStrategy{}
	x, _ := new(big.Int).SetString("-123456789012345678901234567890", 10)
	y := big.NewInt(987654321)

	want := new(big.Int).Mul(x, y)
	if got := s.Multiply(nil, x, y); got.Cmp(want) != 0 {
		t.Errorf("Multiply = %s, want %s", got, want)
	}

	z := new(big.Int)
	if got := s.Square(z, x); got != z || got.Cmp(new(big.Int).Mul(x, x)) != 0 {
		t.Errorf("Square should store x² in z")
	}
	if s.Name() == "" {
		t.Error("Name() should not be empty")
	}
}
