package fibonacci

import (
	"context"
	"errors"
	"math/big"
	"testing"
)

func TestNewState(t *testing.T) {
	t.Parallel()

	s := NewState()
	if s.Previous().Sign() != 0 || s.Current().Int64() != 1 {
		t.Errorf("NewState() = (%s, %s), want (0, 1)", s.Previous(), s.Current())
	}
	if got := s.String(); got != ",0,=>1" {
		t.Errorf("String() = %q, want %q", got, ",0,=>1")
	}
}

func TestStateAdvance(t *testing.T) {
	t.Parallel()

	s := NewState()
	traces := []string{"0,1,=>1", "1,1,=>2", "1,2,=>3", "2,3,=>5", "3,5,=>8"}
	for i, want := range traces {
		if got := s.Advance().String(); got != want {
			t.Errorf("after %d advances String() = %q, want %q", i+1, got, want)
		}
	}

	// Chaining returns the receiver.
	if s.Advance() != s {
		t.Error("Advance should return its receiver")
	}
}

func TestStateAdvanceBy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		k        uint64
		previous int64
		current  int64
	}{
		{"zero is a no-op", 0, 0, 1},
		{"one", 1, 1, 1},
		{"ten", 10, 55, 89},
		{"nineteen", 19, 4181, 6765},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := NewState().AdvanceBy(tc.k)
			if s.Previous().Int64() != tc.previous || s.Current().Int64() != tc.current {
				t.Errorf("AdvanceBy(%d) = (%s, %s), want (%d, %d)", tc.k, s.Previous(), s.Current(), tc.previous, tc.current)
			}
		})
	}
}

func TestStateAdvanceByMatchesAdvance(t *testing.T) {
	t.Parallel()

	a := NewState().AdvanceBy(5000)
	b := NewState()
	for i := 0; i < 5000; i++ {
		b.Advance()
	}
	if a.String() != b.String() {
		t.Error("AdvanceBy(5000) differs from 5000 calls to Advance")
	}
}

func TestStateFromCopiesInputs(t *testing.T) {
	t.Parallel()

	p, c := big.NewInt(5), big.NewInt(8)
	s := StateFrom(p, c)
	p.SetInt64(-1)
	c.SetInt64(-1)
	if got := s.Advance().Current().Int64(); got != 13 {
		t.Errorf("StateFrom(5, 8).Advance() = %d, want 13", got)
	}

	// Accessors return copies too.
	s.Current().SetInt64(0)
	if s.Current().Int64() != 13 {
		t.Error("Current() exposed internal state")
	}
}

func TestStateAdvanceByCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewState()
	err := s.advanceBy(ctx, 1_000_000, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("advanceBy error = %v, want context.Canceled", err)
	}
	if s.Current().Int64() != 1 {
		t.Errorf("canceled state moved to %s", s.Current())
	}
}

func TestStateAdvanceByProgress(t *testing.T) {
	t.Parallel()

	var reports []float64
	s := NewState()
	if err := s.advanceBy(context.Background(), 10*linearCheckInterval, func(p float64) {
		reports = append(reports, p)
	}); err != nil {
		t.Fatal(err)
	}
	if len(reports) == 0 || reports[len(reports)-1] != 1.0 {
		t.Fatalf("final progress should be 1.0, got %v", reports)
	}
	for i := 1; i < len(reports); i++ {
		if reports[i] < reports[i-1] {
			t.Errorf("progress decreased: %v", reports)
		}
	}
}
