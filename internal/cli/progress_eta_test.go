package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/fibmatrix/internal/fibonacci"
)

// algorithmStreams runs the three real calculators on one shared channel
// and returns their updates in emission order.
func algorithmStreams(t *testing.T, n uint64) []fibonacci.ProgressUpdate {
	t.Helper()
	factory := fibonacci.NewDefaultFactory()
	updates := make(chan fibonacci.ProgressUpdate, 8192)
	for i, name := range []string{"linear", "matrix", "hybrid"} {
		if _, err := factory.MustGet(name).Calculate(context.Background(), updates, i, n, fibonacci.Options{}); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	close(updates)

	var out []fibonacci.ProgressUpdate
	for u := range updates {
		out = append(out, u)
	}
	return out
}

func TestProgressWithETAAlgorithmStreams(t *testing.T) {
	t.Parallel()

	// n-1 is not a power of two: the hybrid has both phases.
	stream := algorithmStreams(t, 70_000)
	state := NewProgressWithETA(3)
	last := make([]float64, 3)
	prevAvg := 0.0
	for _, u := range stream {
		if u.Value < last[u.CalculatorIndex] {
			t.Errorf("calculator %d went backwards: %f after %f", u.CalculatorIndex, u.Value, last[u.CalculatorIndex])
		}
		last[u.CalculatorIndex] = u.Value

		avg, eta := state.UpdateWithETA(u.CalculatorIndex, u.Value)
		if avg < prevAvg || avg > 1 {
			t.Errorf("average %f after %f", avg, prevAvg)
		}
		if eta < 0 || eta > maxETA {
			t.Errorf("ETA %v out of range", eta)
		}
		prevAvg = avg
	}

	if got := state.CalculateAverage(); got != 1 {
		t.Errorf("final average = %f, want 1", got)
	}
	if eta := state.GetETA(); eta != 0 {
		t.Errorf("final ETA = %v, want 0", eta)
	}
}

// TestDisplayProgressAlgorithmStreams feeds the real streams through
// DisplayProgress. It swaps the package-level spinner constructor and so
// does not run in parallel.
func TestDisplayProgressAlgorithmStreams(t *testing.T) {
	original := newSpinner
	defer func() { newSpinner = original }()
	mockS := &mockSpinner{}
	newSpinner = func(options ...spinner.Option) Spinner { return mockS }

	stream := algorithmStreams(t, 70_000)
	progressChan := make(chan fibonacci.ProgressUpdate)
	var out bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, progressChan, 3, &out)

	// Linear and matrix finish first; the hybrid is held back.
	var held []fibonacci.ProgressUpdate
	for _, u := range stream {
		if u.CalculatorIndex == 2 {
			held = append(held, u)
			continue
		}
		progressChan <- u
	}

	var suffix string
	for deadline := time.Now().Add(5 * time.Second); time.Now().Before(deadline); time.Sleep(ProgressRefreshRate / 2) {
		if suffix = mockS.currentSuffix(); strings.Contains(suffix, "66.67%") {
			break
		}
	}
	if !strings.HasPrefix(suffix, " Avg progress:  66.67% [") || !strings.Contains(suffix, "] ETA: ") {
		t.Errorf("suffix with two of three done = %q", suffix)
	}

	for _, u := range held {
		progressChan <- u
	}
	close(progressChan)
	wg.Wait()

	want := "Avg progress: 100.00% [" + progressBar(1, ProgressBarWidth) + "] ETA: < 1s\n"
	if out.String() != want {
		t.Errorf("final line = %q, want %q", out.String(), want)
	}
	if !mockS.started || !mockS.stopped {
		t.Errorf("spinner started=%v stopped=%v", mockS.started, mockS.stopped)
	}
}

func TestProgressWithETAEstimate(t *testing.T) {
	t.Parallel()

	t.Run("half done after ten seconds", func(t *testing.T) {
		t.Parallel()
		p := NewProgressWithETA(2)
		p.startTime = time.Now().Add(-10 * time.Second)

		// The matrix run is done, the linear one has not reported yet.
		avg, eta := p.UpdateWithETA(1, 1.0)
		if avg != 0.5 {
			t.Fatalf("average = %f, want 0.5", avg)
		}
		if eta < 10*time.Second || eta > 11*time.Second {
			t.Errorf("ETA = %v, want about 10s", eta)
		}
	})

	t.Run("unknown before any update", func(t *testing.T) {
		t.Parallel()
		p := NewProgressWithETA(3)
		if eta := p.GetETA(); eta != 0 || FormatETA(eta) != "calculating..." {
			t.Errorf("GetETA() = %v (%q)", eta, FormatETA(eta))
		}
	})

	t.Run("slow start is capped", func(t *testing.T) {
		t.Parallel()
		p := NewProgressWithETA(1)
		p.startTime = time.Now().Add(-time.Hour)
		_, eta := p.UpdateWithETA(0, 0.0001)
		if eta != maxETA || FormatETA(eta) != "24h" {
			t.Errorf("ETA = %v (%q), want the 24h cap", eta, FormatETA(eta))
		}
	})

	t.Run("stray indices are ignored", func(t *testing.T) {
		t.Parallel()
		p := NewProgressWithETA(2)
		p.UpdateWithETA(2, 1.0)
		p.UpdateWithETA(-1, 1.0)
		if avg := p.CalculateAverage(); avg != 0 {
			t.Errorf("average = %f, want 0", avg)
		}
	})
}

func TestFormatETA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		eta  time.Duration
		want string
	}{
		{-time.Second, "calculating..."},
		{0, "calculating..."},
		{300 * time.Millisecond, "< 1s"},
		{59*time.Second + 900*time.Millisecond, "59s"},
		{4 * time.Minute, "4m"},
		{4*time.Minute + 7*time.Second, "4m7s"},
		{5 * time.Hour, "5h"},
		{5*time.Hour + 59*time.Minute + 59*time.Second, "5h59m"},
	}
	for _, tt := range tests {
		if got := FormatETA(tt.eta); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.eta, got, tt.want)
		}
	}
}

func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()

	if got, want := FormatProgressBarWithETA(0.5, 90*time.Second, 4), " 50.00% [██░░] ETA: 1m30s"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := FormatProgressBarWithETA(1.2, 0, 2), "120.00% [██] ETA: calculating..."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
