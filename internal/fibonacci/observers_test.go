package fibonacci

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"sync"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
)

func TestProgressSubject(t *testing.T) {
	t.Parallel()

	subject := NewProgressSubject()
	if subject.ObserverCount() != 0 {
		t.Fatalf("new subject should have 0 observers, got %d", subject.ObserverCount())
	}

	subject.Register(nil)
	if subject.ObserverCount() != 0 {
		t.Errorf("registering nil should not add observer, got %d", subject.ObserverCount())
	}

	first, second := &recordingObserver{}, &recordingObserver{}
	subject.Register(first)
	subject.Register(second)
	subject.Notify(0, 0.5)

	if first.count() != 1 || second.count() != 1 {
		t.Errorf("each observer should see one update, got %d and %d", first.count(), second.count())
	}

	subject.AsProgressReporter(1)(0.75)
	if first.count() != 2 || second.count() != 2 || first.last() != 0.75 {
		t.Errorf("reporter updates: got %d and %d, last %f", first.count(), second.count(), first.last())
	}
}

func TestProgressSubjectConcurrent(t *testing.T) {
	t.Parallel()

	subject := NewProgressSubject()
	rec := &recordingObserver{}
	subject.Register(rec)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			report := subject.AsProgressReporter(idx)
			for j := 0; j < 100; j++ {
				report(float64(j) / 100)
			}
		}(i)
	}
	wg.Wait()

	if rec.count() != 800 {
		t.Errorf("expected 800 updates, got %d", rec.count())
	}
}

func TestChannelObserver(t *testing.T) {
	t.Parallel()

	ch := make(chan ProgressUpdate, 1)
	o := NewChannelObserver(ch)
	o.Update(2, 1.5)
	o.Update(2, 0.9) // channel full: dropped without blocking

	got := <-ch
	if got.CalculatorIndex != 2 || got.Value != 1.0 {
		t.Errorf("got %+v, want {2 1}", got)
	}
	select {
	case extra := <-ch:
		t.Errorf("unexpected second update %+v", extra)
	default:
	}

	NewChannelObserver(nil).Update(0, 0.5) // must not panic
}

func TestLoggingObserver(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	o := NewLoggingObserver(logger, 0.25)

	for _, p := range []float64{0.01, 0.1, 0.2, 0.3, 0.4, 1.0} {
		o.Update(0, p)
	}

	// 0.01 (first), 0.3 (+0.29), 1.0 (final).
	lines := strings.Count(buf.String(), "calculation progress")
	if lines != 3 {
		t.Errorf("expected 3 log lines, got %d:\n%s", lines, buf.String())
	}

	if NewLoggingObserver(logger, 0).threshold != 0.1 {
		t.Error("non-positive threshold should default to 0.1")
	}
}

func TestMetricsObserver(t *testing.T) {
	// Not parallel: the gauge is process-wide.
	o := NewMetricsObserver()
	o.Update(4, 0.42)
	if got := gaugeValue(t, "4"); got != 0.42 {
		t.Errorf("gauge = %f, want 0.42", got)
	}
	o.Update(4, 1)
	if got := gaugeValue(t, "4"); got != 1 {
		t.Errorf("gauge = %f, want 1", got)
	}
}

func gaugeValue(t *testing.T, label string) float64 {
	t.Helper()
	var m dto.Metric
	if err := progressGauge.WithLabelValues(label).Write(&m); err != nil {
		t.Fatalf("reading gauge: %v", err)
	}
	return m.GetGauge().GetValue()
}

// stubCalculator only implements Calculator, without observer support.
type stubCalculator struct{ calls int }

func (s *stubCalculator) Name() string { return "stub" }

func (s *stubCalculator) Calculate(_ context.Context, progressChan chan<- ProgressUpdate, calcIndex int, _ uint64, _ Options) (*big.Int, error) {
	s.calls++
	if progressChan != nil {
		progressChan <- ProgressUpdate{CalculatorIndex: calcIndex, Value: 1}
	}
	return big.NewInt(8), nil
}

func TestRunWithObservers(t *testing.T) {
	t.Parallel()

	t.Run("observers and channel both see progress", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logObs := NewLoggingObserver(zerolog.New(&buf).Level(zerolog.DebugLevel), 0.25)
		rec := &recordingObserver{}
		ch := make(chan ProgressUpdate, 256)

		got, err := RunWithObservers(context.Background(), NewDefaultFactory().MustGet("hybrid"), ch, 1, 5000, Options{}, logObs, rec)
		if err != nil {
			t.Fatal(err)
		}
		if got.Cmp(HybridFibonacci(5000)) != 0 {
			t.Error("wrong result")
		}
		if rec.last() != 1 {
			t.Errorf("observer last progress = %f, want 1", rec.last())
		}
		close(ch)
		var lastUpdate ProgressUpdate
		for u := range ch {
			lastUpdate = u
		}
		if lastUpdate != (ProgressUpdate{CalculatorIndex: 1, Value: 1}) {
			t.Errorf("last channel update = %+v", lastUpdate)
		}
		if !strings.Contains(buf.String(), `"calculator":1,"progress":1`) {
			t.Errorf("final progress not logged:\n%s", buf.String())
		}
	})

	t.Run("plain calculators fall back to Calculate", func(t *testing.T) {
		t.Parallel()
		stub := &stubCalculator{}
		ch := make(chan ProgressUpdate, 1)
		rec := &recordingObserver{}
		got, err := RunWithObservers(context.Background(), stub, ch, 0, 6, Options{}, rec)
		if err != nil || got.Int64() != 8 || stub.calls != 1 {
			t.Errorf("got %v, %v after %d calls", got, err, stub.calls)
		}
		if len(ch) != 1 || rec.count() != 0 {
			t.Errorf("channel has %d updates, observer %d", len(ch), rec.count())
		}
	})
}
