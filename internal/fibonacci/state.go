package fibonacci

import (
	"context"
	"fmt"
	"math/big"
	"strings"
)

// State holds two consecutive Fibonacci numbers and advances them by
// repeated addition. A fresh State starts at (F(0), F(1)); after k calls to
// Advance it holds (F(k), F(k+1)).
//
// The value dropped by the last Advance is kept as a trace so that String can
// show the addition that produced the current value. Its buffer is reused for
// the next sum, so a long run of Advance calls allocates only while the
// numbers outgrow their buffers.
//
// A State is not safe for concurrent use.
type State struct {
	secondPrevious *big.Int
	previous       *big.Int
	current        *big.Int
}

// NewState returns a State positioned at (F(0), F(1)) = (0, 1).
func NewState() *State {
	return &State{
		previous: big.NewInt(0),
		current:  big.NewInt(1),
	}
}

// StateFrom returns a State seeded with the given pair. The arguments are
// copied; later changes to them do not affect the State.
func StateFrom(previous, current *big.Int) *State {
	return &State{
		previous: new(big.Int).Set(previous),
		current:  new(big.Int).Set(current),
	}
}

// Advance moves the pair one step forward: (p, c) becomes (c, p+c).
// It returns the receiver so calls can be chained.
func (s *State) Advance() *State {
	buf := s.secondPrevious
	if buf == nil {
		buf = new(big.Int)
	}
	buf.Add(s.previous, s.current)
	s.secondPrevious, s.previous, s.current = s.previous, s.current, buf
	return s
}

// AdvanceBy applies Advance k times. AdvanceBy(0) leaves the State unchanged.
func (s *State) AdvanceBy(k uint64) *State {
	// A background context never cancels.
	_ = s.advanceBy(context.Background(), k, nil)
	return s
}

// advanceBy is AdvanceBy with cancellation and progress. The context is
// polled every linearCheckInterval steps; on cancellation the State is left
// at a valid intermediate position.
func (s *State) advanceBy(ctx context.Context, k uint64, reporter ProgressReporter) error {
	lastReported := 0.0
	for done := uint64(0); done < k; {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("linear advance canceled after %d/%d steps: %w", done, k, err)
		}
		batch := min(k-done, linearCheckInterval)
		for j := uint64(0); j < batch; j++ {
			s.Advance()
		}
		done += batch

		if reporter != nil {
			// Additions cost grows linearly with the operand size, so the
			// cumulative work after `done` steps is proportional to done².
			progress := float64(done) / float64(k)
			progress *= progress
			if progress-lastReported >= ProgressReportThreshold || done == k {
				reporter(progress)
				lastReported = progress
			}
		}
	}
	return nil
}

// Previous returns a copy of the older value of the pair.
func (s *State) Previous() *big.Int {
	return new(big.Int).Set(s.previous)
}

// Current returns a copy of the newer value of the pair.
func (s *State) Current() *big.Int {
	return new(big.Int).Set(s.current)
}

// String renders the last step as "second-previous,previous,=>current".
// The second-previous field is empty until the first Advance.
func (s *State) String() string {
	var sb strings.Builder
	if s.secondPrevious != nil {
		sb.WriteString(s.secondPrevious.String())
	}
	sb.WriteByte(',')
	sb.WriteString(s.previous.String())
	sb.WriteString(",=>")
	sb.WriteString(s.current.String())
	return sb.String()
}
