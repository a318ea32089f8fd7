package calibration

import (
	"fmt"
	"math"
	"slices"

	"github.com/agbru/fibmatrix/internal/fibonacci"
)

// ClassicOnly is a threshold no operand reaches: every general product uses
// the 8-multiplication formula.
const ClassicOnly = math.MaxInt32

// StrassenCandidates returns the thresholds tried by a calibration run, in
// increasing order, ending with ClassicOnly. The default threshold is always
// part of the list.
func StrassenCandidates() []int {
	candidates := []int{256, 512, 1024, 2048, 4096, 8192, 16384, 65536, fibonacci.DefaultStrassenThreshold}
	slices.Sort(candidates)
	return append(slices.Compact(candidates), ClassicOnly)
}

func thresholdLabel(threshold int) string {
	if threshold == ClassicOnly {
		return "classic"
	}
	return fmt.Sprintf("%d bits", threshold)
}
