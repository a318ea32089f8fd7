// Package calibration measures the matrix algorithm with several Strassen
// thresholds and records the fastest one in a per-machine profile.
package calibration

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/fibmatrix/internal/cli"
	"github.com/agbru/fibmatrix/internal/config"
	apperrors "github.com/agbru/fibmatrix/internal/errors"
	"github.com/agbru/fibmatrix/internal/fibonacci"
	"github.com/agbru/fibmatrix/internal/orchestration"
	"github.com/agbru/fibmatrix/internal/ui"
)

// DefaultN is the index computed for every candidate threshold. F(n) has
// about 0.69·n bits, so the final products are well above any candidate
// except ClassicOnly.
const DefaultN uint64 = 250_000

// Options configures a calibration run.
type Options struct {
	// N is the index computed per trial; DefaultN when 0.
	N uint64
	// ProfilePath is where the profile is written; DefaultProfilePath()
	// when empty.
	ProfilePath string
	// SaveProfile writes the result to ProfilePath.
	SaveProfile bool
	// Candidates overrides StrassenCandidates().
	Candidates []int
}

type trialResult struct {
	Threshold int
	Duration  time.Duration
	Err       error
}

// Run times calc (normally the matrix calculator) once per candidate
// threshold, prints a summary table and the recommended -strassen-threshold,
// and returns the process exit code.
func Run(ctx context.Context, out io.Writer, calc fibonacci.Calculator, opts Options) int {
	if calc == nil {
		fmt.Fprintf(out, "%sCalibration requires the matrix algorithm.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	n := opts.N
	if n == 0 {
		n = DefaultN
	}
	candidates := opts.Candidates
	if len(candidates) == 0 {
		candidates = StrassenCandidates()
	}

	fmt.Fprintf(out, "--- Calibration Mode: Finding the Optimal Strassen Threshold ---\n")
	fmt.Fprintf(out, "Timing %s%s%s on F(%s%d%s) with %d thresholds.\n",
		ui.ColorBold(), calc.Name(), ui.ColorReset(), ui.ColorMagenta(), n, ui.ColorReset(), len(candidates))

	results := make([]trialResult, 0, len(candidates))
	best := trialResult{Duration: time.Duration(1<<63 - 1)}
	start := time.Now()

	var wg sync.WaitGroup
	progressChan := make(chan fibonacci.ProgressUpdate, len(candidates)*orchestration.ProgressBufferMultiplier)
	wg.Add(1)
	go cli.DisplayProgress(&wg, progressChan, len(candidates), out)
	stopProgress := func() {
		close(progressChan)
		wg.Wait()
	}

	for i, threshold := range candidates {
		trialStart := time.Now()
		_, err := calc.Calculate(ctx, progressChan, i, n, fibonacci.Options{StrassenThreshold: threshold})
		duration := time.Since(trialStart)

		if err != nil {
			if apperrors.IsContextError(err) {
				stopProgress()
				fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", ui.ColorYellow(), ui.ColorReset())
				return apperrors.HandleCalculationError(err, duration, out, ui.ThemeColors{})
			}
			results = append(results, trialResult{Threshold: threshold, Err: err})
			continue
		}
		res := trialResult{Threshold: threshold, Duration: duration}
		results = append(results, res)
		if duration < best.Duration {
			best = res
		}
	}
	stopProgress()

	if best.Threshold == 0 {
		fmt.Fprintf(out, "\n%sCalibration failed: no valid results obtained.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	printResults(out, results, best.Threshold)
	fmt.Fprintf(out, "\n%sRecommendation for this machine: %s-strassen-threshold %d%s\n",
		ui.ColorGreen(), ui.ColorYellow(), best.Threshold, ui.ColorReset())

	if opts.SaveProfile {
		profile := NewProfile()
		profile.StrassenThreshold = best.Threshold
		profile.CalibrationN = n
		profile.CalibrationTime = time.Since(start).String()
		path := opts.ProfilePath
		if path == "" {
			path = DefaultProfilePath()
		}
		if err := profile.Save(path); err != nil {
			fmt.Fprintf(out, "%sWarning: failed to save profile: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
		} else {
			fmt.Fprintf(out, "Calibration profile saved to %s\n", path)
		}
	}
	return apperrors.ExitSuccess
}

// ApplyProfile loads the profile at path and, when it is valid for this
// machine, returns cfg with its Strassen threshold. ok is false, and cfg is
// returned unchanged, otherwise.
func ApplyProfile(cfg config.AppConfig, path string) (updated config.AppConfig, ok bool) {
	profile, err := LoadProfile(path)
	if err != nil || !profile.IsValid() {
		return cfg, false
	}
	cfg.StrassenThreshold = profile.StrassenThreshold
	return cfg, true
}
