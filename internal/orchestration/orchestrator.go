// Package orchestration runs one or more Fibonacci calculators on the same
// index, concurrently, and compares their results.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/fibmatrix/internal/cli"
	"github.com/agbru/fibmatrix/internal/config"
	apperrors "github.com/agbru/fibmatrix/internal/errors"
	"github.com/agbru/fibmatrix/internal/fibonacci"
	"github.com/agbru/fibmatrix/internal/ui"
)

// CalculationResult is the outcome of one calculator run.
type CalculationResult struct {
	// Name is the algorithm name, e.g. "matrix".
	Name string
	// Result is F(n), nil when Err is set.
	Result   *big.Int
	Duration time.Duration
	// Err is a apperrors.CalculationError wrapping the calculator's error.
	Err error
}

// ProgressBufferMultiplier sizes the progress channel per calculator so that
// slow rendering rarely causes dropped updates.
const ProgressBufferMultiplier = 5

// ExecuteCalculations runs every calculator on cfg.Index() concurrently and
// returns one result per calculator, in the same order. A failing
// calculator does not cancel the others. Progress is rendered to out unless
// cfg asks for quiet or JSON output, and is always sent to observers.
func ExecuteCalculations(ctx context.Context, calculators []fibonacci.Calculator, cfg config.AppConfig, out io.Writer, observers ...fibonacci.ProgressObserver) []CalculationResult {
	results := make([]CalculationResult, len(calculators))
	n := cfg.Index()
	opts := cfg.ToCalculationOptions()

	var progressChan chan fibonacci.ProgressUpdate
	var displayWg sync.WaitGroup
	if !cfg.Quiet && !cfg.JSONOutput {
		progressChan = make(chan fibonacci.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)
		displayWg.Add(1)
		go cli.DisplayProgress(&displayWg, progressChan, len(calculators), out)
	}

	var g errgroup.Group
	for i, calc := range calculators {
		i, calc := i, calc
		g.Go(func() error {
			start := time.Now()
			res, err := fibonacci.RunWithObservers(ctx, calc, progressChan, i, n, opts, observers...)
			results[i] = CalculationResult{
				Name:     calc.Name(),
				Result:   res,
				Duration: time.Since(start),
				Err:      apperrors.NewCalculationError(calc.Name(), n, err),
			}
			return nil
		})
	}
	_ = g.Wait()

	if progressChan != nil {
		close(progressChan)
		displayWg.Wait()
	}
	return results
}

// sortResults orders successes before failures, then by duration.
func sortResults(results []CalculationResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})
}

// findMismatch returns the names of the successful results whose value
// differs from the first successful one, prefixed by that first name, or nil
// when all agree.
func findMismatch(results []CalculationResult) []string {
	var reference *CalculationResult
	var names []string
	for i := range results {
		res := &results[i]
		if res.Err != nil {
			continue
		}
		if reference == nil {
			reference = res
			continue
		}
		if res.Result.Cmp(reference.Result) != 0 {
			names = append(names, res.Name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return append([]string{reference.Name}, names...)
}

// CheckResults returns nil when at least one calculation succeeded and all
// successful ones agree, a apperrors.MismatchError when they disagree, and
// the first error when none succeeded.
func CheckResults(results []CalculationResult, n uint64) error {
	var firstError error
	succeeded := false
	for _, res := range results {
		if res.Err == nil {
			succeeded = true
		} else if firstError == nil {
			firstError = res.Err
		}
	}
	if !succeeded {
		if firstError == nil {
			return apperrors.NewConfigError("no calculator to run")
		}
		return firstError
	}
	if names := findMismatch(results); names != nil {
		return apperrors.MismatchError{N: n, Algorithms: names}
	}
	return nil
}

// AnalyzeComparisonResults prints a summary table of results, checks that
// every successful algorithm produced the same value and displays it. It
// returns the process exit code: success when at least one algorithm
// finished and all finished ones agree, the mismatch code on disagreement,
// and the code of the first error when every algorithm failed.
//
// results is sorted in place.
func AnalyzeComparisonResults(results []CalculationResult, cfg config.AppConfig, out io.Writer) int {
	sortResults(results)

	var best *CalculationResult
	var firstError error
	for i := range results {
		if results[i].Err == nil {
			if best == nil {
				best = &results[i]
			}
		} else if firstError == nil {
			firstError = results[i].Err
		}
	}

	if !cfg.Quiet {
		printSummaryTable(results, out)
	}

	if best == nil {
		if !cfg.Quiet {
			fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the calculation.\n")
		}
		return apperrors.HandleCalculationError(firstError, 0, out, ui.ThemeColors{})
	}

	if names := findMismatch(results); names != nil {
		err := apperrors.MismatchError{N: cfg.Index(), Algorithms: names}
		if !cfg.Quiet {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! An inconsistency was detected between the results of the algorithms.\n")
		}
		return apperrors.HandleCalculationError(err, 0, out, ui.ThemeColors{})
	}

	if !cfg.Quiet && len(results) > 1 {
		fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	}
	cli.DisplayResult(out, best.Result, cfg.Index(), best.Duration, cli.OutputConfig{
		Verbose:   cfg.Verbose,
		Details:   cfg.Details,
		HexOutput: cfg.HexOutput,
		Quiet:     cfg.Quiet,
	})
	return apperrors.ExitSuccess
}

func printSummaryTable(results []CalculationResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sAlgorithm%s\t%sDuration%s\t%sStatus%s\n",
		ui.ColorBold(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset())

	for _, res := range results {
		status := fmt.Sprintf("%sSuccess%s", ui.ColorGreen(), ui.ColorReset())
		if res.Err != nil {
			status = fmt.Sprintf("%sFailure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			ui.ColorYellow(), duration, ui.ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}
}
