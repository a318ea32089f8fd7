package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/fibmatrix/internal/config"
	"github.com/agbru/fibmatrix/internal/fibonacci"
	"github.com/agbru/fibmatrix/internal/ui"
)

// GetCalculatorsToRun returns the calculators selected by cfg.Algo: every
// registered one, in name order, for "all", otherwise the single named one.
// An unknown name yields nil.
func GetCalculatorsToRun(cfg config.AppConfig, factory fibonacci.CalculatorFactory) []fibonacci.Calculator {
	if cfg.Algo == config.DefaultAlgo {
		keys := factory.List()
		calculators := make([]fibonacci.Calculator, 0, len(keys))
		for _, k := range keys {
			if calc, err := factory.Get(k); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(cfg.Algo); err == nil {
		return []fibonacci.Calculator{calc}
	}
	return nil
}

// PrintExecutionConfig prints the index, timeout, runtime environment and
// Strassen threshold of the run.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Calculating %sF(%d)%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.Index(), ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	if cfg.N < 0 {
		fmt.Fprintf(out, "%sNegative index %d treated as 0.%s\n", ui.ColorYellow(), cfg.N, ui.ColorReset())
	}
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "Strassen threshold: %s%d%s bits.\n",
		ui.ColorCyan(), cfg.StrassenThreshold, ui.ColorReset())
}

// PrintExecutionMode announces a single run or a comparison of several
// algorithms. calculators must not be empty.
func PrintExecutionMode(calculators []fibonacci.Calculator, out io.Writer) {
	var modeDesc string
	if len(calculators) > 1 {
		modeDesc = "Parallel comparison of all algorithms"
	} else {
		modeDesc = fmt.Sprintf("Single calculation with the %s%s%s algorithm",
			ui.ColorGreen(), calculators[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
