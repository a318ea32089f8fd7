package calibration

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/agbru/fibmatrix/internal/cli"
	"github.com/agbru/fibmatrix/internal/ui"
)

func printResults(out io.Writer, results []trialResult, bestThreshold int) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sThreshold%s\t%sExecution Time%s\n", ui.ColorBold(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset())
	for _, res := range results {
		duration := fmt.Sprintf("%sN/A (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		if res.Err == nil {
			duration = cli.FormatExecutionDuration(res.Duration)
			if res.Duration == 0 {
				duration = "< 1µs"
			}
		}
		highlight := ""
		if res.Threshold == bestThreshold && res.Err == nil {
			highlight = fmt.Sprintf(" %s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s%s\n",
			ui.ColorCyan(), thresholdLabel(res.Threshold), ui.ColorReset(),
			ui.ColorYellow(), duration, ui.ColorReset(), highlight)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}
}
