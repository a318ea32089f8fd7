package cli

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/fibmatrix/internal/ui"
)

// OutputConfig selects how a result is rendered.
type OutputConfig struct {
	// Verbose prints the full value regardless of its size.
	Verbose bool
	// Details adds timing, digit count and scientific notation.
	Details bool
	// HexOutput prints the value in hexadecimal.
	HexOutput bool
	// Quiet prints the bare value only.
	Quiet bool
}

// FormatQuietResult returns the value alone, as decimal or 0x-prefixed hex.
func FormatQuietResult(result *big.Int, hexOutput bool) string {
	if hexOutput {
		return "0x" + result.Text(16)
	}
	return result.String()
}

// DisplayQuietResult prints the bare value followed by a newline, for
// scripts.
func DisplayQuietResult(out io.Writer, result *big.Int, hexOutput bool) {
	fmt.Fprintln(out, FormatQuietResult(result, hexOutput))
}

// DisplayResult prints F(n) with its binary size, and the metadata and
// formatting selected by cfg. Values longer than TruncationLimit digits are
// shortened to their first and last DisplayEdges digits unless cfg.Verbose
// is set.
func DisplayResult(out io.Writer, result *big.Int, n uint64, duration time.Duration, cfg OutputConfig) {
	if cfg.Quiet {
		DisplayQuietResult(out, result, cfg.HexOutput)
		return
	}

	fmt.Fprintf(out, "Result binary size: %s%s%s bits.\n",
		ui.ColorCyan(), formatNumberString(strconv.Itoa(result.BitLen())), ui.ColorReset())

	resultStr := result.String()
	numDigits := len(resultStr)

	if cfg.Details {
		fmt.Fprintf(out, "\n%s--- Detailed result analysis ---%s\n", ui.ColorBold(), ui.ColorReset())
		durationStr := FormatExecutionDuration(duration)
		if duration == 0 {
			durationStr = "< 1µs"
		}
		fmt.Fprintf(out, "Calculation time     : %s%s%s\n", ui.ColorGreen(), durationStr, ui.ColorReset())
		fmt.Fprintf(out, "Number of digits     : %s%s%s\n", ui.ColorCyan(), formatNumberString(strconv.Itoa(numDigits)), ui.ColorReset())
		if numDigits > 6 {
			f := new(big.Float).SetInt(result)
			fmt.Fprintf(out, "Scientific notation  : %s%.6e%s\n", ui.ColorCyan(), f, ui.ColorReset())
		}
	}

	fmt.Fprintf(out, "\n%s--- Calculated value ---%s\n", ui.ColorBold(), ui.ColorReset())
	switch {
	case cfg.Verbose:
		fmt.Fprintf(out, "F(%s%d%s) =\n%s%s%s\n", ui.ColorMagenta(), n, ui.ColorReset(), ui.ColorGreen(), formatNumberString(resultStr), ui.ColorReset())
	case numDigits > TruncationLimit:
		fmt.Fprintf(out, "F(%s%d%s) (truncated) = %s%s...%s%s\n",
			ui.ColorMagenta(), n, ui.ColorReset(),
			ui.ColorGreen(), resultStr[:DisplayEdges], resultStr[numDigits-DisplayEdges:], ui.ColorReset())
		fmt.Fprintf(out, "(Tip: use the %s-v%s option to display the full value)\n", ui.ColorYellow(), ui.ColorReset())
	default:
		fmt.Fprintf(out, "F(%s%d%s) = %s%s%s\n", ui.ColorMagenta(), n, ui.ColorReset(), ui.ColorGreen(), formatNumberString(resultStr), ui.ColorReset())
	}

	if cfg.HexOutput {
		hexStr := result.Text(16)
		if len(hexStr) > TruncationLimit && !cfg.Verbose {
			fmt.Fprintf(out, "F(%d) [hex] = %s0x%s...%s%s\n",
				n, ui.ColorGreen(), hexStr[:DisplayEdges], hexStr[len(hexStr)-DisplayEdges:], ui.ColorReset())
		} else {
			fmt.Fprintf(out, "F(%d) [hex] = %s0x%s%s\n", n, ui.ColorGreen(), hexStr, ui.ColorReset())
		}
	}
}

// formatNumberString inserts thousands separators into a decimal string.
func formatNumberString(s string) string {
	if len(s) == 0 {
		return ""
	}
	prefix := ""
	if s[0] == '-' {
		prefix = "-"
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		return prefix + s
	}

	var builder strings.Builder
	builder.Grow(len(prefix) + n + (n-1)/3)
	builder.WriteString(prefix)

	firstGroupLen := n % 3
	if firstGroupLen == 0 {
		firstGroupLen = 3
	}
	builder.WriteString(s[:firstGroupLen])
	for i := firstGroupLen; i < n; i += 3 {
		builder.WriteByte(',')
		builder.WriteString(s[i : i+3])
	}
	return builder.String()
}
