// Package fibonacci provides implementations for calculating Fibonacci numbers.
package fibonacci

// ─────────────────────────────────────────────────────────────────────────────
// Performance Tuning Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DefaultStrassenThreshold is the default bit size threshold at which
	// matrix multiplication switches to the Strassen-Winograd algorithm.
	//
	// Strassen reduces multiplications from 8 to 7 at the cost of 15
	// additions instead of 4. Below ~3000 bits the extra additions cost more
	// than the saved product.
	DefaultStrassenThreshold = 3072

	// linearCheckInterval is the number of additive steps performed between
	// two context checks (and progress reports) in the linear phase.
	linearCheckInterval = 1 << 12
)

// ─────────────────────────────────────────────────────────────────────────────
// Progress Reporting Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ProgressReportThreshold is the minimum progress change (0.0 to 1.0)
	// required before a new progress update is sent.
	ProgressReportThreshold = 0.01
)
