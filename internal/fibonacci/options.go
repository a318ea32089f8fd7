// Package fibonacci provides implementations for calculating Fibonacci numbers.
// This file contains configuration options for Fibonacci calculations.
package fibonacci

// Options configures the Fibonacci calculation.
type Options struct {
	// StrassenThreshold is the bit size threshold for switching to
	// Strassen's algorithm in general matrix products.
	// If 0, DefaultStrassenThreshold is used.
	StrassenThreshold int
	// Strategy is the multiplication backend. If nil, DefaultStrategy() is used.
	Strategy MultiplicationStrategy
}

// normalizeOptions returns a copy of opts with default values filled in for
// zero values.
func normalizeOptions(opts Options) Options {
	normalized := opts
	if normalized.StrassenThreshold <= 0 {
		normalized.StrassenThreshold = DefaultStrassenThreshold
	}
	if normalized.Strategy == nil {
		normalized.Strategy = DefaultStrategy()
	}
	return normalized
}
