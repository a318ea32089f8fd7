package fibonacci

import "fmt"

// PowerSplit is the decomposition n = Value + Remaining where Value = 2^Power
// is the largest power of two not exceeding n.
type PowerSplit struct {
	// Power is the exponent p.
	Power uint
	// Value is 2^Power.
	Value uint64
	// Remaining is n - Value. It is always smaller than Value.
	Remaining uint64
}

// SplitPowerOfTwo finds the largest power of two not exceeding n.
// It returns ErrInvalidArgument when n is 0.
//
// The loop doubles while doubling stays at or below n. The comparison is
// made against n/2 so that Value never overflows, even for n = 2^64-1.
func SplitPowerOfTwo(n uint64) (PowerSplit, error) {
	if n < 1 {
		return PowerSplit{}, fmt.Errorf("power of two split of %d: %w", n, ErrInvalidArgument)
	}
	var power uint
	value := uint64(1)
	for value <= n/2 {
		value <<= 1
		power++
	}
	return PowerSplit{Power: power, Value: value, Remaining: n - value}, nil
}
