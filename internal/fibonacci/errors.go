package fibonacci

import "errors"

var (
	// ErrInvalidArgument is returned when an input lies outside the domain of
	// an operation, such as SplitPowerOfTwo(0).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownAlgorithm is returned by Compute and ParseAlgorithm for an
	// algorithm identifier that is not one of Linear, Matrix or Hybrid.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)
