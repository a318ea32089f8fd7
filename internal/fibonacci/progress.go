// Package fibonacci provides implementations for calculating Fibonacci numbers.
// This file contains progress reporting types and utilities used by calculators.
package fibonacci

// ProgressUpdate is a data transfer object (DTO) that encapsulates the
// progress state of a calculation. It is sent over a channel from the
// calculator to the user interface to provide asynchronous progress updates.
type ProgressUpdate struct {
	// CalculatorIndex is a unique identifier for the calculator instance, allowing
	// the UI to distinguish between multiple concurrent calculations.
	CalculatorIndex int
	// Value represents the normalized progress of the calculation, ranging from 0.0 to 1.0.
	Value float64
}

// ProgressReporter defines the functional type for a progress reporting
// callback. Core algorithms report through it without knowing about
// channels or observers.
type ProgressReporter func(progress float64)

// Global lookup table for powers of 4. Bit counts of uint64 values never
// exceed 64.
var powersOf4 [64]float64

func init() {
	powersOf4[0] = 1.0
	for i := 1; i < len(powersOf4); i++ {
		powersOf4[i] = powersOf4[i-1] * 4.0
	}
}

// CalcTotalWork calculates the total work expected for an O(log n) loop of
// numSteps steps. Operand size doubles at every step and multiplication
// cost roughly quadruples, so the steps form the geometric series
// 4^0 + 4^1 + ... + 4^(numSteps-1).
func CalcTotalWork(numSteps int) float64 {
	if numSteps <= 0 {
		return 0
	}
	total := 0.0
	for i := 0; i < numSteps && i < len(powersOf4); i++ {
		total += powersOf4[i]
	}
	return total
}

// ReportStepProgress accumulates the work of one step and reports the
// normalized progress via reporter when it moved by at least
// ProgressReportThreshold, or at a loop boundary.
//
// Parameters:
//   - reporter: The callback; nil disables reporting.
//   - lastReported: The last reported value, updated in place.
//   - totalWork: The value returned by CalcTotalWork for the loop.
//   - workDone: The accumulated work units completed so far.
//   - i: The remaining step index, counting down from numSteps-1 to 0.
//   - numSteps: The total number of steps.
//
// Returns:
//   - float64: The updated cumulative work done.
func ReportStepProgress(reporter ProgressReporter, lastReported *float64, totalWork, workDone float64, i, numSteps int) float64 {
	stepIndex := numSteps - 1 - i
	if stepIndex < 0 || stepIndex >= len(powersOf4) {
		return workDone
	}
	currentTotalDone := workDone + powersOf4[stepIndex]

	if reporter != nil && totalWork > 0 {
		currentProgress := currentTotalDone / totalWork
		if currentProgress-*lastReported >= ProgressReportThreshold || i == 0 || i == numSteps-1 {
			reporter(currentProgress)
			*lastReported = currentProgress
		}
	}
	return currentTotalDone
}

// phaseReporter maps the [0, 1] progress of one phase of a calculation onto
// the [start, start+weight] slice of the overall progress.
func phaseReporter(reporter ProgressReporter, start, weight float64) ProgressReporter {
	if reporter == nil {
		return nil
	}
	return func(progress float64) {
		reporter(start + progress*weight)
	}
}
