package trace

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Summary holds the per-trace statistics the fitter needs to derive default
// guesses and box bounds.
type Summary struct {
	Length      int
	MinTime     float64
	MaxTime     float64
	TimeSpan    float64 // MaxTime - MinTime
	MedianTime  float64
	MeanSpacing float64 // mean of consecutive time differences
	MinSignal   float64
	MaxSignal   float64
	SignalRange float64 // MaxSignal - MinSignal
}

// Summarize computes the Summary of a trace. MeanSpacing is taken over the
// trace in its stored order, so it is only meaningful on a time-sorted
// trace. Returns ErrEmpty for a zero-length trace.
func Summarize(t Trace) (Summary, error) {
	n := t.Len()
	if n == 0 {
		return Summary{}, ErrEmpty
	}

	minTime := floats.Min(t.Time)
	maxTime := floats.Max(t.Time)
	minSignal := floats.Min(t.Signal)
	maxSignal := floats.Max(t.Signal)

	meanSpacing := 0.0
	if n > 1 {
		sum := 0.0
		for i := 1; i < n; i++ {
			sum += t.Time[i] - t.Time[i-1]
		}

		meanSpacing = sum / float64(n-1)
	}

	return Summary{
		Length:      n,
		MinTime:     minTime,
		MaxTime:     maxTime,
		TimeSpan:    maxTime - minTime,
		MedianTime:  median(t.Time),
		MeanSpacing: meanSpacing,
		MinSignal:   minSignal,
		MaxSignal:   maxSignal,
		SignalRange: maxSignal - minSignal,
	}, nil
}

// median returns the middle value of the data, averaging the two middle
// values for even lengths. The input is not modified.
func median(data []float64) float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	return (sorted[mid-1] + sorted[mid]) / 2
}
