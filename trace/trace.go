package trace

import (
	"errors"
	"math"
	"sort"
)

// Errors returned by trace functions.
var (
	ErrLengthMismatch = errors.New("trace: time and signal lengths differ")
	ErrEmpty          = errors.New("trace: trace is empty")
)

// Trace is an index-aligned pair of time and signal samples.
//
// Time is in arbitrary units and need not be uniformly spaced. The two
// slices always have equal length; use New to enforce this on raw input.
type Trace struct {
	Time   []float64
	Signal []float64
}

// New builds a Trace from raw time and signal slices. The slices are not
// copied. It returns ErrLengthMismatch when the lengths differ.
func New(time, signal []float64) (Trace, error) {
	if len(time) != len(signal) {
		return Trace{}, ErrLengthMismatch
	}

	return Trace{Time: time, Signal: signal}, nil
}

// Len returns the number of samples.
func (t Trace) Len() int {
	return len(t.Time)
}

// Clean returns a new Trace containing only the pairs where neither
// coordinate is NaN. Order and pairing are preserved; nothing is
// deduplicated or reordered.
func (t Trace) Clean() Trace {
	outTime := make([]float64, 0, len(t.Time))
	outSignal := make([]float64, 0, len(t.Signal))

	for i := range t.Time {
		if math.IsNaN(t.Time[i]) || math.IsNaN(t.Signal[i]) {
			continue
		}

		outTime = append(outTime, t.Time[i])
		outSignal = append(outSignal, t.Signal[i])
	}

	return Trace{Time: outTime, Signal: outSignal}
}

// SortByTime returns a new Trace with the pairs stably sorted ascending by
// time. The input trace is left untouched.
func (t Trace) SortByTime() Trace {
	idx := make([]int, t.Len())
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return t.Time[idx[a]] < t.Time[idx[b]]
	})

	outTime := make([]float64, t.Len())
	outSignal := make([]float64, t.Len())

	for i, j := range idx {
		outTime[i] = t.Time[j]
		outSignal[i] = t.Signal[j]
	}

	return Trace{Time: outTime, Signal: outSignal}
}

// Select returns the sub-trace at the indices where keep is true. keep must
// have the same length as the trace.
func (t Trace) Select(keep []bool) Trace {
	outTime := make([]float64, 0, len(keep))
	outSignal := make([]float64, 0, len(keep))

	for i, k := range keep {
		if !k {
			continue
		}

		outTime = append(outTime, t.Time[i])
		outSignal = append(outSignal, t.Signal[i])
	}

	return Trace{Time: outTime, Signal: outSignal}
}
