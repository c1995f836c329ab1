package pulse

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-pulse/trace"
)

// BackgroundEstimate is the DC background level of the trace, measured over
// the background region only.
type BackgroundEstimate struct {
	Mean   float64
	StdErr float64 // sample standard deviation / sqrt(count)
	Count  int
}

// EstimateBackground computes the mean and standard error of the background
// sub-trace. It returns ErrNoBackground when the region is empty. A
// single-sample region has a standard error of zero, since no spread can be
// measured.
func EstimateBackground(background trace.Trace) (BackgroundEstimate, error) {
	n := background.Len()
	if n == 0 {
		return BackgroundEstimate{}, ErrNoBackground
	}

	mean := stat.Mean(background.Signal, nil)

	stderr := 0.0
	if n > 1 {
		stderr = stat.StdDev(background.Signal, nil) / math.Sqrt(float64(n))
	}

	return BackgroundEstimate{Mean: mean, StdErr: stderr, Count: n}, nil
}
