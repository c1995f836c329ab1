package pulse

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-pulse/quad"
	"github.com/cwbudde/algo-pulse/trace"
)

// Window-choice sensitivity sweep: the ROI half-width is varied over
// [sweepLowSigma, sweepHighSigma] width-units in sweepSteps steps.
const (
	sweepLowSigma  = 3.2
	sweepHighSigma = 4.5
	sweepSteps     = 100
)

// uncertainty holds the three independent standard-error contributions to
// the area.
type uncertainty struct {
	Background float64
	Window     float64
	Noise      float64
}

// norm combines the contributions in quadrature.
func (u uncertainty) norm() float64 {
	return math.Sqrt(u.Background*u.Background + u.Window*u.Window + u.Noise*u.Noise)
}

// estimateUncertainty computes the three error contributions for the fitted
// peak:
//
//  1. the background-level standard error propagated through the
//     subtract-then-integrate operation (a constant integrated over the ROI),
//  2. the sensitivity of the area to the 3.5-sigma window choice, and
//  3. the local noise level, measured on the background stretch immediately
//     left of the ROI and scaled by the ROI sample count.
//
// It returns ErrNoNoiseRegion when no samples fall into the left noise
// stretch, for example when the peak sits too close to the start of the
// trace. An empty ROI yields a +Inf noise contribution.
func estimateUncertainty(tr trace.Trace, m Model, part Partition, bg BackgroundEstimate) (uncertainty, error) {
	roi := part.ROI(tr)

	// Background-level contribution: integral of the constant StdErr.
	constErr := make([]float64, roi.Len())
	for i := range constErr {
		constErr[i] = bg.StdErr
	}

	backgroundErr := quad.Integrate(roi.Time, constErr)

	// Window-choice contribution: recompute the area for swept half-widths,
	// skipping sweeps that select an identical partition. All sweeps reuse
	// the global background mean.
	nSigmas := floats.Span(make([]float64, sweepSteps), sweepLowSigma, sweepHighSigma)
	seen := make(map[string]bool, sweepSteps)
	areas := make([]float64, 0, sweepSteps)

	for _, n := range nSigmas {
		p := selectROI(tr, m.Location, m.Width, n)

		k := p.key()
		if seen[k] {
			continue
		}

		seen[k] = true

		sub := p.ROI(tr)
		areas = append(areas, quad.Integrate(sub.Time, subtractConst(sub.Signal, bg.Mean)))
	}

	windowErr := stat.PopStdDev(areas, nil)

	// Local-noise contribution: the ROI itself is not background-free, so
	// the noise level comes from the stretch just left of it.
	left := leftNoiseRegion(tr, m, ROIHalfWidthSigma)
	if left.Len() == 0 {
		return uncertainty{}, ErrNoNoiseRegion
	}

	noiseErr := math.Inf(1)
	if part.Count > 0 {
		noiseErr = stat.PopStdDev(left.Signal, nil) / math.Sqrt(float64(part.Count))
	}

	return uncertainty{
		Background: backgroundErr,
		Window:     windowErr,
		Noise:      noiseErr,
	}, nil
}

// subtractConst returns signal - c, elementwise, in a new slice.
func subtractConst(signal []float64, c float64) []float64 {
	out := make([]float64, len(signal))
	for i, v := range signal {
		out[i] = v - c
	}

	return out
}
