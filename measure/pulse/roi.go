package pulse

import (
	"github.com/cwbudde/algo-pulse/trace"
)

// ROIHalfWidthSigma is the half-width of the region of interest in units of
// the fitted width. 3.5 sigma covers about 99.95% of a Gaussian's mass and
// is a fixed design parameter.
const ROIHalfWidthSigma = 3.5

// Partition is a boolean ROI membership mask over a trace. Samples outside
// the ROI form the background region; the two sets are disjoint and cover
// the whole trace.
type Partition struct {
	InROI []bool
	Count int // number of samples inside the ROI
}

// SelectROI partitions the trace around the fitted peak: a sample is in the
// region of interest iff its time lies strictly within
// Location ± ROIHalfWidthSigma*Width. An empty ROI is a valid, degenerate
// partition.
func SelectROI(tr trace.Trace, m Model) Partition {
	return selectROI(tr, m.Location, m.Width, ROIHalfWidthSigma)
}

// selectROI is SelectROI with an explicit sigma multiple, used by the
// window-choice uncertainty sweep.
func selectROI(tr trace.Trace, location, width, nSigma float64) Partition {
	in := make([]bool, tr.Len())
	count := 0

	lo := location - nSigma*width
	hi := location + nSigma*width

	for i, t := range tr.Time {
		if t > lo && t < hi {
			in[i] = true
			count++
		}
	}

	return Partition{InROI: in, Count: count}
}

// ROI returns the sub-trace inside the region of interest, in time order.
func (p Partition) ROI(tr trace.Trace) trace.Trace {
	return tr.Select(p.InROI)
}

// Background returns the sub-trace outside the region of interest, in time
// order.
func (p Partition) Background(tr trace.Trace) trace.Trace {
	out := make([]bool, len(p.InROI))
	for i, in := range p.InROI {
		out[i] = !in
	}

	return tr.Select(out)
}

// key encodes the mask for deduplication of identical partitions.
func (p Partition) key() string {
	b := make([]byte, len(p.InROI))
	for i, in := range p.InROI {
		if in {
			b[i] = 1
		}
	}

	return string(b)
}

// leftNoiseRegion selects the background stretch immediately left of the
// ROI, from nSigma to 3*nSigma width-units below the location. It is used
// to estimate the local noise level, since the ROI itself is not
// background-free.
func leftNoiseRegion(tr trace.Trace, m Model, nSigma float64) trace.Trace {
	lo := m.Location - 3*nSigma*m.Width
	hi := m.Location - nSigma*m.Width

	keep := make([]bool, tr.Len())
	for i, t := range tr.Time {
		keep[i] = t > lo && t < hi
	}

	return tr.Select(keep)
}
