// Package pulse measures the integrated area of a single isolated peak
// riding on a noisy DC background, and quantifies the uncertainty of that
// area.
//
// The measurement chains a bounded nonlinear Gaussian fit into a fixed
// geometric and statistical recipe:
//
//   - fit amplitude, width, location and background of an unnormalized
//     Gaussian plus DC offset, with data-derived guesses and box bounds
//   - take the region of interest as location ± 3.5 fitted widths
//     (about 99.95% of a Gaussian's mass)
//   - estimate the background level from everything outside the ROI
//   - integrate the background-subtracted signal over the ROI with
//     Simpson's rule
//   - combine three independent error sources in quadrature: the background
//     level's standard error, the sensitivity of the area to the 3.5-sigma
//     window choice (swept from 3.2 to 4.5), and the local noise level
//     measured just left of the ROI
//
// The pipeline is stateless and deterministic: identical inputs produce
// bit-identical results.
//
// # Usage
//
//	res, err := pulse.Analyze(times, samples, pulse.DefaultConfig())
//	if err != nil {
//	    // data-quality problem; see the package errors
//	}
//	fmt.Printf("area = %.1f ± %.1f\n", res.Area, res.StdErr)
package pulse
