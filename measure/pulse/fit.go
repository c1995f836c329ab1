package pulse

import (
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-pulse/trace"
)

// Parameter indices of the Gaussian-plus-offset model.
const (
	ParamAmplitude = iota
	ParamWidth
	ParamLocation
	ParamBackground
	NumParams
)

// Solver settings, matching common Levenberg-Marquardt practice for
// curve fitting of this size.
const (
	lmIterations   = 100
	lmObjectiveTol = 1e-16
	lmTau          = 1e-6
	lmEps          = 1e-8
)

// Model is a fitted Gaussian peak on a DC background:
//
//	f(x) = Amplitude * exp(-(x-Location)² / (2*Width²)) + Background
//
// The amplitude is unnormalized (peak height above the background). The
// *Var fields are the diagonal of the parameter covariance matrix, i.e.
// variances; take square roots for one-sigma uncertainties.
type Model struct {
	Amplitude  float64
	Width      float64
	Location   float64
	Background float64

	AmplitudeVar  float64
	WidthVar      float64
	LocationVar   float64
	BackgroundVar float64
}

// Eval evaluates the fitted model at x.
func (m Model) Eval(x float64) float64 {
	d := x - m.Location
	return m.Amplitude*math.Exp(-d*d/(2*m.Width*m.Width)) + m.Background
}

// Guess holds optional starting points for the fit. NaN fields are derived
// from the data: arrival time from the median of time, width from one tenth
// of the time span, background from the signal minimum. A non-positive
// width is treated as unset, since the width must be strictly positive.
type Guess struct {
	ArrivalTime float64
	Width       float64
	Background  float64
}

// AutoGuess returns a Guess that derives every starting point from the data.
func AutoGuess() Guess {
	return Guess{
		ArrivalTime: math.NaN(),
		Width:       math.NaN(),
		Background:  math.NaN(),
	}
}

// Bounds holds per-parameter box constraints, indexed by the Param
// constants. The background is unbounded on both sides.
type Bounds struct {
	Lower [NumParams]float64
	Upper [NumParams]float64
}

// DefaultBounds derives the fit's box constraints from the trace summary:
// amplitude in [0, 10*signal range], width in [mean sample spacing, time
// span], location within the observed time range, background unbounded.
func DefaultBounds(sum trace.Summary) Bounds {
	var b Bounds

	b.Lower[ParamAmplitude] = 0
	b.Upper[ParamAmplitude] = 10 * sum.SignalRange

	b.Lower[ParamWidth] = sum.MeanSpacing
	b.Upper[ParamWidth] = sum.TimeSpan

	b.Lower[ParamLocation] = sum.MinTime
	b.Upper[ParamLocation] = sum.MaxTime

	b.Lower[ParamBackground] = math.Inf(-1)
	b.Upper[ParamBackground] = math.Inf(1)

	return b
}

// FitPeak fits the Gaussian-plus-offset model to the cleaned trace using
// bounded nonlinear least squares and returns the fitted parameters with
// their variances.
//
// Bounded parameters are routed through a sine transform so that the
// unconstrained Levenberg-Marquardt solver can never leave the box:
//
//	p = lo + (hi-lo) * (sin(u)+1) / 2
//
// The reported covariance is s²*(JᵀJ)⁻¹ evaluated at the solution in the
// original parameter space, with s² the residual variance.
func FitPeak(tr trace.Trace, g Guess) (Model, error) {
	sum, err := trace.Summarize(tr)
	if err != nil {
		return Model{}, &ConvergenceError{Reason: "empty trace", Err: err}
	}

	bounds := DefaultBounds(sum)
	guess := resolveGuess(g, sum)

	if tr.Len() < NumParams {
		return Model{}, &ConvergenceError{
			Guess:  guess,
			Bounds: bounds,
			Reason: "fewer samples than free parameters",
		}
	}

	if ce := validateFit(guess, bounds); ce != nil {
		ce.Guess = guess
		ce.Bounds = bounds

		return Model{}, ce
	}

	// Solve in transformed coordinates.
	residual := func(dst, u []float64) {
		p := fromInternal(u, bounds)
		for i := range tr.Time {
			dst[i] = gaussian(tr.Time[i], p) - tr.Signal[i]
		}
	}

	jacobian := lm.NumJac{Func: residual}
	problem := lm.LMProblem{
		Dim:        NumParams,
		Size:       tr.Len(),
		Func:       residual,
		Jac:        jacobian.Jac,
		InitParams: toInternal(guess, bounds),
		Tau:        lmTau,
		Eps1:       lmEps,
		Eps2:       lmEps,
	}

	results, err := lm.LM(problem, &lm.Settings{Iterations: lmIterations, ObjectiveTol: lmObjectiveTol})
	if err != nil {
		return Model{}, &ConvergenceError{
			Guess:  guess,
			Bounds: bounds,
			Reason: "solver failed",
			Err:    err,
		}
	}

	params := fromInternal(results.X, bounds)
	for _, v := range params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Model{}, &ConvergenceError{
				Guess:  guess,
				Bounds: bounds,
				Reason: "solver produced non-finite parameters",
			}
		}
	}

	variances, err := paramVariances(tr, params)
	if err != nil {
		return Model{}, &ConvergenceError{
			Guess:  guess,
			Bounds: bounds,
			Reason: "covariance matrix is singular",
			Err:    err,
		}
	}

	return Model{
		Amplitude:     params[ParamAmplitude],
		Width:         params[ParamWidth],
		Location:      params[ParamLocation],
		Background:    params[ParamBackground],
		AmplitudeVar:  variances[ParamAmplitude],
		WidthVar:      variances[ParamWidth],
		LocationVar:   variances[ParamLocation],
		BackgroundVar: variances[ParamBackground],
	}, nil
}

// gaussian evaluates the model for a raw parameter vector.
func gaussian(x float64, p [NumParams]float64) float64 {
	d := x - p[ParamLocation]
	w := p[ParamWidth]

	return p[ParamAmplitude]*math.Exp(-d*d/(2*w*w)) + p[ParamBackground]
}

// resolveGuess fills unset Guess fields with data-derived defaults and adds
// the amplitude guess, which is always derived from the signal range.
func resolveGuess(g Guess, sum trace.Summary) [NumParams]float64 {
	var guess [NumParams]float64

	guess[ParamAmplitude] = sum.SignalRange

	guess[ParamWidth] = g.Width
	if math.IsNaN(g.Width) || g.Width <= 0 {
		guess[ParamWidth] = sum.TimeSpan / 10
	}

	guess[ParamLocation] = g.ArrivalTime
	if math.IsNaN(g.ArrivalTime) {
		guess[ParamLocation] = sum.MedianTime
	}

	guess[ParamBackground] = g.Background
	if math.IsNaN(g.Background) {
		guess[ParamBackground] = sum.MinSignal
	}

	return guess
}

// validateFit rejects guesses and bounds the solver cannot work with.
func validateFit(guess [NumParams]float64, bounds Bounds) *ConvergenceError {
	for i := range guess {
		if math.IsNaN(guess[i]) || math.IsInf(guess[i], 0) {
			return &ConvergenceError{Reason: "non-finite initial guess"}
		}
	}

	for i := range bounds.Lower {
		lo, hi := bounds.Lower[i], bounds.Upper[i]
		if math.IsNaN(lo) || math.IsNaN(hi) {
			return &ConvergenceError{Reason: "non-finite bounds"}
		}

		bounded := !math.IsInf(lo, 0) && !math.IsInf(hi, 0)
		if bounded && hi <= lo {
			return &ConvergenceError{Reason: "degenerate bounds (zero span or zero signal range)"}
		}

		if guess[i] < lo || guess[i] > hi {
			return &ConvergenceError{Reason: "initial guess outside bounds"}
		}
	}

	return nil
}

// toInternal maps a bounded parameter vector into the solver's
// unconstrained space.
func toInternal(p [NumParams]float64, bounds Bounds) []float64 {
	u := make([]float64, NumParams)

	for i := range p {
		lo, hi := bounds.Lower[i], bounds.Upper[i]
		if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			u[i] = p[i]
			continue
		}

		// Nudge boundary guesses inside so the transform has a nonzero
		// derivative at the starting point.
		frac := (p[i] - lo) / (hi - lo)
		frac = math.Min(math.Max(frac, 1e-9), 1-1e-9)

		u[i] = math.Asin(2*frac - 1)
	}

	return u
}

// fromInternal maps a solver-space vector back into bounded parameters.
func fromInternal(u []float64, bounds Bounds) [NumParams]float64 {
	var p [NumParams]float64

	for i := range p {
		lo, hi := bounds.Lower[i], bounds.Upper[i]
		if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			p[i] = u[i]
			continue
		}

		p[i] = lo + (hi-lo)*(math.Sin(u[i])+1)/2
	}

	return p
}

// paramVariances computes the diagonal of s²*(JᵀJ)⁻¹ at the solution,
// where J is the model's Jacobian with respect to the original parameters
// and s² = RSS/(n-p) the residual variance. With zero residual degrees of
// freedom the variances are +Inf.
func paramVariances(tr trace.Trace, params [NumParams]float64) ([NumParams]float64, error) {
	n := tr.Len()

	rss := 0.0
	for i := range tr.Time {
		r := gaussian(tr.Time[i], params) - tr.Signal[i]
		rss += r * r
	}

	jac := mat.NewDense(n, NumParams, nil)

	for j := 0; j < NumParams; j++ {
		h := 1e-8 * math.Max(math.Abs(params[j]), 1)

		up, down := params, params
		up[j] += h
		down[j] -= h

		for i := range tr.Time {
			jac.Set(i, j, (gaussian(tr.Time[i], up)-gaussian(tr.Time[i], down))/(2*h))
		}
	}

	var jtj mat.Dense
	jtj.Mul(jac.T(), jac)

	var inv mat.Dense
	if err := inv.Inverse(&jtj); err != nil {
		return [NumParams]float64{}, err
	}

	var variances [NumParams]float64

	if n == NumParams {
		for i := range variances {
			variances[i] = math.Inf(1)
		}

		return variances, nil
	}

	s2 := rss / float64(n-NumParams)
	for i := range variances {
		variances[i] = s2 * inv.At(i, i)
	}

	return variances, nil
}
