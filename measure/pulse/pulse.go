package pulse

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pulse/quad"
	"github.com/cwbudde/algo-pulse/render"
	"github.com/cwbudde/algo-pulse/trace"
)

// Config holds the optional inputs of Analyze. The guess fields start the
// fit; NaN (the DefaultConfig value) means "derive from the data". A
// non-positive WidthGuess is also treated as unset. PlotPath, when
// non-empty, is the file the result plot is written to.
type Config struct {
	ArrivalTimeGuess float64 // peak center, time units; NaN = median of time
	WidthGuess       float64 // one-sigma width, time units; NaN or <= 0 = time span / 10
	BackgroundGuess  float64 // DC level, signal units; NaN = signal minimum
	PlotPath         string  // "" = no plot
}

// DefaultConfig returns a Config that derives every guess from the data and
// produces no plot.
func DefaultConfig() Config {
	return Config{
		ArrivalTimeGuess: math.NaN(),
		WidthGuess:       math.NaN(),
		BackgroundGuess:  math.NaN(),
	}
}

// Result holds the integrated area with its combined standard error,
// together with the intermediate quantities the renderer and callers
// inspecting the error budget consume.
type Result struct {
	Area   float64 // time units * signal units
	StdErr float64 // combined one-sigma uncertainty of Area

	Model      Model
	Background BackgroundEstimate
	ROICount   int

	// Individual uncertainty contributions; StdErr is their Euclidean norm.
	BackgroundErr float64
	WindowErr     float64
	NoiseErr      float64
}

// Analyze estimates the integrated area of a single peaked signal riding on
// a noisy DC background.
//
// The pipeline drops NaN samples, sorts by time, fits a Gaussian plus
// offset to locate the peak, integrates the background-subtracted signal
// over location ± 3.5 fitted widths, and combines three independent
// uncertainty contributions in quadrature.
//
// Errors: trace.ErrLengthMismatch for mismatched inputs, *ConvergenceError
// when the bounded fit fails, ErrNoBackground when the ROI swallows the
// whole trace, ErrNoNoiseRegion when no background exists left of the ROI.
// An empty ROI is not an error; it yields Area 0 with an infinite StdErr.
func Analyze(time, signal []float64, cfg Config) (Result, error) {
	raw, err := trace.New(time, signal)
	if err != nil {
		return Result{}, err
	}

	tr := raw.Clean().SortByTime()

	model, err := FitPeak(tr, Guess{
		ArrivalTime: cfg.ArrivalTimeGuess,
		Width:       cfg.WidthGuess,
		Background:  cfg.BackgroundGuess,
	})
	if err != nil {
		return Result{}, err
	}

	part := SelectROI(tr, model)

	bg, err := EstimateBackground(part.Background(tr))
	if err != nil {
		return Result{}, err
	}

	roi := part.ROI(tr)
	area := quad.Integrate(roi.Time, subtractConst(roi.Signal, bg.Mean))

	unc, err := estimateUncertainty(tr, model, part, bg)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Area:          area,
		StdErr:        unc.norm(),
		Model:         model,
		Background:    bg,
		ROICount:      part.Count,
		BackgroundErr: unc.Background,
		WindowErr:     unc.Window,
		NoiseErr:      unc.Noise,
	}

	if cfg.PlotPath != "" {
		fig := render.Figure{
			Time:       tr.Time,
			Signal:     tr.Signal,
			InROI:      part.InROI,
			Fit:        model.Eval,
			Background: bg.Mean,
			Area:       res.Area,
			StdErr:     res.StdErr,
		}
		if err := fig.Save(cfg.PlotPath); err != nil {
			return Result{}, fmt.Errorf("pulse: rendering plot: %w", err)
		}
	}

	return res, nil
}
