package pulse

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pulse/internal/testutil"
	"github.com/cwbudde/algo-pulse/trace"
)

func mustTrace(t *testing.T, times, signal []float64) trace.Trace {
	t.Helper()

	tr, err := trace.New(times, signal)
	if err != nil {
		t.Fatal(err)
	}

	return tr.Clean().SortByTime()
}

func TestFitPeak_RecoversNoiselessParameters(t *testing.T) {
	const (
		amplitude  = 100.0
		width      = 5.0
		location   = 20.0
		background = 10.0
	)

	times := testutil.UniformTimes(location-50, location+50, 1000)
	signal := testutil.GaussianPulse(times, amplitude, width, location, background)
	tr := mustTrace(t, times, signal)

	m, err := FitPeak(tr, AutoGuess())
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNearRel(t, m.Amplitude, amplitude, 1e-2)
	testutil.RequireNearRel(t, m.Width, width, 1e-2)
	testutil.RequireNear(t, m.Location, location, 0.1)
	testutil.RequireNear(t, m.Background, background, 0.5)
}

func TestFitPeak_NoisyRecovery(t *testing.T) {
	const (
		amplitude  = 100.0
		width      = 5.0
		location   = 0.0
		background = 10.0
		sigma      = 1.0
	)

	times := testutil.UniformTimes(-50, 50, 1000)
	clean := testutil.GaussianPulse(times, amplitude, width, location, background)
	signal := testutil.AddGaussianNoise(clean, sigma, 1)
	tr := mustTrace(t, times, signal)

	m, err := FitPeak(tr, AutoGuess())
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNearRel(t, m.Amplitude, amplitude, 0.05)
	testutil.RequireNearRel(t, m.Width, width, 0.05)
	testutil.RequireNear(t, m.Location, location, 0.5)
	testutil.RequireNear(t, m.Background, background, 0.5)

	// Variances must be positive and finite on a well-posed fit.
	for _, v := range []float64{m.AmplitudeVar, m.WidthVar, m.LocationVar, m.BackgroundVar} {
		if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			t.Fatalf("variance = %v, want positive finite", v)
		}
	}
}

func TestFitPeak_BackgroundShiftMovesOnlyBackground(t *testing.T) {
	const shift = 42.0

	times := testutil.UniformTimes(-50, 50, 500)
	signal := testutil.GaussianPulse(times, 100, 5, 0, 10)

	shifted := make([]float64, len(signal))
	for i, v := range signal {
		shifted[i] = v + shift
	}

	base, err := FitPeak(mustTrace(t, times, signal), AutoGuess())
	if err != nil {
		t.Fatal(err)
	}

	moved, err := FitPeak(mustTrace(t, times, shifted), AutoGuess())
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNearRel(t, moved.Amplitude, base.Amplitude, 1e-3)
	testutil.RequireNearRel(t, moved.Width, base.Width, 1e-3)
	testutil.RequireNear(t, moved.Location, base.Location, 1e-3)
	testutil.RequireNear(t, moved.Background, base.Background+shift, 1e-3)
}

func TestFitPeak_UserGuessesHonored(t *testing.T) {
	const location = 30.0

	times := testutil.UniformTimes(0, 100, 800)
	signal := testutil.GaussianPulse(times, 50, 3, location, 5)
	tr := mustTrace(t, times, signal)

	m, err := FitPeak(tr, Guess{ArrivalTime: 28, Width: 4, Background: 5})
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireNear(t, m.Location, location, 0.1)
	testutil.RequireNearRel(t, m.Width, 3, 1e-2)
}

func TestFitPeak_TooFewSamples(t *testing.T) {
	tr := mustTrace(t, []float64{0, 1, 2}, []float64{1, 5, 1})

	_, err := FitPeak(tr, AutoGuess())

	var ce *ConvergenceError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *ConvergenceError", err)
	}
}

func TestFitPeak_FlatSignal(t *testing.T) {
	times := testutil.UniformTimes(0, 10, 100)
	signal := make([]float64, len(times))
	for i := range signal {
		signal[i] = 7
	}

	_, err := FitPeak(mustTrace(t, times, signal), AutoGuess())

	var ce *ConvergenceError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *ConvergenceError", err)
	}
}

func TestFitPeak_GuessOutsideBounds(t *testing.T) {
	times := testutil.UniformTimes(0, 10, 100)
	signal := testutil.GaussianPulse(times, 10, 1, 5, 0)

	// A width guess beyond the full time span is infeasible.
	_, err := FitPeak(mustTrace(t, times, signal), Guess{
		ArrivalTime: math.NaN(),
		Width:       100,
		Background:  math.NaN(),
	})

	var ce *ConvergenceError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *ConvergenceError", err)
	}

	// The error must carry the context needed to retry.
	testutil.RequireNear(t, ce.Bounds.Upper[ParamWidth], 10, 1e-9)
	if ce.Guess[ParamWidth] != 100 {
		t.Fatalf("Guess[ParamWidth] = %v, want 100", ce.Guess[ParamWidth])
	}
}

func TestFitPeak_RespectsBounds(t *testing.T) {
	times := testutil.UniformTimes(0, 100, 400)
	clean := testutil.GaussianPulse(times, 30, 4, 60, 2)
	signal := testutil.AddGaussianNoise(clean, 0.5, 7)
	tr := mustTrace(t, times, signal)

	sum, err := trace.Summarize(tr)
	if err != nil {
		t.Fatal(err)
	}

	bounds := DefaultBounds(sum)

	m, err := FitPeak(tr, AutoGuess())
	if err != nil {
		t.Fatal(err)
	}

	params := [NumParams]float64{m.Amplitude, m.Width, m.Location, m.Background}
	for i, p := range params {
		if p < bounds.Lower[i] || p > bounds.Upper[i] {
			t.Fatalf("param %d = %v outside [%v, %v]", i, p, bounds.Lower[i], bounds.Upper[i])
		}
	}
}

func TestDefaultBounds(t *testing.T) {
	sum := trace.Summary{
		MinTime:     0,
		MaxTime:     10,
		TimeSpan:    10,
		MeanSpacing: 0.5,
		SignalRange: 4,
	}

	b := DefaultBounds(sum)

	if b.Lower[ParamAmplitude] != 0 || b.Upper[ParamAmplitude] != 40 {
		t.Errorf("amplitude bounds = [%v, %v]", b.Lower[ParamAmplitude], b.Upper[ParamAmplitude])
	}
	if b.Lower[ParamWidth] != 0.5 || b.Upper[ParamWidth] != 10 {
		t.Errorf("width bounds = [%v, %v]", b.Lower[ParamWidth], b.Upper[ParamWidth])
	}
	if b.Lower[ParamLocation] != 0 || b.Upper[ParamLocation] != 10 {
		t.Errorf("location bounds = [%v, %v]", b.Lower[ParamLocation], b.Upper[ParamLocation])
	}
	if !math.IsInf(b.Lower[ParamBackground], -1) || !math.IsInf(b.Upper[ParamBackground], 1) {
		t.Errorf("background bounds = [%v, %v]", b.Lower[ParamBackground], b.Upper[ParamBackground])
	}
}

func TestBoundTransformRoundTrip(t *testing.T) {
	sum := trace.Summary{
		MinTime:     -5,
		MaxTime:     5,
		TimeSpan:    10,
		MeanSpacing: 0.1,
		SignalRange: 100,
	}
	bounds := DefaultBounds(sum)

	p := [NumParams]float64{50, 2, 1, -3}
	got := fromInternal(toInternal(p, bounds), bounds)

	for i := range p {
		testutil.RequireNear(t, got[i], p[i], 1e-6)
	}
}
