package pulse_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pulse/internal/testutil"
	"github.com/cwbudde/algo-pulse/measure/pulse"
)

func ExampleAnalyze() {
	// A clean detector pulse: amplitude 100, width 5, on a background of 10.
	times := testutil.UniformTimes(-50, 50, 1000)
	signal := testutil.GaussianPulse(times, 100, 5, 0, 10)

	res, err := pulse.Analyze(times, signal, pulse.DefaultConfig())
	if err != nil {
		fmt.Println(err)
		return
	}

	// The analytic area is 100 * 5 * sqrt(2*pi) ≈ 1253.3.
	analytic := 100 * 5 * math.Sqrt(2*math.Pi)
	fmt.Println("recovered within 2%:", math.Abs(res.Area-analytic) < 0.02*analytic)
	fmt.Println("width within 2%:", math.Abs(res.Model.Width-5) < 0.1)

	// Output:
	// recovered within 2%: true
	// width within 2%: true
}
