package pulse

import (
	"errors"
	"fmt"
)

// Errors returned by the pulse-area pipeline.
var (
	ErrNoBackground  = errors.New("pulse: background region is empty")
	ErrNoNoiseRegion = errors.New("pulse: noise-estimation region left of the ROI is empty")
)

// ConvergenceError reports a failed peak fit together with the initial
// guesses and box bounds that were used, so the caller can retry with
// better guesses.
type ConvergenceError struct {
	Guess  [NumParams]float64 // amplitude, width, location, background
	Bounds Bounds
	Reason string
	Err    error // underlying solver error, if any
}

func (e *ConvergenceError) Error() string {
	msg := fmt.Sprintf("pulse: fit did not converge: %s (guess %v, bounds %v..%v)",
		e.Reason, e.Guess, e.Bounds.Lower, e.Bounds.Upper)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *ConvergenceError) Unwrap() error {
	return e.Err
}
