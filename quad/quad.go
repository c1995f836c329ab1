package quad

import "gonum.org/v1/gonum/integrate"

// Integrate returns the definite integral of the tabulated samples (x, y)
// using composite Simpson's rule on the possibly non-uniform grid x.
//
// x must be sorted ascending and have the same length as y. Repeated
// abscissae are allowed: a zero-width interval carries no area, so runs of
// equal x values are collapsed to a single point at the run's mean
// ordinate. Fewer than two distinct samples integrate to 0; exactly two
// fall back to the trapezoid rule, since Simpson's rule needs three points.
func Integrate(x, y []float64) float64 {
	x, y = collapseRepeats(x, y)

	switch {
	case len(x) < 2:
		return 0
	case len(x) == 2:
		return (x[1] - x[0]) * (y[0] + y[1]) / 2
	default:
		return integrate.Simpsons(x, y)
	}
}

// collapseRepeats merges each run of equal abscissae into a single sample
// holding the run's mean ordinate. The underlying Simpson evaluation
// rejects repeated abscissae outright, while measured data may legitimately
// carry time-stamp ties. Tie-free input is returned unchanged, without
// copying.
func collapseRepeats(x, y []float64) ([]float64, []float64) {
	repeated := false
	for i := 1; i < len(x); i++ {
		if x[i] == x[i-1] {
			repeated = true
			break
		}
	}

	if !repeated {
		return x, y
	}

	outX := make([]float64, 0, len(x))
	outY := make([]float64, 0, len(y))

	for i := 0; i < len(x); {
		j := i + 1
		sum := y[i]

		for j < len(x) && x[j] == x[i] {
			sum += y[j]
			j++
		}

		outX = append(outX, x[i])
		outY = append(outY, sum/float64(j-i))
		i = j
	}

	return outX, outY
}
