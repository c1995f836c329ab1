package testutil

import (
	"math"
	"math/rand"
)

// UniformTimes returns n uniformly spaced time stamps from lo to hi
// inclusive.
func UniformTimes(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}

	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}

	return out
}

// GaussianPulse evaluates an unnormalized Gaussian peak on a DC background
// at the given times:
//
//	amplitude * exp(-(t-location)² / (2*width²)) + background
func GaussianPulse(times []float64, amplitude, width, location, background float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		d := t - location
		out[i] = amplitude*math.Exp(-d*d/(2*width*width)) + background
	}

	return out
}

// AddGaussianNoise returns signal plus seeded normal noise with standard
// deviation sigma. The same seed always produces the same noise.
func AddGaussianNoise(signal []float64, sigma float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))

	out := make([]float64, len(signal))
	for i, v := range signal {
		out[i] = v + sigma*rng.NormFloat64()
	}

	return out
}

// WithNaNs returns a copy of data with NaN written at the given indices.
func WithNaNs(data []float64, indices ...int) []float64 {
	out := make([]float64, len(data))
	copy(out, data)

	for _, i := range indices {
		out[i] = math.NaN()
	}

	return out
}

// DropIndices returns a copy of data with the given indices removed. The
// indices must be sorted ascending and unique.
func DropIndices(data []float64, indices ...int) []float64 {
	out := make([]float64, 0, len(data))

	next := 0
	for i, v := range data {
		if next < len(indices) && indices[next] == i {
			next++
			continue
		}

		out = append(out, v)
	}

	return out
}
