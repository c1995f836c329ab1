// Package render draws the result of a pulse-area measurement: background
// samples, region-of-interest samples, the fitted Gaussian curve, and the
// filled integration band, annotated with the area and its uncertainty.
//
// It is a pure consumer of final results; nothing in the measurement
// pipeline depends on it being invoked.
package render
