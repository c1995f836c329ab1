// Package quad wraps gonum's composite Simpson's rule for tabulated data
// with the degenerate-input behavior the pulse-area pipeline relies on:
// an empty or single-sample grid integrates to zero rather than panicking,
// a two-sample grid uses the trapezoid rule, and repeated abscissae are
// collapsed to their mean ordinate instead of being rejected.
package quad
