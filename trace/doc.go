// Package trace holds sampled (time, signal) pairs and the preprocessing
// steps the pulse-area pipeline applies before fitting.
//
// A Trace keeps its two slices index-aligned at all times. The cleaning
// step drops pairs where either coordinate is NaN; the sorting step orders
// pairs ascending by time, which downstream quadrature requires.
//
// # Usage
//
//	tr, err := trace.New(times, samples)
//	if err != nil {
//	    // lengths differ
//	}
//	tr = tr.Clean().SortByTime()
//	sum, _ := trace.Summarize(tr)
package trace
