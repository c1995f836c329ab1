package trace

import (
	"errors"
	"math"
	"testing"
)

func TestNew_LengthMismatch(t *testing.T) {
	_, err := New([]float64{1, 2, 3}, []float64{1, 2})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
}

func TestNew_KeepsSlices(t *testing.T) {
	tr, err := New([]float64{1, 2}, []float64{3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tr.Len())
	}
}

func TestClean_DropsNaNPairs(t *testing.T) {
	nan := math.NaN()
	tr := Trace{
		Time:   []float64{0, 1, nan, 3, 4, 5},
		Signal: []float64{10, nan, 12, 13, nan, 15},
	}

	got := tr.Clean()

	wantTime := []float64{0, 3, 5}
	wantSignal := []float64{10, 13, 15}

	if got.Len() != 3 {
		t.Fatalf("Len = %d, want 3", got.Len())
	}
	for i := range wantTime {
		if got.Time[i] != wantTime[i] || got.Signal[i] != wantSignal[i] {
			t.Fatalf("pair %d = (%v, %v), want (%v, %v)",
				i, got.Time[i], got.Signal[i], wantTime[i], wantSignal[i])
		}
	}
}

func TestClean_NoNaNsIsIdentity(t *testing.T) {
	tr := Trace{Time: []float64{2, 0, 1}, Signal: []float64{5, 6, 7}}
	got := tr.Clean()

	for i := range tr.Time {
		if got.Time[i] != tr.Time[i] || got.Signal[i] != tr.Signal[i] {
			t.Fatalf("Clean reordered or changed pair %d", i)
		}
	}
}

func TestSortByTime_CarriesPairs(t *testing.T) {
	tr := Trace{Time: []float64{3, 1, 2}, Signal: []float64{30, 10, 20}}
	got := tr.SortByTime()

	wantTime := []float64{1, 2, 3}
	wantSignal := []float64{10, 20, 30}

	for i := range wantTime {
		if got.Time[i] != wantTime[i] || got.Signal[i] != wantSignal[i] {
			t.Fatalf("pair %d = (%v, %v), want (%v, %v)",
				i, got.Time[i], got.Signal[i], wantTime[i], wantSignal[i])
		}
	}

	// Input must be untouched.
	if tr.Time[0] != 3 || tr.Signal[0] != 30 {
		t.Fatal("SortByTime modified its input")
	}
}

func TestSortByTime_StableOnTies(t *testing.T) {
	tr := Trace{Time: []float64{1, 1, 0}, Signal: []float64{10, 20, 30}}
	got := tr.SortByTime()

	if got.Signal[0] != 30 || got.Signal[1] != 10 || got.Signal[2] != 20 {
		t.Fatalf("Signal = %v, want [30 10 20]", got.Signal)
	}
}

func TestSelect(t *testing.T) {
	tr := Trace{Time: []float64{0, 1, 2, 3}, Signal: []float64{4, 5, 6, 7}}
	got := tr.Select([]bool{true, false, false, true})

	if got.Len() != 2 || got.Time[0] != 0 || got.Time[1] != 3 || got.Signal[1] != 7 {
		t.Fatalf("Select = %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	tr := Trace{
		Time:   []float64{0, 1, 2, 3, 4},
		Signal: []float64{5, 2, 9, 2, 5},
	}

	sum, err := Summarize(tr)
	if err != nil {
		t.Fatal(err)
	}

	if sum.Length != 5 {
		t.Errorf("Length = %d, want 5", sum.Length)
	}
	if sum.MinTime != 0 || sum.MaxTime != 4 || sum.TimeSpan != 4 {
		t.Errorf("time stats = %v %v %v", sum.MinTime, sum.MaxTime, sum.TimeSpan)
	}
	if sum.MedianTime != 2 {
		t.Errorf("MedianTime = %v, want 2", sum.MedianTime)
	}
	if sum.MeanSpacing != 1 {
		t.Errorf("MeanSpacing = %v, want 1", sum.MeanSpacing)
	}
	if sum.MinSignal != 2 || sum.MaxSignal != 9 || sum.SignalRange != 7 {
		t.Errorf("signal stats = %v %v %v", sum.MinSignal, sum.MaxSignal, sum.SignalRange)
	}
}

func TestSummarize_MedianEvenLength(t *testing.T) {
	tr := Trace{Time: []float64{4, 1, 3, 2}, Signal: []float64{0, 0, 0, 0}}

	sum, err := Summarize(tr)
	if err != nil {
		t.Fatal(err)
	}

	if sum.MedianTime != 2.5 {
		t.Fatalf("MedianTime = %v, want 2.5", sum.MedianTime)
	}
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(Trace{})
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
}

func TestSummarize_SingleSample(t *testing.T) {
	sum, err := Summarize(Trace{Time: []float64{7}, Signal: []float64{3}})
	if err != nil {
		t.Fatal(err)
	}

	if sum.MeanSpacing != 0 || sum.TimeSpan != 0 || sum.MedianTime != 7 {
		t.Fatalf("summary = %+v", sum)
	}
}
