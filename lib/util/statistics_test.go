package util

import (
	"math"
	"testing"
)

func TestNewStats(t *testing.T) {
	s := NewStats([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if s.Mean != 5 || s.Min != 2 || s.Max != 9 {
		t.Errorf("unexpected stats %+v", s)
	}
	if math.Abs(s.StdDeviation-2) > 1e-9 {
		t.Errorf("StdDeviation = %v, want 2", s.StdDeviation)
	}
	if (NewStats(nil) != Stats{}) {
		t.Errorf("stats of no values must be zero")
	}
}

func TestSizeHistogram(t *testing.T) {
	h := NewSizeHistogram()
	for i := 1; i <= 100; i++ {
		h.AddSample(i)
	}
	h.AddSample(1 << 30)

	if h.Count() != 101 {
		t.Errorf("Count() = %d, want 101", h.Count())
	}
	if h.Max() != 1<<30 {
		t.Errorf("Max() = %d", h.Max())
	}
	if p := h.Percentile(50); p < 40 || p > 60 {
		t.Errorf("median %v out of the expected range", p)
	}

	boundaries, pct := h.SizeDistribution()
	if len(pct) != len(boundaries)+1 {
		t.Fatalf("expected %d buckets, got %d", len(boundaries)+1, len(pct))
	}
	var sum float64
	for _, p := range pct {
		sum += p
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("bucket percentages sum to %v", sum)
	}
	if pct[len(pct)-1] == 0 {
		t.Errorf("the 1GB sample must land in the overflow bucket")
	}
}
