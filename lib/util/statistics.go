package util

import (
	"math"
	"sync"

	gometrics "github.com/rcrowley/go-metrics"
)

// ----------------------------------------------------------------------------
// Helper functions
// ----------------------------------------------------------------------------

type Stats struct {
	StdDeviation float64 `json:"std_deviation" yaml:"std_deviation"`
	Min          float64 `json:"min" yaml:"min"`
	Max          float64 `json:"max" yaml:"max"`
	Mean         float64 `json:"mean" yaml:"mean"`
	MinMaxRatio  float64 `json:"min_max_ratio" yaml:"min_max_ratio"`
}

// NewStats computes the standard deviation, minimum, maximum and mean
// from an array of float64 values.
func NewStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	min, max := values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	mean := sum / float64(len(values))

	var sumSquaredDiffs float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiffs += diff * diff
	}

	minMaxRatio := 1.0
	if max > 0 {
		minMaxRatio = min / max
	}

	return Stats{
		StdDeviation: math.Sqrt(sumSquaredDiffs / float64(len(values))),
		Min:          min,
		Max:          max,
		Mean:         mean,
		MinMaxRatio:  minMaxRatio,
	}
}

// ----------------------------------------------------------------------------
// SizeHistogram
// ----------------------------------------------------------------------------

// sampleSize is the reservoir size of the underlying go-metrics sample
const sampleSize = 4096

// SizeHistogram tracks the distribution of node sizes.
// Exact percentiles come from a go-metrics reservoir sample, the bucket
// distribution is kept alongside for the stats report.
type SizeHistogram struct {
	mutex      sync.RWMutex
	hist       gometrics.Histogram
	boundaries []int   // Bucket boundaries covering byte to 16MB range
	buckets    []int64 // Count of items in each bucket
}

// NewSizeHistogram creates a new size histogram with default bucket boundaries
func NewSizeHistogram() *SizeHistogram {
	boundaries := []int{
		4, 16, 64, 256, 1024, // Bytes: header only to 1KB
		4096, 16384, 65536, 262144, // KB range
		1048576, 4194304, 16777216, // MB range
	}
	return &SizeHistogram{
		hist:       gometrics.NewHistogram(gometrics.NewUniformSample(sampleSize)),
		boundaries: boundaries,
		buckets:    make([]int64, len(boundaries)+1),
	}
}

// AddSample adds a size sample to the histogram
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) AddSample(size int) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	bucketIndex := len(h.boundaries)
	for i, boundary := range h.boundaries {
		if size <= boundary {
			bucketIndex = i
			break
		}
	}
	h.buckets[bucketIndex]++
	h.hist.Update(int64(size))
}

// Count returns the total number of samples
func (h *SizeHistogram) Count() int64 {
	return h.hist.Count()
}

// Sum returns the sum of all sampled sizes
func (h *SizeHistogram) Sum() int64 {
	return h.hist.Sum()
}

// Mean returns the average size across all samples
func (h *SizeHistogram) Mean() float64 {
	return h.hist.Mean()
}

// Percentile returns the given percentile (0-100) of the sampled sizes
func (h *SizeHistogram) Percentile(percentile float64) float64 {
	if percentile < 0 || percentile > 100 {
		return 0
	}
	return h.hist.Percentile(percentile / 100)
}

// Max returns the largest sample
func (h *SizeHistogram) Max() int64 {
	return h.hist.Max()
}

// SizeDistribution returns the bucket boundaries and the percentage of samples
// in each bucket (the last bucket holds everything above the last boundary)
//
// Thread-safe: This method is safe for concurrent use
func (h *SizeHistogram) SizeDistribution() ([]int, []float64) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	percentages := make([]float64, len(h.buckets))
	var total int64
	for _, c := range h.buckets {
		total += c
	}
	if total == 0 {
		return h.boundaries, percentages
	}
	for i, count := range h.buckets {
		percentages[i] = float64(count) * 100.0 / float64(total)
	}
	return h.boundaries, percentages
}
