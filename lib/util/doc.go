// Package util provides the statistics helpers behind `csav tree stats`:
//   - Stats: min, max, mean and standard deviation of a set of values
//   - SizeHistogram: distribution of node sizes, percentiles from a go-metrics
//     reservoir sample plus an exponential bucket distribution
package util
