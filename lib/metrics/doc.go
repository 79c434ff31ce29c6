// Package metrics holds the process wide counters of the codecs. They are
// registered in a private VictoriaMetrics set and can be written in Prometheus
// text format, the CLI does so when started with --metrics.
package metrics
