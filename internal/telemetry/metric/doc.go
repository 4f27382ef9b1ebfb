// Package metric provides Prometheus metrics for the RentDash client.
//
// Metrics live in a private registry rather than the process default:
//
//   - prometheus.go: client metrics and text exposition
//   - collector.go: fleet gauges computed at scrape time
//
// The CLI has no listener; `rentdash-cli system metrics` prints the
// registry in Prometheus text format.
package metric
