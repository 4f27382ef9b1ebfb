package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// FleetSource reports the number of vehicles per status.
type FleetSource func() map[string]int

// Collector exposes fleet gauges computed at scrape time.
type Collector struct {
	source   FleetSource
	vehicles *prometheus.Desc
}

// NewCollector creates a fleet collector reading from source.
func NewCollector(source FleetSource) *Collector {
	return &Collector{
		source: source,
		vehicles: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "fleet", "vehicles"),
			"Vehicles in the fleet by status.",
			[]string{"status"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.vehicles
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.source == nil {
		return
	}
	for status, n := range c.source() {
		ch <- prometheus.MustNewConstMetric(c.vehicles, prometheus.GaugeValue, float64(n), status)
	}
}
