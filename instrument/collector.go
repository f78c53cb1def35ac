package instrument

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pavanmanishd/alloc"
)

var (
	arenaBytesInUse = prometheus.NewDesc(
		"alloc_arena_bytes_in_use",
		"Bytes consumed in the arena's blocks, including padding.",
		[]string{"arena"}, nil,
	)
	arenaCapacity = prometheus.NewDesc(
		"alloc_arena_capacity_bytes",
		"Total usable size of the arena's blocks.",
		[]string{"arena"}, nil,
	)
	arenaBlocks = prometheus.NewDesc(
		"alloc_arena_blocks",
		"Number of blocks owned by the arena.",
		[]string{"arena"}, nil,
	)
	arenaUtilization = prometheus.NewDesc(
		"alloc_arena_utilization_ratio",
		"Ratio of bytes in use to capacity.",
		[]string{"arena"}, nil,
	)
)

// ArenaCollector exposes an arena's Metrics snapshot as gauges, read on
// every scrape. The arena is not safe for concurrent use, so scrapes must
// not overlap with allocations.
type ArenaCollector struct {
	name  string
	arena *alloc.ArenaAllocator
}

// NewArenaCollector returns a collector for a, labelled with name.
func NewArenaCollector(name string, a *alloc.ArenaAllocator) *ArenaCollector {
	return &ArenaCollector{name: name, arena: a}
}

// Describe implements prometheus.Collector.
func (c *ArenaCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- arenaBytesInUse
	ch <- arenaCapacity
	ch <- arenaBlocks
	ch <- arenaUtilization
}

// Collect implements prometheus.Collector.
func (c *ArenaCollector) Collect(ch chan<- prometheus.Metric) {
	m := c.arena.Metrics()
	ch <- prometheus.MustNewConstMetric(arenaBytesInUse, prometheus.GaugeValue, float64(m.SizeInUse), c.name)
	ch <- prometheus.MustNewConstMetric(arenaCapacity, prometheus.GaugeValue, float64(m.Capacity), c.name)
	ch <- prometheus.MustNewConstMetric(arenaBlocks, prometheus.GaugeValue, float64(m.NumBlocks), c.name)
	ch <- prometheus.MustNewConstMetric(arenaUtilization, prometheus.GaugeValue, m.Utilization, c.name)
}

var _ prometheus.Collector = (*ArenaCollector)(nil)
