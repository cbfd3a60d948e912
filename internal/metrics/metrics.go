// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package metrics holds the antenna checker's Prometheus metrics: one
// struct of metric fields, a constructor that wires them up
// unregistered, and RegisterMetrics to attach them to a registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every metric a Checker run emits (§7 observability).
type Metrics struct {
	NetsChecked       prometheus.Counter
	NetsSkipped       *prometheus.CounterVec
	PinViolations     prometheus.Counter
	NetViolations     prometheus.Counter
	DiodesInserted    prometheus.Counter
	RepairSaturations prometheus.Counter

	ViolationsByLayer *prometheus.CounterVec
	CheckDuration     *prometheus.HistogramVec
}

// NewMetrics builds an unregistered Metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		NetsChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "antennacheck_nets_checked_total",
			Help: "Total number of nets run through CheckNet.",
		}),
		NetsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "antennacheck_nets_skipped_total",
			Help: "Total number of nets skipped, by reason (special, empty).",
		}, []string{"reason"}),
		PinViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "antennacheck_pin_violations_total",
			Help: "Total number of distinct gate pins with at least one antenna violation, summed over nets.",
		}),
		NetViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "antennacheck_net_violations_total",
			Help: "Total number of nets with at least one violation.",
		}),
		DiodesInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "antennacheck_diodes_inserted_total",
			Help: "Total number of diode insertions credited across the repair loop.",
		}),
		RepairSaturations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "antennacheck_repair_saturations_total",
			Help: "Total number of violations whose diode count reached max_diode_count_per_gate.",
		}),
		ViolationsByLayer: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "antennacheck_violations_by_layer_total",
			Help: "Antenna violations broken down by routing layer.",
		}, []string{"layer"}),
		CheckDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "antennacheck_net_check_duration_seconds",
			Help:    "Wall-clock time spent checking a single net.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.NetsChecked.Describe(ch)
	m.NetsSkipped.Describe(ch)
	m.PinViolations.Describe(ch)
	m.NetViolations.Describe(ch)
	m.DiodesInserted.Describe(ch)
	m.RepairSaturations.Describe(ch)
	m.ViolationsByLayer.Describe(ch)
	m.CheckDuration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.NetsChecked.Collect(ch)
	m.NetsSkipped.Collect(ch)
	m.PinViolations.Collect(ch)
	m.NetViolations.Collect(ch)
	m.DiodesInserted.Collect(ch)
	m.RepairSaturations.Collect(ch)
	m.ViolationsByLayer.Collect(ch)
	m.CheckDuration.Collect(ch)
}

// RegisterMetrics registers m with the default Prometheus registry.
func (m *Metrics) RegisterMetrics() {
	prometheus.MustRegister(m)
}

// RecordResult folds one CheckNet outcome into the metrics: net/pin
// violation counters, the per-layer breakdown, and the saturation
// counter for any violation that never resolved.
func (m *Metrics) RecordResult(netViolated bool, pinViolationCount int, layers []string, saturatedCount int, diodesInserted int) {
	m.NetsChecked.Inc()
	if netViolated {
		m.NetViolations.Inc()
	}
	if pinViolationCount > 0 {
		m.PinViolations.Add(float64(pinViolationCount))
	}
	for _, layer := range layers {
		m.ViolationsByLayer.WithLabelValues(layer).Inc()
	}
	if saturatedCount > 0 {
		m.RepairSaturations.Add(float64(saturatedCount))
	}
	if diodesInserted > 0 {
		m.DiodesInserted.Add(float64(diodesInserted))
	}
}

// RecordSkip records a net that CheckNet did not evaluate.
func (m *Metrics) RecordSkip(reason string) {
	m.NetsSkipped.WithLabelValues(reason).Inc()
}
