// Package metrics exposes the counters and gauges spec §4.D's buffering
// layer and §4.B's autoplug engine produce as they run, collected through
// prometheus/client_golang the way the relay layer this module was adapted
// from collected per-destination DestinationMetrics — just backed by a real
// registry instead of a polled snapshot struct.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry bundles every metric this module exports. A nil *Registry is
// valid and every method becomes a no-op, so callers that don't want
// metrics never need to guard each call site.
type Registry struct {
	reg *prometheus.Registry

	BufferingPercent  *prometheus.GaugeVec
	SlotCount         prometheus.Gauge
	AutoplugDecisions *prometheus.CounterVec
	ChainsActive      prometheus.Gauge
	ExposedPads       prometheus.Gauge
	DeadendsTotal     prometheus.Counter
}

// NewRegistry builds a fresh Registry with its own prometheus.Registry,
// suitable for wiring into an HTTP handler via promhttp.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		BufferingPercent: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "decodebin",
			Name:      "buffering_percent",
			Help:      "Current buffering percentage per slot.",
		}, []string{"slot"}),
		SlotCount: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "decodebin",
			Name:      "buffering_slots",
			Help:      "Number of active buffering slots.",
		}),
		AutoplugDecisions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "decodebin",
			Name:      "autoplug_decisions_total",
			Help:      "Autoplug outcomes by kind (expose, discarded, unknown, non_fixed_delay, recursed).",
		}, []string{"outcome"}),
		ChainsActive: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "decodebin",
			Name:      "chains_active",
			Help:      "Number of live chain nodes in the arena.",
		}),
		ExposedPads: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "decodebin",
			Name:      "exposed_pads",
			Help:      "Number of pads currently exposed on the bin.",
		}),
		DeadendsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "decodebin",
			Name:      "deadends_total",
			Help:      "Total pads that dead-ended with no matching factory.",
		}),
	}
	return r
}

// Gatherer exposes the underlying prometheus.Registry for promhttp.Handler.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

func (r *Registry) SetBufferingPercent(slotID string, pct int) {
	if r == nil {
		return
	}
	r.BufferingPercent.WithLabelValues(slotID).Set(float64(pct))
}

func (r *Registry) SetSlotCount(n int) {
	if r == nil {
		return
	}
	r.SlotCount.Set(float64(n))
}

func (r *Registry) ObserveAutoplugOutcome(outcome string) {
	if r == nil {
		return
	}
	r.AutoplugDecisions.WithLabelValues(outcome).Inc()
}

func (r *Registry) SetChainsActive(n int) {
	if r == nil {
		return
	}
	r.ChainsActive.Set(float64(n))
}

func (r *Registry) SetExposedPads(n int) {
	if r == nil {
		return
	}
	r.ExposedPads.Set(float64(n))
}

func (r *Registry) IncDeadend() {
	if r == nil {
		return
	}
	r.DeadendsTotal.Inc()
}
