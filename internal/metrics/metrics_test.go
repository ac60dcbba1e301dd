package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestBufferingPercentRecorded(t *testing.T) {
	r := NewRegistry()
	r.SetBufferingPercent("video-0", 42)

	got := testutil.ToFloat64(r.BufferingPercent.WithLabelValues("video-0"))
	if got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
}

func TestAutoplugOutcomeCounts(t *testing.T) {
	r := NewRegistry()
	r.ObserveAutoplugOutcome("expose")
	r.ObserveAutoplugOutcome("expose")
	r.ObserveAutoplugOutcome("discarded")

	if got := testutil.ToFloat64(r.AutoplugDecisions.WithLabelValues("expose")); got != 2 {
		t.Fatalf("expected 2 expose outcomes, got %v", got)
	}
	if got := testutil.ToFloat64(r.AutoplugDecisions.WithLabelValues("discarded")); got != 1 {
		t.Fatalf("expected 1 discarded outcome, got %v", got)
	}
}

func TestNilRegistryIsNoOp(t *testing.T) {
	var r *Registry
	r.SetBufferingPercent("x", 1)
	r.SetSlotCount(1)
	r.ObserveAutoplugOutcome("expose")
	r.SetChainsActive(1)
	r.SetExposedPads(1)
	r.IncDeadend()
}
