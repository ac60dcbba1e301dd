package buffering

import "testing"

func TestRebalanceEvenSplitWhenBitrateUnknown(t *testing.T) {
	m := NewManager(1000)
	a := NewSlot("a", ModeStreamingQueue, QueueLimits{})
	b := NewSlot("b", ModeStreamingQueue, QueueLimits{})
	m.AddSlot(a)
	m.AddSlot(b)
	if a.Limits.MaxSizeBytes != 500 || b.Limits.MaxSizeBytes != 500 {
		t.Fatalf("expected even split, got a=%d b=%d", a.Limits.MaxSizeBytes, b.Limits.MaxSizeBytes)
	}
}

func TestRebalanceByBitrateShare(t *testing.T) {
	m := NewManager(1000)
	a := NewSlot("a", ModeAdaptiveQueue, QueueLimits{})
	b := NewSlot("b", ModeAdaptiveQueue, QueueLimits{})
	m.AddSlot(a)
	m.AddSlot(b)
	m.SetSlotBitrate("a", 300)
	m.SetSlotBitrate("b", 100)
	if a.Limits.MaxSizeBytes != 750 {
		t.Fatalf("expected a to get 3/4 of the budget, got %d", a.Limits.MaxSizeBytes)
	}
	if b.Limits.MaxSizeBytes != 250 {
		t.Fatalf("expected b to get 1/4 of the budget, got %d", b.Limits.MaxSizeBytes)
	}
}

func TestAggregateIsMinimumOfActiveSlots(t *testing.T) {
	m := NewManager(1000)
	var lastPercent int
	m.OnBufferingChange = func(p int) { lastPercent = p }

	a := NewSlot("a", ModeStreamingQueue, QueueLimits{})
	b := NewSlot("b", ModeStreamingQueue, QueueLimits{})
	m.AddSlot(a)
	m.AddSlot(b)

	m.SetSlotBufferingPercent("a", 80)
	m.SetSlotBufferingPercent("b", 40)
	if lastPercent != 40 {
		t.Fatalf("expected aggregate to be the minimum across active slots, got %d", lastPercent)
	}
}

func TestEOSExcludesSlotFromAggregate(t *testing.T) {
	m := NewManager(1000)
	var lastPercent int
	m.OnBufferingChange = func(p int) { lastPercent = p }

	a := NewSlot("a", ModeStreamingQueue, QueueLimits{})
	b := NewSlot("b", ModeStreamingQueue, QueueLimits{})
	a.SetExposed(true)
	b.SetExposed(true)
	m.AddSlot(a)
	m.AddSlot(b)

	m.SetSlotBufferingPercent("a", 20)
	m.SetSlotBufferingPercent("b", 90)
	if lastPercent != 20 {
		t.Fatalf("expected min(20,90)=20, got %d", lastPercent)
	}

	m.ReceiveEOS("a")
	if lastPercent != 90 {
		t.Fatalf("expected a's EOS to exclude it, leaving b's 90, got %d", lastPercent)
	}
}

func TestReceiveEOSBecomesCustomWhenNotExposed(t *testing.T) {
	m := NewManager(1000)
	a := NewSlot("a", ModeStreamingQueue, QueueLimits{})
	m.AddSlot(a)

	if custom := m.ReceiveEOS("a"); !custom {
		t.Fatalf("expected EOS on a non-exposed slot to convert to custom_eos")
	}
}

func TestReceiveEOSNotCustomWhenExposedAndLinked(t *testing.T) {
	m := NewManager(1000)
	a := NewSlot("a", ModeStreamingQueue, QueueLimits{})
	a.SetExposed(true)
	m.AddSlot(a)

	if custom := m.ReceiveEOS("a"); custom {
		t.Fatalf("expected EOS on an exposed, linked slot to forward as real EOS")
	}
}
