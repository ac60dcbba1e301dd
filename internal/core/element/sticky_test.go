package element

import (
	"testing"

	"github.com/alxayo/go-decodebin/internal/core/caps"
)

func TestStickyEventsOrderAndOverwrite(t *testing.T) {
	s := NewStickyEvents()
	s.Record(NewStreamStartEvent("a"))
	s.Record(NewCapsEvent(caps.New("audio/x-raw", nil)))
	s.Record(NewStreamStartEvent("b")) // overwrite, keeps original order slot

	all := s.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 distinct event types recorded, got %d", len(all))
	}
	if all[0].Type != EventStreamStart || all[0].StreamID != "b" {
		t.Fatalf("expected stream-start to retain first slot with latest value, got %+v", all[0])
	}
}

func TestStickyEventsIgnoresNonSticky(t *testing.T) {
	s := NewStickyEvents()
	s.Record(NewEOSEvent())
	if len(s.All()) != 0 {
		t.Fatalf("expected EOS to not be recorded as sticky")
	}
}

func TestStickyEventsReset(t *testing.T) {
	s := NewStickyEvents()
	s.Record(NewStreamStartEvent("a"))
	s.Reset()
	if len(s.All()) != 0 {
		t.Fatalf("expected reset to clear recorded events")
	}
}

func TestReplayToDeliversInOrder(t *testing.T) {
	s := NewStickyEvents()
	s.Record(NewStreamStartEvent("a"))
	s.Record(NewCapsEvent(caps.New("audio/x-raw", nil)))

	sink := NewPad("sink", 0, nil)
	var got []EventType
	sink.SetCallbacks(nil, func(p *Pad, ev Event) error {
		got = append(got, ev.Type)
		return nil
	})
	if err := s.ReplayTo(sink); err != nil {
		t.Fatalf("unexpected replay error: %v", err)
	}
	if len(got) != 2 || got[0] != EventStreamStart || got[1] != EventCaps {
		t.Fatalf("unexpected replay order: %v", got)
	}
}
