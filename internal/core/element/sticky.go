package element

import "sync"

// StickyEvents holds the ordered, last-value-wins set of sticky events
// recorded on a pad (spec §3/§5: "sticky events ... are ordered and
// replayed to new link targets"). One slot per EventType, insertion order
// preserved for replay by first-seen order.
type StickyEvents struct {
	mu     sync.Mutex
	order  []EventType
	byType map[EventType]Event
}

func NewStickyEvents() *StickyEvents {
	return &StickyEvents{byType: make(map[EventType]Event)}
}

// Record stores ev, overwriting any previous event of the same type in
// place (order is preserved from first occurrence, per GStreamer sticky
// event semantics).
func (s *StickyEvents) Record(ev Event) {
	if !ev.Type.Sticky() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byType[ev.Type]; !exists {
		s.order = append(s.order, ev.Type)
	}
	s.byType[ev.Type] = ev
}

// All returns the recorded sticky events in first-seen order.
func (s *StickyEvents) All() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, 0, len(s.order))
	for _, t := range s.order {
		out = append(out, s.byType[t])
	}
	return out
}

// Get returns the recorded event of the given type, if any.
func (s *StickyEvents) Get(t EventType) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.byType[t]
	return ev, ok
}

// Reset clears all recorded sticky events, used when a pad is retargeted to
// a fresh upstream chain during group switching (spec §4.E).
func (s *StickyEvents) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.byType = make(map[EventType]Event)
}

// ReplayTo pushes every recorded sticky event to the given pad's event
// callback directly, bypassing peer resolution — used when attaching a
// late-arriving sink pad to an already-flowing source (spec §4.B
// connect_pad "replay sticky events to the new target").
func (s *StickyEvents) ReplayTo(p *Pad) error {
	for _, ev := range s.All() {
		if err := p.receiveEvent(ev); err != nil {
			return err
		}
	}
	return nil
}
