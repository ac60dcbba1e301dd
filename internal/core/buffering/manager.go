package buffering

import (
	"log/slog"
	"sync"

	"github.com/alxayo/go-decodebin/internal/logger"
)

// DefaultTotalBudget is the shared byte budget bitrate-aware rebalancing divides
// across active slots (spec §4.D "Bitrate-aware rebalancing").
const DefaultTotalBudget uint64 = 8 << 20

// Manager fans a buffering-percentage aggregate and a shared byte budget
// out across every active Slot, mirroring the teacher's DestinationManager
// (map of per-target workers guarded by one RWMutex, broadcasting a single
// inbound event to all of them).
type Manager struct {
	mu          sync.RWMutex
	slots       map[string]*Slot
	totalBudget uint64
	lastPercent int
	log         *slog.Logger

	OnBufferingChange func(percent int)
}

func NewManager(totalBudget uint64) *Manager {
	if totalBudget == 0 {
		totalBudget = DefaultTotalBudget
	}
	return &Manager{
		slots:       make(map[string]*Slot),
		totalBudget: totalBudget,
		lastPercent: -1,
		log:         logger.Logger().With("component", "buffering_manager"),
	}
}

// AddSlot registers a new slot and triggers an immediate rebalance.
func (m *Manager) AddSlot(s *Slot) {
	m.mu.Lock()
	m.slots[s.ID] = s
	m.mu.Unlock()
	m.Rebalance()
}

// RemoveSlot drops a slot, e.g. once its custom_eos has been freed
// asynchronously (spec §4.D).
func (m *Manager) RemoveSlot(id string) {
	m.mu.Lock()
	delete(m.slots, id)
	m.mu.Unlock()
	m.Rebalance()
	m.recomputeAggregate()
}

func (m *Manager) snapshot() []*Slot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Slot, 0, len(m.slots))
	for _, s := range m.slots {
		out = append(out, s)
	}
	return out
}

// Rebalance recomputes every slot's max-size-bytes from its bitrate share of
// the total budget (spec §4.D): total_budget * slot_bitrate / sum(bitrates),
// falling back to an even split when any bitrate is unknown.
func (m *Manager) Rebalance() {
	slots := m.snapshot()
	if len(slots) == 0 {
		return
	}

	var sum uint64
	allKnown := true
	for _, s := range slots {
		br := s.Bitrate()
		if br == 0 {
			allKnown = false
			break
		}
		sum += br
	}

	if !allKnown || sum == 0 {
		share := m.totalBudget / uint64(len(slots))
		for _, s := range slots {
			s.Limits.MaxSizeBytes = share
		}
		return
	}

	for _, s := range slots {
		s.Limits.MaxSizeBytes = m.totalBudget * s.Bitrate() / sum
	}
}

// SetSlotBitrate updates a slot's bitrate and triggers a rebalance, per
// spec §4.D "When a slot's bitrate changes".
func (m *Manager) SetSlotBitrate(id string, bps uint64) {
	m.mu.RLock()
	s := m.slots[id]
	m.mu.RUnlock()
	if s == nil {
		return
	}
	s.SetBitrate(bps)
	m.Rebalance()
}

// SetSlotBufferingPercent records one slot's level and recomputes the
// aggregate (spec §4.D "Buffering message aggregation").
func (m *Manager) SetSlotBufferingPercent(id string, pct int) {
	m.mu.RLock()
	s := m.slots[id]
	m.mu.RUnlock()
	if s == nil {
		return
	}
	s.SetBufferingPercent(pct)
	m.recomputeAggregate()
}

// recomputeAggregate implements "the externally posted buffering percentage
// is the MIN of all currently active (non-EOS) slot buffering percentages;
// on change, emit; on reaching 100 with no more pending slots, emit 100 and
// clear. A slot that has received an EOS is excluded ... and has its last
// buffering message removed."
func (m *Manager) recomputeAggregate() {
	slots := m.snapshot()
	active := make([]*Slot, 0, len(slots))
	for _, s := range slots {
		if !s.IsEOS() {
			active = append(active, s)
		}
	}

	var percent int
	if len(active) == 0 {
		percent = 100
	} else {
		percent = 100
		for _, s := range active {
			if p := s.BufferingPercent(); p < percent {
				percent = p
			}
		}
	}

	m.mu.Lock()
	changed := percent != m.lastPercent
	m.lastPercent = percent
	cb := m.OnBufferingChange
	m.mu.Unlock()

	if changed {
		m.log.Debug("buffering percent changed", "percent", percent, "active_slots", len(active))
		if cb != nil {
			cb(percent)
		}
	}
}

// ReceiveEOS routes an EOS on the named slot through the custom-EOS
// conversion rule, recomputing the aggregate once it lands.
func (m *Manager) ReceiveEOS(id string) (custom bool) {
	m.mu.RLock()
	s := m.slots[id]
	m.mu.RUnlock()
	if s == nil {
		return false
	}
	custom = s.ReceiveEOS()
	m.recomputeAggregate()
	return custom
}
