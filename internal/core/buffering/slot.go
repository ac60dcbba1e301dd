// Package buffering implements the slot layer from spec §4.D: each exposed
// end-pad is bridged to the outside world through an OutputSlot that picks
// an interposed element by mode, reports aggregated buffering percentage,
// rebalances shared byte budgets by bitrate, and absorbs EOS on pads that
// aren't externally visible yet. Grounded on the teacher's
// DestinationManager/Destination fan-out (internal/rtmp/relay/manager.go,
// destination.go): a map of per-target workers under one RWMutex, with
// broadcast-style aggregation across all of them — generalized here from
// "relay to N RTMP destinations" to "aggregate N buffering slots".
package buffering

import (
	"sync"
	"sync/atomic"

	"github.com/alxayo/go-decodebin/internal/core/element"
)

// Mode selects the interposed element spec §4.D's table names.
type Mode int

const (
	ModeDirect           Mode = iota // Raw, no buffering: direct ghost
	ModeStreamingQueue               // is_stream without adaptive demuxer: queue2 w/ time+bytes bounds
	ModeDownloadBuffer               // is_stream with known duration AND download=true
	ModeAdaptiveQueue                // adaptive demuxer output: queue2 use-tags-bitrate, no rate-estimate
	ModeSharedMultiqueue             // parse-stream mode with buffering: one shared multi-queue
)

func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeStreamingQueue:
		return "streaming-queue"
	case ModeDownloadBuffer:
		return "download-buffer"
	case ModeAdaptiveQueue:
		return "adaptive-queue"
	case ModeSharedMultiqueue:
		return "shared-multiqueue"
	default:
		return "unknown"
	}
}

// QueueLimits are the per-queue caps spec §6 names (max-size-bytes/buffers/time).
type QueueLimits struct {
	MaxSizeBytes   uint64
	MaxSizeBuffers uint32
	MaxSizeTimeSec float64
}

// Slot bridges one end-pad to the outside. EOS handling and bitrate
// rebalancing are coordinated by the owning Manager, not the slot alone,
// since both require visibility across every sibling slot.
type Slot struct {
	ID     string
	Mode   Mode
	Limits QueueLimits

	bitrate atomic.Uint64 // bits/sec, 0 = unknown

	mu             sync.Mutex
	bufferingPct   int
	eosReceived    bool
	pendingEOS     bool // custom_eos: upstream gone / not yet exposed
	exposed        bool
	upstreamLinked bool

	download *DownloadBuffer // non-nil only when Mode == ModeDownloadBuffer
}

func NewSlot(id string, mode Mode, limits QueueLimits) *Slot {
	return &Slot{ID: id, Mode: mode, Limits: limits, upstreamLinked: true}
}

// AttachDownloadBuffer wires a DownloadBuffer into a ModeDownloadBuffer slot;
// a no-op on any other mode.
func (s *Slot) AttachDownloadBuffer(d *DownloadBuffer) {
	if s.Mode != ModeDownloadBuffer {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.download = d
}

// WriteThrough appends buf to the slot's backing DownloadBuffer when one is
// attached; a no-op for every other mode, which never buffers bytes here.
func (s *Slot) WriteThrough(buf element.Buffer) error {
	s.mu.Lock()
	d := s.download
	s.mu.Unlock()
	if d == nil {
		return nil
	}
	return d.Write(buf)
}

// CloseDownloadBuffer releases the slot's backing temp file, if any.
func (s *Slot) CloseDownloadBuffer() error {
	s.mu.Lock()
	d := s.download
	s.download = nil
	s.mu.Unlock()
	if d == nil {
		return nil
	}
	return d.Close()
}

func (s *Slot) SetBitrate(bps uint64) { s.bitrate.Store(bps) }
func (s *Slot) Bitrate() uint64       { return s.bitrate.Load() }

func (s *Slot) SetExposed(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exposed = v
}

func (s *Slot) Exposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exposed
}

// SetBufferingPercent records this slot's own buffering level (0-100); the
// Manager aggregates across all active slots per spec §4.D.
func (s *Slot) SetBufferingPercent(pct int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	s.bufferingPct = pct
}

func (s *Slot) BufferingPercent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bufferingPct
}

// ReceiveEOS converts an EOS to custom_eos if the slot isn't externally
// visible yet or has lost its upstream (spec §4.D "Custom EOS"), otherwise
// records a real EOS for aggregation purposes.
func (s *Slot) ReceiveEOS() (custom bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eosReceived = true
	if !s.exposed || !s.upstreamLinked {
		s.pendingEOS = true
		return true
	}
	return false
}

func (s *Slot) IsEOS() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eosReceived
}

// DetachUpstream marks the slot's upstream as removed, so a later EOS is
// treated as custom_eos rather than forwarded. An EOS already received is
// left as it was.
func (s *Slot) DetachUpstream() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upstreamLinked = false
}

func (s *Slot) ReattachUpstream() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upstreamLinked = true
	s.pendingEOS = false
	s.eosReceived = false
}
