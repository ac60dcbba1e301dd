package chain

import (
	"sync"

	"github.com/alxayo/go-decodebin/internal/core/caps"
	"github.com/alxayo/go-decodebin/internal/core/element"
	"github.com/alxayo/go-decodebin/internal/core/registry"
)

// InsertedElement pairs a committed element with its optional caps-filter,
// per spec §3 ChainNode.elements ("ordered list of inserted elements, each
// with an optional paired caps-filter").
type InsertedElement struct {
	Element    element.Element
	Factory    *registry.Factory
	CapsFilter element.Element // nil unless a parser/converter filter was inserted, spec §4.B step 9
}

// PendingPad is a not-yet-fixed-caps pad awaiting promotion, spec §3
// PendingPad.
type PendingPad struct {
	Pad *element.Pad
}

// EndPad is the thin exposable-leaf wrapper from spec §3: "a thin wrapper
// over a pad, carrying flags (blocked, exposed, drained) and the active
// downstream probe handle."
type EndPad struct {
	Pad     *element.Pad
	Blocked bool
	Exposed bool
	Drained bool
}

// ChainNode is the core recursive data structure from spec §3/§4.C. The
// per-chain lock referenced throughout spec §5 is ChainNode.mu.
type ChainNode struct {
	mu sync.Mutex

	id          ChainId
	parentGroup GroupId // zero value if root

	originPad *element.Pad

	elements []InsertedElement

	activeGroup GroupId   // zero if none
	nextGroups  []GroupId // newest-first

	pendingPads []*PendingPad

	endPad         *EndPad
	deadend        bool
	endCaps        caps.Caps
	triedFactories map[string]bool // Supplemented feature #3: per-factory blacklist

	oldGroups []GroupId

	// parsed marks completion for the parse-stream variant (spec §4.C
	// Completion: "chain.parsed = true").
	parsed bool

	isDemuxer bool
}

func (n *ChainNode) ID() ChainId { return n.id }

// ParentGroup returns the enclosing group id, or a zero GroupId at the root.
func (n *ChainNode) ParentGroup() GroupId {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.parentGroup
}

// AppendElement commits a new element to the chain (spec §4.B step 10e).
func (n *ChainNode) AppendElement(ie InsertedElement) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.elements = append(n.elements, ie)
	if ie.Factory != nil {
		n.isDemuxer = ie.Factory.IsDemuxer()
		if n.triedFactories == nil {
			n.triedFactories = make(map[string]bool)
		}
		n.triedFactories[ie.Factory.Name] = true
	}
}

// LastElement returns the most recently committed element, or nil.
func (n *ChainNode) LastElement() *InsertedElement {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.elements) == 0 {
		return nil
	}
	return &n.elements[len(n.elements)-1]
}

// HasTriedFactory reports whether a factory already failed negotiation on
// this chain or was committed to it by AppendElement (Supplemented feature
// #3, grounded on the factory-retry guard in
// original_source/gst/playback/gstdecodebin2.c).
func (n *ChainNode) HasTriedFactory(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.triedFactories[name]
}

// MarkFactoryTried blacklists a factory for this chain without committing it
// (used when a factory reaches Ready but is rejected, spec §4.B step 10d).
func (n *ChainNode) MarkFactoryTried(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.triedFactories == nil {
		n.triedFactories = make(map[string]bool)
	}
	n.triedFactories[name] = true
}

// IsDemuxer reports whether the chain's last committed element is a demuxer.
func (n *ChainNode) IsDemuxer() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.isDemuxer
}

// SetActiveGroup installs g as the chain's current child group.
func (n *ChainNode) SetActiveGroup(g GroupId) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activeGroup = g
}

func (n *ChainNode) ActiveGroup() GroupId {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.activeGroup
}

// PrependNextGroup records a pending future group, newest-first (spec §3
// ChainNode.next_groups).
func (n *ChainNode) PrependNextGroup(g GroupId) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextGroups = append([]GroupId{g}, n.nextGroups...)
}

func (n *ChainNode) NextGroups() []GroupId {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]GroupId, len(n.nextGroups))
	copy(out, n.nextGroups)
	return out
}

// SetEndPad marks this chain complete with an exposable leaf (spec §3
// invariant: end_pad XOR active_group XOR deadend).
func (n *ChainNode) SetEndPad(p *element.Pad, c caps.Caps) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.endPad = &EndPad{Pad: p}
	n.endCaps = c
	n.activeGroup = GroupId{}
	n.deadend = false
}

func (n *ChainNode) EndPad() *EndPad {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.endPad
}

func (n *ChainNode) EndCaps() caps.Caps {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.endCaps
}

// MarkBlocked/MarkExposed/MarkDrained flip the EndPad flags the buffering
// and lifecycle layers drive (spec §4.D/§4.E).
func (n *ChainNode) MarkBlocked(v bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.endPad != nil {
		n.endPad.Blocked = v
	}
}

func (n *ChainNode) MarkExposed(v bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.endPad != nil {
		n.endPad.Exposed = v
	}
}

func (n *ChainNode) MarkDrained(v bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.endPad != nil {
		n.endPad.Drained = v
	}
}

// EndPadDrained reports whether this chain's end pad (if any) has drained.
// A chain with no end pad (e.g. a demuxer chain) counts as drained for the
// purposes of its parent group's aggregate.
func (n *ChainNode) EndPadDrained() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.endPad == nil {
		return true
	}
	return n.endPad.Drained
}

// HideActiveGroup moves a superseded group to old_groups for later
// asynchronous disposal, clearing it from active if it still is (spec
// §4.E "hide the current active_group ... move it to old_groups").
func (n *ChainNode) HideActiveGroup(id GroupId) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.activeGroup == id {
		n.activeGroup = GroupId{}
	}
	n.oldGroups = append(n.oldGroups, id)
	filtered := n.nextGroups[:0]
	for _, g := range n.nextGroups {
		if g != id {
			filtered = append(filtered, g)
		}
	}
	n.nextGroups = filtered
}

func (n *ChainNode) OldGroups() []GroupId {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]GroupId, len(n.oldGroups))
	copy(out, n.oldGroups)
	return out
}

// MarkDeadend flags a chain that dead-ended, per spec §4.B step 3 and the
// pending-pad EOS rule in §4.B.
func (n *ChainNode) MarkDeadend(c caps.Caps) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deadend = true
	n.endCaps = c
	n.endPad = nil
	n.activeGroup = GroupId{}
}

func (n *ChainNode) IsDeadend() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.deadend
}

// MarkParsed satisfies the parse-stream variant's completion rule (spec
// §4.C Completion).
func (n *ChainNode) MarkParsed() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.parsed = true
}

func (n *ChainNode) AddPendingPad(p *PendingPad) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pendingPads = append(n.pendingPads, p)
}

func (n *ChainNode) RemovePendingPad(pad *element.Pad) {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pendingPads[:0]
	for _, pp := range n.pendingPads {
		if pp.Pad != pad {
			out = append(out, pp)
		}
	}
	n.pendingPads = out
}

func (n *ChainNode) PendingPads() []*PendingPad {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*PendingPad, len(n.pendingPads))
	copy(out, n.pendingPads)
	return out
}

// IsComplete implements spec §4.C's completion predicate. The Arena is
// needed to resolve the active group's own completeness recursively.
func (n *ChainNode) IsComplete(a *Arena) bool {
	n.mu.Lock()
	deadend := n.deadend
	ep := n.endPad
	active := n.activeGroup
	isDemux := n.isDemuxer
	parsed := n.parsed
	n.mu.Unlock()

	if deadend {
		return true
	}
	if ep != nil && (ep.Blocked || ep.Exposed) {
		return true
	}
	if isDemux && !active.IsZero() {
		if g := a.Group(active); g != nil && g.IsComplete(a) {
			return true
		}
	}
	return parsed
}
