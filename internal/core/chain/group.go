package chain

import "sync"

// MultiqueueRegime is one of the two bounds presets spec §4.C names for a
// group's multi-queue ("preroll" before data flows, "play" once running).
type MultiqueueRegime struct {
	MaxBytes   uint64
	MaxTimeSec float64 // 0 means unlimited
	MaxBuffers uint32
}

// DefaultPrerollRegime and DefaultPlayRegime are spec §4.C's stated defaults
// for a seekable source; callers building a non-seekable source should widen
// MaxTimeSec to 10 as the spec describes.
var (
	DefaultPrerollRegime = MultiqueueRegime{MaxBytes: 2 << 20, MaxTimeSec: 0, MaxBuffers: 0}
	DefaultPlayRegime    = MultiqueueRegime{MaxBytes: 2 << 20, MaxTimeSec: 0, MaxBuffers: 5}
)

// Group is a set of sibling chains sharing a multi-queue downstream of a
// single demuxer (spec §3 Group, §4.C "Group multi-queue interposition").
type Group struct {
	mu sync.Mutex

	id          GroupId
	parentChain ChainId

	preroll MultiqueueRegime
	play    MultiqueueRegime

	requestSinks int // count of multi-queue sink pads allocated so far
	children     []ChainId

	overrun    bool
	noMorePads bool
	drained    bool
}

func (g *Group) ID() GroupId          { return g.id }
func (g *Group) ParentChain() ChainId { return g.parentChain }

// AddChild registers a new sibling chain fed by this group's multi-queue.
func (g *Group) AddChild(id ChainId) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.children = append(g.children, id)
	g.requestSinks++
}

func (g *Group) Children() []ChainId {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ChainId, len(g.children))
	copy(out, g.children)
	return out
}

// SetOverrun latches the multi-queue overrun signal (spec §4.C: "The group
// subscribes to the multi-queue's overrun signal; on overrun, set
// overrun=true and trigger a re-expose check").
func (g *Group) SetOverrun() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.overrun = true
}

func (g *Group) Overrun() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.overrun
}

// SetNoMorePads latches the demuxer's completion signal.
func (g *Group) SetNoMorePads() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.noMorePads = true
}

func (g *Group) NoMorePads() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.noMorePads
}

// IsOpen reports whether the group can still receive new child chains
// (spec §4.C current-group selection: "active group still open (not overrun
// AND not no_more_pads)").
func (g *Group) IsOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.overrun && !g.noMorePads
}

func (g *Group) SetDrained(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.drained = v
}

func (g *Group) Drained() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.drained
}

// IsComplete implements spec §4.C: "(overrun OR no_more_pads) AND every
// child chain is complete."
func (g *Group) IsComplete(a *Arena) bool {
	g.mu.Lock()
	latched := g.overrun || g.noMorePads
	children := append([]ChainId(nil), g.children...)
	g.mu.Unlock()

	if !latched {
		return false
	}
	for _, cid := range children {
		c := a.Chain(cid)
		if c == nil || !c.IsComplete(a) {
			return false
		}
	}
	return true
}
