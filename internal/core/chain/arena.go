package chain

import (
	"sync"

	"github.com/alxayo/go-decodebin/internal/core/element"
)

// Arena owns every ChainNode and Group for one bin instance, handed out as
// opaque ids rather than pointers (package doc). Grounded on the teacher's
// Registry (internal/rtmp/server/registry.go): an RWMutex-guarded map with
// create-or-get semantics, generalized from string stream keys to
// uuid-backed ChainId/GroupId.
type Arena struct {
	mu     sync.RWMutex
	chains map[ChainId]*ChainNode
	groups map[GroupId]*Group
}

func NewArena() *Arena {
	return &Arena{
		chains: make(map[ChainId]*ChainNode),
		groups: make(map[GroupId]*Group),
	}
}

// NewChain allocates a root or group-child ChainNode and inserts it.
func (a *Arena) NewChain(parent GroupId, origin *element.Pad) *ChainNode {
	n := &ChainNode{id: newChainId(), parentGroup: parent, originPad: origin}
	a.mu.Lock()
	a.chains[n.id] = n
	a.mu.Unlock()
	return n
}

// Chain looks up a ChainNode by id, or nil if absent/freed.
func (a *Arena) Chain(id ChainId) *ChainNode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.chains[id]
}

// FreeChain removes a ChainNode, used by the lifecycle coordinator's
// tear-down path (spec §3 "destroyed by the Lifecycle Coordinator either
// directly (tear-down) or via hide+later-free (group switch)").
func (a *Arena) FreeChain(id ChainId) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.chains, id)
}

// NewGroup allocates a Group for the given parent chain (spec §3: "created
// when a demuxer is inserted and emits its first pad").
func (a *Arena) NewGroup(parent ChainId) *Group {
	g := &Group{
		id:          newGroupId(),
		parentChain: parent,
		preroll:     DefaultPrerollRegime,
		play:        DefaultPlayRegime,
	}
	a.mu.Lock()
	a.groups[g.id] = g
	a.mu.Unlock()
	return g
}

func (a *Arena) Group(id GroupId) *Group {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.groups[id]
}

// FreeGroup removes a Group, used once its parent chain is torn down or it
// is superseded by a next group.
func (a *Arena) FreeGroup(id GroupId) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.groups, id)
}

// SelectCurrentGroup implements spec §4.C "Current-group selection for
// demuxer with new pad": returns the group a new demuxer pad should join,
// or a zero GroupId if the pad must be ignored (active group overran
// without signalling completion).
func (a *Arena) SelectCurrentGroup(parent *ChainNode) (GroupId, bool) {
	active := parent.ActiveGroup()
	nextGroups := parent.NextGroups()

	if len(nextGroups) == 0 && !active.IsZero() {
		if g := a.Group(active); g != nil && g.Overrun() && !g.NoMorePads() {
			return GroupId{}, false
		}
	}

	if active.IsZero() {
		g := a.NewGroup(parent.id)
		parent.SetActiveGroup(g.id)
		return g.id, true
	}

	if g := a.Group(active); g != nil && g.IsOpen() {
		return active, true
	}

	for _, pg := range nextGroups {
		if g := a.Group(pg); g != nil && g.IsOpen() {
			return pg, true
		}
	}

	g := a.NewGroup(parent.id)
	parent.PrependNextGroup(g.id)
	return g.id, true
}
