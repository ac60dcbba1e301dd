package lifecycle

import (
	"sort"

	"github.com/alxayo/go-decodebin/internal/core/chain"
	coreerrors "github.com/alxayo/go-decodebin/internal/errors"
)

// walkResult accumulates what Expose's tree walk (spec §4.E step 2) needs.
type walkResult struct {
	endPads        []*chain.ChainNode
	deadends       []*chain.ChainNode
	completeGroups []*chain.Group
}

func (c *Coordinator) walk(node *chain.ChainNode, out *walkResult) {
	if node == nil {
		return
	}
	switch {
	case node.IsDeadend():
		out.deadends = append(out.deadends, node)
	case node.EndPad() != nil:
		out.endPads = append(out.endPads, node)
	case node.IsDemuxer():
		gid := node.ActiveGroup()
		if gid.IsZero() {
			return
		}
		g := c.Arena.Group(gid)
		if g == nil {
			return
		}
		if g.IsComplete(c.Arena) {
			out.completeGroups = append(out.completeGroups, g)
		}
		for _, childID := range g.Children() {
			c.walk(c.Arena.Chain(childID), out)
		}
	}
}

// Expose implements spec §4.E's expose procedure, called once the top
// chain becomes complete.
func (c *Coordinator) Expose() ([]ExposedPad, error) {
	c.exposeMu.Lock()
	defer c.exposeMu.Unlock()

	if c.shutdown.Load() {
		return nil, coreerrors.NewFlushingError("lifecycle.Expose")
	}

	root := c.root()
	var wr walkResult
	c.walk(root, &wr)

	// This package doesn't own the multi-queue element, so completed groups'
	// multi-queue limits and overrun signal are left untouched here; only
	// their drained flag is reset.
	for _, g := range wr.completeGroups {
		g.SetDrained(false) // drained state recalculated by DrainEOS
	}

	if len(wr.endPads) == 0 {
		if len(wr.deadends) > 0 {
			return nil, coreerrors.NewMissingPluginError("lifecycle.Expose", "", nil)
		}
		return nil, coreerrors.NewNoBuffersError("lifecycle.Expose")
	}

	allExposed := true
	for _, n := range wr.endPads {
		if !n.EndPad().Exposed {
			allExposed = false
			break
		}
	}
	if allExposed {
		return c.currentExposedList(), nil
	}

	// Block already-exposed pads while we reshape.
	var alreadyExposed []*chain.ChainNode
	var fresh []*chain.ChainNode
	for _, n := range wr.endPads {
		if n.EndPad().Exposed {
			alreadyExposed = append(alreadyExposed, n)
			c.blockPad(n.EndPad().Pad)
		} else {
			fresh = append(fresh, n)
		}
	}

	sort.SliceStable(fresh, func(i, j int) bool {
		ci, cj := fresh[i].EndCaps(), fresh[j].EndCaps()
		oi, oj := ci.ExposeOrder(), cj.ExposeOrder()
		if oi != oj {
			return oi < oj
		}
		return fresh[i].ID().String() < fresh[j].ID().String()
	})

	for _, n := range fresh {
		n.MarkExposed(true)
		c.exposed[n.ID().String()] = ExposedPad{StreamID: n.ID().String(), Pad: n.EndPad().Pad, Caps: n.EndCaps()}
	}

	if c.OnNoMorePads != nil {
		c.OnNoMorePads()
	}
	if c.PostStreamTopology && c.OnTopology != nil {
		c.OnTopology(root.ID())
	}

	for _, n := range alreadyExposed {
		c.unblockPad(n.EndPad().Pad)
	}

	c.finishAsync(nil)
	return c.currentExposedList(), nil
}

func (c *Coordinator) currentExposedList() []ExposedPad {
	out := make([]ExposedPad, 0, len(c.exposed))
	for _, e := range c.exposed {
		out = append(out, e)
	}
	return out
}
