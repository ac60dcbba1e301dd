package lifecycle

import "github.com/alxayo/go-decodebin/internal/core/chain"

// DrainEOS implements spec §4.E "Drain / group switching": called when an
// end-pad sees EOS. Marks the leaf drained, aggregates the drained flag of
// the leaf's parent group, and then either promotes a pending next group of
// that group's parent chain or forwards EOS externally. Drained state is
// not propagated beyond the leaf's immediate parent group.
func (c *Coordinator) DrainEOS(leaf *chain.ChainNode) {
	leaf.MarkDrained(true)

	parentGroupID := leaf.ParentGroup()
	if parentGroupID.IsZero() {
		// Root-level leaf: nothing to switch, just forward.
		if c.OnDrained != nil {
			c.OnDrained()
		}
		return
	}

	g := c.Arena.Group(parentGroupID)
	if g == nil {
		return
	}
	if !c.allChildrenDrained(g) {
		return
	}
	g.SetDrained(true)

	parentChain := c.Arena.Chain(g.ParentChain())
	if parentChain == nil {
		return
	}
	next := parentChain.NextGroups()
	if len(next) > 0 {
		c.switchToNextGroup(parentChain, g, next[len(next)-1])
		return
	}

	if c.OnDrained != nil {
		c.OnDrained()
	}
}

func (c *Coordinator) allChildrenDrained(g *chain.Group) bool {
	for _, cid := range g.Children() {
		ch := c.Arena.Chain(cid)
		if ch == nil || !ch.EndPadDrained() {
			return false
		}
	}
	return true
}

// switchToNextGroup hides the current active group (removing exposed end
// pads from the outside view without tearing elements down), moves it to
// old_groups, and promotes the oldest pending next group as the new active
// one, then reruns Expose (spec §4.E step 3).
func (c *Coordinator) switchToNextGroup(parent *chain.ChainNode, oldGroup *chain.Group, newGroupID chain.GroupId) {
	for _, cid := range oldGroup.Children() {
		if ch := c.Arena.Chain(cid); ch != nil && ch.EndPad() != nil {
			ch.MarkExposed(false)
			delete(c.exposed, ch.ID().String())
		}
	}
	parent.HideActiveGroup(oldGroup.ID())
	parent.SetActiveGroup(newGroupID)

	_, _ = c.Expose()
}
