package chain

import (
	"testing"

	"github.com/alxayo/go-decodebin/internal/core/caps"
)

func TestNewChainAndLookup(t *testing.T) {
	a := NewArena()
	n := a.NewChain(GroupId{}, nil)
	if n.ID().IsZero() {
		t.Fatalf("expected non-zero chain id")
	}
	if got := a.Chain(n.ID()); got != n {
		t.Fatalf("expected lookup to return the same node")
	}
	a.FreeChain(n.ID())
	if got := a.Chain(n.ID()); got != nil {
		t.Fatalf("expected node to be gone after free")
	}
}

func TestSelectCurrentGroupCreatesFirstGroup(t *testing.T) {
	a := NewArena()
	parent := a.NewChain(GroupId{}, nil)
	gid, ok := a.SelectCurrentGroup(parent)
	if !ok || gid.IsZero() {
		t.Fatalf("expected a fresh group to be created and installed active")
	}
	if parent.ActiveGroup() != gid {
		t.Fatalf("expected active group to be set on parent")
	}
}

func TestSelectCurrentGroupReusesOpenActive(t *testing.T) {
	a := NewArena()
	parent := a.NewChain(GroupId{}, nil)
	gid1, _ := a.SelectCurrentGroup(parent)
	gid2, ok := a.SelectCurrentGroup(parent)
	if !ok || gid1 != gid2 {
		t.Fatalf("expected the still-open active group to be reused")
	}
}

func TestSelectCurrentGroupIgnoresPadAfterOverrunWithoutNoMorePads(t *testing.T) {
	a := NewArena()
	parent := a.NewChain(GroupId{}, nil)
	gid, _ := a.SelectCurrentGroup(parent)
	g := a.Group(gid)
	g.SetOverrun()

	_, ok := a.SelectCurrentGroup(parent)
	if ok {
		t.Fatalf("expected pad to be ignored when active group overran without no_more_pads")
	}
}

func TestSelectCurrentGroupCreatesNextAfterNoMorePads(t *testing.T) {
	a := NewArena()
	parent := a.NewChain(GroupId{}, nil)
	gid, _ := a.SelectCurrentGroup(parent)
	g := a.Group(gid)
	g.SetNoMorePads()

	gid2, ok := a.SelectCurrentGroup(parent)
	if !ok || gid2 == gid {
		t.Fatalf("expected a new group to be created once the active one completed")
	}
	next := parent.NextGroups()
	if len(next) != 1 || next[0] != gid2 {
		t.Fatalf("expected new group prepended to next_groups, got %v", next)
	}
}

func TestGroupIsCompleteRequiresLatchAndChildren(t *testing.T) {
	a := NewArena()
	parent := a.NewChain(GroupId{}, nil)
	g := a.NewGroup(parent.ID())
	child := a.NewChain(g.ID(), nil)
	g.AddChild(child.ID())

	if g.IsComplete(a) {
		t.Fatalf("expected incomplete group before latch or child completion")
	}
	g.SetNoMorePads()
	if g.IsComplete(a) {
		t.Fatalf("expected incomplete group while child chain is unresolved")
	}
	child.MarkDeadend(caps.Empty())
	if !g.IsComplete(a) {
		t.Fatalf("expected complete group once latched and every child complete")
	}
}
