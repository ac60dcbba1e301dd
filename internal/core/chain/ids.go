// Package chain implements the recursive Chain/Group data model the
// autoplug engine builds and the lifecycle coordinator reshapes (spec
// §4.C). Nodes are allocated from an Arena and referenced by opaque
// handles rather than direct pointers between packages, so ownership stays
// one-directional (chain -> element, never the reverse) the way the
// teacher's Registry keys streams by string rather than handing out
// pointers across package boundaries (internal/rtmp/server/registry.go).
package chain

import "github.com/google/uuid"

// ChainId identifies a ChainNode held by an Arena.
type ChainId struct{ id uuid.UUID }

func (c ChainId) String() string { return c.id.String() }
func (c ChainId) IsZero() bool   { return c.id == uuid.Nil }

func newChainId() ChainId { return ChainId{id: uuid.New()} }

// GroupId identifies a Group held by an Arena.
type GroupId struct{ id uuid.UUID }

func (g GroupId) String() string { return g.id.String() }
func (g GroupId) IsZero() bool   { return g.id == uuid.Nil }

func newGroupId() GroupId { return GroupId{id: uuid.New()} }
