package fastx

import (
	"github.com/tkoenig/sopnet/pkg/network"
	"github.com/tkoenig/sopnet/pkg/sop"
)

// Context carries the dense, index-addressable view of a network that an
// [Engine] consumes, plus the slots it writes results into. All four
// collections are addressed by node identifier.
//
// A Context is request-scoped: it is created by [Build] for one extraction
// attempt, handed to the engine, consumed once by reconstruction and then
// released. It must not be shared or cached across attempts.
type Context struct {
	// Covers holds the original cover of every extraction-eligible node,
	// indexed by identifier; nil for ineligible identifiers.
	Covers []*sop.Cover

	// Fanins holds the original fanin identifier sequence of every
	// eligible node, in slot order; nil for ineligible identifiers.
	Fanins [][]int

	// NewCovers receives replacement covers from the engine. Its length
	// is OldMax plus the extra capacity reserved for new nodes.
	NewCovers []*sop.Cover

	// NewFanins receives replacement fanin lists from the engine, same
	// extended domain as NewCovers. A nil entry for an existing
	// identifier means "leave this node completely untouched".
	NewFanins [][]int

	// OldMax is the network's identifier namespace size at build time.
	// Identifiers at or above OldMax address nodes the engine introduces.
	OldMax int
}

// Build marshals the network into a fresh Context, reserving extra
// identifier slots for nodes the engine may create.
//
// A logic node is eligible for extraction when its cover has at least two
// variables and at least one cube; other nodes are never placed in the
// original collections and will never be touched by the engine. An empty
// network (or one with no eligible nodes) yields an all-empty Context -
// engines must report "no change" for it rather than fault.
//
// Build does not mutate the network.
func Build(nt *network.Network, extra int) *Context {
	maxID := nt.MaxID()
	c := &Context{
		Covers:    make([]*sop.Cover, maxID),
		Fanins:    make([][]int, maxID),
		NewCovers: make([]*sop.Cover, maxID+extra),
		NewFanins: make([][]int, maxID+extra),
		OldMax:    maxID,
	}
	for _, n := range nt.LogicNodes() {
		cover := n.Cover()
		if cover == nil || cover.VarNum() < 2 || cover.CubeNum() < 1 {
			continue
		}
		c.Covers[n.ID()] = cover
		c.Fanins[n.ID()] = n.FaninIDs()
	}
	return c
}

// Eligible reports whether the identifier was placed in the original
// collections at build time.
func (c *Context) Eligible(id int) bool {
	return id >= 0 && id < len(c.Covers) && c.Covers[id] != nil
}

// ExtraCapacity returns the number of identifier slots reserved for new
// nodes beyond the original namespace.
func (c *Context) ExtraCapacity() int {
	return len(c.NewFanins) - len(c.Fanins)
}

// Release drops every per-node allocation so the Context cannot be
// consumed twice. Called by [Run] regardless of whether extraction
// changed anything.
func (c *Context) Release() {
	c.Covers = nil
	c.Fanins = nil
	c.NewCovers = nil
	c.NewFanins = nil
}
