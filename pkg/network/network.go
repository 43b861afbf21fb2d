package network

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tkoenig/sopnet/pkg/sop"
)

var (
	// ErrUnknownNode is returned by [Network.AddFanin] and [Network.RemoveNode]
	// when the referenced identifier does not name a live node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrNodeInUse is returned by [Network.RemoveNode] when another live node
	// still references the node as a fanin. Removal must be explicit and
	// checked - edges are plain identifier values, never owning references.
	ErrNodeInUse = errors.New("node still referenced by a fanin")

	// ErrDanglingFanin is returned by [Network.Check] when a fanin slot
	// references a dead identifier. This indicates graph corruption.
	ErrDanglingFanin = errors.New("fanin references a dead node")

	// ErrMissingCover is returned by [Network.Check] when a logic node has
	// no cover attached.
	ErrMissingCover = errors.New("logic node has no cover")

	// ErrCoverArity is returned by [Network.Check] when a logic node's cover
	// variable count does not match its fanin count. Cover variables are
	// positional and must mirror the fanin order exactly.
	ErrCoverArity = errors.New("cover variable count does not match fanin count")

	// ErrFaninArity is returned by [Network.Check] when an input node has
	// fanins or an output node does not have exactly one.
	ErrFaninArity = errors.New("unexpected fanin count for node kind")

	// ErrNetworkHasCycle is returned by [Network.Check] when the fanin
	// relation contains a directed cycle. Combinational networks must be
	// acyclic.
	ErrNetworkHasCycle = errors.New("network contains a cycle")
)

// Kind distinguishes the roles a node can play in the network.
type Kind int

const (
	// KindLogic is an internal node computing a Boolean function of its
	// fanins, described by an attached SOP cover.
	KindLogic Kind = iota
	// KindInput is a primary input. Inputs have no fanins and no cover.
	KindInput
	// KindOutput is a primary output. Outputs have exactly one fanin and
	// no cover - they name which signal leaves the network.
	KindOutput
)

// String returns the lowercase kind name used in serialization.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	default:
		return "logic"
	}
}

// Fanin is one input edge of a node: the identifier of the driving node
// plus an edge polarity flag. Slot order is significant - it mirrors the
// positional variables of the node's cover.
type Fanin struct {
	Node     int
	Inverted bool
}

// Node is a vertex in the network. Nodes are created through
// [Network.NewNode] and addressed by a stable non-negative identifier that
// is never reused while referenced.
type Node struct {
	id     int
	Name   string
	Kind   Kind
	fanins []Fanin
	cover  *sop.Cover
}

// ID returns the node's stable identifier within its network.
func (n *Node) ID() int { return n.id }

// IsLogic reports whether the node is an internal logic node.
func (n *Node) IsLogic() bool { return n.Kind == KindLogic }

// FaninNum returns the number of fanin slots.
func (n *Node) FaninNum() int { return len(n.fanins) }

// Fanin returns the fanin in slot i. It panics if i is out of range.
func (n *Node) Fanin(i int) Fanin { return n.fanins[i] }

// Fanins returns a copy of the node's fanin list in slot order.
// Modifying the returned slice does not affect the node.
func (n *Node) Fanins() []Fanin { return slices.Clone(n.fanins) }

// FaninIDs returns the fanin target identifiers in slot order.
func (n *Node) FaninIDs() []int {
	ids := make([]int, len(n.fanins))
	for i, f := range n.fanins {
		ids[i] = f.Node
	}
	return ids
}

// Cover returns the node's SOP cover, or nil if none is attached.
func (n *Node) Cover() *sop.Cover { return n.cover }

// SetCover replaces the node's cover as a whole. Covers are opaque to the
// network - no consistency check against the fanin list happens here (use
// [Network.Check]).
func (n *Node) SetCover(c *sop.Cover) { n.cover = c }

// Network owns a set of nodes indexed by identifier. Identifiers 0..MaxID-1
// form a dense namespace with possible holes where nodes were removed.
//
// The zero value is not usable - use [New]. Network is not safe for
// concurrent use without external synchronization.
type Network struct {
	Name  string
	nodes []*Node
	alive int
}

// New creates an empty network with the given name.
func New(name string) *Network {
	return &Network{Name: name}
}

// NewNode creates a node of the given kind with no fanins and no cover.
// The node is assigned the next identifier in the dense namespace
// (the current [Network.MaxID]).
func (nt *Network) NewNode(kind Kind) *Node {
	n := &Node{id: len(nt.nodes), Kind: kind}
	nt.nodes = append(nt.nodes, n)
	nt.alive++
	return n
}

// Node returns the live node with the given identifier and true,
// or nil and false if the identifier is out of range or a hole.
func (nt *Network) Node(id int) (*Node, bool) {
	if id < 0 || id >= len(nt.nodes) || nt.nodes[id] == nil {
		return nil, false
	}
	return nt.nodes[id], true
}

// Nodes returns all live nodes in ascending identifier order.
func (nt *Network) Nodes() []*Node {
	out := make([]*Node, 0, nt.alive)
	for _, n := range nt.nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// LogicNodes returns all live logic nodes in ascending identifier order.
func (nt *Network) LogicNodes() []*Node {
	var out []*Node
	for _, n := range nt.nodes {
		if n != nil && n.IsLogic() {
			out = append(out, n)
		}
	}
	return out
}

// NodeCount returns the number of live nodes.
func (nt *Network) NodeCount() int { return nt.alive }

// MaxID returns the size of the identifier namespace: one past the highest
// identifier ever assigned. Holes from removed nodes still count.
func (nt *Network) MaxID() int { return len(nt.nodes) }

// AddFanin appends a fanin edge to n referencing the live node target.
// Slot order follows call order. Duplicate targets are not rejected here -
// structural rules like duplicate-freeness are the caller's concern.
func (nt *Network) AddFanin(n *Node, target int, inverted bool) error {
	if _, ok := nt.Node(target); !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownNode, target)
	}
	n.fanins = append(n.fanins, Fanin{Node: target, Inverted: inverted})
	return nil
}

// RemoveFanins detaches all fanin edges of n. The cover is left in place;
// callers replacing a node's function swap the cover separately.
func (nt *Network) RemoveFanins(n *Node) {
	n.fanins = nil
}

// RemoveNode deletes the node with the given identifier, leaving a hole in
// the namespace. Returns ErrUnknownNode if the node does not exist, or
// ErrNodeInUse if any live node still lists it as a fanin.
func (nt *Network) RemoveNode(id int) error {
	if _, ok := nt.Node(id); !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownNode, id)
	}
	for _, n := range nt.nodes {
		if n == nil || n.id == id {
			continue
		}
		for _, f := range n.fanins {
			if f.Node == id {
				return fmt.Errorf("%w: node %d referenced by node %d", ErrNodeInUse, id, n.id)
			}
		}
	}
	nt.nodes[id] = nil
	nt.alive--
	return nil
}

// Literals returns the total literal count across all logic node covers.
// This is the cost metric optimizations try to reduce.
func (nt *Network) Literals() int {
	total := 0
	for _, n := range nt.nodes {
		if n != nil && n.cover != nil {
			total += n.cover.Literals()
		}
	}
	return total
}

// Clone returns a deep copy of the network: nodes, fanin lists and covers
// are all duplicated, identifiers are preserved.
func (nt *Network) Clone() *Network {
	out := &Network{Name: nt.Name, nodes: make([]*Node, len(nt.nodes)), alive: nt.alive}
	for i, n := range nt.nodes {
		if n == nil {
			continue
		}
		cp := &Node{id: n.id, Name: n.Name, Kind: n.Kind, fanins: slices.Clone(n.fanins)}
		if n.cover != nil {
			cp.cover = n.cover.Clone()
		}
		out.nodes[i] = cp
	}
	return out
}

// Equal reports whether two networks are structurally identical: same
// identifier namespace, same live nodes with the same kinds, names, fanin
// sequences and covers.
func (nt *Network) Equal(o *Network) bool {
	if len(nt.nodes) != len(o.nodes) {
		return false
	}
	for i := range nt.nodes {
		a, b := nt.nodes[i], o.nodes[i]
		if (a == nil) != (b == nil) {
			return false
		}
		if a == nil {
			continue
		}
		if a.Kind != b.Kind || a.Name != b.Name || !slices.Equal(a.fanins, b.fanins) {
			return false
		}
		if (a.cover == nil) != (b.cover == nil) {
			return false
		}
		if a.cover != nil && !a.cover.Equal(b.cover) {
			return false
		}
	}
	return true
}

// Check verifies general network well-formedness and returns nil if valid.
// It checks four constraints:
//
//  1. Every fanin slot references a live node (no dangling edges)
//  2. Fanin counts fit the node kind (inputs none, outputs exactly one)
//  3. Every logic node has a cover whose variable count matches its fanin count
//  4. The fanin relation is acyclic
//
// Check does not enforce the stricter structural rules required by the
// extraction engine (duplicate-free, non-inverted leading fanins) - see
// the fastx package for those.
func (nt *Network) Check() error {
	for _, n := range nt.nodes {
		if n == nil {
			continue
		}
		for i, f := range n.fanins {
			if _, ok := nt.Node(f.Node); !ok {
				return fmt.Errorf("%w: node %d slot %d -> %d", ErrDanglingFanin, n.id, i, f.Node)
			}
		}
		switch n.Kind {
		case KindInput:
			if len(n.fanins) != 0 {
				return fmt.Errorf("%w: input node %d has %d fanins", ErrFaninArity, n.id, len(n.fanins))
			}
		case KindOutput:
			if len(n.fanins) != 1 {
				return fmt.Errorf("%w: output node %d has %d fanins", ErrFaninArity, n.id, len(n.fanins))
			}
		case KindLogic:
			if n.cover == nil {
				return fmt.Errorf("%w: node %d", ErrMissingCover, n.id)
			}
			if n.cover.VarNum() != len(n.fanins) {
				return fmt.Errorf("%w: node %d has %d vars, %d fanins",
					ErrCoverArity, n.id, n.cover.VarNum(), len(n.fanins))
			}
		}
	}
	return nt.detectCycles()
}

func (nt *Network) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(nt.nodes))
	var hasCycle bool

	var dfs func(id int)
	dfs = func(id int) {
		color[id] = gray
		for _, f := range nt.nodes[id].fanins {
			switch color[f.Node] {
			case white:
				dfs(f.Node)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for id, n := range nt.nodes {
		if n != nil && color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrNetworkHasCycle
			}
		}
	}
	return nil
}
