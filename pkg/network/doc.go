// Package network implements the Boolean network representation that the
// optimization passes operate on.
//
// A [Network] is a directed acyclic graph of [Node] values. Every node gets
// a dense integer identifier on creation; identifiers are never reused, so
// removing a node leaves a permanent hole in the namespace. This makes
// identifiers stable handles - a pass can record node ids, mutate the graph,
// and trust that surviving ids still name the same nodes.
//
// Logic nodes carry a sum-of-products cover (see the sop package) whose
// variables map positionally onto the node's ordered fanin list. Fanin edges
// carry a polarity flag, so an edge can feed a signal in complemented form
// without a separate inverter node.
//
// Construction is explicit and checked:
//
//	nt := network.New("adder")
//	a := nt.NewNode(network.KindInput)
//	b := nt.NewNode(network.KindInput)
//	sum := nt.NewNode(network.KindLogic)
//	_ = nt.AddFanin(sum, a.ID(), false)
//	_ = nt.AddFanin(sum, b.ID(), false)
//	sum.SetCover(sop.MustParse("10\n01"))
//
// [Network.Check] validates structural integrity - no dangling fanins, kind
// arities, cover arities, acyclicity - and is cheap enough to run after any
// surgery pass.
package network
