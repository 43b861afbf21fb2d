package fastx

import "github.com/tkoenig/sopnet/pkg/network"

// Check reports whether every logic node satisfies the extraction engine's
// input contract. Two rules are enforced:
//
//   - the first two fanin slots must carry non-inverting polarity
//   - no two fanin slots of one node may reference the same target
//
// Check is a read-only scan and a hard gate: running extraction on a
// non-conforming network would silently produce an incorrect optimized
// network, so callers must decline rather than warn.
func Check(nt *network.Network) bool {
	for _, n := range nt.LogicNodes() {
		fanins := n.Fanins()
		for i, fi := range fanins {
			if i < 2 && fi.Inverted {
				return false
			}
			for k, fk := range fanins {
				if i == k {
					continue
				}
				if fi.Node == fk.Node {
					return false
				}
			}
		}
	}
	return true
}
