package fastx

import (
	"github.com/tkoenig/sopnet/pkg/errors"
	"github.com/tkoenig/sopnet/pkg/network"
)

// apply commits the engine's output back onto the live network:
//
//  1. Instantiate nodesNew nodes at consecutive identifiers from OldMax,
//     matching the index space the engine wrote into.
//  2. For every original identifier with a non-empty updated fanin list:
//     detach all current fanins, attach the new ones in the exact order
//     given (order matches cover variable order), swap in the new cover.
//     Identifiers with no updated entry are left completely untouched.
//  3. Wire each new node per its updated entry.
//
// The engine's output is verified in full before the first mutation, so a
// contract violation (out-of-range fanin reference, new node without a
// cover, stale context) returns an error with the network untouched.
func apply(nt *network.Network, c *Context, nodesNew int) error {
	if err := verify(nt, c, nodesNew); err != nil {
		return err
	}

	// Create the new nodes first so updated fanin lists may reference them.
	for i := 0; i < nodesNew; i++ {
		n := nt.NewNode(network.KindLogic)
		if n.ID() != c.OldMax+i {
			return errors.New(errors.ErrCodeInternal,
				"new node got id %d, want %d", n.ID(), c.OldMax+i)
		}
	}

	// Rewire the updated existing nodes.
	for id := 0; id < c.OldMax; id++ {
		if len(c.NewFanins[id]) == 0 {
			continue
		}
		n, _ := nt.Node(id)
		nt.RemoveFanins(n)
		if err := attach(nt, n, c.NewFanins[id]); err != nil {
			return err
		}
		n.SetCover(c.NewCovers[id])
	}

	// Wire the new nodes.
	for id := c.OldMax; id < c.OldMax+nodesNew; id++ {
		n, _ := nt.Node(id)
		if err := attach(nt, n, c.NewFanins[id]); err != nil {
			return err
		}
		n.SetCover(c.NewCovers[id])
	}

	return nil
}

func attach(nt *network.Network, n *network.Node, fanins []int) error {
	for _, target := range fanins {
		if err := nt.AddFanin(n, target, false); err != nil {
			return errors.Wrap(errors.ErrCodeEngineContract, err,
				"attach fanin %d to node %d", target, n.ID())
		}
	}
	return nil
}

// verify checks the engine's output against its contract before any
// mutation happens. Violations are defects in the engine or the
// marshalling, not recoverable conditions, but rejecting them here keeps
// declines side-effect free.
func verify(nt *network.Network, c *Context, nodesNew int) error {
	if nodesNew < 0 {
		return errors.New(errors.ErrCodeEngineContract, "negative new-node count %d", nodesNew)
	}
	if len(c.NewFanins) <= len(c.Fanins) {
		return errors.New(errors.ErrCodeInternal,
			"context has no room for new nodes (%d <= %d)", len(c.NewFanins), len(c.Fanins))
	}
	if nt.MaxID() != c.OldMax {
		return errors.New(errors.ErrCodeEngineContract,
			"network changed since context build: max id %d, want %d", nt.MaxID(), c.OldMax)
	}
	limit := c.OldMax + nodesNew
	if limit > len(c.NewFanins) {
		return errors.New(errors.ErrCodeEngineContract,
			"%d new nodes exceed reserved capacity %d", nodesNew, c.ExtraCapacity())
	}

	for id := 0; id < limit; id++ {
		isNew := id >= c.OldMax
		if !isNew && len(c.NewFanins[id]) == 0 {
			continue // untouched
		}
		if c.NewCovers[id] == nil {
			return errors.New(errors.ErrCodeEngineContract, "node %d has no updated cover", id)
		}
		if !isNew && !c.Eligible(id) {
			return errors.New(errors.ErrCodeEngineContract,
				"engine updated ineligible node %d", id)
		}
		for slot, target := range c.NewFanins[id] {
			if target < 0 || target >= limit {
				return errors.New(errors.ErrCodeEngineContract,
					"node %d slot %d references out-of-range id %d", id, slot, target)
			}
			if target < c.OldMax {
				if _, ok := nt.Node(target); !ok {
					return errors.New(errors.ErrCodeEngineContract,
						"node %d slot %d references dead id %d", id, slot, target)
				}
			}
		}
	}
	return nil
}
