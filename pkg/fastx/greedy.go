package fastx

import (
	"slices"

	"github.com/tkoenig/sopnet/pkg/sop"
)

// GreedyEngine is a conforming reference [Engine] that extracts
// single-cube, two-literal divisors. It repeatedly finds the pair of
// fanin signals that appears positively together in the most cubes across
// all eligible covers, factors that pair into a new AND node, and rewrites
// every affected cover to use the new signal instead - as long as the net
// literal saving is positive and the new-node budget allows.
//
// A pair occurring in k cubes saves k-2 literals: 2k pair literals are
// removed, k new-signal literals and a 2-literal node are added. The
// engine only writes into the Context's updated collections; the live
// network is never touched here.
type GreedyEngine struct {
	// MinSaving is the minimum net literal saving required to extract a
	// divisor. Values <= 0 fall back to 1.
	MinSaving int
}

// NewGreedyEngine returns a GreedyEngine with default settings.
func NewGreedyEngine() *GreedyEngine { return &GreedyEngine{} }

// workNode is the engine's private working copy of one node. Covers from
// the original collections are never mutated; a rewrite always builds a
// fresh cover and fanin list.
type workNode struct {
	cover  *sop.Cover
	fanins []int
}

// Extract implements [Engine].
func (e *GreedyEngine) Extract(c *Context) int {
	minSaving := e.MinSaving
	if minSaving <= 0 {
		minSaving = 1
	}

	work := make(map[int]*workNode)
	for id, cover := range c.Covers {
		if cover != nil {
			work[id] = &workNode{cover: cover, fanins: c.Fanins[id]}
		}
	}

	modified := make(map[int]bool)
	extra := c.ExtraCapacity()
	created := 0

	for created < extra {
		a, b, count := bestPair(work)
		if count-2 < minSaving {
			break
		}

		newID := c.OldMax + created
		for _, id := range sortedIDs(work) {
			if rewritten, ok := factorPair(work[id], a, b, newID); ok {
				work[id] = rewritten
				modified[id] = true
			}
		}

		and2 := sop.New(2)
		_ = and2.AddCube("11")
		work[newID] = &workNode{cover: and2, fanins: []int{a, b}}
		modified[newID] = true
		created++
	}

	for id := range modified {
		c.NewCovers[id] = work[id].cover
		c.NewFanins[id] = work[id].fanins
	}
	return created
}

// bestPair scans all working covers and returns the unordered pair of
// fanin identifiers that occurs positively together in the most cubes,
// along with that count. Ties break toward the smaller pair so extraction
// order is deterministic.
func bestPair(work map[int]*workNode) (a, b, count int) {
	type pair struct{ a, b int }
	counts := make(map[pair]int)

	for _, id := range sortedIDs(work) {
		w := work[id]
		for _, cube := range w.cover.Cubes() {
			var pos []int
			for v := 0; v < len(cube); v++ {
				if cube[v] == sop.LitPos {
					pos = append(pos, v)
				}
			}
			for i := 0; i < len(pos); i++ {
				for k := i + 1; k < len(pos); k++ {
					x, y := w.fanins[pos[i]], w.fanins[pos[k]]
					if x > y {
						x, y = y, x
					}
					counts[pair{x, y}]++
				}
			}
		}
	}

	best := pair{-1, -1}
	for p, n := range counts {
		if n > count || (n == count && (p.a < best.a || (p.a == best.a && p.b < best.b))) {
			best, count = p, n
		}
	}
	return best.a, best.b, count
}

// factorPair rewrites w so cubes containing both a and b positively use a
// fresh variable wired to newID instead. Returns the rewritten node and
// true, or nil and false when no cube contains the pair.
func factorPair(w *workNode, a, b, newID int) (*workNode, bool) {
	pa := slices.Index(w.fanins, a)
	pb := slices.Index(w.fanins, b)
	if pa < 0 || pb < 0 {
		return nil, false
	}

	hit := false
	for _, cube := range w.cover.Cubes() {
		if cube[pa] == sop.LitPos && cube[pb] == sop.LitPos {
			hit = true
			break
		}
	}
	if !hit {
		return nil, false
	}

	out := sop.New(w.cover.VarNum() + 1)
	for _, cube := range w.cover.Cubes() {
		row := append([]byte(cube), sop.LitNone)
		if cube[pa] == sop.LitPos && cube[pb] == sop.LitPos {
			row[pa] = sop.LitNone
			row[pb] = sop.LitNone
			row[len(row)-1] = sop.LitPos
		}
		_ = out.AddCube(string(row))
	}

	fanins := append(slices.Clone(w.fanins), newID)
	return &workNode{cover: out, fanins: fanins}, true
}

func sortedIDs(work map[int]*workNode) []int {
	ids := make([]int, 0, len(work))
	for id := range work {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
