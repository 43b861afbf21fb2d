package fastx

import (
	"slices"
	"testing"

	"github.com/tkoenig/sopnet/pkg/network"
	"github.com/tkoenig/sopnet/pkg/sop"
)

func TestBuild_Completeness(t *testing.T) {
	nt := network.New("build")
	a := nt.NewNode(network.KindInput) // 0
	b := nt.NewNode(network.KindInput) // 1

	eligible := nt.NewNode(network.KindLogic) // 2
	_ = nt.AddFanin(eligible, a.ID(), false)
	_ = nt.AddFanin(eligible, b.ID(), false)
	eligible.SetCover(sop.MustParse("11\n00"))

	oneVar := nt.NewNode(network.KindLogic) // 3: single variable, excluded
	_ = nt.AddFanin(oneVar, a.ID(), false)
	oneVar.SetCover(sop.MustParse("1"))

	noCubes := nt.NewNode(network.KindLogic) // 4: zero cubes, excluded
	_ = nt.AddFanin(noCubes, a.ID(), false)
	_ = nt.AddFanin(noCubes, b.ID(), false)
	noCubes.SetCover(sop.New(2))

	c := Build(nt, 5)

	if c.OldMax != nt.MaxID() {
		t.Errorf("OldMax = %d, want %d", c.OldMax, nt.MaxID())
	}
	if len(c.Covers) != 5 || len(c.Fanins) != 5 {
		t.Errorf("original collections sized %d/%d, want 5", len(c.Covers), len(c.Fanins))
	}
	if len(c.NewCovers) != 10 || len(c.NewFanins) != 10 {
		t.Errorf("updated collections sized %d/%d, want 10", len(c.NewCovers), len(c.NewFanins))
	}
	if c.ExtraCapacity() != 5 {
		t.Errorf("ExtraCapacity() = %d, want 5", c.ExtraCapacity())
	}

	if !c.Eligible(2) {
		t.Error("node 2 should be eligible")
	}
	if c.Covers[2] != eligible.Cover() {
		t.Error("Covers[2] should record the node's cover")
	}
	if !slices.Equal(c.Fanins[2], []int{0, 1}) {
		t.Errorf("Fanins[2] = %v, want [0 1]", c.Fanins[2])
	}

	for _, id := range []int{0, 1, 3, 4} {
		if c.Eligible(id) {
			t.Errorf("node %d should not be eligible", id)
		}
	}
	for id := range c.NewCovers {
		if c.NewCovers[id] != nil || c.NewFanins[id] != nil {
			t.Errorf("updated slot %d should start empty", id)
		}
	}
}

func TestBuild_EmptyNetwork(t *testing.T) {
	c := Build(network.New("empty"), 3)
	if c.OldMax != 0 {
		t.Errorf("OldMax = %d, want 0", c.OldMax)
	}
	if len(c.Covers) != 0 || len(c.NewCovers) != 3 {
		t.Errorf("collections sized %d/%d, want 0/3", len(c.Covers), len(c.NewCovers))
	}

	// Engines must decline on an all-empty context, not fault.
	if n := NewGreedyEngine().Extract(c); n != 0 {
		t.Errorf("Extract() = %d on empty context, want 0", n)
	}
}

func TestBuild_DoesNotMutate(t *testing.T) {
	nt := twoInputNet(t, "11\n10")
	before := nt.Clone()

	Build(nt, 4)

	if !nt.Equal(before) {
		t.Error("Build mutated the network")
	}
}

func TestContext_Release(t *testing.T) {
	nt := twoInputNet(t, "11")
	c := Build(nt, 2)
	c.Release()

	if c.Covers != nil || c.Fanins != nil || c.NewCovers != nil || c.NewFanins != nil {
		t.Error("Release should drop every collection")
	}
	if c.Eligible(0) {
		t.Error("released context should report nothing eligible")
	}
}
