package network

import (
	"errors"
	"slices"
	"testing"

	"github.com/tkoenig/sopnet/pkg/sop"
)

// andNet builds inputs a (0), b (1) and an AND node (2) over them.
func andNet(t *testing.T) *Network {
	t.Helper()
	nt := New("and")
	a := nt.NewNode(KindInput)
	b := nt.NewNode(KindInput)
	n := nt.NewNode(KindLogic)
	if err := nt.AddFanin(n, a.ID(), false); err != nil {
		t.Fatalf("AddFanin: %v", err)
	}
	if err := nt.AddFanin(n, b.ID(), false); err != nil {
		t.Fatalf("AddFanin: %v", err)
	}
	n.SetCover(sop.MustParse("11"))
	return nt
}

func TestNewNode_AssignsDenseIDs(t *testing.T) {
	nt := New("ids")
	for i := 0; i < 4; i++ {
		if n := nt.NewNode(KindLogic); n.ID() != i {
			t.Errorf("node %d got id %d", i, n.ID())
		}
	}
	if nt.MaxID() != 4 {
		t.Errorf("MaxID() = %d, want 4", nt.MaxID())
	}
}

func TestAddFanin_UnknownTarget(t *testing.T) {
	nt := New("bad")
	n := nt.NewNode(KindLogic)
	if err := nt.AddFanin(n, 7, false); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddFanin error = %v, want ErrUnknownNode", err)
	}
	if n.FaninNum() != 0 {
		t.Error("failed AddFanin left a fanin behind")
	}
}

func TestRemoveNode(t *testing.T) {
	nt := andNet(t)

	// Node 0 is still a fanin of node 2.
	if err := nt.RemoveNode(0); !errors.Is(err, ErrNodeInUse) {
		t.Errorf("RemoveNode(0) error = %v, want ErrNodeInUse", err)
	}

	n, _ := nt.Node(2)
	nt.RemoveFanins(n)
	n.SetCover(sop.New(0))
	if err := nt.RemoveNode(0); err != nil {
		t.Fatalf("RemoveNode(0): %v", err)
	}

	// The identifier namespace keeps the hole.
	if nt.MaxID() != 3 {
		t.Errorf("MaxID() = %d, want 3", nt.MaxID())
	}
	if nt.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", nt.NodeCount())
	}
	if _, ok := nt.Node(0); ok {
		t.Error("removed node still resolvable")
	}
	if err := nt.RemoveNode(0); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("double remove error = %v, want ErrUnknownNode", err)
	}
}

func TestNodes_SkipsHoles(t *testing.T) {
	nt := New("holes")
	nt.NewNode(KindInput)
	mid := nt.NewNode(KindLogic)
	mid.SetCover(sop.New(0))
	nt.NewNode(KindInput)
	if err := nt.RemoveNode(mid.ID()); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}

	ids := make([]int, 0, 2)
	for _, n := range nt.Nodes() {
		ids = append(ids, n.ID())
	}
	if !slices.Equal(ids, []int{0, 2}) {
		t.Errorf("live ids = %v, want [0 2]", ids)
	}
}

func TestCheck(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		if err := andNet(t).Check(); err != nil {
			t.Errorf("Check() = %v, want nil", err)
		}
	})

	t.Run("missing cover", func(t *testing.T) {
		nt := andNet(t)
		n, _ := nt.Node(2)
		n.SetCover(nil)
		if err := nt.Check(); !errors.Is(err, ErrMissingCover) {
			t.Errorf("Check() = %v, want ErrMissingCover", err)
		}
	})

	t.Run("cover arity", func(t *testing.T) {
		nt := andNet(t)
		n, _ := nt.Node(2)
		n.SetCover(sop.MustParse("111"))
		if err := nt.Check(); !errors.Is(err, ErrCoverArity) {
			t.Errorf("Check() = %v, want ErrCoverArity", err)
		}
	})

	t.Run("output arity", func(t *testing.T) {
		nt := andNet(t)
		nt.NewNode(KindOutput) // no fanin
		if err := nt.Check(); !errors.Is(err, ErrFaninArity) {
			t.Errorf("Check() = %v, want ErrFaninArity", err)
		}
	})

	t.Run("cycle", func(t *testing.T) {
		nt := New("cycle")
		x := nt.NewNode(KindLogic)
		y := nt.NewNode(KindLogic)
		_ = nt.AddFanin(x, y.ID(), false)
		_ = nt.AddFanin(y, x.ID(), false)
		x.SetCover(sop.MustParse("1"))
		y.SetCover(sop.MustParse("1"))
		if err := nt.Check(); !errors.Is(err, ErrNetworkHasCycle) {
			t.Errorf("Check() = %v, want ErrNetworkHasCycle", err)
		}
	})
}

func TestCloneAndEqual(t *testing.T) {
	nt := andNet(t)
	cp := nt.Clone()

	if !nt.Equal(cp) {
		t.Fatal("clone not Equal to original")
	}

	// Mutating the clone must not affect the original.
	n, _ := cp.Node(2)
	cp.RemoveFanins(n)
	if nt.Equal(cp) {
		t.Error("Equal() = true after mutating clone")
	}
	orig, _ := nt.Node(2)
	if orig.FaninNum() != 2 {
		t.Error("clone mutation leaked into original")
	}
}

func TestLiterals(t *testing.T) {
	nt := andNet(t)
	if got := nt.Literals(); got != 2 {
		t.Errorf("Literals() = %d, want 2", got)
	}
}

func TestFaninAccessors(t *testing.T) {
	nt := andNet(t)
	n, _ := nt.Node(2)

	if !slices.Equal(n.FaninIDs(), []int{0, 1}) {
		t.Errorf("FaninIDs() = %v, want [0 1]", n.FaninIDs())
	}

	// Fanins returns a copy.
	fs := n.Fanins()
	fs[0].Node = 99
	if n.Fanin(0).Node != 0 {
		t.Error("Fanins() exposed internal state")
	}
}
