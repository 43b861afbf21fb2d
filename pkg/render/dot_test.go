package render

import (
	"strings"
	"testing"

	"github.com/tkoenig/sopnet/pkg/network"
	"github.com/tkoenig/sopnet/pkg/sop"
)

func testNet(t *testing.T) *network.Network {
	t.Helper()
	nt := network.New("render")
	a := nt.NewNode(network.KindInput)
	a.Name = "a"
	b := nt.NewNode(network.KindInput)
	b.Name = "b"
	n := nt.NewNode(network.KindLogic)
	n.Name = "g"
	if err := nt.AddFanin(n, a.ID(), false); err != nil {
		t.Fatalf("AddFanin: %v", err)
	}
	if err := nt.AddFanin(n, b.ID(), true); err != nil {
		t.Fatalf("AddFanin: %v", err)
	}
	n.SetCover(sop.MustParse("11\n00"))
	out := nt.NewNode(network.KindOutput)
	out.Name = "f"
	if err := nt.AddFanin(out, n.ID(), false); err != nil {
		t.Fatalf("AddFanin: %v", err)
	}
	return nt
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testNet(t), Options{})

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Error("missing digraph header")
	}
	for _, want := range []string{`"a"`, `"b"`, `"g"`, `"f"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing node %s", want)
		}
	}
	if !strings.Contains(dot, `"a" -> "g";`) {
		t.Error("DOT missing plain edge a -> g")
	}
	if !strings.Contains(dot, `"b" -> "g" [style=dashed, arrowhead=odot];`) {
		t.Error("complemented edge not drawn dashed with odot arrowhead")
	}
	if !strings.Contains(dot, `"g" -> "f";`) {
		t.Error("DOT missing output edge")
	}
}

func TestToDOT_DetailedLabels(t *testing.T) {
	dot := ToDOT(testNet(t), Options{Detailed: true})
	if !strings.Contains(dot, `cubes: 2`) {
		t.Error("detailed label missing cube count")
	}
	if !strings.Contains(dot, `lits: 4`) {
		t.Error("detailed label missing literal count")
	}
}

func TestToDOT_UnnamedNodesUseIDs(t *testing.T) {
	nt := network.New("anon")
	nt.NewNode(network.KindInput)
	dot := ToDOT(nt, Options{})
	if !strings.Contains(dot, `"n0"`) {
		t.Error("unnamed node not labeled by id")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 120.40 60.25">body</svg>`)
	out := normalizeViewBox(in)
	if !strings.Contains(string(out), `viewBox="0 0 120.40 60.25"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(string(out), `width="120" height="60"`) {
		t.Errorf("dimensions not rewritten: %s", out)
	}

	plain := []byte("<svg>no viewbox</svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Error("SVG without viewBox was modified")
	}
}
