package network

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tkoenig/sopnet/pkg/sop"
)

func TestNetworkJSONRoundTrip(t *testing.T) {
	nt := New("rt")
	a := nt.NewNode(KindInput)
	a.Name = "a"
	b := nt.NewNode(KindInput)
	b.Name = "b"
	n := nt.NewNode(KindLogic)
	_ = nt.AddFanin(n, a.ID(), false)
	_ = nt.AddFanin(n, b.ID(), false)
	n.SetCover(sop.MustParse("11\n00"))
	out := nt.NewNode(KindOutput)
	out.Name = "f"
	_ = nt.AddFanin(out, n.ID(), true)

	data, err := MarshalNetwork(nt)
	if err != nil {
		t.Fatalf("MarshalNetwork: %v", err)
	}
	got, err := UnmarshalNetwork(data)
	if err != nil {
		t.Fatalf("UnmarshalNetwork: %v", err)
	}

	if !nt.Equal(got) {
		t.Error("round trip lost information")
	}
	if got.Name != "rt" {
		t.Errorf("Name = %q, want %q", got.Name, "rt")
	}
	o, _ := got.Node(out.ID())
	if !o.Fanin(0).Inverted {
		t.Error("inverted polarity lost in round trip")
	}
}

func TestNetworkJSONRoundTrip_PreservesHoles(t *testing.T) {
	nt := New("holes")
	nt.NewNode(KindInput)
	dead := nt.NewNode(KindLogic)
	dead.SetCover(sop.New(0))
	nt.NewNode(KindInput)
	if err := nt.RemoveNode(dead.ID()); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}

	data, err := MarshalNetwork(nt)
	if err != nil {
		t.Fatalf("MarshalNetwork: %v", err)
	}
	got, err := UnmarshalNetwork(data)
	if err != nil {
		t.Fatalf("UnmarshalNetwork: %v", err)
	}

	if got.MaxID() != 3 {
		t.Errorf("MaxID() = %d, want 3 (hole preserved)", got.MaxID())
	}
	if got.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", got.NodeCount())
	}
	if _, ok := got.Node(1); ok {
		t.Error("hole came back as a live node")
	}
}

func TestToNetwork_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  Doc
	}{
		{"negative id", Doc{Nodes: []NodeDoc{{ID: -1, Kind: "input"}}}},
		{"duplicate id", Doc{Nodes: []NodeDoc{{ID: 0, Kind: "input"}, {ID: 0, Kind: "input"}}}},
		{"dangling fanin", Doc{Nodes: []NodeDoc{{ID: 0, Kind: "logic", Fanins: []int{5}, Cover: []string{"1"}}}}},
		{"flag count mismatch", Doc{Nodes: []NodeDoc{
			{ID: 0, Kind: "input"},
			{ID: 1, Kind: "logic", Fanins: []int{0}, Inverted: []bool{true, false}, Cover: []string{"1"}},
		}}},
		{"bad cover literal", Doc{Nodes: []NodeDoc{{ID: 0, Kind: "logic", Cover: []string{"x"}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ToNetwork(tt.doc); err == nil {
				t.Error("ToNetwork() = nil error, want failure")
			}
		})
	}
}

func TestReadWriteNetwork(t *testing.T) {
	nt := New("io")
	a := nt.NewNode(KindInput)
	n := nt.NewNode(KindLogic)
	_ = nt.AddFanin(n, a.ID(), false)
	n.SetCover(sop.MustParse("1"))

	var buf bytes.Buffer
	if err := WriteNetwork(nt, &buf); err != nil {
		t.Fatalf("WriteNetwork: %v", err)
	}
	if !strings.Contains(buf.String(), `"kind": "logic"`) {
		t.Errorf("output missing node kind: %s", buf.String())
	}

	got, err := ReadNetwork(&buf)
	if err != nil {
		t.Fatalf("ReadNetwork: %v", err)
	}
	if !nt.Equal(got) {
		t.Error("read back network differs")
	}
}
