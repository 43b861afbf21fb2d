package network

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/tkoenig/sopnet/pkg/sop"
)

// =============================================================================
// Serialization Types
// =============================================================================

// Doc is the canonical serialization format for networks.
// Used for files, API payloads and cache entries.
//
// The format is human-readable and designed for round-trip fidelity:
// read -> optimize -> write -> re-read preserves identifiers, fanin order
// and cover text exactly.
type Doc struct {
	Name  string    `json:"name,omitempty" bson:"name,omitempty"`
	Nodes []NodeDoc `json:"nodes" bson:"nodes"`
}

// NodeDoc is the serialized form of one node.
// Fanins are listed in slot order; Inverted, when present, carries one
// polarity flag per fanin slot. Cover holds the SOP rows of logic nodes.
type NodeDoc struct {
	ID       int      `json:"id" bson:"id"`
	Kind     string   `json:"kind" bson:"kind"`
	Name     string   `json:"name,omitempty" bson:"name,omitempty"`
	Fanins   []int    `json:"fanins,omitempty" bson:"fanins,omitempty"`
	Inverted []bool   `json:"inverted,omitempty" bson:"inverted,omitempty"`
	Cover    []string `json:"cover,omitempty" bson:"cover,omitempty"`
}

// =============================================================================
// Network Serialization API
// =============================================================================

// MarshalNetwork converts a network to JSON bytes.
// Nodes are emitted in ascending identifier order for deterministic output.
func MarshalNetwork(nt *Network) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeNetworkTo(nt, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalNetwork decodes JSON bytes produced by [MarshalNetwork].
func UnmarshalNetwork(data []byte) (*Network, error) {
	return readNetworkFrom(bytes.NewReader(data))
}

// WriteNetworkFile writes a network to a JSON file.
// The file is created with 0644 permissions.
func WriteNetworkFile(nt *Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeNetworkTo(nt, f)
}

// WriteNetwork writes a network as JSON to an io.Writer.
func WriteNetwork(nt *Network, w io.Writer) error {
	return writeNetworkTo(nt, w)
}

// ReadNetworkFile reads a JSON file and returns the decoded network.
func ReadNetworkFile(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readNetworkFrom(f)
}

// ReadNetwork decodes a JSON network from an io.Reader.
func ReadNetwork(r io.Reader) (*Network, error) {
	return readNetworkFrom(r)
}

// =============================================================================
// Doc <-> Network Conversion
// =============================================================================

// FromNetwork converts a network to its serialization format.
func FromNetwork(nt *Network) Doc {
	doc := Doc{Name: nt.Name}
	for _, n := range nt.Nodes() {
		nd := NodeDoc{
			ID:     n.ID(),
			Kind:   n.Kind.String(),
			Name:   n.Name,
			Fanins: n.FaninIDs(),
		}
		for _, f := range n.Fanins() {
			if f.Inverted {
				nd.Inverted = inversionFlags(n.Fanins())
				break
			}
		}
		if c := n.Cover(); c != nil {
			nd.Cover = c.Cubes()
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	return doc
}

// ToNetwork converts a Doc back to a live network, restoring the original
// identifier namespace including holes left by removed nodes.
func ToNetwork(doc Doc) (*Network, error) {
	nt := New(doc.Name)

	nodes := slices.Clone(doc.Nodes)
	slices.SortFunc(nodes, func(a, b NodeDoc) int { return a.ID - b.ID })

	// First pass: create every node at its original identifier, filling
	// namespace gaps with placeholders that are removed at the end.
	var holes []int
	for _, nd := range nodes {
		if nd.ID < 0 {
			return nil, fmt.Errorf("node id %d: identifiers must be non-negative", nd.ID)
		}
		for nt.MaxID() < nd.ID {
			holes = append(holes, nt.MaxID())
			nt.NewNode(KindLogic)
		}
		if nt.MaxID() > nd.ID {
			return nil, fmt.Errorf("duplicate node id %d", nd.ID)
		}
		n := nt.NewNode(kindFromString(nd.Kind))
		n.Name = nd.Name
		if len(nd.Cover) > 0 {
			c := sop.New(len(nd.Cover[0]))
			for _, cube := range nd.Cover {
				if err := c.AddCube(cube); err != nil {
					return nil, fmt.Errorf("node %d: %w", nd.ID, err)
				}
			}
			n.SetCover(c)
		}
	}

	// Second pass: wire fanins now that every target exists.
	for _, nd := range nodes {
		n, _ := nt.Node(nd.ID)
		if len(nd.Inverted) > 0 && len(nd.Inverted) != len(nd.Fanins) {
			return nil, fmt.Errorf("node %d: %d inverted flags for %d fanins",
				nd.ID, len(nd.Inverted), len(nd.Fanins))
		}
		for i, target := range nd.Fanins {
			inv := len(nd.Inverted) > 0 && nd.Inverted[i]
			if err := nt.AddFanin(n, target, inv); err != nil {
				return nil, fmt.Errorf("node %d slot %d: %w", nd.ID, i, err)
			}
		}
	}

	for _, id := range holes {
		if err := nt.RemoveNode(id); err != nil {
			return nil, fmt.Errorf("restore hole at id %d: %w", id, err)
		}
	}

	return nt, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

func writeNetworkTo(nt *Network, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromNetwork(nt)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readNetworkFrom(r io.Reader) (*Network, error) {
	var doc Doc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToNetwork(doc)
}

func inversionFlags(fanins []Fanin) []bool {
	flags := make([]bool, len(fanins))
	for i, f := range fanins {
		flags[i] = f.Inverted
	}
	return flags
}

func kindFromString(s string) Kind {
	switch s {
	case "input":
		return KindInput
	case "output":
		return KindOutput
	default:
		return KindLogic
	}
}
