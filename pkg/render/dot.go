package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tkoenig/sopnet/pkg/network"
)

// Options configures diagram generation.
type Options struct {
	// Detailed includes cube and literal counts in logic node labels.
	// When false, only the node name is shown.
	Detailed bool
}

// ToDOT converts a network to Graphviz DOT format. The resulting DOT string
// can be rendered with [SVG] or fed to external Graphviz tools.
//
// Inputs are drawn as plain boxes, logic nodes as rounded boxes, and
// outputs as grey boxes. Complemented fanin edges are dashed with an
// open-dot arrowhead.
func ToDOT(nt *network.Network, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range nt.Nodes() {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeName(n), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range nt.Nodes() {
		for _, f := range n.Fanins() {
			src, ok := nt.Node(f.Node)
			if !ok {
				continue
			}
			if f.Inverted {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed, arrowhead=odot];\n",
					nodeName(src), nodeName(n))
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", nodeName(src), nodeName(n))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeName returns the display name for a node, falling back to the
// identifier when no name is set.
func nodeName(n *network.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return fmt.Sprintf("n%d", n.ID())
}

func fmtLabel(n *network.Node, detailed bool) string {
	label := nodeName(n)
	if !detailed || !n.IsLogic() || n.Cover() == nil {
		return label
	}
	c := n.Cover()
	return fmt.Sprintf("%s\ncubes: %d\nlits: %d", label, c.CubeNum(), c.Literals())
}

func fmtAttrs(n *network.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Kind {
	case network.KindInput:
		attrs = append(attrs, "style=\"filled\"", "fillcolor=lightblue")
	case network.KindOutput:
		attrs = append(attrs, "style=\"filled\"", "fillcolor=lightgrey")
	}
	return attrs
}
