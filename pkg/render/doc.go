// Package render draws Boolean networks as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz.
// Primary inputs appear at the top, logic nodes in the middle, and primary
// outputs at the bottom. A complemented fanin edge is drawn dashed with an
// open-dot arrowhead, the usual schematic notation for inversion.
//
// # Usage
//
// Convert a network to DOT format, then render to SVG:
//
//	dot := render.ToDOT(nt, render.Options{Detailed: true})
//	svg, err := render.SVG(dot)
//
// The DOT source can also be saved as-is and processed with external
// Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no graphviz installation is required at runtime.
package render
