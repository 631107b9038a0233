// Package nodelink renders flows as node-link diagrams.
//
// # Usage
//
// Convert a flow to DOT, then render it:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot)
//
// The generated DOT uses top-to-bottom layout (rankdir=TB). Node positions
// stored in the flow are ignored; Graphviz computes its own layout. The
// DOT source can also be saved and processed with external Graphviz tools.
//
// # Dependencies
//
// Rendering runs in-process through [github.com/goccy/go-graphviz].
package nodelink
