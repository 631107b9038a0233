// Package render groups the diagram renderers for flows.
//
// The [nodelink] subpackage converts a flow to Graphviz DOT and renders it to
// SVG or PNG with the embedded Graphviz runtime, so no external tools are
// needed. Start nodes are drawn as ovals and End nodes as double octagons.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// Rendered artifacts are cached by the callers through the cache package,
// keyed by the DOT source.
package render
