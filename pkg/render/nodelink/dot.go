package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowgraph/pkg/flow"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds node IDs to node labels and link info to edge labels.
	// When false, only the labels are shown.
	Detailed bool

	// Selection draws selected nodes with a heavier outline.
	Selection bool
}

var kindAttrs = map[flow.Kind][]string{
	flow.KindStart:   {"shape=oval", "fillcolor=\"#d9f2d9\""},
	flow.KindEnd:     {"shape=doubleoctagon", "fillcolor=\"#f7d4d4\""},
	flow.KindDefault: {},
}

// ToDOT converts a flow to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Start nodes are drawn as green ovals and end nodes as red octagons. Edge
// labels are shown when set.
func ToDOT(g *flow.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=14];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := fmtNodeAttrs(n, opts.Detailed)
		if opts.Selection && g.IsSelected(n.ID) {
			attrs = append(attrs, "penwidth=3")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if label := fmtEdgeLabel(e, opts.Detailed); label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Target, label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtNodeAttrs(n flow.Node, detailed bool) []string {
	label := n.Label
	if detailed {
		label = n.ID + "\n" + n.Label
	}
	return append([]string{fmt.Sprintf("label=%q", label)}, kindAttrs[n.Kind]...)
}

func fmtEdgeLabel(e flow.Edge, detailed bool) string {
	if !detailed || e.LinkInfo == "" {
		return e.Label
	}
	if e.Label == "" {
		return e.LinkInfo
	}
	return e.Label + "\n" + e.LinkInfo
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	out, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales from its
// viewBox instead of Graphviz's point-based width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
