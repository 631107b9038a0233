package server

import (
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/flow/edit"
)

type positionView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type nodeView struct {
	ID        string       `json:"id"`
	Kind      string       `json:"kind"`
	Label     string       `json:"label"`
	Position  positionView `json:"position"`
	Deletable bool         `json:"deletable"`
}

type edgeView struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Label    string `json:"label,omitempty"`
	LinkInfo string `json:"link_info,omitempty"`
}

type draftView struct {
	Target   string `json:"target"`
	ID       string `json:"id"`
	Label    string `json:"label"`
	LinkInfo string `json:"link_info,omitempty"`
}

type flowView struct {
	ID       string     `json:"id"`
	Nodes    []nodeView `json:"nodes"`
	Edges    []edgeView `json:"edges"`
	Selected []string   `json:"selected"`
	Editing  *draftView `json:"editing,omitempty"`
}

func newNodeView(n flow.Node) nodeView {
	return nodeView{
		ID:        n.ID,
		Kind:      n.Kind.String(),
		Label:     n.Label,
		Position:  positionView{X: n.Position.X, Y: n.Position.Y},
		Deletable: n.Deletable,
	}
}

func newEdgeView(e flow.Edge) edgeView {
	return edgeView{ID: e.ID, Source: e.Source, Target: e.Target, Label: e.Label, LinkInfo: e.LinkInfo}
}

func newDraftView(d edit.Draft) draftView {
	return draftView{Target: d.Target.String(), ID: d.ID, Label: d.Label, LinkInfo: d.LinkInfo}
}

func newFlowView(id string, ws *workspace) flowView {
	nodes := ws.graph.Nodes()
	edges := ws.graph.Edges()
	v := flowView{
		ID:       id,
		Nodes:    make([]nodeView, len(nodes)),
		Edges:    make([]edgeView, len(edges)),
		Selected: ws.graph.Selected(),
	}
	if v.Selected == nil {
		v.Selected = []string{}
	}
	for i, n := range nodes {
		v.Nodes[i] = newNodeView(n)
	}
	for i, e := range edges {
		v.Edges[i] = newEdgeView(e)
	}
	if d, ok := ws.session.Draft(); ok {
		dv := newDraftView(d)
		v.Editing = &dv
	}
	return v
}
