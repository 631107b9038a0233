package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/observability"
)

type document struct {
	Nodes []node `json:"nodes" validate:"required"`
	Edges []edge `json:"edges" validate:"required"`
}

type node struct {
	ID        string    `json:"id" validate:"required"`
	Type      string    `json:"type" validate:"required"`
	Data      *nodeData `json:"data" validate:"required"`
	Position  *position `json:"position" validate:"required"`
	Deletable *bool     `json:"deletable,omitempty"`
}

type nodeData struct {
	Label *string `json:"label" validate:"required"`
}

type position struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

type edge struct {
	ID     string    `json:"id" validate:"required"`
	Source string    `json:"source" validate:"required"`
	Target string    `json:"target" validate:"required"`
	Label  string    `json:"label,omitempty"`
	Data   *edgeData `json:"data,omitempty"`
}

type edgeData struct {
	LinkInfo string `json:"link_info,omitempty"`
}

// encode converts a snapshot to the document layout. Deletable is written
// only when false; the selection is never part of a snapshot.
func encode(s flow.Snapshot) document {
	out := document{
		Nodes: make([]node, len(s.Nodes)),
		Edges: make([]edge, len(s.Edges)),
	}
	for i, n := range s.Nodes {
		label, x, y := n.Label, n.Position.X, n.Position.Y
		nd := node{
			ID:       n.ID,
			Type:     n.Kind.String(),
			Data:     &nodeData{Label: &label},
			Position: &position{X: &x, Y: &y},
		}
		if !n.Deletable {
			f := false
			nd.Deletable = &f
		}
		out.Nodes[i] = nd
	}
	for i, e := range s.Edges {
		out.Edges[i] = edge{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Label:  e.Label,
			Data:   &edgeData{LinkInfo: e.LinkInfo},
		}
	}
	return out
}

// WriteJSON encodes the current contents of g as a flow document and writes
// it to w. The output can be re-imported with [Import] for round-trip
// processing.
func WriteJSON(g *flow.Graph, w io.Writer) error {
	doc := encode(g.Snapshot())

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode flow document")
	}
	observability.Editor().OnExport(len(doc.Nodes), len(doc.Edges))
	return nil
}

// ExportJSON writes g to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *flow.Graph, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
