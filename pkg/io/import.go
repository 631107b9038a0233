package io

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/observability"
)

var validate = validator.New()

var errTrailingData = stderrors.New("unexpected data after the flow document")

// ReadJSON decodes and checks a flow document without touching any graph.
//
// The returned error carries one of the import codes from pkg/errors:
//   - IMPORT_MALFORMED: the input is not a single JSON document, or lacks the
//     nodes/edges arrays
//   - IMPORT_INVALID_NODE: a node misses id, type, data.label or position,
//     names an unknown type, or carries a label [errors.ValidateLabel] rejects
//   - IMPORT_INVALID_EDGE: an edge misses id, source or target, or carries a
//     label or link info [errors.ValidateLabel] rejects
//
// Structural checks that need the whole node set (dangling edges, the
// Start/End rules, cycles) happen in [Import].
func ReadJSON(r io.Reader) (flow.Snapshot, error) {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return flow.Snapshot{}, errors.Wrap(errors.ErrCodeImportMalformed, err, "decode flow document")
	}
	if err := dec.Decode(&struct{}{}); !stderrors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingData
		}
		return flow.Snapshot{}, errors.Wrap(errors.ErrCodeImportMalformed, err, "decode flow document")
	}
	if err := validate.Struct(&doc); err != nil {
		return flow.Snapshot{}, errors.Wrap(errors.ErrCodeImportMalformed, err, "flow document needs nodes and edges arrays")
	}
	return decode(doc)
}

func decode(doc document) (flow.Snapshot, error) {
	s := flow.Snapshot{
		Nodes: make([]flow.Node, len(doc.Nodes)),
		Edges: make([]flow.Edge, len(doc.Edges)),
	}
	for i, n := range doc.Nodes {
		if err := validate.Struct(&n); err != nil {
			return flow.Snapshot{}, errors.Wrap(errors.ErrCodeImportInvalidNode, err, "node %d (%q)", i, n.ID)
		}
		kind, err := flow.ParseKind(n.Type)
		if err != nil {
			return flow.Snapshot{}, errors.Wrap(errors.ErrCodeImportInvalidNode, err, "node %d (%q)", i, n.ID)
		}
		if err := errors.ValidateLabel(*n.Data.Label); err != nil {
			return flow.Snapshot{}, errors.Wrap(errors.ErrCodeImportInvalidNode, err, "node %d (%q)", i, n.ID)
		}
		deletable := kind != flow.KindStart
		if n.Deletable != nil && kind != flow.KindStart {
			deletable = *n.Deletable
		}
		s.Nodes[i] = flow.Node{
			ID:        n.ID,
			Kind:      kind,
			Label:     *n.Data.Label,
			Position:  flow.Position{X: *n.Position.X, Y: *n.Position.Y},
			Deletable: deletable,
		}
	}
	for i, e := range doc.Edges {
		if err := validate.Struct(&e); err != nil {
			return flow.Snapshot{}, errors.Wrap(errors.ErrCodeImportInvalidEdge, err, "edge %d (%q)", i, e.ID)
		}
		fe := flow.Edge{ID: e.ID, Source: e.Source, Target: e.Target, Label: e.Label}
		if e.Data != nil {
			fe.LinkInfo = e.Data.LinkInfo
		}
		for _, text := range []string{fe.Label, fe.LinkInfo} {
			if err := errors.ValidateLabel(text); err != nil {
				return flow.Snapshot{}, errors.Wrap(errors.ErrCodeImportInvalidEdge, err, "edge %d (%q)", i, e.ID)
			}
		}
		s.Edges[i] = fe
	}
	return s, nil
}

// Import reads a flow document from r and replaces the contents of g with
// it. Either the whole document is accepted, or g is left untouched.
//
// In addition to the [ReadJSON] codes, Import reports
// IMPORT_DANGLING_EDGE when an edge references a node id absent from the
// document, and IMPORT_INVALID_GRAPH for any other invariant violation
// (duplicate ids, no Start or more than one, edges into Start or out of End,
// self-loops, cycles).
func Import(g *flow.Graph, r io.Reader) error {
	s, err := ReadJSON(r)
	if err == nil {
		err = replace(g, s)
	}
	observability.Editor().OnImport(len(s.Nodes), len(s.Edges), err)
	return err
}

func replace(g *flow.Graph, s flow.Snapshot) error {
	err := g.Replace(s)
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, flow.ErrDanglingEdge):
		return errors.Wrap(errors.ErrCodeImportDanglingEdge, err, "edge references a node missing from the document")
	default:
		return errors.Wrap(errors.ErrCodeImportInvalidGraph, err, "flow document violates graph invariants")
	}
}

// ImportJSON opens the file at path and imports it into g with [Import].
func ImportJSON(g *flow.Graph, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Import(g, f)
}
