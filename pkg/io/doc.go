// Package io provides JSON import and export for flow graphs.
//
// # Overview
//
// A flow document is the only at-rest format of a flow. It is what the
// editor exports on demand and what it accepts back on import. Import is
// atomic: a document is either accepted whole and replaces the graph, or it
// is rejected and the graph keeps its prior contents.
//
// # JSON Format
//
// The format has two required top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": "node_1", "type": "start", "data": {"label": "Start"},
//	     "position": {"x": 250, "y": 0}, "deletable": false},
//	    {"id": "node_2", "type": "end", "data": {"label": "End"},
//	     "position": {"x": 250, "y": 400}}
//	  ],
//	  "edges": [
//	    {"id": "enode_1-node_2-1", "source": "node_1", "target": "node_2",
//	     "label": "hangup", "data": {"link_info": "caller said goodbye"}}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - id: unique string identifier
//   - type: "start", "end" or "default"
//   - data.label: display text (may be empty, must be present)
//   - position.x, position.y: canvas coordinates
//
// Optional:
//   - deletable: defaults to true; always false for the start node
//
// # Edge Fields
//
// Required: id, source, target. Optional: label, data.link_info.
//
// # Import
//
// Use [ImportJSON] to load a file into a graph, [Import] for any io.Reader,
// or [ReadJSON] to decode and check a document without applying it:
//
//	if err := io.ImportJSON(g, "flow.json"); err != nil {
//	    fmt.Println(errors.GetCode(err)) // e.g. IMPORT_DANGLING_EDGE
//	}
//
// Rejections carry a code from pkg/errors: IMPORT_MALFORMED,
// IMPORT_INVALID_NODE, IMPORT_INVALID_EDGE, IMPORT_DANGLING_EDGE or
// IMPORT_INVALID_GRAPH. An edge whose source or target is not among the
// document's nodes rejects the whole document.
//
// After a successful import the graph re-synchronizes its identifier
// allocator, so ids generated afterwards never collide with imported ones.
//
// # Export
//
// Use [ExportJSON] to write a graph to a file, or [WriteJSON] to write to
// any io.Writer. Transient state such as the current selection is not
// exported. Exporting and re-importing a graph yields the same graph.
package io
