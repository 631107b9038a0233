// Package pkg provides the core libraries for flowgraph call-flow editing.
//
// # Overview
//
// A flow is a directed acyclic graph with exactly one Start node, any number
// of End nodes and ordinary steps in between. Edges carry an optional label
// and free-text link info. The pkg directory is organized into these areas:
//
//  1. [flow] - Graph model, connection rules, identifier allocation
//  2. [flow/edit] - Single-slot label editing session
//  3. [io] - JSON document export and import
//  4. [render] - Graphviz node-link diagrams
//  5. [cache], [config], [errors], [observability], [buildinfo] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	rendering surface (TUI, HTTP client)
//	         ↓ gestures
//	    [flow] package (validate + mutate)
//	         ↓ change events
//	    [flow/edit] session, observability hooks
//	         ↓ on demand
//	    [io] JSON document / [render] SVG, PNG, DOT
//
// # Quick Start
//
//	import (
//	    "os"
//	    "github.com/matzehuels/flowgraph/pkg/flow"
//	    flowio "github.com/matzehuels/flowgraph/pkg/io"
//	)
//
//	g := flow.New()                                   // node_1 Start, node_2 End
//	step, _ := g.AddNode(flow.KindDefault, "Ask for account", flow.Position{X: 250, Y: 200})
//	g.Connect("node_1", step.ID)
//	g.Connect(step.ID, "node_2")
//	flowio.WriteJSON(g, os.Stdout)
//
// Every rejected connection returns an error wrapping
// [flow.ErrInvalidConnection] and leaves the graph unchanged.
package pkg
