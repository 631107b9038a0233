// Package flow models voice-call conversation flows as directed acyclic
// graphs with a single entry point and one or more exit points.
//
// # Overview
//
// A flow is a set of [Node] values of three kinds ([KindStart], [KindEnd],
// [KindDefault]) joined by directed [Edge] values. The [Graph] type is the
// authoritative in-memory store; the rendering surface reports gestures to
// it and draws whatever it currently holds.
//
// # Basic Usage
//
//	g := flow.New()                       // node_1 (Start), node_2 (End)
//	step, _ := g.AddNode(flow.KindDefault, "Greeting", flow.Position{X: 250, Y: 200})
//	g.Connect("node_1", step.ID)
//	g.Connect(step.ID, "node_2")
//	g.RemoveNodes([]string{step.ID})      // also removes both edges
//
// # Invariants
//
// After every mutation:
//
//   - exactly one Start node exists and it cannot be deleted
//   - no edge enters the Start node and no edge leaves an End node
//   - no self-loops, and the edge set is acyclic
//   - every edge references existing nodes; deleting a node deletes its edges
//   - node IDs and edge IDs are unique within their namespace
//
// [Graph.Connect] enforces the edge rules through [Graph.ValidateConnection].
// Rejections are not fatal: the graph is unchanged and the returned error
// wraps [ErrInvalidConnection].
//
// # Identifiers
//
// [Allocator] generates node IDs from a prefix and a counter, and edge IDs
// from source, target and a creation sequence. [Graph.Replace], used by
// import, resynchronizes the allocator so later IDs never collide with
// imported ones.
//
// # Observers
//
// [Graph.Observe] registers callbacks that run after each committed change.
// The edit subpackage uses this to close an edit whose element disappears.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Every operation completes
// synchronously; adapters that receive gestures concurrently must serialize
// them.
package flow
