package flow

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgraph/pkg/observability"
)

// Default canvas positions of the initial Start and End nodes.
var (
	DefaultStartPosition = Position{X: 250, Y: 0}
	DefaultEndPosition   = Position{X: 250, Y: 400}
)

// Op names the kind of mutation reported to observers.
type Op int

const (
	OpAddNode Op = iota
	OpMoveNode
	OpRelabelNode
	OpRelabelEdge
	OpConnect
	OpRemove
	OpReplace
)

// Change describes a committed mutation. NodeIDs and EdgeIDs list the
// elements the mutation touched; for OpRemove they are the removed elements,
// cascades included. OpReplace carries no IDs: everything may have changed.
type Change struct {
	Op      Op
	NodeIDs []string
	EdgeIDs []string
}

// Removal reports what a delete request actually removed.
type Removal struct {
	NodeIDs []string
	EdgeIDs []string
}

// Empty reports whether nothing was removed.
func (r Removal) Empty() bool { return len(r.NodeIDs) == 0 && len(r.EdgeIDs) == 0 }

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger used for diagnostics (rejected connections,
// replacements). The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithAllocator replaces the default identifier allocator.
func WithAllocator(a *Allocator) Option {
	return func(g *Graph) {
		if a != nil {
			g.ids = a
		}
	}
}

// WithLayout sets the positions of the initial Start and End nodes.
func WithLayout(start, end Position) Option {
	return func(g *Graph) {
		g.startPos, g.endPos = start, end
	}
}

// Graph is the authoritative in-memory store of a call flow.
//
// Every exported mutation either applies completely, cascades included, or
// leaves the graph untouched, and the invariants checked by [Graph.Validate]
// hold after each one. Graph is not safe for concurrent use; callers that
// accept gestures from several goroutines must serialize them.
type Graph struct {
	nodes    map[string]*Node
	order    []string // node IDs in insertion order
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
	selected map[string]bool

	ids       *Allocator
	observers []func(Change)
	logger    *log.Logger

	startPos, endPos Position
}

// New creates a flow holding one Start node and one End node at their
// initial positions.
func New(opts ...Option) *Graph {
	g := &Graph{
		ids:      NewAllocator("", ""),
		logger:   log.New(io.Discard),
		startPos: DefaultStartPosition,
		endPos:   DefaultEndPosition,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.reset()

	start := &Node{ID: g.ids.NextNodeID(), Kind: KindStart, Label: KindStart.DefaultLabel(), Position: g.startPos}
	end := &Node{ID: g.ids.NextNodeID(), Kind: KindEnd, Label: KindEnd.DefaultLabel(), Position: g.endPos, Deletable: true}
	g.insertNode(start)
	g.insertNode(end)
	return g
}

func (g *Graph) reset() {
	g.nodes = make(map[string]*Node)
	g.order = nil
	g.edges = nil
	g.outgoing = make(map[string][]string)
	g.incoming = make(map[string][]string)
	g.selected = make(map[string]bool)
}

func (g *Graph) insertNode(n *Node) {
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
}

func (g *Graph) insertEdge(e Edge) {
	g.edges = append(g.edges, e)
	g.outgoing[e.Source] = append(g.outgoing[e.Source], e.Target)
	g.incoming[e.Target] = append(g.incoming[e.Target], e.Source)
}

// Observe registers fn to be called after every committed mutation.
// Observers run synchronously, in registration order.
func (g *Graph) Observe(fn func(Change)) {
	g.observers = append(g.observers, fn)
}

func (g *Graph) notify(c Change) {
	for _, fn := range g.observers {
		fn(c)
	}
}

// Allocator returns the identifier allocator backing this graph.
func (g *Graph) Allocator() *Allocator { return g.ids }

// AddNode appends a node of the given kind. An empty label falls back to the
// kind's default label. Start nodes cannot be added: a flow has exactly one.
func (g *Graph) AddNode(kind Kind, label string, pos Position) (Node, error) {
	if kind == KindStart {
		return Node{}, ErrDuplicateStart
	}
	if _, ok := kindNames[kind]; !ok {
		return Node{}, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	if label == "" {
		label = kind.DefaultLabel()
	}
	n := &Node{ID: g.freshNodeID(), Kind: kind, Label: label, Position: pos, Deletable: true}
	g.insertNode(n)
	g.notify(Change{Op: OpAddNode, NodeIDs: []string{n.ID}})
	return *n, nil
}

func (g *Graph) freshNodeID() string {
	for {
		id := g.ids.NextNodeID()
		if _, taken := g.nodes[id]; !taken {
			return id
		}
	}
}

func (g *Graph) freshEdgeID(source, target string) string {
	for {
		id := g.ids.NextEdgeID(source, target)
		if g.edgeIndex(id) < 0 {
			return id
		}
	}
}

// MoveNode records a new canvas position for the node.
func (g *Graph) MoveNode(id string, pos Position) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	n.Position = pos
	g.notify(Change{Op: OpMoveNode, NodeIDs: []string{id}})
	return nil
}

// RelabelNode replaces the node's label.
func (g *Graph) RelabelNode(id, label string) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	n.Label = label
	g.notify(Change{Op: OpRelabelNode, NodeIDs: []string{id}})
	return nil
}

// RelabelEdge replaces the edge's label, and its link info when linkInfo is
// non-nil.
func (g *Graph) RelabelEdge(id, label string, linkInfo *string) error {
	i := g.edgeIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
	}
	g.edges[i].Label = label
	if linkInfo != nil {
		g.edges[i].LinkInfo = *linkInfo
	}
	g.notify(Change{Op: OpRelabelEdge, EdgeIDs: []string{id}})
	return nil
}

// Connect admits the edge source→target if [Graph.ValidateConnection]
// accepts it. On rejection the graph is unchanged and the returned error
// wraps [ErrInvalidConnection].
func (g *Graph) Connect(source, target string) (Edge, error) {
	err := g.ValidateConnection(Connection{Source: source, Target: target})
	observability.Editor().OnConnect(source, target, err)
	if err != nil {
		g.logger.Debug("connection rejected", "source", source, "target", target, "reason", err)
		return Edge{}, err
	}
	e := Edge{ID: g.freshEdgeID(source, target), Source: source, Target: target}
	g.insertEdge(e)
	g.notify(Change{Op: OpConnect, EdgeIDs: []string{e.ID}})
	return e, nil
}

// RemoveNodes deletes the requested nodes and every edge incident to them.
// Unknown IDs and non-deletable nodes (the Start node) are silently dropped
// from the request.
func (g *Graph) RemoveNodes(ids []string) Removal {
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		if n, ok := g.nodes[id]; ok && n.Deletable {
			doomed[id] = true
		}
	}
	if len(doomed) == 0 {
		return Removal{}
	}

	var rm Removal
	for _, id := range g.order {
		if doomed[id] {
			rm.NodeIDs = append(rm.NodeIDs, id)
		}
	}
	for _, e := range g.edges {
		if doomed[e.Source] || doomed[e.Target] {
			rm.EdgeIDs = append(rm.EdgeIDs, e.ID)
		}
	}

	g.dropEdges(func(e Edge) bool { return doomed[e.Source] || doomed[e.Target] })
	g.order = slices.DeleteFunc(g.order, func(id string) bool { return doomed[id] })
	for id := range doomed {
		delete(g.nodes, id)
		delete(g.outgoing, id)
		delete(g.incoming, id)
		delete(g.selected, id)
	}
	for _, id := range rm.EdgeIDs {
		delete(g.selected, id)
	}

	observability.Editor().OnRemove(len(rm.NodeIDs), len(rm.EdgeIDs))
	g.notify(Change{Op: OpRemove, NodeIDs: rm.NodeIDs, EdgeIDs: rm.EdgeIDs})
	return rm
}

// RemoveEdges deletes the requested edges and returns the IDs actually
// removed. Unknown IDs are ignored.
func (g *Graph) RemoveEdges(ids []string) []string {
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}
	var removed []string
	for _, e := range g.edges {
		if doomed[e.ID] {
			removed = append(removed, e.ID)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	g.dropEdges(func(e Edge) bool { return doomed[e.ID] })
	for _, id := range removed {
		delete(g.selected, id)
	}

	observability.Editor().OnRemove(0, len(removed))
	g.notify(Change{Op: OpRemove, EdgeIDs: removed})
	return removed
}

// Delete handles a delete request from the rendering surface: nodes first,
// cascading to their edges, then any explicitly requested edges that remain.
func (g *Graph) Delete(nodeIDs, edgeIDs []string) Removal {
	rm := g.RemoveNodes(nodeIDs)
	rm.EdgeIDs = append(rm.EdgeIDs, g.RemoveEdges(edgeIDs)...)
	return rm
}

// dropEdges removes the matching edges and rebuilds the adjacency index.
func (g *Graph) dropEdges(match func(Edge) bool) {
	g.edges = slices.DeleteFunc(g.edges, match)
	g.outgoing = make(map[string][]string, len(g.nodes))
	g.incoming = make(map[string][]string, len(g.nodes))
	for _, e := range g.edges {
		g.outgoing[e.Source] = append(g.outgoing[e.Source], e.Target)
		g.incoming[e.Target] = append(g.incoming[e.Target], e.Source)
	}
}

// Select replaces the current selection. IDs may name nodes or edges;
// unknown IDs are ignored. Selection is transient and never exported.
func (g *Graph) Select(ids []string) {
	g.selected = make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := g.nodes[id]; ok || g.edgeIndex(id) >= 0 {
			g.selected[id] = true
		}
	}
}

// Selected returns the selected node and edge IDs in graph order.
func (g *Graph) Selected() []string {
	var out []string
	for _, id := range g.order {
		if g.selected[id] {
			out = append(out, id)
		}
	}
	for _, e := range g.edges {
		if g.selected[e.ID] {
			out = append(out, e.ID)
		}
	}
	return out
}

// IsSelected reports whether the node or edge is selected.
func (g *Graph) IsSelected(id string) bool { return g.selected[id] }

// Node returns a copy of the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Edge returns a copy of the edge with the given ID.
func (g *Graph) Edge(id string) (Edge, bool) {
	i := g.edgeIndex(id)
	if i < 0 {
		return Edge{}, false
	}
	return g.edges[i], true
}

func (g *Graph) edgeIndex(id string) int {
	return slices.IndexFunc(g.edges, func(e Edge) bool { return e.ID == id })
}

// Start returns the Start node.
func (g *Graph) Start() Node {
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind == KindStart {
			return *n
		}
	}
	return Node{}
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.order))
	for i, id := range g.order {
		out[i] = *g.nodes[id]
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the targets of the node's outgoing edges, one entry per
// edge. The slice must not be modified.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the sources of the node's incoming edges, one entry per
// edge. The slice must not be modified.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// Snapshot returns a detached copy of the graph contents.
func (g *Graph) Snapshot() Snapshot {
	return Snapshot{Nodes: g.Nodes(), Edges: g.Edges()}
}

// Replace swaps in the contents of s atomically. The snapshot is checked
// against every invariant first; on error the graph is left untouched.
// On success the allocator is resynchronized against the new IDs and the
// selection is cleared. Start nodes are always stored non-deletable.
func (g *Graph) Replace(s Snapshot) error {
	next := &Graph{}
	next.reset()

	for _, n := range s.Nodes {
		if n.ID == "" {
			return ErrInvalidNodeID
		}
		if _, dup := next.nodes[n.ID]; dup {
			return fmt.Errorf("node %s: %w", n.ID, ErrDuplicateNodeID)
		}
		if _, ok := kindNames[n.Kind]; !ok {
			return fmt.Errorf("node %s: %w: %d", n.ID, ErrUnknownKind, int(n.Kind))
		}
		nd := n
		if nd.Kind == KindStart {
			nd.Deletable = false
		}
		next.insertNode(&nd)
	}
	for _, e := range s.Edges {
		if e.ID == "" {
			return ErrInvalidEdgeID
		}
		if next.edgeIndex(e.ID) >= 0 {
			return fmt.Errorf("edge %s: %w", e.ID, ErrDuplicateEdgeID)
		}
		_, okS := next.nodes[e.Source]
		_, okT := next.nodes[e.Target]
		if !okS || !okT {
			return fmt.Errorf("edge %s (%s->%s): %w", e.ID, e.Source, e.Target, ErrDanglingEdge)
		}
		next.insertEdge(e)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	g.nodes, g.order, g.edges = next.nodes, next.order, next.edges
	g.outgoing, g.incoming, g.selected = next.outgoing, next.incoming, next.selected

	nodeIDs := slices.Clone(g.order)
	edgeIDs := make([]string, len(g.edges))
	for i, e := range g.edges {
		edgeIDs[i] = e.ID
	}
	g.ids.Resynchronize(nodeIDs, edgeIDs)

	g.logger.Info("flow replaced", "nodes", len(g.nodes), "edges", len(g.edges))
	g.notify(Change{Op: OpReplace})
	return nil
}
