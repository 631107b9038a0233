package flow

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConnection is wrapped by every connection rejection. Use
	// errors.Is to test for any rejection, or the specific sentinels below
	// to learn which rule matched.
	ErrInvalidConnection = errors.New("invalid connection")

	// ErrSelfLoop is returned when source and target are the same node.
	ErrSelfLoop = fmt.Errorf("%w: self-loop", ErrInvalidConnection)

	// ErrUnknownNode is returned when source or target does not exist.
	ErrUnknownNode = fmt.Errorf("%w: unknown node", ErrInvalidConnection)

	// ErrEndHasNoOutgoing is returned when the source is an End node.
	ErrEndHasNoOutgoing = fmt.Errorf("%w: end nodes have no outgoing edges", ErrInvalidConnection)

	// ErrStartHasNoIncoming is returned when the target is the Start node.
	ErrStartHasNoIncoming = fmt.Errorf("%w: start node has no incoming edges", ErrInvalidConnection)

	// ErrWouldCycle is returned when the target already reaches the source.
	ErrWouldCycle = fmt.Errorf("%w: would create a cycle", ErrInvalidConnection)
)

var (
	// ErrNodeNotFound is returned by operations addressing a missing node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound is returned by operations addressing a missing edge.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrDuplicateStart is returned by [Graph.AddNode] for KindStart, and by
	// [Graph.Validate] when more than one Start node exists.
	ErrDuplicateStart = errors.New("flow already has a start node")

	// ErrNoStart is returned by [Graph.Validate] when no Start node exists.
	ErrNoStart = errors.New("flow has no start node")

	// ErrInvalidNodeID is returned when a node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrInvalidEdgeID is returned when an edge ID is empty.
	ErrInvalidEdgeID = errors.New("edge ID must not be empty")

	// ErrDuplicateNodeID is returned when two nodes share an ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdgeID is returned when two edges share an ID.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrDanglingEdge is returned when an edge endpoint is not a node of the graph.
	ErrDanglingEdge = errors.New("edge references a missing node")

	// ErrGraphHasCycle is returned by [Graph.Validate] when the edge set
	// contains a directed cycle.
	ErrGraphHasCycle = errors.New("flow contains a cycle")

	// ErrUnknownKind is returned by [ParseKind] for unrecognized kind names.
	ErrUnknownKind = errors.New("unknown node kind")
)

// Kind is the closed set of node variants. Renderers look up their
// presentation by Kind; the core only cares about the tag.
type Kind int

const (
	// KindDefault is an intermediate step with incoming and outgoing edges.
	KindDefault Kind = iota
	// KindStart is the single, non-deletable entry point. Outgoing edges only.
	KindStart
	// KindEnd is a terminal point. Incoming edges only.
	KindEnd
)

var kindNames = map[Kind]string{
	KindDefault: "default",
	KindStart:   "start",
	KindEnd:     "end",
}

var kindLabels = map[Kind]string{
	KindDefault: "New Step",
	KindStart:   "Start",
	KindEnd:     "End",
}

// String returns the wire name of the kind ("start", "end" or "default").
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// DefaultLabel is the label given to new nodes of this kind when the caller
// supplies none.
func (k Kind) DefaultLabel() string { return kindLabels[k] }

// ParseKind maps a wire name back to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Position is an opaque 2-D canvas coordinate. The rendering surface owns it;
// the store only keeps it for round-tripping.
type Position struct {
	X float64
	Y float64
}

// Node is a step of a call flow.
type Node struct {
	ID        string
	Kind      Kind
	Label     string
	Position  Position
	Deletable bool
}

// Edge is a directed connection between two nodes. Parallel edges between
// the same pair are allowed and are told apart by ID.
type Edge struct {
	ID       string
	Source   string
	Target   string
	Label    string
	LinkInfo string
}

// Connection is a proposed edge, as reported by a connect gesture.
type Connection struct {
	Source string
	Target string
}

// Snapshot is a detached copy of the graph contents, used for export and
// for atomic replacement on import.
type Snapshot struct {
	Nodes []Node
	Edges []Edge
}
