package flow

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultNodePrefix prefixes generated node IDs ("node_1", "node_2", ...).
	DefaultNodePrefix = "node_"
	// DefaultEdgePrefix prefixes generated edge IDs ("e" + source-target-seq).
	DefaultEdgePrefix = "e"
)

// Allocator hands out node and edge identifiers.
//
// Node IDs are the node prefix followed by a monotonically increasing
// integer. Edge IDs combine source, target and a creation-order sequence so
// that parallel edges between the same pair stay addressable.
//
// After a bulk replacement of the node set, [Allocator.Resynchronize] must
// run so that later IDs cannot collide with imported ones. [Graph.Replace]
// does this itself.
type Allocator struct {
	nodePrefix string
	edgePrefix string
	nextNode   int
	nextEdge   int
}

// NewAllocator returns an allocator whose first node ID ends in 1.
// Empty prefixes fall back to the defaults.
func NewAllocator(nodePrefix, edgePrefix string) *Allocator {
	if nodePrefix == "" {
		nodePrefix = DefaultNodePrefix
	}
	if edgePrefix == "" {
		edgePrefix = DefaultEdgePrefix
	}
	return &Allocator{nodePrefix: nodePrefix, edgePrefix: edgePrefix, nextNode: 1, nextEdge: 1}
}

// NextNodeID returns a fresh node ID and advances the counter.
func (a *Allocator) NextNodeID() string {
	id := a.nodePrefix + strconv.Itoa(a.nextNode)
	a.nextNode++
	return id
}

// NextEdgeID returns a fresh edge ID for source→target.
func (a *Allocator) NextEdgeID(source, target string) string {
	id := fmt.Sprintf("%s%s-%s-%d", a.edgePrefix, source, target, a.nextEdge)
	a.nextEdge++
	return id
}

// PeekNode reports the suffix the next node ID will carry.
func (a *Allocator) PeekNode() int { return a.nextNode }

// Resynchronize sets the node counter to one past the largest numeric suffix
// found among nodeIDs carrying the node prefix, and the edge counter to one
// past the largest trailing sequence among edgeIDs carrying the edge prefix.
// A counter is left alone when no ID matches its pattern. Suffixes that
// would overflow the counter are ignored.
func (a *Allocator) Resynchronize(nodeIDs, edgeIDs []string) {
	maxNode, maxEdge := -1, -1
	for _, id := range nodeIDs {
		rest, ok := strings.CutPrefix(id, a.nodePrefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > maxNode && n < math.MaxInt {
			maxNode = n
		}
	}
	for _, id := range edgeIDs {
		if !strings.HasPrefix(id, a.edgePrefix) {
			continue
		}
		i := strings.LastIndexByte(id, '-')
		if i < 0 {
			continue
		}
		if n, err := strconv.Atoi(id[i+1:]); err == nil && n > maxEdge && n < math.MaxInt {
			maxEdge = n
		}
	}
	if maxNode >= 0 {
		a.nextNode = maxNode + 1
	}
	if maxEdge >= 0 {
		a.nextEdge = maxEdge + 1
	}
}
