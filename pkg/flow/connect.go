package flow

// ValidateConnection decides whether c may be admitted as a new edge.
// Rules are checked in order and the first match is returned:
//
//  1. source == target: [ErrSelfLoop]
//  2. source or target missing: [ErrUnknownNode]
//  3. source is an End node: [ErrEndHasNoOutgoing]
//  4. target is the Start node: [ErrStartHasNoIncoming]
//  5. target already reaches source: [ErrWouldCycle]
//
// Rule 5 is a breadth-first walk forward from target, O(V+E) per call.
// ValidateConnection never mutates the graph.
func (g *Graph) ValidateConnection(c Connection) error {
	if c.Source == c.Target {
		return ErrSelfLoop
	}
	src, okS := g.nodes[c.Source]
	dst, okT := g.nodes[c.Target]
	if !okS || !okT {
		return ErrUnknownNode
	}
	if src.Kind == KindEnd {
		return ErrEndHasNoOutgoing
	}
	if dst.Kind == KindStart {
		return ErrStartHasNoIncoming
	}
	if g.Reaches(c.Target, c.Source) {
		return ErrWouldCycle
	}
	return nil
}

// IsValidConnection reports whether [Graph.ValidateConnection] accepts c.
func (g *Graph) IsValidConnection(c Connection) bool {
	return g.ValidateConnection(c) == nil
}

// Reaches reports whether to is reachable from from by following edges
// forward. A node reaches itself.
func (g *Graph) Reaches(from, to string) bool {
	if from == to {
		return true
	}
	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range g.outgoing[id] {
			if child == to {
				return true
			}
			if !visited[child] {
				visited[child] = true
				queue = append(queue, child)
			}
		}
	}
	return false
}
