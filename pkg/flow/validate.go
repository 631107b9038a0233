package flow

import "fmt"

// Validate checks every structural invariant of the flow and returns the
// first violation found:
//
//   - exactly one Start node, and it is not deletable
//   - every edge has distinct, existing endpoints
//   - no edge leaves an End node or enters the Start node
//   - edge IDs are unique
//   - the edge set is acyclic
//
// Node ID uniqueness is guaranteed by construction. Graphs built only through
// the exported mutations always validate; Validate exists for imports and
// tests.
func (g *Graph) Validate() error {
	starts := 0
	for _, id := range g.order {
		n := g.nodes[id]
		if n.Kind != KindStart {
			continue
		}
		starts++
		if n.Deletable {
			return fmt.Errorf("node %s: start node must not be deletable", id)
		}
	}
	switch {
	case starts == 0:
		return ErrNoStart
	case starts > 1:
		return ErrDuplicateStart
	}

	seen := make(map[string]bool, len(g.edges))
	for _, e := range g.edges {
		if seen[e.ID] {
			return fmt.Errorf("edge %s: %w", e.ID, ErrDuplicateEdgeID)
		}
		seen[e.ID] = true

		src, okS := g.nodes[e.Source]
		dst, okT := g.nodes[e.Target]
		switch {
		case !okS || !okT:
			return fmt.Errorf("edge %s: %w", e.ID, ErrDanglingEdge)
		case e.Source == e.Target:
			return fmt.Errorf("edge %s: %w", e.ID, ErrSelfLoop)
		case src.Kind == KindEnd:
			return fmt.Errorf("edge %s: %w", e.ID, ErrEndHasNoOutgoing)
		case dst.Kind == KindStart:
			return fmt.Errorf("edge %s: %w", e.ID, ErrStartHasNoIncoming)
		}
	}
	return g.detectCycles()
}

func (g *Graph) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range g.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[id] = black
	}

	for _, id := range g.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
