package flow

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// applyScript drives g with a pseudo-random gesture script. Each value picks
// an operation and its operands from the current node and edge lists.
func applyScript(g *Graph, script []int, check func() bool) bool {
	for i, v := range script {
		nodes := g.Nodes()
		pick := func(k int) string { return nodes[(v/7+k*31+i)%len(nodes)].ID }
		switch v % 6 {
		case 0:
			_, _ = g.AddNode(KindDefault, "", Position{X: float64(v)})
		case 1:
			_, _ = g.AddNode(KindEnd, "", Position{Y: float64(v)})
		case 2, 3:
			_, _ = g.Connect(pick(0), pick(1))
		case 4:
			g.RemoveNodes([]string{pick(0), pick(2)})
		case 5:
			if edges := g.Edges(); len(edges) > 0 {
				g.RemoveEdges([]string{edges[v%len(edges)].ID})
			}
		}
		if !check() {
			return false
		}
	}
	return true
}

func newProperties(t *testing.T) *gopter.Properties {
	t.Helper()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return gopter.NewProperties(parameters)
}

var scriptGen = gen.SliceOf(gen.IntRange(0, 10_000))

func TestFlowInvariants(t *testing.T) {
	properties := newProperties(t)

	// Every accepted connect sequence leaves the edge set acyclic, and every
	// other invariant holds after every mutation.
	properties.Property("invariants hold after every gesture", prop.ForAll(
		func(script []int) bool {
			g := New()
			return applyScript(g, script, func() bool { return g.Validate() == nil })
		},
		scriptGen,
	))

	properties.Property("no edge enters start or leaves an end node", prop.ForAll(
		func(script []int) bool {
			g := New()
			return applyScript(g, script, func() bool {
				for _, e := range g.Edges() {
					src, _ := g.Node(e.Source)
					dst, _ := g.Node(e.Target)
					if dst.Kind == KindStart || src.Kind == KindEnd {
						return false
					}
				}
				return true
			})
		},
		scriptGen,
	))

	properties.Property("start survives bulk delete", prop.ForAll(
		func(script []int) bool {
			g := New()
			if !applyScript(g, script, func() bool { return true }) {
				return false
			}
			all := make([]string, 0, g.NodeCount())
			for _, n := range g.Nodes() {
				all = append(all, n.ID)
			}
			g.RemoveNodes(all)
			start, ok := g.Node("node_1")
			return ok && start.Kind == KindStart && g.NodeCount() == 1 && g.EdgeCount() == 0
		},
		scriptGen,
	))

	properties.Property("cascade removes exactly the incident edges", prop.ForAll(
		func(script []int, victim int) bool {
			g := New()
			applyScript(g, script, func() bool { return true })

			nodes := g.Nodes()
			target := nodes[victim%len(nodes)]
			if !target.Deletable {
				return true
			}
			var incident, other []string
			for _, e := range g.Edges() {
				if e.Source == target.ID || e.Target == target.ID {
					incident = append(incident, e.ID)
				} else {
					other = append(other, e.ID)
				}
			}

			rm := g.RemoveNodes([]string{target.ID})
			if len(rm.EdgeIDs) != len(incident) || g.EdgeCount() != len(other) {
				return false
			}
			for _, id := range other {
				if _, ok := g.Edge(id); !ok {
					return false
				}
			}
			return g.Validate() == nil
		},
		scriptGen,
		gen.IntRange(0, 1000),
	))

	properties.Property("rejected connections do not mutate", prop.ForAll(
		func(script []int, a, b int) bool {
			g := New()
			applyScript(g, script, func() bool { return true })
			nodes := g.Nodes()
			src, dst := nodes[a%len(nodes)].ID, nodes[b%len(nodes)].ID
			before := g.EdgeCount()
			_, err := g.Connect(src, dst)
			if err != nil {
				return g.EdgeCount() == before
			}
			return g.EdgeCount() == before+1
		},
		scriptGen,
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
	))

	properties.Property("ids stay unique after replace", prop.ForAll(
		func(script []int, extra int) bool {
			src := New()
			applyScript(src, script, func() bool { return true })
			snap := src.Snapshot()

			g := New()
			if err := g.Replace(snap); err != nil {
				return false
			}
			taken := make(map[string]bool)
			for _, n := range snap.Nodes {
				taken[n.ID] = true
			}
			for range extra % 20 {
				n, err := g.AddNode(KindDefault, "", Position{})
				if err != nil || taken[n.ID] {
					return false
				}
				taken[n.ID] = true
			}
			return true
		},
		scriptGen,
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
