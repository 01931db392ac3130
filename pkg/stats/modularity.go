package stats

import (
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/network"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"
)

// Modularity computes Newman modularity at resolution 1 of the clustering over the network.
// Self-loops count as internal edges. Every node of the graph must have an assignment.
func Modularity(g *network.Graph, m *membership.Membership) (float64, error) {
	if g.NumEdges() == 0 {
		return 0.0, nil
	}

	internal := make(map[membership.Label]float64)
	total := make(map[membership.Label]float64)

	for _, id := range g.Nodes() {
		label, err := m.Lookup(id)
		if err != nil {
			return 0, err
		}
		total[label] += float64(g.Degree(id))
	}
	for _, e := range g.Edges() {
		lu, _ := m.Lookup(e.From)
		lv, _ := m.Lookup(e.To)
		if lu == lv {
			internal[lu] += 2
		}
	}

	m2 := 2.0 * float64(g.NumEdges())
	modularity := 0.0
	for label, tot := range total {
		modularity += internal[label]/m2 - (tot/m2)*(tot/m2)
	}
	return modularity, nil
}

// ModularityGonum computes modularity with gonum's community.Q. Self-loops are dropped by the
// conversion, so it agrees with Modularity only on graphs without them.
func ModularityGonum(g *network.Graph, m *membership.Membership) (float64, error) {
	part := m.Restrict(g.Has).Partition()
	covered := 0
	communities := make([][]graph.Node, 0, part.Len())
	for _, group := range part.Groups() {
		nodes := make([]graph.Node, len(group))
		for i, id := range group {
			nodes[i] = simple.Node(int64(id))
		}
		covered += len(group)
		communities = append(communities, nodes)
	}
	if covered != g.NumNodes() {
		for _, id := range g.Nodes() {
			if !m.Has(id) {
				return 0, &membership.MissingAssignmentError{Node: id}
			}
		}
	}
	return community.Q(g.ToGonum(), communities, 1), nil
}
