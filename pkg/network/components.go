package network

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// ToGonum converts the graph to a gonum undirected graph. Gonum node ids are the original
// node ids. Self-loops are not representable in a simple graph and are left out.
func (g *Graph) ToGonum() *simple.UndirectedGraph {
	ug := simple.NewUndirectedGraph()
	for _, id := range g.ids {
		ug.AddNode(simple.Node(int64(id)))
	}
	for _, e := range g.edges {
		if e.From == e.To {
			continue
		}
		ug.SetEdge(ug.NewEdge(simple.Node(int64(e.From)), simple.Node(int64(e.To))))
	}
	return ug
}

// ComponentSizes returns connected component sizes, largest first.
func (g *Graph) ComponentSizes() []int {
	components := topo.ConnectedComponents(g.ToGonum())
	sizes := make([]int, len(components))
	for i, c := range components {
		sizes[i] = len(c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	return sizes
}

// Summary contains the structural counts of a network.
type Summary struct {
	NodeCount        int `json:"node_count"`
	EdgeCount        int `json:"edge_count"`
	IsolateCount     int `json:"isolate_count"`
	NumComponents    int `json:"num_connected_components"`
	LargestComponent int `json:"max_connected_component"`
}

// Summarize computes node, edge, isolate and connected component counts.
func (g *Graph) Summarize() Summary {
	sizes := g.ComponentSizes()
	s := Summary{
		NodeCount:     g.NumNodes(),
		EdgeCount:     g.NumEdges(),
		IsolateCount:  g.Isolates(),
		NumComponents: len(sizes),
	}
	if len(sizes) > 0 {
		s.LargestComponent = sizes[0]
	}
	return s
}
