// Package network holds undirected graphs read from edge lists.
package network

import (
	"fmt"
	"sort"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
)

// Edge is an undirected edge between two nodes.
type Edge struct {
	From membership.NodeID `json:"from"`
	To   membership.NodeID `json:"to"`
}

// Graph is an undirected simple graph over arbitrary non-negative node ids.
// Repeated edges collapse into one; a self-loop adds 2 to its node's degree.
type Graph struct {
	ids       []membership.NodeID       // index -> node id, in insertion order
	index     map[membership.NodeID]int // node id -> index
	Adjacency [][]int                   // Adjacency[i] = neighbor indices of node i
	degrees   []int                     // degrees[i] = degree of node i
	edges     []Edge                    // unique edges in insertion order
	edgeSet   map[[2]int]struct{}
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index:   make(map[membership.NodeID]int),
		edgeSet: make(map[[2]int]struct{}),
	}
}

// AddNode adds a node if it is not already present and returns its index.
func (g *Graph) AddNode(id membership.NodeID) (int, error) {
	if id < 0 {
		return 0, fmt.Errorf("invalid node id %d: must be non-negative", id)
	}
	if i, ok := g.index[id]; ok {
		return i, nil
	}
	i := len(g.ids)
	g.ids = append(g.ids, id)
	g.index[id] = i
	g.Adjacency = append(g.Adjacency, nil)
	g.degrees = append(g.degrees, 0)
	return i, nil
}

// AddEdge adds an undirected edge. It reports whether the edge was new.
func (g *Graph) AddEdge(u, v membership.NodeID) (bool, error) {
	ui, err := g.AddNode(u)
	if err != nil {
		return false, err
	}
	vi, err := g.AddNode(v)
	if err != nil {
		return false, err
	}

	key := [2]int{ui, vi}
	if vi < ui {
		key = [2]int{vi, ui}
	}
	if _, exists := g.edgeSet[key]; exists {
		return false, nil
	}
	g.edgeSet[key] = struct{}{}
	g.edges = append(g.edges, Edge{From: u, To: v})

	g.Adjacency[ui] = append(g.Adjacency[ui], vi)
	g.degrees[ui]++
	if ui != vi {
		g.Adjacency[vi] = append(g.Adjacency[vi], ui)
		g.degrees[vi]++
	} else {
		// Self-loop: count twice for degree
		g.degrees[ui]++
	}
	return true, nil
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int {
	return len(g.ids)
}

// NumEdges returns the number of distinct edges.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// Has reports whether the node is in the graph.
func (g *Graph) Has(id membership.NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// Nodes returns the node ids in ascending order.
func (g *Graph) Nodes() []membership.NodeID {
	nodes := make([]membership.NodeID, len(g.ids))
	copy(nodes, g.ids)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// Edges returns a copy of the distinct edges in the order they were first added.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// Degree returns the degree of a node, or -1 when the node is absent.
func (g *Graph) Degree(id membership.NodeID) int {
	i, ok := g.index[id]
	if !ok {
		return -1
	}
	return g.degrees[i]
}

// Degrees returns node degrees ordered by ascending node id.
func (g *Graph) Degrees() []int {
	nodes := g.Nodes()
	out := make([]int, len(nodes))
	for i, id := range nodes {
		out[i] = g.degrees[g.index[id]]
	}
	return out
}

// SelfLoops returns the number of self-loop edges.
func (g *Graph) SelfLoops() int {
	count := 0
	for key := range g.edgeSet {
		if key[0] == key[1] {
			count++
		}
	}
	return count
}

// Isolates returns the number of nodes with degree zero.
func (g *Graph) Isolates() int {
	count := 0
	for _, d := range g.degrees {
		if d == 0 {
			count++
		}
	}
	return count
}

// Validate checks adjacency consistency.
func (g *Graph) Validate() error {
	if len(g.ids) == 0 {
		return fmt.Errorf("graph has no nodes")
	}
	for i, neighbors := range g.Adjacency {
		for _, j := range neighbors {
			if j < 0 || j >= len(g.ids) {
				return fmt.Errorf("invalid neighbor %d for node %d", j, g.ids[i])
			}
		}
	}
	return nil
}
