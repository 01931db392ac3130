package network

import (
	"bufio"
	"fmt"
	"os"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
)

// ReadEdgeList reads a whitespace separated "<u> <v>" edge list.
func ReadEdgeList(path string) (*Graph, error) {
	g := NewGraph()
	err := membership.ScanPairs(path, func(line int, a, b string) error {
		u, err := membership.ParseNodeID(a)
		if err != nil {
			return &membership.MalformedRowError{Path: path, Line: line, Text: a + " " + b, Reason: err.Error()}
		}
		v, err := membership.ParseNodeID(b)
		if err != nil {
			return &membership.MalformedRowError{Path: path, Line: line, Text: a + " " + b, Reason: err.Error()}
		}
		_, err = g.AddEdge(u, v)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read edge list %s: %w", path, err)
	}
	return g, nil
}

// FromEdges builds a graph from an edge slice.
func FromEdges(edges []Edge) (*Graph, error) {
	g := NewGraph()
	for _, e := range edges {
		if _, err := g.AddEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// WriteEdgeList writes the graph's edges as "<u> <v>" lines.
func WriteEdgeList(path string, g *Graph) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, e := range g.edges {
		if _, err := fmt.Fprintf(w, "%d %d\n", e.From, e.To); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return file.Close()
}
