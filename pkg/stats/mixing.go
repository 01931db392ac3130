package stats

import (
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/accuracy"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/network"
)

// NodeMixing counts the edge endpoints of one node inside and outside its cluster.
type NodeMixing struct {
	Node membership.NodeID `json:"node"`
	In   int               `json:"in"`
	Out  int               `json:"out"`
}

// Mu returns out/(in+out). It is undefined for a node without edges.
func (n NodeMixing) Mu() (float64, error) {
	if n.In+n.Out == 0 {
		return 0, &accuracy.UndefinedMetricError{Metric: "node mixing parameter", Denominator: "in+out"}
	}
	return float64(n.Out) / float64(n.In+n.Out), nil
}

// MixingResult holds per-node mixing counts of a clustered network.
type MixingResult struct {
	Nodes          []NodeMixing        // ordered by ascending node id
	UndefinedNodes []membership.NodeID // nodes with no edges
	TotalIn        int
	TotalOut       int
}

// Mixing counts, for every node, the edges that stay in its cluster and those that leave it.
// An edge inside a cluster adds one to In at both endpoints, a self-loop adds two; a crossing
// edge adds one to Out at both endpoints. Every edge endpoint must have an assignment.
func Mixing(g *network.Graph, m *membership.Membership) (*MixingResult, error) {
	in := make(map[membership.NodeID]int)
	out := make(map[membership.NodeID]int)

	for _, e := range g.Edges() {
		lu, err := m.Lookup(e.From)
		if err != nil {
			return nil, err
		}
		lv, err := m.Lookup(e.To)
		if err != nil {
			return nil, err
		}
		if lu == lv {
			in[e.From]++
			in[e.To]++
		} else {
			out[e.From]++
			out[e.To]++
		}
	}

	r := &MixingResult{}
	for _, id := range g.Nodes() {
		nm := NodeMixing{Node: id, In: in[id], Out: out[id]}
		r.Nodes = append(r.Nodes, nm)
		r.TotalIn += nm.In
		r.TotalOut += nm.Out
		if nm.In+nm.Out == 0 {
			r.UndefinedNodes = append(r.UndefinedNodes, id)
		}
	}
	return r, nil
}

// Micro is the mean of the per-node mixing parameters over nodes with at least one edge.
func (r *MixingResult) Micro() (float64, error) {
	sum := 0.0
	count := 0
	for _, nm := range r.Nodes {
		mu, err := nm.Mu()
		if err != nil {
			continue
		}
		sum += mu
		count++
	}
	if count == 0 {
		return 0, &accuracy.UndefinedMetricError{Metric: "micro mixing parameter", Denominator: "nodes with edges"}
	}
	return sum / float64(count), nil
}

// Macro is the fraction of edge endpoints that leave their cluster, which equals the fraction
// of edges crossing clusters.
func (r *MixingResult) Macro() (float64, error) {
	total := r.TotalIn + r.TotalOut
	if total == 0 {
		return 0, &accuracy.UndefinedMetricError{Metric: "macro mixing parameter", Denominator: "in+out"}
	}
	return float64(r.TotalOut) / float64(total), nil
}
