package membership

import (
	"fmt"
	"strconv"
	"strings"
)

// Policy selects how assignments over different node sets are brought onto one node set.
type Policy string

const (
	// PolicyIntersection compares only nodes present in every assignment.
	PolicyIntersection Policy = "intersection"
	// PolicySingletons keeps every ground-truth node and gives nodes missing from an
	// estimate their own cluster.
	PolicySingletons Policy = "singletons"
)

// ParsePolicy accepts "intersection" or "singletons".
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyIntersection:
		return PolicyIntersection, nil
	case PolicySingletons:
		return PolicySingletons, nil
	default:
		return "", fmt.Errorf("unknown reconciliation policy %q (want %q or %q)", s, PolicyIntersection, PolicySingletons)
	}
}

// Aligned holds label sequences that share one sorted node ordering.
// Sequences[0] belongs to the first assignment passed in, and so on.
type Aligned struct {
	Nodes     []NodeID
	Sequences [][]Label
}

// FillReport describes what singleton filling did to one estimate.
type FillReport struct {
	Filled           int `json:"filled"`            // ground-truth nodes missing from the estimate
	Dropped          int `json:"dropped"`           // estimate nodes absent from the ground truth
	OriginalClusters int `json:"original_clusters"` // distinct labels before filling
	FinalClusters    int `json:"final_clusters"`    // distinct labels over the aligned nodes
}

// SingletonsAdded is the number of fresh singleton clusters created.
func (r FillReport) SingletonsAdded() int {
	return r.Filled
}

// Reconcile dispatches to Intersect or FillSingletons. assignments[0] is the ground truth.
func Reconcile(policy Policy, assignments ...*Membership) (*Aligned, []FillReport, error) {
	switch policy {
	case PolicyIntersection:
		aligned, err := Intersect(assignments...)
		return aligned, nil, err
	case PolicySingletons:
		if len(assignments) == 0 {
			return nil, nil, fmt.Errorf("no assignments to reconcile")
		}
		return FillSingletons(assignments[0], assignments[1:]...)
	default:
		return nil, nil, fmt.Errorf("unknown reconciliation policy %q", policy)
	}
}

// Intersect restricts every assignment to the nodes present in all of them.
func Intersect(assignments ...*Membership) (*Aligned, error) {
	if len(assignments) == 0 {
		return nil, fmt.Errorf("no assignments to reconcile")
	}

	common := make([]NodeID, 0, assignments[0].Len())
	for _, node := range assignments[0].Nodes() {
		shared := true
		for _, other := range assignments[1:] {
			if !other.Has(node) {
				shared = false
				break
			}
		}
		if shared {
			common = append(common, node)
		}
	}

	aligned := &Aligned{Nodes: common, Sequences: make([][]Label, len(assignments))}
	for i, m := range assignments {
		seq, err := m.Sequence(common)
		if err != nil {
			return nil, err
		}
		aligned.Sequences[i] = seq
	}
	return aligned, nil
}

// FillSingletons aligns estimates onto every node of truth. A node an estimate does not cover
// gets a fresh label that collides neither with the estimate's own labels nor with other
// fresh labels. Estimate nodes outside truth are dropped.
func FillSingletons(truth *Membership, estimates ...*Membership) (*Aligned, []FillReport, error) {
	if truth == nil {
		return nil, nil, fmt.Errorf("ground truth membership is nil")
	}

	nodes := truth.Nodes()
	aligned := &Aligned{Nodes: nodes, Sequences: make([][]Label, 0, len(estimates)+1)}

	truthSeq, err := truth.Sequence(nodes)
	if err != nil {
		return nil, nil, err
	}
	aligned.Sequences = append(aligned.Sequences, truthSeq)

	reports := make([]FillReport, len(estimates))
	for i, est := range estimates {
		used := est.Labels()
		report := FillReport{OriginalClusters: len(used)}

		seq := make([]Label, len(nodes))
		final := make(map[Label]struct{})
		for j, node := range nodes {
			label, ok := est.labels[node]
			if !ok {
				label = freshLabel(node, used)
				report.Filled++
			}
			seq[j] = label
			final[label] = struct{}{}
		}
		for node := range est.labels {
			if !truth.Has(node) {
				report.Dropped++
			}
		}
		report.FinalClusters = len(final)

		aligned.Sequences = append(aligned.Sequences, seq)
		reports[i] = report
	}

	return aligned, reports, nil
}

// freshLabel derives a label from the node id, prefixing '~' until it is unused.
// Fresh labels of distinct nodes differ in their digits, so they never collide with each other.
func freshLabel(node NodeID, used map[Label]struct{}) Label {
	label := Label("~" + strconv.FormatInt(int64(node), 10))
	for {
		if _, taken := used[label]; !taken {
			return label
		}
		label = "~" + label
	}
}
