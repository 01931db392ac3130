// Package membership holds node -> cluster label assignments, the files they are read from,
// and the policies used to align several assignments onto a common node set.
package membership

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// NodeID identifies a node. Valid identifiers are non-negative.
type NodeID int64

// Label is a cluster label. Integer labels are kept in their decimal form.
type Label string

// ErrMissingAssignment is matched by every MissingAssignmentError.
var ErrMissingAssignment = errors.New("missing assignment")

// MissingAssignmentError reports a lookup of a node that has no cluster label.
type MissingAssignmentError struct {
	Node NodeID
}

func (e *MissingAssignmentError) Error() string {
	return fmt.Sprintf("missing assignment for node %d", e.Node)
}

func (e *MissingAssignmentError) Is(target error) bool {
	return target == ErrMissingAssignment
}

// Membership maps node identifiers to cluster labels.
type Membership struct {
	labels map[NodeID]Label
}

// New creates an empty membership.
func New() *Membership {
	return &Membership{labels: make(map[NodeID]Label)}
}

// FromMap builds a membership from a plain map, rejecting negative node identifiers.
func FromMap(assignments map[NodeID]Label) (*Membership, error) {
	m := &Membership{labels: make(map[NodeID]Label, len(assignments))}
	for node, label := range assignments {
		if err := m.Assign(node, label); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// FromInts builds a membership where node i has integer label labels[i].
func FromInts(labels []int) *Membership {
	m := &Membership{labels: make(map[NodeID]Label, len(labels))}
	for i, label := range labels {
		m.labels[NodeID(i)] = Label(strconv.Itoa(label))
	}
	return m
}

// Assign sets the label of a node. A later assignment of the same node replaces the earlier one.
func (m *Membership) Assign(node NodeID, label Label) error {
	if node < 0 {
		return fmt.Errorf("invalid node id %d: must be non-negative", node)
	}
	m.labels[node] = label
	return nil
}

// Lookup returns the label of a node or a MissingAssignmentError.
func (m *Membership) Lookup(node NodeID) (Label, error) {
	label, ok := m.labels[node]
	if !ok {
		return "", &MissingAssignmentError{Node: node}
	}
	return label, nil
}

// Has reports whether the node has a label.
func (m *Membership) Has(node NodeID) bool {
	_, ok := m.labels[node]
	return ok
}

// Len returns the number of assigned nodes.
func (m *Membership) Len() int {
	return len(m.labels)
}

// Nodes returns the assigned nodes in ascending order.
func (m *Membership) Nodes() []NodeID {
	nodes := make([]NodeID, 0, len(m.labels))
	for node := range m.labels {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// Labels returns the set of distinct labels in use.
func (m *Membership) Labels() map[Label]struct{} {
	set := make(map[Label]struct{})
	for _, label := range m.labels {
		set[label] = struct{}{}
	}
	return set
}

// NumClusters returns the number of distinct labels.
func (m *Membership) NumClusters() int {
	return len(m.Labels())
}

// Sequence returns the labels of the given nodes, in order.
func (m *Membership) Sequence(nodes []NodeID) ([]Label, error) {
	seq := make([]Label, len(nodes))
	for i, node := range nodes {
		label, err := m.Lookup(node)
		if err != nil {
			return nil, err
		}
		seq[i] = label
	}
	return seq, nil
}

// Restrict returns a copy that keeps only the nodes accepted by keep.
func (m *Membership) Restrict(keep func(NodeID) bool) *Membership {
	out := New()
	for node, label := range m.labels {
		if keep(node) {
			out.labels[node] = label
		}
	}
	return out
}

// Partition groups the nodes by label.
func (m *Membership) Partition() *Partition {
	groups := make(map[Label][]NodeID)
	for node, label := range m.labels {
		groups[label] = append(groups[label], node)
	}
	for _, nodes := range groups {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	}
	return &Partition{groups: groups}
}

// Partition is the inverse of a membership: label -> nodes sharing it.
type Partition struct {
	groups map[Label][]NodeID
}

// Len returns the number of clusters.
func (p *Partition) Len() int {
	return len(p.groups)
}

// Labels returns the cluster labels in ascending order.
func (p *Partition) Labels() []Label {
	labels := make([]Label, 0, len(p.groups))
	for label := range p.groups {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

// Members returns the sorted nodes of a cluster.
func (p *Partition) Members(label Label) []NodeID {
	return p.groups[label]
}

// Groups returns every cluster's nodes, ordered by label.
func (p *Partition) Groups() [][]NodeID {
	labels := p.Labels()
	groups := make([][]NodeID, len(labels))
	for i, label := range labels {
		groups[i] = p.groups[label]
	}
	return groups
}

// Sizes returns the cluster sizes, ordered by label.
func (p *Partition) Sizes() []int {
	labels := p.Labels()
	sizes := make([]int, len(labels))
	for i, label := range labels {
		sizes[i] = len(p.groups[label])
	}
	return sizes
}

// SizesOf counts cluster sizes of a label sequence, ordered by label.
func SizesOf(labels []Label) []int {
	counts := make(map[Label]int)
	for _, label := range labels {
		counts[label]++
	}
	keys := make([]Label, 0, len(counts))
	for label := range counts {
		keys = append(keys, label)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	sizes := make([]int, len(keys))
	for i, label := range keys {
		sizes[i] = counts[label]
	}
	return sizes
}
