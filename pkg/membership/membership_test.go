package membership

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func mustMembership(t *testing.T, assignments map[NodeID]Label) *Membership {
	t.Helper()
	m, err := FromMap(assignments)
	if err != nil {
		t.Fatalf("FromMap failed: %v", err)
	}
	return m
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestFromMapRejectsNegativeNode(t *testing.T) {
	if _, err := FromMap(map[NodeID]Label{-1: "A"}); err == nil {
		t.Error("Expected error for negative node id")
	}
}

func TestLookupMissingAssignment(t *testing.T) {
	m := mustMembership(t, map[NodeID]Label{0: "A"})

	_, err := m.Lookup(7)
	if !errors.Is(err, ErrMissingAssignment) {
		t.Fatalf("Expected ErrMissingAssignment, got %v", err)
	}

	var missing *MissingAssignmentError
	if !errors.As(err, &missing) || missing.Node != 7 {
		t.Errorf("Expected MissingAssignmentError for node 7, got %v", err)
	}
}

func TestNodesSorted(t *testing.T) {
	m := mustMembership(t, map[NodeID]Label{5: "A", 1: "B", 3: "A"})
	want := []NodeID{1, 3, 5}
	if got := m.Nodes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}
}

func TestPartition(t *testing.T) {
	m := mustMembership(t, map[NodeID]Label{0: "b", 1: "a", 2: "b", 3: "c"})
	p := m.Partition()

	if p.Len() != 3 {
		t.Fatalf("Expected 3 clusters, got %d", p.Len())
	}
	if got := p.Sizes(); !reflect.DeepEqual(got, []int{1, 2, 1}) {
		t.Errorf("Sizes() = %v, want [1 2 1]", got)
	}
	if got := p.Members("b"); !reflect.DeepEqual(got, []NodeID{0, 2}) {
		t.Errorf("Members(b) = %v, want [0 2]", got)
	}
}

func TestIntersect(t *testing.T) {
	gt := mustMembership(t, map[NodeID]Label{0: "A", 1: "A", 2: "B", 3: "B"})
	p1 := mustMembership(t, map[NodeID]Label{3: "x", 1: "y", 2: "x"})
	p2 := mustMembership(t, map[NodeID]Label{1: "1", 2: "1", 3: "2", 9: "2"})

	aligned, err := Intersect(gt, p1, p2)
	if err != nil {
		t.Fatalf("Intersect failed: %v", err)
	}

	if want := []NodeID{1, 2, 3}; !reflect.DeepEqual(aligned.Nodes, want) {
		t.Errorf("Nodes = %v, want %v", aligned.Nodes, want)
	}
	wantSeqs := [][]Label{{"A", "B", "B"}, {"y", "x", "x"}, {"1", "1", "2"}}
	if !reflect.DeepEqual(aligned.Sequences, wantSeqs) {
		t.Errorf("Sequences = %v, want %v", aligned.Sequences, wantSeqs)
	}
}

func TestFillSingletons(t *testing.T) {
	gt := mustMembership(t, map[NodeID]Label{0: "A", 1: "B", 2: "C"})
	est := mustMembership(t, map[NodeID]Label{0: "A"})

	aligned, reports, err := FillSingletons(gt, est)
	if err != nil {
		t.Fatalf("FillSingletons failed: %v", err)
	}

	seq := aligned.Sequences[1]
	if seq[0] != "A" {
		t.Errorf("Node 0 should keep label A, got %q", seq[0])
	}
	if seq[1] == seq[2] || seq[1] == "A" || seq[2] == "A" {
		t.Errorf("Fresh labels must be distinct from each other and from A: %v", seq)
	}
	if reports[0].SingletonsAdded() != 2 {
		t.Errorf("Expected 2 singletons added, got %d", reports[0].SingletonsAdded())
	}
	if reports[0].OriginalClusters != 1 || reports[0].FinalClusters != 3 {
		t.Errorf("Unexpected cluster counts: %+v", reports[0])
	}
}

func TestFillSingletonsAvoidsCollisions(t *testing.T) {
	gt := mustMembership(t, map[NodeID]Label{0: "A", 1: "A", 2: "A"})
	// The estimate already uses the labels fresh singletons would be derived from.
	est := mustMembership(t, map[NodeID]Label{0: "~1", 1: "~~2"})

	aligned, reports, err := FillSingletons(gt, est)
	if err != nil {
		t.Fatalf("FillSingletons failed: %v", err)
	}

	seq := aligned.Sequences[1]
	seen := map[Label]bool{}
	for _, label := range seq {
		if seen[label] {
			t.Fatalf("Duplicate label %q in filled sequence %v", label, seq)
		}
		seen[label] = true
	}
	if reports[0].Filled != 1 {
		t.Errorf("Expected 1 filled node, got %d", reports[0].Filled)
	}
}

func TestFillSingletonsDropsExtraNodes(t *testing.T) {
	gt := mustMembership(t, map[NodeID]Label{0: "A"})
	est := mustMembership(t, map[NodeID]Label{0: "A", 5: "B"})

	aligned, reports, err := FillSingletons(gt, est)
	if err != nil {
		t.Fatalf("FillSingletons failed: %v", err)
	}
	if len(aligned.Nodes) != 1 {
		t.Errorf("Expected 1 aligned node, got %d", len(aligned.Nodes))
	}
	if reports[0].Dropped != 1 {
		t.Errorf("Expected 1 dropped node, got %d", reports[0].Dropped)
	}
}

func TestReconcileDeterministic(t *testing.T) {
	gt := mustMembership(t, map[NodeID]Label{4: "A", 2: "B", 9: "C", 0: "A"})
	est := mustMembership(t, map[NodeID]Label{9: "x", 0: "y"})

	for _, policy := range []Policy{PolicyIntersection, PolicySingletons} {
		first, _, err := Reconcile(policy, gt, est)
		if err != nil {
			t.Fatalf("%s: %v", policy, err)
		}
		for i := 0; i < 5; i++ {
			again, _, _ := Reconcile(policy, gt, est)
			if !reflect.DeepEqual(first, again) {
				t.Fatalf("%s: reconciliation is not deterministic", policy)
			}
		}
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(" Singletons "); err != nil || p != PolicySingletons {
		t.Errorf("ParsePolicy(Singletons) = %v, %v", p, err)
	}
	if _, err := ParsePolicy("union"); err == nil {
		t.Error("Expected error for unknown policy")
	}
}

func TestReadFile(t *testing.T) {
	path := writeTemp(t, "clustering.tsv", "# comment\n0 1\n1\t1\n\n2 7\n")

	m, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if m.Len() != 3 {
		t.Errorf("Expected 3 nodes, got %d", m.Len())
	}
	if label, _ := m.Lookup(2); label != "7" {
		t.Errorf("Expected label 7 for node 2, got %q", label)
	}
}

func TestReadFileMalformedRow(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
	}{
		{"TooManyFields", "0 1\n1 2 3\n", 2},
		{"TooFewFields", "0\n", 1},
		{"NonIntegerNode", "0 1\nx 2\n", 2},
		{"NegativeNode", "-3 1\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "bad.tsv", tt.content)
			_, err := ReadFile(path)

			var malformed *MalformedRowError
			if !errors.As(err, &malformed) {
				t.Fatalf("Expected MalformedRowError, got %v", err)
			}
			if malformed.Line != tt.line {
				t.Errorf("Expected line %d, got %d", tt.line, malformed.Line)
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dat")
	if err := WriteFile(path, []int{0, 0, 2}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if want := "0 1\n1 1\n2 3"; string(data) != want {
		t.Errorf("WriteFile wrote %q, want %q", data, want)
	}
}

func TestRelabelFile(t *testing.T) {
	src := writeTemp(t, "net.dat", "1 2\n2 3\n")
	dst := src + "_relabeled"

	if err := RelabelFile(src, dst); err != nil {
		t.Fatalf("RelabelFile failed: %v", err)
	}

	data, _ := os.ReadFile(dst)
	if want := "0    1\n1    2\n"; string(data) != want {
		t.Errorf("RelabelFile wrote %q, want %q", data, want)
	}
}

func TestIntLabels(t *testing.T) {
	m := FromInts([]int{3, 1, 3})
	labels, err := m.IntLabels()
	if err != nil {
		t.Fatalf("IntLabels failed: %v", err)
	}
	if !reflect.DeepEqual(labels, []int{3, 1, 3}) {
		t.Errorf("IntLabels() = %v", labels)
	}

	gap := mustMembership(t, map[NodeID]Label{0: "1", 2: "1"})
	if _, err := gap.IntLabels(); !errors.Is(err, ErrMissingAssignment) {
		t.Errorf("Expected missing assignment for non-contiguous ids, got %v", err)
	}
}
