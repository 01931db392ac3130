package accuracy

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
)

func labels(s ...string) []membership.Label {
	out := make([]membership.Label, len(s))
	for i, v := range s {
		out[i] = membership.Label(v)
	}
	return out
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCountPairsWorkedExample(t *testing.T) {
	truth := labels("A", "A", "B", "B")
	est := labels("A", "A", "A", "B")

	tally, err := CountPairs(truth, est)
	if err != nil {
		t.Fatalf("CountPairs failed: %v", err)
	}

	want := Tally{TP: 1, FP: 2, TN: 2, FN: 1}
	if tally != want {
		t.Fatalf("CountPairs() = %+v, want %+v", tally, want)
	}

	p, err := tally.Precision()
	if err != nil || !approxEqual(p, 1.0/3.0) {
		t.Errorf("Precision = %v, %v; want 1/3", p, err)
	}
	r, err := tally.Recall()
	if err != nil || !approxEqual(r, 0.5) {
		t.Errorf("Recall = %v, %v; want 0.5", r, err)
	}
	f1, err := tally.F1()
	if err != nil || !approxEqual(f1, 0.4) {
		t.Errorf("F1 = %v, %v; want 0.4", f1, err)
	}
	fnr, _ := tally.FalseNegativeRate()
	if !approxEqual(fnr, 0.5) {
		t.Errorf("FNR = %v, want 0.5", fnr)
	}
	fpr, _ := tally.FalsePositiveRate()
	if !approxEqual(fpr, 0.5) {
		t.Errorf("FPR = %v, want 0.5", fpr)
	}
}

func TestCountPairsClassification(t *testing.T) {
	tests := []struct {
		name     string
		truth    []membership.Label
		estimate []membership.Label
		want     Tally
	}{
		{"same in both", labels("A", "A"), labels("X", "X"), Tally{TP: 1}},
		{"split by estimate", labels("A", "A"), labels("X", "Y"), Tally{FN: 1}},
		{"merged by estimate", labels("A", "B"), labels("X", "X"), Tally{FP: 1}},
		{"apart in both", labels("A", "B"), labels("X", "Y"), Tally{TN: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountPairs(tt.truth, tt.estimate)
			if err != nil {
				t.Fatalf("CountPairs failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("CountPairs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCountPairsLengthMismatch(t *testing.T) {
	if _, err := CountPairs(labels("A"), labels("A", "B")); err == nil {
		t.Error("Expected error for sequences of different length")
	}
}

func TestIdenticalLabelings(t *testing.T) {
	truth := labels("a", "a", "b", "c", "c", "c")
	tally, _ := CountPairs(truth, truth)

	if tally.FP != 0 || tally.FN != 0 {
		t.Fatalf("Expected FP=FN=0, got %+v", tally)
	}
	if tally.TP+tally.TN != 15 {
		t.Errorf("TP+TN = %d, want 15", tally.TP+tally.TN)
	}

	for name, fn := range map[string]func() (float64, error){
		"precision": tally.Precision,
		"recall":    tally.Recall,
		"f1":        tally.F1,
	} {
		if v, err := fn(); err != nil || v != 1.0 {
			t.Errorf("%s = %v, %v; want 1", name, v, err)
		}
	}
	for name, fn := range map[string]func() (float64, error){
		"fnr": tally.FalseNegativeRate,
		"fpr": tally.FalsePositiveRate,
	} {
		if v, err := fn(); err != nil || v != 0.0 {
			t.Errorf("%s = %v, %v; want 0", name, v, err)
		}
	}
}

func TestAllSingletonEstimate(t *testing.T) {
	truth := labels("A", "A", "B", "B", "B")
	est := labels("1", "2", "3", "4", "5")

	tally, _ := CountPairs(truth, est)
	if tally.FP != 0 {
		t.Errorf("Expected FP=0, got %d", tally.FP)
	}
	if r, err := tally.Recall(); err != nil || r != 0 {
		t.Errorf("Recall = %v, %v; want 0", r, err)
	}
	if _, err := tally.Precision(); !errors.Is(err, ErrUndefinedMetric) {
		t.Errorf("Precision should be undefined with no estimated co-clustering, got %v", err)
	}
}

func TestAllSingletonsBothSides(t *testing.T) {
	truth := labels("a", "b", "c")
	est := labels("x", "y", "z")

	tally, _ := CountPairs(truth, est)
	_, err := tally.Recall()

	var undefined *UndefinedMetricError
	if !errors.As(err, &undefined) {
		t.Fatalf("Expected UndefinedMetricError for recall, got %v", err)
	}
	if undefined.Denominator != "tp+fn" {
		t.Errorf("Expected denominator tp+fn, got %q", undefined.Denominator)
	}
	if _, err := tally.F1(); !errors.Is(err, ErrUndefinedMetric) {
		t.Errorf("F1 should be undefined, got %v", err)
	}
}

func TestF1UndefinedWhenPrecisionAndRecallZero(t *testing.T) {
	// Every true pair split, every estimated pair wrong.
	truth := labels("A", "A", "B", "B")
	est := labels("x", "y", "x", "y")

	tally, _ := CountPairs(truth, est)
	if tally.TP != 0 {
		t.Fatalf("Expected TP=0, got %+v", tally)
	}
	_, err := tally.F1()
	var undefined *UndefinedMetricError
	if !errors.As(err, &undefined) || undefined.Denominator != "precision+recall" {
		t.Errorf("Expected undefined F1 on precision+recall, got %v", err)
	}
}

func TestEmptyAndSingleItem(t *testing.T) {
	for _, n := range []int{0, 1} {
		truth := make([]membership.Label, n)
		tally, err := CountPairs(truth, truth)
		if err != nil {
			t.Fatalf("CountPairs failed: %v", err)
		}
		if tally.Total() != 0 {
			t.Errorf("n=%d: expected no pairs, got %d", n, tally.Total())
		}
		if _, err := tally.FalsePositiveRate(); !errors.Is(err, ErrUndefinedMetric) {
			t.Errorf("n=%d: FPR should be undefined", n)
		}
	}
}

func TestContingencyPairsMatchCountPairs(t *testing.T) {
	truth := labels("A", "A", "B", "B", "C", "C", "C", "A")
	est := labels("1", "2", "2", "2", "3", "3", "1", "1")

	direct, _ := CountPairs(truth, est)
	c, err := NewContingency(truth, est)
	if err != nil {
		t.Fatalf("NewContingency failed: %v", err)
	}
	if got := c.Pairs(); got != direct {
		t.Errorf("Contingency pairs %+v differ from direct count %+v", got, direct)
	}
}

func TestNMI(t *testing.T) {
	tests := []struct {
		name  string
		truth []membership.Label
		est   []membership.Label
		want  float64
	}{
		{"Identical", labels("0", "0", "1", "1"), labels("0", "0", "1", "1"), 1.0},
		{"Permuted", labels("0", "0", "1", "1"), labels("1", "1", "0", "0"), 1.0},
		{"SplitCluster", labels("0", "0", "1", "1"), labels("0", "0", "1", "2"), 0.8},
		{"Independent", labels("0", "0", "0", "0"), labels("0", "1", "2", "3"), 0.0},
		{"SingleClusterBoth", labels("a", "a", "a"), labels("b", "b", "b"), 1.0},
		{"Empty", labels(), labels(), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizedMutualInfo(tt.truth, tt.est)
			if err != nil {
				t.Fatalf("NormalizedMutualInfo failed: %v", err)
			}
			if !approxEqual(got, tt.want) {
				t.Errorf("NMI = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestARI(t *testing.T) {
	tests := []struct {
		name  string
		truth []membership.Label
		est   []membership.Label
		want  float64
	}{
		{"Permuted", labels("0", "0", "1", "1"), labels("1", "1", "0", "0"), 1.0},
		{"SplitCluster", labels("0", "0", "1", "1"), labels("0", "0", "1", "2"), 8.0 / 14.0},
		{"Empty", labels(), labels(), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdjustedRandIndex(tt.truth, tt.est)
			if err != nil {
				t.Fatalf("AdjustedRandIndex failed: %v", err)
			}
			if !approxEqual(got, tt.want) {
				t.Errorf("ARI = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAMI(t *testing.T) {
	if got, _ := AdjustedMutualInfo(labels("0", "0", "1", "1"), labels("1", "1", "0", "0")); !approxEqual(got, 1.0) {
		t.Errorf("AMI of permuted labeling = %v, want 1", got)
	}
	if got, _ := AdjustedMutualInfo(labels("0", "0", "0", "0"), labels("0", "1", "2", "3")); !approxEqual(got, 0.0) {
		t.Errorf("AMI of fully split labeling = %v, want 0", got)
	}

	// Chance-level agreement must score below NMI.
	truth := labels("0", "0", "0", "1", "1", "1", "2", "2", "2")
	est := labels("0", "1", "2", "0", "1", "2", "0", "1", "1")
	ami, _ := AdjustedMutualInfo(truth, est)
	nmi, _ := NormalizedMutualInfo(truth, est)
	if ami >= nmi {
		t.Errorf("Expected AMI (%v) < NMI (%v) for near-random labeling", ami, nmi)
	}
}

func TestExpectedMutualInformationNonNegative(t *testing.T) {
	c, _ := NewContingency(
		labels("0", "0", "1", "1", "2", "2", "2"),
		labels("a", "b", "a", "b", "a", "b", "c"),
	)
	emi := c.ExpectedMutualInformation()
	if emi < 0 || math.IsNaN(emi) {
		t.Errorf("EMI = %v, want a non-negative number", emi)
	}
	if emi > c.MutualInformation()+1 {
		t.Errorf("EMI = %v is implausibly large", emi)
	}
}

func TestScore(t *testing.T) {
	report, err := Score(labels("A", "A", "B", "B"), labels("A", "A", "A", "B"))
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if !report.Precision.Defined || !approxEqual(report.Precision.Value, 1.0/3.0) {
		t.Errorf("Unexpected precision %+v", report.Precision)
	}
	if report.Items != 4 {
		t.Errorf("Expected 4 items, got %d", report.Items)
	}

	var sb strings.Builder
	report.Print(&sb)
	out := sb.String()
	if !strings.Contains(out, "Precision, Recall, F1-score: 0.3333333333333333 0.5 ") {
		t.Errorf("Unexpected report output:\n%s", out)
	}
	if !strings.Contains(out, "False positive rate (FPR), False negative rate (FNR): 0.5 0.5\n") {
		t.Errorf("Unexpected rates in report output:\n%s", out)
	}
	if !strings.Contains(out, "Pairs (tp, fp, tn, fn): 1 2 2 1\n") {
		t.Errorf("Unexpected pair counts in report output:\n%s", out)
	}
}

func TestScoreReportsUndefined(t *testing.T) {
	report, err := Score(labels("a", "b"), labels("x", "y"))
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if report.Precision.Defined || report.Recall.Defined || report.F1.Defined {
		t.Errorf("Expected undefined precision/recall/f1, got %+v", report)
	}
	if !report.FPR.Defined || report.FPR.Value != 0 {
		t.Errorf("Expected FPR = 0, got %+v", report.FPR)
	}
	if !strings.HasPrefix(report.Precision.String(), "undefined (") {
		t.Errorf("Unexpected undefined rendering %q", report.Precision.String())
	}
}
