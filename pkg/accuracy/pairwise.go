// Package accuracy scores an estimated clustering against a ground truth.
package accuracy

import (
	"errors"
	"fmt"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
)

// ErrUndefinedMetric is matched by every UndefinedMetricError.
var ErrUndefinedMetric = errors.New("undefined metric")

// UndefinedMetricError reports a metric whose denominator is zero.
type UndefinedMetricError struct {
	Metric      string
	Denominator string
}

func (e *UndefinedMetricError) Error() string {
	return fmt.Sprintf("%s is undefined: %s = 0", e.Metric, e.Denominator)
}

func (e *UndefinedMetricError) Is(target error) bool {
	return target == ErrUndefinedMetric
}

// Tally holds the pair-counting contingency of two clusterings.
// TP+FP+TN+FN equals n(n-1)/2 for n compared items.
type Tally struct {
	TP uint64 `json:"tp"`
	FP uint64 `json:"fp"`
	TN uint64 `json:"tn"`
	FN uint64 `json:"fn"`
}

// Total returns the number of pairs counted.
func (t Tally) Total() uint64 {
	return t.TP + t.FP + t.TN + t.FN
}

// CountPairs classifies every unordered pair of items by whether each labeling puts them
// in the same cluster. Both sequences must be aligned on the same node ordering.
func CountPairs(trueLabels, estLabels []membership.Label) (Tally, error) {
	if len(trueLabels) != len(estLabels) {
		return Tally{}, fmt.Errorf("label sequences differ in length: %d vs %d", len(trueLabels), len(estLabels))
	}

	var t Tally
	n := len(trueLabels)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sameTrue := trueLabels[i] == trueLabels[j]
			sameEst := estLabels[i] == estLabels[j]
			switch {
			case sameTrue && sameEst:
				t.TP++
			case sameTrue:
				t.FN++
			case sameEst:
				t.FP++
			default:
				t.TN++
			}
		}
	}
	return t, nil
}

func ratio(metric, denominator string, num, den uint64) (float64, error) {
	if den == 0 {
		return 0, &UndefinedMetricError{Metric: metric, Denominator: denominator}
	}
	return float64(num) / float64(den), nil
}

// Precision is TP/(TP+FP).
func (t Tally) Precision() (float64, error) {
	return ratio("precision", "tp+fp", t.TP, t.TP+t.FP)
}

// Recall is TP/(TP+FN).
func (t Tally) Recall() (float64, error) {
	return ratio("recall", "tp+fn", t.TP, t.TP+t.FN)
}

// FalseNegativeRate is FN/(FN+TP).
func (t Tally) FalseNegativeRate() (float64, error) {
	return ratio("false negative rate", "fn+tp", t.FN, t.FN+t.TP)
}

// FalsePositiveRate is FP/(FP+TN).
func (t Tally) FalsePositiveRate() (float64, error) {
	return ratio("false positive rate", "fp+tn", t.FP, t.FP+t.TN)
}

// F1 is the harmonic mean of precision and recall. It is undefined when either input is
// undefined or when both are zero.
func (t Tally) F1() (float64, error) {
	p, err := t.Precision()
	if err != nil {
		return 0, &UndefinedMetricError{Metric: "f1", Denominator: "tp+fp"}
	}
	r, err := t.Recall()
	if err != nil {
		return 0, &UndefinedMetricError{Metric: "f1", Denominator: "tp+fn"}
	}
	if p+r == 0 {
		return 0, &UndefinedMetricError{Metric: "f1", Denominator: "precision+recall"}
	}
	return 2 * p * r / (p + r), nil
}
