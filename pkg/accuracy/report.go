package accuracy

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
)

// Metric is a derived value that may be undefined.
type Metric struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
	Reason  string  `json:"reason,omitempty"`
}

// String prints the value, or "undefined (<reason>)".
func (m Metric) String() string {
	if !m.Defined {
		return fmt.Sprintf("undefined (%s)", m.Reason)
	}
	return strconv.FormatFloat(m.Value, 'g', -1, 64)
}

// MetricOf converts the result of a metric function. An UndefinedMetricError becomes an
// undefined Metric; any other error is returned.
func MetricOf(value float64, err error) (Metric, error) {
	if err == nil {
		return Metric{Value: value, Defined: true}, nil
	}
	var undefined *UndefinedMetricError
	if errors.As(err, &undefined) {
		return Metric{Defined: false, Reason: undefined.Error()}, nil
	}
	return Metric{}, err
}

// Report bundles pairwise and information-theoretic scores of one comparison.
type Report struct {
	Items     int    `json:"items"`
	Tally     Tally  `json:"tally"`
	Precision Metric `json:"precision"`
	Recall    Metric `json:"recall"`
	F1        Metric `json:"f1"`
	FNR       Metric `json:"fnr"`
	FPR       Metric `json:"fpr"`

	NMI float64 `json:"nmi"`
	ARI float64 `json:"ari"`
	AMI float64 `json:"ami"`
}

// Score compares an estimated labeling to the ground truth.
func Score(trueLabels, estLabels []membership.Label) (*Report, error) {
	tally, err := CountPairs(trueLabels, estLabels)
	if err != nil {
		return nil, err
	}
	c, err := NewContingency(trueLabels, estLabels)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Items: len(trueLabels),
		Tally: tally,
		NMI:   c.NMI(),
		ARI:   c.ARI(),
		AMI:   c.AMI(),
	}

	derived := []struct {
		dst *Metric
		fn  func() (float64, error)
	}{
		{&r.Precision, tally.Precision},
		{&r.Recall, tally.Recall},
		{&r.F1, tally.F1},
		{&r.FNR, tally.FalseNegativeRate},
		{&r.FPR, tally.FalsePositiveRate},
	}
	for _, d := range derived {
		m, err := MetricOf(d.fn())
		if err != nil {
			return nil, err
		}
		*d.dst = m
	}
	return r, nil
}

// Print writes the report in the layout of the accuracy tool.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Normalized mutual information (NMI): %v\n", r.NMI)
	fmt.Fprintf(w, "Adjusted rand index (ARI): %v\n", r.ARI)
	fmt.Fprintf(w, "Adjusted mutual information (AMI): %v\n", r.AMI)
	fmt.Fprintf(w, "False positive rate (FPR), False negative rate (FNR): %s %s\n", r.FPR, r.FNR)
	fmt.Fprintf(w, "Precision, Recall, F1-score: %s %s %s\n", r.Precision, r.Recall, r.F1)
	fmt.Fprintf(w, "Pairs (tp, fp, tn, fn): %d %d %d %d\n", r.Tally.TP, r.Tally.FP, r.Tally.TN, r.Tally.FN)
}
