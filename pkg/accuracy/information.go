package accuracy

import (
	"fmt"
	"math"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
)

const float64Eps = 2.220446049250313e-16

// Contingency is the overlap table between two labelings.
type Contingency struct {
	N     int            // number of items
	Rows  []int          // Rows[i] = size of true cluster i
	Cols  []int          // Cols[j] = size of estimated cluster j
	Cells map[[2]int]int // (i, j) -> items in true cluster i and estimated cluster j
}

// NewContingency builds the contingency table of two aligned labelings.
// Cluster indices follow the order labels first appear.
func NewContingency(trueLabels, estLabels []membership.Label) (*Contingency, error) {
	if len(trueLabels) != len(estLabels) {
		return nil, fmt.Errorf("label sequences differ in length: %d vs %d", len(trueLabels), len(estLabels))
	}

	c := &Contingency{N: len(trueLabels), Cells: make(map[[2]int]int)}
	rowIndex := make(map[membership.Label]int)
	colIndex := make(map[membership.Label]int)

	for k := range trueLabels {
		i, ok := rowIndex[trueLabels[k]]
		if !ok {
			i = len(c.Rows)
			rowIndex[trueLabels[k]] = i
			c.Rows = append(c.Rows, 0)
		}
		j, ok := colIndex[estLabels[k]]
		if !ok {
			j = len(c.Cols)
			colIndex[estLabels[k]] = j
			c.Cols = append(c.Cols, 0)
		}
		c.Rows[i]++
		c.Cols[j]++
		c.Cells[[2]int{i, j}]++
	}
	return c, nil
}

// Pairs derives the pair-counting tally from the table without visiting every pair.
func (c *Contingency) Pairs() Tally {
	var cellSq, rowSq, colSq uint64
	for _, nij := range c.Cells {
		cellSq += uint64(nij) * uint64(nij)
	}
	for _, a := range c.Rows {
		rowSq += uint64(a) * uint64(a)
	}
	for _, b := range c.Cols {
		colSq += uint64(b) * uint64(b)
	}

	n := uint64(c.N)
	total := uint64(0)
	if n > 1 {
		total = n * (n - 1) / 2
	}
	t := Tally{
		TP: (cellSq - n) / 2,
		FP: (colSq - cellSq) / 2,
		FN: (rowSq - cellSq) / 2,
	}
	t.TN = total - t.TP - t.FP - t.FN
	return t
}

// entropy of a clustering given its cluster sizes, in nats.
func entropy(sizes []int, n int) float64 {
	if n == 0 {
		return 0
	}
	h := 0.0
	for _, size := range sizes {
		if size == 0 {
			continue
		}
		p := float64(size) / float64(n)
		h -= p * math.Log(p)
	}
	return h
}

// MutualInformation returns the mutual information of the two labelings, in nats.
func (c *Contingency) MutualInformation() float64 {
	if c.N == 0 {
		return 0
	}
	n := float64(c.N)
	mi := 0.0
	for cell, nij := range c.Cells {
		if nij == 0 {
			continue
		}
		ai := float64(c.Rows[cell[0]])
		bj := float64(c.Cols[cell[1]])
		mi += float64(nij) / n * math.Log(n*float64(nij)/(ai*bj))
	}
	if mi < 0 {
		return 0
	}
	return mi
}

// ExpectedMutualInformation is the expected mutual information of two random labelings with
// the same cluster sizes, under the hypergeometric model.
func (c *Contingency) ExpectedMutualInformation() float64 {
	if len(c.Rows) == 1 || len(c.Cols) == 1 {
		return 0
	}

	n := c.N
	nf := float64(n)
	lgamma := func(x float64) float64 {
		v, _ := math.Lgamma(x)
		return v
	}
	glnN := lgamma(nf + 1)

	emi := 0.0
	for _, a := range c.Rows {
		af := float64(a)
		glnA := lgamma(af+1) + lgamma(nf-af+1)
		for _, b := range c.Cols {
			bf := float64(b)
			glnB := lgamma(bf+1) + lgamma(nf-bf+1)

			start := a - n + b
			if start < 1 {
				start = 1
			}
			end := a
			if b < end {
				end = b
			}
			for nij := start; nij <= end; nij++ {
				nijf := float64(nij)
				term1 := nijf / nf
				term2 := math.Log(nf*nijf) - math.Log(af) - math.Log(bf)
				gln := glnA + glnB - glnN - lgamma(nijf+1) -
					lgamma(af-nijf+1) - lgamma(bf-nijf+1) - lgamma(nf-af-bf+nijf+1)
				emi += term1 * term2 * math.Exp(gln)
			}
		}
	}
	return emi
}

// trivial reports whether both labelings have the same single cluster or no items.
func (c *Contingency) trivial() bool {
	return (len(c.Rows) == 1 && len(c.Cols) == 1) || (len(c.Rows) == 0 && len(c.Cols) == 0)
}

// NMI is the mutual information normalized by the arithmetic mean of the two entropies.
func (c *Contingency) NMI() float64 {
	if c.trivial() {
		return 1.0
	}
	mi := c.MutualInformation()
	if mi == 0 {
		return 0.0
	}
	normalizer := (entropy(c.Rows, c.N) + entropy(c.Cols, c.N)) / 2
	return mi / normalizer
}

// AMI is the mutual information adjusted for chance, arithmetic-mean normalized.
func (c *Contingency) AMI() float64 {
	if c.trivial() {
		return 1.0
	}
	mi := c.MutualInformation()
	emi := c.ExpectedMutualInformation()
	normalizer := (entropy(c.Rows, c.N) + entropy(c.Cols, c.N)) / 2

	denominator := normalizer - emi
	if denominator < 0 {
		denominator = math.Min(denominator, -float64Eps)
	} else {
		denominator = math.Max(denominator, float64Eps)
	}
	return (mi - emi) / denominator
}

// ARI is the Rand index adjusted for chance.
func (c *Contingency) ARI() float64 {
	t := c.Pairs()
	if t.FN == 0 && t.FP == 0 {
		return 1.0
	}
	tp, fp, tn, fn := float64(t.TP), float64(t.FP), float64(t.TN), float64(t.FN)
	return 2.0 * (tp*tn - fn*fp) / ((tp+fn)*(fn+tn) + (tp+fp)*(fp+tn))
}

// NormalizedMutualInfo computes NMI of two aligned labelings.
func NormalizedMutualInfo(trueLabels, estLabels []membership.Label) (float64, error) {
	c, err := NewContingency(trueLabels, estLabels)
	if err != nil {
		return 0, err
	}
	return c.NMI(), nil
}

// AdjustedMutualInfo computes AMI of two aligned labelings.
func AdjustedMutualInfo(trueLabels, estLabels []membership.Label) (float64, error) {
	c, err := NewContingency(trueLabels, estLabels)
	if err != nil {
		return 0, err
	}
	return c.AMI(), nil
}

// AdjustedRandIndex computes ARI of two aligned labelings.
func AdjustedRandIndex(trueLabels, estLabels []membership.Label) (float64, error) {
	c, err := NewContingency(trueLabels, estLabels)
	if err != nil {
		return 0, err
	}
	return c.ARI(), nil
}
