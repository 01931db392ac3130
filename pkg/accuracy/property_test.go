package accuracy

import (
	"strconv"
	"testing"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// decode splits each code into a true label (code%4) and an estimated label (code/4).
func decode(codes []int) ([]membership.Label, []membership.Label) {
	truth := make([]membership.Label, len(codes))
	est := make([]membership.Label, len(codes))
	for i, c := range codes {
		truth[i] = membership.Label(strconv.Itoa(c % 4))
		est[i] = membership.Label(strconv.Itoa(c / 4))
	}
	return truth, est
}

// TestPropertyTallyCoversAllPairs tests that every unordered pair is counted exactly once
func TestPropertyTallyCoversAllPairs(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("tp+fp+tn+fn = n(n-1)/2", prop.ForAll(
		func(codes []int) bool {
			truth, est := decode(codes)
			tally, err := CountPairs(truth, est)
			if err != nil {
				return false
			}
			n := uint64(len(codes))
			want := uint64(0)
			if n > 1 {
				want = n * (n - 1) / 2
			}
			return tally.Total() == want
		},
		gen.SliceOf(gen.IntRange(0, 15)),
	))

	properties.TestingRun(t)
}

// TestPropertyContingencyAgreesWithPairScan tests the closed-form tally against the pair scan
func TestPropertyContingencyAgreesWithPairScan(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("contingency pairs equal direct count", prop.ForAll(
		func(codes []int) bool {
			truth, est := decode(codes)
			direct, _ := CountPairs(truth, est)
			c, err := NewContingency(truth, est)
			if err != nil {
				return false
			}
			return c.Pairs() == direct
		},
		gen.SliceOf(gen.IntRange(0, 15)),
	))

	properties.TestingRun(t)
}

// TestPropertyRelabelInvariance tests that renaming clusters never changes the tally
func TestPropertyRelabelInvariance(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("renaming estimated labels preserves tally", prop.ForAll(
		func(codes []int, prefix string) bool {
			truth, est := decode(codes)
			renamed := make([]membership.Label, len(est))
			for i, l := range est {
				renamed[i] = membership.Label(prefix+"/") + l
			}
			a, _ := CountPairs(truth, est)
			b, _ := CountPairs(truth, renamed)
			return a == b
		},
		gen.SliceOf(gen.IntRange(0, 15)),
		gen.AlphaString(),
	))

	properties.Property("self comparison has no errors", prop.ForAll(
		func(codes []int) bool {
			truth, _ := decode(codes)
			tally, _ := CountPairs(truth, truth)
			return tally.FP == 0 && tally.FN == 0
		},
		gen.SliceOf(gen.IntRange(0, 15)),
	))

	properties.TestingRun(t)
}
