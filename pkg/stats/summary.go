// Package stats computes the network and clustering properties used to emulate a real
// network with the LFR benchmark.
package stats

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DegreeSummary summarizes a degree sequence.
type DegreeSummary struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// ClusterSummary summarizes the cluster sizes of a partition.
type ClusterSummary struct {
	NumClusters   int     `json:"num_clusters"`
	Min           int     `json:"min"`
	Max           int     `json:"max"`
	Mean          float64 `json:"mean"`
	Median        float64 `json:"median"`
	Singletons    int     `json:"singletons"`
	NonSingletons int     `json:"non_singletons"`
	Coverage      float64 `json:"coverage"`
}

func toFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// Median returns the middle value, or the mean of the two middle values for even counts.
func Median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
}

// SummarizeDegrees computes min, max, mean and median degree.
func SummarizeDegrees(degrees []int) (DegreeSummary, error) {
	if len(degrees) == 0 {
		return DegreeSummary{}, errors.New("empty degree sequence")
	}
	x := toFloats(degrees)
	return DegreeSummary{
		Min:    int(floats.Min(x)),
		Max:    int(floats.Max(x)),
		Mean:   stat.Mean(x, nil),
		Median: Median(degrees),
	}, nil
}

// SummarizeClusters computes size statistics of a partition. Coverage is the fraction of the
// nodeCount nodes that do not sit in a singleton cluster.
func SummarizeClusters(sizes []int, nodeCount int) (ClusterSummary, error) {
	if len(sizes) == 0 {
		return ClusterSummary{}, errors.New("partition has no clusters")
	}
	if nodeCount <= 0 {
		return ClusterSummary{}, fmt.Errorf("invalid node count %d", nodeCount)
	}

	x := toFloats(sizes)
	s := ClusterSummary{
		NumClusters: len(sizes),
		Min:         int(floats.Min(x)),
		Max:         int(floats.Max(x)),
		Mean:        stat.Mean(x, nil),
		Median:      Median(sizes),
	}
	for _, size := range sizes {
		if size == 1 {
			s.Singletons++
		}
	}
	s.NonSingletons = s.NumClusters - s.Singletons
	s.Coverage = float64(nodeCount-s.Singletons) / float64(nodeCount)
	return s, nil
}
