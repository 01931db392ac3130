package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/network"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/powerlaw"
)

// NetClusterStats is the statistics file of a network/clustering pair. Field order is the
// key order of the written file.
type NetClusterStats struct {
	NodeCount         int     `json:"node-count"`
	EdgeCount         int     `json:"edge-count"`
	IsolateCount      int     `json:"isolate-count"`
	NumComponents     int     `json:"num-connected-components"`
	MaxComponent      int     `json:"max-connected-components"`
	MinDegree         int     `json:"min-degree"`
	MaxDegree         int     `json:"max-degree"`
	MeanDegree        float64 `json:"mean-degree"`
	MedianDegree      float64 `json:"median-degree"`
	NumClusters       int     `json:"num-clusters"`
	MinClusterSize    int     `json:"min-cluster-size"`
	MaxClusterSize    int     `json:"max-cluster-size"`
	MeanClusterSize   float64 `json:"mean-cluster-size"`
	MedianClusterSize float64 `json:"median-cluster-size"`
	NumSingletons     int     `json:"num-singletons"`
	NumNonSingletons  int     `json:"num-non-singletons"`
	Modularity        float64 `json:"modularity-score"`
	NodeCoverage      float64 `json:"node-coverage"`
	MixingParameter   float64 `json:"mixing-parameter"`
	Tau1              float64 `json:"tau1"`
	XMin1             float64 `json:"xmin1"`
	Tau2              float64 `json:"tau2"`
	XMin2             float64 `json:"xmin2"`
	Tau1Fixed         float64 `json:"tau1-fixed"`
	XMin1Fixed        float64 `json:"xmin1-fixed"`
	Tau2Fixed         float64 `json:"tau2-fixed"`
	XMin2Fixed        float64 `json:"xmin2-fixed"`
}

// Estimate computes every property of the statistics file. The membership is first reduced to
// the nodes of the network; every network node must still be assigned.
func Estimate(g *network.Graph, m *membership.Membership, fitOpts ...powerlaw.Option) (*NetClusterStats, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network: %w", err)
	}
	m = m.Restrict(g.Has)

	net := g.Summarize()
	degrees := g.Degrees()
	deg, err := SummarizeDegrees(degrees)
	if err != nil {
		return nil, err
	}

	sizes := m.Partition().Sizes()
	clusters, err := SummarizeClusters(sizes, net.NodeCount)
	if err != nil {
		return nil, fmt.Errorf("clustering has no nodes of the network: %w", err)
	}

	modularity, err := Modularity(g, m)
	if err != nil {
		return nil, fmt.Errorf("modularity: %w", err)
	}
	mixing, err := Mixing(g, m)
	if err != nil {
		return nil, fmt.Errorf("mixing parameter: %w", err)
	}
	mu, err := mixing.Micro()
	if err != nil {
		return nil, err
	}

	s := &NetClusterStats{
		NodeCount:         net.NodeCount,
		EdgeCount:         net.EdgeCount,
		IsolateCount:      net.IsolateCount,
		NumComponents:     net.NumComponents,
		MaxComponent:      net.LargestComponent,
		MinDegree:         deg.Min,
		MaxDegree:         deg.Max,
		MeanDegree:        deg.Mean,
		MedianDegree:      deg.Median,
		NumClusters:       clusters.NumClusters,
		MinClusterSize:    clusters.Min,
		MaxClusterSize:    clusters.Max,
		MeanClusterSize:   clusters.Mean,
		MedianClusterSize: clusters.Median,
		NumSingletons:     clusters.Singletons,
		NumNonSingletons:  clusters.NonSingletons,
		Modularity:        modularity,
		NodeCoverage:      clusters.Coverage,
		MixingParameter:   mu,
	}

	// Isolated nodes have degree 0 and are left out of the degree fits.
	positive := make([]int, 0, len(degrees))
	for _, d := range degrees {
		if d > 0 {
			positive = append(positive, d)
		}
	}
	minPositive := deg.Min
	if minPositive < 1 {
		minPositive = 1
	}

	free, fixed, err := fitBoth(positive, minPositive, fitOpts)
	if err != nil {
		return nil, fmt.Errorf("degree distribution: %w", err)
	}
	s.Tau1, s.XMin1 = free.Tau, free.XMin
	s.Tau1Fixed, s.XMin1Fixed = fixed.Tau, fixed.XMin

	free, fixed, err = fitBoth(sizes, clusters.Min, fitOpts)
	if err != nil {
		return nil, fmt.Errorf("cluster size distribution: %w", err)
	}
	s.Tau2, s.XMin2 = free.Tau, free.XMin
	s.Tau2Fixed, s.XMin2Fixed = fixed.Tau, fixed.XMin
	return s, nil
}

// fitBoth fits data once with a searched x_min and once with x_min pinned to fixedXMin.
func fitBoth(data []int, fixedXMin int, opts []powerlaw.Option) (free, fixed powerlaw.Result, err error) {
	free, err = powerlaw.Fit(data, opts...)
	if err != nil {
		return free, fixed, err
	}
	pinned := append(append([]powerlaw.Option{}, opts...), powerlaw.WithXMin(float64(fixedXMin)))
	fixed, err = powerlaw.Fit(data, pinned...)
	if err != nil {
		return free, fixed, fmt.Errorf("fixed x_min %d: %w", fixedXMin, err)
	}
	return free, fixed, nil
}

// DefaultStatsPath derives the statistics file path from the clustering path.
func DefaultStatsPath(clusteringPath string) string {
	return strings.ReplaceAll(clusteringPath, ".tsv", "") + ".json"
}

// WriteStatsFile writes the statistics as JSON indented by four spaces.
func WriteStatsFile(path string, s *NetClusterStats) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write stats file %s: %w", path, err)
	}
	return nil
}

// ReadStatsFile reads a statistics file written by WriteStatsFile.
func ReadStatsFile(path string) (*NetClusterStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats file: %w", err)
	}
	var s NetClusterStats
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse stats file %s: %w", path, err)
	}
	return &s, nil
}
