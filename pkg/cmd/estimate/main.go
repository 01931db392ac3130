// Command estimate computes the properties of a network/clustering pair and writes them to a
// statistics file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/config"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/network"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/stats"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		netPath        = flag.String("n", "", "network edge-list path (required)")
		clusteringPath = flag.String("c", "", "clustering membership path (required)")
		outPath        = flag.String("o", "", "statistics output path (default: clustering path with .tsv replaced by .json)")
		configPath     = flag.String("config", "", "configuration file")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -n <edges> -c <membership> [-o out.json] [-config file]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *netPath == "" || *clusteringPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.NewConfig()
	if *configPath != "" {
		if err := cfg.LoadFromFile(*configPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}
	log.Logger = cfg.CreateLogger()

	g, err := network.ReadEdgeList(*netPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read network")
	}
	m, err := membership.ReadFile(*clusteringPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read clustering")
	}
	log.Info().
		Int("nodes", g.NumNodes()).
		Int("edges", g.NumEdges()).
		Int("assignments", m.Len()).
		Msg("Inputs loaded")

	s, err := stats.Estimate(g, m, cfg.PowerLawOptions()...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to estimate properties")
	}

	printStats(s)

	out := *outPath
	if out == "" {
		out = stats.DefaultStatsPath(*clusteringPath)
	}
	if err := stats.WriteStatsFile(out, s); err != nil {
		log.Fatal().Err(err).Msg("Failed to write statistics")
	}
	log.Info().Str("path", out).Msg("Statistics written")
}

func printStats(s *stats.NetClusterStats) {
	fmt.Println("- properties of the input network")
	fmt.Println("#nodes, #edges, #isolates:", s.NodeCount, s.EdgeCount, s.IsolateCount)
	fmt.Println("num connected comp:", s.NumComponents)
	fmt.Println("max connected comp:", s.MaxComponent)
	fmt.Println("min, max, mean, median degree:", s.MinDegree, s.MaxDegree, s.MeanDegree, s.MedianDegree)

	fmt.Println("\n- properties of the input clustering")
	fmt.Println("#clusters in partition:", s.NumClusters)
	fmt.Println("min, max, mean, median cluster sizes:", s.MinClusterSize, s.MaxClusterSize, s.MeanClusterSize, s.MedianClusterSize)
	fmt.Println("number of singletons:", s.NumSingletons)
	fmt.Println("number of non-singleton clusters:", s.NumNonSingletons)
	fmt.Println("modularity:", s.Modularity)
	fmt.Println("coverage:", s.NodeCoverage)

	fmt.Println("mixing parameter (mu):", s.MixingParameter)
	fmt.Println("tau1, xmin1, tau2, xmin2", s.Tau1, s.XMin1, s.Tau2, s.XMin2)
	fmt.Println("tau1, xmin1, tau2, xmin2 [fixed xmin]", s.Tau1Fixed, s.XMin1Fixed, s.Tau2Fixed, s.XMin2Fixed)
}
