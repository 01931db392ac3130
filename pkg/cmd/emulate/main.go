// Command emulate reports the structural properties of a clustered network and, optionally, of
// an LFR benchmark graph generated to emulate it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/accuracy"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/config"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/lfr"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/network"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/stats"
	"github.com/rs/zerolog/log"
)

const relabeledSuffix = "_relabeled"

func main() {
	var (
		netPath        = flag.String("n", "", "network edge-list path (required)")
		clusteringPath = flag.String("c", "", "clustering membership path (required)")
		relabel        = flag.Bool("r", false, "inputs are 1-indexed; rewrite them zero-based first")
		lfrDir         = flag.String("lfr-dir", "", "directory of a finished LFR run to compare against")
		configPath     = flag.String("config", "", "configuration file")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -n <edges> -c <membership> [-r] [-lfr-dir dir]\n\n", os.Args[0])
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

	edges, clustering := *netPath, *clusteringPath
	if *relabel {
		var err error
		if edges, clustering, err = relabelPair(edges, clustering); err != nil {
			log.Fatal().Err(err).Msg("Failed to relabel inputs")
		}
		log.Info().Str("network", edges).Str("clustering", clustering).Msg("Inputs relabeled")
	}

	g, m, err := load(edges, clustering)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load inputs")
	}
	fmt.Println("- properties of the input network")
	if err := report(g, m, "mu real:"); err != nil {
		log.Fatal().Err(err).Msg("Failed to compute properties")
	}

	if *lfrDir == "" {
		return
	}

	edges, clustering, err = relabelPair(
		filepath.Join(*lfrDir, lfr.NetworkFile),
		filepath.Join(*lfrDir, lfr.CommunityFile),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to relabel LFR output")
	}
	lg, lm, err := load(edges, clustering)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load LFR output")
	}
	fmt.Println("- properties of the LFR network")
	if err := report(lg, lm, "mu lfr:"); err != nil {
		log.Fatal().Err(err).Msg("Failed to compute LFR properties")
	}

	labels, err := lm.IntLabels()
	if err != nil {
		log.Fatal().Err(err).Msg("LFR communities are not zero-based integers")
	}
	out := filepath.Join(*lfrDir, "community.tsv")
	if err := membership.WriteFile(out, labels); err != nil {
		log.Fatal().Err(err).Msg("Failed to write LFR membership")
	}
	log.Info().Str("path", out).Msg("LFR membership written")
}

// relabelPair writes zero-based copies of a 1-indexed edge list and membership file next to the
// originals and returns their paths.
func relabelPair(edges, clustering string) (string, string, error) {
	edgesOut, clusteringOut := edges+relabeledSuffix, clustering+relabeledSuffix
	if err := membership.RelabelFile(edges, edgesOut); err != nil {
		return "", "", err
	}
	if err := membership.RelabelFile(clustering, clusteringOut); err != nil {
		return "", "", err
	}
	return edgesOut, clusteringOut, nil
}

func load(edges, clustering string) (*network.Graph, *membership.Membership, error) {
	g, err := network.ReadEdgeList(edges)
	if err != nil {
		return nil, nil, err
	}
	m, err := membership.ReadFile(clustering)
	if err != nil {
		return nil, nil, err
	}
	return g, m.Restrict(g.Has), nil
}

func report(g *network.Graph, m *membership.Membership, muLabel string) error {
	if err := g.Validate(); err != nil {
		return err
	}
	sum := g.Summarize()
	fmt.Println("#nodes, #edges, #isolates:", sum.NodeCount, sum.EdgeCount, sum.IsolateCount)
	fmt.Println("num connected comp:", sum.NumComponents)
	fmt.Println("max connected comp:", sum.LargestComponent)

	degrees, err := stats.SummarizeDegrees(g.Degrees())
	if err != nil {
		return err
	}
	fmt.Println("min, max, mean, median degree:", degrees.Min, degrees.Max, degrees.Mean, degrees.Median)

	clusters, err := stats.SummarizeClusters(m.Partition().Sizes(), g.NumNodes())
	if err != nil {
		return err
	}
	fmt.Println("#clusters:", clusters.NumClusters)
	fmt.Println("min, max, mean, median cluster size:", clusters.Min, clusters.Max, clusters.Mean, clusters.Median)
	fmt.Println("#singleton, #non-singleton clusters:", clusters.Singletons, clusters.NonSingletons)

	mixing, err := stats.Mixing(g, m)
	if err != nil {
		return err
	}
	if n := len(mixing.UndefinedNodes); n > 0 {
		log.Warn().Int("nodes", n).Msg("Nodes without edges have no mixing parameter")
	}
	micro, err := mixing.Micro()
	if err != nil && !errors.Is(err, accuracy.ErrUndefinedMetric) {
		return err
	}
	fmt.Println("micro-average", muLabel, render(micro, err))
	macro, err := mixing.Macro()
	if err != nil && !errors.Is(err, accuracy.ErrUndefinedMetric) {
		return err
	}
	fmt.Println("macro-average", muLabel, render(macro, err))
	return nil
}

func render(v float64, err error) string {
	if err != nil {
		return "undefined (" + err.Error() + ")"
	}
	return fmt.Sprint(v)
}
