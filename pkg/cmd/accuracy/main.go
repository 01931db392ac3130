// Command accuracy scores a pre-CM and a post-CM clustering against a ground truth.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/accuracy"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/config"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/stats"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		gtPath      = flag.String("gt", "", "ground-truth community membership (required)")
		p1Path      = flag.String("p1", "", "original (pre-CM) community membership (required)")
		p2Path      = flag.String("p2", "", "post-CM community membership (required)")
		policyFlag  = flag.String("policy", "", "node reconciliation: singletons or intersection (default from config)")
		resultsPath = flag.String("results", "", "append scored comparisons to this JSON-lines file")
		configPath  = flag.String("config", "", "configuration file")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -gt <truth> -p1 <pre> -p2 <post> [-policy singletons|intersection] [-results path]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *gtPath == "" || *p1Path == "" || *p2Path == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.NewConfig()
	if *configPath != "" {
		if err := cfg.LoadFromFile(*configPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}
	if *policyFlag != "" {
		cfg.Set("accuracy.policy", *policyFlag)
	}
	if *resultsPath != "" {
		cfg.Set("accuracy.results_file", *resultsPath)
	}
	log.Logger = cfg.CreateLogger()

	policy, err := cfg.AccuracyPolicy()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid policy")
	}

	paths := []string{*gtPath, *p1Path, *p2Path}
	assignments := make([]*membership.Membership, len(paths))
	for i, path := range paths {
		if assignments[i], err = membership.ReadFile(path); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to read membership")
		}
	}
	fmt.Println("#nodes in ground-truth:", assignments[0].Len())
	fmt.Println("#nodes in pre-CM partition:", assignments[1].Len())
	fmt.Println("#nodes in post-CM partition:", assignments[2].Len())

	aligned, fills, err := membership.Reconcile(policy, assignments...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to reconcile memberships")
	}
	switch policy {
	case membership.PolicyIntersection:
		fmt.Println("common nodes between all partitions:", len(aligned.Nodes))
	case membership.PolicySingletons:
		fmt.Println("#singletons added to post-CM clustering:", fills[1].SingletonsAdded())
	}

	truth := aligned.Sequences[0]
	gt, err := stats.SummarizeClusters(membership.SizesOf(truth), len(truth))
	if err != nil {
		log.Fatal().Err(err).Msg("Ground truth has no nodes")
	}
	fmt.Println("Ground-truth statistics:")
	fmt.Println("cluster count:", gt.NumClusters)
	fmt.Println("min, max, mean, median cluster sizes:", gt.Min, gt.Max, gt.Mean, gt.Median)

	var tracker *utils.ResultTracker
	if path := cfg.AccuracyResultsFile(); path != "" {
		if tracker, err = utils.NewResultTracker(path, uuid.New().String()); err != nil {
			log.Fatal().Err(err).Msg("Failed to open results file")
		}
	}

	runs := []comparison{
		{"pre-cm", "Statistics for original Leiden clustering:", *p1Path, aligned.Sequences[1], 0},
		{"post-cm", "Statistics for post-CM Leiden clustering:", *p2Path, aligned.Sequences[2], 1},
	}
	err = scoreAll(os.Stdout, tracker, *gtPath, policy, truth, runs, fills)
	if closeErr := tracker.Close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("Failed to close results file")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to score clusterings")
	}
}

// comparison is one estimated clustering to score against the ground truth.
type comparison struct {
	name, title, path string
	seq               []membership.Label
	fillIndex         int
}

// scoreAll prints a report for every comparison and records it with the tracker.
func scoreAll(w io.Writer, tracker *utils.ResultTracker, gtPath string, policy membership.Policy,
	truth []membership.Label, runs []comparison, fills []membership.FillReport) error {
	for _, run := range runs {
		report, err := accuracy.Score(truth, run.seq)
		if err != nil {
			return fmt.Errorf("failed to score %s: %w", run.name, err)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, run.title)
		report.Print(w)

		event := utils.ResultEvent{
			Name:        run.name,
			GroundTruth: gtPath,
			Estimate:    run.path,
			Policy:      string(policy),
			Report:      report,
		}
		if run.fillIndex < len(fills) {
			event.Singletons = fills[run.fillIndex].SingletonsAdded()
		}
		if err := tracker.Record(event); err != nil {
			log.Error().Err(err).Msg("Failed to record result")
		}
	}
	return nil
}
