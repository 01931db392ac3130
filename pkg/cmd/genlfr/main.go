// Command genlfr generates an LFR benchmark graph emulating a network described by a
// statistics file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/config"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/lfr"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/stats"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		statsPath  = flag.String("n", "", "network clustering statistics file path (required)")
		lfrDir     = flag.String("lp", "", "directory holding the LFR benchmark executable (required)")
		cmin       = flag.Int("cm", 0, "minimum community size (default from config, 1)")
		dryRun     = flag.Bool("dry-run", false, "print the benchmark command without running it")
		configPath = flag.String("config", "", "configuration file")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -n <stats.json> -lp <lfr dir> [-cm cmin] [-dry-run]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *statsPath == "" || *lfrDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.NewConfig()
	if *configPath != "" {
		if err := cfg.LoadFromFile(*configPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}
	if *cmin > 0 {
		cfg.Set("lfr.cmin", *cmin)
	}
	logger := cfg.CreateLogger()
	log.Logger = logger

	s, err := stats.ReadStatsFile(*statsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read statistics")
	}

	minCommunity := cfg.LFRMinCommunity()
	params, skip, err := lfr.Derive(s, minCommunity, cfg.LFRClamps())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to derive benchmark parameters")
	}
	if skip {
		log.Warn().
			Int("cmin", minCommunity).
			Int("max_cluster_size", s.MaxClusterSize).
			Msg("Minimum community size exceeds the largest cluster, nothing to generate")
		return
	}

	runner, err := lfr.NewRunner(*lfrDir, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to locate benchmark")
	}
	fmt.Println(runner.CommandLine(params))
	if *dryRun {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := lfr.OutputDir(*statsPath, minCommunity)
	manifest, err := runner.Run(ctx, params, dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("Benchmark failed")
	}
	log.Info().
		Str("run_id", manifest.RunID).
		Str("dir", dir).
		Msg("Benchmark graph generated")
}
