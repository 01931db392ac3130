package lfr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/network"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// BinaryName is the generator executable inside the LFR directory.
	BinaryName = "benchmark"

	NetworkFile   = "network.dat"
	CommunityFile = "community.dat"
)

// OutputDir is the directory a run for the given statistics file and minimum community size
// writes into.
func OutputDir(statsPath string, cmin int) string {
	return strings.ReplaceAll(statsPath, ".json", "") + "_lfr_" + strconv.Itoa(cmin)
}

// Runner executes the LFR benchmark generator.
type Runner struct {
	Binary string
	Logger zerolog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner creates a runner for the generator found in lfrDir.
func NewRunner(lfrDir string, logger zerolog.Logger) (*Runner, error) {
	binary, err := filepath.Abs(filepath.Join(lfrDir, BinaryName))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve benchmark path: %w", err)
	}
	return &Runner{
		Binary: binary,
		Logger: logger,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}, nil
}

// CommandLine renders the invocation as a single shell-style line.
func (r *Runner) CommandLine(p Params) string {
	return r.Binary + " " + strings.Join(p.Args(), " ")
}

// Run creates dir if needed and runs the generator inside it. A manifest describing the run is
// written into dir before the generator starts and rewritten with the outcome afterwards.
func (r *Runner) Run(ctx context.Context, p Params, dir string) (*Manifest, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid benchmark parameters: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	m := &Manifest{
		RunID:     uuid.New().String(),
		Binary:    r.Binary,
		Args:      p.Args(),
		Params:    p,
		Dir:       dir,
		StartedAt: time.Now().UTC(),
		Status:    StatusRunning,
	}
	if err := WriteManifest(dir, m); err != nil {
		return nil, err
	}

	logger := r.Logger.With().Str("run_id", m.RunID).Logger()
	logger.Info().
		Str("dir", dir).
		Str("command", r.CommandLine(p)).
		Msg("Starting LFR benchmark")

	cmd := exec.CommandContext(ctx, r.Binary, m.Args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	runErr := cmd.Run()
	m.FinishedAt = time.Now().UTC()
	m.ExitCode = cmd.ProcessState.ExitCode() // -1 if the process never started

	if runErr != nil {
		m.Status = StatusFailed
		m.Error = runErr.Error()
		if err := WriteManifest(dir, m); err != nil {
			logger.Warn().Err(err).Msg("Failed to record failed run")
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return m, fmt.Errorf("benchmark exited with status %d: %w", exitErr.ExitCode(), runErr)
		}
		return m, fmt.Errorf("failed to run benchmark: %w", runErr)
	}

	m.Status = StatusSucceeded
	if err := WriteManifest(dir, m); err != nil {
		return m, err
	}
	logger.Info().
		Dur("duration", m.FinishedAt.Sub(m.StartedAt)).
		Msg("LFR benchmark finished")
	return m, nil
}

// ReadOutput loads the network and ground-truth communities a run left in dir. Both files use
// the generator's 1-indexed identifiers.
func ReadOutput(dir string) (*network.Graph, *membership.Membership, error) {
	g, err := network.ReadEdgeList(filepath.Join(dir, NetworkFile))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read LFR network: %w", err)
	}
	m, err := membership.ReadFile(filepath.Join(dir, CommunityFile))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read LFR communities: %w", err)
	}
	return g, m, nil
}
