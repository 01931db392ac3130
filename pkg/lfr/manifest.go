package lfr

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the name of the run manifest inside an output directory.
const ManifestFile = "lfr_run.yaml"

// Run states recorded in a manifest.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Manifest records how an output directory was produced.
type Manifest struct {
	RunID      string    `yaml:"run_id"`
	Binary     string    `yaml:"binary"`
	Args       []string  `yaml:"args"`
	Params     Params    `yaml:"params"`
	Dir        string    `yaml:"dir"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at,omitempty"`
	Status     string    `yaml:"status"`
	ExitCode   int       `yaml:"exit_code"`
	Error      string    `yaml:"error,omitempty"`
}

// WriteManifest writes m into dir, replacing an earlier manifest.
func WriteManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest reads the manifest of an output directory.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
