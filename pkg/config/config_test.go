package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/lfr"
	"github.com/gilchrisn/lfr-benchmark-tools/pkg/membership"
)

func TestDefaults(t *testing.T) {
	c := NewConfig()

	if c.LFRClamps() != lfr.DefaultClamps() {
		t.Errorf("Default clamps %+v differ from lfr defaults", c.LFRClamps())
	}
	policy, err := c.AccuracyPolicy()
	if err != nil || policy != membership.PolicySingletons {
		t.Errorf("AccuracyPolicy() = %v, %v", policy, err)
	}
	if c.LFRMinCommunity() != 1 {
		t.Errorf("Expected default cmin 1, got %d", c.LFRMinCommunity())
	}
	if c.ServerAddr() != ":8080" {
		t.Errorf("Unexpected server address %q", c.ServerAddr())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  level: debug
accuracy:
  policy: intersection
lfr:
  max_degree_cap: 500
  low_mean_degree: 2.5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewConfig()
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	clamps := c.LFRClamps()
	if clamps.MaxDegreeCap != 500 || clamps.LowMeanDegree != 2.5 {
		t.Errorf("File overrides not applied: %+v", clamps)
	}
	if clamps.MaxClusterSizeCap != 5000 {
		t.Errorf("Unset clamp lost its default: %d", clamps.MaxClusterSizeCap)
	}
	if policy, _ := c.AccuracyPolicy(); policy != membership.PolicyIntersection {
		t.Errorf("Expected intersection policy, got %v", policy)
	}
	if c.LogLevel() != "debug" {
		t.Errorf("Expected debug level, got %q", c.LogLevel())
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	if err := NewConfig().LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("LFRTOOLS_LFR_MAX_CLUSTER_SIZE_CAP", "1234")

	c := NewConfig()
	if got := c.LFRClamps().MaxClusterSizeCap; got != 1234 {
		t.Errorf("MaxClusterSizeCap = %d, want env override 1234", got)
	}
}

func TestInvalidPolicy(t *testing.T) {
	c := NewConfig()
	c.Set("accuracy.policy", "union")
	if _, err := c.AccuracyPolicy(); err == nil {
		t.Error("Expected error for unknown policy")
	}
}

func TestCreateLoggerLevel(t *testing.T) {
	c := NewConfig()
	c.Set("logging.level", "warn")

	var buf bytes.Buffer
	logger := c.CreateLoggerTo(&buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("Unexpected log output %q", out)
	}
	if !strings.Contains(out, "lfr-tools") {
		t.Errorf("Service field missing from %q", out)
	}
}
