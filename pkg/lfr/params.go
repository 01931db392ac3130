// Package lfr derives LFR benchmark parameters from the statistics of a real network and runs
// the external benchmark generator with them.
package lfr

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gilchrisn/lfr-benchmark-tools/pkg/stats"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Clamps are the limits applied to the statistics before they are passed to the generator.
type Clamps struct {
	LargeNetworkThreshold      int     `mapstructure:"large_network_threshold" yaml:"large_network_threshold" validate:"gt=0"`
	TargetNodeCount            int     `mapstructure:"target_node_count" yaml:"target_node_count" validate:"gt=0"`
	LargeNetworkMaxClusterSize int     `mapstructure:"large_network_max_cluster_size" yaml:"large_network_max_cluster_size" validate:"gt=0"`
	LowMeanDegree              float64 `mapstructure:"low_mean_degree" yaml:"low_mean_degree" validate:"gte=0"`
	LowDegreeMaxDegree         int     `mapstructure:"low_degree_max_degree" yaml:"low_degree_max_degree" validate:"gt=0"`
	MaxDegreeCap               int     `mapstructure:"max_degree_cap" yaml:"max_degree_cap" validate:"gt=0"`
	MaxClusterSizeCap          int     `mapstructure:"max_cluster_size_cap" yaml:"max_cluster_size_cap" validate:"gt=0"`
	HighMeanDegree             float64 `mapstructure:"high_mean_degree" yaml:"high_mean_degree" validate:"gte=0"`
	HighDegreeMaxClusterSize   int     `mapstructure:"high_degree_max_cluster_size" yaml:"high_degree_max_cluster_size" validate:"gt=0"`
}

// DefaultClamps returns the limits used for the published benchmarks.
func DefaultClamps() Clamps {
	return Clamps{
		LargeNetworkThreshold:      5000000,
		TargetNodeCount:            3000000,
		LargeNetworkMaxClusterSize: 1000,
		LowMeanDegree:              4,
		LowDegreeMaxDegree:         31,
		MaxDegreeCap:               1000,
		MaxClusterSizeCap:          5000,
		HighMeanDegree:             50,
		HighDegreeMaxClusterSize:   1000,
	}
}

// Params are the arguments of one benchmark run.
type Params struct {
	N    int     `json:"N" yaml:"N" validate:"gt=0"`
	K    float64 `json:"k" yaml:"k" validate:"gt=0"`
	MaxK int     `json:"maxk" yaml:"maxk" validate:"gt=0"`
	Mu   float64 `json:"mu" yaml:"mu" validate:"gte=0,lte=1"`
	MaxC int     `json:"maxc" yaml:"maxc" validate:"gtefield=MinC"`
	MinC int     `json:"minc" yaml:"minc" validate:"gte=1"`
	T1   float64 `json:"t1" yaml:"t1" validate:"gt=0"`
	T2   float64 `json:"t2" yaml:"t2" validate:"gt=0"`
}

// Validate checks that the parameters are acceptable to the generator.
func (p Params) Validate() error {
	return formatValidationError(validate.Struct(p))
}

// Validate checks that every clamp is usable.
func (c Clamps) Validate() error {
	return formatValidationError(validate.Struct(c))
}

func formatValidationError(err error) error {
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	for _, e := range validationErrs {
		if e.Param() != "" {
			return fmt.Errorf("%s: must satisfy %s=%s, got %v", e.Field(), e.Tag(), e.Param(), e.Value())
		}
		return fmt.Errorf("%s: validation failed (%s)", e.Field(), e.Tag())
	}
	return err
}

// Derive turns network statistics into benchmark parameters. It reports skip when the minimum
// community size exceeds the largest observed cluster, in which case no run should happen.
//
// The clamps apply in order: large networks are scaled down to TargetNodeCount nodes, sparse
// networks get LowDegreeMaxDegree, then the degree and cluster size caps, and finally dense
// networks get HighDegreeMaxClusterSize.
func Derive(s *stats.NetClusterStats, cmin int, c Clamps) (p Params, skip bool, err error) {
	if err := c.Validate(); err != nil {
		return Params{}, false, fmt.Errorf("invalid clamps: %w", err)
	}
	if cmin > s.MaxClusterSize {
		return Params{}, true, nil
	}

	p = Params{
		N:    s.NodeCount,
		K:    s.MeanDegree,
		MaxK: s.MaxDegree,
		Mu:   s.MixingParameter,
		MaxC: s.MaxClusterSize,
		MinC: cmin,
		T1:   s.Tau1,
		T2:   s.Tau2,
	}

	if p.N > c.LargeNetworkThreshold {
		ratio := float64(p.N) / float64(c.TargetNodeCount)
		p.N = c.TargetNodeCount
		p.MaxK = int(float64(p.MaxK) / ratio)
		p.MaxC = c.LargeNetworkMaxClusterSize
	}
	if p.K < c.LowMeanDegree {
		p.MaxK = c.LowDegreeMaxDegree
	}
	if p.MaxK > c.MaxDegreeCap {
		p.MaxK = c.MaxDegreeCap
	}
	if p.MaxC > c.MaxClusterSizeCap {
		p.MaxC = c.MaxClusterSizeCap
	}
	if p.K > c.HighMeanDegree {
		p.MaxC = c.HighDegreeMaxClusterSize
	}

	if err := p.Validate(); err != nil {
		return p, false, fmt.Errorf("invalid benchmark parameters: %w", err)
	}
	return p, false, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Args returns the command-line arguments of the benchmark generator.
func (p Params) Args() []string {
	return []string{
		"-N", strconv.Itoa(p.N),
		"-k", formatFloat(p.K),
		"-maxk", strconv.Itoa(p.MaxK),
		"-mu", formatFloat(p.Mu),
		"-maxc", strconv.Itoa(p.MaxC),
		"-minc", strconv.Itoa(p.MinC),
		"-t1", formatFloat(p.T1),
		"-t2", formatFloat(p.T2),
	}
}
