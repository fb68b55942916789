// Package config loads bloomfang CLI configuration from file, environment,
// and defaults.
package config

import (
	"errors"

	"github.com/Sumatoshi-tech/bloomfang/pkg/bloom"
)

// Config is the top-level configuration struct for bloomfang.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Planner PlannerConfig `mapstructure:"planner"`
	Digest  DigestConfig  `mapstructure:"digest"`
	Output  OutputConfig  `mapstructure:"output"`
}

// PlannerConfig holds the default sizing targets for the plan command.
type PlannerConfig struct {
	Elements uint64  `mapstructure:"elements"`
	FPRate   float64 `mapstructure:"fp_rate"`
}

// DigestConfig selects the digest scheme used to derive bit positions.
type DigestConfig struct {
	Scheme string `mapstructure:"scheme"`
}

// OutputConfig holds terminal output settings.
type OutputConfig struct {
	NoColor bool `mapstructure:"no_color"`
}

// Default configuration values.
const (
	DefaultPlannerElements = uint64(100_000)
	DefaultPlannerFPRate   = 0.01
	DefaultDigestScheme    = bloom.SchemeCrypto
	DefaultOutputNoColor   = false
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidPlannerElements indicates the planner element count is zero.
	ErrInvalidPlannerElements = errors.New("planner.elements must be positive")
	// ErrInvalidPlannerFPRate indicates the false-positive rate is outside (0, 1).
	ErrInvalidPlannerFPRate = errors.New("planner.fp_rate must be strictly between 0 and 1")
	// ErrInvalidDigestScheme indicates an unknown digest scheme name.
	ErrInvalidDigestScheme = errors.New("digest.scheme must be a known scheme name")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Planner.Elements == 0 {
		return ErrInvalidPlannerElements
	}

	if c.Planner.FPRate <= 0 || c.Planner.FPRate >= 1 {
		return ErrInvalidPlannerFPRate
	}

	_, schemeErr := bloom.SchemeByName(c.Digest.Scheme)
	if schemeErr != nil {
		return ErrInvalidDigestScheme
	}

	return nil
}
