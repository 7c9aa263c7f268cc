//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Config specifies mapper parameters.
type Config struct {
	// MaxCutSize is the LUT input count K. Valid range is 1..6.
	MaxCutSize int

	// MaxCuts is the number of priority cuts P retained per signal.
	// Valid range is 1..64.
	MaxCuts int

	// AreaFlowMaxIterations bounds the area-flow pass.
	AreaFlowMaxIterations int

	// EnableDualOutput turns the dual-output candidate search on.
	EnableDualOutput bool

	// RequireSharedInput rejects dual-output candidates whose best
	// cuts share no input. This is a heuristic filter, not a
	// correctness constraint; legality is always decided by the
	// truth-table verification.
	RequireSharedInput bool

	// MaxDualCandidates bounds the number of Stage-1 candidates
	// passed to truth-table verification.
	MaxDualCandidates int

	// Structural score weights for the dual-output prefilter.
	InputCountWeight   float64
	DepthPenaltyWeight float64
	AreaFlowWeight     float64
	InputSharingWeight float64

	// Logger receives mapping diagnostics. Defaults to the logrus
	// standard logger.
	Logger logrus.FieldLogger
}

// NewConfig returns a new mapper configuration, initialized with the
// default values.
func NewConfig() *Config {
	return &Config{
		MaxCutSize:            6,
		MaxCuts:               20,
		AreaFlowMaxIterations: 10,
		EnableDualOutput:      true,
		MaxDualCandidates:     5,
		InputCountWeight:      1.0,
		DepthPenaltyWeight:    10.0,
		AreaFlowWeight:        5.0,
		InputSharingWeight:    -2.0,
	}
}

// Validate checks the configuration bounds.
func (cfg *Config) Validate() error {
	if cfg.MaxCutSize < 1 || cfg.MaxCutSize > 6 {
		return fmt.Errorf("invalid max cut size %d: must be 1..6",
			cfg.MaxCutSize)
	}
	if cfg.MaxCuts < 1 || cfg.MaxCuts > 64 {
		return fmt.Errorf("invalid max cuts per signal %d: must be 1..64",
			cfg.MaxCuts)
	}
	if cfg.AreaFlowMaxIterations < 0 {
		return fmt.Errorf("invalid area-flow iteration limit %d",
			cfg.AreaFlowMaxIterations)
	}
	if cfg.MaxDualCandidates < 1 {
		return fmt.Errorf("invalid dual candidate budget %d",
			cfg.MaxDualCandidates)
	}
	return nil
}

func (cfg *Config) logger() logrus.FieldLogger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return logrus.StandardLogger()
}
