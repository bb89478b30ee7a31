// Package config loads the non-contractual tuning knobs of the
// key-recovery pipeline — admission threshold, step, fast-path cutoff,
// worker count — from an optional TOML file, the same way the pack's
// witnessd daemon loads its runtime configuration with
// github.com/BurntSushi/toml, falling back to built-in defaults when no
// file is given.
package config

import (
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/PierreFrn/hwsec/internal/hwsecerr"
)

// Config holds the enumerator admission-rule parameters and worker
// pool sizing. None of these are part of the engine's contract: they
// are tuning knobs (spec: "tuning knobs, not contracts").
type Config struct {
	// Threshold is T in the admission rule R_s[0]/R_s[i] <= T + step^(i-1).
	Threshold float64 `toml:"threshold"`
	// StepTA is sigma for timing-attack enumeration.
	StepTA float64 `toml:"step_ta"`
	// StepPA is sigma for power-attack enumeration.
	StepPA float64 `toml:"step_pa"`
	// FastPathMinN is the acquisition count at or above which the
	// high-N short-circuit (rank-0 product, no enumeration) applies,
	// and below which the PA low-N super-S-box mode applies.
	FastPathMinN int `toml:"fast_path_min_n"`
	// Workers is the configured worker count; zero in a file keeps the
	// default runtime.NumCPU(). rank and rescore do not read it, so it
	// does not cap their goroutines.
	Workers int `toml:"workers"`
}

// Default returns the recommended defaults of spec.md section 4.4 and
// the big-number cutoff of original_source/pa/pa.py (n_acq >= 250).
func Default() *Config {
	return &Config{
		Threshold:    1.0,
		StepTA:       0.80,
		StepPA:       0.95,
		FastPathMinN: 250,
		Workers:      runtime.NumCPU(),
	}
}

// Load reads a TOML configuration file, filling in defaults for any
// field left zero-valued. An empty path returns Default() unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	var onDisk Config
	if _, err := toml.DecodeFile(path, &onDisk); err != nil {
		return nil, hwsecerr.New(hwsecerr.BadInput, "cannot parse config %s: %v", path, err)
	}

	if onDisk.Threshold != 0 {
		cfg.Threshold = onDisk.Threshold
	}
	if onDisk.StepTA != 0 {
		cfg.StepTA = onDisk.StepTA
	}
	if onDisk.StepPA != 0 {
		cfg.StepPA = onDisk.StepPA
	}
	if onDisk.FastPathMinN != 0 {
		cfg.FastPathMinN = onDisk.FastPathMinN
	}
	if onDisk.Workers != 0 {
		cfg.Workers = onDisk.Workers
	}
	return cfg, nil
}
