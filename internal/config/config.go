// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package config holds CheckerConfig, the run-level knobs a checker
// invocation is parameterized by (§6 "Inputs to a checker run", §9
// design notes on ratio_margin/max_diode_count_per_gate). It is decoded
// with hclsimple.Decode into a tagged struct; a run configuration is
// read once per invocation and never edited back to disk, so there is
// no round-trip editor here.
package config

import (
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"

	checkererrors "github.com/exa-laboratories/antennacheck/internal/errors"
)

// CheckerConfig is the top-level structure for a checker run's HCL
// configuration file.
type CheckerConfig struct {
	// Database is the path to the design snapshot fixture.Load reads.
	Database string `hcl:"database"`

	// Net restricts the run to a single net by name; empty means every
	// non-special net (§4.5 checkAllNets).
	Net string `hcl:"net,optional"`

	// RatioMargin is a percentage (§9 open question, resolved as a
	// flat reduction of every fixed threshold) reducing fixed PAR/PSR/
	// CAR/CSR thresholds before comparison, a safety margin ahead of
	// foundry sign-off.
	// @default: 0
	RatioMargin float64 `hcl:"ratio_margin,optional"`

	// DiodeCell names the diode master terminal (cell/pin) the repair
	// loop inserts; empty disables the diode loop entirely.
	DiodeCell string `hcl:"diode_cell,optional"`

	// MaxDiodeCountPerGate overrides checker.DefaultMaxDiodeCountPerGate
	// when nonzero.
	// @default: 0
	MaxDiodeCountPerGate int `hcl:"max_diode_count_per_gate,optional"`

	// Workers bounds the concurrent-net fan-out in CheckAllNets; <= 1
	// runs nets sequentially.
	// @default: 1
	Workers int `hcl:"workers,optional"`

	// ReportPath is where the human-readable violation report is
	// written; empty means the report is not written to disk.
	ReportPath string `hcl:"report_path,optional"`

	// ReportIfNoViolation mirrors Options.ReportIfNoViolation.
	// @default: false
	ReportIfNoViolation bool `hcl:"report_if_no_violation,optional"`

	// LogLevel is one of debug/info/warn/error.
	// @default: "info"
	LogLevel string `hcl:"log_level,optional"`

	// LogJSON selects the structured JSON log handler over the
	// human-readable text handler.
	// @default: false
	LogJSON bool `hcl:"log_json,optional"`

	// MetricsAddr, when nonempty, is the listen address for the
	// read-only HTTP API exposing /violations and /metrics.
	MetricsAddr string `hcl:"metrics_addr,optional"`
}

// Default returns a CheckerConfig with every optional field at its
// documented default.
func Default() CheckerConfig {
	return CheckerConfig{
		Workers:  1,
		LogLevel: "info",
	}
}

// Load reads and decodes path into a CheckerConfig, filling in defaults
// for any field the file omits.
func Load(path string) (CheckerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CheckerConfig{}, checkererrors.Wrap(err, checkererrors.KindInternal, "reading checker config")
	}
	return decode(path, data)
}

func decode(filename string, data []byte) (CheckerConfig, error) {
	var cfg CheckerConfig
	if err := hclsimple.Decode(filename, data, nil, &cfg); err != nil {
		return CheckerConfig{}, checkererrors.Wrap(err, checkererrors.KindInputError, "decoding checker config")
	}
	if cfg.Database == "" {
		return CheckerConfig{}, checkererrors.New(checkererrors.KindInputError, "checker config missing required \"database\" field")
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *CheckerConfig) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}
