// Package config loads the TOML-shaped scan configuration file: the
// policy section (fail threshold, ignore list, severity overrides) and
// the scan section (test-file exclusion).
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/limaronaldo/agentshield/ir"
	"github.com/limaronaldo/agentshield/policy"
)

// Policy mirrors the `[policy]` TOML section.
type Policy struct {
	FailOn      string            `toml:"fail_on"`
	IgnoreRules []string          `toml:"ignore_rules"`
	Overrides   map[string]string `toml:"overrides"`
}

// Scan mirrors the `[scan]` TOML section.
type Scan struct {
	IgnoreTests bool `toml:"ignore_tests"`
}

// File is the full decoded configuration document.
type File struct {
	Policy Policy `toml:"policy"`
	Scan   Scan   `toml:"scan"`
}

// Load reads and decodes a TOML configuration file. A missing file is
// not an error — callers get a zero-value File and proceed with
// defaults (CLI flags OR-merge with configuration per §6).
func Load(path string) (File, error) {
	var f File
	if path == "" {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return f, nil
}

// PolicyConfig converts the decoded [policy] section into a
// policy.Config, validating severity strings.
func (f File) PolicyConfig() (policy.Config, error) {
	cfg := policy.Config{
		IgnoreRules: f.Policy.IgnoreRules,
	}
	if f.Policy.FailOn != "" {
		sev, err := parseSeverity(f.Policy.FailOn)
		if err != nil {
			return cfg, fmt.Errorf("policy.fail_on: %w", err)
		}
		cfg.FailOn = sev
	}
	if len(f.Policy.Overrides) > 0 {
		cfg.Overrides = make(map[string]ir.Severity, len(f.Policy.Overrides))
		for rule, sev := range f.Policy.Overrides {
			parsed, err := parseSeverity(sev)
			if err != nil {
				return cfg, fmt.Errorf("policy.overrides.%s: %w", rule, err)
			}
			cfg.Overrides[rule] = parsed
		}
	}
	return cfg, nil
}

var validSeverities = map[string]ir.Severity{
	"info": ir.SeverityInfo, "low": ir.SeverityLow, "medium": ir.SeverityMedium,
	"high": ir.SeverityHigh, "critical": ir.SeverityCritical,
}

func parseSeverity(s string) (ir.Severity, error) {
	if sev, ok := validSeverities[s]; ok {
		return sev, nil
	}
	return "", fmt.Errorf("unrecognized severity %q", s)
}

// ParseSeverityFlag validates and converts a CLI-supplied severity
// string (as used by --fail-on) into an ir.Severity.
func ParseSeverityFlag(s string) (ir.Severity, error) {
	return parseSeverity(s)
}
