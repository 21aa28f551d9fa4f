// Package policy filters a finding set, rewrites severities per
// override, and computes the pass/fail verdict. Filtering is a
// projection: it never mutates the raw finding stream handed to
// non-verdict consumers.
package policy

import "github.com/limaronaldo/agentshield/ir"

// Config is the policy configuration: an ignore list, severity
// overrides, and a fail threshold.
type Config struct {
	IgnoreRules []string
	Overrides   map[string]ir.Severity
	FailOn      ir.Severity
}

// Apply returns the projected finding list (ignored rule ids removed,
// severities rewritten per override) and the resulting verdict. The
// input slice is never mutated.
func Apply(findings []ir.Finding, cfg Config) ([]ir.Finding, ir.PolicyVerdict) {
	ignored := make(map[string]bool, len(cfg.IgnoreRules))
	for _, id := range cfg.IgnoreRules {
		ignored[id] = true
	}

	projected := make([]ir.Finding, 0, len(findings))
	highest := ir.Severity("")
	for _, f := range findings {
		if ignored[f.RuleID] {
			continue
		}
		if override, ok := cfg.Overrides[f.RuleID]; ok {
			f.Severity = override
		}
		if highest == "" || f.Severity.AtLeast(highest) {
			highest = f.Severity
		}
		projected = append(projected, f)
	}

	threshold := cfg.FailOn
	if threshold == "" {
		threshold = ir.SeverityHigh
	}

	verdict := ir.PolicyVerdict{
		Threshold:               threshold,
		HighestSeverityObserved: highest,
		Pass:                    !(highest != "" && highest.AtLeast(threshold)),
	}
	return projected, verdict
}
