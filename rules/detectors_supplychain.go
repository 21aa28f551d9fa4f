package rules

import (
	"github.com/limaronaldo/agentshield/ir"
	"github.com/limaronaldo/agentshield/supplychain"
)

func filterByRule(findings []ir.Finding, ruleID string) []ir.Finding {
	var out []ir.Finding
	for _, f := range findings {
		if f.RuleID == ruleID {
			out = append(out, f)
		}
	}
	return out
}

// UnpinnedDependency is SHIELD-009: see the supply-chain analyzer.
type UnpinnedDependency struct{}

func (UnpinnedDependency) Metadata() Metadata {
	return Metadata{
		ID: "SHIELD-009", Title: "Unpinned Dependency", Severity: ir.SeverityMedium,
		Category: "supply-chain", DefaultConfidence: ir.ConfidenceHigh, CWE: "CWE-1104",
	}
}

func (UnpinnedDependency) Run(target ir.ScanTarget) []ir.Finding {
	return filterByRule(supplychain.Analyze(target), "SHIELD-009")
}

// Typosquat is SHIELD-010: see the supply-chain analyzer.
type Typosquat struct{}

func (Typosquat) Metadata() Metadata {
	return Metadata{
		ID: "SHIELD-010", Title: "Typosquat", Severity: ir.SeverityMedium,
		Category: "supply-chain", DefaultConfidence: ir.ConfidenceMedium, CWE: "CWE-1021",
	}
}

func (Typosquat) Run(target ir.ScanTarget) []ir.Finding {
	return filterByRule(supplychain.Analyze(target), "SHIELD-010")
}

// NoLockfile is SHIELD-012: see the supply-chain analyzer.
type NoLockfile struct{}

func (NoLockfile) Metadata() Metadata {
	return Metadata{
		ID: "SHIELD-012", Title: "No Lockfile", Severity: ir.SeverityLow,
		Category: "supply-chain", DefaultConfidence: ir.ConfidenceHigh,
	}
}

func (NoLockfile) Run(target ir.ScanTarget) []ir.Finding {
	return filterByRule(supplychain.Analyze(target), "SHIELD-012")
}
