package rules

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/limaronaldo/agentshield/ir"
	"github.com/limaronaldo/agentshield/parser/sinks"
)

// RuntimePackageInstall is SHIELD-005: a shell command matching a
// package-install idiom outside an obvious setup/bootstrap script.
type RuntimePackageInstall struct{}

func (RuntimePackageInstall) Metadata() Metadata {
	return Metadata{
		ID: "SHIELD-005", Title: "Runtime Package Install", Severity: ir.SeverityHigh,
		Category: "supply-chain-runtime", DefaultConfidence: ir.ConfidenceMedium, CWE: "CWE-494",
		Remediation: "Install dependencies at build time from a pinned manifest, not at runtime from agent-controlled code paths.",
	}
}

var setupScriptNames = map[string]bool{
	"setup.sh": true, "install.sh": true, "bootstrap.sh": true,
}

func (d RuntimePackageInstall) Run(target ir.ScanTarget) []ir.Finding {
	meta := d.Metadata()
	var findings []ir.Finding
	for _, op := range target.Execution.Commands {
		if !sinks.IsPackageInstallCallee(op.Callee) {
			continue
		}
		if setupScriptNames[strings.ToLower(filepath.Base(op.Location.File))] {
			continue
		}
		loc := op.Location
		findings = append(findings, ir.Finding{
			RuleID: meta.ID, Title: meta.Title, Severity: meta.Severity, Confidence: meta.DefaultConfidence,
			Location: &loc, Evidence: op.Callee,
			Remediation: meta.Remediation, CWE: meta.CWE, Target: target.Name,
		})
	}
	return findings
}

// SelfModification is SHIELD-006: a file write whose path could
// resolve within the target's own root.
type SelfModification struct{}

func (SelfModification) Metadata() Metadata {
	return Metadata{
		ID: "SHIELD-006", Title: "Self-Modification", Severity: ir.SeverityHigh,
		Category: "integrity", DefaultConfidence: ir.ConfidenceLow, CWE: "CWE-494",
		Remediation: "An agent extension should never write into its own installation directory at runtime.",
	}
}

var writeCalleeHints = []string{"write", "Write"}

func (d SelfModification) Run(target ir.ScanTarget) []ir.Finding {
	meta := d.Metadata()
	var findings []ir.Finding
	for _, op := range target.Execution.FileOps {
		if !isWriteCallee(op.Callee) || len(op.Args) == 0 {
			continue
		}
		path, ok := literalArg(op.Args[0])
		if !ok || filepath.IsAbs(path) || strings.Contains(path, "..") {
			continue
		}
		loc := op.Location
		findings = append(findings, ir.Finding{
			RuleID: meta.ID, Title: meta.Title, Severity: meta.Severity, Confidence: meta.DefaultConfidence,
			Location: &loc, Evidence: fmt.Sprintf("%s(%q)", op.Callee, path),
			Remediation: meta.Remediation, CWE: meta.CWE, Target: target.Name,
		})
	}
	return findings
}

func isWriteCallee(callee string) bool {
	for _, hint := range writeCalleeHints {
		if strings.Contains(callee, hint) {
			return true
		}
	}
	return false
}

func literalArg(arg ir.ArgumentSource) (string, bool) {
	if arg.Kind != ir.KindLiteral {
		return "", false
	}
	return arg.Text, true
}

// PromptInjectionSurface is SHIELD-007: externally-fetched text can
// flow back through a tool response without escaping. This is a
// coarse, target-level heuristic — the IR does not track per-value
// dataflow into tool responses, so any target that both exposes a
// declared tool and performs at least one network fetch is flagged at
// low confidence.
type PromptInjectionSurface struct{}

func (PromptInjectionSurface) Metadata() Metadata {
	return Metadata{
		ID: "SHIELD-007", Title: "Prompt Injection Surface", Severity: ir.SeverityMedium,
		Category: "prompt-injection", DefaultConfidence: ir.ConfidenceLow, CWE: "CWE-74",
		Remediation: "Escape or summarize externally-fetched content before returning it as a tool result.",
	}
}

func (d PromptInjectionSurface) Run(target ir.ScanTarget) []ir.Finding {
	meta := d.Metadata()
	if len(target.Tools) == 0 || len(target.Execution.NetworkOps) == 0 {
		return nil
	}
	op := target.Execution.NetworkOps[0]
	loc := op.Location
	return []ir.Finding{{
		RuleID: meta.ID, Title: meta.Title, Severity: meta.Severity, Confidence: meta.DefaultConfidence,
		Location: &loc, Evidence: fmt.Sprintf("tool %q fetches network data via %s", target.Tools[0].Name, op.Callee),
		Remediation: meta.Remediation, CWE: meta.CWE, Target: target.Name,
	}}
}

// ExcessivePermissions is SHIELD-008: a declared tool permission with
// no matching observed usage anywhere in the target.
type ExcessivePermissions struct{}

func (ExcessivePermissions) Metadata() Metadata {
	return Metadata{
		ID: "SHIELD-008", Title: "Excessive Permissions", Severity: ir.SeverityMedium,
		Category: "least-privilege", DefaultConfidence: ir.ConfidenceMedium,
		Remediation: "Remove declared permissions the tool does not exercise.",
	}
}

func (d ExcessivePermissions) Run(target ir.ScanTarget) []ir.Finding {
	meta := d.Metadata()
	var findings []ir.Finding
	for _, tool := range target.Tools {
		for _, perm := range tool.Permissions {
			if permissionObserved(target, perm) {
				continue
			}
			loc := tool.Location
			findings = append(findings, ir.Finding{
				RuleID: meta.ID, Title: meta.Title, Severity: meta.Severity, Confidence: meta.DefaultConfidence,
				Location: &loc, Evidence: fmt.Sprintf("tool %q declares %q with no matching observed usage", tool.Name, perm),
				Remediation: meta.Remediation, CWE: meta.CWE, Target: target.Name,
			})
		}
	}
	return findings
}

func permissionObserved(target ir.ScanTarget, perm string) bool {
	lower := strings.ToLower(perm)
	switch {
	case strings.Contains(lower, "write"):
		return len(target.Execution.FileOps) > 0
	case strings.Contains(lower, "read"), strings.Contains(lower, "fs"):
		return len(target.Execution.FileOps) > 0
	case strings.Contains(lower, "net"), strings.Contains(lower, "http"):
		return len(target.Execution.NetworkOps) > 0
	case strings.Contains(lower, "exec"), strings.Contains(lower, "shell"), strings.Contains(lower, "command"):
		return len(target.Execution.Commands) > 0
	default:
		// Unrecognized permission vocabulary: assume it's exercised
		// rather than risk a false Excessive Permissions finding.
		return true
	}
}
