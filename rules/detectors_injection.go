package rules

import (
	"fmt"

	"github.com/limaronaldo/agentshield/ir"
)

// CommandInjection is SHIELD-001: any command-execution operation
// whose command argument is tainted.
type CommandInjection struct{}

func (CommandInjection) Metadata() Metadata {
	return Metadata{
		ID: "SHIELD-001", Title: "Command Injection", Severity: ir.SeverityCritical,
		Category: "injection", DefaultConfidence: ir.ConfidenceHigh, CWE: "CWE-78",
		Remediation: "Validate or allowlist the command before execution; avoid shell=True with untrusted input.",
		TreatEnvAsTainted: true,
	}
}

func (d CommandInjection) Run(target ir.ScanTarget) []ir.Finding {
	meta := d.Metadata()
	var findings []ir.Finding
	for _, op := range target.Execution.Commands {
		if len(op.Args) == 0 || !isTainted(op.Args[0], meta.TreatEnvAsTainted) {
			continue
		}
		loc := op.Location
		findings = append(findings, ir.Finding{
			RuleID: meta.ID, Title: meta.Title, Severity: meta.Severity, Confidence: confidenceFor(op.Args[0]),
			Location: &loc, Evidence: fmt.Sprintf("%s(%s, …)", op.Callee, op.Args[0].Kind),
			Remediation: meta.Remediation, CWE: meta.CWE, Target: target.Name,
		})
	}
	return findings
}

// SSRF is SHIELD-003: a network operation whose URL argument is
// tainted.
type SSRF struct{}

func (SSRF) Metadata() Metadata {
	return Metadata{
		ID: "SHIELD-003", Title: "SSRF", Severity: ir.SeverityHigh,
		Category: "injection", DefaultConfidence: ir.ConfidenceHigh, CWE: "CWE-918",
		Remediation: "Restrict outbound requests to an allowlisted set of hosts, or validate the URL before the request.",
		// An agent that reads its request target from the environment
		// (a webhook URL, a callback host) still sends attacker-supplied
		// data wherever the agent's own input routes it — the env var
		// is a pass-through, not a trust boundary.
		TreatEnvAsTainted: true,
	}
}

func (d SSRF) Run(target ir.ScanTarget) []ir.Finding {
	meta := d.Metadata()
	var findings []ir.Finding
	for _, op := range target.Execution.NetworkOps {
		if len(op.Args) == 0 || !isTainted(op.Args[0], meta.TreatEnvAsTainted) {
			continue
		}
		loc := op.Location
		findings = append(findings, ir.Finding{
			RuleID: meta.ID, Title: meta.Title, Severity: meta.Severity, Confidence: confidenceFor(op.Args[0]),
			Location: &loc, Evidence: fmt.Sprintf("%s(%s, …)", op.Callee, op.Args[0].Kind),
			Remediation: meta.Remediation, CWE: meta.CWE, Target: target.Name,
		})
	}
	return findings
}

// ArbitraryFileAccess is SHIELD-004: a file read/write whose path
// argument is tainted.
type ArbitraryFileAccess struct{}

func (ArbitraryFileAccess) Metadata() Metadata {
	return Metadata{
		ID: "SHIELD-004", Title: "Arbitrary File Access", Severity: ir.SeverityHigh,
		Category: "injection", DefaultConfidence: ir.ConfidenceHigh, CWE: "CWE-22",
		Remediation: "Resolve and validate the path against an allowed root before the filesystem operation.",
		// A path built from an environment variable is almost always an
		// operator-configured base directory (DATA_DIR, CACHE_HOME),
		// not a value an end user can steer. Treating it as tainted
		// would flag nearly every filesystem tool that honors config.
		TreatEnvAsTainted: false,
	}
}

func (d ArbitraryFileAccess) Run(target ir.ScanTarget) []ir.Finding {
	meta := d.Metadata()
	var findings []ir.Finding
	for _, op := range target.Execution.FileOps {
		if len(op.Args) == 0 || !isTainted(op.Args[0], meta.TreatEnvAsTainted) {
			continue
		}
		loc := op.Location
		findings = append(findings, ir.Finding{
			RuleID: meta.ID, Title: meta.Title, Severity: meta.Severity, Confidence: confidenceFor(op.Args[0]),
			Location: &loc, Evidence: fmt.Sprintf("%s(%s, …)", op.Callee, op.Args[0].Kind),
			Remediation: meta.Remediation, CWE: meta.CWE, Target: target.Name,
		})
	}
	return findings
}

// DynamicCodeExecution is SHIELD-011: a dynamic-eval operation whose
// code argument is tainted.
type DynamicCodeExecution struct{}

func (DynamicCodeExecution) Metadata() Metadata {
	return Metadata{
		ID: "SHIELD-011", Title: "Dynamic Code Execution", Severity: ir.SeverityCritical,
		Category: "injection", DefaultConfidence: ir.ConfidenceHigh, CWE: "CWE-95",
		Remediation: "Never evaluate untrusted text as code; replace eval/exec with a data-only interpreter.",
		TreatEnvAsTainted: true,
	}
}

func (d DynamicCodeExecution) Run(target ir.ScanTarget) []ir.Finding {
	meta := d.Metadata()
	var findings []ir.Finding
	for _, op := range target.Execution.DynamicExec {
		if len(op.Args) == 0 || !isTainted(op.Args[0], meta.TreatEnvAsTainted) {
			continue
		}
		loc := op.Location
		findings = append(findings, ir.Finding{
			RuleID: meta.ID, Title: meta.Title, Severity: meta.Severity, Confidence: confidenceFor(op.Args[0]),
			Location: &loc, Evidence: fmt.Sprintf("%s(%s, …)", op.Callee, op.Args[0].Kind),
			Remediation: meta.Remediation, CWE: meta.CWE, Target: target.Name,
		})
	}
	return findings
}
