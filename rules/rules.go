// Package rules implements the detection engine: an ordered sequence
// of independent Detector values, each a pure function of a
// ScanTarget's IR, with no detector base class — compliance is purely
// a matter of implementing the interface.
package rules

import "github.com/limaronaldo/agentshield/ir"

// Metadata describes a detector's stable identity, independent of any
// particular finding it emits.
type Metadata struct {
	ID                string
	Title             string
	Severity          ir.Severity
	Category          string
	DefaultConfidence ir.Confidence
	CWE               string
	Remediation       string

	// TreatEnvAsTainted controls whether an argument sourced from an
	// environment variable counts as attacker-influenced for this
	// detector. The taint-flow detectors pass it to isTainted: SHIELD-001,
	// -003 and -011 set it true, matching ir.ArgumentSource.IsTainted's
	// default, while SHIELD-004, whose sink is routinely fed from
	// operator-controlled configuration (a base directory) rather than
	// request-time input, sets it false. Detectors that do not inspect
	// argument taint leave it false and never consult it.
	TreatEnvAsTainted bool
}

// isTainted applies a detector's TreatEnvAsTainted policy on top of
// ir.ArgumentSource.IsTainted: an EnvVar source is reported tainted
// only when the policy says so, every other variant is unaffected.
func isTainted(arg ir.ArgumentSource, treatEnvAsTainted bool) bool {
	if arg.Kind == ir.KindEnvVar {
		return treatEnvAsTainted
	}
	return arg.IsTainted()
}

// confidenceFor derives a finding's confidence from the argument kind
// that triggered it, rather than a value fixed once per detector: High
// for an unmodified Parameter/Interpolated argument reaching the sink
// directly, Medium for one reached through a level of cross-file
// sanitization bookkeeping (an EnvVar source whose taint status is
// policy-determined, not observed), Low for an Unknown-sourced
// argument, where the classification itself is the weakest signal.
func confidenceFor(arg ir.ArgumentSource) ir.Confidence {
	switch arg.Kind {
	case ir.KindParameter, ir.KindInterpolated:
		return ir.ConfidenceHigh
	case ir.KindEnvVar:
		return ir.ConfidenceMedium
	case ir.KindUnknown:
		return ir.ConfidenceLow
	default:
		return ir.ConfidenceHigh
	}
}

// Detector consumes only a ScanTarget's IR — no filesystem access, no
// parser invocation — and emits zero or more findings.
type Detector interface {
	Metadata() Metadata
	Run(target ir.ScanTarget) []ir.Finding
}

// Engine runs an ordered, fixed set of detectors against scan targets.
// Output order across detectors follows registration order; within a
// detector, operation iteration order.
type Engine struct {
	detectors []Detector
}

// NewEngine builds an engine from an explicit, ordered detector list.
func NewEngine(detectors []Detector) *Engine {
	return &Engine{detectors: detectors}
}

// Run executes every registered detector against target and pools
// their findings in registration order.
func (e *Engine) Run(target ir.ScanTarget) []ir.Finding {
	var findings []ir.Finding
	for _, d := range e.detectors {
		findings = append(findings, d.Run(target)...)
	}
	return findings
}

// DefaultRegistry returns the twelve built-in SHIELD detectors in their
// canonical SHIELD-001..012 order.
func DefaultRegistry() []Detector {
	return []Detector{
		CommandInjection{},
		CredentialExfiltration{},
		SSRF{},
		ArbitraryFileAccess{},
		RuntimePackageInstall{},
		SelfModification{},
		PromptInjectionSurface{},
		ExcessivePermissions{},
		UnpinnedDependency{},
		Typosquat{},
		DynamicCodeExecution{},
		NoLockfile{},
	}
}
