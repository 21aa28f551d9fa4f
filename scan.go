// Package agentshield is the module root: it wires the adapter
// registry, rule engine, and policy layer into the single public
// entry point the core exposes, Scan.
package agentshield

import (
	"fmt"

	"github.com/limaronaldo/agentshield/adapter"
	"github.com/limaronaldo/agentshield/ir"
	"github.com/limaronaldo/agentshield/policy"
	"github.com/limaronaldo/agentshield/rules"
)

// Options mirrors the recognized scan() options from §6: output
// formatting and output destination are wrapper concerns and live
// outside the core (the CLI package), so only the options the core
// itself consumes (test-file exclusion and the policy) appear here.
type Options struct {
	IgnoreTests bool
	Policy      policy.Config
}

// ErrNoAdapter is returned when no registered adapter claims root.
type ErrNoAdapter struct{ Root string }

func (e ErrNoAdapter) Error() string {
	return fmt.Sprintf("no adapter claimed root %q", e.Root)
}

// Scan runs the full pipeline — detect → load → sanitize → detect
// rules → policy — against one root path and returns the pooled,
// policy-projected findings plus the verdict. It is single-threaded
// and synchronous: adapters run in registration order, and within an
// adapter's target, detectors run in registration order.
func Scan(root string, opts Options) ([]ir.Finding, ir.PolicyVerdict, error) {
	registry := adapter.DefaultRegistry()
	engine := rules.NewEngine(rules.DefaultRegistry())

	var targets []ir.ScanTarget
	claimed := false
	for _, a := range registry {
		if !a.Detect(root) {
			continue
		}
		claimed = true
		loaded, err := a.Load(root, opts.IgnoreTests)
		if err != nil {
			return nil, ir.PolicyVerdict{}, fmt.Errorf("loading %s target at %s: %w", a.Framework(), root, err)
		}
		targets = append(targets, loaded...)
	}
	if !claimed {
		return nil, ir.PolicyVerdict{}, ErrNoAdapter{Root: root}
	}

	var findings []ir.Finding
	for _, target := range targets {
		findings = append(findings, engine.Run(target)...)
	}

	projected, verdict := policy.Apply(findings, opts.Policy)
	return projected, verdict, nil
}
