package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaronaldo/agentshield/ir"
)

func TestApply_CleanFindingsPass(t *testing.T) {
	_, verdict := Apply(nil, Config{FailOn: ir.SeverityHigh})
	assert.True(t, verdict.Pass, "expected pass with no findings")
}

func TestApply_AboveThresholdFails(t *testing.T) {
	findings := []ir.Finding{{RuleID: "SHIELD-001", Severity: ir.SeverityCritical}}
	_, verdict := Apply(findings, Config{FailOn: ir.SeverityHigh})
	assert.False(t, verdict.Pass, "expected fail when a critical finding exceeds a high threshold")
	assert.Equal(t, ir.SeverityCritical, verdict.HighestSeverityObserved)
}

func TestApply_IgnoredRuleRemovedFromProjection(t *testing.T) {
	findings := []ir.Finding{
		{RuleID: "SHIELD-009", Severity: ir.SeverityMedium},
		{RuleID: "SHIELD-001", Severity: ir.SeverityCritical},
	}
	projected, verdict := Apply(findings, Config{IgnoreRules: []string{"SHIELD-009"}, FailOn: ir.SeverityHigh})
	require.Len(t, projected, 1)
	assert.Equal(t, "SHIELD-001", projected[0].RuleID)
	assert.Equal(t, ir.SeverityCritical, verdict.HighestSeverityObserved)
}

func TestApply_SeverityOverrideAffectsVerdict(t *testing.T) {
	findings := []ir.Finding{{RuleID: "SHIELD-001", Severity: ir.SeverityCritical}}
	_, verdict := Apply(findings, Config{
		Overrides: map[string]ir.Severity{"SHIELD-001": ir.SeverityLow},
		FailOn:    ir.SeverityHigh,
	})
	assert.True(t, verdict.Pass, "expected pass once the only finding is downgraded below threshold")
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	findings := []ir.Finding{{RuleID: "SHIELD-001", Severity: ir.SeverityCritical}}
	_, _ = Apply(findings, Config{Overrides: map[string]ir.Severity{"SHIELD-001": ir.SeverityLow}})
	assert.Equal(t, ir.SeverityCritical, findings[0].Severity, "expected the input slice to be untouched")
}

func TestApply_IgnoringOnlyLowSeverityDoesNotChangeHighestObserved(t *testing.T) {
	findings := []ir.Finding{
		{RuleID: "SHIELD-012", Severity: ir.SeverityLow},
		{RuleID: "SHIELD-001", Severity: ir.SeverityCritical},
	}
	_, verdict := Apply(findings, Config{IgnoreRules: []string{"SHIELD-012"}, FailOn: ir.SeverityHigh})
	assert.Equal(t, ir.SeverityCritical, verdict.HighestSeverityObserved, "ignoring a low-severity rule should not change highest_severity_observed")
}
