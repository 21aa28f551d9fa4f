package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaronaldo/agentshield/ir"
)

func TestTextFormatter_NoFindings(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatterWithWriter(&buf)
	require.NoError(t, f.Format(nil, ir.PolicyVerdict{Pass: true}))
	assert.Contains(t, buf.String(), "No issues found")
}

func TestTextFormatter_GroupsBySeverityAndWritesVerdict(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatterWithWriter(&buf)
	findings := []ir.Finding{
		{RuleID: "SHIELD-001", Title: "Command Injection", Severity: ir.SeverityCritical,
			Confidence: ir.ConfidenceHigh, Location: &ir.Location{File: "tool.py", Line: 4, Column: 1}},
		{RuleID: "SHIELD-009", Title: "Unpinned Dependency", Severity: ir.SeverityLow,
			Confidence: ir.ConfidenceMedium, Target: "mcp-server"},
	}
	verdict := ir.PolicyVerdict{Pass: false, Threshold: ir.SeverityHigh, HighestSeverityObserved: ir.SeverityCritical}

	require.NoError(t, f.Format(findings, verdict))
	out := buf.String()
	assert.Contains(t, out, "SHIELD-001")
	assert.Contains(t, out, "tool.py:4")
	assert.Contains(t, out, "Verdict: FAIL")

	critIdx := strings.Index(out, "CRITICAL")
	lowIdx := strings.Index(out, "LOW")
	require.NotEqual(t, -1, critIdx)
	require.NotEqual(t, -1, lowIdx)
	assert.Less(t, critIdx, lowIdx, "expected critical group before low group")
}
