package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/limaronaldo/agentshield/ir"
)

func TestSARIFFormatter_EmitsValidJSONWithOneRun(t *testing.T) {
	var buf bytes.Buffer
	f := NewSARIFFormatterWithWriter(&buf)
	findings := []ir.Finding{
		{RuleID: "SHIELD-001", Title: "Command Injection", Severity: ir.SeverityCritical,
			Confidence: ir.ConfidenceHigh, Location: &ir.Location{File: "tool.py", Line: 4, Column: 1},
			Remediation: "avoid shell=True with tainted input"},
	}

	require.NoError(t, f.Format(findings))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	runs, ok := decoded["runs"].([]interface{})
	require.True(t, ok)
	require.Len(t, runs, 1)
}

func TestSARIFFormatter_SkipsLocationlessFindings(t *testing.T) {
	var buf bytes.Buffer
	f := NewSARIFFormatterWithWriter(&buf)
	findings := []ir.Finding{
		{RuleID: "SHIELD-009", Title: "Unpinned Dependency", Severity: ir.SeverityLow},
	}

	require.NoError(t, f.Format(findings))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	run := decoded["runs"].([]interface{})[0].(map[string]interface{})
	results, _ := run["results"].([]interface{})
	require.Empty(t, results)
}
