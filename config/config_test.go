package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaronaldo/agentshield/ir"
)

func TestLoad_MissingFileReturnsZeroValue(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	require.NoError(t, err)
	assert.Empty(t, f.Policy.FailOn)
}

func TestLoad_ParsesPolicyAndScanSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shield.toml")
	content := `
[policy]
fail_on = "high"
ignore_rules = ["SHIELD-012"]

[policy.overrides]
SHIELD-009 = "low"

[scan]
ignore_tests = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "high", f.Policy.FailOn)
	assert.Equal(t, []string{"SHIELD-012"}, f.Policy.IgnoreRules)
	assert.True(t, f.Scan.IgnoreTests)

	cfg, err := f.PolicyConfig()
	require.NoError(t, err)
	assert.Equal(t, ir.SeverityHigh, cfg.FailOn)
	assert.Equal(t, ir.SeverityLow, cfg.Overrides["SHIELD-009"])
}

func TestPolicyConfig_RejectsUnknownSeverity(t *testing.T) {
	f := File{Policy: Policy{FailOn: "catastrophic"}}
	_, err := f.PolicyConfig()
	assert.Error(t, err)
}
