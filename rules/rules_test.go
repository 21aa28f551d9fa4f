package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaronaldo/agentshield/ir"
)

func TestDefaultRegistry_TwelveDetectorsInOrder(t *testing.T) {
	reg := DefaultRegistry()
	require.Len(t, reg, 12)
	want := []string{
		"SHIELD-001", "SHIELD-002", "SHIELD-003", "SHIELD-004", "SHIELD-005",
		"SHIELD-006", "SHIELD-007", "SHIELD-008", "SHIELD-009", "SHIELD-010",
		"SHIELD-011", "SHIELD-012",
	}
	for i, d := range reg {
		assert.Equalf(t, want[i], d.Metadata().ID, "position %d", i)
	}
}

// S1 — safe calculator: a target with only arithmetic-style literal
// operations yields zero findings.
func TestEngine_SafeCalculatorYieldsNoFindings(t *testing.T) {
	target := ir.ScanTarget{Name: "calculator"}
	engine := NewEngine(DefaultRegistry())
	assert.Empty(t, engine.Run(target))
}

// S2 — vulnerable command injection: subprocess.run(cmd, shell=True)
// where cmd is a tainted parameter.
func TestCommandInjection_TaintedCommandArg(t *testing.T) {
	target := ir.ScanTarget{
		Name: "run-tool",
		Execution: ir.ExecutionSurface{
			Commands: []ir.Operation{
				{Callee: "subprocess.run", Location: ir.Location{File: "run.py", Line: 4, Column: 5},
					Args: []ir.ArgumentSource{ir.Parameter("cmd")}},
			},
		},
	}
	findings := CommandInjection{}.Run(target)
	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, "SHIELD-001", f.RuleID)
	assert.Equal(t, ir.SeverityCritical, f.Severity)
	require.NotNil(t, f.Location)
	assert.Equal(t, 4, f.Location.Line)
}

func TestCommandInjection_ConfidenceVariesByArgumentKind(t *testing.T) {
	target := func(arg ir.ArgumentSource) ir.ScanTarget {
		return ir.ScanTarget{
			Execution: ir.ExecutionSurface{
				Commands: []ir.Operation{{Callee: "subprocess.run", Args: []ir.ArgumentSource{arg}}},
			},
		}
	}

	findings := CommandInjection{}.Run(target(ir.Parameter("cmd")))
	require.Len(t, findings, 1)
	assert.Equal(t, ir.ConfidenceHigh, findings[0].Confidence, "expected a direct Parameter argument to be High confidence")

	findings = CommandInjection{}.Run(target(ir.EnvVar("CMD")))
	require.Len(t, findings, 1)
	assert.Equal(t, ir.ConfidenceMedium, findings[0].Confidence, "expected an EnvVar-sourced argument to be Medium confidence")

	findings = CommandInjection{}.Run(target(ir.Unknown()))
	require.Len(t, findings, 1)
	assert.Equal(t, ir.ConfidenceLow, findings[0].Confidence, "expected an Unknown-sourced argument to be Low confidence")
}

func TestCommandInjection_LiteralCommandNotFlagged(t *testing.T) {
	target := ir.ScanTarget{
		Execution: ir.ExecutionSurface{
			Commands: []ir.Operation{
				{Callee: "subprocess.run", Args: []ir.ArgumentSource{ir.Literal("ls -la")}},
			},
		},
	}
	assert.Empty(t, (CommandInjection{}).Run(target))
}

// S4 — async HTTP client SSRF: client.get(user_url) with a tainted
// Parameter{user_url} argument.
func TestSSRF_TaintedURLArg(t *testing.T) {
	target := ir.ScanTarget{
		Execution: ir.ExecutionSurface{
			NetworkOps: []ir.Operation{
				{Callee: "client.get", Location: ir.Location{File: "fetch.py", Line: 3, Column: 9},
					Args: []ir.ArgumentSource{ir.Parameter("user_url")}},
			},
		},
	}
	assert.Len(t, SSRF{}.Run(target), 1)
}

// S5 — library-level git command dispatcher: repo.git.log(user_args).
func TestCommandInjection_LibraryGitDispatch(t *testing.T) {
	target := ir.ScanTarget{
		Execution: ir.ExecutionSurface{
			Commands: []ir.Operation{
				{Callee: "repo.git.log", Args: []ir.ArgumentSource{ir.Parameter("user_args")}},
			},
		},
	}
	assert.Len(t, (CommandInjection{}).Run(target), 1)
}

func TestArbitraryFileAccess_EnvVarPathNotFlagged(t *testing.T) {
	target := ir.ScanTarget{
		Execution: ir.ExecutionSurface{
			FileOps: []ir.Operation{
				{Callee: "fs.readFile", Args: []ir.ArgumentSource{ir.EnvVar("DATA_DIR")}},
			},
		},
	}
	assert.Empty(t, (ArbitraryFileAccess{}).Run(target), "expected an env-sourced path to be treated as trusted")
}

func TestSSRF_EnvVarURLFlagged(t *testing.T) {
	target := ir.ScanTarget{
		Execution: ir.ExecutionSurface{
			NetworkOps: []ir.Operation{
				{Callee: "requests.post", Location: ir.Location{File: "webhook.py", Line: 2, Column: 1},
					Args: []ir.ArgumentSource{ir.EnvVar("CALLBACK_URL")}},
			},
		},
	}
	assert.Len(t, (SSRF{}).Run(target), 1, "expected an env-sourced URL to still be flagged")
}

func TestArbitraryFileAccess_SanitizedPathNotFlagged(t *testing.T) {
	target := ir.ScanTarget{
		Execution: ir.ExecutionSurface{
			FileOps: []ir.Operation{
				{Callee: "fs.readFile", Args: []ir.ArgumentSource{ir.Sanitized("validatePath")}},
			},
		},
	}
	assert.Empty(t, (ArbitraryFileAccess{}).Run(target))
}

func TestCredentialExfiltration_SecretEnvAndNetworkInSameFile(t *testing.T) {
	target := ir.ScanTarget{
		Execution: ir.ExecutionSurface{
			EnvReads: []ir.EnvVarRead{{Name: "OPENAI_API_KEY", Location: ir.Location{File: "exfil.py", Line: 1, Column: 1}}},
			NetworkOps: []ir.Operation{
				{Callee: "requests.post", Location: ir.Location{File: "exfil.py", Line: 5, Column: 1},
					Args: []ir.ArgumentSource{ir.Literal("https://evil.example/collect")}},
			},
		},
	}
	findings := CredentialExfiltration{}.Run(target)
	require.Len(t, findings, 1)
	assert.Equal(t, "SHIELD-002", findings[0].RuleID)
}

func TestCredentialExfiltration_DifferentFilesNotFlagged(t *testing.T) {
	target := ir.ScanTarget{
		Execution: ir.ExecutionSurface{
			EnvReads: []ir.EnvVarRead{{Name: "AWS_SECRET_ACCESS_KEY", Location: ir.Location{File: "config.py", Line: 1, Column: 1}}},
			NetworkOps: []ir.Operation{
				{Callee: "requests.get", Location: ir.Location{File: "other.py", Line: 1, Column: 1},
					Args: []ir.ArgumentSource{ir.Literal("https://example.com")}},
			},
		},
	}
	assert.Empty(t, (CredentialExfiltration{}).Run(target))
}

func TestRuntimePackageInstall_FlagsOutsideSetupScript(t *testing.T) {
	target := ir.ScanTarget{
		Execution: ir.ExecutionSurface{
			Commands: []ir.Operation{
				{Callee: "pip install", Location: ir.Location{File: "agent.sh", Line: 1, Column: 1}},
			},
		},
	}
	assert.Len(t, (RuntimePackageInstall{}).Run(target), 1)
}

func TestRuntimePackageInstall_SetupScriptExempt(t *testing.T) {
	target := ir.ScanTarget{
		Execution: ir.ExecutionSurface{
			Commands: []ir.Operation{
				{Callee: "pip install", Location: ir.Location{File: "setup.sh", Line: 1, Column: 1}},
			},
		},
	}
	assert.Empty(t, (RuntimePackageInstall{}).Run(target), "expected setup.sh to be exempt")
}

func TestExcessivePermissions_UnusedPermissionFlagged(t *testing.T) {
	target := ir.ScanTarget{
		Tools: []ir.ToolSurface{{Name: "fetcher", Permissions: []string{"network"}}},
	}
	assert.Len(t, ExcessivePermissions{}.Run(target), 1)
}

func TestExcessivePermissions_UsedPermissionNotFlagged(t *testing.T) {
	target := ir.ScanTarget{
		Tools: []ir.ToolSurface{{Name: "fetcher", Permissions: []string{"network"}}},
		Execution: ir.ExecutionSurface{
			NetworkOps: []ir.Operation{{Callee: "fetch", Args: []ir.ArgumentSource{ir.Literal("https://example.com")}}},
		},
	}
	assert.Empty(t, (ExcessivePermissions{}).Run(target), "expected no findings when the permission is exercised")
}
