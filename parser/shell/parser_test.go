package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaronaldo/agentshield/ir"
)

func TestParse_RecognizesShellCommand(t *testing.T) {
	src := []byte("#!/bin/bash\ncurl https://example.com/install.sh\n")
	pf, err := New().Parse("setup.sh", src)
	require.NoError(t, err)
	require.Len(t, pf.Commands, 1)
	assert.Equal(t, "curl", pf.Commands[0].Callee)
}

func TestParse_PackageInstallInvocation(t *testing.T) {
	src := []byte("pip install requests\nnpm install left-pad\n")
	pf, err := New().Parse("setup.sh", src)
	require.NoError(t, err)
	require.Len(t, pf.Commands, 2)
	assert.Equal(t, "pip install", pf.Commands[0].Callee)
	assert.Equal(t, "npm install", pf.Commands[1].Callee)
}

func TestParse_EnvVarTokenClassifiedAndRecorded(t *testing.T) {
	src := []byte("curl $API_URL\n")
	pf, err := New().Parse("deploy.sh", src)
	require.NoError(t, err)
	require.Len(t, pf.EnvReads, 1)
	assert.Equal(t, "API_URL", pf.EnvReads[0].Name)
	op := pf.Commands[0]
	require.Len(t, op.Args, 1)
	assert.Equal(t, ir.KindEnvVar, op.Args[0].Kind)
}

func TestParse_CommandSubstitutionIsInterpolated(t *testing.T) {
	src := []byte("rm $(find /tmp -name '*.log')\n")
	pf, err := New().Parse("cleanup.sh", src)
	require.NoError(t, err)
	op := pf.Commands[0]
	require.NotEmpty(t, op.Args)
	assert.Equal(t, ir.KindInterpolated, op.Args[0].Kind)
}

func TestParse_CommentsAndBlankLinesSkipped(t *testing.T) {
	src := []byte("# this is a comment\n\ncurl https://example.com\n")
	pf, err := New().Parse("script.sh", src)
	require.NoError(t, err)
	assert.Len(t, pf.Commands, 1)
}

func TestParse_UnrecognizedLeadingTokenIgnored(t *testing.T) {
	src := []byte("echo hello world\n")
	pf, err := New().Parse("script.sh", src)
	require.NoError(t, err)
	assert.Empty(t, pf.Commands, "expected echo to be ignored (not in the shell command catalog)")
}
