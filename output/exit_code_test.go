package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineExitCode_ErrorTakesPrecedence(t *testing.T) {
	assert.Equal(t, ExitCodeError, DetermineExitCode(true, true))
}

func TestDetermineExitCode_FailingVerdict(t *testing.T) {
	assert.Equal(t, ExitCodeFindings, DetermineExitCode(false, false))
}

func TestDetermineExitCode_PassingVerdict(t *testing.T) {
	assert.Equal(t, ExitCodeSuccess, DetermineExitCode(true, false))
}
