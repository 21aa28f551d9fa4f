package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTainted_Purity(t *testing.T) {
	cases := []struct {
		name    string
		arg     ArgumentSource
		tainted bool
	}{
		{"literal", Literal("foo"), false},
		{"sanitized", Sanitized("validatePath"), false},
		{"parameter", Parameter("p"), true},
		{"env_var", EnvVar("HOME"), true},
		{"interpolated", Interpolated(), true},
		{"unknown", Unknown(), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.tainted, c.arg.IsTainted())
		})
	}
}

func TestLocation_Valid(t *testing.T) {
	assert.True(t, (Location{File: "a.py", Line: 1, Column: 1}).Valid(), "expected 1-based location to be valid")
	assert.False(t, (Location{File: "a.py", Line: 0, Column: 1}).Valid(), "expected line 0 to be invalid (1-based requirement)")
	assert.False(t, (Location{File: "a.py", Line: 1, Column: 0}).Valid(), "expected column 0 to be invalid (1-based requirement)")
}

func TestSeverity_AtLeast(t *testing.T) {
	assert.True(t, SeverityCritical.AtLeast(SeverityHigh), "critical should be at least high")
	assert.False(t, SeverityLow.AtLeast(SeverityMedium), "low should not be at least medium")
}

func TestDependency_Pinned(t *testing.T) {
	cases := []struct {
		constraint string
		pinned     bool
	}{
		{"1.2.3", true},
		{"^1.0.0", false},
		{"~1.0.0", false},
		{">=1.0.0", false},
		{"*", false},
		{"", false},
		{"==2.3.1", true}, // exact pin per the unpinned-operator list (^,~,>=,>,<=,<,~=,*)
	}
	for _, c := range cases {
		d := Dependency{Constraint: c.constraint}
		assert.Equalf(t, c.pinned, d.Pinned(), "Pinned(%q)", c.constraint)
	}
}
