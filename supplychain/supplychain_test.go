package supplychain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/limaronaldo/agentshield/ir"
)

func hasRule(findings []ir.Finding, ruleID string) bool {
	for _, f := range findings {
		if f.RuleID == ruleID {
			return true
		}
	}
	return false
}

func TestAnalyze_UnpinnedDependency(t *testing.T) {
	target := ir.ScanTarget{
		Name: "demo",
		Dependencies: ir.DependencySurface{
			Dependencies: []ir.Dependency{{Name: "requests", Constraint: "^2.0.0", Ecosystem: "npm"}},
			HasLockfile:  true,
		},
	}
	findings := Analyze(target)
	assert.True(t, hasRule(findings, "SHIELD-009"), "expected an unpinned-dependency finding, got %+v", findings)
}

func TestAnalyze_PinnedDependencyNoFinding(t *testing.T) {
	target := ir.ScanTarget{
		Name: "demo",
		Dependencies: ir.DependencySurface{
			Dependencies: []ir.Dependency{{Name: "requests", Constraint: "2.31.0", Ecosystem: "pypi"}},
			HasLockfile:  true,
		},
	}
	findings := Analyze(target)
	assert.False(t, hasRule(findings, "SHIELD-009"), "expected no unpinned-dependency finding for an exact pin, got %+v", findings)
}

func TestAnalyze_TyposquatDetected(t *testing.T) {
	target := ir.ScanTarget{
		Name: "demo",
		Dependencies: ir.DependencySurface{
			Dependencies: []ir.Dependency{{Name: "reqeusts", Constraint: "1.0.0", Ecosystem: "pypi"}},
			HasLockfile:  true,
		},
	}
	findings := Analyze(target)
	assert.True(t, hasRule(findings, "SHIELD-010"), "expected a typosquat finding for 'reqeusts', got %+v", findings)
}

func TestAnalyze_PopularPackageItselfNotFlagged(t *testing.T) {
	target := ir.ScanTarget{
		Name: "demo",
		Dependencies: ir.DependencySurface{
			Dependencies: []ir.Dependency{{Name: "requests", Constraint: "1.0.0", Ecosystem: "pypi"}},
			HasLockfile:  true,
		},
	}
	findings := Analyze(target)
	assert.False(t, hasRule(findings, "SHIELD-010"), "expected the popular package itself to not be flagged, got %+v", findings)
}

func TestAnalyze_ShortNameNeverFlagged(t *testing.T) {
	target := ir.ScanTarget{
		Name: "demo",
		Dependencies: ir.DependencySurface{
			Dependencies: []ir.Dependency{{Name: "abc", Constraint: "1.0.0", Ecosystem: "pypi"}},
			HasLockfile:  true,
		},
	}
	findings := Analyze(target)
	assert.False(t, hasRule(findings, "SHIELD-010"), "expected names shorter than 4 chars to never be flagged, got %+v", findings)
}

func TestAnalyze_PytestAndVitestCoexistWithoutTyposquatFinding(t *testing.T) {
	target := ir.ScanTarget{
		Name: "demo",
		Dependencies: ir.DependencySurface{
			Dependencies: []ir.Dependency{
				{Name: "pytest", Constraint: "7.4.0", Ecosystem: "pypi"},
				{Name: "vitest", Constraint: "1.0.0", Ecosystem: "npm"},
			},
			HasLockfile: true,
		},
	}
	findings := Analyze(target)
	assert.False(t, hasRule(findings, "SHIELD-010"), "expected pytest and vitest to coexist without a typosquat finding, got %+v", findings)
}

func TestAnalyze_NoLockfile(t *testing.T) {
	target := ir.ScanTarget{
		Name: "demo",
		Dependencies: ir.DependencySurface{
			Dependencies: []ir.Dependency{{Name: "requests", Constraint: "2.31.0", Ecosystem: "pypi"}},
			HasLockfile:  false,
		},
	}
	findings := Analyze(target)
	assert.True(t, hasRule(findings, "SHIELD-012"), "expected a no-lockfile finding, got %+v", findings)
}

func TestAnalyze_NoDependenciesNoLockfileFinding(t *testing.T) {
	target := ir.ScanTarget{Name: "demo"}
	findings := Analyze(target)
	assert.False(t, hasRule(findings, "SHIELD-012"), "expected no lockfile finding when there are no dependencies at all, got %+v", findings)
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"requests", "requests", 0},
		{"reqeusts", "requests", 2},
		{"kitten", "sitting", 3},
		{"", "abc", 3},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, levenshtein(c.a, c.b), "levenshtein(%q, %q)", c.a, c.b)
	}
}
