// Package supplychain analyzes a ScanTarget's DependencySurface for
// unpinned version constraints, typosquatted package names, and
// missing lockfiles. All findings it produces are locationless — they
// apply to the target, not to a file position.
package supplychain

import (
	"fmt"
	"strings"

	"github.com/limaronaldo/agentshield/ir"
)

// knownSafe is an allowlist of names that must never be flagged as
// typosquats even when they sit within edit-distance 2 of a popular
// package (e.g. "vitest" vs "pytest").
var knownSafe = map[string]bool{
	"python": true, "pip": true, "setuptools": true, "wheel": true,
	"vitest": true,
}

// popularPackages is the curated set of well-known JavaScript/Python
// package names typosquat distance is measured against.
var popularPackages = []string{
	"requests", "numpy", "pandas", "flask", "django", "boto3", "pytest",
	"pyyaml", "click", "urllib3", "httpx", "fastapi", "pydantic",
	"react", "lodash", "express", "axios", "chalk", "commander",
	"webpack", "typescript", "eslint", "jest", "mocha", "moment",
}

// Analyze runs the three supply-chain finding families over a target's
// declared dependencies.
func Analyze(target ir.ScanTarget) []ir.Finding {
	var findings []ir.Finding

	for _, dep := range target.Dependencies.Dependencies {
		if !dep.Pinned() {
			findings = append(findings, ir.Finding{
				RuleID:      "SHIELD-009",
				Title:       "Unpinned Dependency",
				Severity:    ir.SeverityMedium,
				Confidence:  ir.ConfidenceHigh,
				Evidence:    fmt.Sprintf("%s %q (%s)", dep.Name, dep.Constraint, dep.Ecosystem),
				Remediation: fmt.Sprintf("Pin %s to an exact version.", dep.Name),
				CWE:         "CWE-1104",
				Target:      target.Name,
			})
		}

		if popular, distance := nearestPopularPackage(dep.Name); popular != "" {
			findings = append(findings, ir.Finding{
				RuleID:      "SHIELD-010",
				Title:       "Typosquat",
				Severity:    ir.SeverityMedium,
				Confidence:  confidenceForDistance(distance),
				Evidence:    fmt.Sprintf("%s is %d edit(s) from popular package %s", dep.Name, distance, popular),
				Remediation: fmt.Sprintf("Verify %s is not a typosquat of %s before depending on it.", dep.Name, popular),
				CWE:         "CWE-1021",
				Target:      target.Name,
			})
		}
	}

	if len(target.Dependencies.Dependencies) > 0 && !target.Dependencies.HasLockfile {
		findings = append(findings, ir.Finding{
			RuleID:      "SHIELD-012",
			Title:       "No Lockfile",
			Severity:    ir.SeverityLow,
			Confidence:  ir.ConfidenceHigh,
			Evidence:    "no lockfile accompanies the dependency manifest",
			Remediation: "Commit a lockfile to pin the full resolved dependency tree.",
			Target:      target.Name,
		})
	}

	return findings
}

func confidenceForDistance(distance int) ir.Confidence {
	if distance <= 1 {
		return ir.ConfidenceHigh
	}
	return ir.ConfidenceMedium
}

// nearestPopularPackage returns the closest popular package name within
// the typosquat threshold (distance ≤ 2, length ≥ 4, not itself
// popular or allowlisted), or "" if none qualifies.
func nearestPopularPackage(name string) (string, int) {
	lower := strings.ToLower(name)
	if len(lower) < 4 || knownSafe[lower] || isPopular(lower) {
		return "", 0
	}

	best, bestDist := "", -1
	for _, p := range popularPackages {
		d := levenshtein(lower, p)
		if d > 2 {
			continue
		}
		if bestDist == -1 || d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, bestDist
}

func isPopular(lower string) bool {
	for _, p := range popularPackages {
		if lower == p {
			return true
		}
	}
	return false
}

// levenshtein computes the classic edit distance between two strings.
func levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	rows, cols := len(ar)+1, len(br)+1
	prev := make([]int, cols)
	curr := make([]int, cols)
	for j := 0; j < cols; j++ {
		prev[j] = j
	}
	for i := 1; i < rows; i++ {
		curr[0] = i
		for j := 1; j < cols; j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[cols-1]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
