package rules

import (
	"fmt"
	"strings"

	"github.com/limaronaldo/agentshield/ir"
)

// CredentialExfiltration is SHIELD-002: the same file contains an
// EnvVar read of a secret-named variable and an outbound network
// operation.
type CredentialExfiltration struct{}

func (CredentialExfiltration) Metadata() Metadata {
	return Metadata{
		ID: "SHIELD-002", Title: "Credential Exfiltration", Severity: ir.SeverityCritical,
		Category: "exfiltration", DefaultConfidence: ir.ConfidenceMedium, CWE: "CWE-200",
		Remediation: "Never transmit secret-bearing environment variables over the network; route through a secrets manager.",
	}
}

func (d CredentialExfiltration) Run(target ir.ScanTarget) []ir.Finding {
	meta := d.Metadata()

	secretFiles := make(map[string]string) // file -> variable name
	for _, read := range target.Execution.EnvReads {
		if isSecretName(read.Name) {
			if _, ok := secretFiles[read.Location.File]; !ok {
				secretFiles[read.Location.File] = read.Name
			}
		}
	}
	if len(secretFiles) == 0 {
		return nil
	}

	var findings []ir.Finding
	for _, op := range target.Execution.NetworkOps {
		secretName, ok := secretFiles[op.Location.File]
		if !ok {
			continue
		}
		loc := op.Location
		findings = append(findings, ir.Finding{
			RuleID: meta.ID, Title: meta.Title, Severity: meta.Severity, Confidence: meta.DefaultConfidence,
			Location: &loc, Evidence: fmt.Sprintf("%s reads %s and calls %s", op.Location.File, secretName, op.Callee),
			Remediation: meta.Remediation, CWE: meta.CWE, Target: target.Name,
		})
	}
	return findings
}

var secretNameSuffixes = []string{"_KEY", "_SECRET", "_TOKEN"}
var secretNamePrefixes = []string{"PASSWORD", "AWS_"}
var secretNameExact = map[string]bool{"OPENAI_API_KEY": true}

// isSecretName reports whether an environment variable name matches
// the secret-named-variable heuristic.
func isSecretName(name string) bool {
	upper := strings.ToUpper(name)
	if secretNameExact[upper] {
		return true
	}
	for _, suf := range secretNameSuffixes {
		if strings.HasSuffix(upper, suf) {
			return true
		}
	}
	for _, pre := range secretNamePrefixes {
		if strings.HasPrefix(upper, pre) {
			return true
		}
	}
	return false
}
