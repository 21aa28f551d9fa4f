package output

import (
	"encoding/json"
	"io"
	"os"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/limaronaldo/agentshield/ir"
)

// SARIFFormatter renders findings as SARIF 2.1.0, for GitHub code
// scanning and similar consumers. Findings without a Location are
// target-scoped (e.g. supply-chain findings) and have no physical
// place to anchor a SARIF result, so they are omitted here — callers
// that need them should also render a text or JSON report.
type SARIFFormatter struct {
	writer io.Writer
}

// NewSARIFFormatter creates a formatter writing to stdout.
func NewSARIFFormatter() *SARIFFormatter {
	return &SARIFFormatter{writer: os.Stdout}
}

// NewSARIFFormatterWithWriter creates a formatter with a custom
// writer, for tests.
func NewSARIFFormatterWithWriter(w io.Writer) *SARIFFormatter {
	return &SARIFFormatter{writer: w}
}

// Format writes the SARIF document.
func (f *SARIFFormatter) Format(findings []ir.Finding) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}

	run := sarif.NewRunWithInformationURI("agentshield", "https://github.com/limaronaldo/agentshield")

	seen := make(map[string]bool)
	for _, fnd := range findings {
		if seen[fnd.RuleID] {
			continue
		}
		seen[fnd.RuleID] = true

		rule := run.AddRule(fnd.RuleID).
			WithDescription(fnd.Title).
			WithName(fnd.RuleID).
			WithHelpURI("https://github.com/limaronaldo/agentshield")
		rule.WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel(severityToLevel(fnd.Severity)))
		rule.WithProperties(ruleProperties(fnd))
	}

	for _, fnd := range findings {
		if fnd.Location == nil {
			continue
		}
		f.addResult(fnd, run)
	}

	report.AddRun(run)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (f *SARIFFormatter) addResult(fnd ir.Finding, run *sarif.Run) {
	result := run.CreateResultForRule(fnd.RuleID).
		WithMessage(sarif.NewTextMessage(fnd.Title))

	region := sarif.NewRegion().WithStartLine(fnd.Location.Line)
	if fnd.Location.Column > 0 {
		region.WithStartColumn(fnd.Location.Column)
	}

	loc := sarif.NewLocation().
		WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(fnd.Location.File)).
				WithRegion(region),
		)
	result.AddLocation(loc)

	if fnd.Remediation != "" {
		result.WithProperties(map[string]interface{}{"remediation": fnd.Remediation})
	}
}

func severityToLevel(sev ir.Severity) string {
	switch sev {
	case ir.SeverityCritical, ir.SeverityHigh:
		return "error"
	case ir.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

func ruleProperties(fnd ir.Finding) map[string]interface{} {
	props := map[string]interface{}{
		"tags":              []string{"security", "agentshield"},
		"security-severity": severityScore(fnd.Severity),
		"precision":         string(fnd.Confidence),
	}
	if fnd.CWE != "" {
		props["cwe"] = fnd.CWE
	}
	return props
}

func severityScore(sev ir.Severity) string {
	switch sev {
	case ir.SeverityCritical:
		return "9.0"
	case ir.SeverityHigh:
		return "7.0"
	case ir.SeverityMedium:
		return "5.0"
	case ir.SeverityLow:
		return "3.0"
	default:
		return "1.0"
	}
}
