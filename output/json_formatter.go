package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/limaronaldo/agentshield/ir"
)

// JSONFormatter renders findings as a single JSON document.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a formatter writing to stdout.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{writer: os.Stdout}
}

// NewJSONFormatterWithWriter creates a formatter with a custom writer,
// for tests.
func NewJSONFormatterWithWriter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// JSONOutput is the top-level document shape.
type JSONOutput struct {
	Tool    JSONTool     `json:"tool"`
	Results []JSONResult `json:"results"`
	Verdict JSONVerdict  `json:"verdict"`
}

// JSONTool carries tool identity metadata.
type JSONTool struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// JSONResult is one finding.
type JSONResult struct {
	RuleID      string         `json:"rule_id"`
	Title       string         `json:"title"`
	Severity    ir.Severity    `json:"severity"`
	Confidence  ir.Confidence  `json:"confidence"`
	Location    *JSONLocation  `json:"location,omitempty"`
	Evidence    string         `json:"evidence,omitempty"`
	Remediation string         `json:"remediation,omitempty"`
	CWE         string         `json:"cwe,omitempty"`
	Target      string         `json:"target"`
}

// JSONLocation is a 1-based file position.
type JSONLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// JSONVerdict mirrors ir.PolicyVerdict.
type JSONVerdict struct {
	Pass                    bool        `json:"pass"`
	Threshold               ir.Severity `json:"threshold"`
	HighestSeverityObserved ir.Severity `json:"highest_severity_observed"`
}

// Format encodes findings and the verdict as indented JSON.
func (f *JSONFormatter) Format(findings []ir.Finding, verdict ir.PolicyVerdict, version string) error {
	output := JSONOutput{
		Tool:    JSONTool{Name: "agentshield", Version: version},
		Results: buildResults(findings),
		Verdict: JSONVerdict{
			Pass:                    verdict.Pass,
			Threshold:               verdict.Threshold,
			HighestSeverityObserved: verdict.HighestSeverityObserved,
		},
	}
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func buildResults(findings []ir.Finding) []JSONResult {
	results := make([]JSONResult, 0, len(findings))
	for _, fnd := range findings {
		r := JSONResult{
			RuleID:      fnd.RuleID,
			Title:       fnd.Title,
			Severity:    fnd.Severity,
			Confidence:  fnd.Confidence,
			Evidence:    fnd.Evidence,
			Remediation: fnd.Remediation,
			CWE:         fnd.CWE,
			Target:      fnd.Target,
		}
		if fnd.Location != nil {
			r.Location = &JSONLocation{
				File: fnd.Location.File, Line: fnd.Location.Line, Column: fnd.Location.Column,
			}
		}
		results = append(results, r)
	}
	return results
}
