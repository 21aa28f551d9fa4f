package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/limaronaldo/agentshield/ir"
)

// TextFormatter renders findings as human-readable text.
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a formatter writing to stdout.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{writer: os.Stdout}
}

// NewTextFormatterWithWriter creates a formatter with a custom writer,
// for tests.
func NewTextFormatterWithWriter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

var severityOrder = []ir.Severity{
	ir.SeverityCritical, ir.SeverityHigh, ir.SeverityMedium, ir.SeverityLow, ir.SeverityInfo,
}

var severityColor = map[ir.Severity]*color.Color{
	ir.SeverityCritical: color.New(color.FgRed, color.Bold),
	ir.SeverityHigh:     color.New(color.FgRed),
	ir.SeverityMedium:   color.New(color.FgYellow),
	ir.SeverityLow:      color.New(color.FgCyan),
	ir.SeverityInfo:     color.New(color.FgWhite),
}

// Format writes the full report: header, grouped findings, and a
// verdict summary line.
func (f *TextFormatter) Format(findings []ir.Finding, verdict ir.PolicyVerdict) error {
	fmt.Fprintln(f.writer, "agentshield scan")
	fmt.Fprintln(f.writer)

	if len(findings) == 0 {
		fmt.Fprintln(f.writer, "No issues found.")
		f.writeVerdict(verdict)
		return nil
	}

	grouped := groupBySeverity(findings)
	for _, sev := range severityOrder {
		group := grouped[sev]
		if len(group) == 0 {
			continue
		}
		header := fmt.Sprintf("%s (%d):", strings.ToUpper(string(sev)), len(group))
		if c, ok := severityColor[sev]; ok {
			c.Fprintln(f.writer, header)
		} else {
			fmt.Fprintln(f.writer, header)
		}
		for _, fnd := range group {
			f.writeFinding(fnd, sev)
		}
		fmt.Fprintln(f.writer)
	}

	f.writeVerdict(verdict)
	return nil
}

func (f *TextFormatter) writeFinding(fnd ir.Finding, sev ir.Severity) {
	ruleLine := fmt.Sprintf("  [%s] %s: %s", fnd.Confidence, fnd.RuleID, fnd.Title)
	if c, ok := severityColor[sev]; ok {
		c.Fprintln(f.writer, ruleLine)
	} else {
		fmt.Fprintln(f.writer, ruleLine)
	}
	if fnd.Location != nil {
		fmt.Fprintf(f.writer, "    %s:%d\n", fnd.Location.File, fnd.Location.Line)
	} else {
		fmt.Fprintf(f.writer, "    %s\n", fnd.Target)
	}
	if fnd.Evidence != "" {
		fmt.Fprintf(f.writer, "    %s\n", fnd.Evidence)
	}
	if fnd.Remediation != "" {
		fmt.Fprintf(f.writer, "    Fix: %s\n", fnd.Remediation)
	}
	if fnd.CWE != "" {
		fmt.Fprintf(f.writer, "    %s\n", fnd.CWE)
	}
}

func (f *TextFormatter) writeVerdict(verdict ir.PolicyVerdict) {
	status := "PASS"
	if !verdict.Pass {
		status = "FAIL"
	}
	fmt.Fprintf(f.writer, "Verdict: %s (fail_on=%s, highest_observed=%s)\n",
		status, verdict.Threshold, verdict.HighestSeverityObserved)
}

func groupBySeverity(findings []ir.Finding) map[ir.Severity][]ir.Finding {
	grouped := make(map[ir.Severity][]ir.Finding)
	for _, fnd := range findings {
		grouped[fnd.Severity] = append(grouped[fnd.Severity], fnd)
	}
	return grouped
}
