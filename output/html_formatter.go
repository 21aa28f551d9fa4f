package output

import (
	"html/template"
	"io"
	"os"

	"github.com/limaronaldo/agentshield/ir"
)

// HTMLFormatter renders a standalone HTML report. No templating library
// appears anywhere in the reference corpus this tool is built from, so
// this is one of the few places that reaches for the standard library
// on purpose: html/template already does the one thing a third-party
// engine would add here (context-aware escaping of finding evidence and
// remediation text), so there is nothing left for a dependency to buy.
type HTMLFormatter struct {
	writer io.Writer
}

// NewHTMLFormatter creates a formatter writing to stdout.
func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{writer: os.Stdout}
}

// NewHTMLFormatterWithWriter creates a formatter with a custom writer,
// for tests.
func NewHTMLFormatterWithWriter(w io.Writer) *HTMLFormatter {
	return &HTMLFormatter{writer: w}
}

type htmlReportData struct {
	Version string
	Pass    bool
	Verdict JSONVerdict
	Groups  []htmlSeverityGroup
}

type htmlSeverityGroup struct {
	Severity ir.Severity
	Findings []JSONResult
}

var htmlReportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>agentshield scan report</title>
<style>
body { font-family: -apple-system, sans-serif; margin: 2rem; color: #1a1a1a; }
h1 { font-size: 1.4rem; }
.verdict-pass { color: #0a7d2c; font-weight: bold; }
.verdict-fail { color: #b3261e; font-weight: bold; }
.group { margin-top: 1.5rem; }
.sev-critical, .sev-high { color: #b3261e; }
.sev-medium { color: #9a6700; }
.sev-low, .sev-info { color: #444; }
.finding { border-left: 3px solid #ccc; padding: 0.4rem 0.8rem; margin-bottom: 0.6rem; }
.finding code { background: #f4f4f4; padding: 0.1rem 0.3rem; }
</style>
</head>
<body>
<h1>agentshield v{{.Version}}</h1>
<p class="{{if .Pass}}verdict-pass{{else}}verdict-fail{{end}}">
Verdict: {{if .Pass}}PASS{{else}}FAIL{{end}}
(fail_on={{.Verdict.Threshold}}, highest_observed={{.Verdict.HighestSeverityObserved}})
</p>
{{if not .Groups}}<p>No issues found.</p>{{end}}
{{range .Groups}}
<div class="group">
<h2 class="sev-{{.Severity}}">{{.Severity}} ({{len .Findings}})</h2>
{{range .Findings}}
<div class="finding">
<strong>{{.RuleID}}</strong>: {{.Title}}<br>
{{if .Location}}<code>{{.Location.File}}:{{.Location.Line}}</code><br>{{end}}
{{if not .Location}}<code>{{.Target}}</code><br>{{end}}
{{if .Evidence}}<em>{{.Evidence}}</em><br>{{end}}
{{if .Remediation}}Fix: {{.Remediation}}<br>{{end}}
{{if .CWE}}{{.CWE}}{{end}}
</div>
{{end}}
</div>
{{end}}
</body>
</html>
`))

// Format renders findings and the verdict as a self-contained HTML page.
func (f *HTMLFormatter) Format(findings []ir.Finding, verdict ir.PolicyVerdict, version string) error {
	results := buildResults(findings)
	bySeverity := make(map[ir.Severity][]JSONResult)
	for _, r := range results {
		bySeverity[r.Severity] = append(bySeverity[r.Severity], r)
	}

	data := htmlReportData{
		Version: version,
		Pass:    verdict.Pass,
		Verdict: JSONVerdict{
			Pass:                    verdict.Pass,
			Threshold:               verdict.Threshold,
			HighestSeverityObserved: verdict.HighestSeverityObserved,
		},
	}
	for _, sev := range severityOrder {
		if group := bySeverity[sev]; len(group) > 0 {
			data.Groups = append(data.Groups, htmlSeverityGroup{Severity: sev, Findings: group})
		}
	}

	return htmlReportTemplate.Execute(f.writer, data)
}
