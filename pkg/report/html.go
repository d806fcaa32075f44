package report

import (
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/silv3rshi3ld/gdpr-pii-scanner/pkg/detection"
)

// HTMLReporter renders a self-contained HTML report.
type HTMLReporter struct {
	tmpl *template.Template
}

// NewHTMLReporter returns the HTML reporter.
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{
		tmpl: template.Must(template.New("report").Parse(htmlTemplate)),
	}
}

type htmlData struct {
	Results     *detection.ScanResults
	GeneratedAt string
	Countries   []countryCount
}

type countryCount struct {
	Country string
	Count   int
}

func (r *HTMLReporter) Write(w io.Writer, results *detection.ScanResults) error {
	countries := make([]countryCount, 0, len(results.ByCountry))
	for c, n := range results.ByCountry {
		countries = append(countries, countryCount{Country: c, Count: n})
	}
	sort.Slice(countries, func(i, j int) bool { return countries[i].Count > countries[j].Count })

	return r.tmpl.Execute(w, htmlData{
		Results:     results,
		GeneratedAt: time.Now().Format(time.RFC1123),
		Countries:   countries,
	})
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>PII Scan Report</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #222; }
h1 { border-bottom: 2px solid #444; padding-bottom: .3rem; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: .4rem .6rem; text-align: left; font-size: .9rem; }
th { background: #f0f0f0; }
.severity-critical { color: #b00020; font-weight: bold; }
.severity-high { color: #d2691e; }
.severity-medium { color: #b8860b; }
.severity-low { color: #2e7d32; }
.special { background: #fde3ef; }
.summary { display: flex; gap: 2rem; margin: 1rem 0; }
.summary div { background: #f6f6f6; padding: .8rem 1.2rem; border-radius: 6px; }
.error { color: #b00020; }
footer { margin-top: 2rem; font-size: .8rem; color: #888; }
</style>
</head>
<body>
<h1>PII Scan Report</h1>

<div class="summary">
  <div><strong>{{.Results.TotalFiles}}</strong><br>files scanned</div>
  <div><strong>{{.Results.TotalMatches}}</strong><br>matches</div>
  <div><strong>{{.Results.BySeverity.Critical}}</strong><br>critical</div>
  <div><strong>{{.Results.TotalTimeMs}} ms</strong><br>scan time</div>
  {{if .Results.ExtractedFiles}}<div><strong>{{.Results.ExtractedFiles}}</strong><br>documents extracted</div>{{end}}
</div>

{{if .Countries}}
<h2>Matches by country</h2>
<table>
<tr><th>Country</th><th>Matches</th></tr>
{{range .Countries}}<tr><td>{{.Country}}</td><td>{{.Count}}</td></tr>
{{end}}
</table>
{{end}}

<h2>Findings</h2>
{{range .Results.Files}}
{{if .Error}}
<h3>{{.Path}}</h3>
<p class="error">{{.Error}}</p>
{{else if .Matches}}
<h3>{{.Path}}</h3>
<table>
<tr><th>Line</th><th>Detector</th><th>Country</th><th>Severity</th><th>Confidence</th><th>Value</th><th>GDPR</th></tr>
{{range .Matches}}
<tr{{if .GdprCategory.IsSpecial}} class="special"{{end}}>
<td>{{.Location.Line}}</td>
<td>{{.DetectorName}}</td>
<td>{{.Country}}</td>
<td class="severity-{{.Severity}}">{{.Severity}}</td>
<td>{{.Confidence}}</td>
<td><code>{{.ValueMasked}}</code></td>
<td>{{if .GdprCategory.IsSpecial}}{{.GdprCategory.Category.DisplayName}}{{else}}regular{{end}}</td>
</tr>
{{end}}
</table>
{{end}}
{{end}}

<footer>Scan {{.Results.ScanID}} &middot; generated {{.GeneratedAt}} &middot; raw values are never stored; all values shown are masked.</footer>
</body>
</html>
`
