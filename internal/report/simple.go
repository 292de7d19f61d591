package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/pagelens/pagelens/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and optional color-coded severity levels.
//
// Design decision: Color is off by default because plain text works in
// all terminals and is easier to pipe to files or other tools. The
// fatih/color package honors NO_COLOR and non-TTY output on its own,
// so enabling it is safe for redirected output too.
type SimpleWriter struct {
	baseWriter

	// useColor enables ANSI colors for severity labels and the grade.
	useColor bool

	// showMetrics includes the raw page metrics section.
	showMetrics bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithColor enables color-coded output.
func WithColor(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.useColor = enabled
	}
}

// WithMetrics includes the raw metrics section in the output.
func WithMetrics(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showMetrics = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter:  newBaseWriter(output),
		useColor:    false,
		showMetrics: false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)

	if !report.Success {
		sb.WriteString(fmt.Sprintf("Audit failed: %s\n", report.Error))
		sb.WriteString(strings.Repeat("=", 70))
		sb.WriteString("\n")
		return w.output.Write([]byte(sb.String()))
	}

	w.writeScores(&sb, report)
	if w.showMetrics {
		w.writeMetrics(&sb, report)
	}
	w.writeIssues(&sb, report)
	w.writeRecommendations(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with audit information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        PAGELENS SEO AUDIT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("URL:        %s\n", report.URL))
	if !report.AnalyzedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Audited:    %s\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST")))
	}
	if report.Success {
		sb.WriteString(fmt.Sprintf("Score:      %.1f / 100\n", report.OverallScore))
		sb.WriteString(fmt.Sprintf("Grade:      %s\n", w.colorGrade(report.Grade)))
	}
	sb.WriteString("\n")
}

// writeScores writes the per-category score table.
func (w *SimpleWriter) writeScores(sb *strings.Builder, report *model.Report) {
	if report.Scores == nil {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CATEGORY SCORES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	rows := []struct {
		name  string
		score float64
	}{
		{"Title", report.Scores.Title},
		{"Meta", report.Scores.Meta},
		{"Headings", report.Scores.Headings},
		{"Content", report.Scores.Content},
		{"Images", report.Scores.Images},
		{"Links", report.Scores.Links},
		{"Technical", report.Scores.Technical},
	}

	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("  %-12s %5.1f  %s\n", row.name, row.score, scoreBar(row.score)))
	}
	sb.WriteString("\n")
}

// scoreBar renders a 20-character bar proportional to the score.
func scoreBar(score float64) string {
	filled := int(score / 5)
	if filled < 0 {
		filled = 0
	}
	if filled > 20 {
		filled = 20
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 20-filled) + "]"
}

// writeMetrics writes the raw page measurements in key order.
func (w *SimpleWriter) writeMetrics(sb *strings.Builder, report *model.Report) {
	if len(report.Metrics) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PAGE METRICS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	keys := make([]string, 0, len(report.Metrics))
	for key := range report.Metrics {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		sb.WriteString(fmt.Sprintf("  %-24s %v\n", key, report.Metrics[key]))
	}
	sb.WriteString("\n")
}

// writeIssues writes all issues grouped by severity.
func (w *SimpleWriter) writeIssues(sb *strings.Builder, report *model.Report) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ISSUES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Issues) == 0 {
		sb.WriteString("  No issues found\n\n")
		return
	}

	for _, severity := range model.Severities {
		findings := report.FindingsBySeverity(severity)
		if len(findings) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("[%s] %s\n", severityIndicator(severity), w.colorSeverity(severity)))
		for _, finding := range findings {
			sb.WriteString(fmt.Sprintf("  * %s (%s)\n", finding.Message, finding.Category))
			if finding.Impact != "" {
				sb.WriteString(fmt.Sprintf("    Impact: %s\n", finding.Impact))
			}
		}
		sb.WriteString("\n")
	}
}

// writeRecommendations writes the actionable recommendations section.
func (w *SimpleWriter) writeRecommendations(sb *strings.Builder, report *model.Report) {
	if len(report.Recommendations) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RECOMMENDATIONS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for i, rec := range report.Recommendations {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, rec))
	}
	sb.WriteString("\n")
}

// severityIndicator returns a visual indicator for the severity level.
func severityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "!!!"
	case model.SeverityWarning:
		return "!"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}

// colorSeverity returns the severity label, colored when enabled.
func (w *SimpleWriter) colorSeverity(severity model.Severity) string {
	label := severity.Label()
	if !w.useColor {
		return label
	}

	switch severity {
	case model.SeverityCritical:
		return color.New(color.FgRed, color.Bold).Sprint(label)
	case model.SeverityWarning:
		return color.New(color.FgYellow).Sprint(label)
	case model.SeverityInfo:
		return color.New(color.FgCyan).Sprint(label)
	default:
		return label
	}
}

// colorGrade returns the letter grade, colored when enabled.
func (w *SimpleWriter) colorGrade(grade string) string {
	if !w.useColor {
		return grade
	}

	switch grade {
	case "A+", "A":
		return color.New(color.FgGreen, color.Bold).Sprint(grade)
	case "B", "C":
		return color.New(color.FgYellow, color.Bold).Sprint(grade)
	default:
		return color.New(color.FgRed, color.Bold).Sprint(grade)
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by pagelens\n")
	sb.WriteString("https://github.com/pagelens/pagelens\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
