package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/pagelens/pagelens/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)

	if !report.Success {
		md.Cautionf("Audit failed: %s", report.Error)
		md.PlainText("")
		w.writeFooter(md)
		return len(md.String()), md.Build()
	}

	w.writeScores(md, report)
	w.writeIssues(md, report)
	w.writeRecommendations(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with audit information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1("SEO Audit Report")
	md.PlainText("")

	rows := [][]string{
		{"URL", "`" + report.URL + "`"},
	}
	if !report.AnalyzedAt.IsZero() {
		rows = append(rows, []string{"Audited", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST")})
	}
	if report.Success {
		rows = append(rows,
			[]string{"Overall Score", fmt.Sprintf("%.1f / 100", report.OverallScore)},
			[]string{"Grade", "**" + report.Grade + "**"},
		)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeScores writes the per-category score table and severity summary.
func (w *MarkdownWriter) writeScores(md *markdown.Markdown, report *model.Report) {
	if report.Scores == nil {
		return
	}

	md.H2("Category Scores")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Score"},
		Rows: [][]string{
			{"Title", formatScore(report.Scores.Title)},
			{"Meta", formatScore(report.Scores.Meta)},
			{"Headings", formatScore(report.Scores.Headings)},
			{"Content", formatScore(report.Scores.Content)},
			{"Images", formatScore(report.Scores.Images)},
			{"Links", formatScore(report.Scores.Links)},
			{"Technical", formatScore(report.Scores.Technical)},
		},
	})
	md.PlainText("")

	w.writeSeveritySummary(md, report)
}

// formatScore renders a score with one decimal place.
func formatScore(score float64) string {
	return fmt.Sprintf("%.1f", score)
}

// writeSeveritySummary writes issue counts per severity with a pie chart.
func (w *MarkdownWriter) writeSeveritySummary(md *markdown.Markdown, report *model.Report) {
	critical := report.CountBySeverity(model.SeverityCritical)
	warning := report.CountBySeverity(model.SeverityWarning)
	info := report.CountBySeverity(model.SeverityInfo)

	md.H2("Severity Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Critical", strconv.Itoa(critical)},
			{"🟡 Warning", strconv.Itoa(warning)},
			{"⚪ Info", strconv.Itoa(info)},
			{"**Total**", "**" + strconv.Itoa(len(report.Issues)) + "**"},
		},
	})
	md.PlainText("")

	if len(report.Issues) > 0 {
		w.writePieChart(md, critical, warning, info)
	}

	w.writeAlert(md, report, critical, warning)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, critical, warning, info int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issue Severity Distribution"),
		piechart.WithShowData(true),
	)

	if critical > 0 {
		chart.LabelAndIntValue("Critical", uint64(critical))
	}
	if warning > 0 {
		chart.LabelAndIntValue("Warning", uint64(warning))
	}
	if info > 0 {
		chart.LabelAndIntValue("Info", uint64(info))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on severity counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.Report, critical, warning int) {
	switch {
	case critical > 0:
		md.Cautionf(
			"Critical SEO issues detected! %d critical issue(s) require immediate attention.",
			critical,
		)
	case warning > 0:
		md.Warningf(
			"%d warning(s) found. Addressing them will improve search visibility.",
			warning,
		)
	case len(report.Issues) > 0:
		md.Note("Only informational findings detected.")
	default:
		md.Tip("No SEO issues detected.")
	}
	md.PlainText("")
}

// writeIssues writes all issues grouped by severity.
func (w *MarkdownWriter) writeIssues(md *markdown.Markdown, report *model.Report) {
	md.H2("Issues")
	md.PlainText("")

	if len(report.Issues) == 0 {
		md.PlainText("No issues found.")
		md.PlainText("")
		return
	}

	severities := []struct {
		level  model.Severity
		header string
	}{
		{model.SeverityCritical, "### 🔴 Critical"},
		{model.SeverityWarning, "### 🟡 Warning"},
		{model.SeverityInfo, "### ⚪ Info"},
	}

	for _, sev := range severities {
		findings := report.FindingsBySeverity(sev.level)
		if len(findings) == 0 {
			continue
		}

		md.PlainText(sev.header)
		md.PlainText("")
		w.writeIssueTable(md, findings)
	}
}

// writeIssueTable writes a table of issues with details.
func (w *MarkdownWriter) writeIssueTable(md *markdown.Markdown, findings []model.Finding) {
	rows := make([][]string, len(findings))
	for i, f := range findings {
		impact := f.Impact
		if impact == "" {
			impact = "-"
		}

		rows[i] = []string{
			f.Category,
			f.Message,
			truncateString(impact, 80),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Issue", "Impact"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeRecommendations writes the actionable recommendations section.
func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, report *model.Report) {
	if len(report.Recommendations) == 0 {
		return
	}

	md.H2("Recommendations")
	md.PlainText("")
	md.OrderedList(report.Recommendations...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [pagelens](https://github.com/pagelens/pagelens)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
