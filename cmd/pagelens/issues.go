package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/database"
	"github.com/pagelens/pagelens/internal/fetch"
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/report"
)

// NewIssuesCmd creates the issues command.
// This command lists stored issues grouped by severity, with optional filtering.
func NewIssuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issues [url]",
		Short: "List stored issues for an audited page",
		Long: `Issues lists the SEO problems found in the stored audit of a page,
grouped by severity, together with impact explanations and the matching
recommendations.

Examples:
  # List all issues for a page
  pagelens issues example.com

  # Show only critical issues
  pagelens issues --severity critical example.com

  # Output issues in JSON format
  pagelens issues --json example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runIssuesCmd,
	}

	cmd.Flags().StringP("severity", "s", "",
		"Filter by severity: critical, warning, or info")
	cmd.Flags().BoolP("json", "j", false,
		"Output issues in JSON format")

	return cmd
}

// runIssuesCmd executes the issues command.
func runIssuesCmd(cmd *cobra.Command, args []string) error {
	site, err := fetch.NormalizeURL(args[0])
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	severityFilter, err := cmd.Flags().GetString("severity")
	if err != nil {
		return err
	}

	var filter *model.Severity
	if severityFilter != "" {
		sev, err := model.ParseSeverity(severityFilter)
		if err != nil {
			return fmt.Errorf("invalid severity %q: use critical, warning, or info", severityFilter)
		}
		filter = &sev
	}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no audit database found (run 'pagelens audit' first): %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	auditReport, err := db.GetReport(ctx, site)
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}
	if auditReport == nil {
		return fmt.Errorf("no stored audit for %s (run 'pagelens audit %s' first)", site, site)
	}

	issues := auditReport.Issues
	if filter != nil {
		issues = auditReport.FindingsBySeverity(*filter)
	}

	if jsonOut {
		_, err := report.NewJSONWriter(os.Stdout, report.WithPrettyPrint()).WriteValue(issues)
		return err
	}

	return printIssues(auditReport, issues, filter)
}

// printIssues writes issues grouped by severity with summary counts.
func printIssues(auditReport *model.Report, issues []model.Finding, filter *model.Severity) error {
	if len(issues) == 0 {
		if filter != nil {
			fmt.Printf("No %s issues for %s.\n", filter.String(), auditReport.URL)
		} else {
			fmt.Printf("No issues for %s.\n", auditReport.URL)
		}
		return nil
	}

	fmt.Printf("Issues for %s (audited %s)\n\n",
		auditReport.URL,
		auditReport.AnalyzedAt.Format("2006-01-02 15:04"),
	)

	// Summary counts over the unfiltered report
	fmt.Printf("  critical: %d  warning: %d  info: %d\n\n",
		auditReport.CountBySeverity(model.SeverityCritical),
		auditReport.CountBySeverity(model.SeverityWarning),
		auditReport.CountBySeverity(model.SeverityInfo),
	)

	for _, severity := range model.Severities {
		if filter != nil && severity != *filter {
			continue
		}

		var matched []model.Finding
		for _, f := range issues {
			if f.Severity == severity {
				matched = append(matched, f)
			}
		}
		if len(matched) == 0 {
			continue
		}

		fmt.Printf("%s\n", severityLabel(severity))
		for _, f := range matched {
			fmt.Printf("  * %s (%s)\n", f.Message, f.Category)
			if f.Impact != "" {
				fmt.Printf("    Impact: %s\n", f.Impact)
			}
		}
		fmt.Println()
	}

	if len(auditReport.Recommendations) > 0 && filter == nil {
		fmt.Println("Recommendations:")
		for i, rec := range auditReport.Recommendations {
			fmt.Printf("  %d. %s\n", i+1, rec)
		}
	}

	return nil
}

// severityLabel returns a colored severity heading for terminal output.
func severityLabel(severity model.Severity) string {
	label := severity.Label()
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
