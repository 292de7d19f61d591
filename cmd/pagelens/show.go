package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/database"
	"github.com/pagelens/pagelens/internal/fetch"
	"github.com/pagelens/pagelens/internal/report"
)

// NewShowCmd creates the show command.
// This command displays stored audit results from the database.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [url]",
		Short: "Show a stored audit report",
		Long: `Show displays the stored audit report for a previously audited page.

Reports are stored locally when 'pagelens audit' runs without --no-save.
Only the latest report per site is kept; re-auditing replaces it.

Examples:
  # Show the stored report for a page
  pagelens show example.com

  # List all audited sites
  pagelens show --list

  # Show the stored report in JSON format
  pagelens show --json example.com

  # Show stored research data for a page
  pagelens show --research example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShowCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List all audited sites in the database")
	cmd.Flags().Bool("research", false,
		"Show stored research data instead of the audit report")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format (mutually exclusive with --json)")

	return cmd
}

// runShowCmd executes the show command.
func runShowCmd(cmd *cobra.Command, args []string) error {
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	var site string
	if !list {
		if len(args) == 0 {
			return errors.New("URL is required (use --list to see audited sites)")
		}
		site, err = fetch.NormalizeURL(args[0])
		if err != nil {
			return fmt.Errorf("invalid URL: %w", err)
		}
	}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOut && markdownOut {
		return config.ErrConflictingReportFormats
	}

	research, err := cmd.Flags().GetBool("research")
	if err != nil {
		return err
	}

	// Open database in read-only mode; show never creates it
	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no audit database found (run 'pagelens audit' first): %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if list {
		return listSites(ctx, db)
	}

	if research {
		return showResearch(ctx, db, site)
	}

	return showReport(ctx, db, site, jsonOut, markdownOut)
}

// listSites prints a summary line for every audited site.
func listSites(ctx context.Context, db *database.AuditDB) error {
	sites, err := db.ListSites(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sites: %w", err)
	}

	if len(sites) == 0 {
		fmt.Println("No audited sites in the database.")
		return nil
	}

	fmt.Printf("%-50s %-20s %6s  %-5s %s\n", "SITE", "AUDITED", "SCORE", "GRADE", "ISSUES")
	for _, s := range sites {
		issues := s.SeveritySummary["critical"] + s.SeveritySummary["warning"] + s.SeveritySummary["info"]
		fmt.Printf("%-50s %-20s %6.1f  %-5s %d\n",
			s.Site,
			s.AnalyzedAt.Format("2006-01-02 15:04"),
			s.OverallScore,
			s.Grade,
			issues,
		)
	}

	return nil
}

// showReport prints the stored report for a site.
func showReport(ctx context.Context, db *database.AuditDB, site string, jsonOut, markdownOut bool) error {
	auditReport, err := db.GetReport(ctx, site)
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}
	if auditReport == nil {
		// Not an error; the site simply has not been audited yet.
		fmt.Printf("No stored audit for %s (run 'pagelens audit %s' first).\n", site, site)
		return nil
	}

	return renderReport(jsonOut, markdownOut, auditReport)
}

// showResearch prints stored research data for a site as JSON.
func showResearch(ctx context.Context, db *database.AuditDB, site string) error {
	research, err := db.GetResearch(ctx, site)
	if err != nil {
		return fmt.Errorf("failed to load research: %w", err)
	}
	if research == nil {
		fmt.Printf("No stored research for %s (run 'pagelens audit --research %s' first).\n", site, site)
		return nil
	}

	_, err = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint()).WriteValue(research)
	return err
}
