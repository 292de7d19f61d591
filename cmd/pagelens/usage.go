package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/database"
)

// NewUsageCmd creates the usage command.
// This command reports monthly fetch quota consumption.
func NewUsageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show monthly fetch quota usage",
		Long: `Usage shows how many page fetches have been performed this month
and how many remain within the configured quota.

Every successful fetch by 'pagelens audit' is counted against a monthly
quota so unattended batch runs cannot hammer sites indefinitely.

Examples:
  # Show usage for the current month
  pagelens usage

  # Show usage for a specific month
  pagelens usage --month 2026-07

  # Evaluate usage against a custom quota
  pagelens usage --limit 1000`,
		Args: cobra.NoArgs,
		RunE: runUsageCmd,
	}

	cmd.Flags().StringP("month", "M", "",
		"Month to report in YYYY-MM format (default: current month)")
	cmd.Flags().Int("limit", config.DefaultMonthlyFetchLimit,
		"Monthly fetch quota to evaluate against (0 disables the quota)")

	return cmd
}

// runUsageCmd executes the usage command.
func runUsageCmd(cmd *cobra.Command, _ []string) error {
	month, err := cmd.Flags().GetString("month")
	if err != nil {
		return err
	}
	if month == "" {
		month = database.MonthKey(time.Now())
	} else if _, err := time.Parse("2006-01", month); err != nil {
		return fmt.Errorf("invalid month %q: use YYYY-MM format", month)
	}

	limit, err := cmd.Flags().GetInt("limit")
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

	stats, err := db.Usage(context.Background(), month, limit)
	if err != nil {
		return fmt.Errorf("failed to load usage: %w", err)
	}

	fmt.Printf("Fetch usage for %s\n\n", stats.Month)
	fmt.Printf("  Used:      %d\n", stats.Used)
	if stats.Limit > 0 {
		fmt.Printf("  Limit:     %d\n", stats.Limit)
		fmt.Printf("  Remaining: %d\n", stats.Remaining)
		fmt.Printf("  Usage:     %.1f%%\n", stats.Percentage)
	} else {
		fmt.Println("  Limit:     disabled")
	}

	return nil
}
