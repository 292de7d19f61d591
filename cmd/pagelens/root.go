// Package main provides the entry point for the pagelens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for pagelens.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagelens",
		Short: "On-page SEO auditing tool",
		Long: `pagelens audits web pages for on-page SEO quality.

It fetches a page, scores it across seven categories (title, meta,
headings, content, images, links, technical), and reports prioritized
issues with actionable recommendations. Results are stored locally so
audits can be reviewed later without re-fetching.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewIssuesCmd())
	cmd.AddCommand(NewUsageCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
