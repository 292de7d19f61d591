package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/internal/analyzer"
	"github.com/pagelens/pagelens/internal/audit"
	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/database"
	"github.com/pagelens/pagelens/internal/extract"
	"github.com/pagelens/pagelens/internal/fetch"
	"github.com/pagelens/pagelens/internal/log"
	"github.com/pagelens/pagelens/internal/model"
	"github.com/pagelens/pagelens/internal/report"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [url...]",
		Short: "Audit one or more pages for on-page SEO quality",
		Long: `Audit fetches each page and analyzes it for on-page SEO quality.

The page is scored across seven categories:
- Title tag presence and length
- Meta description, canonical, robots, and Open Graph tags
- Heading structure (H1/H2 usage)
- Content depth (word and paragraph counts)
- Image alt text and lazy loading
- Internal, external, and broken links
- Technical signals (viewport, HTTPS, charset, lang, page size, JSON-LD)

Examples:
  # Audit a single page
  pagelens audit example.com

  # Audit multiple pages concurrently
  pagelens audit site1.example site2.example site3.example

  # Output JSON report
  pagelens audit --json example.com

  # Include contact and technology research
  pagelens audit --research example.com

  # Use a custom configuration file
  pagelens audit -c myconfig.yaml example.com

Configuration file (.pagelens) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
    staging.example.com:
      userAgent: "internal-audit/1.0"`,
		Args: cobra.ArbitraryArgs,
		RunE: runAuditCmd,
	}

	// Fetch behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each page fetch")
	cmd.Flags().Float64P("rate", "r", config.DefaultRateLimit,
		"Maximum fetches per second (0 disables rate limiting)")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header for page fetches")
	cmd.Flags().Int("limit", config.DefaultMonthlyFetchLimit,
		"Monthly fetch quota (0 disables the quota)")

	// Batch auditing flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent audits")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pagelens in current or home directory)")

	// Audit extras
	cmd.Flags().Bool("research", false,
		"Extract contact details and technology fingerprints alongside the audit")
	cmd.Flags().Bool("no-save", false,
		"Do not persist audit results to the local database")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with secret sanitization.
	// Site configs may carry auth cookies that must not leak into logs.
	verbose := getVerboseFlag(cmd)
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAudit(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.RateLimit, err = cmd.Flags().GetFloat64("rate")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MonthlyFetchLimit, err = cmd.Flags().GetInt("limit")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.Research, err = cmd.Flags().GetBool("research")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Get positional arguments (target URLs)
	cfg.Targets = args

	return cfg, nil
}

// runAudit executes the audit.
func runAudit(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Targets) == 0 {
		return errors.New("no targets provided (specify one or more URLs as arguments)")
	}

	logger.Info("starting audit",
		"targets", cfg.Targets,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
		"research", cfg.Research,
	)

	// Validate and normalize all target URLs
	for i, target := range cfg.Targets {
		normalized, err := fetch.NormalizeURL(target)
		if err != nil {
			return fmt.Errorf("invalid URL %q: %w", target, err)
		}
		cfg.Targets[i] = normalized
	}

	// Open database connection. The database also tracks the monthly
	// fetch quota, so it is opened even for --no-save runs when a quota
	// is configured.
	var db *database.AuditDB
	if cfg.SaveToDB || cfg.MonthlyFetchLimit > 0 {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Use the batch runner for parallel auditing if multiple targets
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchAudit(ctx, cfg, db, logger)
	}

	// Single target or sequential auditing
	return runSequentialAudit(ctx, cfg, db, logger)
}

// runSequentialAudit audits targets one at a time.
func runSequentialAudit(ctx context.Context, cfg *config.Config, db *database.AuditDB, logger *slog.Logger) error {
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Get site-specific configuration
		siteConfig := getSiteConfig(cfg, target)

		// Create pipeline with site-specific options
		p := createPipelineForTarget(cfg, db, logger, siteConfig)

		result := audit.NewResult(target)

		fmt.Printf("Auditing %s...\n", target)
		startTime := time.Now()

		// Execute the pipeline
		if err := p.Execute(ctx, result); err != nil {
			logger.Error("audit failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Audit error for %s: %v\n", target, err)
			// A failure report may still have been recorded; fall through
			// so the failure is visible in the report output.
			if result.Report == nil {
				continue
			}
		} else {
			elapsed := time.Since(startTime)
			fmt.Printf("Audit completed in %s\n\n", elapsed.Round(time.Millisecond))
		}

		// Generate and output report
		if err := outputResult(cfg, result); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}
	}

	return nil
}

// runBatchAudit audits multiple targets concurrently using the Runner.
func runBatchAudit(ctx context.Context, cfg *config.Config, db *database.AuditDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch audit of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	// Warn user about batch processing limitation
	if cfg.SiteConfigs != nil && len(cfg.SiteConfigs.Sites) > 0 {
		logger.Warn("batch processing uses default site config only; site-specific configs (cookies, headers) are ignored",
			"siteCount", len(cfg.SiteConfigs.Sites))
		fmt.Fprintf(os.Stderr, "Warning: Site-specific configurations are ignored in batch mode. Use sequential mode (--batch 1) to apply per-site settings.\n\n")
	}

	// Create batch runner with pipeline factory
	runner := audit.NewRunner(
		func() *audit.Pipeline {
			// Note: For batch processing, we use default site config
			// Site-specific configs would require per-target pipeline creation
			var siteConfig config.SiteConfig
			if cfg.SiteConfigs != nil {
				siteConfig = cfg.SiteConfigs.Defaults
			}
			return createPipelineForTarget(cfg, db, logger, siteConfig)
		},
		audit.WithConcurrency(cfg.BatchSize),
		audit.WithRunnerLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := runner.ProcessWithCallback(ctx, cfg.Targets, func(result *audit.Result, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Audit completed: %s\n", index+1, len(cfg.Targets), result.Target)

		if err := outputResult(cfg, result); err != nil {
			logger.Error("report failed", "target", result.Target, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch audit completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// getSiteConfig returns the site-specific configuration for a target.
// Falls back to defaults if no site-specific config exists.
func getSiteConfig(cfg *config.Config, target string) config.SiteConfig {
	if cfg.SiteConfigs == nil {
		return config.SiteConfig{}
	}

	// Try exact match first
	if _, ok := cfg.SiteConfigs.Sites[target]; ok {
		return cfg.SiteConfigs.GetSiteConfig(target)
	}

	// Config file keys are hosts without the protocol
	host := target
	for _, prefix := range []string{"http://", "https://"} {
		host = strings.TrimPrefix(host, prefix)
	}
	host = strings.SplitN(host, "/", 2)[0]

	return cfg.SiteConfigs.GetSiteConfig(host)
}

// createPipelineForTarget creates an audit pipeline with the given configuration.
func createPipelineForTarget(cfg *config.Config, db *database.AuditDB, logger *slog.Logger, siteConfig config.SiteConfig) *audit.Pipeline {
	// Site-specific User-Agent overrides the global one
	userAgent := cfg.UserAgent
	if siteConfig.UserAgent != "" {
		userAgent = siteConfig.UserAgent
	}

	clientOpts := []fetch.Option{
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(userAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithRateLimit(cfg.RateLimit),
	}
	if len(siteConfig.Headers) > 0 {
		clientOpts = append(clientOpts, fetch.WithHeaders(siteConfig.Headers))
	}
	if siteConfig.Cookie != "" {
		clientOpts = append(clientOpts, fetch.WithCookie(siteConfig.Cookie))
	}

	client := fetch.NewClient(clientOpts...)

	// Persistence only applies when saving is enabled; the quota check
	// still needs the database handle either way.
	var persistDB *database.AuditDB
	if cfg.SaveToDB {
		persistDB = db
	}

	p := audit.New(audit.WithLogger(logger))
	p.AddSteps(
		audit.NewQuotaStep(db, cfg.MonthlyFetchLimit, logger),
		audit.NewFetchStep(client, db, logger),
		audit.NewAnalyzeStep(analyzer.New(), logger),
	)
	if cfg.Research {
		p.AddStep(audit.NewResearchStep(extract.New(), logger))
	}
	p.AddStep(audit.NewPersistStep(persistDB, logger))

	return p
}

// outputResult outputs the audit report in the requested format.
func outputResult(cfg *config.Config, result *audit.Result) error {
	if result.Report == nil {
		return errors.New("no report produced")
	}

	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with secure permissions (0600)
		// Reports on pages behind a login may reveal internal content
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	writer := newReportWriter(cfg, output)
	if _, err := writer.Write(result.Report); err != nil {
		return err
	}

	// Research data is only meaningful in JSON form; append it after the
	// report so scripted consumers get both documents.
	if cfg.Research && result.Research != nil && cfg.JSONReport {
		researchWriter := report.NewJSONWriter(output, report.WithPrettyPrint())
		if _, err := researchWriter.WriteValue(result.Research); err != nil {
			return err
		}
	}

	return nil
}

// newReportWriter selects the report writer for the configured format.
func newReportWriter(cfg *config.Config, output *os.File) report.Writer {
	// JSON output carries the generating version so stored or piped
	// reports can be traced back to a release
	if cfg.JSONReport {
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	}

	// Markdown output
	if cfg.MarkdownReport {
		return report.NewMarkdownWriter(output)
	}

	// Human-readable report (default), colored only for terminals
	return report.NewSimpleWriter(output, report.WithColor(output == os.Stdout))
}

// renderReport writes a stored report with the writer matching the flags.
// Shared by the show and issues commands.
func renderReport(jsonOut, markdownOut bool, auditReport *model.Report) error {
	switch {
	case jsonOut:
		_, err := report.NewJSONWriter(os.Stdout, report.WithPrettyPrint()).Write(auditReport)
		return err
	case markdownOut:
		_, err := report.NewMarkdownWriter(os.Stdout).Write(auditReport)
		return err
	default:
		_, err := report.NewSimpleWriter(os.Stdout, report.WithColor(true)).Write(auditReport)
		return err
	}
}
