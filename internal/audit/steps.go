package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pagelens/pagelens/internal/analyzer"
	"github.com/pagelens/pagelens/internal/database"
	"github.com/pagelens/pagelens/internal/extract"
	"github.com/pagelens/pagelens/internal/fetch"
	"github.com/pagelens/pagelens/internal/model"
)

// QuotaStep checks the monthly fetch quota before any network activity.
//
// Design decision: The quota is checked as its own step rather than inside
// the fetch step so that a quota failure is reported before a request is
// even attempted, and so the fetch step stays usable without a database.
type QuotaStep struct {
	// db holds the usage counters. Nil disables the check.
	db *database.AuditDB

	// limit is the monthly fetch quota. Zero or negative disables the check.
	limit int

	// logger for structured logging.
	logger *slog.Logger
}

// NewQuotaStep creates a quota checking step.
func NewQuotaStep(db *database.AuditDB, limit int, logger *slog.Logger) *QuotaStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuotaStep{db: db, limit: limit, logger: logger}
}

// Name returns the step name.
func (s *QuotaStep) Name() string {
	return "quota_check"
}

// Do verifies that the monthly fetch quota is not exhausted.
func (s *QuotaStep) Do(ctx context.Context, result *Result) error {
	if s.db == nil || s.limit <= 0 {
		return nil
	}

	month := database.MonthKey(time.Now())
	used, err := s.db.MonthlyUsage(ctx, month)
	if err != nil {
		return fmt.Errorf("failed to check fetch quota: %w", err)
	}

	if used >= s.limit {
		result.Report = failureReport(result.Target,
			fmt.Sprintf("monthly fetch quota exhausted (%d of %d used)", used, s.limit))
		return fmt.Errorf("%w: %d of %d fetches used in %s", fetch.ErrQuotaExceeded, used, s.limit, month)
	}

	s.logger.Debug("fetch quota ok", "month", month, "used", used, "limit", s.limit)
	return nil
}

// FetchStep downloads the target page.
type FetchStep struct {
	// client is the HTTP client used to fetch the page.
	client *fetch.Client

	// db records usage after a successful fetch. Nil disables counting.
	db *database.AuditDB

	// logger for structured logging.
	logger *slog.Logger
}

// NewFetchStep creates a page fetching step.
func NewFetchStep(client *fetch.Client, db *database.AuditDB, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{client: client, db: db, logger: logger}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do fetches the page and records quota usage.
// On failure, a failure report is stored in the result so that callers
// still have something to output and the error cause is preserved.
func (s *FetchStep) Do(ctx context.Context, result *Result) error {
	res, err := s.client.Fetch(ctx, result.Target)
	if err != nil {
		result.Report = failureReport(result.Target, err.Error())
		return fmt.Errorf("failed to fetch %s: %w", result.Target, err)
	}

	result.FinalURL = res.URL
	result.HTML = res.HTML
	result.StatusCode = res.StatusCode

	// Only successful fetches count against the quota.
	if s.db != nil {
		if err := s.db.IncrementUsage(ctx, database.MonthKey(time.Now())); err != nil {
			s.logger.Warn("failed to record fetch usage", "error", err)
		}
	}

	s.logger.Debug("page fetched",
		"url", res.URL,
		"status", res.StatusCode,
		"bytes", len(res.HTML),
	)
	return nil
}

// AnalyzeStep runs the SEO analysis over the fetched page.
type AnalyzeStep struct {
	// analyzer scores the page.
	analyzer *analyzer.Analyzer

	// logger for structured logging.
	logger *slog.Logger
}

// NewAnalyzeStep creates an analysis step.
func NewAnalyzeStep(a *analyzer.Analyzer, logger *slog.Logger) *AnalyzeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeStep{analyzer: a, logger: logger}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return "analyze"
}

// Do analyzes the fetched page. An unanalyzable page produces a failure
// report, not a step error, because that outcome is still reportable.
func (s *AnalyzeStep) Do(_ context.Context, result *Result) error {
	pageURL := result.FinalURL
	if pageURL == "" {
		pageURL = result.Target
	}

	result.Report = s.analyzer.Analyze(result.HTML, pageURL)

	s.logger.Debug("page analyzed",
		"url", pageURL,
		"score", result.Report.OverallScore,
		"grade", result.Report.Grade,
		"issues", len(result.Report.Issues),
	)
	return nil
}

// ResearchStep extracts contact details and technology fingerprints.
type ResearchStep struct {
	// extractor performs the extraction.
	extractor *extract.Extractor

	// logger for structured logging.
	logger *slog.Logger
}

// NewResearchStep creates a research extraction step.
func NewResearchStep(e *extract.Extractor, logger *slog.Logger) *ResearchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResearchStep{extractor: e, logger: logger}
}

// Name returns the step name.
func (s *ResearchStep) Name() string {
	return "research"
}

// Do extracts research data from the fetched page.
func (s *ResearchStep) Do(_ context.Context, result *Result) error {
	if result.HTML == "" {
		return nil
	}

	pageURL := result.FinalURL
	if pageURL == "" {
		pageURL = result.Target
	}

	result.Research = s.extractor.Extract(result.HTML, pageURL)

	s.logger.Debug("research extracted",
		"url", pageURL,
		"emails", len(result.Research.Emails),
		"technologies", len(result.Research.Technologies),
	)
	return nil
}

// PersistStep saves the audit outcome to the database.
type PersistStep struct {
	// db is the destination database. Nil makes this step a no-op.
	db *database.AuditDB

	// logger for structured logging.
	logger *slog.Logger
}

// NewPersistStep creates a persistence step.
func NewPersistStep(db *database.AuditDB, logger *slog.Logger) *PersistStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistStep{db: db, logger: logger}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do saves the report and research. Failed audits are not saved so that
// a transient fetch error does not overwrite the last good report.
func (s *PersistStep) Do(ctx context.Context, result *Result) error {
	if s.db == nil || result.Report == nil || !result.Report.Success {
		return nil
	}

	if err := s.db.SaveReport(ctx, result.Report); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	if result.Research != nil {
		if err := s.db.SaveResearch(ctx, result.Research); err != nil {
			return fmt.Errorf("failed to save research: %w", err)
		}
	}

	s.logger.Debug("audit persisted", "url", result.Report.URL)
	return nil
}

// failureReport builds the minimal report shape for a failed audit.
func failureReport(target, message string) *model.Report {
	return &model.Report{
		Success: false,
		URL:     target,
		Error:   message,
	}
}
