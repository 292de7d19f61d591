package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pagelens/pagelens/internal/extract"
	"github.com/pagelens/pagelens/internal/model"
)

// AuditDB provides SQLite-based storage for audit reports, site
// research, and fetch usage counters.
//
// Design decision: We use a single database file for all sites rather
// than one file per site. This keeps listing cheap and makes
// backup/restore a single-file operation.
type AuditDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AuditDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an AuditDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*AuditDB, error) {
	dbPath := filepath.Join(dbDir, "pagelens.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AuditDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (adb *AuditDB) Close() error {
	return adb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (adb *AuditDB) createTables() error {
	schema := `
	-- Audit reports store the latest report per site as JSON,
	-- with summary columns for cheap listing
	CREATE TABLE IF NOT EXISTS audit_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site TEXT NOT NULL UNIQUE,
		analyzed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		overall_score REAL,
		grade TEXT,
		report_json TEXT NOT NULL,
		severity_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_reports_site ON audit_reports(site);
	CREATE INDEX IF NOT EXISTS idx_reports_analyzed ON audit_reports(analyzed_at);

	-- Site research stores extracted contact and technology data
	CREATE TABLE IF NOT EXISTS site_research (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site TEXT NOT NULL UNIQUE,
		extracted_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		research_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_research_site ON site_research(site);

	-- Fetch usage tracks requests per calendar month for quota checks
	CREATE TABLE IF NOT EXISTS fetch_usage (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		month TEXT NOT NULL UNIQUE,
		request_count INTEGER DEFAULT 0,
		last_updated DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport stores an audit report, replacing any previous report for
// the same site.
func (adb *AuditDB) SaveReport(ctx context.Context, report *model.Report) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	summary := map[string]int{
		"critical": report.CountBySeverity(model.SeverityCritical),
		"warning":  report.CountBySeverity(model.SeverityWarning),
		"info":     report.CountBySeverity(model.SeverityInfo),
	}
	summaryJSON, _ := json.Marshal(summary) //nolint:errcheck,errchkjson // simple map; Marshal won't fail

	query := `
	INSERT INTO audit_reports (site, analyzed_at, overall_score, grade, report_json, severity_summary)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(site) DO UPDATE SET
		analyzed_at = excluded.analyzed_at,
		overall_score = excluded.overall_score,
		grade = excluded.grade,
		report_json = excluded.report_json,
		severity_summary = excluded.severity_summary
	`

	_, err = adb.db.ExecContext(ctx, query,
		report.URL,
		report.AnalyzedAt.Format(time.RFC3339),
		report.OverallScore,
		report.Grade,
		string(reportJSON),
		string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// GetReport retrieves the stored report for a site.
// Returns nil without error when the site has not been audited.
func (adb *AuditDB) GetReport(ctx context.Context, site string) (*model.Report, error) {
	query := `SELECT report_json FROM audit_reports WHERE site = ?`

	var reportJSON string
	err := adb.db.QueryRowContext(ctx, query, site).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// SiteSummary contains listing information about a stored report.
// This avoids loading full report JSON when only an overview is needed.
type SiteSummary struct {
	// Site is the audited site URL.
	Site string

	// AnalyzedAt is when the stored report was produced.
	AnalyzedAt time.Time

	// OverallScore is the stored weighted score.
	OverallScore float64

	// Grade is the stored letter grade.
	Grade string

	// SeveritySummary contains issue counts keyed by severity name.
	SeveritySummary map[string]int
}

// ListSites returns a summary of every audited site, most recent first.
func (adb *AuditDB) ListSites(ctx context.Context) ([]SiteSummary, error) {
	query := `
	SELECT site, analyzed_at, overall_score, grade, severity_summary
	FROM audit_reports
	ORDER BY analyzed_at DESC
	`

	rows, err := adb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var results []SiteSummary
	for rows.Next() {
		var summary SiteSummary
		var timestamp string
		var severityJSON sql.NullString

		if err := rows.Scan(&summary.Site, &timestamp, &summary.OverallScore, &summary.Grade, &severityJSON); err != nil {
			return nil, fmt.Errorf("failed to scan site summary: %w", err)
		}

		summary.AnalyzedAt = parseTimestamp(timestamp)

		if severityJSON.Valid && severityJSON.String != "" {
			if err := json.Unmarshal([]byte(severityJSON.String), &summary.SeveritySummary); err != nil {
				summary.SeveritySummary = make(map[string]int)
			}
		} else {
			summary.SeveritySummary = make(map[string]int)
		}

		results = append(results, summary)
	}

	return results, rows.Err()
}

// SaveResearch stores extracted site research, replacing any previous
// research for the same site.
func (adb *AuditDB) SaveResearch(ctx context.Context, research *extract.Research) error {
	researchJSON, err := json.Marshal(research)
	if err != nil {
		return fmt.Errorf("failed to serialize research: %w", err)
	}

	query := `
	INSERT INTO site_research (site, extracted_at, research_json)
	VALUES (?, ?, ?)
	ON CONFLICT(site) DO UPDATE SET
		extracted_at = excluded.extracted_at,
		research_json = excluded.research_json
	`

	_, err = adb.db.ExecContext(ctx, query,
		research.Site,
		research.ExtractedAt.Format(time.RFC3339),
		string(researchJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save research: %w", err)
	}

	return nil
}

// GetResearch retrieves the stored research for a site.
// Returns nil without error when no research is stored.
func (adb *AuditDB) GetResearch(ctx context.Context, site string) (*extract.Research, error) {
	query := `SELECT research_json FROM site_research WHERE site = ?`

	var researchJSON string
	err := adb.db.QueryRowContext(ctx, query, site).Scan(&researchJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get research: %w", err)
	}

	var research extract.Research
	if err := json.Unmarshal([]byte(researchJSON), &research); err != nil {
		return nil, fmt.Errorf("failed to parse research: %w", err)
	}

	return &research, nil
}

// MonthKey returns the usage counter key for a point in time.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// MonthlyUsage returns the number of fetches recorded for a month.
// A month with no row counts as zero.
func (adb *AuditDB) MonthlyUsage(ctx context.Context, month string) (int, error) {
	query := `SELECT request_count FROM fetch_usage WHERE month = ?`

	var count int
	err := adb.db.QueryRowContext(ctx, query, month).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get monthly usage: %w", err)
	}

	return count, nil
}

// IncrementUsage adds one fetch to a month's counter, creating the row
// on first use.
func (adb *AuditDB) IncrementUsage(ctx context.Context, month string) error {
	query := `
	INSERT INTO fetch_usage (month, request_count, last_updated)
	VALUES (?, 1, CURRENT_TIMESTAMP)
	ON CONFLICT(month) DO UPDATE SET
		request_count = request_count + 1,
		last_updated = CURRENT_TIMESTAMP
	`

	if _, err := adb.db.ExecContext(ctx, query, month); err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}

	return nil
}

// UsageStats describes quota consumption for one month.
type UsageStats struct {
	// Month is the counter key in "YYYY-MM" form.
	Month string

	// Used is the number of fetches recorded.
	Used int

	// Limit is the configured monthly quota.
	Limit int

	// Remaining is how many fetches are left, never negative.
	Remaining int

	// Percentage is Used relative to Limit, in percent.
	Percentage float64
}

// Usage computes quota statistics for a month against a limit.
func (adb *AuditDB) Usage(ctx context.Context, month string, limit int) (*UsageStats, error) {
	used, err := adb.MonthlyUsage(ctx, month)
	if err != nil {
		return nil, err
	}

	stats := &UsageStats{
		Month: month,
		Used:  used,
		Limit: limit,
	}
	if limit > 0 {
		stats.Remaining = max(0, limit-used)
		stats.Percentage = float64(used) / float64(limit) * 100
	}
	return stats, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
