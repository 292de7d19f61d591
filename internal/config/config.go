package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen for well-behaved auditing of public sites.
const (
	// DefaultTimeout is the HTTP request timeout. 30 seconds accommodates
	// slow origins without letting a single audit hang indefinitely.
	DefaultTimeout = 30 * time.Second

	// DefaultBatchSize of 5 concurrent audits balances throughput with
	// politeness. Audits are mostly network-bound, so higher values mainly
	// increase pressure on the audited sites rather than local resources.
	DefaultBatchSize = 5

	// AppName is the application name used for XDG directory paths.
	AppName = "pagelens"

	// DefaultRateLimit is the maximum fetches per second across all audits.
	// One request per second is conservative and respectful of server
	// resources. Can be adjusted via the --rate CLI flag.
	DefaultRateLimit = 1.0

	// DefaultUserAgent identifies pagelens in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows operators
	// to identify audit traffic in their logs.
	DefaultUserAgent = "pagelens/1.0 (+https://github.com/pagelens/pagelens)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultMonthlyFetchLimit is the number of page fetches allowed per
	// calendar month. The quota keeps unattended batch runs from hammering
	// sites indefinitely. Set to 0 to disable the quota.
	DefaultMonthlyFetchLimit = 500
)

// Config holds all configuration options for pagelens.
// This struct is designed to be populated from CLI flags and the config
// file, then passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Timeout is the HTTP request timeout for each page fetch.
	// This applies to individual requests, not the overall batch duration.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	// A descriptive User-Agent helps site operators identify audit traffic.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// RateLimit is the maximum fetches per second across all audits.
	// Zero or negative disables rate limiting.
	RateLimit float64

	// MonthlyFetchLimit is the number of page fetches allowed per calendar
	// month. When the quota is exhausted, audits fail until the next month
	// or until the limit is raised. Zero disables the quota.
	MonthlyFetchLimit int

	// BatchSize is the number of concurrent audits when processing
	// multiple targets. Higher values increase throughput but put more
	// load on the audited sites.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .pagelens in the current directory,
	// the user's home directory, and the XDG config directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the
	// config file. This is populated by LoadConfigFile and used when
	// fetching pages.
	SiteConfigs *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// Targets is the list of URLs to audit.
	// Must contain at least one URL. Bare host names are normalized by
	// prepending https://.
	Targets []string

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/pagelens on Linux).
	DBDir string

	// SaveToDB indicates whether to persist audit results to the database.
	// Disabled with the --no-save CLI flag.
	SaveToDB bool

	// Research enables contact and technology extraction alongside
	// the audit.
	Research bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, quota).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:           DefaultTimeout,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		RateLimit:         DefaultRateLimit,
		MonthlyFetchLimit: DefaultMonthlyFetchLimit,
		BatchSize:         DefaultBatchSize,
		DBDir:             XDGDataDir(),
		SaveToDB:          true,
	}
}

// XDGDataDir returns the XDG data directory for pagelens.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/pagelens
// On macOS: ~/Library/Application Support/pagelens
// On Windows: %LOCALAPPDATA%\pagelens
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for pagelens.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/pagelens
// On macOS: ~/Library/Application Support/pagelens
// On Windows: %APPDATA%\pagelens
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any auditing begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one target to audit
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// BatchSize must be positive; zero would mean no auditing
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// MaxBodySize must be non-negative; 0 means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// MonthlyFetchLimit must be non-negative; 0 disables the quota
	if c.MonthlyFetchLimit < 0 {
		return ErrInvalidFetchLimit
	}

	return nil
}
