package model

import (
	"encoding/json"
	"fmt"
)

// Severity represents the importance of an SEO finding.
// It allows ranking findings so the most damaging issues surface first.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. Lower values sort first, so
// SeverityCritical is zero. The String() method provides the wire form.
type Severity int

const (
	// SeverityCritical indicates issues that severely hurt search visibility.
	// Examples: missing title tag, missing H1, page set to noindex.
	// These findings should be fixed before anything else.
	SeverityCritical Severity = iota

	// SeverityWarning indicates issues that measurably weaken the page.
	// Examples: short title, missing canonical URL, broken links.
	// These are worth fixing but do not block indexing on their own.
	SeverityWarning

	// SeverityInfo indicates opportunities rather than defects.
	// Examples: missing Open Graph tags, no lazy-loaded images.
	// Addressing these improves presentation and performance.
	SeverityInfo
)

// String returns the serialized representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Label returns the upper-case display form used in terminal output.
func (s Severity) Label() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON serializes the severity as its lowercase string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the lowercase string form back into a Severity.
// Needed when stored reports are read back from the database.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("unmarshal severity: %w", err)
	}
	parsed, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity converts a string to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "critical":
		return SeverityCritical, nil
	case "warning":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity %q", s)
	}
}

// Severities lists all severity levels in rank order.
// Used when iterating findings grouped by severity.
var Severities = []Severity{SeverityCritical, SeverityWarning, SeverityInfo}

// Audit category identifiers. Each finding belongs to exactly one.
const (
	CategoryTitle     = "title"
	CategoryMeta      = "meta"
	CategoryHeadings  = "headings"
	CategoryContent   = "content"
	CategoryImages    = "images"
	CategoryLinks     = "links"
	CategoryTechnical = "technical"
)

// FindingInfo contains metadata about a finding type including severity,
// category, impact description, and remediation recommendation.
type FindingInfo struct {
	Severity       Severity
	Category       string
	Impact         string
	Recommendation string
}

// findingInfoMapping maps finding types to their metadata.
// This centralized mapping ensures consistent risk assessment across the tool.
//
// Design decision: We use a map rather than embedding severity in each
// evaluator because:
// 1. It allows updating risk assessments without modifying evaluator logic
// 2. It provides a single source of truth for severity and impact wording
// 3. It makes it easy to generate severity documentation
//
// A finding type with an empty Recommendation produces an issue only;
// the short meta description warning, for example, has no fixed advice.
var findingInfoMapping = map[string]FindingInfo{
	// Title
	"title_missing": {
		Severity:       SeverityCritical,
		Category:       CategoryTitle,
		Impact:         "Title is crucial for search rankings and click-through rates",
		Recommendation: "Add a descriptive title tag between 50-60 characters",
	},
	"title_short": {
		Severity:       SeverityWarning,
		Category:       CategoryTitle,
		Impact:         "Short titles may not fully describe your page content",
		Recommendation: "Expand your title to 50-60 characters",
	},
	"title_long": {
		Severity:       SeverityWarning,
		Category:       CategoryTitle,
		Impact:         "Title will be truncated in search results",
		Recommendation: "Shorten your title to under 60 characters",
	},

	// Meta
	"meta_description_missing": {
		Severity:       SeverityCritical,
		Category:       CategoryMeta,
		Impact:         "Search engines may generate their own snippet",
		Recommendation: "Add a compelling meta description of 150-160 characters",
	},
	"meta_description_short": {
		Severity: SeverityWarning,
		Category: CategoryMeta,
		Impact:   "Not utilizing full snippet space in search results",
	},
	"meta_description_long": {
		Severity: SeverityInfo,
		Category: CategoryMeta,
		Impact:   "Description will be truncated in search results",
	},
	"canonical_missing": {
		Severity:       SeverityWarning,
		Category:       CategoryMeta,
		Impact:         "May cause duplicate content issues",
		Recommendation: "Add a canonical link to prevent duplicate content issues",
	},
	"robots_noindex": {
		Severity: SeverityCritical,
		Category: CategoryMeta,
		Impact:   "Page will not appear in search results",
	},
	"og_tags_missing": {
		Severity: SeverityInfo,
		Category: CategoryMeta,
		Impact:   "Social media shares may not display optimally",
	},

	// Headings
	"h1_missing": {
		Severity:       SeverityCritical,
		Category:       CategoryHeadings,
		Impact:         "H1 is the most important on-page SEO element",
		Recommendation: "Add a single, descriptive H1 tag to your page",
	},
	"h1_multiple": {
		Severity:       SeverityWarning,
		Category:       CategoryHeadings,
		Impact:         "Having multiple H1s can dilute page focus",
		Recommendation: "Use only one H1 per page",
	},
	"h2_missing": {
		Severity: SeverityWarning,
		Category: CategoryHeadings,
		Impact:   "H2 tags help structure content for users and search engines",
	},

	// Content
	"content_thin": {
		Severity:       SeverityCritical,
		Category:       CategoryContent,
		Impact:         "Pages with very little content struggle to rank",
		Recommendation: "Add more comprehensive, valuable content (aim for 300+ words minimum)",
	},
	"content_limited": {
		Severity: SeverityWarning,
		Category: CategoryContent,
		Impact:   "More content often correlates with better rankings",
	},
	"paragraphs_few": {
		Severity: SeverityInfo,
		Category: CategoryContent,
		Impact:   "Well-structured content is easier to read",
	},

	// Images
	"alt_text_mostly_missing": {
		Severity:       SeverityCritical,
		Category:       CategoryImages,
		Impact:         "Alt text is crucial for accessibility and image SEO",
		Recommendation: "Add descriptive alt text to all images",
	},
	"alt_text_partially_missing": {
		Severity: SeverityWarning,
		Category: CategoryImages,
		Impact:   "Some images may not be indexed or accessible",
	},
	"lazy_loading_missing": {
		Severity: SeverityInfo,
		Category: CategoryImages,
		Impact:   "Lazy loading improves page performance",
	},

	// Links
	"internal_links_few": {
		Severity:       SeverityWarning,
		Category:       CategoryLinks,
		Impact:         "Internal linking helps distribute page authority",
		Recommendation: "Add more internal links to related content",
	},
	"broken_links": {
		Severity: SeverityWarning,
		Category: CategoryLinks,
		Impact:   "Broken links hurt user experience and crawlability",
	},
	"anchor_text_missing": {
		Severity: SeverityInfo,
		Category: CategoryLinks,
		Impact:   "Descriptive anchor text helps SEO",
	},

	// Technical
	"viewport_missing": {
		Severity:       SeverityCritical,
		Category:       CategoryTechnical,
		Impact:         "Page may not be mobile-friendly",
		Recommendation: "Add viewport meta tag for mobile responsiveness",
	},
	"https_missing": {
		Severity:       SeverityCritical,
		Category:       CategoryTechnical,
		Impact:         "Google prioritizes secure sites in rankings",
		Recommendation: "Migrate to HTTPS for better security and rankings",
	},
	"charset_missing": {
		Severity: SeverityInfo,
		Category: CategoryTechnical,
		Impact:   "May cause character encoding issues",
	},
	"lang_missing": {
		Severity: SeverityInfo,
		Category: CategoryTechnical,
		Impact:   "Helps search engines understand page language",
	},
	"html_too_large": {
		Severity: SeverityWarning,
		Category: CategoryTechnical,
		Impact:   "Large pages load slower and may affect rankings",
	},
	"structured_data_missing": {
		Severity:       SeverityInfo,
		Category:       CategoryTechnical,
		Impact:         "Structured data can enhance search result appearance",
		Recommendation: "Add Schema.org structured data for rich snippets",
	},
}

// GetFindingInfo returns the full finding information for a finding type.
// Returns a default FindingInfo with SeverityInfo if the type is not in the mapping.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{
		Severity: SeverityInfo,
		Impact:   "Unknown finding type. Review manually.",
	}
}
