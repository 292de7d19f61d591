package model

import "time"

// Report is the result of auditing a single page.
// It contains the weighted overall score, per-category scores, raw page
// metrics, and the prioritized list of findings.
//
// Design decision: We use a single struct for both the success and
// failure shape rather than a separate error type. A failed audit is
// still a reportable outcome that writers and the database must handle,
// and the success flag plus omitempty tags keep the failure JSON minimal.
type Report struct {
	// Success is false when the page could not be analyzed at all.
	Success bool `json:"success"`

	// URL is the audited page URL.
	URL string `json:"url,omitempty"`

	// AnalyzedAt is the timestamp when the audit was performed.
	AnalyzedAt time.Time `json:"analyzed_at,omitzero"`

	// OverallScore is the weighted aggregate of all category scores,
	// rounded to one decimal place. Range 0 to 100.
	OverallScore float64 `json:"overall_score"`

	// Scores holds the per-category scores. Nil on failure.
	Scores *CategoryScores `json:"scores,omitempty"`

	// Metrics holds raw measurements taken from the page, such as
	// title_length, word_count, and is_https.
	Metrics Metrics `json:"metrics,omitempty"`

	// Issues contains all findings sorted by severity, most severe first.
	Issues []Finding `json:"issues,omitempty"`

	// Recommendations contains actionable advice in the order the
	// corresponding issues were detected.
	Recommendations []string `json:"recommendations,omitempty"`

	// Grade is the letter grade derived from OverallScore.
	Grade string `json:"grade,omitempty"`

	// Error describes why the audit failed. Empty on success.
	Error string `json:"error,omitempty"`
}

// CategoryScores holds one score per audit category.
// Each score is in the range 0 to 100, rounded to one decimal place.
type CategoryScores struct {
	Title     float64 `json:"title"`
	Meta      float64 `json:"meta"`
	Headings  float64 `json:"headings"`
	Content   float64 `json:"content"`
	Images    float64 `json:"images"`
	Links     float64 `json:"links"`
	Technical float64 `json:"technical"`
}

// Metrics is a bag of raw measurements collected during an audit.
// Values are heterogeneous (strings, counts, booleans, string lists),
// so a typed struct would force every evaluator change through the model.
type Metrics map[string]any

// Finding represents a single SEO issue discovered during an audit.
type Finding struct {
	// Severity is the importance of the finding.
	Severity Severity `json:"severity"`

	// Category identifies which evaluator produced the finding.
	Category string `json:"category"`

	// Message is a short human-readable description, possibly including
	// measured values such as character or link counts.
	Message string `json:"message"`

	// Impact explains why this finding matters for search visibility.
	Impact string `json:"impact"`
}

// GradeForScore converts a numeric score to a letter grade.
func GradeForScore(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

// FindingsBySeverity returns the issues matching the given severity,
// preserving their relative order.
func (r *Report) FindingsBySeverity(severity Severity) []Finding {
	var result []Finding
	for _, f := range r.Issues {
		if f.Severity == severity {
			result = append(result, f)
		}
	}
	return result
}

// CountBySeverity returns the number of issues with the given severity.
func (r *Report) CountBySeverity(severity Severity) int {
	count := 0
	for _, f := range r.Issues {
		if f.Severity == severity {
			count++
		}
	}
	return count
}

// HasIssues returns true if the audit produced any findings.
func (r *Report) HasIssues() bool {
	return len(r.Issues) > 0
}
