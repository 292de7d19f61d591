package analyzer

import (
	"math"
	"net/url"
	"sort"
	"time"

	"github.com/pagelens/pagelens/internal/htmldoc"
	"github.com/pagelens/pagelens/internal/model"
)

// Evaluator scores one audit category.
// Each evaluator inspects the parsed page, deducts penalties from a
// 100-point base score, and records findings and metrics into the
// accumulator. Evaluators are independent of each other.
//
// Design decision: We use an interface rather than concrete types because:
//  1. Allows for easy extension with new categories
//  2. Enables testing evaluators in isolation
//  3. Keeps the orchestrator free of category-specific logic
type Evaluator interface {
	// Category returns the category identifier this evaluator scores.
	Category() string

	// Weight returns the category's share of the overall score.
	// All weights sum to 1.0.
	Weight() float64

	// Evaluate scores the page and records findings into the accumulator.
	// The returned score is unrounded and clamped to the range 0 to 100.
	Evaluate(page *Page, acc *Accumulator) float64
}

// Page contains everything evaluators may inspect.
//
// Design decision: We pass a single struct rather than separate
// parameters because not every evaluator needs every field, and adding
// page data later must not change evaluator signatures.
type Page struct {
	// Doc is the parsed document. Never nil; the orchestrator short
	// circuits before evaluators run when parsing fails.
	Doc *htmldoc.Document

	// RawHTML is the original markup, used for page size measurement.
	RawHTML string

	// URL is the audited page URL as given by the caller.
	URL string

	// Domain is the host portion of URL, used for link classification.
	Domain string
}

// Accumulator collects findings, recommendations, and metrics from all
// evaluators during a single audit. It is owned by the orchestrator and
// never shared between audits.
type Accumulator struct {
	issues          []model.Finding
	recommendations []string
	metrics         model.Metrics
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{metrics: make(model.Metrics)}
}

// AddFinding records an issue of the given finding type. Severity,
// category, and impact come from the central mapping in the model
// package; when the mapping carries a recommendation it is appended as
// well, so issue and advice ordering stay in sync.
func (a *Accumulator) AddFinding(findingType, message string) {
	info := model.GetFindingInfo(findingType)
	a.issues = append(a.issues, model.Finding{
		Severity: info.Severity,
		Category: info.Category,
		Message:  message,
		Impact:   info.Impact,
	})
	if info.Recommendation != "" {
		a.recommendations = append(a.recommendations, info.Recommendation)
	}
}

// SetMetric records a raw page measurement.
func (a *Accumulator) SetMetric(key string, value any) {
	a.metrics[key] = value
}

// Analyzer runs all category evaluators against a page and aggregates
// their scores into a report.
type Analyzer struct {
	evaluators []Evaluator
}

// New creates an Analyzer with all built-in evaluators registered in
// their fixed execution order.
func New() *Analyzer {
	return &Analyzer{
		evaluators: []Evaluator{
			NewTitleEvaluator(),
			NewMetaEvaluator(),
			NewHeadingsEvaluator(),
			NewContentEvaluator(),
			NewImagesEvaluator(),
			NewLinksEvaluator(),
			NewTechnicalEvaluator(),
		},
	}
}

// Analyze audits a single page and returns the full report.
// An empty or unparseable page yields a failure report; evaluators never
// run in that case.
func (a *Analyzer) Analyze(rawHTML, pageURL string) *model.Report {
	doc := htmldoc.Parse(rawHTML)
	if doc == nil {
		return &model.Report{
			Success: false,
			Error:   "No HTML content to analyze",
		}
	}

	page := &Page{
		Doc:     doc,
		RawHTML: rawHTML,
		URL:     pageURL,
		Domain:  hostOf(pageURL),
	}
	acc := NewAccumulator()

	scores := make(map[string]float64, len(a.evaluators))
	overall := 0.0
	for _, e := range a.evaluators {
		score := e.Evaluate(page, acc)
		scores[e.Category()] = score
		overall += score * e.Weight()
	}

	// Most severe issues first. The sort is stable so findings within
	// one severity keep their detection order.
	sort.SliceStable(acc.issues, func(i, j int) bool {
		return acc.issues[i].Severity < acc.issues[j].Severity
	})

	return &model.Report{
		Success:      true,
		URL:          pageURL,
		AnalyzedAt:   time.Now().UTC(),
		OverallScore: round1(overall),
		Scores: &model.CategoryScores{
			Title:     round1(scores[model.CategoryTitle]),
			Meta:      round1(scores[model.CategoryMeta]),
			Headings:  round1(scores[model.CategoryHeadings]),
			Content:   round1(scores[model.CategoryContent]),
			Images:    round1(scores[model.CategoryImages]),
			Links:     round1(scores[model.CategoryLinks]),
			Technical: round1(scores[model.CategoryTechnical]),
		},
		Metrics:         acc.metrics,
		Issues:          acc.issues,
		Recommendations: acc.recommendations,
		Grade:           model.GradeForScore(overall),
	}
}

// hostOf extracts the host portion of a URL for link classification.
// An unparseable URL yields an empty host.
func hostOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// round1 rounds to one decimal place for reporting.
// Aggregation always uses unrounded scores.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// clampScore keeps a penalized score within the valid range.
func clampScore(v float64) float64 {
	return math.Max(0, v)
}
