package analyzer

import (
	"fmt"

	"github.com/pagelens/pagelens/internal/htmldoc"
	"github.com/pagelens/pagelens/internal/model"
)

// h1TextLimit caps how much heading text is stored in metrics.
const h1TextLimit = 100

// HeadingsEvaluator scores the page's heading structure.
// Exactly one H1 is expected; its absence and its duplication are
// mutually exclusive findings. A missing H2 level is penalized
// independently.
type HeadingsEvaluator struct{}

// NewHeadingsEvaluator creates a new HeadingsEvaluator.
func NewHeadingsEvaluator() *HeadingsEvaluator {
	return &HeadingsEvaluator{}
}

// Category returns the category identifier.
func (e *HeadingsEvaluator) Category() string { return model.CategoryHeadings }

// Weight returns the category's share of the overall score.
func (e *HeadingsEvaluator) Weight() float64 { return 0.15 }

// Evaluate scores the heading structure.
func (e *HeadingsEvaluator) Evaluate(page *Page, acc *Accumulator) float64 {
	score := 100.0
	doc := page.Doc

	h1s := doc.All("h1")
	h2s := doc.All("h2")
	h3s := doc.All("h3")

	h1Texts := make([]string, 0, len(h1s))
	for _, h := range h1s {
		h1Texts = append(h1Texts, truncateRunes(htmldoc.Text(h), h1TextLimit))
	}

	acc.SetMetric("h1_count", len(h1s))
	acc.SetMetric("h2_count", len(h2s))
	acc.SetMetric("h3_count", len(h3s))
	acc.SetMetric("h1_text", h1Texts)

	switch {
	case len(h1s) == 0:
		score -= 50
		acc.AddFinding("h1_missing", "Missing H1 tag")
	case len(h1s) > 1:
		score -= 25
		acc.AddFinding("h1_multiple", fmt.Sprintf("Multiple H1 tags (%d found)", len(h1s)))
	}

	if len(h2s) == 0 {
		score -= 20
		acc.AddFinding("h2_missing", "No H2 tags found")
	}

	return clampScore(score)
}

// truncateRunes shortens a string to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
