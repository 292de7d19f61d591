package analyzer

import (
	"fmt"
	"strings"

	"github.com/pagelens/pagelens/internal/model"
)

// Word count thresholds. Pages below minWordCount are effectively
// empty; pages below goodWordCount rank worse than richer competitors.
const (
	minWordCount  = 100
	goodWordCount = 300
	minParagraphs = 3
)

// boilerplateTags are subtrees excluded from content measurement.
// Navigation, chrome, and code are not ranking content.
var boilerplateTags = []string{"script", "style", "nav", "footer", "header"}

// ContentEvaluator scores the amount and structure of page content.
// Measurement runs on a view of the document with boilerplate subtrees
// removed; the document itself is never modified, so evaluators stay
// independent of execution order.
type ContentEvaluator struct{}

// NewContentEvaluator creates a new ContentEvaluator.
func NewContentEvaluator() *ContentEvaluator {
	return &ContentEvaluator{}
}

// Category returns the category identifier.
func (e *ContentEvaluator) Category() string { return model.CategoryContent }

// Weight returns the category's share of the overall score.
func (e *ContentEvaluator) Weight() float64 { return 0.15 }

// Evaluate scores the page content.
func (e *ContentEvaluator) Evaluate(page *Page, acc *Accumulator) float64 {
	score := 100.0
	doc := page.Doc

	text := doc.TextSkipping(boilerplateTags)
	wordCount := len(strings.Fields(text))

	acc.SetMetric("word_count", wordCount)

	switch {
	case wordCount < minWordCount:
		score -= 50
		acc.AddFinding("content_thin", fmt.Sprintf("Thin content (%d words)", wordCount))
	case wordCount < goodWordCount:
		score -= 25
		acc.AddFinding("content_limited", fmt.Sprintf("Limited content (%d words)", wordCount))
	}

	paragraphs := doc.AllSkipping("p", boilerplateTags)
	acc.SetMetric("paragraph_count", len(paragraphs))

	if len(paragraphs) < minParagraphs {
		score -= 15
		acc.AddFinding("paragraphs_few", "Few paragraphs detected")
	}

	return clampScore(score)
}
