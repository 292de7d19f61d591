package analyzer

import (
	"fmt"
	"unicode/utf8"

	"github.com/pagelens/pagelens/internal/htmldoc"
	"github.com/pagelens/pagelens/internal/model"
)

// Title length boundaries in characters. Search engines typically
// display 50-60 characters before truncating.
const (
	titleMinLength = 30
	titleMaxLength = 60
)

// TitleEvaluator scores the page title tag.
// The title is the single strongest on-page ranking signal, so a
// missing title zeroes the category outright.
type TitleEvaluator struct{}

// NewTitleEvaluator creates a new TitleEvaluator.
func NewTitleEvaluator() *TitleEvaluator {
	return &TitleEvaluator{}
}

// Category returns the category identifier.
func (e *TitleEvaluator) Category() string { return model.CategoryTitle }

// Weight returns the category's share of the overall score.
func (e *TitleEvaluator) Weight() float64 { return 0.10 }

// Evaluate scores the title tag.
func (e *TitleEvaluator) Evaluate(page *Page, acc *Accumulator) float64 {
	score := 100.0

	title := htmldoc.Text(page.Doc.First("title"))
	length := utf8.RuneCountInString(title)

	acc.SetMetric("title", title)
	acc.SetMetric("title_length", length)

	switch {
	case title == "":
		score = 0
		acc.AddFinding("title_missing", "Missing title tag")
	case length < titleMinLength:
		score -= 30
		acc.AddFinding("title_short", fmt.Sprintf("Title too short (%d characters)", length))
	case length > titleMaxLength:
		score -= 20
		acc.AddFinding("title_long", fmt.Sprintf("Title too long (%d characters)", length))
	}

	return clampScore(score)
}
