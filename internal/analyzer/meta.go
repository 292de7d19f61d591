package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pagelens/pagelens/internal/htmldoc"
	"github.com/pagelens/pagelens/internal/model"
)

// Meta description length boundaries in characters.
const (
	descriptionMinLength = 120
	descriptionMaxLength = 160
)

// MetaEvaluator scores meta tags: the description snippet, canonical
// URL, robots directives, and Open Graph presence.
//
// A noindex robots directive produces a critical finding but no score
// penalty. Noindex is sometimes intentional, so the score reflects tag
// quality while the finding makes the consequence impossible to miss.
type MetaEvaluator struct{}

// NewMetaEvaluator creates a new MetaEvaluator.
func NewMetaEvaluator() *MetaEvaluator {
	return &MetaEvaluator{}
}

// Category returns the category identifier.
func (e *MetaEvaluator) Category() string { return model.CategoryMeta }

// Weight returns the category's share of the overall score.
func (e *MetaEvaluator) Weight() float64 { return 0.10 }

// Evaluate scores the page's meta tags.
func (e *MetaEvaluator) Evaluate(page *Page, acc *Accumulator) float64 {
	score := 100.0
	doc := page.Doc

	// Meta description
	description := ""
	if meta := doc.FirstWithAttr("meta", "name", "description"); meta != nil {
		description = strings.TrimSpace(htmldoc.AttrValue(meta, "content"))
	}
	length := utf8.RuneCountInString(description)

	acc.SetMetric("meta_description", description)
	acc.SetMetric("meta_description_length", length)

	switch {
	case description == "":
		score -= 40
		acc.AddFinding("meta_description_missing", "Missing meta description")
	case length < descriptionMinLength:
		score -= 20
		acc.AddFinding("meta_description_short", fmt.Sprintf("Meta description too short (%d characters)", length))
	case length > descriptionMaxLength:
		score -= 15
		acc.AddFinding("meta_description_long", fmt.Sprintf("Meta description too long (%d characters)", length))
	}

	// Canonical URL. The rel attribute is a token list.
	canonical := doc.FirstWithAttrToken("link", "rel", "canonical")
	acc.SetMetric("has_canonical", canonical != nil)
	if canonical == nil {
		score -= 15
		acc.AddFinding("canonical_missing", "Missing canonical URL")
	}

	// Robots meta
	robotsContent := ""
	if robots := doc.FirstWithAttr("meta", "name", "robots"); robots != nil {
		robotsContent = htmldoc.AttrValue(robots, "content")
	}
	acc.SetMetric("robots_meta", robotsContent)

	if strings.Contains(strings.ToLower(robotsContent), "noindex") {
		acc.AddFinding("robots_noindex", "Page is set to noindex")
	}

	// Open Graph
	ogTitle := doc.FirstWithAttr("meta", "property", "og:title")
	acc.SetMetric("has_og_tags", ogTitle != nil)
	if ogTitle == nil {
		score -= 10
		acc.AddFinding("og_tags_missing", "Missing Open Graph tags")
	}

	return clampScore(score)
}
