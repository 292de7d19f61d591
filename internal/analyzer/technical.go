package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/pagelens/pagelens/internal/htmldoc"
	"github.com/pagelens/pagelens/internal/model"
)

// maxPageSizeKB is the raw HTML size above which the page is flagged
// as slow to load.
const maxPageSizeKB = 500

// TechnicalEvaluator scores technical SEO factors: mobile viewport,
// HTTPS, charset and language declarations, page weight, and
// structured data.
//
// HTTPS is judged from the page URL alone. The auditor sees a single
// page, not the server config, so the URL scheme is the only signal
// available.
type TechnicalEvaluator struct{}

// NewTechnicalEvaluator creates a new TechnicalEvaluator.
func NewTechnicalEvaluator() *TechnicalEvaluator {
	return &TechnicalEvaluator{}
}

// Category returns the category identifier.
func (e *TechnicalEvaluator) Category() string { return model.CategoryTechnical }

// Weight returns the category's share of the overall score.
func (e *TechnicalEvaluator) Weight() float64 { return 0.20 }

// Evaluate scores the page's technical factors.
func (e *TechnicalEvaluator) Evaluate(page *Page, acc *Accumulator) float64 {
	score := 100.0
	doc := page.Doc

	// Mobile viewport
	viewport := doc.FirstWithAttr("meta", "name", "viewport")
	acc.SetMetric("has_viewport", viewport != nil)
	if viewport == nil {
		score -= 30
		acc.AddFinding("viewport_missing", "Missing viewport meta tag")
	}

	// HTTPS
	isHTTPS := strings.HasPrefix(page.URL, "https://")
	acc.SetMetric("is_https", isHTTPS)
	if !isHTTPS {
		score -= 25
		acc.AddFinding("https_missing", "Site not using HTTPS")
	}

	// Charset declaration. Any meta carrying a charset attribute counts.
	charset := doc.FirstWithAttrPresent("meta", "charset")
	acc.SetMetric("has_charset", charset != nil)
	if charset == nil {
		score -= 10
		acc.AddFinding("charset_missing", "Missing charset declaration")
	}

	// Language declaration on the html element.
	_, hasLang := htmldoc.Attr(doc.First("html"), "lang")
	acc.SetMetric("has_lang", hasLang)
	if !hasLang {
		score -= 10
		acc.AddFinding("lang_missing", "Missing lang attribute on HTML tag")
	}

	// Page weight, measured on the raw markup.
	pageSizeKB := float64(len(page.RawHTML)) / 1024
	acc.SetMetric("page_size_kb", math.Round(pageSizeKB*100)/100)
	if pageSizeKB > maxPageSizeKB {
		score -= 15
		acc.AddFinding("html_too_large",
			fmt.Sprintf("Large HTML size (%d KB)", int(math.Round(pageSizeKB))))
	}

	// Structured data
	schemaScripts := doc.AllWithAttr("script", "type", "application/ld+json")
	acc.SetMetric("has_structured_data", len(schemaScripts) > 0)
	if len(schemaScripts) == 0 {
		score -= 10
		acc.AddFinding("structured_data_missing", "No structured data (Schema.org) found")
	}

	return clampScore(score)
}
