package analyzer

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/pagelens/pagelens/internal/htmldoc"
	"github.com/pagelens/pagelens/internal/model"
)

// Link scoring constants.
const (
	// minInternalLinks is the minimum internal link count before the
	// page is flagged for weak internal linking.
	minInternalLinks = 3

	// brokenLinkPenalty is deducted per broken link.
	brokenLinkPenalty = 5

	// brokenLinkPenaltyCap bounds the total broken link deduction so a
	// single template bug cannot zero the category.
	brokenLinkPenaltyCap = 30
)

// LinksEvaluator scores the page's link structure.
//
// Classification happens in a fixed priority order: placeholder hrefs
// (empty, "#", javascript:) are broken; "/" or "#" prefixes are
// internal; hrefs containing the page's own host are internal; http
// prefixes are external; everything else (relative paths, mailto:,
// tel:) falls through to internal. The order matters because later
// rules would misclassify hrefs the earlier rules already claimed.
type LinksEvaluator struct{}

// NewLinksEvaluator creates a new LinksEvaluator.
func NewLinksEvaluator() *LinksEvaluator {
	return &LinksEvaluator{}
}

// Category returns the category identifier.
func (e *LinksEvaluator) Category() string { return model.CategoryLinks }

// Weight returns the category's share of the overall score.
func (e *LinksEvaluator) Weight() float64 { return 0.15 }

// Evaluate scores the page's links.
func (e *LinksEvaluator) Evaluate(page *Page, acc *Accumulator) float64 {
	score := 100.0

	// Only anchors that carry an href attribute participate, even when
	// the value is empty.
	var links []*linkRef
	for _, a := range page.Doc.All("a") {
		if href, ok := htmldoc.Attr(a, "href"); ok {
			links = append(links, &linkRef{node: a, href: strings.TrimSpace(href)})
		}
	}

	internal, external, broken := 0, 0, 0
	for _, l := range links {
		switch classifyHref(l.href, page.Domain) {
		case linkInternal:
			internal++
		case linkExternal:
			external++
		case linkBroken:
			broken++
		}
	}

	acc.SetMetric("internal_links", internal)
	acc.SetMetric("external_links", external)
	acc.SetMetric("broken_links", broken)

	if internal < minInternalLinks {
		score -= 25
		acc.AddFinding("internal_links_few", "Few internal links")
	}

	if broken > 0 {
		score -= float64(min(brokenLinkPenaltyCap, broken*brokenLinkPenalty))
		acc.AddFinding("broken_links", fmt.Sprintf("%d potentially broken links", broken))
	}

	// Links with neither anchor text nor an image tell search engines
	// nothing about the target.
	empty := 0
	for _, l := range links {
		if htmldoc.Text(l.node) == "" && htmldoc.Descendant(l.node, "img") == nil {
			empty++
		}
	}
	if empty > 0 {
		score -= 10
		acc.AddFinding("anchor_text_missing", fmt.Sprintf("%d links without anchor text", empty))
	}

	return clampScore(score)
}

// linkRef pairs an anchor node with its trimmed href.
type linkRef struct {
	node *html.Node
	href string
}

// linkClass is the outcome of href classification.
type linkClass int

const (
	linkInternal linkClass = iota
	linkExternal
	linkBroken
)

// classifyHref assigns an href to a link class. See the type comment on
// LinksEvaluator for the priority order.
func classifyHref(href, domain string) linkClass {
	if href == "" || href == "#" || strings.HasPrefix(href, "javascript:") {
		return linkBroken
	}
	if strings.HasPrefix(href, "/") || strings.HasPrefix(href, "#") {
		return linkInternal
	}
	if strings.Contains(href, domain) {
		return linkInternal
	}
	if strings.HasPrefix(href, "http") {
		return linkExternal
	}
	return linkInternal
}
