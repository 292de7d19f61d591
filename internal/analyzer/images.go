package analyzer

import (
	"fmt"
	"strings"

	"github.com/pagelens/pagelens/internal/htmldoc"
	"github.com/pagelens/pagelens/internal/model"
)

// lazyLoadThreshold is the image count above which the absence of lazy
// loading becomes worth flagging.
const lazyLoadThreshold = 5

// ImagesEvaluator scores image accessibility and loading behavior.
// Alt text penalties scale with the ratio of affected images, not the
// absolute count, so one bad image on a gallery page is not treated
// like a pagewide problem.
type ImagesEvaluator struct{}

// NewImagesEvaluator creates a new ImagesEvaluator.
func NewImagesEvaluator() *ImagesEvaluator {
	return &ImagesEvaluator{}
}

// Category returns the category identifier.
func (e *ImagesEvaluator) Category() string { return model.CategoryImages }

// Weight returns the category's share of the overall score.
func (e *ImagesEvaluator) Weight() float64 { return 0.15 }

// Evaluate scores the page's images.
func (e *ImagesEvaluator) Evaluate(page *Page, acc *Accumulator) float64 {
	score := 100.0
	doc := page.Doc

	images := doc.All("img")
	acc.SetMetric("image_count", len(images))

	missingAlt := 0
	missingSrc := 0
	for _, img := range images {
		// An absent, empty, or whitespace-only alt attribute all count
		// as missing.
		if strings.TrimSpace(htmldoc.AttrValue(img, "alt")) == "" {
			missingAlt++
		}
		if strings.TrimSpace(htmldoc.AttrValue(img, "src")) == "" {
			missingSrc++
		}
	}
	acc.SetMetric("images_without_alt", missingAlt)
	// Tracked for reporting only; src-less images carry no penalty.
	acc.SetMetric("images_without_src", missingSrc)

	if len(images) > 0 {
		ratio := float64(missingAlt) / float64(len(images))
		switch {
		case ratio > 0.5:
			score -= 40
			acc.AddFinding("alt_text_mostly_missing",
				fmt.Sprintf("%d of %d images missing alt text", missingAlt, len(images)))
		case ratio > 0:
			score -= 20
			acc.AddFinding("alt_text_partially_missing",
				fmt.Sprintf("%d images missing alt text", missingAlt))
		}
	}

	lazyImages := doc.AllWithAttr("img", "loading", "lazy")
	acc.SetMetric("lazy_loading_images", len(lazyImages))

	if len(images) > lazyLoadThreshold && len(lazyImages) == 0 {
		score -= 10
		acc.AddFinding("lazy_loading_missing", "No lazy-loaded images detected")
	}

	return clampScore(score)
}
