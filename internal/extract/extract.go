package extract

import (
	"net/url"
	"strings"
	"time"

	"github.com/pagelens/pagelens/internal/htmldoc"
)

// Research contains everything extracted from a single page.
type Research struct {
	// Site is the page URL the data was extracted from.
	Site string `json:"site"`

	// ExtractedAt is when the extraction ran.
	ExtractedAt time.Time `json:"extracted_at"`

	// Title is the page title.
	Title string `json:"title,omitempty"`

	// Description is the meta description.
	Description string `json:"description,omitempty"`

	// Emails contains up to five contact email addresses.
	Emails []string `json:"emails,omitempty"`

	// Phones contains up to three phone numbers.
	Phones []string `json:"phones,omitempty"`

	// SocialLinks maps platform names to profile URLs.
	SocialLinks map[string]string `json:"social_links,omitempty"`

	// Language is the declared page language as a human-readable name.
	Language string `json:"language,omitempty"`

	// Technologies lists detected frameworks, platforms, and trackers.
	Technologies []string `json:"technologies,omitempty"`

	// ContentPreview is a readable excerpt of the page's main content.
	ContentPreview string `json:"content_preview,omitempty"`
}

// Extractor extracts research data from raw HTML.
// The zero value is not usable; call New.
type Extractor struct {
	previewLimit int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPreviewLimit overrides the maximum content preview length in runes.
func WithPreviewLimit(limit int) Option {
	return func(e *Extractor) {
		e.previewLimit = limit
	}
}

// defaultPreviewLimit keeps stored previews around one screen of text.
const defaultPreviewLimit = 2000

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{previewLimit: defaultPreviewLimit}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs all extractors against the page.
// A page that fails to parse yields a Research with only the site and
// timestamp filled in; raw-text extractors still run on the markup.
func (e *Extractor) Extract(rawHTML, pageURL string) *Research {
	research := &Research{
		Site:        pageURL,
		ExtractedAt: time.Now().UTC(),
		Emails:      extractEmails(rawHTML),
		Phones:      extractPhones(rawHTML),
	}

	doc := htmldoc.Parse(rawHTML)
	if doc != nil {
		research.Title = htmldoc.Text(doc.First("title"))
		if meta := doc.FirstWithAttr("meta", "name", "description"); meta != nil {
			research.Description = strings.TrimSpace(htmldoc.AttrValue(meta, "content"))
		}
		research.SocialLinks = extractSocialLinks(doc)
		research.Language = languageName(htmldoc.AttrValue(doc.First("html"), "lang"))
	}

	research.Technologies = detectTechnologies(rawHTML)
	research.ContentPreview = e.contentPreview(rawHTML, pageURL)

	return research
}

// parseBaseURL parses the page URL for resolvers that need one.
// Returns nil when the URL is unusable.
func parseBaseURL(pageURL string) *url.URL {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	return u
}
