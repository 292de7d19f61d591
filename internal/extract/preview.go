package extract

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// contentPreview extracts a readable excerpt of the page's main
// content, with boilerplate stripped by the readability algorithm.
// Returns "" when the page has no extractable article content.
func (e *Extractor) contentPreview(rawHTML, pageURL string) string {
	if rawHTML == "" {
		return ""
	}

	base := parseBaseURL(pageURL)
	if base == nil {
		base = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return ""
	}

	text := strings.TrimSpace(article.TextContent)
	runes := []rune(text)
	if len(runes) > e.previewLimit {
		text = string(runes[:e.previewLimit])
	}
	return text
}
