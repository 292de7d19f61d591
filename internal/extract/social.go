package extract

import (
	"strings"

	"github.com/pagelens/pagelens/internal/htmldoc"
)

// socialPlatforms maps platform names to the host substrings that
// identify a profile link. Order is fixed so extraction is
// deterministic when one href matches several patterns.
var socialPlatforms = []struct {
	name  string
	hosts []string
}{
	{"facebook", []string{"facebook.com"}},
	{"twitter", []string{"twitter.com", "x.com"}},
	{"linkedin", []string{"linkedin.com"}},
	{"instagram", []string{"instagram.com"}},
	{"youtube", []string{"youtube.com"}},
}

// extractSocialLinks collects the first profile link per platform from
// the page's anchors. The original href casing is preserved.
func extractSocialLinks(doc *htmldoc.Document) map[string]string {
	links := make(map[string]string)
	for _, a := range doc.All("a") {
		href, ok := htmldoc.Attr(a, "href")
		if !ok || href == "" {
			continue
		}
		lower := strings.ToLower(href)
		for _, platform := range socialPlatforms {
			if _, taken := links[platform.name]; taken {
				continue
			}
			for _, host := range platform.hosts {
				if strings.Contains(lower, host) {
					links[platform.name] = href
					break
				}
			}
		}
	}
	if len(links) == 0 {
		return nil
	}
	return links
}
