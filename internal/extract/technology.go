package extract

import "strings"

// techSignatures maps technology names to markup substrings that
// betray their presence. Detection is ordered so the result list is
// stable across runs.
//
// These are coarse signatures. A page mentioning "react" in prose will
// be detected as React; that tradeoff is acceptable for research data.
var techSignatures = []struct {
	name       string
	signatures []string
}{
	{"WordPress", []string{"wp-content", "wp-includes", "wordpress"}},
	{"Shopify", []string{"shopify", "cdn.shopify"}},
	{"Wix", []string{"wix.com", "wixsite"}},
	{"Squarespace", []string{"squarespace"}},
	{"React", []string{"react", "__next"}},
	{"Vue.js", []string{"vue", "nuxt"}},
	{"jQuery", []string{"jquery"}},
	{"Bootstrap", []string{"bootstrap"}},
	{"Google Analytics", []string{"google-analytics", "gtag"}},
	{"Google Tag Manager", []string{"googletagmanager"}},
	{"Facebook Pixel", []string{"facebook.net/en_US/fbevents"}},
}

// detectTechnologies returns the technologies whose signatures appear
// anywhere in the markup.
func detectTechnologies(rawHTML string) []string {
	lower := strings.ToLower(rawHTML)

	var detected []string
	for _, tech := range techSignatures {
		for _, sig := range tech.signatures {
			if strings.Contains(lower, strings.ToLower(sig)) {
				detected = append(detected, tech.name)
				break
			}
		}
	}
	return detected
}
