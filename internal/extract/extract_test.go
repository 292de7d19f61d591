package extract

import (
	"strings"
	"testing"
)

// TestExtractEmails tests email extraction, exclusion, and capping.
func TestExtractEmails(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		html     string
		expected []string
	}{
		{
			"single_contact",
			`<p>Reach us at sales@acme.io for a quote.</p>`,
			[]string{"sales@acme.io"},
		},
		{
			"placeholder_domains_excluded",
			`<p>user@example.com admin@test.com real@acme.io info@domain.com</p>`,
			[]string{"real@acme.io"},
		},
		{
			"case_insensitive_dedupe",
			`<p>Sales@Acme.io sales@acme.io SALES@ACME.IO</p>`,
			[]string{"Sales@Acme.io"},
		},
		{
			"none",
			`<p>No contact information here.</p>`,
			nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := extractEmails(tc.html)
			if len(got) != len(tc.expected) {
				t.Fatalf("emails = %v, expected %v", got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("emails[%d] = %q, expected %q", i, got[i], tc.expected[i])
				}
			}
		})
	}
}

// TestExtractEmailsCap tests the five address limit.
func TestExtractEmailsCap(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		sb.WriteString(name + "@corp.net ")
	}

	got := extractEmails(sb.String())
	if len(got) != maxEmails {
		t.Errorf("emails = %d, expected cap of %d", len(got), maxEmails)
	}
	if got[0] != "a@corp.net" {
		t.Errorf("first email = %q, expected first-seen order", got[0])
	}
}

// TestExtractPhones tests phone extraction and the digit threshold.
func TestExtractPhones(t *testing.T) {
	t.Parallel()

	html := `<footer>
Call us: +1 (555) 123-4567
Fax: 555-987-6543
Price: 19.99
Year: 2024
</footer>`

	got := extractPhones(html)
	if len(got) != 2 {
		t.Fatalf("phones = %v, expected 2 entries", got)
	}
	for _, phone := range got {
		if digitCount(phone) < minPhoneDigits {
			t.Errorf("phone %q has fewer than %d digits", phone, minPhoneDigits)
		}
	}
}

// TestExtractSocialLinks tests platform matching against anchors.
func TestExtractSocialLinks(t *testing.T) {
	t.Parallel()

	e := New()
	research := e.Extract(`<html><body>
<a href="https://www.Facebook.com/acme">FB</a>
<a href="https://x.com/acme">X</a>
<a href="https://twitter.com/acme-old">Twitter</a>
<a href="https://www.linkedin.com/company/acme">LI</a>
<a href="https://elsewhere.net/youtube-tips">Not YouTube</a>
</body></html>`, "https://acme.io")

	links := research.SocialLinks
	if links["facebook"] != "https://www.Facebook.com/acme" {
		t.Errorf("facebook = %q, expected original casing preserved", links["facebook"])
	}
	// First matching anchor wins per platform.
	if links["twitter"] != "https://x.com/acme" {
		t.Errorf("twitter = %q, expected first match", links["twitter"])
	}
	if links["linkedin"] == "" {
		t.Error("linkedin link not extracted")
	}
	if links["instagram"] != "" {
		t.Errorf("instagram = %q, expected absent", links["instagram"])
	}
	// The platform host must appear in the href; a path that merely
	// mentions youtube does not count.
	if links["youtube"] != "" {
		t.Errorf("youtube = %q, expected absent for non-youtube host", links["youtube"])
	}
}

// TestDetectTechnologies tests the signature table.
func TestDetectTechnologies(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		html     string
		expected []string
	}{
		{
			"wordpress_with_analytics",
			`<link href="/wp-content/themes/x.css"><script src="https://www.googletagmanager.com/gtag/js"></script>`,
			[]string{"WordPress", "Google Analytics", "Google Tag Manager"},
		},
		{
			"shopify",
			`<img src="https://cdn.shopify.com/x.png">`,
			[]string{"Shopify"},
		},
		{
			"jquery_bootstrap",
			`<script src="/js/jquery.min.js"></script><link href="/css/bootstrap.css">`,
			[]string{"jQuery", "Bootstrap"},
		},
		{
			"clean",
			`<p>handwritten html</p>`,
			nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := detectTechnologies(tc.html)
			if len(got) != len(tc.expected) {
				t.Fatalf("technologies = %v, expected %v", got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("technologies[%d] = %q, expected %q", i, got[i], tc.expected[i])
				}
			}
		})
	}
}

// TestExtractPageMetadata tests title and description capture.
func TestExtractPageMetadata(t *testing.T) {
	t.Parallel()

	research := New().Extract(`<html><head>
<title> Acme Corp </title>
<meta name="description" content=" Widgets and more. ">
</head><body><p>Body</p></body></html>`, "https://acme.io")

	if research.Site != "https://acme.io" {
		t.Errorf("Site = %q", research.Site)
	}
	if research.Title != "Acme Corp" {
		t.Errorf("Title = %q, expected trimmed title", research.Title)
	}
	if research.Description != "Widgets and more." {
		t.Errorf("Description = %q, expected trimmed description", research.Description)
	}
	if research.ExtractedAt.IsZero() {
		t.Error("ExtractedAt should be set")
	}
}

// TestExtractEmptyPage tests graceful handling of empty input.
func TestExtractEmptyPage(t *testing.T) {
	t.Parallel()

	research := New().Extract("", "https://acme.io")

	if research.Site != "https://acme.io" {
		t.Errorf("Site = %q", research.Site)
	}
	if research.Title != "" || research.Description != "" {
		t.Error("empty page should yield no metadata")
	}
	if len(research.Emails) != 0 || len(research.Phones) != 0 {
		t.Error("empty page should yield no contacts")
	}
	if research.ContentPreview != "" {
		t.Error("empty page should yield no preview")
	}
}

// TestContentPreviewLimit tests preview truncation.
func TestContentPreviewLimit(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("All work and no play makes a dull page. ", 200)
	page := `<html><body><article><h1>Story</h1><p>` + body + `</p></article></body></html>`

	research := New(WithPreviewLimit(100)).Extract(page, "https://acme.io")
	if got := len([]rune(research.ContentPreview)); got > 100 {
		t.Errorf("preview length = %d runes, expected at most 100", got)
	}
}

// TestLanguageName tests lang attribute resolution to display names.
func TestLanguageName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tag  string
		want string
	}{
		{name: "english", tag: "en", want: "English"},
		{name: "japanese", tag: "ja", want: "Japanese"},
		{name: "whitespace trimmed", tag: "  fr  ", want: "French"},
		{name: "empty", tag: "", want: ""},
		{name: "unparseable kept as declared", tag: "not a tag", want: "not a tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := languageName(tt.tag); got != tt.want {
				t.Errorf("languageName(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

// TestExtractLanguage tests language extraction from the html element.
func TestExtractLanguage(t *testing.T) {
	t.Parallel()

	page := `<html lang="de"><head><title>Seite</title></head><body></body></html>`
	research := New().Extract(page, "https://acme.de")
	if research.Language != "German" {
		t.Errorf("expected language 'German', got %q", research.Language)
	}
}
