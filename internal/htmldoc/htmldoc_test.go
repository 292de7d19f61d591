package htmldoc

import (
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="description" content="A test page">
<link rel="canonical nofollow" href="https://example.org/page">
<title> Test Page </title>
</head>
<body>
<nav><p>Nav paragraph</p><a href="/home">Home</a></nav>
<h1>Welcome</h1>
<h1>Second heading</h1>
<p>First <b>bold</b> paragraph.</p>
<p>Second paragraph.</p>
<a href="/about"><img src="logo.png"></a>
<footer><p>Footer paragraph</p></footer>
</body>
</html>`

// TestParse tests document creation from raw HTML.
func TestParse(t *testing.T) {
	t.Parallel()

	if doc := Parse(""); doc != nil {
		t.Error("Parse of empty input should return nil")
	}
	if doc := Parse(samplePage); doc == nil {
		t.Error("Parse of valid HTML should not return nil")
	}
	// Malformed HTML is repaired, not rejected.
	if doc := Parse("<p>unclosed <b>tags"); doc == nil {
		t.Error("Parse of malformed HTML should not return nil")
	}
}

// TestFirstAndAll tests tag lookups.
func TestFirstAndAll(t *testing.T) {
	t.Parallel()

	doc := Parse(samplePage)

	title := doc.First("title")
	if title == nil {
		t.Fatal("title element not found")
	}
	if got := Text(title); got != "Test Page" {
		t.Errorf("title text = %q, expected %q", got, "Test Page")
	}

	if h1s := doc.All("h1"); len(h1s) != 2 {
		t.Errorf("h1 count = %d, expected 2", len(h1s))
	}
	if doc.First("h6") != nil {
		t.Error("First for absent tag should return nil")
	}
	if all := doc.All("h6"); len(all) != 0 {
		t.Errorf("All for absent tag = %d elements, expected 0", len(all))
	}
}

// TestAttrLookups tests exact, token, and presence attribute matching.
func TestAttrLookups(t *testing.T) {
	t.Parallel()

	doc := Parse(samplePage)

	meta := doc.FirstWithAttr("meta", "name", "description")
	if meta == nil {
		t.Fatal("meta description not found")
	}
	if got := AttrValue(meta, "content"); got != "A test page" {
		t.Errorf("content = %q, expected %q", got, "A test page")
	}
	if doc.FirstWithAttr("meta", "name", "viewport") != nil {
		t.Error("absent meta viewport should return nil")
	}

	// rel is a token list; canonical must match inside "canonical nofollow".
	if doc.FirstWithAttrToken("link", "rel", "canonical") == nil {
		t.Error("token match should find rel=\"canonical nofollow\"")
	}
	if doc.FirstWithAttr("link", "rel", "canonical") != nil {
		t.Error("exact match should not find rel=\"canonical nofollow\"")
	}

	if doc.FirstWithAttrPresent("meta", "charset") == nil {
		t.Error("presence match should find meta charset")
	}
	if doc.FirstWithAttrPresent("meta", "http-equiv") != nil {
		t.Error("presence match for absent attribute should return nil")
	}
}

// TestAttrPresence tests the present-but-empty distinction.
func TestAttrPresence(t *testing.T) {
	t.Parallel()

	doc := Parse(`<img src="a.png" alt=""><img src="b.png">`)
	imgs := doc.All("img")
	if len(imgs) != 2 {
		t.Fatalf("img count = %d, expected 2", len(imgs))
	}

	if val, ok := Attr(imgs[0], "alt"); !ok || val != "" {
		t.Errorf(`empty alt: got (%q, %v), expected ("", true)`, val, ok)
	}
	if _, ok := Attr(imgs[1], "alt"); ok {
		t.Error("missing alt should report not present")
	}
}

// TestSkipping tests text and element collection with boilerplate removed.
func TestSkipping(t *testing.T) {
	t.Parallel()

	doc := Parse(samplePage)
	skip := []string{"script", "style", "nav", "footer", "header"}

	// Paragraphs inside nav and footer are excluded.
	if ps := doc.AllSkipping("p", skip); len(ps) != 2 {
		t.Errorf("paragraph count = %d, expected 2", len(ps))
	}

	text := doc.TextSkipping(skip)
	if containsWord(text, "Nav") || containsWord(text, "Footer") {
		t.Errorf("skipped subtree text leaked into %q", text)
	}
	if !containsWord(text, "Welcome") || !containsWord(text, "paragraph.") {
		t.Errorf("visible text missing expected words: %q", text)
	}
}

// TestDescendant tests subtree element search.
func TestDescendant(t *testing.T) {
	t.Parallel()

	doc := Parse(samplePage)
	links := doc.All("a")
	if len(links) != 2 {
		t.Fatalf("link count = %d, expected 2", len(links))
	}

	// <a href="/home">Home</a> has no image descendant.
	if Descendant(links[0], "img") != nil {
		t.Error("text link should have no img descendant")
	}
	// <a href="/about"><img ...></a> wraps an image.
	if Descendant(links[1], "img") == nil {
		t.Error("image link should have an img descendant")
	}
}

func containsWord(text, word string) bool {
	for _, w := range strings.Fields(text) {
		if w == word {
			return true
		}
	}
	return false
}
