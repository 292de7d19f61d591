package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed HTML page.
// It wraps the DOM root and exposes the queries evaluators need.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
//  4. Standard library extension, well-maintained
type Document struct {
	root *html.Node
}

// Parse parses raw HTML into a Document.
// Returns nil when the input is empty or cannot be parsed at all;
// callers treat a nil Document as a page with no content.
func Parse(raw string) *Document {
	if raw == "" {
		return nil
	}
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil
	}
	return &Document{root: root}
}

// First returns the first element with the given tag name in document
// order, or nil if none exists. Tag names are lowercase.
func (d *Document) First(tag string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			found = n
			return false
		}
		return true
	})
	return found
}

// All returns every element with the given tag name in document order.
func (d *Document) All(tag string) []*html.Node {
	var found []*html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			found = append(found, n)
		}
		return true
	})
	return found
}

// FirstWithAttr returns the first element with the given tag whose
// attribute exactly matches the given value, or nil.
// Used for lookups like meta[name="description"].
func (d *Document) FirstWithAttr(tag, key, val string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag && AttrValue(n, key) == val {
			found = n
			return false
		}
		return true
	})
	return found
}

// FirstWithAttrToken returns the first element with the given tag whose
// whitespace-separated attribute value contains the given token, or nil.
// The rel attribute is a token list, so link[rel="canonical"] must match
// rel="canonical nofollow" as well.
func (d *Document) FirstWithAttrToken(tag, key, token string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != tag {
			return true
		}
		for _, t := range strings.Fields(AttrValue(n, key)) {
			if t == token {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

// FirstWithAttrPresent returns the first element with the given tag that
// carries the attribute at all, regardless of value, or nil.
// Used for meta[charset].
func (d *Document) FirstWithAttrPresent(tag, key string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			if _, ok := Attr(n, key); ok {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

// AllWithAttr returns every element with the given tag whose attribute
// exactly matches the given value.
func (d *Document) AllWithAttr(tag, key, val string) []*html.Node {
	var found []*html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag && AttrValue(n, key) == val {
			found = append(found, n)
		}
		return true
	})
	return found
}

// AllSkipping returns every element with the given tag that is not
// inside any of the skip tags. Subtrees rooted at a skip tag are not
// descended into, so a <p> inside <footer> is not counted.
func (d *Document) AllSkipping(tag string, skip []string) []*html.Node {
	skipSet := makeSet(skip)
	var found []*html.Node
	walkSkipping(d.root, skipSet, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			found = append(found, n)
		}
	})
	return found
}

// TextSkipping returns the visible text of the document with subtrees
// rooted at any of the skip tags removed. Text chunks are joined with
// single spaces.
func (d *Document) TextSkipping(skip []string) string {
	skipSet := makeSet(skip)
	var chunks []string
	walkSkipping(d.root, skipSet, func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				chunks = append(chunks, t)
			}
		}
	})
	return strings.Join(chunks, " ")
}

// Text returns the concatenated text content of a node's subtree with
// surrounding whitespace trimmed. Returns "" for a nil node.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return strings.TrimSpace(sb.String())
}

// Attr retrieves an attribute value from an HTML node, reporting whether
// the attribute is present. A present-but-empty attribute returns ("", true).
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// AttrValue retrieves an attribute value, returning "" when absent.
func AttrValue(n *html.Node, key string) string {
	val, _ := Attr(n, key)
	return val
}

// Descendant returns the first element with the given tag inside n's
// subtree, excluding n itself, or nil.
func Descendant(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	var found *html.Node
	for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
		walk(c, func(d *html.Node) bool {
			if d.Type == html.ElementNode && d.Data == tag {
				found = d
				return false
			}
			return true
		})
	}
	return found
}

// walk visits every node in the subtree in document order.
// The visitor returns false to stop the walk early.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

// walkSkipping visits every node except subtrees rooted at a skip tag.
func walkSkipping(n *html.Node, skip map[string]bool, visit func(*html.Node)) {
	if n.Type == html.ElementNode && skip[n.Data] {
		return
	}
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkSkipping(c, skip, visit)
	}
}

func makeSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}
