// Package htmldoc provides a forgiving HTML document loader and the
// DOM queries the audit evaluators need.
//
// Real-world pages are frequently malformed, so the loader is built on
// golang.org/x/net/html, which repairs broken markup the same way
// browsers do instead of rejecting it. An empty input yields a nil
// Document; callers treat that as "nothing to analyze" rather than an
// error.
//
// Queries are deliberately small: first or all elements by tag name,
// attribute-based lookups with exact, token, and presence matching, and
// text extraction that can skip boilerplate subtrees such as navigation
// and footers. Evaluators compose these rather than walking the DOM
// themselves.
package htmldoc
