// Package extract pulls business research data out of an audited page.
//
// While the analyzer scores how well a page is optimized, this package
// answers who the page belongs to: contact emails and phone numbers,
// social media profiles, the technologies the site is built with, and a
// readable preview of the main content. The results are stored next to
// the audit report so a site only needs to be fetched once.
//
// Extraction is best effort. Patterns are permissive and false
// positives are acceptable; the output is research material for a
// human, not machine-validated contact data.
package extract
