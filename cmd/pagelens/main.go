// Package main provides the entry point for the pagelens CLI.
//
// pagelens is an on-page SEO auditing tool. It fetches a page, scores it
// across seven categories, and reports prioritized issues with
// recommendations.
//
// Usage:
//
//	pagelens audit <url>
//	pagelens audit site1.example site2.example
//
// See --help for all available options.
package main

// main is the entry point for pagelens.
func main() {
	Execute()
}
