// Package model defines the core data structures for SEO audit results.
//
// The central type is Report, which holds everything a single page audit
// produces: per-category scores, collected page metrics, prioritized
// findings, and actionable recommendations. Findings carry a severity
// level (critical, warning, info) so consumers can triage issues without
// re-reading the page.
//
// Severity metadata for every finding type lives in a single mapping in
// severity.go. Evaluators reference finding types by identifier and the
// mapping supplies severity, category, impact text, and the matching
// recommendation, keeping risk assessment consistent across the tool.
package model
