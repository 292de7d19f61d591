// Package analyzer implements the on-page SEO audit engine.
//
// The engine scores a single page across seven categories: title, meta
// tags, heading structure, content, images, links, and technical
// factors. Each category has its own evaluator that inspects the parsed
// document, deducts penalty points from a 100-point base score, and
// records findings, recommendations, and raw metrics into a shared
// accumulator owned by the orchestrator. Category scores are then
// combined into a weighted overall score and letter grade.
//
// Weighting (100 points total):
//   - Title: 10%
//   - Meta: 10%
//   - Headings: 15%
//   - Content: 15%
//   - Images: 15%
//   - Links: 15%
//   - Technical: 20%
//
// The engine is pure: Analyze performs no network or filesystem access,
// holds no state between calls, and is safe for concurrent use. Pages
// that cannot be parsed at all produce a failure report rather than an
// error, since a failed audit is still a result worth reporting.
package analyzer
