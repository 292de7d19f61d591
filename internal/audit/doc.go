// Package audit orchestrates the full audit of a single page.
//
// An audit is modeled as a pipeline of steps executed in sequence:
// quota check, fetch, analyze, research (optional), and persist.
// Each step receives the accumulated Result from previous steps.
//
// The Runner executes pipelines for multiple targets concurrently with
// bounded concurrency using errgroup.
package audit
