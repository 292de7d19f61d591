package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Runner handles concurrent auditing of multiple targets.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate Runner rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-audit execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type Runner struct {
	// pipelineFactory creates a new pipeline for each audit.
	// We use a factory to ensure each audit gets a fresh pipeline instance.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent audits.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed audit results.
	// Access is synchronized via mutex.
	results []*Result
	mu      sync.Mutex
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger for batch processing.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent audits.
// Default is 5 if not specified.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewRunner creates a new Runner.
//
// The pipelineFactory function is called for each audit to create a fresh
// pipeline instance. This ensures that pipeline state doesn't leak between
// audits and allows for per-audit customization if needed.
func NewRunner(pipelineFactory func() *Pipeline, opts ...RunnerOption) *Runner {
	r := &Runner{
		pipelineFactory: pipelineFactory,
		concurrency:     5,
		results:         make([]*Result, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Process audits multiple targets concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each target gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns all results collected, even for targets that failed.
// The error return indicates if the batch was cancelled.
func (r *Runner) Process(ctx context.Context, targets []string) ([]*Result, error) {
	r.logger.Info("starting batch audit",
		"total_targets", len(targets),
		"concurrency", r.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	r.results = make([]*Result, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			r.logger.Info("auditing target",
				"target", target,
				"index", i+1,
				"total", len(targets),
			)

			result := NewResult(target)
			pipeline := r.pipelineFactory()
			err := pipeline.Execute(ctx, result)

			// Store result regardless of error
			// The result contains error information if the audit failed
			r.mu.Lock()
			r.results[i] = result
			r.mu.Unlock()

			if err != nil {
				r.logger.Warn("audit failed",
					"target", target,
					"error", err,
				)
				// Don't return error to errgroup - we want to continue
				// other audits. The error is recorded in the result.
				return nil
			}

			r.logger.Info("audit completed",
				"target", target,
			)

			return nil
		})
	}

	// Wait for all audits to complete
	err := g.Wait()

	elapsed := time.Since(startTime)
	r.logger.Info("batch audit complete",
		"total_targets", len(targets),
		"elapsed", elapsed,
	)

	return r.results, err
}

// ProcessWithCallback audits multiple targets and calls a callback
// for each completed audit. This is useful for streaming results.
//
// The callback receives the result and the index of the target in the
// original slice. The callback is called from the goroutine that completed
// the audit, so it should be thread-safe if it accesses shared state.
func (r *Runner) ProcessWithCallback(
	ctx context.Context,
	targets []string,
	callback func(result *Result, index int),
) error {
	r.logger.Info("starting batch audit with callback",
		"total_targets", len(targets),
		"concurrency", r.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result := NewResult(target)
			pipeline := r.pipelineFactory()
			_ = pipeline.Execute(ctx, result) //nolint:errcheck // Error is stored in result

			// Call the callback with the result
			callback(result, i)

			return nil
		})
	}

	return g.Wait()
}
