package audit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

// countingStep tracks concurrent executions for runner tests.
type countingStep struct {
	current atomic.Int32
	peak    atomic.Int32
	total   atomic.Int32
	err     error
}

func (s *countingStep) Name() string { return "counting" }

func (s *countingStep) Do(_ context.Context, result *Result) error {
	n := s.current.Add(1)
	for {
		peak := s.peak.Load()
		if n <= peak || s.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	s.total.Add(1)
	s.current.Add(-1)

	result.HTML = "processed"
	return s.err
}

func TestRunnerProcess(t *testing.T) {
	t.Parallel()

	step := &countingStep{}
	runner := NewRunner(func() *Pipeline {
		p := New()
		p.AddStep(step)
		return p
	}, WithConcurrency(2))

	targets := []string{
		"https://a.example",
		"https://b.example",
		"https://c.example",
		"https://d.example",
	}

	results, err := runner.Process(context.Background(), targets)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(results) != len(targets) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(targets))
	}
	// Results keep the input order
	for i, target := range targets {
		if results[i] == nil || results[i].Target != target {
			t.Errorf("results[%d].Target = %v, want %q", i, results[i], target)
		}
	}
	if got := step.total.Load(); got != int32(len(targets)) {
		t.Errorf("total executions = %d, want %d", got, len(targets))
	}
	if peak := step.peak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, want at most 2", peak)
	}
}

func TestRunnerRecordsFailuresWithoutAborting(t *testing.T) {
	t.Parallel()

	step := &countingStep{err: errors.New("audit failed")}
	runner := NewRunner(func() *Pipeline {
		p := New()
		p.AddStep(step)
		return p
	})

	targets := []string{"https://a.example", "https://b.example"}

	results, err := runner.Process(context.Background(), targets)
	if err != nil {
		t.Fatalf("Process() error = %v, want nil (failures recorded per result)", err)
	}
	for i, result := range results {
		if result.Err == nil {
			t.Errorf("results[%d].Err = nil, want recorded error", i)
		}
	}
	if got := step.total.Load(); got != 2 {
		t.Errorf("total executions = %d, want 2 despite failures", got)
	}
}

func TestRunnerProcessWithCallback(t *testing.T) {
	t.Parallel()

	step := &countingStep{}
	runner := NewRunner(func() *Pipeline {
		p := New()
		p.AddStep(step)
		return p
	}, WithConcurrency(3))

	targets := []string{"https://a.example", "https://b.example", "https://c.example"}

	var mu sync.Mutex
	seen := make(map[int]string)

	err := runner.ProcessWithCallback(context.Background(), targets, func(result *Result, index int) {
		mu.Lock()
		defer mu.Unlock()
		seen[index] = result.Target
	})
	if err != nil {
		t.Fatalf("ProcessWithCallback() error = %v", err)
	}

	if len(seen) != len(targets) {
		t.Fatalf("callback invoked %d times, want %d", len(seen), len(targets))
	}
	for i, target := range targets {
		if seen[i] != target {
			t.Errorf("seen[%d] = %q, want %q", i, seen[i], target)
		}
	}
}

func TestRunnerRespectsCancellation(t *testing.T) {
	t.Parallel()

	step := &countingStep{}
	runner := NewRunner(func() *Pipeline {
		p := New()
		p.AddStep(step)
		return p
	}, WithConcurrency(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Process(ctx, []string{"https://a.example", "https://b.example"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Process() error = %v, want context.Canceled", err)
	}
}
