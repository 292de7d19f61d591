package audit

import (
	"context"
	"errors"
	"testing"
)

// recordStep records its execution order and optionally fails.
type recordStep struct {
	name  string
	err   error
	calls *[]string
}

func (s *recordStep) Name() string { return s.name }

func (s *recordStep) Do(_ context.Context, _ *Result) error {
	*s.calls = append(*s.calls, s.name)
	return s.err
}

func TestPipelineExecutesStepsInOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	p := New()
	p.AddSteps(
		&recordStep{name: "first", calls: &calls},
		&recordStep{name: "second", calls: &calls},
		&recordStep{name: "third", calls: &calls},
	)

	result := NewResult("https://example.com")
	if err := p.Execute(context.Background(), result); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i, name := range want {
		if calls[i] != name {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], name)
		}
	}
	if len(result.PerformedSteps) != 3 {
		t.Errorf("PerformedSteps = %v, want 3 entries", result.PerformedSteps)
	}
}

func TestPipelineStopsOnError(t *testing.T) {
	t.Parallel()

	var calls []string
	stepErr := errors.New("step failed")

	p := New()
	p.AddSteps(
		&recordStep{name: "first", calls: &calls},
		&recordStep{name: "failing", err: stepErr, calls: &calls},
		&recordStep{name: "never", calls: &calls},
	)

	result := NewResult("https://example.com")
	err := p.Execute(context.Background(), result)
	if !errors.Is(err, stepErr) {
		t.Fatalf("Execute() error = %v, want %v", err, stepErr)
	}

	if len(calls) != 2 {
		t.Errorf("calls = %v, want first and failing only", calls)
	}
	if !errors.Is(result.Err, stepErr) {
		t.Errorf("result.Err = %v, want %v", result.Err, stepErr)
	}
	if result.ErrMessage != "step failed" {
		t.Errorf("result.ErrMessage = %q, want %q", result.ErrMessage, "step failed")
	}
}

func TestPipelineContinueOnError(t *testing.T) {
	t.Parallel()

	var calls []string
	stepErr := errors.New("step failed")

	p := New(WithContinueOnError(true))
	p.AddSteps(
		&recordStep{name: "failing", err: stepErr, calls: &calls},
		&recordStep{name: "after", calls: &calls},
	)

	result := NewResult("https://example.com")
	if err := p.Execute(context.Background(), result); err != nil {
		t.Fatalf("Execute() error = %v, want nil with continueOnError", err)
	}

	if len(calls) != 2 {
		t.Errorf("calls = %v, want both steps executed", calls)
	}
	if !errors.Is(result.Err, stepErr) {
		t.Errorf("result.Err = %v, want recorded step error", result.Err)
	}
}

func TestPipelineRespectsCancellation(t *testing.T) {
	t.Parallel()

	var calls []string
	p := New()
	p.AddStep(&recordStep{name: "never", calls: &calls})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Execute(ctx, NewResult("https://example.com"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}
	if len(calls) != 0 {
		t.Errorf("calls = %v, want no steps executed after cancel", calls)
	}
}

func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	var calls []string
	p := New()
	p.AddSteps(
		&recordStep{name: "alpha", calls: &calls},
		&recordStep{name: "beta", calls: &calls},
	)

	if p.StepCount() != 2 {
		t.Errorf("StepCount() = %d, want 2", p.StepCount())
	}

	names := p.StepNames()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("StepNames() = %v, want [alpha beta]", names)
	}
}
