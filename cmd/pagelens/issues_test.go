package main

import (
	"testing"
)

func TestNewIssuesCmd(t *testing.T) {
	t.Parallel()

	cmd := NewIssuesCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "issues [url]" {
			t.Errorf("expected use 'issues [url]', got %q", cmd.Use)
		}
	})

	t.Run("requires exactly one arg", func(t *testing.T) {
		t.Parallel()
		if cmd.Args == nil {
			t.Fatal("expected args validator")
		}
		if err := cmd.Args(cmd, nil); err == nil {
			t.Error("expected error for zero args")
		}
		if err := cmd.Args(cmd, []string{"a", "b"}); err == nil {
			t.Error("expected error for two args")
		}
		if err := cmd.Args(cmd, []string{"example.com"}); err != nil {
			t.Errorf("expected no error for one arg, got %v", err)
		}
	})

	t.Run("has flags", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name      string
			shorthand string
		}{
			{"severity", "s"},
			{"json", "j"},
		}

		for _, tt := range tests {
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("flag %q not found", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("flag %q: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
		}
	})
}
