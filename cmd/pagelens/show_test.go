package main

import (
	"testing"
)

func TestNewShowCmd(t *testing.T) {
	t.Parallel()

	cmd := NewShowCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "show [url]" {
			t.Errorf("expected use 'show [url]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("accepts at most one arg", func(t *testing.T) {
		t.Parallel()
		if cmd.Args == nil {
			t.Fatal("expected args validator")
		}
		if err := cmd.Args(cmd, []string{"a", "b"}); err == nil {
			t.Error("expected error for two args")
		}
		if err := cmd.Args(cmd, nil); err != nil {
			t.Errorf("expected no error for zero args, got %v", err)
		}
	})

	t.Run("has flags", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name      string
			shorthand string
		}{
			{"list", "l"},
			{"research", ""},
			{"json", "j"},
			{"markdown", "m"},
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

	// Verify db-dir flag does NOT exist (uses XDG directory)
	t.Run("has no db-dir flag", func(t *testing.T) {
		t.Parallel()
		if flag := cmd.Flags().Lookup("db-dir"); flag != nil {
			t.Error("db-dir flag should not exist")
		}
	})
}
