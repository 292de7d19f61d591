package main

import (
	"strconv"
	"testing"

	"github.com/pagelens/pagelens/internal/config"
)

func TestNewUsageCmd(t *testing.T) {
	t.Parallel()

	cmd := NewUsageCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "usage" {
			t.Errorf("expected use 'usage', got %q", cmd.Use)
		}
	})

	t.Run("accepts no args", func(t *testing.T) {
		t.Parallel()
		if cmd.Args == nil {
			t.Fatal("expected args validator")
		}
		if err := cmd.Args(cmd, []string{"extra"}); err == nil {
			t.Error("expected error for positional args")
		}
	})

	t.Run("has month flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("month")
		if flag == nil {
			t.Fatal("expected month flag")
		}
		if flag.Shorthand != "M" {
			t.Errorf("expected shorthand 'M', got %q", flag.Shorthand)
		}
	})

	t.Run("has limit flag with default quota", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("limit")
		if flag == nil {
			t.Fatal("expected limit flag")
		}
		want := strconv.Itoa(config.DefaultMonthlyFetchLimit)
		if flag.DefValue != want {
			t.Errorf("expected default %q, got %q", want, flag.DefValue)
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
