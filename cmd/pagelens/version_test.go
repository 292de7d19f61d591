package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "version" {
			t.Errorf("expected use 'version', got %q", cmd.Use)
		}
	})

	t.Run("prints version string", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewVersionCmd()
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)

		if err := cmd.Execute(); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !strings.Contains(buf.String(), "pagelens version") {
			t.Errorf("expected output to contain 'pagelens version', got %q", buf.String())
		}
	})
}

func TestGetVersion(t *testing.T) {
	t.Parallel()

	if got := getVersion(); got == "" {
		t.Error("expected non-empty version")
	}
}

func TestGetCommit(t *testing.T) {
	t.Parallel()

	got := getCommit()
	if got == "" {
		t.Error("expected non-empty commit")
	}
	if len(got) > 7 && got != "unknown" {
		t.Errorf("expected commit truncated to 7 characters, got %q", got)
	}
}
