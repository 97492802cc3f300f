// Package main tests for the testreport CLI entry point.
package main

import (
	"errors"
	"os/exec"
	"strings"
	"testing"
)

// TestMain_BuildVerification verifies the binary builds successfully.
func TestMain_BuildVerification(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("go", "build", "-o", "/dev/null", ".")
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to build main package: %v", err)
	}
}

// TestMain_HelpFlag verifies the --help flag works correctly.
func TestMain_HelpFlag(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("go", "run", ".", "--help")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("--help failed: %v\noutput: %s", err, out)
	}
	if !strings.Contains(string(out), "Exit Codes:") {
		t.Errorf("--help output missing exit code table:\n%s", out)
	}
}

// TestMain_VersionFlag verifies the --version flag works correctly.
func TestMain_VersionFlag(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("go", "run", ".", "--version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("--version failed: %v\noutput: %s", err, out)
	}
	if !strings.HasPrefix(string(out), "testreport ") {
		t.Errorf("unexpected --version output: %q", out)
	}
}

// TestMain_ExitCode verifies that the process exit code carries the CLI result.
func TestMain_ExitCode(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("go", "run", ".", "does-not-exist.xml")
	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected a non-zero exit, got %v\noutput: %s", err, out)
	}
	// go run reports the child's exit status as 1 regardless of its value,
	// so only the message is checked here.
	if !strings.Contains(string(out), "cannot read result document") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
