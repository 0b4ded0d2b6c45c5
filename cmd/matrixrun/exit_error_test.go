// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitError_Message(t *testing.T) {
	t.Parallel()

	bare := &ExitError{Code: 2}
	if got, want := bare.Error(), "exit status 2"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := &ExitError{Code: 2, Err: errors.New("matrixfile not found")}
	if got, want := wrapped.Error(), "matrixfile not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// TestExitError_Unwrap verifies errors.As reaches an ExitError through
// wrapping, which Execute relies on to derive the process exit code.
func TestExitError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	err := fmt.Errorf("running matrix: %w", &ExitError{Code: 1, Err: inner})

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatal("errors.As() failed to find ExitError")
	}
	if exitErr.Code != 1 {
		t.Errorf("Code = %d, want 1", exitErr.Code)
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is() failed to reach the wrapped error")
	}
}

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = origVersion, origCommit, origDate })

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}

	Version, Commit, BuildDate = "1.2.0", "abc1234", "2026-08-28"
	if got, want := getVersionString(), "1.2.0 (commit: abc1234, built: 2026-08-28)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}
}
