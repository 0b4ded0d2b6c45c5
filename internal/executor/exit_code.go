// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"errors"
	"os/exec"
	"strconv"
)

// ExitCode represents a process exit status code. Exit codes are in the
// range 0-255 on POSIX systems; the zero value means success.
type ExitCode int

// exitCodeLaunchFailure is recorded when a process never started, so no
// real exit status exists.
const exitCodeLaunchFailure ExitCode = 1

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// classifyRunError splits an exec.Cmd Run error into an exit code and a
// launch error. A *exec.ExitError means the process ran and returned the
// embedded status; anything else means it never started.
func classifyRunError(err error) (code ExitCode, launchErr error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ExitCode(exitErr.ExitCode()), nil
	}
	return exitCodeLaunchFailure, err
}
