// SPDX-License-Identifier: MPL-2.0

package matrixfile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfig is the sentinel error wrapped by all matrixfile
	// validation errors.
	ErrConfig = errors.New("invalid matrixfile")

	// ErrUnknownEnvironment is the sentinel error wrapped by
	// UnknownEnvironmentError.
	ErrUnknownEnvironment = errors.New("unknown environment")
)

type (
	// DuplicateEnvironmentError is returned when two environments share
	// a name. It wraps ErrConfig for errors.Is() compatibility.
	DuplicateEnvironmentError struct {
		Name string
	}

	// EmptyCommandsError is returned when a non-auxiliary environment
	// declares no commands. It wraps ErrConfig.
	EmptyCommandsError struct {
		Name string
	}

	// CommandSyntaxError is returned when a command line cannot be
	// tokenized. It wraps ErrConfig.
	CommandSyntaxError struct {
		Env  string
		Line string
		Err  error
	}

	// InvalidTimeoutError is returned when a timeout value is not a
	// valid duration. It wraps ErrConfig.
	InvalidTimeoutError struct {
		Env   string
		Value string
		Err   error
	}

	// UnknownEnvironmentError is returned when a selection names an
	// undeclared environment. It wraps ErrUnknownEnvironment.
	UnknownEnvironmentError struct {
		Name  string
		Known []string
	}
)

// Error implements the error interface.
func (e *DuplicateEnvironmentError) Error() string {
	return fmt.Sprintf("duplicate environment %q", e.Name)
}

// Unwrap returns ErrConfig so callers can use errors.Is.
func (e *DuplicateEnvironmentError) Unwrap() error { return ErrConfig }

// Error implements the error interface.
func (e *EmptyCommandsError) Error() string {
	return fmt.Sprintf("environment %q declares no commands", e.Name)
}

// Unwrap returns ErrConfig so callers can use errors.Is.
func (e *EmptyCommandsError) Unwrap() error { return ErrConfig }

// Error implements the error interface.
func (e *CommandSyntaxError) Error() string {
	return fmt.Sprintf("environment %q: malformed command %q: %v", e.Env, e.Line, e.Err)
}

// Unwrap returns ErrConfig so callers can use errors.Is.
func (e *CommandSyntaxError) Unwrap() error { return ErrConfig }

// Error implements the error interface.
func (e *InvalidTimeoutError) Error() string {
	return fmt.Sprintf("environment %q: invalid timeout %q: %v", e.Env, e.Value, e.Err)
}

// Unwrap returns ErrConfig so callers can use errors.Is.
func (e *InvalidTimeoutError) Unwrap() error { return ErrConfig }

// Error implements the error interface.
func (e *UnknownEnvironmentError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown environment %q", e.Name)
	}
	return fmt.Sprintf("unknown environment %q (declared: %s)", e.Name, strings.Join(e.Known, ", "))
}

// Unwrap returns ErrUnknownEnvironment so callers can use errors.Is.
func (e *UnknownEnvironmentError) Unwrap() error { return ErrUnknownEnvironment }
