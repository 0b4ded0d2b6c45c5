// SPDX-License-Identifier: MPL-2.0

package sandbox

import (
	"errors"
	"fmt"
)

var (
	// ErrRuntimeNotFound is the sentinel error wrapped by
	// RuntimeNotFoundError.
	ErrRuntimeNotFound = errors.New("runtime not found")

	// ErrInstallFailed is the sentinel error wrapped by InstallError.
	ErrInstallFailed = errors.New("dependency install failed")
)

type (
	// RuntimeNotFoundError is returned when an environment's runtime
	// selector resolves to no installed binary. The caller decides
	// whether this skips or errors the environment. It wraps
	// ErrRuntimeNotFound.
	RuntimeNotFoundError struct {
		Env      string
		Selector string
	}

	// InstallError is returned when the dependency installer exits
	// nonzero or cannot be launched. It wraps ErrInstallFailed.
	InstallError struct {
		Env    string
		Output string
		Err    error
	}
)

// Error implements the error interface.
func (e *RuntimeNotFoundError) Error() string {
	return fmt.Sprintf("environment %q: runtime %q not found on this host", e.Env, e.Selector)
}

// Unwrap returns ErrRuntimeNotFound so callers can use errors.Is.
func (e *RuntimeNotFoundError) Unwrap() error { return ErrRuntimeNotFound }

// Error implements the error interface.
func (e *InstallError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("environment %q: dependency install failed: %v\n%s", e.Env, e.Err, e.Output)
	}
	return fmt.Sprintf("environment %q: dependency install failed: %v", e.Env, e.Err)
}

// Unwrap returns ErrInstallFailed so callers can use errors.Is.
func (e *InstallError) Unwrap() error { return ErrInstallFailed }
