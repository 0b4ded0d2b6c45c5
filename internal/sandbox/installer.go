// SPDX-License-Identifier: MPL-2.0

package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// installOutputLimit bounds installer output kept for error reporting.
const installOutputLimit = 8192

type (
	// Installer is the external dependency-installation collaborator.
	// Implementations materialize package specifiers into a sandbox and
	// report the environment variables commands need to see the
	// installed packages.
	Installer interface {
		// Install installs deps into the sandbox's lib dir. A nonzero
		// installer exit is reported as an *InstallError.
		Install(ctx context.Context, sb *Sandbox, deps []string) error
		// Env returns the env contributions for a provisioned sandbox.
		// It must be deterministic so cached sandboxes can be reused
		// without re-running Install.
		Env(sb *Sandbox) map[string]string
	}

	// PipInstaller installs Python package specifiers with the
	// sandbox runtime's bundled pip, targeting the sandbox lib dir.
	PipInstaller struct {
		// ExtraArgs are appended to the pip install invocation.
		ExtraArgs []string
	}
)

// Install runs `<runtime> -m pip install --target <libdir> <deps...>`.
func (p *PipInstaller) Install(ctx context.Context, sb *Sandbox, deps []string) error {
	if len(deps) == 0 {
		return nil
	}
	if sb.RuntimePath == "" {
		return &InstallError{Env: sb.Name, Err: fmt.Errorf("no runtime to install %d dependencies with", len(deps))}
	}

	args := []string{"-m", "pip", "install", "--quiet", "--disable-pip-version-check", "--target", sb.LibDir}
	args = append(args, p.ExtraArgs...)
	args = append(args, deps...)

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, sb.RuntimePath, args...)
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return &InstallError{Env: sb.Name, Output: tailOf(output.Bytes()), Err: err}
	}
	return nil
}

// Env points the runtime at the sandbox lib dir.
func (p *PipInstaller) Env(sb *Sandbox) map[string]string {
	if sb.LibDir == "" {
		return nil
	}
	return map[string]string{"PYTHONPATH": sb.LibDir}
}

// tailOf returns the last installOutputLimit bytes of b.
func tailOf(b []byte) string {
	if len(b) > installOutputLimit {
		b = b[len(b)-installOutputLimit:]
	}
	return string(bytes.TrimSpace(b))
}
