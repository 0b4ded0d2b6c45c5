// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"matrixrun/internal/sandbox"
	"matrixrun/pkg/matrixfile"
)

// ErrExecutableNotFound is the sentinel error wrapped by
// ExecutableNotFoundError.
var ErrExecutableNotFound = errors.New("executable not found")

type (
	// Executor runs command sequences inside provisioned sandboxes.
	// The zero value is usable; fields customize capture and logging.
	Executor struct {
		// Environ supplies the host environment as "KEY=VALUE"
		// strings. When nil, os.Environ() is used.
		Environ func() []string
		// Stdout and Stderr, when set, receive the full streamed
		// output of every command in addition to the bounded tails.
		Stdout io.Writer
		Stderr io.Writer
		// TailSize bounds the captured stdout/stderr tails.
		// Non-positive means DefaultTailSize.
		TailSize int
		// WorkDir is the working directory for commands. Empty means
		// the process working directory.
		WorkDir string
		// Logger receives per-command debug logging. When nil, the
		// package default logger is used.
		Logger *log.Logger
	}

	// ExecutableNotFoundError is returned when a command's program
	// cannot be resolved in the sandbox environment's PATH. It wraps
	// ErrExecutableNotFound.
	ExecutableNotFoundError struct {
		Name string
	}
)

// Error implements the error interface.
func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("executable %q not found in sandbox PATH", e.Name)
}

// Unwrap returns ErrExecutableNotFound so callers can use errors.Is.
func (e *ExecutableNotFoundError) Unwrap() error { return ErrExecutableNotFound }

// Run executes the spec's command sequence in declared order inside the
// sandbox and seals an EnvironmentResult. The first nonzero exit stops
// the sequence with OutcomeFailed; a command that cannot be launched,
// a cancellation, or a deadline expiry seals OutcomeErrored. Results of
// already-finished commands are always retained.
//
// sb may be nil for environments that run directly against the host.
func (x *Executor) Run(ctx context.Context, spec *matrixfile.EnvironmentSpec, sb *sandbox.Sandbox) *EnvironmentResult {
	logger := x.Logger
	if logger == nil {
		logger = log.Default()
	}

	result := &EnvironmentResult{Name: spec.Name, Outcome: OutcomePassed}
	started := time.Now()
	defer func() { result.Duration = time.Since(started) }()

	environ := os.Environ
	if x.Environ != nil {
		environ = x.Environ
	}

	var sandboxEnv map[string]string
	var binDir string
	if sb != nil {
		sandboxEnv = sb.EnvVars
		binDir = sb.BinDir
	}

	env, err := BuildEnv(environ(), spec, baseDirOf(spec.FileDir), sandboxEnv, binDir)
	if err != nil {
		result.Outcome = OutcomeErrored
		result.Reason = ReasonLaunchFailed
		result.Err = err
		return result
	}

	for _, argv := range spec.Argv {
		if err := ctx.Err(); err != nil {
			result.Outcome = OutcomeErrored
			result.Reason = ReasonInterrupted
			result.Err = err
			return result
		}

		cmdResult, err := x.runCommand(ctx, spec, argv, env, logger)
		if cmdResult != nil {
			result.Commands = append(result.Commands, *cmdResult)
		}
		if err != nil {
			result.Outcome = OutcomeErrored
			result.Reason = classifyCommandError(ctx, err)
			result.Err = err
			return result
		}
		if !cmdResult.ExitCode.IsSuccess() {
			logger.Debug("command failed, stopping sequence",
				"env", spec.Name, "command", argv[0], "exit", cmdResult.ExitCode)
			result.Outcome = OutcomeFailed
			return result
		}
	}
	return result
}

// runCommand launches one command and waits for it. The returned error
// is non-nil only for launch failures, interrupts, and timeouts; a plain
// nonzero exit is reported through the CommandResult.
func (x *Executor) runCommand(ctx context.Context, spec *matrixfile.EnvironmentSpec, argv []string, env map[string]string, logger *log.Logger) (*CommandResult, error) {
	cmdCtx := ctx
	if timeout := spec.CommandTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	expanded := expandArgv(argv, env)

	program, err := lookupExecutable(expanded[0], env["PATH"], x.WorkDir)
	if err != nil {
		return nil, err
	}

	stdoutTail := NewTailWriter(x.TailSize)
	stderrTail := NewTailWriter(x.TailSize)

	cmd := exec.CommandContext(cmdCtx, program, expanded[1:]...)
	cmd.Dir = x.WorkDir
	cmd.Env = EnvToSlice(env)
	cmd.Stdout = stdoutTail
	cmd.Stderr = stderrTail
	if x.Stdout != nil {
		cmd.Stdout = io.MultiWriter(x.Stdout, stdoutTail)
	}
	if x.Stderr != nil {
		cmd.Stderr = io.MultiWriter(x.Stderr, stderrTail)
	}

	logger.Debug("running command", "env", spec.Name, "argv", strings.Join(expanded, " "))

	started := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(started)

	code, launchErr := classifyRunError(runErr)
	result := &CommandResult{
		Argv:       expanded,
		ExitCode:   code,
		Duration:   elapsed,
		StdoutTail: stdoutTail.String(),
		StderrTail: stderrTail.String(),
	}

	// A kill triggered by the command context is a timeout or an
	// interrupt, not a regular failed exit.
	if ctxErr := cmdCtx.Err(); ctxErr != nil && runErr != nil {
		return result, ctxErr
	}
	if launchErr != nil {
		return result, launchErr
	}
	return result, nil
}

// classifyCommandError maps a terminal command error onto a Reason.
func classifyCommandError(ctx context.Context, err error) Reason {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled), ctx.Err() != nil:
		return ReasonInterrupted
	default:
		return ReasonLaunchFailed
	}
}

// expandArgv substitutes $VAR and ${VAR} references against the merged
// environment. Unknown variables expand to the empty string, matching
// shell behavior.
func expandArgv(argv []string, env map[string]string) []string {
	expanded := make([]string, len(argv))
	for i, tok := range argv {
		expanded[i] = os.Expand(tok, func(name string) string { return env[name] })
	}
	return expanded
}

// lookupExecutable resolves a program name against the merged
// environment's PATH rather than the orchestrator's own. Names
// containing a path separator are resolved relative to workDir.
func lookupExecutable(name, pathEnv, workDir string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) || strings.ContainsRune(name, '/') {
		path := name
		if !filepath.IsAbs(path) && workDir != "" {
			path = filepath.Join(workDir, path)
		}
		if isExecutable(path) {
			return path, nil
		}
		return "", &ExecutableNotFoundError{Name: name}
	}

	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", &ExecutableNotFoundError{Name: name}
}

// isExecutable reports whether path is a regular file with an execute
// bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}
