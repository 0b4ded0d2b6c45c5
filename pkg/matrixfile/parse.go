// SPDX-License-Identifier: MPL-2.0

package matrixfile

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"mvdan.cc/sh/v3/shell"
)

//go:embed matrixfile_schema.cue
var matrixfileSchema string

// schemaRoot is the root definition looked up in the embedded schema.
const schemaRoot = "#Matrixfile"

// Parse reads and parses a matrixfile from the given path.
func Parse(path string) (*Matrixfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read matrixfile at %s: %w", path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes parses matrixfile content from bytes. The flow follows the
// usual three CUE steps: compile the embedded schema, compile the user
// document and unify the two, then validate and decode into Go structs.
// Validation of orchestrator invariants (unique names, tokenizable and
// non-empty command sequences) happens after decoding.
func ParseBytes(data []byte, path string) (*Matrixfile, error) {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(matrixfileSchema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile matrixfile schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return nil, formatCUEError(userValue.Err(), path)
	}

	root := schemaValue.LookupPath(cue.ParsePath(schemaRoot))
	if root.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaRoot, root.Err())
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, path)
	}

	var m Matrixfile
	if err := unified.Decode(&m); err != nil {
		return nil, formatCUEError(err, path)
	}
	m.FilePath = path
	for i := range m.Envs {
		m.Envs[i].FileDir = filepath.Dir(path)
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// validate enforces the invariants the orchestrator relies on and
// tokenizes every command line into its argv form.
func (m *Matrixfile) validate() error {
	seen := make(map[string]struct{}, len(m.Envs))
	for i := range m.Envs {
		env := &m.Envs[i]
		if _, dup := seen[env.Name]; dup {
			return &DuplicateEnvironmentError{Name: env.Name}
		}
		seen[env.Name] = struct{}{}

		// Auxiliary environments are never executed by default and
		// skippable environments may resolve to nothing on this host,
		// so only the remaining ones must declare commands.
		if len(env.Commands) == 0 && !env.Auxiliary && !env.SkipMissingRuntime(m.SkipMissing) {
			return &EmptyCommandsError{Name: env.Name}
		}

		env.Argv = make([][]string, 0, len(env.Commands))
		for _, line := range env.Commands {
			argv, err := tokenize(line)
			if err != nil {
				return &CommandSyntaxError{Env: env.Name, Line: line, Err: err}
			}
			if len(argv) == 0 {
				return &CommandSyntaxError{Env: env.Name, Line: line, Err: fmt.Errorf("empty command")}
			}
			env.Argv = append(env.Argv, argv)
		}

		if env.Timeout != "" {
			d, err := time.ParseDuration(env.Timeout)
			if err != nil {
				return &InvalidTimeoutError{Env: env.Name, Value: env.Timeout, Err: err}
			}
			env.timeout = d
		}
	}

	// Default selections must reference declared environments.
	for _, name := range m.Defaults {
		if _, ok := seen[name]; !ok {
			return &UnknownEnvironmentError{Name: name, Known: m.Names()}
		}
	}
	return nil
}

// tokenize splits a command line into argv using shell-style word
// splitting and quoting. Variable references are not expanded at parse
// time; the executor passes them through to the command environment.
func tokenize(line string) ([]string, error) {
	return shell.Fields(line, func(name string) string {
		// Preserve references verbatim so $VAR reaches the command
		// untouched rather than expanding against the parse-time host.
		return "$" + name
	})
}

// formatCUEError flattens a CUE error into one message per offending
// path, prefixed with the matrixfile path.
func formatCUEError(err error, path string) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", path, err)
	}

	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := e.Error()
		if p := cueerrors.Path(e); len(p) > 0 {
			msg = strings.Join(p, ".") + ": " + msg
		}
		lines = append(lines, msg)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s: %w", path, lines[0], ErrConfig)
	}
	return fmt.Errorf("%s:\n  %s: %w", path, strings.Join(lines, "\n  "), ErrConfig)
}
