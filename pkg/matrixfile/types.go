// SPDX-License-Identifier: MPL-2.0

package matrixfile

import "time"

type (
	// Matrixfile is the root of a parsed matrix document.
	Matrixfile struct {
		// Defaults lists the environment names run when no explicit
		// selection is given. When empty, every non-auxiliary
		// environment is run by default.
		Defaults []string `json:"defaults,omitempty"`

		// SkipMissing controls whether an unresolvable runtime is a
		// skip rather than a hard failure. Environments may override
		// it individually.
		SkipMissing bool `json:"skip_missing,omitempty"`

		// Envs are the declared environments in file order.
		Envs []EnvironmentSpec `json:"envs"`

		// FilePath is the path the matrixfile was loaded from.
		// Set by Parse, not part of the document.
		FilePath string `json:"-"`
	}

	// EnvironmentSpec describes one named execution environment.
	EnvironmentSpec struct {
		// Name uniquely identifies the environment across the file.
		Name string `json:"name"`

		// Runtime is the runtime binary selector (e.g. "python3.11").
		// Empty means the environment runs against the host shell
		// runtime without a dedicated interpreter.
		Runtime string `json:"runtime,omitempty"`

		// Deps are package specifiers handed to the dependency
		// installer when the sandbox is provisioned.
		Deps []string `json:"deps,omitempty"`

		// Env are fixed KEY=value overrides merged over the host
		// environment for every command in the sequence.
		Env map[string]string `json:"env,omitempty"`

		// EnvFiles are dotenv files loaded before Env overrides.
		// A trailing '?' marks a file as optional.
		EnvFiles []string `json:"env_files,omitempty"`

		// Commands is the ordered command list, one shell-tokenized
		// line per entry.
		Commands []string `json:"commands,omitempty"`

		// SkipMissing overrides the file-level flag when set.
		SkipMissing *bool `json:"skip_missing,omitempty"`

		// Auxiliary environments (lint passes, format checks) are
		// declared but only run when explicitly selected.
		Auxiliary bool `json:"auxiliary,omitempty"`

		// Timeout is an optional per-command deadline, in Go
		// duration syntax (e.g. "90s", "5m").
		Timeout string `json:"timeout,omitempty"`

		// Argv holds the tokenized form of Commands, one argv per
		// command. Populated during validation.
		Argv [][]string `json:"-"`

		// FileDir is the directory of the matrixfile this spec was
		// declared in; relative env_files paths resolve against it.
		// Set by Parse, not part of the document.
		FileDir string `json:"-"`

		timeout time.Duration
	}
)

// SkipMissingRuntime reports whether a missing runtime should skip this
// environment, applying the per-environment override over the file-level
// flag.
func (e *EnvironmentSpec) SkipMissingRuntime(global bool) bool {
	if e.SkipMissing != nil {
		return *e.SkipMissing
	}
	return global
}

// CommandTimeout returns the per-command deadline, or zero when none is
// configured.
func (e *EnvironmentSpec) CommandTimeout() time.Duration {
	return e.timeout
}

// Lookup returns the environment with the given name.
func (m *Matrixfile) Lookup(name string) (*EnvironmentSpec, bool) {
	for i := range m.Envs {
		if m.Envs[i].Name == name {
			return &m.Envs[i], true
		}
	}
	return nil, false
}

// Names returns the declared environment names in file order.
func (m *Matrixfile) Names() []string {
	names := make([]string, 0, len(m.Envs))
	for i := range m.Envs {
		names = append(names, m.Envs[i].Name)
	}
	return names
}
