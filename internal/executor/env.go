// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"maps"
	"os"
	"strings"

	"matrixrun/pkg/matrixfile"
)

// BuildEnv constructs the environment map for an environment's commands.
// Precedence, lowest to highest (later layers win):
//
//  1. Host environment (inherited, never mutated process-wide)
//  2. Spec env_files (dotenv, resolved against the matrixfile directory)
//  3. Sandbox-contributed variables (installer lib paths and the like)
//  4. Spec env overrides (explicit KEY=value declarations)
//
// binDir, when non-empty, is prepended to PATH after all layers merge so
// sandbox-local executables shadow host ones even under a PATH override.
func BuildEnv(environ []string, spec *matrixfile.EnvironmentSpec, baseDir string, sandboxEnv map[string]string, binDir string) (map[string]string, error) {
	env := parseEnviron(environ)

	for _, path := range spec.EnvFiles {
		if err := LoadEnvFile(env, path, baseDir); err != nil {
			return nil, err
		}
	}

	maps.Copy(env, sandboxEnv)
	maps.Copy(env, spec.Env)

	if binDir != "" {
		if cur := env["PATH"]; cur != "" {
			env["PATH"] = binDir + string(os.PathListSeparator) + cur
		} else {
			env["PATH"] = binDir
		}
	}
	return env, nil
}

// parseEnviron converts "KEY=VALUE" strings into a map. Malformed
// entries without a separator are dropped.
func parseEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		key, value, found := strings.Cut(kv, "=")
		if !found || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// EnvToSlice converts a map of environment variables to a slice.
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	return result
}

// baseDirOf returns the directory a spec's env files resolve against,
// defaulting to the working directory for specs parsed from memory.
func baseDirOf(fileDir string) string {
	if fileDir == "" {
		return "."
	}
	return fileDir
}
