// SPDX-License-Identifier: MPL-2.0

package sandbox

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
)

// keyTagLength is the number of cache-key hex characters embedded in a
// sandbox directory name.
const keyTagLength = 12

// Sandbox is the materialized filesystem instance backing one
// environment for one run. It is exclusively owned by the provisioner
// while being built and read-only for the executor afterwards.
type Sandbox struct {
	// Name is the environment name this sandbox backs.
	Name string
	// Dir is the sandbox root directory.
	Dir string
	// BinDir holds sandbox-local executables; the executor prepends it
	// to PATH.
	BinDir string
	// LibDir is the dependency installation root.
	LibDir string
	// RuntimePath is the resolved runtime binary, empty when the
	// environment declares no dedicated runtime.
	RuntimePath string
	// Key is the full cache key the sandbox was provisioned under.
	Key string
	// EnvVars are environment variables the sandbox contributes to
	// every command run inside it.
	EnvVars map[string]string
	// Reused reports whether a cached sandbox satisfied this run
	// without re-invoking the installer.
	Reused bool
}

// CacheKey derives the stable sandbox cache key from the runtime
// identity and the dependency set. Dependencies are sorted first so
// declaration order does not fragment the cache.
func CacheKey(runtimeSelector, runtimePath string, deps []string) string {
	sorted := slices.Clone(deps)
	slices.Sort(sorted)

	h := sha256.New()
	h.Write([]byte("runtime:" + runtimeSelector + ":" + runtimePath))
	for _, dep := range sorted {
		h.Write([]byte("dep:" + dep))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// keyTag returns the short key prefix used in sandbox directory names.
func keyTag(key string) string {
	if len(key) <= keyTagLength {
		return key
	}
	return key[:keyTagLength]
}
