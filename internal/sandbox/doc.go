// SPDX-License-Identifier: MPL-2.0

// Package sandbox provisions isolated per-environment execution
// sandboxes.
//
// A sandbox is a private directory holding an environment's installed
// dependencies plus the resolved runtime binary path. Sandboxes are
// cached under a root directory keyed by a content hash of the runtime
// identity and the sorted dependency set, so unchanged environments are
// reused across runs without re-invoking the dependency installer.
// Provisioning the same cache key is serialized with a per-key lock so
// concurrent workers cannot corrupt a shared cache entry.
package sandbox
