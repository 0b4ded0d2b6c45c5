// SPDX-License-Identifier: MPL-2.0

// matrixrun is a multi-environment test-matrix orchestrator: it
// provisions an isolated sandbox per declared environment, installs the
// declared dependencies, runs each environment's command sequence, and
// reduces all outcomes to a single process exit code.
package main

func main() {
	Execute()
}
