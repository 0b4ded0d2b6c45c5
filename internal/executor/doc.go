// SPDX-License-Identifier: MPL-2.0

// Package executor runs an environment's command sequence inside its
// provisioned sandbox.
//
// Commands execute strictly in declared order with the sandbox's
// environment merged over the host's. The first nonzero exit stops the
// sequence and fails the environment; a command that cannot be launched
// at all, an interrupt, or a timeout errors it instead. Output is
// captured into bounded tails for the final report.
package executor
