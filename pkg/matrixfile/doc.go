// SPDX-License-Identifier: MPL-2.0

// Package matrixfile defines the declarative test-matrix format and its
// validating parser.
//
// A matrixfile is a CUE document listing named execution environments:
// each environment declares a runtime selector, dependency extras,
// environment-variable overrides, and an ordered command list. The parser
// unifies the document with an embedded schema, decodes it into typed
// structs, tokenizes command lines shell-style, and enforces the
// invariants the orchestrator relies on (unique names, non-empty command
// sequences for runnable environments).
package matrixfile
