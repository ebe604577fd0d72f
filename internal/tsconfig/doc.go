// SPDX-License-Identifier: MPL-2.0

// Package tsconfig resolves TypeScript project files the way the compiler
// does for the options that determine build outputs: extends chains,
// command-line overrides, the input file list, project references, and the
// declaration files a project emits.
package tsconfig
