// SPDX-License-Identifier: MPL-2.0

// Package buildcmd recognizes build commands inside package scripts and
// resolves the module format and the declaration files each one writes.
//
// A script line is split into simple commands with the mvdan/sh parser.
// Each command is classified into a closed set of variants (Compiler,
// Entrypoints); anything else is ignored because it has no effect on the
// build graph.
package buildcmd
