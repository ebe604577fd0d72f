// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the taskdeps CLI commands.
//
// Every command shares one App, which resolves the repository root, loads
// configuration and opens the build database for that root. Audit results are
// printed to stdout; logs and error cards go to stderr.
package cmd
