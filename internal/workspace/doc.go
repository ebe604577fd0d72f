// SPDX-License-Identifier: MPL-2.0

// Package workspace builds the repo-wide package index: every in-repo package
// keyed by name and directory, with its version, release group and manifest.
//
// Package directories come from explicit globs, pnpm-workspace.yaml, or the
// root package.json "workspaces" field, in that order of precedence.
package workspace
