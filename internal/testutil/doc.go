// SPDX-License-Identifier: MPL-2.0

// Package testutil builds throwaway monorepo fixtures for tests: a pnpm
// workspace root, package manifests, compiler project files and empty source
// modules, all under t.TempDir().
package testutil
