// SPDX-License-Identifier: MPL-2.0

// Package manifest reads and updates package.json manifests.
//
// Only the fields the task auditor needs are decoded: identity, scripts,
// the three dependency maps, the public export map and the fluidBuild task
// definition block. Updates are applied as JSON patches against the original
// bytes so that every other part of the manifest is left untouched.
package manifest
