// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and the catalog of Markdown
// guidance shown when an audit cannot run.
//
// Fatal configuration errors (ambiguous module formats, outputs claimed by two
// tasks, inputs without a producer) each have an Issue explaining how to fix
// the offending manifest or project file.
package issue
