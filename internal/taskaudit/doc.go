// SPDX-License-Identifier: MPL-2.0

// Package taskaudit compares the predecessors a build task really needs with
// the dependencies declared for it in fluidBuild.tasks, reports what is
// missing, and patches manifests with the missing entries.
package taskaudit
