// SPDX-License-Identifier: MPL-2.0

// Package buildgraph is the build database of a repository: the tasks of
// every loaded package, their module formats, and which task owns each
// declaration file.
//
// Packages are loaded lazily together with everything they depend on, so a
// predecessor query for any reachable package finds its producers already
// resolved. A Database is a session bound to one repository root; Sessions
// shares databases across audits of files in the same repository.
package buildgraph
