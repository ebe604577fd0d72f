// SPDX-License-Identifier: MPL-2.0

// Package config handles taskdeps configuration using Viper with CUE as the file format.
//
// Configuration is read from taskdeps.cue at the repository root, or from the
// file named by --config. The file is validated against an embedded CUE schema
// (config_schema.cue), merged over the defaults and finally overridden by
// TASKDEPS_* environment variables.
package config
