// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

const workspaceProtocol = "workspace:"

// IsWorkspaceLink reports whether a dependency version spec links to the
// in-repo package regardless of its version ("workspace:*", "workspace:^").
func IsWorkspaceLink(spec string) bool {
	return strings.HasPrefix(strings.TrimSpace(spec), workspaceProtocol)
}

// Satisfies reports whether version is within the npm range spec.
// Specs that are not version ranges (tags, URLs, aliases) never match.
func Satisfies(spec, version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	c, err := semver.NewConstraint(normalizeRange(spec))
	if err != nil {
		return false
	}
	return c.Check(v)
}

// normalizeRange rewrites npm's space-separated comparator sets into the
// comma-separated form the constraint parser expects. Hyphen ranges and
// "||" alternatives are kept as they are.
func normalizeRange(spec string) string {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == "latest" {
		return "*"
	}

	alternatives := strings.Split(spec, "||")
	for i, alt := range alternatives {
		alt = strings.TrimSpace(alt)
		if strings.Contains(alt, " - ") {
			alternatives[i] = alt
			continue
		}
		var comparators []string
		pendingOp := ""
		for _, field := range strings.Fields(alt) {
			if strings.Trim(field, "<>=~^") == "" {
				pendingOp += field
				continue
			}
			comparators = append(comparators, pendingOp+field)
			pendingOp = ""
		}
		alternatives[i] = strings.Join(comparators, ", ")
	}
	return strings.Join(alternatives, " || ")
}
