// SPDX-License-Identifier: MPL-2.0

package workspace

import "testing"

func TestSatisfies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec    string
		version string
		want    bool
	}{
		{"^1.2.0", "1.4.0", true},
		{"^1.2.0", "2.0.0", false},
		{"~1.2.0", "1.2.9", true},
		{"~1.2.0", "1.3.0", false},
		{">=1.0.0 <2.0.0", "1.9.9", true},
		{">= 1.0.0 < 2.0.0", "2.0.0", false},
		{"1.0.0 - 1.5.0", "1.2.0", true},
		{"^1.0.0 || ^3.0.0", "3.1.0", true},
		{"*", "0.0.1", true},
		{"", "4.0.0", true},
		{">=2.0.0-internal.1.0.0 <2.0.0-internal.2.0.0", "2.0.0-internal.1.4.0", true},
		{"npm:other@^1.0.0", "1.0.0", false},
		{"^1.0.0", "not-a-version", false},
	}

	for _, tt := range tests {
		t.Run(tt.spec+"@"+tt.version, func(t *testing.T) {
			t.Parallel()
			if got := Satisfies(tt.spec, tt.version); got != tt.want {
				t.Errorf("Satisfies(%q, %q) = %v, want %v", tt.spec, tt.version, got, tt.want)
			}
		})
	}
}

func TestIsWorkspaceLink(t *testing.T) {
	t.Parallel()

	for spec, want := range map[string]bool{
		"workspace:*":     true,
		"workspace:~":     true,
		" workspace:^1.0": true,
		"^1.0.0":          false,
		"file:../a":       false,
	} {
		if got := IsWorkspaceLink(spec); got != want {
			t.Errorf("IsWorkspaceLink(%q) = %v, want %v", spec, got, want)
		}
	}
}
