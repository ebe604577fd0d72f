// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"testing"
)

func TestParseDependencySpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want DependencySpec
	}{
		{in: "tsc", want: Local("tsc")},
		{in: "build:esnext", want: Local("build:esnext")},
		{in: "a#tsc", want: Exact("a", "tsc")},
		{in: "@fluidframework/core-interfaces#build:esnext", want: Exact("@fluidframework/core-interfaces", "build:esnext")},
		{in: "^tsc", want: WildcardScript("tsc")},
		{in: "^*", want: WildcardAll()},
		{in: "...", want: DependencySpec{Kind: SpecInherit}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDependencySpec(tt.in)
			if err != nil {
				t.Fatalf("ParseDependencySpec(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDependencySpec(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if got.String() != tt.in {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestParseDependencySpec_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "^", "#tsc", "a#"} {
		_, err := ParseDependencySpec(in)
		if !errors.Is(err, ErrInvalidDependencySpec) {
			t.Errorf("ParseDependencySpec(%q) error = %v, want ErrInvalidDependencySpec", in, err)
		}
	}
}

func TestDependencySpec_RelativeTo(t *testing.T) {
	t.Parallel()

	if got := Exact("a", "tsc").RelativeTo("a"); got != Local("tsc") {
		t.Errorf("same package: got %v, want local tsc", got)
	}
	if got := Exact("a", "tsc").RelativeTo("b"); got != Exact("a", "tsc") {
		t.Errorf("other package: got %v, want a#tsc", got)
	}
}
