// SPDX-License-Identifier: MPL-2.0

package buildcmd

const (
	// FormatUnknown means the output can serve either module system.
	FormatUnknown ModuleFormat = ""
	// FormatCommonJS is CommonJS output.
	FormatCommonJS ModuleFormat = "CommonJS"
	// FormatESModule is ECMAScript module output.
	FormatESModule ModuleFormat = "ESModule"
)

// ModuleFormat is the module system of a task's output.
type ModuleFormat string

// String returns the format name, "unknown" for FormatUnknown.
func (f ModuleFormat) String() string {
	if f == FormatUnknown {
		return "unknown"
	}
	return string(f)
}

// IsKnown reports whether the format is CommonJS or ESModule.
func (f ModuleFormat) IsKnown() bool {
	return f != FormatUnknown
}

// Compatible reports whether output of format f can satisfy a consumer of
// format want. Unknown output serves any consumer.
func (f ModuleFormat) Compatible(want ModuleFormat) bool {
	return f == FormatUnknown || f == want
}

// Merge combines two formats produced by the same unit of work. It reports
// false when both are known and differ.
func (f ModuleFormat) Merge(other ModuleFormat) (ModuleFormat, bool) {
	switch {
	case f == FormatUnknown:
		return other, true
	case other == FormatUnknown || other == f:
		return f, true
	default:
		return f, false
	}
}

func packageFormat(isESModule bool) ModuleFormat {
	if isESModule {
		return FormatESModule
	}
	return FormatCommonJS
}
