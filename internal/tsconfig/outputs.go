// SPDX-License-Identifier: MPL-2.0

package tsconfig

import (
	"fmt"
	"path/filepath"
	"strings"
)

// declarationExtensions maps a source extension to its declaration form.
var declarationExtensions = []struct {
	source, declaration string
}{
	{".tsx", ".d.ts"},
	{".mts", ".d.mts"},
	{".cts", ".d.cts"},
	{".ts", ".d.ts"},
}

// IsDeclarationFile reports whether name is a declaration input such as
// "x.d.ts", "x.d.mts" or the arbitrary-extension form "styles.d.css.ts".
func IsDeclarationFile(name string) bool {
	base := filepath.Base(name)
	for _, ext := range []string{".d.ts", ".d.mts", ".d.cts"} {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	return strings.Contains(base, ".d.") && strings.HasSuffix(base, ".ts")
}

// DeclarationFileName returns the declaration file emitted for a source file.
func DeclarationFileName(source string) string {
	for _, ext := range declarationExtensions {
		if strings.HasSuffix(source, ext.source) {
			return strings.TrimSuffix(source, ext.source) + ext.declaration
		}
	}
	return source
}

// SourceFiles returns the inputs that produce output, excluding declarations.
func (p *Project) SourceFiles() []string {
	var sources []string
	for _, f := range p.Files {
		if !IsDeclarationFile(f) {
			sources = append(sources, f)
		}
	}
	return sources
}

// DeclarationOutputs returns the absolute declaration files the project
// emits. The result is empty when noEmit is set or declarations are
// disabled.
func (p *Project) DeclarationOutputs() ([]string, error) {
	if !p.Options.EmitsDeclarations() {
		return nil, nil
	}
	sources := p.SourceFiles()
	if len(sources) == 0 {
		return nil, nil
	}

	outDir := p.Options.DeclarationDir
	if outDir == "" {
		outDir = p.Options.OutDir
	}
	rootDir := p.Options.RootDir
	switch {
	case rootDir != "":
	case p.Options.IsComposite():
		rootDir = filepath.Dir(p.ConfigPath)
	default:
		rootDir = commonSourceDirectory(sources)
	}

	outputs := make([]string, 0, len(sources))
	for _, src := range sources {
		target := src
		if outDir != "" {
			rel, err := filepath.Rel(rootDir, src)
			if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return nil, &ProjectConfigError{
					Path: p.ConfigPath,
					Err:  fmt.Errorf("source file %s is not under rootDir %s", src, rootDir),
				}
			}
			target = filepath.Join(outDir, rel)
		}
		outputs = append(outputs, DeclarationFileName(target))
	}
	return outputs, nil
}

// commonSourceDirectory returns the deepest directory containing every file.
func commonSourceDirectory(files []string) string {
	common := strings.Split(filepath.Dir(files[0]), string(filepath.Separator))
	for _, f := range files[1:] {
		parts := strings.Split(filepath.Dir(f), string(filepath.Separator))
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
	}
	dir := strings.Join(common, string(filepath.Separator))
	if dir == "" {
		return string(filepath.Separator)
	}
	return dir
}
