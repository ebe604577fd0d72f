// SPDX-License-Identifier: MPL-2.0

package tsconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tailscale/hujson"
)

const (
	// DefaultFileName is the project file looked up in a directory.
	DefaultFileName = "tsconfig.json"

	// DefaultCacheSize is the number of parsed project files kept in memory.
	DefaultCacheSize = 256
)

type (
	// Parser resolves project files. Parsed files are cached by absolute
	// path for the lifetime of the parser; it is safe for concurrent use.
	Parser struct {
		files *lru.Cache[string, *configFile]
	}

	// Project is a fully resolved compiler project.
	Project struct {
		// ConfigPath is the absolute path of the project file.
		ConfigPath string
		// Options are the merged options with command-line overrides applied.
		Options CompilerOptions
		// Files are the absolute input files, sorted.
		Files []string
		// References are the absolute project file paths of project references.
		References []string
	}

	// configFile is one decoded project file before extends resolution.
	configFile struct {
		path       string
		dir        string
		extends    []string
		options    CompilerOptions
		files      *patternList
		include    *patternList
		exclude    *patternList
		references []string
	}

	// patternList keeps file patterns with the directory they are relative to.
	patternList struct {
		dir      string
		patterns []string
	}

	rawFile struct {
		Extends         json.RawMessage            `json:"extends"`
		CompilerOptions map[string]json.RawMessage `json:"compilerOptions"`
		Files           *[]string                  `json:"files"`
		Include         *[]string                  `json:"include"`
		Exclude         *[]string                  `json:"exclude"`
		References      []struct {
			Path string `json:"path"`
		} `json:"references"`
	}
)

// NewParser creates a parser caching up to cacheSize project files.
func NewParser(cacheSize int) (*Parser, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *configFile](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create project cache: %w", err)
	}
	return &Parser{files: cache}, nil
}

// ResolveProjectPath resolves a --project argument or reference path against
// dir. A directory resolves to the tsconfig.json inside it.
func ResolveProjectPath(dir, project string) string {
	path := project
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DefaultFileName)
	}
	return filepath.Clean(path)
}

// Parse resolves the project at configPath, following extends, applying
// overrides last, and expanding the input file list.
func (p *Parser) Parse(configPath string, overrides CompilerOptions) (*Project, error) {
	configPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, projectError(configPath, "failed to resolve path: %w", err)
	}

	merged, err := p.resolve(configPath, nil)
	if err != nil {
		return nil, err
	}
	root, err := p.load(configPath)
	if err != nil {
		return nil, err
	}

	merged.options = merged.options.Overlay(overrides)
	files, err := collectInputs(root.dir, merged)
	if err != nil {
		return nil, &ProjectConfigError{Path: configPath, Err: err}
	}

	return &Project{
		ConfigPath: configPath,
		Options:    merged.options,
		Files:      files,
		References: root.references,
	}, nil
}

// resolve merges the extends chain of path. Bases apply in order, then the
// file itself. References are never inherited.
func (p *Parser) resolve(path string, chain []string) (*configFile, error) {
	for _, seen := range chain {
		if seen == path {
			return nil, projectError(chain[0], "circular extends: %s", strings.Join(append(chain, path), " -> "))
		}
	}
	chain = append(chain, path)

	cf, err := p.load(path)
	if err != nil {
		return nil, err
	}

	merged := &configFile{path: cf.path, dir: cf.dir}
	for _, ext := range cf.extends {
		basePath, err := resolveExtends(cf.dir, ext)
		if err != nil {
			return nil, &ProjectConfigError{Path: path, Err: err}
		}
		base, err := p.resolve(basePath, chain)
		if err != nil {
			return nil, err
		}
		merged.mergeFrom(base)
	}
	merged.mergeFrom(cf)
	return merged, nil
}

func (c *configFile) mergeFrom(other *configFile) {
	c.options = c.options.Overlay(other.options)
	if other.files != nil {
		c.files = other.files
	}
	if other.include != nil {
		c.include = other.include
	}
	if other.exclude != nil {
		c.exclude = other.exclude
	}
}

// load reads and decodes one project file, consulting the cache first.
func (p *Parser) load(path string) (*configFile, error) {
	if cf, ok := p.files.Get(path); ok {
		return cf, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, projectError(path, "failed to read: %w", err)
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, projectError(path, "failed to parse: %w", err)
	}
	var raw rawFile
	if err := json.Unmarshal(std, &raw); err != nil {
		return nil, projectError(path, "failed to decode: %w", err)
	}

	dir := filepath.Dir(path)
	cf := &configFile{path: path, dir: dir}

	if cf.extends, err = decodeExtends(raw.Extends); err != nil {
		return nil, &ProjectConfigError{Path: path, Err: err}
	}
	if cf.options, err = decodeOptions(dir, raw.CompilerOptions); err != nil {
		return nil, &ProjectConfigError{Path: path, Err: err}
	}
	if raw.Files != nil {
		cf.files = &patternList{dir: dir, patterns: *raw.Files}
	}
	if raw.Include != nil {
		cf.include = &patternList{dir: dir, patterns: *raw.Include}
	}
	if raw.Exclude != nil {
		cf.exclude = &patternList{dir: dir, patterns: *raw.Exclude}
	}
	for _, ref := range raw.References {
		if ref.Path == "" {
			return nil, projectError(path, "project reference without a path")
		}
		cf.references = append(cf.references, ResolveProjectPath(dir, ref.Path))
	}

	p.files.Add(path, cf)
	return cf, nil
}

func decodeExtends(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("extends must be a string or an array of strings: %w", err)
	}
	return list, nil
}

func decodeOptions(dir string, raw map[string]json.RawMessage) (CompilerOptions, error) {
	var opts CompilerOptions
	str := func(key string) (string, error) {
		v, ok := raw[key]
		if !ok {
			return "", nil
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", fmt.Errorf("compilerOptions.%s must be a string", key)
		}
		return s, nil
	}
	dirOpt := func(key string, dst *string) error {
		s, err := str(key)
		if err != nil || s == "" {
			return err
		}
		if !filepath.IsAbs(s) {
			s = filepath.Join(dir, s)
		}
		*dst = filepath.Clean(s)
		return nil
	}
	boolOpt := func(key string, dst **bool) error {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			return fmt.Errorf("compilerOptions.%s must be a boolean", key)
		}
		*dst = &b
		return nil
	}

	module, err := str("module")
	if err != nil {
		return opts, err
	}
	opts.Module = strings.ToLower(module)

	for _, step := range []error{
		dirOpt("outDir", &opts.OutDir),
		dirOpt("declarationDir", &opts.DeclarationDir),
		dirOpt("rootDir", &opts.RootDir),
		boolOpt("noEmit", &opts.NoEmit),
		boolOpt("declaration", &opts.Declaration),
		boolOpt("composite", &opts.Composite),
	} {
		if step != nil {
			return opts, step
		}
	}
	return opts, nil
}

// resolveExtends locates the file named by an extends entry: a relative or
// absolute path, or a module specifier looked up in node_modules.
func resolveExtends(dir, spec string) (string, error) {
	if filepath.IsAbs(spec) || strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") {
		path := spec
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if fileExists(path) {
			return path, nil
		}
		if !strings.HasSuffix(path, ".json") && fileExists(path+".json") {
			return path + ".json", nil
		}
		return "", fmt.Errorf("extends %q: %w", spec, fs.ErrNotExist)
	}

	for cur := dir; ; {
		base := filepath.Join(cur, "node_modules", filepath.FromSlash(spec))
		for _, candidate := range []string{base, base + ".json", filepath.Join(base, DefaultFileName)} {
			if fileExists(candidate) {
				return candidate, nil
			}
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return "", fmt.Errorf("extends %q: %w", spec, errors.Join(fs.ErrNotExist, errors.New("not found in any node_modules")))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
