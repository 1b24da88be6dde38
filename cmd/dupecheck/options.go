package main

import (
	"fmt"
	"os"
	"path/filepath"

	dupecheck "github.com/Kaedenn/dupecheck/pkg"
)

// options holds the parsed command line flags.
type options struct {
	cachePath        string
	noCache          bool
	configPath       string
	hashAlgorithm    string
	excludeDirs      []string
	excludeDirGlobs  []string
	excludePathGlobs []string
	excludeFiles     []string
	excludeFileGlobs []string
	noDefaultExclude bool
	progress         bool
	debug            bool
}

// resolveRoots turns the positional arguments into absolute,
// symlink-resolved scan roots, defaulting to the current directory.
func resolveRoots(args []string) ([]string, error) {
	if len(args) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		args = []string{cwd}
	}

	var roots []string
	for _, arg := range args {
		root, err := realPath(arg)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return roots, nil
}

// resolveCachePath decides where the cache persists. --no-cache routes
// persistence to the null device; a path naming a directory means the
// default cache name inside it; the bare default name means the current
// directory.
func resolveCachePath(opts *options, cfg *dupecheck.Config) (string, error) {
	if opts.noCache {
		return os.DevNull, nil
	}

	path := opts.cachePath
	if path == dupecheck.DefaultCacheName {
		if configured := cfg.GetCacheConfig().Path; configured != "" {
			path = configured
		}
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, dupecheck.DefaultCacheName)
	} else if path == dupecheck.DefaultCacheName {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, dupecheck.DefaultCacheName)
	}
	return realPath(path)
}

// buildExcludeList combines flag rules, config file rules, and the
// default version control excludes unless suppressed.
func buildExcludeList(opts *options, cfg *dupecheck.Config) *dupecheck.ExcludeList {
	el := dupecheck.NewExcludeList()
	for _, name := range opts.excludeDirs {
		el.AddDir(name)
	}
	for _, pattern := range opts.excludeDirGlobs {
		el.AddDirGlob(pattern)
	}
	for _, pattern := range opts.excludePathGlobs {
		el.AddPathGlob(pattern)
	}
	for _, name := range opts.excludeFiles {
		el.AddFile(name)
	}
	for _, pattern := range opts.excludeFileGlobs {
		el.AddFileGlob(pattern)
	}
	cfg.ApplyExcludes(el)
	if !opts.noDefaultExclude {
		el.AddDefaults()
	}
	return el
}

// realPath makes path absolute and resolves symlinks where possible. A
// path that does not exist yet (a cache file on its first run) falls
// back to the absolute form.
func realPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs, nil
	}
	return real, nil
}
