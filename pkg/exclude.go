package dupecheck

import (
	"path/filepath"
	"strings"
)

// ExcludeList tests whether a path satisfies a set of exclude rules.
// Five independent rule families are matched with OR semantics: exact
// directory name, directory glob, full-path glob, exact file basename,
// and file basename glob. A path is excluded as soon as any rule from
// any family matches.
type ExcludeList struct {
	files     []string
	fileGlobs []string
	pathGlobs []string
	dirs      []string
	dirGlobs  []string
}

// NewExcludeList creates an empty exclude list that matches nothing.
func NewExcludeList() *ExcludeList {
	return &ExcludeList{}
}

// AddFile excludes files whose basename equals name.
func (el *ExcludeList) AddFile(name string) {
	el.files = append(el.files, name)
}

// AddFileGlob excludes files whose basename matches the glob pattern.
func (el *ExcludeList) AddFileGlob(pattern string) {
	el.fileGlobs = append(el.fileGlobs, pattern)
}

// AddPathGlob excludes objects whose full path matches the glob pattern.
func (el *ExcludeList) AddPathGlob(pattern string) {
	el.pathGlobs = append(el.pathGlobs, pattern)
}

// AddDir excludes objects within a directory component named name.
func (el *ExcludeList) AddDir(name string) {
	el.dirs = append(el.dirs, name)
}

// AddDirGlob excludes objects within directory components matching the
// glob pattern.
func (el *ExcludeList) AddDirGlob(pattern string) {
	el.dirGlobs = append(el.dirGlobs, pattern)
}

// AddDefaults adds the built-in version control excludes (.git, .svn).
func (el *ExcludeList) AddDefaults() {
	el.AddDir(".git")
	el.AddDir(".svn")
}

// Match reports whether path matches any exclude rule. Glob patterns use
// filepath.Match syntax; an invalid pattern simply never matches.
func (el *ExcludeList) Match(path string) bool {
	base := filepath.Base(path)

	for _, name := range el.files {
		if base == name {
			return true
		}
	}
	for _, pattern := range el.fileGlobs {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	for _, pattern := range el.pathGlobs {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
	}

	for _, part := range strings.Split(path, string(filepath.Separator)) {
		for _, name := range el.dirs {
			if part == name {
				return true
			}
		}
		for _, pattern := range el.dirGlobs {
			if ok, _ := filepath.Match(pattern, part); ok {
				return true
			}
		}
	}

	return false
}

// Empty reports whether the list holds no rules at all.
func (el *ExcludeList) Empty() bool {
	return len(el.files) == 0 && len(el.fileGlobs) == 0 && len(el.pathGlobs) == 0 &&
		len(el.dirs) == 0 && len(el.dirGlobs) == 0
}
