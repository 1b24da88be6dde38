package dupecheck

import (
	"io/fs"
	"path/filepath"
)

// WalkTrees walks each root in turn and calls fn for every regular file
// found, in filesystem traversal order. Symbolic links are never
// followed and never yielded, whether they point at files or at
// directories. Paths matching the exclude list are silently omitted, and
// unreadable directories are skipped rather than treated as errors.
// Returning false from fn stops the walk.
//
// Each call performs a fresh traversal, so the sequence is restartable
// simply by calling WalkTrees again.
func WalkTrees(roots []string, exclude *ExcludeList, fn func(path string) bool) {
	for _, root := range roots {
		stopped := false
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // inaccessible entries are skipped, not fatal
			}
			if d.IsDir() {
				return nil
			}
			if !d.Type().IsRegular() {
				// Covers symlinks, sockets, devices and pipes. Directory
				// symlinks land here too since WalkDir does not follow them.
				return nil
			}
			if exclude != nil && exclude.Match(path) {
				return nil
			}
			if !fn(path) {
				stopped = true
				return fs.SkipAll
			}
			return nil
		})
		if stopped {
			return
		}
	}
}

// CountTrees returns the number of candidate files WalkTrees would yield
// for the same roots and exclude list. Used to size progress reporting
// before a scan.
func CountTrees(roots []string, exclude *ExcludeList) int {
	count := 0
	WalkTrees(roots, exclude, func(string) bool {
		count++
		return true
	})
	return count
}
