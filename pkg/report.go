package dupecheck

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
)

// Report separates a scan's duplicate pairs from zero-byte participants
// for presentation.
type Report struct {
	// Pairs holds the duplicate pairs in sorted order, each with the
	// older file (by modification time) first.
	Pairs []DuplicatePair
	// Empty holds the sorted zero-byte files that would otherwise have
	// been reported as duplicates of each other.
	Empty []string
}

// BuildReport orders pairs for presentation: pairs are sorted, each pair
// is ordered older-file-first by modification time, and pairs of
// zero-byte files are pulled out into the Empty list instead. Paths are
// resolved through the cache so relative cache keys become usable
// filesystem paths.
func BuildReport(pairs []DuplicatePair, cache *Cache) Report {
	sorted := make([]DuplicatePair, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		return sorted[i].Other < sorted[j].Other
	})

	var report Report
	empty := make(map[string]bool)
	for _, pair := range sorted {
		a := cache.DiskPath(cache.Sanitize(pair.Path))
		b := cache.DiskPath(pair.Other)

		first, second := a, b
		idA, errA := StatIdentity(a)
		idB, errB := StatIdentity(b)
		firstID := idA
		if errA == nil && errB == nil && idB.MTime < idA.MTime {
			first, second = b, a
			firstID = idB
		}

		if errA == nil && errB == nil && firstID.Size == 0 {
			empty[first] = true
			empty[second] = true
			continue
		}
		report.Pairs = append(report.Pairs, DuplicatePair{Path: first, Other: second})
	}

	for path := range empty {
		report.Empty = append(report.Empty, path)
	}
	sort.Strings(report.Empty)
	return report
}

// PrintReport writes the human-readable duplicate report to w. Every
// reported pair is re-hashed as an integrity check: a pair whose members
// no longer hash identically indicates a cache or storage inconsistency
// and is printed as an explicit error marker, never silently dropped.
func PrintReport(w io.Writer, report Report, cache *Cache) {
	for _, pair := range report.Pairs {
		fmt.Fprintf(w, "Dupe: \"%s\" -> \"%s\"\n", absolute(pair.Path), absolute(pair.Other))
		if err := VerifyPair(pair.Path, pair.Other, cache.Algorithm()); err != nil {
			fmt.Fprintf(w, "ERROR!!! %v\n", err)
		}
	}
	if len(report.Empty) > 0 {
		fmt.Fprintln(w, "Empty files:")
		for _, path := range report.Empty {
			fmt.Fprintln(w, path)
		}
	}
}

// VerifyPair re-hashes both members of a reported pair and returns an
// error if the hashes disagree or either file cannot be read.
func VerifyPair(pathA, pathB string, algorithm *HashAlgorithm) error {
	hashA, err := HashFile(pathA, algorithm)
	if err != nil {
		return fmt.Errorf("failed to re-hash %s: %w", pathA, err)
	}
	hashB, err := HashFile(pathB, algorithm)
	if err != nil {
		return fmt.Errorf("failed to re-hash %s: %w", pathB, err)
	}
	if hashA != hashB {
		return fmt.Errorf("%s and %s have different hashes", pathA, pathB)
	}
	return nil
}

func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
