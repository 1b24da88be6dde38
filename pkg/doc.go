// Package dupecheck finds duplicate files within one or more directory
// trees by content hash, using a persistent cache of file identities to
// avoid re-hashing files that have not changed between runs.
//
// # Core API
//
// The main entry point is Cache, which holds the two persistent indexes
// (by path and by content hash), and Scanner, which drives a scan:
//
//	cache := dupecheck.NewCache("/tree/.dupecache", nil, logger)
//	cache.Load()
//
//	scanner := dupecheck.NewScanner(cache, exclude, logger)
//	pairs, err := scanner.Scan([]string{"/tree"})
//
// Scan walks the roots, classifies every candidate file against the
// cache, and saves the cache once at the end. Each returned pair names
// two distinct files whose content hashes match.
//
// # Reporting
//
// BuildReport orders pairs for presentation (older file first, zero-byte
// participants segregated) and PrintReport writes the human-readable
// report, re-hashing each reported pair as an integrity check:
//
//	report := dupecheck.BuildReport(pairs, cache)
//	dupecheck.PrintReport(os.Stdout, report, cache)
//
// # Behaviour notes
//
// Symbolic links are never followed and never reported. Hardlinked paths
// refer to the same underlying file and are not duplicates of each
// other. Zero-byte files all hash identically, so they are dropped from
// the cache between runs and listed separately in the report rather than
// flagged as duplicates.
package dupecheck
