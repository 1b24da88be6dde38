package dupecheck

import (
	"fmt"

	"github.com/rs/zerolog"
)

// ProgressSink receives scan progress updates. Update is called once per
// candidate file, so implementations must be cheap; Clear is called once
// when the scan finishes, successfully or not.
type ProgressSink interface {
	Update(message string)
	Clear()
}

// nopProgress is the default sink.
type nopProgress struct{}

func (nopProgress) Update(string) {}
func (nopProgress) Clear()        {}

// DuplicatePair names two distinct paths whose content hashes match.
// Path is the candidate seen during the scan; Other is the retained
// representative for the shared hash, as a sanitized cache key.
type DuplicatePair struct {
	Path  string
	Other string
}

// Scanner drives a scan: it walks the roots, classifies every candidate
// against the cache, accumulates duplicate pairs, and persists the cache
// once at the end. The whole scan is single threaded; the cache is only
// ever touched from the caller's goroutine.
type Scanner struct {
	Cache    *Cache
	Exclude  *ExcludeList
	Progress ProgressSink
	Log      zerolog.Logger
}

// NewScanner creates a scanner with a no-op progress sink. Replace
// Progress before calling Scan to surface progress.
func NewScanner(cache *Cache, exclude *ExcludeList, logger zerolog.Logger) *Scanner {
	return &Scanner{
		Cache:    cache,
		Exclude:  exclude,
		Progress: nopProgress{},
		Log:      logger,
	}
}

// Scan checks roots for duplicates and returns the pairs found, in
// traversal order. The walk runs twice: once to count candidates for
// progress reporting, once to classify them.
//
// A stat or hashing failure on any candidate aborts the scan and skips
// the cache save, so previously persisted state is never replaced with
// partial results. On success the cache is saved exactly once, whether
// or not any duplicates were found.
func (s *Scanner) Scan(roots []string) ([]DuplicatePair, error) {
	total := CountTrees(roots, s.Exclude)
	s.Log.Debug().Strs("roots", roots).Int("candidates", total).Msg("starting scan")

	var dupes []DuplicatePair
	var scanErr error
	item := 1
	WalkTrees(roots, s.Exclude, func(path string) bool {
		stats := s.Cache.Stats()
		s.Progress.Update(fmt.Sprintf("Scanning %d/%d %s (%.0f B/s)", item, total, path, stats.BytesPerSecond))

		verdict, other, err := s.Cache.Classify(path)
		if err != nil {
			scanErr = err
			return false
		}
		if verdict == VerdictDuplicate {
			s.Log.Debug().Str("path", path).Str("other", other).Msg("duplicate found")
			dupes = append(dupes, DuplicatePair{Path: path, Other: other})
		}
		item++
		return true
	})
	s.Progress.Clear()

	if scanErr != nil {
		return nil, fmt.Errorf("scan aborted: %w", scanErr)
	}
	if err := s.Cache.Save(); err != nil {
		return nil, err
	}

	stats := s.Cache.Stats()
	s.Log.Debug().
		Int("files", stats.Files).
		Int("hashes", stats.Hashes).
		Int64("bytesRead", stats.BytesRead).
		Int("duplicates", len(dupes)).
		Msg("scan complete")
	return dupes, nil
}
