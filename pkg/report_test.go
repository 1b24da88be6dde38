package dupecheck

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport_OlderFileFirst(t *testing.T) {
	dir, cache := newTestCache(t)
	older := filepath.Join(dir, "older.txt")
	newer := filepath.Join(dir, "newer.txt")
	writeFile(t, older, "shared")
	writeFile(t, newer, "shared")

	past := time.Now().Add(-24 * time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	// The newer file walked first and became the representative; the
	// report still puts the older file first.
	pairs := []DuplicatePair{{Path: older, Other: cache.Sanitize(newer)}}
	report := BuildReport(pairs, cache)
	require.Len(t, report.Pairs, 1)
	assert.Equal(t, older, report.Pairs[0].Path)
	assert.Equal(t, newer, report.Pairs[0].Other)
}

func TestBuildReport_SortsPairs(t *testing.T) {
	dir, cache := newTestCache(t)
	var pairs []DuplicatePair
	now := time.Now()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		a := filepath.Join(dir, name+"-1.txt")
		b := filepath.Join(dir, name+"-2.txt")
		writeFile(t, a, "content "+name)
		writeFile(t, b, "content "+name)
		// Pin both mtimes so ordering within a pair is stable.
		require.NoError(t, os.Chtimes(a, now.Add(-time.Hour), now.Add(-time.Hour)))
		require.NoError(t, os.Chtimes(b, now, now))
		pairs = append(pairs, DuplicatePair{Path: b, Other: cache.Sanitize(a)})
	}

	report := BuildReport(pairs, cache)
	require.Len(t, report.Pairs, 3)
	assert.Equal(t, filepath.Join(dir, "alpha-1.txt"), report.Pairs[0].Path)
	assert.Equal(t, filepath.Join(dir, "mid-1.txt"), report.Pairs[1].Path)
	assert.Equal(t, filepath.Join(dir, "zeta-1.txt"), report.Pairs[2].Path)
}

func TestBuildReport_SegregatesEmptyFiles(t *testing.T) {
	dir, cache := newTestCache(t)
	first := filepath.Join(dir, "empty-a.txt")
	second := filepath.Join(dir, "empty-b.txt")
	writeFile(t, first, "")
	writeFile(t, second, "")

	pairs := []DuplicatePair{{Path: second, Other: cache.Sanitize(first)}}
	report := BuildReport(pairs, cache)
	assert.Empty(t, report.Pairs)
	assert.Equal(t, []string{first, second}, report.Empty)
}

func TestBuildReport_ResolvesRelativeKeys(t *testing.T) {
	dir, cache := newTestCache(t)
	rep := filepath.Join(dir, "sub", "rep.txt")
	dup := filepath.Join(dir, "dup.txt")
	writeFile(t, rep, "shared")
	writeFile(t, dup, "shared")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(rep, past, past))

	// Representatives are stored as sanitized keys, relative to the
	// cache directory.
	report := BuildReport([]DuplicatePair{{Path: dup, Other: filepath.Join("sub", "rep.txt")}}, cache)
	require.Len(t, report.Pairs, 1)
	assert.Equal(t, rep, report.Pairs[0].Path)
	assert.Equal(t, dup, report.Pairs[0].Other)
}

func TestPrintReport_Format(t *testing.T) {
	dir, cache := newTestCache(t)
	first := filepath.Join(dir, "one.txt")
	second := filepath.Join(dir, "two.txt")
	writeFile(t, first, "shared")
	writeFile(t, second, "shared")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(first, past, past))

	report := BuildReport([]DuplicatePair{{Path: second, Other: cache.Sanitize(first)}}, cache)
	var buf bytes.Buffer
	PrintReport(&buf, report, cache)
	assert.Equal(t, fmt.Sprintf("Dupe: %q -> %q\n", first, second), buf.String())
}

func TestPrintReport_EmptyFilesSection(t *testing.T) {
	dir, cache := newTestCache(t)
	first := filepath.Join(dir, "a.txt")
	second := filepath.Join(dir, "b.txt")
	writeFile(t, first, "")
	writeFile(t, second, "")

	report := BuildReport([]DuplicatePair{{Path: second, Other: cache.Sanitize(first)}}, cache)
	var buf bytes.Buffer
	PrintReport(&buf, report, cache)
	assert.Equal(t, fmt.Sprintf("Empty files:\n%s\n%s\n", first, second), buf.String())
}

func TestPrintReport_IntegrityMismatch(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(filepath.Join(dir, DefaultCacheName), nil, zerolog.Nop())
	first := filepath.Join(dir, "one.txt")
	second := filepath.Join(dir, "two.txt")
	writeFile(t, first, "was shared")
	writeFile(t, second, "was shared")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(first, past, past))

	report := BuildReport([]DuplicatePair{{Path: second, Other: cache.Sanitize(first)}}, cache)
	require.Len(t, report.Pairs, 1)

	// The file changes between the scan and the report; the pair is
	// still printed but flagged.
	writeFile(t, second, "diverged since the scan")
	var buf bytes.Buffer
	PrintReport(&buf, report, cache)
	assert.Contains(t, buf.String(), fmt.Sprintf("Dupe: %q -> %q\n", first, second))
	assert.Contains(t, buf.String(), "ERROR!!!")
}

func TestVerifyPair(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "one.txt")
	second := filepath.Join(dir, "two.txt")
	third := filepath.Join(dir, "three.txt")
	writeFile(t, first, "same bytes")
	writeFile(t, second, "same bytes")
	writeFile(t, third, "other bytes")

	algorithm, err := GetHashAlgorithm(DefaultHashAlgorithm)
	require.NoError(t, err)
	assert.NoError(t, VerifyPair(first, second, algorithm))
	assert.Error(t, VerifyPair(first, third, algorithm))
	assert.Error(t, VerifyPair(first, filepath.Join(dir, "missing"), algorithm))
}
