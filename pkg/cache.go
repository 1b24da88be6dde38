package dupecheck

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// DefaultCacheName is the cache file created in the current directory
// when no explicit cache path is given.
const DefaultCacheName = ".dupecache"

// Verdict is the result of classifying a candidate path against the cache.
type Verdict int

const (
	// VerdictSame means the path is already known and its identity proxy
	// (inode, size, mtime) is unchanged; the cached hash was trusted and
	// no content was read.
	VerdictSame Verdict = 1

	// VerdictDifferent means freshly seen content: either a new path, or
	// a known path whose content was replaced since it was cached.
	VerdictDifferent Verdict = 0

	// VerdictDuplicate means the path's content hash is already held in
	// the cache under a different underlying file.
	VerdictDuplicate Verdict = -1
)

// PathRecord is the by-path half of the cache: the identity proxy and
// content hash last recorded for one path.
type PathRecord struct {
	Inode uint64  `json:"inode"`
	Size  int64   `json:"size"`
	MTime float64 `json:"mtime"`
	Hash  string  `json:"hash"`
}

// HashRecord is the by-hash half of the cache: the single representative
// path currently retained for one content hash.
type HashRecord struct {
	Path  string  `json:"path"`
	Inode uint64  `json:"inode"`
	Size  int64   `json:"size"`
	MTime float64 `json:"mtime"`
}

// cacheDocument is the persisted unit, written and read wholesale.
type cacheDocument struct {
	FilesByPath map[string]*PathRecord `json:"files_by_path"`
	FilesByHash map[string]*HashRecord `json:"files_by_hash"`
}

// Cache maps paths to file identities and content hashes, persisted
// across runs so unchanged files need never be re-hashed. The two
// indexes are kept mutually consistent on every insert: each by-path
// record's hash is a valid by-hash key, and that by-hash record points
// back at the inserting path.
type Cache struct {
	cachePath string
	cacheDir  string

	filesByPath map[string]*PathRecord
	filesByHash map[string]*HashRecord

	algorithm *HashAlgorithm
	log       zerolog.Logger

	// Scan statistics, accumulated across Classify calls.
	bytesRead    int64
	filesScanned int
	hashCount    int
	startTime    time.Time
}

// ScanStats summarises the work done since the cache was created.
type ScanStats struct {
	Files          int
	Hashes         int
	BytesRead      int64
	BytesPerSecond float64
}

// NewCache creates a cache rooted at cachePath. The file is not read
// until Load is called. A nil algorithm selects the default. The logger
// is the cache's injected diagnostic output; pass zerolog.Nop() to
// silence it.
func NewCache(cachePath string, algorithm *HashAlgorithm, logger zerolog.Logger) *Cache {
	if algorithm == nil {
		algorithm, _ = GetHashAlgorithm(DefaultHashAlgorithm)
	}
	return &Cache{
		cachePath:   cachePath,
		cacheDir:    filepath.Dir(cachePath),
		filesByPath: make(map[string]*PathRecord),
		filesByHash: make(map[string]*HashRecord),
		algorithm:   algorithm,
		log:         logger,
		startTime:   time.Now(),
	}
}

// CachePath returns the location the cache persists to.
func (c *Cache) CachePath() string {
	return c.cachePath
}

// Algorithm returns the content hash algorithm in use.
func (c *Cache) Algorithm() *HashAlgorithm {
	return c.algorithm
}

// Length returns the number of paths currently indexed.
func (c *Cache) Length() int {
	return len(c.filesByPath)
}

// Sanitize returns the canonical cache key for path: absolute paths are
// kept as-is, relative paths are re-expressed relative to the directory
// containing the cache file. This keeps keys stable across invocations
// from different working directories and lets the cache file relocate
// together with the tree it describes.
func (c *Cache) Sanitize(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(c.cacheDir, abs)
	if err != nil {
		return path
	}
	return rel
}

// DiskPath resolves a sanitized cache key back to a usable filesystem
// path.
func (c *Cache) DiskPath(spath string) string {
	if filepath.IsAbs(spath) {
		return spath
	}
	return filepath.Join(c.cacheDir, spath)
}

// Load reads the persisted cache from the cache path. A missing or
// unreadable file yields an empty cache, never an error: the cost is
// only recomputation.
func (c *Cache) Load() {
	file, err := os.Open(c.cachePath)
	if err != nil {
		c.log.Debug().Err(err).Str("cache", c.cachePath).Msg("no readable cache file, starting empty")
		return
	}
	defer file.Close()
	c.LoadFrom(file)
}

// LoadFrom reads a cache document from an already-open reader,
// re-sanitizes every path against the current cache location,
// cross-links the two indexes, and then purges stale entries. An empty
// or unparseable document yields an empty cache.
func (c *Cache) LoadFrom(r io.Reader) {
	doc, err := readCacheDocument(r)
	if err != nil {
		c.log.Warn().Err(err).Str("cache", c.cachePath).Msg("discarding unreadable cache document")
		return
	}
	for path, rec := range doc.FilesByPath {
		hrec, ok := doc.FilesByHash[rec.Hash]
		if !ok {
			// The by-hash half is missing; dropping the record is cheaper
			// than carrying a dangling hash key.
			c.log.Debug().Str("path", path).Str("hash", rec.Hash).Msg("dropping cache entry with no by-hash record")
			continue
		}
		spath := c.Sanitize(path)
		c.filesByPath[spath] = rec
		linked := *hrec
		linked.Path = spath
		c.filesByHash[rec.Hash] = &linked
	}
	c.log.Debug().
		Int("byPath", len(c.filesByPath)).
		Int("byHash", len(c.filesByHash)).
		Msg("loaded cache")
	c.purgeStale()
}

// readCacheDocument parses a cache document from r. A zero-length
// document is a valid empty cache.
func readCacheDocument(r io.Reader) (*cacheDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	doc := &cacheDocument{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse cache: %w", err)
	}
	return doc, nil
}

// purgeStale drops every entry whose path no longer exists on disk or
// whose file is now empty, removing both halves together. Vanished paths
// would otherwise risk false "unchanged" verdicts if their identity were
// reused, and zero-byte files all hash identically, which would register
// as mass duplicates.
func (c *Cache) purgeStale() {
	var remove []string
	for spath := range c.filesByPath {
		id, err := StatIdentity(c.DiskPath(spath))
		if err != nil || id.Size == 0 {
			remove = append(remove, spath)
		}
	}
	for _, spath := range remove {
		hash := c.filesByPath[spath].Hash
		delete(c.filesByPath, spath)
		delete(c.filesByHash, hash)
		c.log.Debug().Str("path", spath).Msg("purged stale cache entry")
	}
}

// Save serialises both indexes wholesale, overwriting the destination.
// A failed save only costs recomputation on the next run, so no atomic
// rename is attempted.
func (c *Cache) Save() error {
	file, err := os.Create(c.cachePath)
	if err != nil {
		return fmt.Errorf("failed to create cache file %s: %w", c.cachePath, err)
	}
	defer file.Close()

	if err := c.SaveTo(file); err != nil {
		return fmt.Errorf("failed to write cache file %s: %w", c.cachePath, err)
	}
	c.log.Debug().
		Int("byPath", len(c.filesByPath)).
		Int("byHash", len(c.filesByHash)).
		Str("cache", c.cachePath).
		Msg("saved cache")
	return nil
}

// SaveTo writes the cache document to an already-open writer.
func (c *Cache) SaveTo(w io.Writer) error {
	doc := &cacheDocument{
		FilesByPath: c.filesByPath,
		FilesByHash: c.filesByHash,
	}
	return json.NewEncoder(w).Encode(doc)
}

// Classify decides whether path is unchanged since last seen, freshly
// seen content, or a duplicate of previously seen content.
//
// For a known path whose inode, size (> 0) and mtime all still match the
// cached record, the verdict is VerdictSame and no content is read; this
// is the optimization the cache exists for. A known path that fails the
// identity check is re-hashed and its records superseded
// (VerdictDifferent). An unknown path is hashed: if the hash is already
// indexed under a different underlying file the verdict is
// VerdictDuplicate and other names the retained representative, which
// keeps its place; otherwise the path is inserted into both indexes
// (VerdictDifferent).
//
// Stat or read failures on the candidate abort classification and are
// returned to the caller.
func (c *Cache) Classify(path string) (verdict Verdict, other string, err error) {
	c.filesScanned++
	spath := c.Sanitize(path)
	disk := c.DiskPath(spath)

	id, err := StatIdentity(disk)
	if err != nil {
		return VerdictDifferent, "", err
	}

	if rec, ok := c.filesByPath[spath]; ok {
		if rec.Inode == id.Inode && id.Size > 0 && rec.Size == id.Size && rec.MTime == id.MTime {
			return VerdictSame, spath, nil
		}
		// The path now holds different content; supersede both records,
		// dropping the old by-hash entry if this path was its
		// representative so it cannot match content that no longer exists.
		hash, err := c.hashFile(disk, id.Size)
		if err != nil {
			return VerdictDifferent, "", err
		}
		if old, ok := c.filesByHash[rec.Hash]; ok && old.Path == spath {
			delete(c.filesByHash, rec.Hash)
		}
		c.insert(spath, id, hash)
		return VerdictDifferent, "", nil
	}

	hash, err := c.hashFile(disk, id.Size)
	if err != nil {
		return VerdictDifferent, "", err
	}
	if hrec, ok := c.filesByHash[hash]; ok {
		repID, statErr := StatIdentity(c.DiskPath(hrec.Path))
		if statErr != nil {
			// The representative vanished mid-run. The by-hash entry is
			// stale and must be purged before use; the candidate then
			// takes over as the hash's representative below.
			c.log.Debug().Str("path", hrec.Path).Msg("purging vanished representative")
			delete(c.filesByPath, hrec.Path)
			delete(c.filesByHash, hash)
		} else if !SameUnderlyingFile(id, repID) {
			return VerdictDuplicate, hrec.Path, nil
		}
		// Same underlying file (a hardlink, or the representative itself
		// under a new key): fall through and let this path take over the
		// records rather than flag it as a duplicate.
	}
	c.insert(spath, id, hash)
	return VerdictDifferent, "", nil
}

// insert records spath under both indexes, keeping them mutually
// consistent: the by-path record's hash keys the by-hash record, which
// points back at spath.
func (c *Cache) insert(spath string, id FileIdentity, hash string) {
	c.filesByPath[spath] = &PathRecord{
		Inode: id.Inode,
		Size:  id.Size,
		MTime: id.MTime,
		Hash:  hash,
	}
	c.filesByHash[hash] = &HashRecord{
		Path:  spath,
		Inode: id.Inode,
		Size:  id.Size,
		MTime: id.MTime,
	}
	c.log.Debug().Str("path", spath).Str("hash", hash).Msg("cached file")
}

// hashFile hashes a file's content and accounts for the read in the scan
// statistics.
func (c *Cache) hashFile(path string, size int64) (string, error) {
	hash, err := HashFile(path, c.algorithm)
	if err != nil {
		return "", err
	}
	c.hashCount++
	c.bytesRead += size
	return hash, nil
}

// Stats returns the scan counters and read throughput so far.
func (c *Cache) Stats() ScanStats {
	stats := ScanStats{
		Files:     c.filesScanned,
		Hashes:    c.hashCount,
		BytesRead: c.bytesRead,
	}
	if elapsed := time.Since(c.startTime).Seconds(); elapsed > 0 {
		stats.BytesPerSecond = float64(c.bytesRead) / elapsed
	}
	return stats
}
