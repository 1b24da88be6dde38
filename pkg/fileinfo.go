package dupecheck

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FileIdentity is the cheap identity proxy for a file: the stat fields
// that decide whether a cached hash can still be trusted without
// re-reading the file's content.
type FileIdentity struct {
	Dev   uint64
	Inode uint64
	Size  int64
	MTime float64
}

// StatIdentity returns the identity proxy for path. Symlinks are not
// expected here; the walker never yields them.
func StatIdentity(path string) (FileIdentity, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return FileIdentity{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return FileIdentity{
		Dev:   uint64(st.Dev),
		Inode: uint64(st.Ino),
		Size:  st.Size,
		MTime: float64(st.Mtim.Sec) + float64(st.Mtim.Nsec)/1e9,
	}, nil
}

// SameUnderlyingFile reports whether two identities refer to the same
// file on disk (same device and inode). Hardlinked paths are the same
// file, not duplicates of each other.
func SameUnderlyingFile(a, b FileIdentity) bool {
	return a.Dev == b.Dev && a.Inode == b.Inode
}

// SameFile is the path-level form of SameUnderlyingFile.
func SameFile(pathA, pathB string) (bool, error) {
	a, err := StatIdentity(pathA)
	if err != nil {
		return false, err
	}
	b, err := StatIdentity(pathB)
	if err != nil {
		return false, err
	}
	return SameUnderlyingFile(a, b), nil
}
