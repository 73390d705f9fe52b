// Package fsx provides the filesystem seam the heap and sequential-index
// packages use instead of calling the os package directly.
//
// Grounded on pkg/fs/fs.go's FS/File interfaces, trimmed to the subset
// spec.md §5's scoped open/seek/read-or-write/close model actually needs.
// The crash/chaos fault-injection layers built on top of the teacher's
// FS interface are not carried over: spec.md §5/§7 explicitly disclaim
// any crash-consistency guarantee at this layer, so there is no property
// for such a harness to check (see DESIGN.md).
package fsx

import "os"

// File is the subset of *os.File that heap and seqindex require.
type File interface {
	ReadAt(b []byte, off int64) (int, error)
	WriteAt(b []byte, off int64) (int, error)
	Stat() (os.FileInfo, error)
	Close() error
}

// FS abstracts the filesystem operations the storage layer performs.
// All methods mirror their os package equivalents.
type FS interface {
	// OpenFile opens a file with the given flags and permissions. See
	// [os.OpenFile].
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// Stat returns file info for path. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Remove deletes path. See [os.Remove].
	Remove(path string) error
}

// Compile-time interface check.
var _ File = (*os.File)(nil)
