package fsx

import (
	"bytes"
	"os"

	"github.com/natefinch/atomic"
)

// Real implements FS using the real filesystem. All methods are
// passthroughs to the os package, following pkg/fs/real.go.
type Real struct{}

// NewReal returns a new Real filesystem.
func NewReal() *Real { return &Real{} }

// OpenFile is a passthrough wrapper for [os.OpenFile].
func (r *Real) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(path, flag, perm)
}

// Stat is a passthrough wrapper for [os.Stat].
func (r *Real) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Remove is a passthrough wrapper for [os.Remove].
func (r *Real) Remove(path string) error {
	return os.Remove(path)
}

// WriteFileAtomic replaces path's entire contents with data using
// github.com/natefinch/atomic, so a crash mid-write cannot leave a
// truncated or zero-length file behind. Used only for one-shot header
// creation when an index file is opened for the first time
// (internal/fs/real.go uses the same call for the ticket tracker's
// config writes). A new heap file starts empty and is created with
// OpenFile instead.
func (r *Real) WriteFileAtomic(path string, data []byte) error {
	return atomic.WriteFile(path, bytes.NewReader(data))
}

var _ FS = (*Real)(nil)
