// Package index adapts internal/seqindex's sequential-file index to
// the narrow contract internal/executor consumes: insert/search/
// range_search/delete over a named key column (spec.md §4.4).
//
// Grounded on index.py's SequentialFileIndex, which plays the exact
// same adaptor role over lowlevel.py's LowLevelSequentialFile.
package index

import (
	"fmt"

	"github.com/DarkNight7593/Proyecto-BDII/internal/rid"
	"github.com/DarkNight7593/Proyecto-BDII/internal/schema"
	"github.com/DarkNight7593/Proyecto-BDII/internal/seqindex"
	"github.com/DarkNight7593/Proyecto-BDII/pkg/fsx"
)

// Index is a sequential-file index over one key column.
type Index struct {
	KeyCol string
	sf     *seqindex.Index
}

// Open opens or creates the sequential index file backing keyCol.
func Open(path, keyCol string) (*Index, error) {
	sf, err := seqindex.Open(path)
	if err != nil {
		return nil, err
	}
	return &Index{KeyCol: keyCol, sf: sf}, nil
}

// OpenFS is Open with an injectable filesystem, used by this package's
// own tests.
func OpenFS(fs fsx.FS, path, keyCol string) (*Index, error) {
	sf, err := seqindex.OpenFS(fs, path)
	if err != nil {
		return nil, err
	}
	return &Index{KeyCol: keyCol, sf: sf}, nil
}

// coerceKey reduces a schema.Value to the signed 32-bit integer key
// the sequential index stores (spec.md §4.4: "coerces incoming keys to
// signed 32-bit").
func coerceKey(v schema.Value) (int32, error) {
	if i, ok := v.Int(); ok {
		return i, nil
	}
	if f, ok := v.Float(); ok {
		return int32(f), nil
	}
	return 0, fmt.Errorf("index: value %v is not a valid index key", v)
}

// Insert adds (key, r) to the index.
func (ix *Index) Insert(key schema.Value, r rid.RID) error {
	k, err := coerceKey(key)
	if err != nil {
		return err
	}
	return ix.sf.Insert(k, r)
}

// Search returns the RIDs stored under key, with the same result shape
// as seqindex.Index.Search: a live match found by the binary search
// over the main region is returned alone.
func (ix *Index) Search(key schema.Value) ([]rid.RID, error) {
	k, err := coerceKey(key)
	if err != nil {
		return nil, err
	}
	return ix.sf.Search(k)
}

// RangeSearch returns every RID with key in [lo, hi], normalizing a
// swapped (lo, hi) pair.
func (ix *Index) RangeSearch(lo, hi schema.Value) ([]rid.RID, error) {
	loK, err := coerceKey(lo)
	if err != nil {
		return nil, err
	}
	hiK, err := coerceKey(hi)
	if err != nil {
		return nil, err
	}
	entries, err := ix.sf.RangeSearch(loK, hiK)
	if err != nil {
		return nil, err
	}
	out := make([]rid.RID, len(entries))
	for i, e := range entries {
		out[i] = e.RID
	}
	return out, nil
}

// Delete removes entries matching key (and, if r is non-nil, matching
// RID exactly). It returns the number removed.
func (ix *Index) Delete(key schema.Value, r *rid.RID) (int, error) {
	k, err := coerceKey(key)
	if err != nil {
		return 0, err
	}
	return ix.sf.DeleteKey(k, r)
}
