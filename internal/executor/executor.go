// Package executor implements the thin dispatch layer of spec.md §4.5:
// insert writes through the heap and every registered index; lookups
// and deletes use the first index covering the requested column, or
// fall back to a full heap scan.
//
// Grounded on executor.py, translated field-for-field: heap.insert then
// per-index insert, index.search-or-heap.scan_eq, and the RID recovery
// step in delete that reads the row's embedded identifier back out to
// remove it from the heap and from the index used for the lookup.
package executor

import (
	"errors"
	"fmt"

	"github.com/DarkNight7593/Proyecto-BDII/internal/heap"
	"github.com/DarkNight7593/Proyecto-BDII/internal/index"
	"github.com/DarkNight7593/Proyecto-BDII/internal/rid"
	"github.com/DarkNight7593/Proyecto-BDII/internal/schema"
)

// ErrMissingIndexedColumn is returned by Insert when a row lacks a
// value for a column one of the table's indexes covers (spec.md §4.5).
var ErrMissingIndexedColumn = errors.New("executor: row is missing an indexed column")

// Executor dispatches inserts, lookups, and deletes against one table:
// a heap plus zero or more indexes.
type Executor struct {
	Heap    *heap.Heap
	Indexes []*index.Index
}

// New returns an Executor over heap h with the given indexes, consulted
// in order (spec.md §4.5: "the executor consults only the first index
// whose key_col matches").
func New(h *heap.Heap, indexes []*index.Index) *Executor {
	return &Executor{Heap: h, Indexes: indexes}
}

func (ex *Executor) indexFor(col string) *index.Index {
	for _, ix := range ex.Indexes {
		if ix.KeyCol == col {
			return ix
		}
	}
	return nil
}

// Insert writes row to the heap, then updates every registered index.
func (ex *Executor) Insert(row schema.Row) (rid.RID, error) {
	r, err := ex.Heap.Insert(row)
	if err != nil {
		return rid.RID{}, err
	}

	for _, ix := range ex.Indexes {
		if !row.Has(ix.KeyCol) {
			return rid.RID{}, fmt.Errorf("%w: %q", ErrMissingIndexedColumn, ix.KeyCol)
		}
		if err := ix.Insert(row.Get(ix.KeyCol), r); err != nil {
			return rid.RID{}, err
		}
	}
	return r, nil
}

// SelectEq returns every row with col == key, using an index over col
// if one is registered, or a full heap scan otherwise.
func (ex *Executor) SelectEq(col string, key schema.Value) ([]schema.Row, error) {
	if ix := ex.indexFor(col); ix != nil {
		rids, err := ix.Search(key)
		if err != nil {
			return nil, err
		}
		return ex.readAll(rids)
	}

	var out []schema.Row
	for row := range ex.Heap.ScanEq(col, key) {
		out = append(out, row)
	}
	return out, nil
}

// SelectBetween returns every row with lo <= col <= hi, symmetric with
// SelectEq.
func (ex *Executor) SelectBetween(col string, lo, hi schema.Value) ([]schema.Row, error) {
	if ix := ex.indexFor(col); ix != nil {
		rids, err := ix.RangeSearch(lo, hi)
		if err != nil {
			return nil, err
		}
		return ex.readAll(rids)
	}

	var out []schema.Row
	for row := range ex.Heap.ScanRange(col, lo, hi) {
		out = append(out, row)
	}
	return out, nil
}

func (ex *Executor) readAll(rids []rid.RID) ([]schema.Row, error) {
	out := make([]schema.Row, 0, len(rids))
	for _, r := range rids {
		row, err := ex.Heap.Read(r)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// Delete removes every row with col == key: it locates candidates
// (via the first index over col, or a full scan), frees each one in the
// heap, and tombstones the matching entry in that first index. Other
// indexes, including further ones over col, are not updated. It
// returns the number of rows removed.
func (ex *Executor) Delete(col string, key schema.Value) (int, error) {
	ix := ex.indexFor(col)

	var rows []schema.Row
	var err error
	if ix != nil {
		rids, serr := ix.Search(key)
		if serr != nil {
			return 0, serr
		}
		rows, err = ex.readAll(rids)
	} else {
		for row := range ex.Heap.ScanEq(col, key) {
			rows = append(rows, row)
		}
	}
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		if !row.HasRID {
			continue
		}
		ok, derr := ex.Heap.Delete(row.RID)
		if derr != nil {
			return count, derr
		}
		if !ok {
			continue
		}
		if ix != nil {
			r := row.RID
			if _, ierr := ix.Delete(key, &r); ierr != nil {
				return count, ierr
			}
		}
		count++
	}
	return count, nil
}
