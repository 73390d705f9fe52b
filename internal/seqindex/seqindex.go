// Package seqindex implements the sequential-file index of spec.md §4.3:
// an on-disk ordered key→RID multi-map with a main region D (sorted
// after Reorganize) and an auxiliary region A (recent inserts), linked
// into one ascending-key logical list via integer next_ptr pointers.
//
// Grounded byte-for-byte on lowlevel.py — the pointer encoding, the
// predecessor-walk-then-splice insert algorithm, equal-key ordering,
// and the reorganize threshold are all carried over exactly. Go names
// replace the Python helpers one-for-one: dptr/aptr/loc become
// dPtr/aPtr/pointerTarget, SFEntry.deleted() becomes entry.tombstoned().
package seqindex

import (
	"fmt"
	"math"
	"os"

	"github.com/DarkNight7593/Proyecto-BDII/internal/rid"
	"github.com/DarkNight7593/Proyecto-BDII/pkg/fsx"
)

// Entry is one (key, rid) pair as returned by RangeSearch.
type Entry struct {
	Key int32
	RID rid.RID
}

// Index is a handle to an open sequential index file. A zero value is
// not usable; obtain one via Open.
type Index struct {
	path string
	fs   fsx.FS
}

// Open opens or creates the index file at path. A nonexistent path is
// created with a well-formed empty header (0, 0, 0).
func Open(path string) (*Index, error) {
	return OpenFS(fsx.NewReal(), path)
}

// OpenFS is Open with an injectable filesystem, used by this package's
// own tests.
func OpenFS(fs fsx.FS, path string) (*Index, error) {
	if _, err := fs.Stat(path); os.IsNotExist(err) {
		real, isReal := fs.(interface {
			WriteFileAtomic(path string, data []byte) error
		})
		if isReal {
			if err := real.WriteFileAtomic(path, encodeHeader(header{})); err != nil {
				return nil, fmt.Errorf("seqindex: create %q: %w", path, err)
			}
		} else {
			f, createErr := fs.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
			if createErr != nil {
				return nil, fmt.Errorf("seqindex: create %q: %w", path, createErr)
			}
			if _, err := f.WriteAt(encodeHeader(header{}), 0); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("seqindex: init header %q: %w", path, err)
			}
			if err := f.Close(); err != nil {
				return nil, fmt.Errorf("seqindex: create %q: %w", path, err)
			}
		}
	} else if err != nil {
		return nil, fmt.Errorf("seqindex: stat %q: %w", path, err)
	}

	return &Index{path: path, fs: fs}, nil
}

func (ix *Index) open(flag int) (fsx.File, error) {
	f, err := ix.fs.OpenFile(ix.path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("seqindex: open %q: %w", ix.path, err)
	}
	return f, nil
}

func (ix *Index) readHeader(f fsx.File) (header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return header{}, fmt.Errorf("seqindex: read header: %w", err)
	}
	return decodeHeader(buf), nil
}

func (ix *Index) writeHeader(f fsx.File, h header) error {
	if _, err := f.WriteAt(encodeHeader(h), 0); err != nil {
		return fmt.Errorf("seqindex: write header: %w", err)
	}
	return nil
}

func offD(i int) int64 {
	return HeaderSize + int64(i-1)*EntrySize
}

func offA(i int, m int32) int64 {
	return HeaderSize + int64(m)*EntrySize + int64(i-1)*EntrySize
}

func (ix *Index) readEntry(f fsx.File, isAux bool, idx int, m int32) (entry, error) {
	off := offD(idx)
	if isAux {
		off = offA(idx, m)
	}
	buf := make([]byte, EntrySize)
	if _, err := f.ReadAt(buf, off); err != nil {
		return entry{}, fmt.Errorf("seqindex: read entry (aux=%v,idx=%d): %w", isAux, idx, err)
	}
	return decodeEntry(buf), nil
}

func (ix *Index) writeEntry(f fsx.File, isAux bool, idx int, e entry, m int32) error {
	off := offD(idx)
	if isAux {
		off = offA(idx, m)
	}
	if _, err := f.WriteAt(encodeEntry(e), off); err != nil {
		return fmt.Errorf("seqindex: write entry (aux=%v,idx=%d): %w", isAux, idx, err)
	}
	return nil
}

func (ix *Index) readByPtr(f fsx.File, p int32, m int32) (entry, error) {
	isAux, idx := pointerTarget(p)
	return ix.readEntry(f, isAux, idx, m)
}

func (ix *Index) writeByPtr(f fsx.File, p int32, e entry, m int32) error {
	isAux, idx := pointerTarget(p)
	return ix.writeEntry(f, isAux, idx, e, m)
}

// lowerBoundD returns the 1-based index of the first entry in D[1..m]
// whose key is >= key, or m+1 if none. Pure binary search; does not
// skip tombstones (spec.md §4.3, "lower_bound_D").
func (ix *Index) lowerBoundD(f fsx.File, key int32, m int32) (int32, error) {
	l, r, ans := int32(1), m, m+1
	for l <= r {
		mid := (l + r) / 2
		e, err := ix.readEntry(f, false, int(mid), m)
		if err != nil {
			return 0, err
		}
		if e.Key >= key {
			ans = mid
			r = mid - 1
		} else {
			l = mid + 1
		}
	}
	return ans, nil
}

// livePredecessor walks backward from min(lb-1, m) to find the largest
// live D-index j before lb. It returns j, the entry D[j], and found;
// found is false (and j is 0) if there is none. Insert and
// startOfLogicalWalk derive their starting (prevPtr, curPtr) from it.
func (ix *Index) livePredecessor(f fsx.File, lb int32, m int32) (j int32, dj entry, found bool, err error) {
	j = lb - 1
	if j > m {
		j = m
	}
	for j >= 1 {
		e, rerr := ix.readEntry(f, false, int(j), m)
		if rerr != nil {
			return 0, entry{}, false, rerr
		}
		if !e.tombstoned() {
			return j, e, true, nil
		}
		j--
	}
	return 0, entry{}, false, nil
}

// Insert appends (key, r) to the auxiliary region and splices it into
// the logical list in ascending key order (spec.md §4.3, "insert"). On
// insertion of a key equal to an existing live key, the new entry is
// placed before it, so the logical list (and RangeSearch) holds
// duplicates most-recent-first.
func (ix *Index) Insert(key int32, r rid.RID) error {
	f, err := ix.open(os.O_RDWR)
	if err != nil {
		return err
	}
	defer f.Close()

	hdr, err := ix.readHeader(f)
	if err != nil {
		return err
	}
	m, a, h := hdr.MainCount, hdr.AuxCount, hdr.HeadPtr

	idx := int(a) + 1
	newEntry := entry{Key: key, RID: r, NextPtr: endPtr}
	if err := ix.writeEntry(f, true, idx, newEntry, m); err != nil {
		return err
	}
	a++
	newPtr := aPtr(idx)

	if h == endPtr {
		if err := ix.writeHeader(f, header{MainCount: m, AuxCount: a, HeadPtr: newPtr}); err != nil {
			return err
		}
		return ix.maybeReorg(f, m, a)
	}

	lb, err := ix.lowerBoundD(f, key, m)
	if err != nil {
		return err
	}
	j, dj, found, err := ix.livePredecessor(f, lb, m)
	if err != nil {
		return err
	}

	var prevPtr, curPtr int32
	if found {
		prevPtr = dPtr(int(j))
		curPtr = dj.NextPtr
	} else {
		headEntry, err := ix.readByPtr(f, h, m)
		if err != nil {
			return err
		}
		if key <= headEntry.Key {
			newEntry.NextPtr = h
			if err := ix.writeEntry(f, true, idx, newEntry, m); err != nil {
				return err
			}
			if err := ix.writeHeader(f, header{MainCount: m, AuxCount: a, HeadPtr: newPtr}); err != nil {
				return err
			}
			return ix.maybeReorg(f, m, a)
		}
		prevPtr = 0
		curPtr = h
	}

	for !isEnd(curPtr) {
		node, err := ix.readByPtr(f, curPtr, m)
		if err != nil {
			return err
		}
		if node.tombstoned() {
			curPtr = node.NextPtr
			continue
		}
		if node.Key < key {
			prevPtr = curPtr
			curPtr = node.NextPtr
			continue
		}
		break
	}

	newEntry.NextPtr = curPtr
	if err := ix.writeEntry(f, true, idx, newEntry, m); err != nil {
		return err
	}

	if prevPtr == 0 {
		h = newPtr
	} else {
		prev, err := ix.readByPtr(f, prevPtr, m)
		if err != nil {
			return err
		}
		prev.NextPtr = newPtr
		if err := ix.writeByPtr(f, prevPtr, prev, m); err != nil {
			return err
		}
	}

	if err := ix.writeHeader(f, header{MainCount: m, AuxCount: a, HeadPtr: h}); err != nil {
		return err
	}
	return ix.maybeReorg(f, m, a)
}

// startOfLogicalWalk resolves the (prev, cur) pointer pair a forward
// walk for key should begin from: either the successor of key's live
// D-predecessor, or the head if there is none.
func (ix *Index) startOfLogicalWalk(f fsx.File, key int32, m, h int32) (prevPtr, curPtr int32, err error) {
	lb, err := ix.lowerBoundD(f, key, m)
	if err != nil {
		return 0, 0, err
	}
	j, dj, found, err := ix.livePredecessor(f, lb, m)
	if err != nil {
		return 0, 0, err
	}
	if found {
		return dPtr(int(j)), dj.NextPtr, nil
	}
	return 0, h, nil
}

// Search returns the live RIDs stored under key (spec.md §4.3,
// "search"). If the binary search over D lands on a live entry with
// this key, only that entry's RID is returned; equal-key entries
// elsewhere (for example, newer ones still in A) are not reported.
// Otherwise the logical list is walked and every live match is
// returned, most-recently-inserted first.
func (ix *Index) Search(key int32) ([]rid.RID, error) {
	f, err := ix.open(os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hdr, err := ix.readHeader(f)
	if err != nil {
		return nil, err
	}
	if hdr.HeadPtr == endPtr {
		return nil, nil
	}
	m, h := hdr.MainCount, hdr.HeadPtr

	lb, err := ix.lowerBoundD(f, key, m)
	if err != nil {
		return nil, err
	}
	if lb >= 1 && lb <= m {
		e, err := ix.readEntry(f, false, int(lb), m)
		if err != nil {
			return nil, err
		}
		if !e.tombstoned() && e.Key == key {
			return []rid.RID{e.RID}, nil
		}
	}

	_, curPtr, err := ix.startOfLogicalWalk(f, key, m, h)
	if err != nil {
		return nil, err
	}

	var out []rid.RID
	for !isEnd(curPtr) {
		node, err := ix.readByPtr(f, curPtr, m)
		if err != nil {
			return nil, err
		}
		if node.tombstoned() {
			curPtr = node.NextPtr
			continue
		}
		if node.Key > key {
			break
		}
		if node.Key == key {
			out = append(out, node.RID)
		}
		curPtr = node.NextPtr
	}
	return out, nil
}

// RangeSearch returns every live (key, rid) entry with lo <= key <= hi,
// in ascending logical order, normalizing a swapped (lo, hi) pair
// (spec.md §4.3, "range_search").
func (ix *Index) RangeSearch(lo, hi int32) ([]Entry, error) {
	if lo > hi {
		lo, hi = hi, lo
	}

	f, err := ix.open(os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hdr, err := ix.readHeader(f)
	if err != nil {
		return nil, err
	}
	if hdr.HeadPtr == endPtr {
		return nil, nil
	}
	m, h := hdr.MainCount, hdr.HeadPtr

	_, curPtr, err := ix.startOfLogicalWalk(f, lo, m, h)
	if err != nil {
		return nil, err
	}

	var out []Entry
	for !isEnd(curPtr) {
		node, err := ix.readByPtr(f, curPtr, m)
		if err != nil {
			return nil, err
		}
		if node.tombstoned() {
			curPtr = node.NextPtr
			continue
		}
		if node.Key > hi {
			break
		}
		if node.Key >= lo {
			out = append(out, Entry{Key: node.Key, RID: node.RID})
		}
		curPtr = node.NextPtr
	}
	return out, nil
}

// DeleteKey removes every live entry matching key (and, if r is
// non-nil, matching RID exactly) from the logical list, tombstoning
// each one's physical record. It returns the number removed (spec.md
// §4.3, "delete_key").
func (ix *Index) DeleteKey(key int32, r *rid.RID) (int, error) {
	f, err := ix.open(os.O_RDWR)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	hdr, err := ix.readHeader(f)
	if err != nil {
		return 0, err
	}
	if hdr.HeadPtr == endPtr {
		return 0, nil
	}
	m, a, h := hdr.MainCount, hdr.AuxCount, hdr.HeadPtr

	prevPtr, curPtr, err := ix.startOfLogicalWalk(f, key, m, h)
	if err != nil {
		return 0, err
	}

	removed := 0
	for !isEnd(curPtr) {
		isAux, idx := pointerTarget(curPtr)
		node, err := ix.readEntry(f, isAux, idx, m)
		if err != nil {
			return removed, err
		}

		if node.Key > key {
			break
		}

		if node.Key == key && (r == nil || node.RID == *r) {
			nxt := node.NextPtr
			if prevPtr == 0 {
				h = nxt
			} else {
				prev, err := ix.readByPtr(f, prevPtr, m)
				if err != nil {
					return removed, err
				}
				prev.NextPtr = nxt
				if err := ix.writeByPtr(f, prevPtr, prev, m); err != nil {
					return removed, err
				}
			}

			node.NextPtr = deletedPtr
			if err := ix.writeEntry(f, isAux, idx, node, m); err != nil {
				return removed, err
			}
			removed++
			curPtr = nxt
			if r != nil {
				break
			}
			continue
		}

		prevPtr = curPtr
		curPtr = node.NextPtr
	}

	if err := ix.writeHeader(f, header{MainCount: m, AuxCount: a, HeadPtr: h}); err != nil {
		return removed, err
	}
	return removed, nil
}

// maybeReorg triggers Reorganize once the auxiliary region grows past
// floor(log2(main_count+1)) entries (spec.md §4.3, "maybe_reorg").
func (ix *Index) maybeReorg(f fsx.File, m, a int32) error {
	base := m + 1
	if base < 1 {
		base = 1
	}
	k := int32(math.Log2(float64(base)))
	if a > k {
		return ix.reorganize(f)
	}
	return nil
}

// Reorganize rewrites D from the live logical list in ascending key
// order and empties A. It is idempotent and safe to call directly
// (spec.md §4.3, "reorganize").
func (ix *Index) Reorganize() error {
	f, err := ix.open(os.O_RDWR)
	if err != nil {
		return err
	}
	defer f.Close()

	return ix.reorganize(f)
}

func (ix *Index) reorganize(f fsx.File) error {
	hdr, err := ix.readHeader(f)
	if err != nil {
		return err
	}
	m, a, h := hdr.MainCount, hdr.AuxCount, hdr.HeadPtr

	if h == endPtr {
		return ix.writeHeader(f, header{})
	}

	base := m
	limit := m + a + 8

	var live []entry
	cur := h
	var seen int32
	for !isEnd(cur) && seen < limit {
		isAux, idx := pointerTarget(cur)
		e, err := ix.readEntry(f, isAux, idx, base)
		if err != nil {
			return err
		}
		if !e.tombstoned() {
			live = append(live, e)
		}
		cur = e.NextPtr
		seen++
	}
	if seen >= limit && !isEnd(cur) {
		return fmt.Errorf("%w: cycle guard fired after %d steps", ErrCorrupt, limit)
	}

	newm := int32(len(live))
	for i, e := range live {
		pos := i + 1
		if int32(pos) < newm {
			e.NextPtr = dPtr(pos + 1)
		} else {
			e.NextPtr = endPtr
		}
		if err := ix.writeEntry(f, false, pos, e, 0); err != nil {
			return err
		}
	}

	newHead := int32(endPtr)
	if newm >= 1 {
		newHead = dPtr(1)
	}
	return ix.writeHeader(f, header{MainCount: newm, AuxCount: 0, HeadPtr: newHead})
}
