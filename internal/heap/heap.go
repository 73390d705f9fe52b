// Package heap implements the slotted-page heap file of spec.md §4.2: a
// paged store of rows addressed by stable (page, slot) row identifiers.
//
// Grounded byte-for-byte on heapfile.py. Every persistent read or write
// is a scoped file acquisition (open, seek/positioned I/O, close) per
// spec.md §5 — no file handle is cached across operations and no
// in-process locking is attempted.
package heap

import (
	"errors"
	"fmt"
	"os"

	"github.com/DarkNight7593/Proyecto-BDII/internal/rid"
	"github.com/DarkNight7593/Proyecto-BDII/internal/rowcodec"
	"github.com/DarkNight7593/Proyecto-BDII/internal/schema"
	"github.com/DarkNight7593/Proyecto-BDII/pkg/fsx"
)

// RIDSeq is a lazy, single-pass, non-restartable sequence of row
// identifiers, shaped like iter.Seq[rid.RID] (pkg/slotcache/types.go's
// Seq follows the same pattern to avoid depending on the iter package
// directly). Range over it with `for r := range seq { ... }`.
type RIDSeq func(yield func(rid.RID) bool)

// RowSeq is a lazy, single-pass, non-restartable sequence of rows.
type RowSeq func(yield func(schema.Row) bool)

// Heap is a handle to an open heap file. A Heap must be obtained via
// Open; the zero value is not usable.
type Heap struct {
	path   string
	schema schema.Schema
	fs     fsx.FS
}

// Open opens or creates the heap file at path. A nonexistent path is
// created empty (zero pages) — an empty file is a valid heap. The
// schema must match the one the file was written under; the file itself
// carries no schema information (spec.md §6).
func Open(path string, sc schema.Schema) (*Heap, error) {
	return OpenFS(fsx.NewReal(), path, sc)
}

// OpenFS is Open with an injectable filesystem.
func OpenFS(fs fsx.FS, path string, sc schema.Schema) (*Heap, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	if _, err := fs.Stat(path); os.IsNotExist(err) {
		f, createErr := fs.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
		if createErr != nil {
			return nil, fmt.Errorf("heap: create %q: %w", path, createErr)
		}
		if closeErr := f.Close(); closeErr != nil {
			return nil, fmt.Errorf("heap: create %q: %w", path, closeErr)
		}
	} else if err != nil {
		return nil, fmt.Errorf("heap: stat %q: %w", path, err)
	}

	return &Heap{path: path, schema: sc, fs: fs}, nil
}

func (h *Heap) open(flag int) (fsx.File, error) {
	f, err := h.fs.OpenFile(h.path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("heap: open %q: %w", h.path, err)
	}
	return f, nil
}

func (h *Heap) numPages() (int64, error) {
	info, err := h.fs.Stat(h.path)
	if err != nil {
		return 0, fmt.Errorf("heap: stat %q: %w", h.path, err)
	}
	return info.Size() / PageSize, nil
}

func base(p int64) int64 { return p * PageSize }

func (h *Heap) readHeader(f fsx.File, p int64) (pageHeader, error) {
	buf := make([]byte, HdrSize)
	if _, err := f.ReadAt(buf, base(p)); err != nil {
		return pageHeader{}, fmt.Errorf("heap: read header page %d: %w", p, err)
	}
	return decodeHeader(buf), nil
}

func (h *Heap) writeHeader(f fsx.File, p int64, hdr pageHeader) error {
	if _, err := f.WriteAt(encodeHeader(hdr), base(p)); err != nil {
		return fmt.Errorf("heap: write header page %d: %w", p, err)
	}
	return nil
}

func (h *Heap) readSlot(f fsx.File, p int64, s int) (slotEntry, error) {
	buf := make([]byte, SlotSize)
	if _, err := f.ReadAt(buf, base(p)+slotOffset(s)); err != nil {
		return slotEntry{}, fmt.Errorf("heap: read slot (%d,%d): %w", p, s, err)
	}
	return decodeSlot(buf), nil
}

func (h *Heap) writeSlot(f fsx.File, p int64, s int, e slotEntry) error {
	if _, err := f.WriteAt(encodeSlot(e), base(p)+slotOffset(s)); err != nil {
		return fmt.Errorf("heap: write slot (%d,%d): %w", p, s, err)
	}
	return nil
}

// findFreeSlot returns the index of the first slot with Len == 0, or -1.
func (h *Heap) findFreeSlot(f fsx.File, p int64, nslots int) (int, error) {
	for s := 0; s < nslots; s++ {
		e, err := h.readSlot(f, p, s)
		if err != nil {
			return 0, err
		}
		if e.Len == 0 {
			return s, nil
		}
	}
	return -1, nil
}

func freeBytes(nslots int, dataEnd uint16, reuse bool) int {
	dirEnd := HdrSize + nslots*SlotSize
	if !reuse {
		dirEnd += SlotSize
	}
	free := int(dataEnd) - dirEnd
	if free < 0 {
		return 0
	}
	return free
}

// ensurePage grows the file so page p exists, zero-initializing its
// header to (nslots=0, data_end=PageSize).
func (h *Heap) ensurePage(f fsx.File, p int64) error {
	numPages, err := h.numPages()
	if err != nil {
		return err
	}
	if p < numPages {
		return nil
	}

	zero := make([]byte, PageSize)
	for cur := numPages; cur <= p; cur++ {
		if _, err := f.WriteAt(zero, base(cur)); err != nil {
			return fmt.Errorf("heap: extend to page %d: %w", cur, err)
		}
	}
	return h.writeHeader(f, p, pageHeader{NSlots: 0, DataEnd: PageSize})
}

// Insert packs row and stores it, returning the RID it was stored at
// (spec.md §4.2, "insert").
func (h *Heap) Insert(row schema.Row) (rid.RID, error) {
	blob, err := rowcodec.Pack(row, h.schema)
	if err != nil {
		return rid.RID{}, err
	}
	if len(blob)+HdrSize+SlotSize > PageSize {
		return rid.RID{}, fmt.Errorf("%w: %d bytes", ErrRowTooLarge, len(blob))
	}

	f, err := h.open(os.O_RDWR)
	if err != nil {
		return rid.RID{}, err
	}
	defer f.Close()

	numPages, err := h.numPages()
	if err != nil {
		return rid.RID{}, err
	}
	if numPages == 0 {
		if err := h.ensurePage(f, 0); err != nil {
			return rid.RID{}, err
		}
		numPages = 1
	}
	p := numPages - 1

	for attempt := 0; attempt < 2; attempt++ {
		hdr, err := h.readHeader(f, p)
		if err != nil {
			return rid.RID{}, err
		}

		freeSlot, err := h.findFreeSlot(f, p, int(hdr.NSlots))
		if err != nil {
			return rid.RID{}, err
		}
		reuse := freeSlot >= 0

		if freeBytes(int(hdr.NSlots), hdr.DataEnd, reuse) >= len(blob) {
			s := freeSlot
			if !reuse {
				s = int(hdr.NSlots)
				hdr.NSlots++
				if err := h.writeHeader(f, p, hdr); err != nil {
					return rid.RID{}, err
				}
			}

			hdr.DataEnd -= uint16(len(blob))
			if _, err := f.WriteAt(blob, base(p)+int64(hdr.DataEnd)); err != nil {
				return rid.RID{}, fmt.Errorf("heap: write row: %w", err)
			}
			if err := h.writeSlot(f, p, s, slotEntry{Off: hdr.DataEnd, Len: uint16(len(blob))}); err != nil {
				return rid.RID{}, err
			}
			if err := h.writeHeader(f, p, hdr); err != nil {
				return rid.RID{}, err
			}

			return rid.New(uint16(p), uint16(s)), nil
		}

		p, err = h.numPages()
		if err != nil {
			return rid.RID{}, err
		}
		if err := h.ensurePage(f, p); err != nil {
			return rid.RID{}, err
		}
	}

	return rid.RID{}, fmt.Errorf("%w: insert did not fit after allocating a fresh page", ErrCorrupt)
}

// Read returns the row stored at r, with its RID embedded (spec.md §4.2,
// "read").
func (h *Heap) Read(r rid.RID) (schema.Row, error) {
	f, err := h.open(os.O_RDONLY)
	if err != nil {
		return schema.Row{}, err
	}
	defer f.Close()

	return h.readLocked(f, r)
}

func (h *Heap) readLocked(f fsx.File, r rid.RID) (schema.Row, error) {
	hdr, err := h.readHeader(f, int64(r.Page))
	if err != nil {
		return schema.Row{}, err
	}
	if r.Slot >= hdr.NSlots {
		return schema.Row{}, fmt.Errorf("%w: %v", ErrSlotOutOfRange, r)
	}

	slot, err := h.readSlot(f, int64(r.Page), int(r.Slot))
	if err != nil {
		return schema.Row{}, err
	}
	if slot.Len == 0 {
		return schema.Row{}, fmt.Errorf("%w: %v", ErrSlotDeleted, r)
	}

	buf := make([]byte, slot.Len)
	if _, err := f.ReadAt(buf, base(int64(r.Page))+int64(slot.Off)); err != nil {
		return schema.Row{}, fmt.Errorf("heap: read row %v: %w", r, err)
	}

	row, err := rowcodec.Unpack(buf, h.schema)
	if err != nil {
		return schema.Row{}, err
	}
	row.RID = r
	row.HasRID = true
	return row, nil
}

// Delete frees r's slot, returning false if it was already free or out
// of range (spec.md §4.2, "delete"). Payload bytes and the slot's
// offset are left untouched; slot indices are never renumbered.
func (h *Heap) Delete(r rid.RID) (bool, error) {
	f, err := h.open(os.O_RDWR)
	if err != nil {
		return false, err
	}
	defer f.Close()

	numPages, err := h.numPages()
	if err != nil {
		return false, err
	}
	if int64(r.Page) >= numPages {
		return false, nil
	}

	hdr, err := h.readHeader(f, int64(r.Page))
	if err != nil {
		return false, err
	}
	if r.Slot >= hdr.NSlots {
		return false, nil
	}

	slot, err := h.readSlot(f, int64(r.Page), int(r.Slot))
	if err != nil {
		return false, err
	}
	if slot.Len == 0 {
		return false, nil
	}

	if err := h.writeSlot(f, int64(r.Page), int(r.Slot), slotEntry{Off: slot.Off, Len: 0}); err != nil {
		return false, err
	}
	return true, nil
}

// IterRIDs yields every occupied RID in page order, slot order.
func (h *Heap) IterRIDs() RIDSeq {
	return func(yield func(rid.RID) bool) {
		f, err := h.open(os.O_RDONLY)
		if err != nil {
			return
		}
		defer f.Close()

		numPages, err := h.numPages()
		if err != nil {
			return
		}

		for p := int64(0); p < numPages; p++ {
			hdr, err := h.readHeader(f, p)
			if err != nil {
				return
			}
			for s := 0; s < int(hdr.NSlots); s++ {
				slot, err := h.readSlot(f, p, s)
				if err != nil {
					return
				}
				if slot.Len == 0 {
					continue
				}
				if !yield(rid.New(uint16(p), uint16(s))) {
					return
				}
			}
		}
	}
}

// IterRows yields every live row, reusing Read's decoding path.
func (h *Heap) IterRows() RowSeq {
	return func(yield func(schema.Row) bool) {
		f, err := h.open(os.O_RDONLY)
		if err != nil {
			return
		}
		defer f.Close()

		numPages, err := h.numPages()
		if err != nil {
			return
		}

		for p := int64(0); p < numPages; p++ {
			hdr, err := h.readHeader(f, p)
			if err != nil {
				return
			}
			for s := 0; s < int(hdr.NSlots); s++ {
				r := rid.New(uint16(p), uint16(s))
				row, err := h.readLocked(f, r)
				if err != nil {
					if errors.Is(err, ErrSlotDeleted) {
						continue
					}
					return
				}
				if !yield(row) {
					return
				}
			}
		}
	}
}

// ScanEq yields rows whose col equals key (spec.md §4.2, "scan_eq").
// Rows where col is absent or null never match.
func (h *Heap) ScanEq(col string, key schema.Value) RowSeq {
	return func(yield func(schema.Row) bool) {
		for row := range h.IterRows() {
			if row.Get(col).Equal(key) {
				if !yield(row) {
					return
				}
			}
		}
	}
}

// ScanRange yields rows whose col lies in [lo, hi] (normalized so
// lo <= hi), skipping rows where col is absent or null (spec.md §4.2,
// "scan_range").
func (h *Heap) ScanRange(col string, lo, hi schema.Value) RowSeq {
	if c, ok := lo.Compare(hi); ok && c > 0 {
		lo, hi = hi, lo
	}
	return func(yield func(schema.Row) bool) {
		for row := range h.IterRows() {
			v := row.Get(col)
			if v.IsNull() {
				continue
			}
			cLo, okLo := v.Compare(lo)
			cHi, okHi := v.Compare(hi)
			if !okLo || !okHi {
				continue
			}
			if cLo >= 0 && cHi <= 0 {
				if !yield(row) {
					return
				}
			}
		}
	}
}
