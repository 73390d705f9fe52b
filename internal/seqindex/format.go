package seqindex

import (
	"encoding/binary"

	"github.com/DarkNight7593/Proyecto-BDII/internal/rid"
)

// File layout constants (spec.md §3 "Index file layout").
const (
	// HeaderSize is (main_count:i32, aux_count:i32, head_ptr:i32).
	HeaderSize = 12

	// EntrySize is (key:i32, rid.page:u16, rid.slot:u16, next_ptr:i32).
	EntrySize = 12

	// deletedPtr is the tombstone marker, valid only in an entry's
	// next_ptr field.
	deletedPtr = -1

	// endPtr is the end-of-list sentinel.
	endPtr = 0
)

// header is the 12-byte file header.
type header struct {
	MainCount int32
	AuxCount  int32
	HeadPtr   int32
}

func decodeHeader(buf []byte) header {
	return header{
		MainCount: int32(binary.LittleEndian.Uint32(buf[0:4])),
		AuxCount:  int32(binary.LittleEndian.Uint32(buf[4:8])),
		HeadPtr:   int32(binary.LittleEndian.Uint32(buf[8:12])),
	}
}

func encodeHeader(h header) []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.MainCount))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.AuxCount))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(h.HeadPtr))
	return buf
}

// entry is one index record: a key, its RID, and the logical-list
// pointer to the next live entry (or deletedPtr / endPtr).
type entry struct {
	Key     int32
	RID     rid.RID
	NextPtr int32
}

func (e entry) tombstoned() bool { return e.NextPtr == deletedPtr }

func decodeEntry(buf []byte) entry {
	return entry{
		Key:     int32(binary.LittleEndian.Uint32(buf[0:4])),
		RID:     rid.New(binary.LittleEndian.Uint16(buf[4:6]), binary.LittleEndian.Uint16(buf[6:8])),
		NextPtr: int32(binary.LittleEndian.Uint32(buf[8:12])),
	}
}

func encodeEntry(e entry) []byte {
	buf := make([]byte, EntrySize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(e.Key))
	binary.LittleEndian.PutUint16(buf[4:6], e.RID.Page)
	binary.LittleEndian.PutUint16(buf[6:8], e.RID.Slot)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(e.NextPtr))
	return buf
}

// dPtr is the 1-based logical pointer to D[i-1] (0-based slice index).
func dPtr(i int) int32 {
	return int32(i)
}

// aPtr is the 1-based logical pointer to A[i-1] (0-based slice index).
// a(1) = -2, a(2) = -3, ... — see spec.md §3 "Pointer encoding".
func aPtr(i int) int32 {
	return -(int32(i) + 1)
}

// isEnd reports whether p is the end-of-list sentinel.
func isEnd(p int32) bool { return p == endPtr }

// pointerTarget decodes a logical pointer into (isAux, 1-based index).
// p must not be endPtr or deletedPtr.
func pointerTarget(p int32) (isAux bool, idx int) {
	if p > 0 {
		return false, int(p)
	}
	return true, int(-p - 1)
}
