// Package rowcodec packs and unpacks schema.Row values to and from the
// binary row layout of spec.md §3:
//
//	[ncols:u16][nullmap: ceil(ncols/8) bytes]
//	[ per non-null column, in schema order:
//	    INT:     4 bytes little-endian
//	    FLOAT:   8 bytes little-endian
//	    VARCHAR: len:u16 + UTF-8 bytes
//	    DATE:    len:u16 + UTF-8 bytes
//	]
//
// Null bit i is bit i%8 of byte i/8, little bit order.
//
// Grounded byte-for-byte on rowfmt.py; the explicit offset bookkeeping
// style (read/advance a running offset, one encode/decode helper per
// field width) follows pkg/slotcache/format.go's header codec.
package rowcodec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/DarkNight7593/Proyecto-BDII/internal/schema"
)

// Sentinel errors returned by Pack/Unpack.
var (
	// ErrSchemaMismatch indicates the encoded ncols does not match the
	// schema supplied to Unpack.
	ErrSchemaMismatch = errors.New("rowcodec: schema mismatch")

	// ErrUnsupportedType indicates a schema column names a type the
	// codec does not recognize.
	ErrUnsupportedType = schema.ErrUnsupportedType

	// ErrDateTooLong indicates a DATE value exceeds 255 bytes.
	ErrDateTooLong = errors.New("rowcodec: date value too long")

	// ErrTruncated indicates the buffer ended before all schema columns
	// were decoded.
	ErrTruncated = errors.New("rowcodec: truncated buffer")

	// ErrInvalidUTF8 indicates a decoded text field is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("rowcodec: invalid utf-8")
)

func nullmapSize(n int) int { return (n + 7) / 8 }

func setNull(bm []byte, i int) { bm[i/8] |= 1 << (uint(i) % 8) }

func isNull(bm []byte, i int) bool { return (bm[i/8]>>(uint(i)%8))&1 == 1 }

// Pack serializes row against schema in column order. A missing or
// null-valued column sets its null bit and emits no payload bytes.
// VARCHAR values longer than their declared Max bytes (after UTF-8
// encoding) are truncated to exactly Max bytes — this can split a
// multi-byte codepoint; that is the specified, preserved behavior
// (spec.md §4.1, Design Notes).
func Pack(row schema.Row, sc schema.Schema) ([]byte, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	n := len(sc)
	nullmap := make([]byte, nullmapSize(n))

	var payload []byte

	for i, col := range sc {
		val := row.Get(col.Name)
		if val.IsNull() {
			setNull(nullmap, i)
			continue
		}

		switch col.Kind {
		case schema.Int:
			v, _ := val.Int()
			var buf [4]byte
			binary.LittleEndian.PutUint32(buf[:], uint32(v))
			payload = append(payload, buf[:]...)

		case schema.Float:
			v, _ := val.Float()
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			payload = append(payload, buf[:]...)

		case schema.Varchar:
			s, _ := val.Text()
			b := []byte(s)
			if len(b) > col.Max {
				b = b[:col.Max]
			}
			payload = append(payload, encodeLenPrefixed(b)...)

		case schema.Date:
			s, _ := val.Text()
			b := []byte(s)
			if len(b) > 255 {
				return nil, fmt.Errorf("%w: column %q has %d bytes", ErrDateTooLong, col.Name, len(b))
			}
			payload = append(payload, encodeLenPrefixed(b)...)

		default:
			return nil, fmt.Errorf("%w: column %q", ErrUnsupportedType, col.Name)
		}
	}

	out := make([]byte, 0, 2+len(nullmap)+len(payload))
	var ncolsBuf [2]byte
	binary.LittleEndian.PutUint16(ncolsBuf[:], uint16(n))
	out = append(out, ncolsBuf[:]...)
	out = append(out, nullmap...)
	out = append(out, payload...)
	return out, nil
}

func encodeLenPrefixed(b []byte) []byte {
	out := make([]byte, 2+len(b))
	binary.LittleEndian.PutUint16(out, uint16(len(b)))
	copy(out[2:], b)
	return out
}

// Unpack decodes buf against schema, producing a Row with nulls for
// marked columns. Fails if ncols doesn't match len(schema), on an
// unsupported type tag, on a truncated buffer, or on invalid UTF-8 in a
// text field.
func Unpack(buf []byte, sc schema.Schema) (schema.Row, error) {
	if err := sc.Validate(); err != nil {
		return schema.Row{}, err
	}

	if len(buf) < 2 {
		return schema.Row{}, fmt.Errorf("%w: missing ncols", ErrTruncated)
	}
	n := int(binary.LittleEndian.Uint16(buf[0:2]))
	if n != len(sc) {
		return schema.Row{}, fmt.Errorf("%w: buffer has %d columns, schema has %d", ErrSchemaMismatch, n, len(sc))
	}

	off := 2
	bmSize := nullmapSize(n)
	if len(buf) < off+bmSize {
		return schema.Row{}, fmt.Errorf("%w: missing nullmap", ErrTruncated)
	}
	bm := buf[off : off+bmSize]
	off += bmSize

	row := schema.NewRow()

	for i, col := range sc {
		if isNull(bm, i) {
			row.Set(col.Name, schema.Null())
			continue
		}

		switch col.Kind {
		case schema.Int:
			if len(buf) < off+4 {
				return schema.Row{}, fmt.Errorf("%w: column %q", ErrTruncated, col.Name)
			}
			v := int32(binary.LittleEndian.Uint32(buf[off : off+4]))
			off += 4
			row.SetInt(col.Name, v)

		case schema.Float:
			if len(buf) < off+8 {
				return schema.Row{}, fmt.Errorf("%w: column %q", ErrTruncated, col.Name)
			}
			v := math.Float64frombits(binary.LittleEndian.Uint64(buf[off : off+8]))
			off += 8
			row.SetFloat(col.Name, v)

		case schema.Varchar, schema.Date:
			if len(buf) < off+2 {
				return schema.Row{}, fmt.Errorf("%w: column %q length prefix", ErrTruncated, col.Name)
			}
			ln := int(binary.LittleEndian.Uint16(buf[off : off+2]))
			off += 2
			if len(buf) < off+ln {
				return schema.Row{}, fmt.Errorf("%w: column %q payload", ErrTruncated, col.Name)
			}
			b := buf[off : off+ln]
			off += ln
			if !utf8.Valid(b) {
				return schema.Row{}, fmt.Errorf("%w: column %q", ErrInvalidUTF8, col.Name)
			}
			row.Set(col.Name, schema.TextValue(col.Kind, string(b)))

		default:
			return schema.Row{}, fmt.Errorf("%w: column %q", ErrUnsupportedType, col.Name)
		}
	}

	return row, nil
}
