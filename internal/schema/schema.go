// Package schema models the typed row shape the row codec, heap, and
// index all share: an ordered sequence of (column name, column type),
// and the dynamic row values encoded against it.
//
// Grounded on rowfmt.py: INT (signed 32-bit), FLOAT (IEEE-754 64-bit),
// VARCHAR(N) (UTF-8, truncated to N bytes), and DATE (UTF-8 "YYYY-MM-DD",
// length-prefixed like VARCHAR). A column's Kind is resolved once when
// the schema is built rather than re-parsed from a type string on every
// pack/unpack call; the on-disk bytes are unaffected.
package schema

import (
	"errors"
	"fmt"
)

// Kind enumerates the supported column types.
type Kind int

const (
	// Int is a signed 32-bit integer column.
	Int Kind = iota
	// Float is an IEEE-754 64-bit column.
	Float
	// Varchar is a UTF-8 text column bounded to Column.Max bytes.
	Varchar
	// Date is a UTF-8 "YYYY-MM-DD" column, length-prefixed like Varchar.
	Date
)

// String renders a Kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case Varchar:
		return "VARCHAR"
	case Date:
		return "DATE"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ErrUnsupportedType is returned when a schema names a type the codec
// does not recognize.
var ErrUnsupportedType = errors.New("schema: unsupported type")

// Column is one (name, type) entry of a Schema.
type Column struct {
	Name string
	Kind Kind

	// Max is the declared VARCHAR(N) byte bound. Unused for other kinds.
	Max int
}

// Int32Column declares a signed 32-bit integer column.
func Int32Column(name string) Column { return Column{Name: name, Kind: Int} }

// Float64Column declares an IEEE-754 64-bit column.
func Float64Column(name string) Column { return Column{Name: name, Kind: Float} }

// VarcharColumn declares a VARCHAR(max) column. max is clamped to [0, 65535].
func VarcharColumn(name string, max int) Column {
	if max < 0 {
		max = 0
	}
	if max > 65535 {
		max = 65535
	}
	return Column{Name: name, Kind: Varchar, Max: max}
}

// DateColumn declares a DATE column ("YYYY-MM-DD" literal form).
func DateColumn(name string) Column { return Column{Name: name, Kind: Date} }

// Schema is an ordered sequence of columns. Column order determines the
// on-disk field order and the null-bitmap bit index.
type Schema []Column

// IndexOf returns the position of name in the schema, or -1 if absent.
func (s Schema) IndexOf(name string) int {
	for i, c := range s {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column returns the column named name and whether it exists.
func (s Schema) Column(name string) (Column, bool) {
	i := s.IndexOf(name)
	if i < 0 {
		return Column{}, false
	}
	return s[i], true
}

// Validate rejects a schema containing an unrecognized Kind value.
func (s Schema) Validate() error {
	for _, c := range s {
		switch c.Kind {
		case Int, Float, Varchar, Date:
		default:
			return fmt.Errorf("%w: column %q has kind %v", ErrUnsupportedType, c.Name, c.Kind)
		}
	}
	return nil
}
