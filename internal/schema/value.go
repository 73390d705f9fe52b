package schema

import "fmt"

// Value is the runtime representation of one column's content: a tagged
// union over {Int32, F64, Text, Null}. VARCHAR and DATE both use Text —
// they share wire encoding (length-prefixed UTF-8) and differ only in
// the schema's declared Kind.
type Value struct {
	null bool
	kind Kind
	i32  int32
	f64  float64
	text string
}

// Null returns the null marker value.
func Null() Value { return Value{null: true} }

// IsNull reports whether v is the null marker.
func (v Value) IsNull() bool { return v.null }

// IntValue wraps a signed 32-bit integer.
func IntValue(i int32) Value { return Value{kind: Int, i32: i} }

// FloatValue wraps an IEEE-754 64-bit float.
func FloatValue(f float64) Value { return Value{kind: Float, f64: f} }

// TextValue wraps a UTF-8 string for a VARCHAR or DATE column.
func TextValue(kind Kind, s string) Value { return Value{kind: kind, text: s} }

// Int returns the wrapped int32 and whether v holds one.
func (v Value) Int() (int32, bool) {
	if v.null || v.kind != Int {
		return 0, false
	}
	return v.i32, true
}

// Float returns the wrapped float64 and whether v holds one.
func (v Value) Float() (float64, bool) {
	if v.null || v.kind != Float {
		return 0, false
	}
	return v.f64, true
}

// Text returns the wrapped string (VARCHAR or DATE) and whether v holds one.
func (v Value) Text() (string, bool) {
	if v.null || (v.kind != Varchar && v.kind != Date) {
		return "", false
	}
	return v.text, true
}

// Kind returns the value's kind. Meaningless if IsNull is true.
func (v Value) Kind() Kind { return v.kind }

// Equal reports whether v and other hold the same kind and content.
// Two null values are never equal to each other or to anything else,
// matching SQL-style null semantics used by the scan predicates.
func (v Value) Equal(other Value) bool {
	if v.null || other.null {
		return false
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Int:
		return v.i32 == other.i32
	case Float:
		return v.f64 == other.f64
	case Varchar, Date:
		return v.text == other.text
	default:
		return false
	}
}

// Compare orders v against other for the same kind. ok is false for
// nulls or a kind mismatch (mixed-type comparisons are the caller's
// responsibility per spec.md §4.2).
func (v Value) Compare(other Value) (n int, ok bool) {
	if v.null || other.null || v.kind != other.kind {
		return 0, false
	}
	switch v.kind {
	case Int:
		switch {
		case v.i32 < other.i32:
			return -1, true
		case v.i32 > other.i32:
			return 1, true
		default:
			return 0, true
		}
	case Float:
		switch {
		case v.f64 < other.f64:
			return -1, true
		case v.f64 > other.f64:
			return 1, true
		default:
			return 0, true
		}
	case Varchar, Date:
		switch {
		case v.text < other.text:
			return -1, true
		case v.text > other.text:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

// String renders v for diagnostics.
func (v Value) String() string {
	if v.null {
		return "NULL"
	}
	switch v.kind {
	case Int:
		return fmt.Sprintf("%d", v.i32)
	case Float:
		return fmt.Sprintf("%g", v.f64)
	case Varchar, Date:
		return v.text
	default:
		return "?"
	}
}
