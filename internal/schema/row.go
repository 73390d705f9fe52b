package schema

import "github.com/DarkNight7593/Proyecto-BDII/internal/rid"

// Row is a mapping from column name to value. A missing or null-valued
// column reads back as the null marker (Value.IsNull). A row read from
// the heap carries the RID it was read from (spec.md §3, "Row"); rows
// built for insertion have HasRID false.
type Row struct {
	values map[string]Value
	RID    rid.RID
	HasRID bool
}

// NewRow creates an empty row ready for Set calls.
func NewRow() Row {
	return Row{values: make(map[string]Value)}
}

// Set assigns a value to a column name, overwriting any prior value.
func (r *Row) Set(col string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	r.values[col] = v
}

// SetInt is shorthand for Set(col, IntValue(v)).
func (r *Row) SetInt(col string, v int32) { r.Set(col, IntValue(v)) }

// SetFloat is shorthand for Set(col, FloatValue(v)).
func (r *Row) SetFloat(col string, v float64) { r.Set(col, FloatValue(v)) }

// SetVarchar is shorthand for Set(col, TextValue(Varchar, v)).
func (r *Row) SetVarchar(col string, v string) { r.Set(col, TextValue(Varchar, v)) }

// SetDate is shorthand for Set(col, TextValue(Date, v)).
func (r *Row) SetDate(col string, v string) { r.Set(col, TextValue(Date, v)) }

// Get returns the value stored for col, or the null marker if absent.
func (r Row) Get(col string) Value {
	if r.values == nil {
		return Null()
	}
	v, ok := r.values[col]
	if !ok {
		return Null()
	}
	return v
}

// Has reports whether col has a non-null value set.
func (r Row) Has(col string) bool {
	return !r.Get(col).IsNull()
}

// Columns returns the set of column names with a value assigned
// (including explicit nulls set via Set(col, Null())).
func (r Row) Columns() []string {
	out := make([]string, 0, len(r.values))
	for k := range r.values {
		out = append(out, k)
	}
	return out
}
