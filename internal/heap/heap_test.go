package heap_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DarkNight7593/Proyecto-BDII/internal/heap"
	"github.com/DarkNight7593/Proyecto-BDII/internal/rid"
	"github.com/DarkNight7593/Proyecto-BDII/internal/schema"
)

func employeeSchema() schema.Schema {
	return schema.Schema{
		schema.Int32Column("id"),
		schema.VarcharColumn("nombre", 50),
		schema.Float64Column("salario"),
		schema.DateColumn("ingreso"),
	}
}

func openHeap(t *testing.T) *heap.Heap {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empleados.heap")
	h, err := heap.Open(path, employeeSchema())
	require.NoError(t, err)
	return h
}

func makeRow(id int32, nombre string, salario float64, ingreso string) schema.Row {
	row := schema.NewRow()
	row.SetInt("id", id)
	row.SetVarchar("nombre", nombre)
	row.SetFloat("salario", salario)
	row.SetDate("ingreso", ingreso)
	return row
}

func Test_Insert_Then_Read_Round_Trips_The_Row(t *testing.T) {
	t.Parallel()

	h := openHeap(t)
	r, err := h.Insert(makeRow(10, "Ana", 1200.5, "2024-01-01"))
	require.NoError(t, err)

	got, err := h.Read(r)
	require.NoError(t, err)

	id, _ := got.Get("id").Int()
	require.Equal(t, int32(10), id)
	require.True(t, got.HasRID)
	require.Equal(t, r, got.RID)
}

func Test_Opening_A_Nonexistent_Path_Creates_An_Empty_Valid_Heap(t *testing.T) {
	t.Parallel()

	h := openHeap(t)
	var rids []rid.RID
	for r := range h.IterRIDs() {
		rids = append(rids, r)
	}
	require.Empty(t, rids)
}

func Test_Delete_Frees_The_Slot_And_Is_Idempotent_False(t *testing.T) {
	t.Parallel()

	h := openHeap(t)
	r, err := h.Insert(makeRow(1, "Zoe", 1.0, "2023-01-01"))
	require.NoError(t, err)

	ok, err := h.Delete(r)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Delete(r)
	require.NoError(t, err)
	require.False(t, ok, "deleting an already-free slot returns false")

	_, err = h.Read(r)
	require.ErrorIs(t, err, heap.ErrSlotDeleted)
}

func Test_Delete_Out_Of_Range_Slot_Returns_False(t *testing.T) {
	t.Parallel()

	h := openHeap(t)
	_, err := h.Insert(makeRow(1, "Zoe", 1.0, "2023-01-01"))
	require.NoError(t, err)

	ok, err := h.Delete(rid.New(0, 99))
	require.NoError(t, err)
	require.False(t, ok)
}

func Test_IterRows_Skips_Deleted_Slots(t *testing.T) {
	t.Parallel()

	h := openHeap(t)
	r1, err := h.Insert(makeRow(1, "A", 1, "2023-01-01"))
	require.NoError(t, err)
	_, err = h.Insert(makeRow(2, "B", 2, "2023-01-02"))
	require.NoError(t, err)

	ok, err := h.Delete(r1)
	require.NoError(t, err)
	require.True(t, ok)

	var ids []int32
	for row := range h.IterRows() {
		id, _ := row.Get("id").Int()
		ids = append(ids, id)
	}
	require.Equal(t, []int32{2}, ids)
}

func Test_ScanEq_Matches_Only_Equal_Values(t *testing.T) {
	t.Parallel()

	h := openHeap(t)
	_, err := h.Insert(makeRow(10, "Ana", 1200.5, "2024-01-01"))
	require.NoError(t, err)
	_, err = h.Insert(makeRow(15, "Luis", 2000, "2024-02-10"))
	require.NoError(t, err)
	_, err = h.Insert(makeRow(15, "Luis2", 2100, "2024-03-20"))
	require.NoError(t, err)

	var names []string
	for row := range h.ScanEq("id", schema.IntValue(15)) {
		n, _ := row.Get("nombre").Text()
		names = append(names, n)
	}
	require.ElementsMatch(t, []string{"Luis", "Luis2"}, names)
}

func Test_ScanRange_Normalizes_Swapped_Bounds(t *testing.T) {
	t.Parallel()

	h := openHeap(t)
	_, err := h.Insert(makeRow(10, "Ana", 1, "2024-01-01"))
	require.NoError(t, err)
	_, err = h.Insert(makeRow(12, "Zoe", 1, "2023-12-15"))
	require.NoError(t, err)
	_, err = h.Insert(makeRow(15, "Luis", 1, "2024-02-10"))
	require.NoError(t, err)

	forward := collectIDs(t, h.ScanRange("id", schema.IntValue(11), schema.IntValue(14)))
	swapped := collectIDs(t, h.ScanRange("id", schema.IntValue(14), schema.IntValue(11)))
	require.Equal(t, forward, swapped)
	require.Equal(t, []int32{12}, forward)
}

func collectIDs(t *testing.T, seq heap.RowSeq) []int32 {
	t.Helper()
	var out []int32
	for row := range seq {
		id, _ := row.Get("id").Int()
		out = append(out, id)
	}
	return out
}

func Test_Insert_Rejects_A_Row_Wider_Than_One_Page(t *testing.T) {
	t.Parallel()

	// employeeSchema's VARCHAR(50) would truncate the value, so use a
	// column wide enough to hold a full page of bytes.
	wide := schema.Schema{schema.VarcharColumn("blob", 65535)}
	h, err := heap.Open(filepath.Join(t.TempDir(), "wide.heap"), wide)
	require.NoError(t, err)

	row := schema.NewRow()
	row.SetVarchar("blob", string(make([]byte, heap.PageSize)))
	_, err = h.Insert(row)
	require.ErrorIs(t, err, heap.ErrRowTooLarge)
}
