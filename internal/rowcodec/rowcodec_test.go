package rowcodec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DarkNight7593/Proyecto-BDII/internal/rowcodec"
	"github.com/DarkNight7593/Proyecto-BDII/internal/schema"
)

func sampleSchema() schema.Schema {
	return schema.Schema{
		schema.Int32Column("id"),
		schema.VarcharColumn("nombre", 50),
		schema.Float64Column("salario"),
		schema.DateColumn("ingreso"),
	}
}

func Test_Pack_Unpack_Round_Trip(t *testing.T) {
	t.Parallel()

	sc := sampleSchema()
	row := schema.NewRow()
	row.SetInt("id", 10)
	row.SetVarchar("nombre", "Ana")
	row.SetFloat("salario", 1200.5)
	row.SetDate("ingreso", "2024-01-01")

	buf, err := rowcodec.Pack(row, sc)
	require.NoError(t, err)

	got, err := rowcodec.Unpack(buf, sc)
	require.NoError(t, err)

	for _, col := range sc {
		require.True(t, got.Get(col.Name).Equal(row.Get(col.Name)), "column %q round-trip mismatch", col.Name)
	}
}

func Test_Pack_Unpack_Preserves_Nulls(t *testing.T) {
	t.Parallel()

	sc := sampleSchema()
	row := schema.NewRow()
	row.SetInt("id", 1)
	// nombre, salario, ingreso left unset -> null

	buf, err := rowcodec.Pack(row, sc)
	require.NoError(t, err)

	got, err := rowcodec.Unpack(buf, sc)
	require.NoError(t, err)

	require.True(t, got.Get("nombre").IsNull())
	require.True(t, got.Get("salario").IsNull())
	require.True(t, got.Get("ingreso").IsNull())
}

func Test_Pack_Truncates_Varchar_To_Declared_Max_Bytes(t *testing.T) {
	t.Parallel()

	sc := schema.Schema{schema.VarcharColumn("s", 3)}
	row := schema.NewRow()
	row.SetVarchar("s", "hello")

	buf, err := rowcodec.Pack(row, sc)
	require.NoError(t, err)

	got, err := rowcodec.Unpack(buf, sc)
	require.NoError(t, err)

	text, ok := got.Get("s").Text()
	require.True(t, ok)
	require.Equal(t, "hel", text)
}

func Test_Pack_Varchar_Truncation_Can_Split_A_Codepoint(t *testing.T) {
	t.Parallel()

	// "é" is two UTF-8 bytes (0xC3 0xA9); truncating to 1 byte splits it.
	sc := schema.Schema{schema.VarcharColumn("s", 1)}
	row := schema.NewRow()
	row.SetVarchar("s", "é")

	buf, err := rowcodec.Pack(row, sc)
	require.NoError(t, err)

	_, err = rowcodec.Unpack(buf, sc)
	require.ErrorIs(t, err, rowcodec.ErrInvalidUTF8, "splitting a codepoint should decode as invalid UTF-8")
}

func Test_Pack_Rejects_Date_Over_255_Bytes(t *testing.T) {
	t.Parallel()

	sc := schema.Schema{schema.DateColumn("d")}
	row := schema.NewRow()
	row.SetDate("d", strings.Repeat("x", 256))

	_, err := rowcodec.Pack(row, sc)
	require.ErrorIs(t, err, rowcodec.ErrDateTooLong)
}

func Test_Unpack_Rejects_Schema_Mismatch(t *testing.T) {
	t.Parallel()

	sc := schema.Schema{schema.Int32Column("id")}
	row := schema.NewRow()
	row.SetInt("id", 1)
	buf, err := rowcodec.Pack(row, sc)
	require.NoError(t, err)

	wrongSchema := schema.Schema{schema.Int32Column("id"), schema.Int32Column("other")}
	_, err = rowcodec.Unpack(buf, wrongSchema)
	require.ErrorIs(t, err, rowcodec.ErrSchemaMismatch)
}

func Test_Unpack_Rejects_Truncated_Buffer(t *testing.T) {
	t.Parallel()

	sc := sampleSchema()
	_, err := rowcodec.Unpack([]byte{4, 0}, sc)
	require.ErrorIs(t, err, rowcodec.ErrTruncated)
}
