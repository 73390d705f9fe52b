package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarkNight7593/Proyecto-BDII/internal/schema"
)

func Test_Value_Null_Is_Never_Equal(t *testing.T) {
	t.Parallel()

	assert.False(t, schema.Null().Equal(schema.Null()), "two nulls should not compare equal")
	assert.False(t, schema.Null().Equal(schema.IntValue(0)), "null should not equal a zero int")
}

func Test_Value_Compare_Rejects_Mixed_Kinds(t *testing.T) {
	t.Parallel()

	_, ok := schema.IntValue(1).Compare(schema.FloatValue(1))
	assert.False(t, ok, "comparing an int to a float should report ok=false")
}

func Test_Value_Compare_Orders_By_Kind(t *testing.T) {
	t.Parallel()

	n, ok := schema.IntValue(5).Compare(schema.IntValue(10))
	require.True(t, ok)
	assert.Equal(t, -1, n)

	n, ok = schema.TextValue(schema.Varchar, "b").Compare(schema.TextValue(schema.Varchar, "a"))
	require.True(t, ok)
	assert.Equal(t, 1, n)
}

func Test_ValueFor_Coerces_Go_Numeric_Types(t *testing.T) {
	t.Parallel()

	col := schema.Int32Column("id")

	v, err := schema.ValueFor(col, int(42))
	require.NoError(t, err)
	i, ok := v.Int()
	require.True(t, ok)
	assert.Equal(t, int32(42), i)

	_, err = schema.ValueFor(col, "not an int")
	assert.Error(t, err)
}

func Test_ValueFor_Null_Raw_Is_Null(t *testing.T) {
	t.Parallel()

	v, err := schema.ValueFor(schema.VarcharColumn("name", 10), nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}
