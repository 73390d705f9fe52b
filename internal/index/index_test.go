package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarkNight7593/Proyecto-BDII/internal/index"
	"github.com/DarkNight7593/Proyecto-BDII/internal/rid"
	"github.com/DarkNight7593/Proyecto-BDII/internal/schema"
	"github.com/DarkNight7593/Proyecto-BDII/pkg/fsx"
)

func openIndex(t *testing.T) *index.Index {
	t.Helper()
	ix, err := index.OpenFS(fsx.NewFake(), "id.sf", "id")
	require.NoError(t, err)
	return ix
}

func Test_Insert_Then_Search_By_Int_Key(t *testing.T) {
	t.Parallel()

	ix := openIndex(t)
	r := rid.New(0, 1)
	require.NoError(t, ix.Insert(schema.IntValue(10), r))

	got, err := ix.Search(schema.IntValue(10))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r, got[0])
}

func Test_Insert_Coerces_A_Float_Key_To_Int32(t *testing.T) {
	t.Parallel()

	ix := openIndex(t)
	r := rid.New(0, 1)
	require.NoError(t, ix.Insert(schema.FloatValue(10.9), r))

	got, err := ix.Search(schema.IntValue(10))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r, got[0])
}

func Test_Insert_Rejects_A_Non_Numeric_Key(t *testing.T) {
	t.Parallel()

	ix := openIndex(t)
	err := ix.Insert(schema.TextValue(schema.Varchar, "nope"), rid.New(0, 1))
	assert.Error(t, err)
}

func Test_RangeSearch_Unwraps_Entries_To_Bare_RIDs(t *testing.T) {
	t.Parallel()

	ix := openIndex(t)
	r1 := rid.New(0, 1)
	r2 := rid.New(0, 2)
	require.NoError(t, ix.Insert(schema.IntValue(10), r1))
	require.NoError(t, ix.Insert(schema.IntValue(12), r2))
	require.NoError(t, ix.Insert(schema.IntValue(20), rid.New(0, 3)))

	got, err := ix.RangeSearch(schema.IntValue(10), schema.IntValue(15))
	require.NoError(t, err)
	assert.ElementsMatch(t, []rid.RID{r1, r2}, got)
}

func Test_Delete_Removes_The_Matching_Entry(t *testing.T) {
	t.Parallel()

	ix := openIndex(t)
	require.NoError(t, ix.Insert(schema.IntValue(10), rid.New(0, 1)))

	n, err := ix.Delete(schema.IntValue(10), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := ix.Search(schema.IntValue(10))
	require.NoError(t, err)
	assert.Empty(t, got)
}
