package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarkNight7593/Proyecto-BDII/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func Test_Load_Parses_A_Valid_JSONC_Config(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{
		// employee table
		"name": "empleados",
		"dir": "/data",
		"columns": [
			{"name": "id", "kind": "int"},
			{"name": "nombre", "kind": "varchar", "max": 50},
			{"name": "salario", "kind": "float"},
			{"name": "ingreso", "kind": "date"},
		],
		"indexes": ["id"],
	}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "empleados", cfg.Name)
	assert.Equal(t, []string{"id"}, cfg.Indexes)
	assert.Len(t, cfg.Columns, 4)
}

func Test_Load_Missing_File_Fails(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func Test_Load_Invalid_JSON_Fails(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{ not json `)
	_, err := config.Load(path)
	assert.Error(t, err)
}

func Test_Load_Rejects_An_Index_On_An_Undeclared_Column(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `{
		"name": "empleados",
		"columns": [{"name": "id", "kind": "int"}],
		"indexes": ["salario"],
	}`)

	_, err := config.Load(path)
	assert.ErrorIs(t, err, config.ErrUnknownIndexColumn)
}

func Test_Validate_Rejects_An_Empty_Table_Name(t *testing.T) {
	t.Parallel()

	cfg := config.TableConfig{Columns: []config.ColumnConfig{{Name: "id", Kind: "int"}}}
	assert.ErrorIs(t, cfg.Validate(), config.ErrTableNameEmpty)
}

func Test_Validate_Rejects_A_Table_With_No_Columns(t *testing.T) {
	t.Parallel()

	cfg := config.TableConfig{Name: "t"}
	assert.ErrorIs(t, cfg.Validate(), config.ErrNoColumns)
}

func Test_Schema_Converts_Every_Column_Kind(t *testing.T) {
	t.Parallel()

	cfg := config.TableConfig{
		Name: "empleados",
		Columns: []config.ColumnConfig{
			{Name: "id", Kind: "int"},
			{Name: "nombre", Kind: "varchar", Max: 50},
			{Name: "salario", Kind: "float"},
			{Name: "ingreso", Kind: "date"},
		},
	}

	sc, err := cfg.Schema()
	require.NoError(t, err)
	require.Len(t, sc, 4)
	col, ok := sc.Column("nombre")
	require.True(t, ok)
	assert.Equal(t, 50, col.Max)
}

func Test_Schema_Rejects_An_Unknown_Kind(t *testing.T) {
	t.Parallel()

	cfg := config.TableConfig{
		Name:    "t",
		Columns: []config.ColumnConfig{{Name: "x", Kind: "blob"}},
	}
	_, err := cfg.Schema()
	assert.Error(t, err)
}

func Test_HeapPath_And_IndexPath_Follow_The_Naming_Convention(t *testing.T) {
	t.Parallel()

	cfg := config.TableConfig{Name: "empleados", Dir: "/data"}
	assert.Equal(t, filepath.Join("/data", "empleados.heap"), cfg.HeapPath())
	assert.Equal(t, filepath.Join("/data", "empleados_id.sf"), cfg.IndexPath("id"))
}
