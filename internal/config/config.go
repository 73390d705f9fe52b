// Package config loads a table's on-disk identity — its schema and
// indexed columns — from a JSON-with-comments (JSONC) file, so a
// caller can open a table by name instead of hand-building a
// schema.Schema (spec.md §6: "a table's on-disk identity must be
// supplied by the caller at open time").
//
// Grounded on the teacher's config.go: standardize JSONC to JSON via
// github.com/tailscale/hujson, then json.Unmarshal into a plain struct.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/DarkNight7593/Proyecto-BDII/internal/schema"
)

// ErrTableNameEmpty is returned by Validate when a config omits the
// table name.
var ErrTableNameEmpty = errors.New("config: table name cannot be empty")

// ErrNoColumns is returned by Validate when a config declares no
// columns.
var ErrNoColumns = errors.New("config: table must declare at least one column")

// ErrUnknownIndexColumn is returned by Validate when an indexed column
// name does not appear in the column list.
var ErrUnknownIndexColumn = errors.New("config: indexed column is not declared in columns")

// ColumnConfig is one column entry as written in a table's config file.
type ColumnConfig struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "int", "float", "varchar", "date"
	Max  int    `json:"max,omitempty"`
}

// TableConfig is a table's on-disk identity: its name (used to derive
// file paths), its columns, and which columns carry a sequential
// index.
type TableConfig struct {
	Name    string         `json:"name"`
	Dir     string         `json:"dir,omitempty"`
	Columns []ColumnConfig `json:"columns"`
	Indexes []string       `json:"indexes,omitempty"`
}

// Load reads and parses a JSONC table config file at path.
func Load(path string) (TableConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
	if err != nil {
		return TableConfig{}, fmt.Errorf("config: read %q: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return TableConfig{}, fmt.Errorf("config: %q is not valid JSONC: %w", path, err)
	}

	var cfg TableConfig
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return TableConfig{}, fmt.Errorf("config: %q is not valid JSON: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return TableConfig{}, fmt.Errorf("config: %q: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects a config missing a name, columns, or whose indexed
// columns are not declared.
func (c TableConfig) Validate() error {
	if c.Name == "" {
		return ErrTableNameEmpty
	}
	if len(c.Columns) == 0 {
		return ErrNoColumns
	}
	for _, idxCol := range c.Indexes {
		found := false
		for _, col := range c.Columns {
			if col.Name == idxCol {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %q", ErrUnknownIndexColumn, idxCol)
		}
	}
	return nil
}

// Schema builds a schema.Schema from the config's column list.
func (c TableConfig) Schema() (schema.Schema, error) {
	sc := make(schema.Schema, 0, len(c.Columns))
	for _, col := range c.Columns {
		switch col.Kind {
		case "int":
			sc = append(sc, schema.Int32Column(col.Name))
		case "float":
			sc = append(sc, schema.Float64Column(col.Name))
		case "varchar":
			sc = append(sc, schema.VarcharColumn(col.Name, col.Max))
		case "date":
			sc = append(sc, schema.DateColumn(col.Name))
		default:
			return nil, fmt.Errorf("%w: column %q has kind %q", schema.ErrUnsupportedType, col.Name, col.Kind)
		}
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// HeapPath returns the heap file path for this table (spec.md §6:
// "<name>.heap").
func (c TableConfig) HeapPath() string {
	return filepath.Join(c.Dir, c.Name+".heap")
}

// IndexPath returns the sequential index file path for col (spec.md
// §6: "<name>_<col>.sf").
func (c TableConfig) IndexPath(col string) string {
	return filepath.Join(c.Dir, fmt.Sprintf("%s_%s.sf", c.Name, col))
}
