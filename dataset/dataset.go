// Package dataset provides the in-memory columnar dataset that tile
// operators work against: an unordered multiset of structured rows with a
// fixed column vocabulary, plus out-of-band per-column metadata.
//
// Spatial context (the tile-context marker, the tiling layout, and the
// layer metadata) rides on column metadata rather than on row data, so
// per-row geometry is never repeated. Operators that need spatial context
// validate its presence defensively and fail with
// ErrMissingSpatialContext when an upstream Select dropped it.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/telluric/tilecat/cell"
	"github.com/telluric/tilecat/layer"
)

// ErrMissingSpatialContext is returned when an operation that needs a
// spatial key column or layer metadata is invoked on a dataset that lost
// them, typically to an upstream column selection.
var ErrMissingSpatialContext = errors.New("missing spatial context")

// KeyColumn is the conventional name of the spatial key column.
const KeyColumn = "spatial_key"

// Column metadata keys.
const (
	MetaTileContext = "tile_context"
	MetaTileLayout  = "tile_layout"
	MetaLayer       = "layer"
)

// ColumnMeta is the out-of-band metadata attached to one column.
type ColumnMeta map[string]string

func (m ColumnMeta) clone() ColumnMeta {
	out := make(ColumnMeta, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Dataset is an immutable collection of rows. Row order carries no meaning;
// operators never depend on it. All derivation methods return a new
// Dataset sharing row storage where safe.
type Dataset struct {
	id   string
	rows []map[string]interface{}
	meta map[string]ColumnMeta
}

// New builds a dataset over the given rows. The rows slice is owned by the
// dataset after the call.
func New(rows []map[string]interface{}) *Dataset {
	return &Dataset{
		id:   uuid.NewString(),
		rows: rows,
		meta: make(map[string]ColumnMeta),
	}
}

// ID returns the dataset's provenance identifier. Derived datasets get
// fresh identifiers.
func (d *Dataset) ID() string { return d.id }

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int { return len(d.rows) }

// Rows returns the dataset's rows. Callers must not mutate them.
func (d *Dataset) Rows() []map[string]interface{} { return d.rows }

// ColumnNames returns the sorted union of column names across all rows.
func (d *Dataset) ColumnNames() []string {
	set := make(map[string]bool)
	for _, row := range d.rows {
		for col := range row {
			set[col] = true
		}
	}
	names := make([]string, 0, len(set))
	for col := range set {
		names = append(names, col)
	}
	sort.Strings(names)
	return names
}

// ColumnMeta returns the metadata attached to a column, or nil if none.
func (d *Dataset) ColumnMeta(col string) ColumnMeta { return d.meta[col] }

// WithColumnMeta returns a dataset with meta attached to the named column,
// replacing any previous metadata for that column only. Metadata on other
// columns is carried forward.
func (d *Dataset) WithColumnMeta(col string, meta ColumnMeta) *Dataset {
	out := d.deriveWithMeta(d.rows)
	out.meta[col] = meta.clone()
	return out
}

// WithTileContext marks col as a spatially-referenced tile column and
// attaches the serialized layout and layer metadata to it.
func (d *Dataset) WithTileContext(col string, md layer.Metadata) (*Dataset, error) {
	if err := md.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layer metadata for column %q: %w", col, err)
	}
	layoutJSON, err := json.Marshal(md.Layout)
	if err != nil {
		return nil, fmt.Errorf("encoding tile layout: %w", err)
	}
	layerJSON, err := json.Marshal(md)
	if err != nil {
		return nil, fmt.Errorf("encoding layer metadata: %w", err)
	}
	meta := ColumnMeta{
		MetaTileContext: "true",
		MetaTileLayout:  string(layoutJSON),
		MetaLayer:       string(layerJSON),
	}
	return d.WithColumnMeta(col, meta), nil
}

// TileContext returns the layer metadata attached to a tile column.
// Returns ErrMissingSpatialContext if the column does not carry the
// tile-context marker or its layer metadata.
func (d *Dataset) TileContext(col string) (layer.Metadata, error) {
	meta := d.meta[col]
	if meta == nil || meta[MetaTileContext] != "true" {
		return layer.Metadata{}, fmt.Errorf("%w: column %q has no tile context", ErrMissingSpatialContext, col)
	}
	raw, ok := meta[MetaLayer]
	if !ok {
		return layer.Metadata{}, fmt.Errorf("%w: column %q has no layer metadata", ErrMissingSpatialContext, col)
	}
	var md layer.Metadata
	if err := json.Unmarshal([]byte(raw), &md); err != nil {
		return layer.Metadata{}, fmt.Errorf("decoding layer metadata for column %q: %w", col, err)
	}
	return md, nil
}

// Select returns a dataset containing only the named columns. Metadata
// attached to dropped columns is dropped with them, so selecting away a
// spatial key or tile column permanently severs the spatial context.
func (d *Dataset) Select(cols ...string) *Dataset {
	keep := make(map[string]bool, len(cols))
	for _, col := range cols {
		keep[col] = true
	}
	rows := make([]map[string]interface{}, len(d.rows))
	for i, row := range d.rows {
		out := make(map[string]interface{}, len(cols))
		for col, v := range row {
			if keep[col] {
				out[col] = v
			}
		}
		rows[i] = out
	}
	out := New(rows)
	for col, meta := range d.meta {
		if keep[col] {
			out.meta[col] = meta.clone()
		}
	}
	return out
}

// WithColumn returns a dataset with an additional column holding one value
// per row. Returns an error if len(values) != NumRows.
func (d *Dataset) WithColumn(col string, values []interface{}) (*Dataset, error) {
	if len(values) != len(d.rows) {
		return nil, fmt.Errorf("column %q has %d values for %d rows", col, len(values), len(d.rows))
	}
	rows := make([]map[string]interface{}, len(d.rows))
	for i, row := range d.rows {
		out := make(map[string]interface{}, len(row)+1)
		for k, v := range row {
			out[k] = v
		}
		out[col] = values[i]
		rows[i] = out
	}
	return d.deriveWithMeta(rows), nil
}

// deriveWithMeta builds a dataset over rows carrying this dataset's column
// metadata forward.
func (d *Dataset) deriveWithMeta(rows []map[string]interface{}) *Dataset {
	out := New(rows)
	for col, meta := range d.meta {
		out.meta[col] = meta.clone()
	}
	return out
}

// TileAt extracts the tile held by row i in the named column.
func (d *Dataset) TileAt(i int, col string) (cell.Tile, error) {
	v, ok := d.rows[i][col]
	if !ok {
		return cell.Tile{}, fmt.Errorf("column %q not found in row %d", col, i)
	}
	t, ok := v.(cell.Tile)
	if !ok {
		return cell.Tile{}, fmt.Errorf("column %q in row %d holds %T, not a tile", col, i, v)
	}
	return t, nil
}

// KeyAt extracts the spatial key held by row i.
func (d *Dataset) KeyAt(i int) (layer.SpatialKey, error) {
	v, ok := d.rows[i][KeyColumn]
	if !ok {
		return layer.SpatialKey{}, fmt.Errorf("%w: row %d has no %q column", ErrMissingSpatialContext, i, KeyColumn)
	}
	k, ok := v.(layer.SpatialKey)
	if !ok {
		return layer.SpatialKey{}, fmt.Errorf("column %q in row %d holds %T, not a spatial key", KeyColumn, i, v)
	}
	return k, nil
}

// SortBySpatialKey returns a dataset with rows ordered by each key's
// position on a Hilbert curve over the layout grid, keeping spatially
// close tiles adjacent. Useful before persisting.
func (d *Dataset) SortBySpatialKey(tileCol string) (*Dataset, error) {
	md, err := d.TileContext(tileCol)
	if err != nil {
		return nil, err
	}
	type keyed struct {
		index int
		row   map[string]interface{}
	}
	ordered := make([]keyed, len(d.rows))
	for i, row := range d.rows {
		k, err := d.KeyAt(i)
		if err != nil {
			return nil, err
		}
		idx, err := layer.SortIndex(md.Layout, k)
		if err != nil {
			return nil, err
		}
		ordered[i] = keyed{index: idx, row: row}
	}
	sort.SliceStable(ordered, func(a, b int) bool { return ordered[a].index < ordered[b].index })
	rows := make([]map[string]interface{}, len(ordered))
	for i, kr := range ordered {
		rows[i] = kr.row
	}
	return d.deriveWithMeta(rows), nil
}
