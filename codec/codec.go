// Package codec maps tiles and their spatial metadata to and from
// structured row values, and persists whole tile datasets as parquet
// files.
//
// The row representation is the same map shape the rest of the engine
// uses, so an encoded tile can sit in any dataset column. Round-tripping
// is exact: decoding an encoded tile reproduces cell-for-cell identical
// content and the identical cell type.
package codec

import (
	"errors"
	"fmt"

	"github.com/telluric/tilecat/cell"
	"github.com/telluric/tilecat/layer"
)

// ErrMalformedRow is returned when a structured value's fields do not
// match the expected tile schema.
var ErrMalformedRow = errors.New("malformed row")

// Field names of the encoded tile representation.
const (
	FieldCellType = "cell_type"
	FieldCols     = "cols"
	FieldRows     = "rows"
	FieldCells    = "cells"
	FieldTile     = "tile"
	FieldData     = "data"
	FieldXMin     = "xmin"
	FieldYMin     = "ymin"
	FieldXMax     = "xmax"
	FieldYMax     = "ymax"
	FieldCRS      = "crs"
)

// TileFeature pairs a tile with an arbitrary auxiliary value. The two
// travel through the pipeline as one encoded unit.
type TileFeature struct {
	Tile cell.Tile
	Data interface{}
}

// EncodeTile encodes a tile into a structured row value.
func EncodeTile(t cell.Tile) map[string]interface{} {
	return map[string]interface{}{
		FieldCellType: t.Type().String(),
		FieldCols:     t.Cols(),
		FieldRows:     t.Rows(),
		FieldCells:    t.Cells(),
	}
}

// DecodeTile decodes a structured row value produced by EncodeTile.
// Any missing field, wrong field type, or cell count that disagrees with
// the declared dimensions is an ErrMalformedRow error.
func DecodeTile(v map[string]interface{}) (cell.Tile, error) {
	name, ok := v[FieldCellType].(string)
	if !ok {
		return cell.Tile{}, fmt.Errorf("%w: missing cell type discriminator", ErrMalformedRow)
	}
	typ, err := cell.ParseType(name)
	if err != nil {
		return cell.Tile{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	cols, ok := intField(v[FieldCols])
	if !ok {
		return cell.Tile{}, fmt.Errorf("%w: missing or non-integer %q field", ErrMalformedRow, FieldCols)
	}
	rows, ok := intField(v[FieldRows])
	if !ok {
		return cell.Tile{}, fmt.Errorf("%w: missing or non-integer %q field", ErrMalformedRow, FieldRows)
	}
	cells, ok := v[FieldCells].([]float64)
	if !ok {
		return cell.Tile{}, fmt.Errorf("%w: missing or mistyped %q field", ErrMalformedRow, FieldCells)
	}
	if len(cells) != cols*rows {
		return cell.Tile{}, fmt.Errorf("%w: %d cells for declared dimensions %dx%d", ErrMalformedRow, len(cells), cols, rows)
	}
	t, err := cell.NewTile(typ, cols, rows, cells)
	if err != nil {
		return cell.Tile{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return t, nil
}

// EncodeTileFeature encodes a tile together with its auxiliary value.
func EncodeTileFeature(f TileFeature) map[string]interface{} {
	return map[string]interface{}{
		FieldTile: EncodeTile(f.Tile),
		FieldData: f.Data,
	}
}

// DecodeTileFeature decodes a structured row value produced by
// EncodeTileFeature.
func DecodeTileFeature(v map[string]interface{}) (TileFeature, error) {
	tv, ok := v[FieldTile].(map[string]interface{})
	if !ok {
		return TileFeature{}, fmt.Errorf("%w: missing embedded %q field", ErrMalformedRow, FieldTile)
	}
	t, err := DecodeTile(tv)
	if err != nil {
		return TileFeature{}, err
	}
	data, ok := v[FieldData]
	if !ok {
		return TileFeature{}, fmt.Errorf("%w: missing %q field", ErrMalformedRow, FieldData)
	}
	return TileFeature{Tile: t, Data: data}, nil
}

// EncodeExtent decomposes a CRS-bearing extent into independently encoded
// flat subfields: four numeric bounds plus the reference-system
// identifier. The CRS type is not a flat record, so it is carried as its
// own field and reattached on decode.
func EncodeExtent(e layer.Extent, crs layer.CRS) map[string]interface{} {
	return map[string]interface{}{
		FieldXMin: e.XMin,
		FieldYMin: e.YMin,
		FieldXMax: e.XMax,
		FieldYMax: e.YMax,
		FieldCRS:  string(crs),
	}
}

// DecodeExtent reassembles an extent and its CRS from the subfields
// produced by EncodeExtent.
func DecodeExtent(v map[string]interface{}) (layer.Extent, layer.CRS, error) {
	bounds := make([]float64, 4)
	for i, field := range []string{FieldXMin, FieldYMin, FieldXMax, FieldYMax} {
		f, ok := v[field].(float64)
		if !ok {
			return layer.Extent{}, "", fmt.Errorf("%w: missing or non-numeric %q field", ErrMalformedRow, field)
		}
		bounds[i] = f
	}
	crs, ok := v[FieldCRS].(string)
	if !ok {
		return layer.Extent{}, "", fmt.Errorf("%w: missing %q field", ErrMalformedRow, FieldCRS)
	}
	e, err := layer.NewExtent(bounds[0], bounds[1], bounds[2], bounds[3])
	if err != nil {
		return layer.Extent{}, "", fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return e, layer.CRS(crs), nil
}

// intField coerces the integer widths a row value may arrive with.
func intField(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
