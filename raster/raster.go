// Package raster handles whole rasters at the edges of the pipeline:
// splitting one georeferenced raster into a spatially-keyed tile dataset
// at ingest, and reassembling a tile dataset back into a single raster at
// an arbitrary target resolution.
package raster

import (
	"fmt"

	"github.com/telluric/tilecat/cell"
	"github.com/telluric/tilecat/dataset"
	"github.com/telluric/tilecat/layer"
)

// Raster is a single tile covering a geographic extent in some CRS.
type Raster struct {
	Tile   cell.Tile
	Extent layer.Extent
	CRS    layer.CRS
}

// CellSize returns the width and height of one cell in world units.
func (r Raster) CellSize() (float64, float64) {
	return r.Extent.Width() / float64(r.Tile.Cols()), r.Extent.Height() / float64(r.Tile.Rows())
}

// Retile splits a raster into a grid of fixed-size tiles, returning a
// spatially-keyed dataset whose tile column carries the layer metadata.
// Edge tiles that extend past the source raster are padded with no-data,
// and the layer extent covers the padded grid so every tile footprint has
// the same world dimensions.
func Retile(r Raster, tileCol string, tileCols, tileRows int) (*dataset.Dataset, error) {
	if tileCols <= 0 || tileRows <= 0 {
		return nil, fmt.Errorf("invalid tile dimensions %dx%d", tileCols, tileRows)
	}
	srcCols, srcRows := r.Tile.Cols(), r.Tile.Rows()
	layoutCols := (srcCols + tileCols - 1) / tileCols
	layoutRows := (srcRows + tileRows - 1) / tileRows
	cw, ch := r.CellSize()

	layout := layer.TileLayout{
		LayoutCols: layoutCols,
		LayoutRows: layoutRows,
		TileCols:   tileCols,
		TileRows:   tileRows,
	}
	gridExtent := layer.Extent{
		XMin: r.Extent.XMin,
		YMax: r.Extent.YMax,
		XMax: r.Extent.XMin + float64(layout.TotalCols())*cw,
		YMin: r.Extent.YMax - float64(layout.TotalRows())*ch,
	}
	dataExtent := r.Extent
	md := layer.Metadata{
		Layout:     layout,
		Extent:     gridExtent,
		CRS:        r.CRS,
		CellType:   r.Tile.Type(),
		DataExtent: &dataExtent,
	}
	md = md.WithBounds(layer.KeyBounds{
		Max: layer.SpatialKey{Col: layoutCols - 1, Row: layoutRows - 1},
	})

	typ := r.Tile.Type()
	rows := make([]map[string]interface{}, 0, layoutCols*layoutRows)
	for kr := 0; kr < layoutRows; kr++ {
		for kc := 0; kc < layoutCols; kc++ {
			values := make([]float64, tileCols*tileRows)
			for tr := 0; tr < tileRows; tr++ {
				for tc := 0; tc < tileCols; tc++ {
					sc := kc*tileCols + tc
					sr := kr*tileRows + tr
					if sc >= srcCols || sr >= srcRows {
						values[tr*tileCols+tc] = typ.NoData()
						continue
					}
					v, err := r.Tile.At(sc, sr)
					if err != nil {
						return nil, err
					}
					values[tr*tileCols+tc] = v
				}
			}
			t, err := cell.NewTile(typ, tileCols, tileRows, values)
			if err != nil {
				return nil, err
			}
			rows = append(rows, map[string]interface{}{
				dataset.KeyColumn: layer.SpatialKey{Col: kc, Row: kr},
				tileCol:           t,
			})
		}
	}
	return dataset.New(rows).WithTileContext(tileCol, md)
}

// ClipLayerExtent recomputes the occupied key bounds from the dataset's
// rows and shrinks the layer extent to the minimal rectangle covering
// exactly those tiles. Idempotent: clipping an already-clipped dataset
// yields the same extent.
//
// Fails with dataset.ErrMissingSpatialContext if the spatial key column
// or the tile column's layer metadata was dropped upstream.
func ClipLayerExtent(d *dataset.Dataset, tileCol string) (*dataset.Dataset, error) {
	md, err := d.TileContext(tileCol)
	if err != nil {
		return nil, err
	}
	if d.NumRows() == 0 {
		return d, nil
	}
	first, err := d.KeyAt(0)
	if err != nil {
		return nil, err
	}
	bounds := layer.KeyBounds{Min: first, Max: first}
	for i := 1; i < d.NumRows(); i++ {
		k, err := d.KeyAt(i)
		if err != nil {
			return nil, err
		}
		bounds = bounds.Include(k)
	}
	clipped := md.WithBounds(bounds).Clip()
	return d.WithTileContext(tileCol, clipped)
}
