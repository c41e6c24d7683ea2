package agg

import (
	"github.com/telluric/tilecat/cell"
	"github.com/telluric/tilecat/dataset"
)

// CountDataCells returns the number of cells in a tile that are not the
// no-data sentinel for the tile's cell type.
func CountDataCells(t cell.Tile) int64 {
	var n int64
	for _, v := range t.Cells() {
		if !t.IsNoData(v) {
			n++
		}
	}
	return n
}

// CountNodataCells returns the number of cells in a tile equal to the
// no-data sentinel for the tile's cell type.
func CountNodataCells(t cell.Tile) int64 {
	return int64(t.Size()) - CountDataCells(t)
}

// DataCells adds a per-row scalar column counting each row's data cells.
// The output column is named "<tileCol>_data_cells".
func DataCells(d *dataset.Dataset, tileCol string) (*dataset.Dataset, error) {
	return cellCountColumn(d, tileCol, tileCol+"_data_cells", CountDataCells)
}

// NodataCells adds a per-row scalar column counting each row's no-data
// cells. The output column is named "<tileCol>_nodata_cells".
func NodataCells(d *dataset.Dataset, tileCol string) (*dataset.Dataset, error) {
	return cellCountColumn(d, tileCol, tileCol+"_nodata_cells", CountNodataCells)
}

func cellCountColumn(d *dataset.Dataset, tileCol, outCol string, count func(cell.Tile) int64) (*dataset.Dataset, error) {
	values := make([]interface{}, d.NumRows())
	for i := 0; i < d.NumRows(); i++ {
		t, err := d.TileAt(i, tileCol)
		if err != nil {
			return nil, err
		}
		values[i] = count(t)
	}
	return d.WithColumn(outCol, values)
}
