package agg

import (
	"fmt"

	"github.com/telluric/tilecat/cell"
	"github.com/telluric/tilecat/dataset"
)

// LocalStats bundles the cell-local statistics tiles produced by
// LocalAggStats. Every tile has the dimensions of the input tiles.
type LocalStats struct {
	Count    cell.Tile
	Min      cell.Tile
	Max      cell.Tile
	Mean     cell.Tile
	Variance cell.Tile
}

// localAccumulate folds every tile of a column into per-cell accumulators.
// All tiles must share identical dimensions; a mismatch is a
// cell.ErrDimensionMismatch error, raised only when the offending tile is
// actually reached.
func localAccumulate(d *dataset.Dataset, tileCol string) ([]Stats, int, int, error) {
	if d.NumRows() == 0 {
		return nil, 0, 0, fmt.Errorf("cell-local aggregation over empty column %q", tileCol)
	}
	first, err := d.TileAt(0, tileCol)
	if err != nil {
		return nil, 0, 0, err
	}
	cols, rows := first.Cols(), first.Rows()
	acc := make([]Stats, cols*rows)
	for i := 0; i < d.NumRows(); i++ {
		t, err := d.TileAt(i, tileCol)
		if err != nil {
			return nil, 0, 0, err
		}
		if !t.SameDimensions(first) {
			return nil, 0, 0, fmt.Errorf("%w: column %q row %d is %dx%d, expected %dx%d",
				cell.ErrDimensionMismatch, tileCol, i, t.Cols(), t.Rows(), cols, rows)
		}
		for j, v := range t.Cells() {
			if t.IsNoData(v) {
				continue
			}
			acc[j].Add(v)
		}
	}
	return acc, cols, rows, nil
}

// statTile materializes one statistic of the per-cell accumulators as a
// tile. Cells that saw no data come out as the output type's no-data
// sentinel.
func statTile(acc []Stats, cols, rows int, typ cell.Type, stat func(*Stats) float64) cell.Tile {
	values := make([]float64, len(acc))
	for i := range acc {
		if acc[i].Count() == 0 {
			values[i] = typ.NoData()
			continue
		}
		values[i] = stat(&acc[i])
	}
	t, _ := cell.NewTile(typ, cols, rows, values)
	return t
}

// LocalAggMax returns a tile whose cell (c, r) is the maximum non-no-data
// value at (c, r) across all tiles in the column. The output keeps the
// first tile's cell type.
func LocalAggMax(d *dataset.Dataset, tileCol string) (cell.Tile, error) {
	acc, cols, rows, err := localAccumulate(d, tileCol)
	if err != nil {
		return cell.Tile{}, err
	}
	first, _ := d.TileAt(0, tileCol)
	return statTile(acc, cols, rows, first.Type(), (*Stats).Max), nil
}

// LocalAggMin returns a tile whose cell (c, r) is the minimum non-no-data
// value at (c, r) across all tiles in the column.
func LocalAggMin(d *dataset.Dataset, tileCol string) (cell.Tile, error) {
	acc, cols, rows, err := localAccumulate(d, tileCol)
	if err != nil {
		return cell.Tile{}, err
	}
	first, _ := d.TileAt(0, tileCol)
	return statTile(acc, cols, rows, first.Type(), (*Stats).Min), nil
}

// LocalAggMean returns a Float64 tile whose cell (c, r) is the mean of the
// non-no-data values at (c, r) across all tiles in the column. A cell
// that is no-data in every tile stays no-data.
func LocalAggMean(d *dataset.Dataset, tileCol string) (cell.Tile, error) {
	acc, cols, rows, err := localAccumulate(d, tileCol)
	if err != nil {
		return cell.Tile{}, err
	}
	return statTile(acc, cols, rows, cell.Float64, (*Stats).Mean), nil
}

// LocalAggCount returns an Int32 tile whose cell (c, r) is the number of
// non-no-data values at (c, r) across all tiles in the column. A cell
// with no data in any tile counts 0.
func LocalAggCount(d *dataset.Dataset, tileCol string) (cell.Tile, error) {
	acc, cols, rows, err := localAccumulate(d, tileCol)
	if err != nil {
		return cell.Tile{}, err
	}
	values := make([]float64, len(acc))
	for i := range acc {
		values[i] = float64(acc[i].Count())
	}
	t, _ := cell.NewTile(cell.Int32, cols, rows, values)
	return t, nil
}

// LocalAggStats computes all cell-local statistics of a tile column in one
// pass.
func LocalAggStats(d *dataset.Dataset, tileCol string) (LocalStats, error) {
	acc, cols, rows, err := localAccumulate(d, tileCol)
	if err != nil {
		return LocalStats{}, err
	}
	counts := make([]float64, len(acc))
	for i := range acc {
		counts[i] = float64(acc[i].Count())
	}
	countTile, _ := cell.NewTile(cell.Int32, cols, rows, counts)
	return LocalStats{
		Count:    countTile,
		Min:      statTile(acc, cols, rows, cell.Float64, (*Stats).Min),
		Max:      statTile(acc, cols, rows, cell.Float64, (*Stats).Max),
		Mean:     statTile(acc, cols, rows, cell.Float64, (*Stats).Mean),
		Variance: statTile(acc, cols, rows, cell.Float64, (*Stats).Variance),
	}, nil
}
