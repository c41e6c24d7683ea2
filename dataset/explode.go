package dataset

import (
	"fmt"
	"math/rand"

	"github.com/telluric/tilecat/cell"
)

// Cell coordinate columns added by ExplodeTiles.
const (
	ColumnIndexColumn = "column_index"
	RowIndexColumn    = "row_index"
)

// ExplodeTiles expands each row into one row per cell position of its
// tiles. Every output row carries the cell's column and row index, the
// decoded cell value from each named tile column, and every non-tile
// column of the source row unchanged. No-data cells are emitted with
// their no-data value; callers filter them if they want them gone.
//
// sample is a Bernoulli per-cell inclusion probability in (0, 1]. With
// sample == 1 every cell is emitted exactly once. For sample < 1 the
// output is stable for a fixed seed.
//
// All tiles within one row must share identical dimensions; a mismatch is
// a cell.ErrDimensionMismatch error.
func ExplodeTiles(d *Dataset, tileCols []string, sample float64, seed int64) (*Dataset, error) {
	if len(tileCols) == 0 {
		return nil, fmt.Errorf("explode requires at least one tile column")
	}
	if sample <= 0 || sample > 1 {
		return nil, fmt.Errorf("sample fraction %g outside (0, 1]", sample)
	}

	var rng *rand.Rand
	if sample < 1 {
		rng = rand.New(rand.NewSource(seed))
	}

	isTileCol := make(map[string]bool, len(tileCols))
	for _, col := range tileCols {
		isTileCol[col] = true
	}

	var out []map[string]interface{}
	for i := range d.rows {
		tiles := make([]cell.Tile, len(tileCols))
		for j, col := range tileCols {
			t, err := d.TileAt(i, col)
			if err != nil {
				return nil, err
			}
			tiles[j] = t
			if !tiles[0].SameDimensions(t) {
				return nil, fmt.Errorf("%w: row %d columns %q (%dx%d) and %q (%dx%d)",
					cell.ErrDimensionMismatch, i,
					tileCols[0], tiles[0].Cols(), tiles[0].Rows(),
					col, t.Cols(), t.Rows())
			}
		}

		cols, rows := tiles[0].Cols(), tiles[0].Rows()
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if rng != nil && rng.Float64() >= sample {
					continue
				}
				row := make(map[string]interface{}, len(d.rows[i])+2)
				for name, v := range d.rows[i] {
					if !isTileCol[name] {
						row[name] = v
					}
				}
				row[ColumnIndexColumn] = c
				row[RowIndexColumn] = r
				for j, col := range tileCols {
					v, err := tiles[j].At(c, r)
					if err != nil {
						return nil, err
					}
					row[col] = v
				}
				out = append(out, row)
			}
		}
	}
	return New(out), nil
}
