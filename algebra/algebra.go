// Package algebra implements element-wise map algebra between tile
// columns: binary operations between two tiles at matching cell
// positions, and unary operations over one tile.
//
// No-data propagates: whenever an input cell is no-data, the output cell
// is no-data regardless of the operation. Dimension mismatches are
// detected lazily, when two concrete tiles are actually combined.
package algebra

import (
	"fmt"

	"github.com/telluric/tilecat/cell"
	"github.com/telluric/tilecat/dataset"
)

// outputType picks the cell type of a binary operation's result: identical
// input types are kept, mixed types promote to Float64.
func outputType(a, b cell.Type) cell.Type {
	if a == b {
		return a
	}
	return cell.Float64
}

// Add returns the cell-wise sum of two tiles.
func Add(a, b cell.Tile) (cell.Tile, error) {
	return a.Combine(b, outputType(a.Type(), b.Type()), func(x, y float64) float64 { return x + y })
}

// Subtract returns the cell-wise difference of two tiles.
func Subtract(a, b cell.Tile) (cell.Tile, error) {
	return a.Combine(b, outputType(a.Type(), b.Type()), func(x, y float64) float64 { return x - y })
}

// Combine applies an arbitrary binary function cell-wise across two tiles.
func Combine(a, b cell.Tile, f func(x, y float64) float64) (cell.Tile, error) {
	return a.Combine(b, outputType(a.Type(), b.Type()), f)
}

// Map applies an arbitrary unary function to every non-no-data cell of a
// tile, keeping the tile's cell type.
func Map(t cell.Tile, f func(v float64) float64) cell.Tile {
	return t.Map(t.Type(), f)
}

// ColumnName composes an operator name with its input column names, so
// derived columns carry their provenance: local_add(red, nir).
func ColumnName(op string, inputs ...string) string {
	name := op + "("
	for i, col := range inputs {
		if i > 0 {
			name += ", "
		}
		name += col
	}
	return name + ")"
}

// binaryColumn evaluates a binary tile operation row by row, appending the
// result as a new column named by composing op with the input column
// names.
func binaryColumn(d *dataset.Dataset, op, left, right string, f func(a, b cell.Tile) (cell.Tile, error)) (*dataset.Dataset, error) {
	values := make([]interface{}, d.NumRows())
	for i := 0; i < d.NumRows(); i++ {
		a, err := d.TileAt(i, left)
		if err != nil {
			return nil, err
		}
		b, err := d.TileAt(i, right)
		if err != nil {
			return nil, err
		}
		out, err := f(a, b)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", op, i, err)
		}
		values[i] = out
	}
	return d.WithColumn(ColumnName(op, left, right), values)
}

// LocalAdd adds two tile columns cell-wise into a new column named
// local_add(left, right).
func LocalAdd(d *dataset.Dataset, left, right string) (*dataset.Dataset, error) {
	return binaryColumn(d, "local_add", left, right, Add)
}

// LocalSubtract subtracts the right tile column from the left cell-wise
// into a new column named local_subtract(left, right).
func LocalSubtract(d *dataset.Dataset, left, right string) (*dataset.Dataset, error) {
	return binaryColumn(d, "local_subtract", left, right, Subtract)
}

// LocalCombine applies a caller-supplied binary function cell-wise across
// two tile columns into a new column named op(left, right).
func LocalCombine(d *dataset.Dataset, op, left, right string, f func(x, y float64) float64) (*dataset.Dataset, error) {
	return binaryColumn(d, op, left, right, func(a, b cell.Tile) (cell.Tile, error) {
		return Combine(a, b, f)
	})
}

// LocalMap applies a caller-supplied unary function to every tile of a
// column into a new column named op(col).
func LocalMap(d *dataset.Dataset, op, col string, f func(v float64) float64) (*dataset.Dataset, error) {
	values := make([]interface{}, d.NumRows())
	for i := 0; i < d.NumRows(); i++ {
		t, err := d.TileAt(i, col)
		if err != nil {
			return nil, err
		}
		values[i] = Map(t, f)
	}
	return d.WithColumn(ColumnName(op, col), values)
}
