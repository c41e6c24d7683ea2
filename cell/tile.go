package cell

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch is returned when an operation is given tiles whose
// dimensions differ. It is raised lazily, at the point two concrete tiles
// are actually combined.
var ErrDimensionMismatch = errors.New("tile dimension mismatch")

// store is the typed backing array of a tile. The concrete variant is
// selected once per tile at construction time, so per-cell access never
// re-dispatches on the cell type.
type store interface {
	at(i int) float64
	length() int
}

type bitStore []uint8
type int8Store []int8
type uint8Store []uint8
type int16Store []int16
type uint16Store []uint16
type int32Store []int32
type float32Store []float32
type float64Store []float64

func (s bitStore) at(i int) float64     { return float64(s[i]) }
func (s int8Store) at(i int) float64    { return float64(s[i]) }
func (s uint8Store) at(i int) float64   { return float64(s[i]) }
func (s int16Store) at(i int) float64   { return float64(s[i]) }
func (s uint16Store) at(i int) float64  { return float64(s[i]) }
func (s int32Store) at(i int) float64   { return float64(s[i]) }
func (s float32Store) at(i int) float64 { return float64(s[i]) }
func (s float64Store) at(i int) float64 { return s[i] }

func (s bitStore) length() int     { return len(s) }
func (s int8Store) length() int    { return len(s) }
func (s uint8Store) length() int   { return len(s) }
func (s int16Store) length() int   { return len(s) }
func (s uint16Store) length() int  { return len(s) }
func (s int32Store) length() int   { return len(s) }
func (s float32Store) length() int { return len(s) }
func (s float64Store) length() int { return len(s) }

func newStore(t Type, values []float64) store {
	switch t {
	case Bit:
		s := make(bitStore, len(values))
		for i, v := range values {
			s[i] = uint8(t.convert(v))
		}
		return s
	case Int8:
		s := make(int8Store, len(values))
		for i, v := range values {
			s[i] = int8(t.convert(v))
		}
		return s
	case UInt8:
		s := make(uint8Store, len(values))
		for i, v := range values {
			s[i] = uint8(t.convert(v))
		}
		return s
	case Int16:
		s := make(int16Store, len(values))
		for i, v := range values {
			s[i] = int16(t.convert(v))
		}
		return s
	case UInt16:
		s := make(uint16Store, len(values))
		for i, v := range values {
			s[i] = uint16(t.convert(v))
		}
		return s
	case Int32:
		s := make(int32Store, len(values))
		for i, v := range values {
			s[i] = int32(t.convert(v))
		}
		return s
	case Float32:
		s := make(float32Store, len(values))
		for i, v := range values {
			s[i] = float32(v)
		}
		return s
	default:
		s := make(float64Store, len(values))
		copy(s, values)
		return s
	}
}

// Tile is an immutable cols×rows grid of numeric cells. Cells are laid out
// in row-major order. The zero Tile is empty and has no cells.
type Tile struct {
	typ  Type
	cols int
	rows int
	data store
}

// NewTile builds a tile of the given type and dimensions from row-major
// cell values. Values are coerced into the cell type's domain: fractional
// parts are truncated for integer types, out-of-range values saturate at
// the type's data range, and NaN becomes the type's no-data sentinel.
//
// Returns an error if the dimensions are not positive or if
// len(values) != cols*rows.
func NewTile(t Type, cols, rows int, values []float64) (Tile, error) {
	if cols <= 0 || rows <= 0 {
		return Tile{}, fmt.Errorf("invalid tile dimensions %dx%d", cols, rows)
	}
	if len(values) != cols*rows {
		return Tile{}, fmt.Errorf("cell count %d does not match dimensions %dx%d", len(values), cols, rows)
	}
	return Tile{typ: t, cols: cols, rows: rows, data: newStore(t, values)}, nil
}

// NewConstantTile builds a tile with every cell set to v.
func NewConstantTile(t Type, cols, rows int, v float64) (Tile, error) {
	values := make([]float64, cols*rows)
	for i := range values {
		values[i] = v
	}
	return NewTile(t, cols, rows, values)
}

// NewEmptyTile builds a tile with every cell set to the type's no-data
// sentinel.
func NewEmptyTile(t Type, cols, rows int) (Tile, error) {
	return NewConstantTile(t, cols, rows, t.NoData())
}

// Type returns the tile's cell type.
func (t Tile) Type() Type { return t.typ }

// Cols returns the number of cell columns.
func (t Tile) Cols() int { return t.cols }

// Rows returns the number of cell rows.
func (t Tile) Rows() int { return t.rows }

// Size returns the total number of cells.
func (t Tile) Size() int { return t.cols * t.rows }

// At returns the cell value at (col, row). Reading outside
// [0,cols)×[0,rows) is an error.
func (t Tile) At(col, row int) (float64, error) {
	if col < 0 || col >= t.cols || row < 0 || row >= t.rows {
		return 0, fmt.Errorf("cell (%d, %d) outside tile bounds %dx%d", col, row, t.cols, t.rows)
	}
	return t.data.at(row*t.cols + col), nil
}

// at returns the cell at linear index i without bounds checking. Internal
// callers iterate over indices they derived from the tile's own dimensions.
func (t Tile) at(i int) float64 { return t.data.at(i) }

// Cells returns a copy of all cell values in row-major order.
func (t Tile) Cells() []float64 {
	out := make([]float64, t.Size())
	for i := range out {
		out[i] = t.data.at(i)
	}
	return out
}

// IsNoData reports whether v is the no-data sentinel for this tile's type.
func (t Tile) IsNoData(v float64) bool { return t.typ.IsNoData(v) }

// IsNoDataAt reports whether the cell at linear index i is no-data.
func (t Tile) IsNoDataAt(i int) bool { return t.typ.IsNoData(t.data.at(i)) }

// SameDimensions reports whether two tiles have identical cell dimensions.
func (t Tile) SameDimensions(o Tile) bool {
	return t.cols == o.cols && t.rows == o.rows
}

// Equal reports whether two tiles have the same type, dimensions, and
// cell-for-cell identical values. No-data cells compare equal to no-data
// cells even for NaN-sentinel types.
func (t Tile) Equal(o Tile) bool {
	if t.typ != o.typ || !t.SameDimensions(o) {
		return false
	}
	for i := 0; i < t.Size(); i++ {
		a, b := t.data.at(i), o.data.at(i)
		if a == b {
			continue
		}
		if math.IsNaN(a) && math.IsNaN(b) {
			continue
		}
		return false
	}
	return true
}

// Map builds a new tile of the given output type by applying f to every
// non-no-data cell. No-data cells stay no-data in the output; computed
// results saturate at the output type's data range.
func (t Tile) Map(out Type, f func(v float64) float64) Tile {
	values := make([]float64, t.Size())
	for i := range values {
		v := t.data.at(i)
		if t.typ.IsNoData(v) {
			values[i] = out.NoData()
			continue
		}
		values[i] = out.clampData(f(v))
	}
	mapped, _ := NewTile(out, t.cols, t.rows, values)
	return mapped
}

// Combine builds a new tile of the given output type by applying f to each
// pair of cells at the same position. If either input cell is no-data, the
// output cell is no-data regardless of f; computed results saturate at the
// output type's data range.
//
// Returns ErrDimensionMismatch if the tiles' dimensions differ.
func (t Tile) Combine(o Tile, out Type, f func(a, b float64) float64) (Tile, error) {
	if !t.SameDimensions(o) {
		return Tile{}, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, t.cols, t.rows, o.cols, o.rows)
	}
	values := make([]float64, t.Size())
	for i := range values {
		a, b := t.data.at(i), o.data.at(i)
		if t.typ.IsNoData(a) || o.typ.IsNoData(b) {
			values[i] = out.NoData()
			continue
		}
		values[i] = out.clampData(f(a, b))
	}
	return NewTile(out, t.cols, t.rows, values)
}
