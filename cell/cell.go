// Package cell implements the raster tile cell model: a closed set of
// numeric cell types, each with its own no-data sentinel, and an immutable
// fixed-size 2-D Tile of such cells.
//
// Tiles are value types. Once constructed they are never mutated; every
// operation that "changes" a tile builds a new one. This is what makes the
// algebra and aggregation layers safe to run in parallel over arbitrary
// partitions of a dataset.
package cell

import (
	"fmt"
	"math"
)

// Type identifies the numeric type of a tile's cells.
type Type int

const (
	// Bit cells hold 0 or 1 and have no no-data sentinel.
	Bit Type = iota
	Int8
	UInt8
	Int16
	UInt16
	Int32
	Float32
	Float64
)

var typeNames = map[Type]string{
	Bit:     "bit",
	Int8:    "int8",
	UInt8:   "uint8",
	Int16:   "int16",
	UInt16:  "uint16",
	Int32:   "int32",
	Float32: "float32",
	Float64: "float64",
}

func (t Type) String() string {
	name, ok := typeNames[t]
	if !ok {
		return fmt.Sprintf("unknown cell type %d", int(t))
	}
	return name
}

// ParseType parses a cell type name as produced by Type.String.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown cell type %q", name)
}

// HasNoData reports whether the type reserves a no-data sentinel.
// Every type does except Bit.
func (t Type) HasNoData() bool {
	return t != Bit
}

// NoData returns the type's no-data sentinel as a float64.
//
// Signed integer types reserve their minimum value, unsigned integer types
// their maximum, and floating point types use NaN. Bit has no sentinel and
// returns NaN, which no Bit cell can ever hold.
func (t Type) NoData() float64 {
	switch t {
	case Int8:
		return math.MinInt8
	case UInt8:
		return math.MaxUint8
	case Int16:
		return math.MinInt16
	case UInt16:
		return math.MaxUint16
	case Int32:
		return math.MinInt32
	case Float32, Float64:
		return math.NaN()
	default:
		return math.NaN()
	}
}

// IsNoData reports whether v is the no-data sentinel for the type.
func (t Type) IsNoData(v float64) bool {
	switch t {
	case Bit:
		return false
	case Float32, Float64:
		return math.IsNaN(v)
	default:
		return v == t.NoData()
	}
}

// convert coerces a float64 into the type's value domain at tile
// construction. The exact no-data sentinel passes through as no-data;
// everything else goes through clampData.
func (t Type) convert(v float64) float64 {
	if t.HasNoData() && v == t.NoData() {
		return v
	}
	return t.clampData(v)
}

// clampData coerces a float64 into the type's data domain. NaN maps to
// the no-data sentinel for integer types; Bit clamps everything to 0 or 1.
// Integer values are truncated toward zero and clamped to the type's data
// range, which excludes the no-data sentinel: an out-of-range or
// sentinel-valued arithmetic result saturates at the nearest
// representable data value and can never wrap around or come out as a
// spurious no-data cell.
func (t Type) clampData(v float64) float64 {
	switch t {
	case Bit:
		if v != 0 && !math.IsNaN(v) {
			return 1
		}
		return 0
	case Float32:
		return float64(float32(v))
	case Float64:
		return v
	default:
		if math.IsNaN(v) {
			return t.NoData()
		}
		v = math.Trunc(v)
		lo, hi := t.dataRange()
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
}

// dataRange returns the smallest and largest data value an integer type
// can hold. The bound reserved as the no-data sentinel is excluded.
func (t Type) dataRange() (float64, float64) {
	switch t {
	case Int8:
		return math.MinInt8 + 1, math.MaxInt8
	case UInt8:
		return 0, math.MaxUint8 - 1
	case Int16:
		return math.MinInt16 + 1, math.MaxInt16
	case UInt16:
		return 0, math.MaxUint16 - 1
	case Int32:
		return math.MinInt32 + 1, math.MaxInt32
	default:
		return math.Inf(-1), math.Inf(1)
	}
}
