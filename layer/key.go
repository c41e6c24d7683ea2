package layer

import (
	"fmt"

	"github.com/google/hilbert"
)

// SpatialKey identifies a tile's position within a regular tiling grid.
// Keys are unique within a dataset and act as the join key for clipping
// and raster reassembly.
type SpatialKey struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

func (k SpatialKey) String() string {
	return fmt.Sprintf("SpatialKey(%d, %d)", k.Col, k.Row)
}

// KeyBounds is the inclusive rectangle of spatial keys occupied by a
// dataset.
type KeyBounds struct {
	Min SpatialKey `json:"min"`
	Max SpatialKey `json:"max"`
}

// Contains reports whether k lies within the bounds.
func (b KeyBounds) Contains(k SpatialKey) bool {
	return k.Col >= b.Min.Col && k.Col <= b.Max.Col &&
		k.Row >= b.Min.Row && k.Row <= b.Max.Row
}

// Include returns the bounds grown just enough to contain k.
func (b KeyBounds) Include(k SpatialKey) KeyBounds {
	out := b
	if k.Col < out.Min.Col {
		out.Min.Col = k.Col
	}
	if k.Row < out.Min.Row {
		out.Min.Row = k.Row
	}
	if k.Col > out.Max.Col {
		out.Max.Col = k.Col
	}
	if k.Row > out.Max.Row {
		out.Max.Row = k.Row
	}
	return out
}

// Width returns the number of key columns covered, inclusive.
func (b KeyBounds) Width() int { return b.Max.Col - b.Min.Col + 1 }

// Height returns the number of key rows covered, inclusive.
func (b KeyBounds) Height() int { return b.Max.Row - b.Min.Row + 1 }

// SortIndex maps a spatial key to its position on a Hilbert curve covering
// the layout grid. Ordering tile rows by this index keeps spatially close
// tiles close together in storage, the same trick tiled archive formats use
// for their tile directories.
func SortIndex(layout TileLayout, k SpatialKey) (int, error) {
	if k.Col < 0 || k.Row < 0 || k.Col >= layout.LayoutCols || k.Row >= layout.LayoutRows {
		return 0, fmt.Errorf("key %s outside layout grid %dx%d", k, layout.LayoutCols, layout.LayoutRows)
	}
	side := 1
	for side < layout.LayoutCols || side < layout.LayoutRows {
		side *= 2
	}
	h, err := hilbert.NewHilbert(side)
	if err != nil {
		return 0, fmt.Errorf("hilbert curve of order %d: %w", side, err)
	}
	d, err := h.MapInverse(k.Col, k.Row)
	if err != nil {
		return 0, fmt.Errorf("hilbert index for %s: %w", k, err)
	}
	return d, nil
}
