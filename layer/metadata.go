package layer

import (
	"fmt"

	"github.com/telluric/tilecat/cell"
)

// Metadata is the out-of-band spatial context of a tiled dataset. It is
// immutable: Clip returns a new Metadata rather than modifying in place.
//
// Extent spans exactly the key range described by Grid, with key row
// Grid.Min.Row at the northern edge. A nil Grid means the extent spans the
// full nominal layout grid starting at key (0, 0). Bounds is the occupied
// key range, which may be smaller than Grid until Clip shrink-wraps the
// extent to it. Keeping Grid alongside Extent is what holds per-tile world
// dimensions constant across repeated clips.
type Metadata struct {
	Layout   TileLayout `json:"layout"`
	Extent   Extent     `json:"extent"`
	CRS      CRS        `json:"crs"`
	Bounds   *KeyBounds `json:"bounds,omitempty"`
	Grid     *KeyBounds `json:"grid,omitempty"`
	CellType cell.Type  `json:"cell_type"`

	// DataExtent, when set, is the extent of the source raster the grid
	// was tiled from, which the padded grid extent may exceed by up to a
	// tile on its east and south edges. Reassembly crops to it so a
	// round trip through tiling does not inflate the raster.
	DataExtent *Extent `json:"data_extent,omitempty"`
}

// Validate checks the internal consistency of the metadata: a sane layout
// and, if bounds are present, bounds within the nominal layout grid.
func (m Metadata) Validate() error {
	if err := m.Layout.Validate(); err != nil {
		return err
	}
	if m.Bounds != nil {
		grid := KeyBounds{Max: SpatialKey{Col: m.Layout.LayoutCols - 1, Row: m.Layout.LayoutRows - 1}}
		if !grid.Contains(m.Bounds.Min) || !grid.Contains(m.Bounds.Max) {
			return fmt.Errorf("bounds %v outside layout grid %dx%d", *m.Bounds, m.Layout.LayoutCols, m.Layout.LayoutRows)
		}
		if m.Bounds.Min.Col > m.Bounds.Max.Col || m.Bounds.Min.Row > m.Bounds.Max.Row {
			return fmt.Errorf("inverted bounds %v", *m.Bounds)
		}
		if m.Grid != nil && !(m.Grid.Contains(m.Bounds.Min) && m.Grid.Contains(m.Bounds.Max)) {
			return fmt.Errorf("bounds %v outside extent grid %v", *m.Bounds, *m.Grid)
		}
	}
	return nil
}

// origin returns the key at the extent's north-west corner and the grid
// dimensions, in keys, that the extent spans.
func (m Metadata) origin() (SpatialKey, int, int) {
	if m.Grid != nil {
		return m.Grid.Min, m.Grid.Width(), m.Grid.Height()
	}
	return SpatialKey{}, m.Layout.LayoutCols, m.Layout.LayoutRows
}

// TileWorldSize returns the width and height, in world units, covered by a
// single tile.
func (m Metadata) TileWorldSize() (float64, float64) {
	_, gridW, gridH := m.origin()
	return m.Extent.Width() / float64(gridW), m.Extent.Height() / float64(gridH)
}

// CellSize returns the width and height, in world units, of one cell.
func (m Metadata) CellSize() (float64, float64) {
	tw, th := m.TileWorldSize()
	return tw / float64(m.Layout.TileCols), th / float64(m.Layout.TileRows)
}

// TileExtent returns the geographic footprint of the tile at key k.
func (m Metadata) TileExtent(k SpatialKey) Extent {
	org, _, _ := m.origin()
	tw, th := m.TileWorldSize()
	xmin := m.Extent.XMin + float64(k.Col-org.Col)*tw
	ymax := m.Extent.YMax - float64(k.Row-org.Row)*th
	return Extent{XMin: xmin, YMin: ymax - th, XMax: xmin + tw, YMax: ymax}
}

// KeyAt returns the spatial key of the tile whose footprint contains the
// point (x, y). Points on a shared tile edge resolve to the tile south-east
// of the edge, except at the extent's own east/south boundary where they
// resolve inward.
func (m Metadata) KeyAt(x, y float64) (SpatialKey, error) {
	if !m.Extent.Contains(x, y) {
		return SpatialKey{}, fmt.Errorf("point (%g, %g) outside layer extent %s", x, y, m.Extent)
	}
	org, gridW, gridH := m.origin()
	tw, th := m.TileWorldSize()
	col := int((x - m.Extent.XMin) / tw)
	row := int((m.Extent.YMax - y) / th)
	if col >= gridW {
		col = gridW - 1
	}
	if row >= gridH {
		row = gridH - 1
	}
	return SpatialKey{Col: org.Col + col, Row: org.Row + row}, nil
}

// Clip shrinks the extent to the minimal rectangle covering exactly the
// tiles within Bounds, discarding any padding from the nominal grid extent.
// Clipping never grows the extent, and clipping twice yields the same
// extent as clipping once. Metadata without bounds (an empty dataset) is
// returned unchanged.
func (m Metadata) Clip() Metadata {
	if m.Bounds == nil {
		return m
	}
	clipped := m.TileExtent(m.Bounds.Min).Union(m.TileExtent(m.Bounds.Max))
	out := m
	out.Extent = clipped
	bounds := *m.Bounds
	out.Bounds = &bounds
	grid := *m.Bounds
	out.Grid = &grid
	return out
}

// WithBounds returns a copy of the metadata with the occupied key range
// replaced. The extent is not touched; pair with Clip to shrink it.
func (m Metadata) WithBounds(b KeyBounds) Metadata {
	out := m
	out.Bounds = &b
	return out
}
