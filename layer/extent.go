// Package layer tracks the spatial context of a tiled dataset: the tiling
// layout, the geographic extent it covers, the coordinate reference system,
// and the occupied range of spatial keys. This context travels out-of-band
// with a dataset (as column metadata, not row data) and is what makes
// clipping and raster reassembly possible.
package layer

import (
	"fmt"
	"math"
)

// CRS identifies a coordinate reference system, e.g. "EPSG:4326".
type CRS string

// Extent is an axis-aligned bounding rectangle in some CRS.
// Invariant: XMin <= XMax and YMin <= YMax.
type Extent struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

// NewExtent builds an extent, validating the corner ordering.
func NewExtent(xmin, ymin, xmax, ymax float64) (Extent, error) {
	if xmin > xmax || ymin > ymax {
		return Extent{}, fmt.Errorf("invalid extent: (%g, %g, %g, %g)", xmin, ymin, xmax, ymax)
	}
	return Extent{XMin: xmin, YMin: ymin, XMax: xmax, YMax: ymax}, nil
}

// Width returns the horizontal span of the extent.
func (e Extent) Width() float64 { return e.XMax - e.XMin }

// Height returns the vertical span of the extent.
func (e Extent) Height() float64 { return e.YMax - e.YMin }

// Contains reports whether the point (x, y) lies inside the extent.
// Points on the boundary are inside.
func (e Extent) Contains(x, y float64) bool {
	return x >= e.XMin && x <= e.XMax && y >= e.YMin && y <= e.YMax
}

// Intersects reports whether two extents share any area or boundary.
func (e Extent) Intersects(o Extent) bool {
	return e.XMin <= o.XMax && o.XMin <= e.XMax && e.YMin <= o.YMax && o.YMin <= e.YMax
}

// Intersection returns the overlap of two extents. The second return is
// false when they do not intersect.
func (e Extent) Intersection(o Extent) (Extent, bool) {
	if !e.Intersects(o) {
		return Extent{}, false
	}
	return Extent{
		XMin: math.Max(e.XMin, o.XMin),
		YMin: math.Max(e.YMin, o.YMin),
		XMax: math.Min(e.XMax, o.XMax),
		YMax: math.Min(e.YMax, o.YMax),
	}, true
}

// Union returns the smallest extent covering both inputs.
func (e Extent) Union(o Extent) Extent {
	return Extent{
		XMin: math.Min(e.XMin, o.XMin),
		YMin: math.Min(e.YMin, o.YMin),
		XMax: math.Max(e.XMax, o.XMax),
		YMax: math.Max(e.YMax, o.YMax),
	}
}

// ApproxEqual reports whether two extents are equal within tol on every
// coordinate.
func (e Extent) ApproxEqual(o Extent, tol float64) bool {
	return math.Abs(e.XMin-o.XMin) <= tol &&
		math.Abs(e.YMin-o.YMin) <= tol &&
		math.Abs(e.XMax-o.XMax) <= tol &&
		math.Abs(e.YMax-o.YMax) <= tol
}

func (e Extent) String() string {
	return fmt.Sprintf("Extent(%g, %g, %g, %g)", e.XMin, e.YMin, e.XMax, e.YMax)
}
