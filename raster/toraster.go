package raster

import (
	"fmt"

	"github.com/telluric/tilecat/cell"
	"github.com/telluric/tilecat/dataset"
	"github.com/telluric/tilecat/layer"
)

// ResampleMethod selects how source cells are sampled while stitching.
type ResampleMethod int

const (
	// NearestNeighbor takes the value of the source cell containing the
	// output cell's geographic center. Deterministic at every scale
	// ratio: a center on a cell boundary resolves to the cell east/south
	// of it (nearest-center-wins with a west/north bias).
	NearestNeighbor ResampleMethod = iota
	// Bilinear blends the 2x2 neighborhood around the sample point,
	// clamped at tile edges. No-data neighbors are excluded from the
	// blend; a fully no-data neighborhood yields no-data.
	Bilinear
)

// ToRaster stitches a spatially-keyed tile dataset into one raster of the
// requested pixel dimensions, covering the union extent of all
// contributing tiles, resampling with nearest-neighbor. Output dimensions
// are caller-specified and need not preserve the source aspect ratio.
//
// Fails with dataset.ErrMissingSpatialContext if the spatial key column
// or the tile column's layer metadata was dropped upstream.
func ToRaster(d *dataset.Dataset, tileCol string, targetCols, targetRows int) (Raster, error) {
	return ToRasterWith(d, tileCol, targetCols, targetRows, NearestNeighbor)
}

// ToRasterWith is ToRaster with an explicit resampling method.
func ToRasterWith(d *dataset.Dataset, tileCol string, targetCols, targetRows int, method ResampleMethod) (Raster, error) {
	if targetCols <= 0 || targetRows <= 0 {
		return Raster{}, fmt.Errorf("invalid raster dimensions %dx%d", targetCols, targetRows)
	}
	md, err := d.TileContext(tileCol)
	if err != nil {
		return Raster{}, err
	}
	if d.NumRows() == 0 {
		return Raster{}, fmt.Errorf("cannot rasterize empty dataset")
	}

	tiles := make(map[layer.SpatialKey]cell.Tile, d.NumRows())
	var union layer.Extent
	for i := 0; i < d.NumRows(); i++ {
		k, err := d.KeyAt(i)
		if err != nil {
			return Raster{}, err
		}
		t, err := d.TileAt(i, tileCol)
		if err != nil {
			return Raster{}, err
		}
		tiles[k] = t
		footprint := md.TileExtent(k)
		if i == 0 {
			union = footprint
		} else {
			union = union.Union(footprint)
		}
	}

	if md.DataExtent != nil {
		if cropped, ok := union.Intersection(*md.DataExtent); ok {
			union = cropped
		}
	}

	typ := md.CellType
	ocw := union.Width() / float64(targetCols)
	och := union.Height() / float64(targetRows)
	values := make([]float64, targetCols*targetRows)
	for r := 0; r < targetRows; r++ {
		y := union.YMax - (float64(r)+0.5)*och
		for c := 0; c < targetCols; c++ {
			x := union.XMin + (float64(c)+0.5)*ocw
			values[r*targetCols+c] = sample(md, tiles, typ, x, y, method)
		}
	}
	t, err := cell.NewTile(typ, targetCols, targetRows, values)
	if err != nil {
		return Raster{}, err
	}
	return Raster{Tile: t, Extent: union, CRS: md.CRS}, nil
}

// sample resolves the value at world point (x, y), or the no-data
// sentinel when no source tile covers it.
func sample(md layer.Metadata, tiles map[layer.SpatialKey]cell.Tile, typ cell.Type, x, y float64, method ResampleMethod) float64 {
	key, err := md.KeyAt(x, y)
	if err != nil {
		return typ.NoData()
	}
	t, ok := tiles[key]
	if !ok {
		return typ.NoData()
	}
	footprint := md.TileExtent(key)
	scw := footprint.Width() / float64(t.Cols())
	sch := footprint.Height() / float64(t.Rows())
	fx := (x - footprint.XMin) / scw
	fy := (footprint.YMax - y) / sch

	if method == Bilinear {
		return bilinear(t, typ, fx, fy)
	}

	sc := clamp(int(fx), 0, t.Cols()-1)
	sr := clamp(int(fy), 0, t.Rows()-1)
	v, err := t.At(sc, sr)
	if err != nil || t.IsNoData(v) {
		return typ.NoData()
	}
	return v
}

// bilinear samples a tile at fractional cell coordinates (fx, fy),
// blending the four surrounding cell centers. The neighborhood clamps at
// the tile edge rather than reaching into adjacent tiles.
func bilinear(t cell.Tile, typ cell.Type, fx, fy float64) float64 {
	gx := fx - 0.5
	gy := fy - 0.5
	c0 := clamp(int(gx), 0, t.Cols()-1)
	r0 := clamp(int(gy), 0, t.Rows()-1)
	c1 := clamp(c0+1, 0, t.Cols()-1)
	r1 := clamp(r0+1, 0, t.Rows()-1)
	wx := gx - float64(c0)
	wy := gy - float64(r0)
	if wx < 0 {
		wx = 0
	}
	if wy < 0 {
		wy = 0
	}

	var sum, weight float64
	corners := [4]struct {
		c, r int
		w    float64
	}{
		{c0, r0, (1 - wx) * (1 - wy)},
		{c1, r0, wx * (1 - wy)},
		{c0, r1, (1 - wx) * wy},
		{c1, r1, wx * wy},
	}
	for _, corner := range corners {
		v, err := t.At(corner.c, corner.r)
		if err != nil || t.IsNoData(v) {
			continue
		}
		sum += v * corner.w
		weight += corner.w
	}
	if weight == 0 {
		return typ.NoData()
	}
	return sum / weight
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
