package algebra

import (
	"errors"
	"math"
	"testing"

	"github.com/telluric/tilecat/cell"
	"github.com/telluric/tilecat/dataset"
)

func mustTile(t *testing.T, typ cell.Type, cols, rows int, values []float64) cell.Tile {
	t.Helper()
	tile, err := cell.NewTile(typ, cols, rows, values)
	if err != nil {
		t.Fatalf("NewTile() error = %v", err)
	}
	return tile
}

func TestAdd(t *testing.T) {
	a := mustTile(t, cell.Int32, 2, 2, []float64{1, 2, 3, 4})
	b := mustTile(t, cell.Int32, 2, 2, []float64{10, 20, 30, 40})

	sum, err := Add(a, b)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if sum.Type() != cell.Int32 {
		t.Errorf("result type = %v, want int32: identical input types are kept", sum.Type())
	}
	want := []float64{11, 22, 33, 44}
	for i, v := range sum.Cells() {
		if v != want[i] {
			t.Errorf("cell %d = %g, want %g", i, v, want[i])
		}
	}
}

func TestAddTypePromotion(t *testing.T) {
	a := mustTile(t, cell.Int16, 1, 2, []float64{1, 2})
	b := mustTile(t, cell.Float32, 1, 2, []float64{0.5, 0.25})

	sum, err := Add(a, b)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if sum.Type() != cell.Float64 {
		t.Errorf("result type = %v, want float64: mixed input types promote", sum.Type())
	}
	if got := sum.Cells(); got[0] != 1.5 || got[1] != 2.25 {
		t.Errorf("cells = %v, want [1.5 2.25]", got)
	}
}

// TestAddIntegerOverflow verifies that an integer sum past the cell
// type's range saturates instead of wrapping, and never collides with the
// no-data sentinel.
func TestAddIntegerOverflow(t *testing.T) {
	a := mustTile(t, cell.Int16, 1, 3, []float64{30000, -30000, -30000})
	b := mustTile(t, cell.Int16, 1, 3, []float64{30000, -30000, -2768})

	sum, err := Add(a, b)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	cells := sum.Cells()
	if cells[0] != math.MaxInt16 {
		t.Errorf("cell 0 = %g, want %d: positive overflow saturates", cells[0], math.MaxInt16)
	}
	if cells[1] != math.MinInt16+1 {
		t.Errorf("cell 1 = %g, want %d: negative overflow saturates", cells[1], math.MinInt16+1)
	}
	// -30000 + -2768 is exactly the sentinel value; it must come out as
	// the nearest data value, not as a fabricated no-data cell.
	if sum.IsNoData(cells[2]) {
		t.Errorf("cell 2 = %g, must not be no-data", cells[2])
	}
	if cells[2] != math.MinInt16+1 {
		t.Errorf("cell 2 = %g, want %d", cells[2], math.MinInt16+1)
	}
}

func TestSubtract(t *testing.T) {
	a := mustTile(t, cell.Float64, 1, 3, []float64{10, 20, 30})
	b := mustTile(t, cell.Float64, 1, 3, []float64{1, 2, 3})

	diff, err := Subtract(a, b)
	if err != nil {
		t.Fatalf("Subtract() error = %v", err)
	}
	want := []float64{9, 18, 27}
	for i, v := range diff.Cells() {
		if v != want[i] {
			t.Errorf("cell %d = %g, want %g", i, v, want[i])
		}
	}
}

func TestNoDataPropagation(t *testing.T) {
	nd := cell.Int16.NoData()
	a := mustTile(t, cell.Int16, 2, 2, []float64{nd, 2, 3, 4})
	b := mustTile(t, cell.Int16, 2, 2, []float64{10, nd, 30, 40})

	sum, err := Add(a, b)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	cells := sum.Cells()
	if !sum.IsNoData(cells[0]) {
		t.Errorf("cell 0 = %g, want no-data: left input was no-data", cells[0])
	}
	if !sum.IsNoData(cells[1]) {
		t.Errorf("cell 1 = %g, want no-data: right input was no-data", cells[1])
	}
	if cells[2] != 33 || cells[3] != 44 {
		t.Errorf("data cells = %g/%g, want 33/44", cells[2], cells[3])
	}
}

func TestDimensionMismatch(t *testing.T) {
	a := mustTile(t, cell.Float64, 2, 2, []float64{1, 2, 3, 4})
	b := mustTile(t, cell.Float64, 3, 1, []float64{1, 2, 3})

	if _, err := Add(a, b); !errors.Is(err, cell.ErrDimensionMismatch) {
		t.Errorf("Add() error = %v, want ErrDimensionMismatch", err)
	}
}

func TestMap(t *testing.T) {
	nd := cell.Int32.NoData()
	in := mustTile(t, cell.Int32, 2, 2, []float64{1, 2, nd, 4})

	out := Map(in, func(v float64) float64 { return v * 10 })
	if out.Type() != cell.Int32 {
		t.Errorf("result type = %v, want int32", out.Type())
	}
	cells := out.Cells()
	if cells[0] != 10 || cells[1] != 20 || cells[3] != 40 {
		t.Errorf("cells = %v, want mapped values", cells)
	}
	if !out.IsNoData(cells[2]) {
		t.Errorf("cell 2 = %g, want no-data: map skips no-data cells", cells[2])
	}
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		op     string
		inputs []string
		want   string
	}{
		{"local_add", []string{"red", "nir"}, "local_add(red, nir)"},
		{"normalized_difference", []string{"nir", "red"}, "normalized_difference(nir, red)"},
		{"rescale", []string{"band_1"}, "rescale(band_1)"},
	}
	for _, tt := range tests {
		if got := ColumnName(tt.op, tt.inputs...); got != tt.want {
			t.Errorf("ColumnName(%q, %v) = %q, want %q", tt.op, tt.inputs, got, tt.want)
		}
	}
}

func bandDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	rows := []map[string]interface{}{
		{
			"red": mustTile(t, cell.Float64, 1, 2, []float64{0.2, 0.4}),
			"nir": mustTile(t, cell.Float64, 1, 2, []float64{0.6, 0.4}),
		},
		{
			"red": mustTile(t, cell.Float64, 1, 2, []float64{0.1, 0.3}),
			"nir": mustTile(t, cell.Float64, 1, 2, []float64{0.9, 0.3}),
		},
	}
	return dataset.New(rows)
}

func TestLocalAdd(t *testing.T) {
	d := bandDataset(t)

	out, err := LocalAdd(d, "red", "nir")
	if err != nil {
		t.Fatalf("LocalAdd() error = %v", err)
	}
	col := "local_add(red, nir)"
	tile, err := out.TileAt(0, col)
	if err != nil {
		t.Fatalf("TileAt(%q) error = %v", col, err)
	}
	if cells := tile.Cells(); math.Abs(cells[0]-0.8) > 1e-12 || math.Abs(cells[1]-0.8) > 1e-12 {
		t.Errorf("cells = %v, want [0.8 0.8]", cells)
	}
}

func TestLocalSubtract(t *testing.T) {
	d := bandDataset(t)

	out, err := LocalSubtract(d, "nir", "red")
	if err != nil {
		t.Fatalf("LocalSubtract() error = %v", err)
	}
	tile, err := out.TileAt(1, "local_subtract(nir, red)")
	if err != nil {
		t.Fatalf("TileAt() error = %v", err)
	}
	if cells := tile.Cells(); math.Abs(cells[0]-0.8) > 1e-12 || cells[1] != 0 {
		t.Errorf("cells = %v, want [0.8 0]", cells)
	}
}

// TestLocalCombineNDVI exercises a caller-supplied binary function with
// the classic normalized difference.
func TestLocalCombineNDVI(t *testing.T) {
	d := bandDataset(t)

	out, err := LocalCombine(d, "normalized_difference", "nir", "red", func(nir, red float64) float64 {
		return (nir - red) / (nir + red)
	})
	if err != nil {
		t.Fatalf("LocalCombine() error = %v", err)
	}
	tile, err := out.TileAt(0, "normalized_difference(nir, red)")
	if err != nil {
		t.Fatalf("TileAt() error = %v", err)
	}
	cells := tile.Cells()
	if math.Abs(cells[0]-0.5) > 1e-12 {
		t.Errorf("ndvi[0] = %g, want 0.5", cells[0])
	}
	if cells[1] != 0 {
		t.Errorf("ndvi[1] = %g, want 0", cells[1])
	}
}

func TestLocalMap(t *testing.T) {
	d := bandDataset(t)

	out, err := LocalMap(d, "rescale", "red", func(v float64) float64 { return v * 100 })
	if err != nil {
		t.Fatalf("LocalMap() error = %v", err)
	}
	tile, err := out.TileAt(0, "rescale(red)")
	if err != nil {
		t.Fatalf("TileAt() error = %v", err)
	}
	if cells := tile.Cells(); cells[0] != 20 || cells[1] != 40 {
		t.Errorf("cells = %v, want [20 40]", cells)
	}
}

func TestLocalAddLazyMismatch(t *testing.T) {
	rows := []map[string]interface{}{
		{
			"red": mustTile(t, cell.Float64, 1, 1, []float64{1}),
			"nir": mustTile(t, cell.Float64, 1, 1, []float64{2}),
		},
		{
			"red": mustTile(t, cell.Float64, 1, 1, []float64{1}),
			"nir": mustTile(t, cell.Float64, 2, 1, []float64{2, 3}),
		},
	}
	_, err := LocalAdd(dataset.New(rows), "red", "nir")
	if !errors.Is(err, cell.ErrDimensionMismatch) {
		t.Errorf("LocalAdd() error = %v, want ErrDimensionMismatch", err)
	}
}
