package agg

import (
	"math"
	"math/rand"
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

func tileColumn(t *testing.T, tiles ...cell.Tile) *dataset.Dataset {
	t.Helper()
	rows := make([]map[string]interface{}, len(tiles))
	for i, tile := range tiles {
		rows[i] = map[string]interface{}{"tile": tile}
	}
	return dataset.New(rows)
}

func TestStatsAdd(t *testing.T) {
	var s Stats
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Add(v)
	}

	if s.Count() != 8 {
		t.Errorf("Count() = %d, want 8", s.Count())
	}
	if got := s.Mean(); math.Abs(got-5) > 1e-12 {
		t.Errorf("Mean() = %g, want 5", got)
	}
	if got := s.Variance(); math.Abs(got-4) > 1e-12 {
		t.Errorf("Variance() = %g, want 4", got)
	}
	if s.Min() != 2 || s.Max() != 9 {
		t.Errorf("Min()/Max() = %g/%g, want 2/9", s.Min(), s.Max())
	}
}

func TestStatsEmpty(t *testing.T) {
	var s Stats
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
	for name, got := range map[string]float64{
		"Mean":     s.Mean(),
		"Variance": s.Variance(),
		"Min":      s.Min(),
		"Max":      s.Max(),
	} {
		if !math.IsNaN(got) {
			t.Errorf("%s() on empty accumulator = %g, want NaN", name, got)
		}
	}
}

// TestStatsMergePartitions verifies that any partitioning of the input
// merges to the same result as a single sequential pass.
func TestStatsMergePartitions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := make([]float64, 1000)
	for i := range values {
		values[i] = rng.NormFloat64()*50 + 12
	}

	var whole Stats
	for _, v := range values {
		whole.Add(v)
	}

	for _, parts := range []int{2, 3, 7, 100} {
		partials := make([]Stats, parts)
		for i, v := range values {
			partials[i%parts].Add(v)
		}
		// Merge right-to-left to exercise a different tree shape than
		// plain left folding.
		var merged Stats
		for i := len(partials) - 1; i >= 0; i-- {
			merged.Merge(&partials[i])
		}

		if merged.Count() != whole.Count() {
			t.Errorf("parts=%d: Count() = %d, want %d", parts, merged.Count(), whole.Count())
		}
		if math.Abs(merged.Mean()-whole.Mean()) > 1e-9 {
			t.Errorf("parts=%d: Mean() = %g, want %g", parts, merged.Mean(), whole.Mean())
		}
		if math.Abs(merged.Variance()-whole.Variance()) > 1e-6 {
			t.Errorf("parts=%d: Variance() = %g, want %g", parts, merged.Variance(), whole.Variance())
		}
		if merged.Min() != whole.Min() || merged.Max() != whole.Max() {
			t.Errorf("parts=%d: Min()/Max() = %g/%g, want %g/%g",
				parts, merged.Min(), merged.Max(), whole.Min(), whole.Max())
		}
	}
}

func TestStatsMergeEmpty(t *testing.T) {
	var a, b Stats
	a.Add(3)
	a.Add(5)

	a.Merge(&b)
	if a.Count() != 2 || a.Mean() != 4 {
		t.Errorf("merging empty changed the accumulator: count=%d mean=%g", a.Count(), a.Mean())
	}

	b.Merge(&a)
	if b.Count() != 2 || b.Mean() != 4 {
		t.Errorf("merging into empty: count=%d mean=%g, want 2 and 4", b.Count(), b.Mean())
	}
}

func TestAggStats(t *testing.T) {
	nd := cell.Int16.NoData()
	d := tileColumn(t,
		mustTile(t, cell.Int16, 2, 2, []float64{1, 2, nd, 4}),
		mustTile(t, cell.Int16, 2, 2, []float64{5, nd, nd, 8}),
	)

	s, err := AggStats(d, "tile")
	if err != nil {
		t.Fatalf("AggStats() error = %v", err)
	}
	if s.Count() != 5 {
		t.Errorf("Count() = %d, want 5: no-data cells must be excluded", s.Count())
	}
	if math.Abs(s.Mean()-4) > 1e-12 {
		t.Errorf("Mean() = %g, want 4", s.Mean())
	}
	if s.Min() != 1 || s.Max() != 8 {
		t.Errorf("Min()/Max() = %g/%g, want 1/8", s.Min(), s.Max())
	}

	if _, err := AggStats(d, "absent"); err == nil {
		t.Error("AggStats on a missing column should fail")
	}
}

func TestHistogram(t *testing.T) {
	h := NewHistogram()
	for _, v := range []float64{1, 2, 2, 3, 3, 3} {
		h.Add(v)
	}

	if h.ItemCount() != 6 {
		t.Errorf("ItemCount() = %d, want 6", h.ItemCount())
	}
	for v, want := range map[float64]int64{1: 1, 2: 2, 3: 3, 9: 0} {
		if got := h.CountOf(v); got != want {
			t.Errorf("CountOf(%g) = %d, want %d", v, got, want)
		}
	}

	values := h.Values()
	if len(values) != 3 || values[0] != 1 || values[1] != 2 || values[2] != 3 {
		t.Errorf("Values() = %v, want [1 2 3]", values)
	}
}

func TestHistogramMerge(t *testing.T) {
	a, b := NewHistogram(), NewHistogram()
	for _, v := range []float64{1, 1, 2} {
		a.Add(v)
	}
	for _, v := range []float64{2, 3} {
		b.Add(v)
	}

	a.Merge(b)
	if a.ItemCount() != 5 {
		t.Errorf("ItemCount() = %d, want 5", a.ItemCount())
	}
	if a.CountOf(1) != 2 || a.CountOf(2) != 2 || a.CountOf(3) != 1 {
		t.Errorf("merged counts = %d/%d/%d, want 2/2/1", a.CountOf(1), a.CountOf(2), a.CountOf(3))
	}
}

func TestAggHistogram(t *testing.T) {
	nd := cell.UInt8.NoData()
	d := tileColumn(t,
		mustTile(t, cell.UInt8, 2, 2, []float64{10, 10, 20, nd}),
		mustTile(t, cell.UInt8, 2, 2, []float64{20, 30, nd, nd}),
	)

	h, err := AggHistogram(d, "tile")
	if err != nil {
		t.Fatalf("AggHistogram() error = %v", err)
	}
	if h.ItemCount() != 5 {
		t.Errorf("ItemCount() = %d, want 5", h.ItemCount())
	}
	if h.CountOf(10) != 2 || h.CountOf(20) != 2 || h.CountOf(30) != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/2/1", h.CountOf(10), h.CountOf(20), h.CountOf(30))
	}
	if h.CountOf(nd) != 0 {
		t.Errorf("no-data value counted %d times", h.CountOf(nd))
	}
}
