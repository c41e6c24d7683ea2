package agg

import (
	"sort"

	"github.com/telluric/tilecat/cell"
	"github.com/telluric/tilecat/dataset"
)

// Histogram counts occurrences of exact cell values. Buckets are keyed by
// value, so merging two partial histograms with matching keys is exact
// regardless of merge order.
type Histogram struct {
	counts map[float64]int64
	total  int64
}

// NewHistogram returns an empty histogram.
func NewHistogram() *Histogram {
	return &Histogram{counts: make(map[float64]int64)}
}

// Add counts one occurrence of v.
func (h *Histogram) Add(v float64) {
	h.counts[v]++
	h.total++
}

// CountOf returns the number of occurrences of v.
func (h *Histogram) CountOf(v float64) int64 { return h.counts[v] }

// ItemCount returns the total number of values counted.
func (h *Histogram) ItemCount() int64 { return h.total }

// Merge folds another histogram into this one.
func (h *Histogram) Merge(o *Histogram) {
	for v, n := range o.counts {
		h.counts[v] += n
	}
	h.total += o.total
}

// Values returns the distinct values seen, in ascending order.
func (h *Histogram) Values() []float64 {
	values := make([]float64, 0, len(h.counts))
	for v := range h.counts {
		values = append(values, v)
	}
	sort.Float64s(values)
	return values
}

// AddTile counts every non-no-data cell of a tile.
func (h *Histogram) AddTile(t cell.Tile) {
	for _, v := range t.Cells() {
		if t.IsNoData(v) {
			continue
		}
		h.Add(v)
	}
}

// AggHistogram merges every non-no-data cell value from every tile in the
// named column into one histogram.
func AggHistogram(d *dataset.Dataset, tileCol string) (*Histogram, error) {
	h := NewHistogram()
	for i := 0; i < d.NumRows(); i++ {
		t, err := d.TileAt(i, tileCol)
		if err != nil {
			return nil, err
		}
		h.AddTile(t)
	}
	return h, nil
}
