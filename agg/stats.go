// Package agg implements the tile aggregation engine: descriptive
// statistics and histograms over every cell of a tile column, cell-local
// reductions across tiles, and per-row data/no-data cell counts.
//
// Every global reduction is built from pairwise-mergeable partial
// accumulators. Merging is associative and commutative, so any
// partitioning of the input and any merge-tree shape produce the same
// result — that is what lets these aggregations run map-then-combine over
// a distributed dataset.
package agg

import (
	"math"

	"github.com/telluric/tilecat/cell"
	"github.com/telluric/tilecat/dataset"
)

// Stats is a mergeable accumulator of descriptive statistics. The zero
// value is ready to use. Variance is tracked with Welford's method so
// partial accumulators combine without error growth.
type Stats struct {
	count int64
	mean  float64
	m2    float64
	min   float64
	max   float64
}

// Add folds one value into the accumulator.
func (s *Stats) Add(v float64) {
	if s.count == 0 {
		s.min, s.max = v, v
	} else {
		s.min = math.Min(s.min, v)
		s.max = math.Max(s.max, v)
	}
	s.count++
	delta := v - s.mean
	s.mean += delta / float64(s.count)
	s.m2 += delta * (v - s.mean)
}

// Merge folds another accumulator into this one. Merge order does not
// affect the result beyond floating-point rounding.
func (s *Stats) Merge(o *Stats) {
	if o.count == 0 {
		return
	}
	if s.count == 0 {
		*s = *o
		return
	}
	total := s.count + o.count
	delta := o.mean - s.mean
	s.m2 += o.m2 + delta*delta*float64(s.count)*float64(o.count)/float64(total)
	s.mean += delta * float64(o.count) / float64(total)
	s.count = total
	s.min = math.Min(s.min, o.min)
	s.max = math.Max(s.max, o.max)
}

// Count returns the number of values folded in.
func (s *Stats) Count() int64 { return s.count }

// Mean returns the arithmetic mean, or NaN for an empty accumulator.
func (s *Stats) Mean() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.mean
}

// Variance returns the population variance, or NaN for an empty
// accumulator.
func (s *Stats) Variance() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.m2 / float64(s.count)
}

// Min returns the smallest value seen, or NaN for an empty accumulator.
func (s *Stats) Min() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.min
}

// Max returns the largest value seen, or NaN for an empty accumulator.
func (s *Stats) Max() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.max
}

// AddTile folds every non-no-data cell of a tile into the accumulator.
func (s *Stats) AddTile(t cell.Tile) {
	for _, v := range t.Cells() {
		if t.IsNoData(v) {
			continue
		}
		s.Add(v)
	}
}

// AggStats reduces every non-no-data cell of every tile in the named
// column into one statistics accumulator.
func AggStats(d *dataset.Dataset, tileCol string) (*Stats, error) {
	s := &Stats{}
	for i := 0; i < d.NumRows(); i++ {
		t, err := d.TileAt(i, tileCol)
		if err != nil {
			return nil, err
		}
		s.AddTile(t)
	}
	return s, nil
}
