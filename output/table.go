package output

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/telluric/tilecat/agg"
)

// RenderStats writes a descriptive-statistics accumulator as an aligned
// table.
func RenderStats(w io.Writer, s *agg.Stats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"count", "mean", "variance", "min", "max"})
	table.Append([]string{
		fmt.Sprintf("%d", s.Count()),
		fmt.Sprintf("%g", s.Mean()),
		fmt.Sprintf("%g", s.Variance()),
		fmt.Sprintf("%g", s.Min()),
		fmt.Sprintf("%g", s.Max()),
	})
	table.Render()
}

// RenderHistogram writes a histogram as a value/count table in ascending
// value order.
func RenderHistogram(w io.Writer, h *agg.Histogram) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"value", "count"})
	for _, v := range h.Values() {
		table.Append([]string{
			fmt.Sprintf("%g", v),
			fmt.Sprintf("%d", h.CountOf(v)),
		})
	}
	table.Render()
}
